// export.go — выгрузка протокола встречи в текстовом формате.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/bigkaa/meetnotes/internal/domain/model"
)

// FormatTXT — единственный поддерживаемый формат выгрузки.
// PDF и DOCX остаются за рамками: генерация документов — отдельная задача.
const FormatTXT = "txt"

// unsafeFilenameChars — всё, кроме латиницы и цифр, заменяется на "_".
var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Export возвращает протокол встречи и имя файла для выгрузки.
// Неподдерживаемый формат — ErrValidation.
func (s *MeetingService) Export(ctx context.Context, ownerID, meetingID, format string) (content string, filename string, err error) {
	if format == "" {
		format = FormatTXT
	}
	if format != FormatTXT {
		return "", "", fmt.Errorf("%w: формат %q не поддерживается, доступен: txt", ErrValidation, format)
	}

	m, err := s.Get(ctx, ownerID, meetingID)
	if err != nil {
		return "", "", err
	}

	filename = unsafeFilenameChars.ReplaceAllString(m.Title, "_") + ".txt"
	return renderTXT(m), filename, nil
}

// renderTXT генерирует текстовый протокол встречи.
// Секции без данных пропускаются целиком.
func renderTXT(m *model.Meeting) string {
	var b strings.Builder

	b.WriteString("MEETING NOTES\n")
	b.WriteString("=============\n\n")
	fmt.Fprintf(&b, "Title: %s\n", m.Title)
	if m.Description != nil && *m.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", *m.Description)
	}
	fmt.Fprintf(&b, "Date: %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Status: %s\n\n", m.Status)

	if m.Summary != nil && *m.Summary != "" {
		b.WriteString("SUMMARY\n")
		b.WriteString("-------\n")
		fmt.Fprintf(&b, "%s\n\n", *m.Summary)
	}

	if len(m.ActionItems) > 0 {
		b.WriteString("ACTION ITEMS\n")
		b.WriteString("------------\n")
		for i, item := range m.ActionItems {
			fmt.Fprintf(&b, "%d. %s", i+1, item.Text)
			if item.Assignee != nil && *item.Assignee != "" {
				fmt.Fprintf(&b, " (Assigned to: %s)", *item.Assignee)
			}
			if item.DueDate != nil && *item.DueDate != "" {
				fmt.Fprintf(&b, " (Due: %s)", *item.DueDate)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(m.KeyDecisions) > 0 {
		b.WriteString("KEY DECISIONS\n")
		b.WriteString("-------------\n")
		for i, d := range m.KeyDecisions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, d.Text)
		}
		b.WriteString("\n")
	}

	if len(m.Topics) > 0 {
		b.WriteString("TOPICS DISCUSSED\n")
		b.WriteString("----------------\n")
		for i, topic := range m.Topics {
			fmt.Fprintf(&b, "%d. %s", i+1, topic.Name)
			if topic.Description != nil && *topic.Description != "" {
				fmt.Fprintf(&b, ": %s", *topic.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.Transcript != nil && *m.Transcript != "" {
		b.WriteString("FULL TRANSCRIPT\n")
		b.WriteString("---------------\n")
		fmt.Fprintf(&b, "%s\n", *m.Transcript)
	}

	return b.String()
}
