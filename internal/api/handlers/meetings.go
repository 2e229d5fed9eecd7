// meetings.go — обработчики CRUD встреч, выгрузки протокола и запуска
// асинхронной обработки. Владелец и тариф берутся из JWT claims в контексте.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/bigkaa/meetnotes/internal/api/errors"
	"github.com/bigkaa/meetnotes/internal/api/generated"
	"github.com/bigkaa/meetnotes/internal/api/middleware"
	"github.com/bigkaa/meetnotes/internal/domain/model"
	"github.com/bigkaa/meetnotes/internal/service"
)

// ListMeetings — реализация GET /api/v1/meetings.
func (h *APIHandler) ListMeetings(w http.ResponseWriter, r *http.Request, params generated.ListMeetingsParams) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
		return
	}

	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	meetings, err := h.meetings.List(r.Context(), claims.Subject, limit)
	if err != nil {
		h.respondServiceError(w, "получение списка встреч", err)
		return
	}

	resp := generated.MeetingList{Meetings: make([]generated.Meeting, 0, len(meetings))}
	for _, m := range meetings {
		resp.Meetings = append(resp.Meetings, toAPIMeeting(m))
	}

	writeJSON(w, http.StatusOK, resp)
}

// CreateMeeting — реализация POST /api/v1/meetings.
// Возвращает 201 сразу: обработка запускается отдельным вызовом process.
func (h *APIHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
		return
	}

	var req generated.CreateMeetingJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	m, err := h.meetings.Create(r.Context(), claims.Subject, claims.Plan, service.CreateMeetingInput{
		Title:        req.Title,
		Description:  req.Description,
		RecordingURL: req.RecordingUrl,
		Source:       model.SourceUpload,
	})
	if err != nil {
		h.respondServiceError(w, "создание встречи", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAPIMeeting(m))
}

// GetMeeting — реализация GET /api/v1/meetings/{meetingId}.
// Горячий путь клиентского поллера прогресса обработки.
func (h *APIHandler) GetMeeting(w http.ResponseWriter, r *http.Request, meetingID generated.MeetingId) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
		return
	}

	m, err := h.meetings.Get(r.Context(), claims.Subject, meetingID.String())
	if err != nil {
		h.respondServiceError(w, "получение встречи", err)
		return
	}

	writeJSON(w, http.StatusOK, toAPIMeeting(m))
}

// UpdateMeeting — реализация PATCH /api/v1/meetings/{meetingId}.
// Обновляются только название и описание; поля обработки неизменяемы.
func (h *APIHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request, meetingID generated.MeetingId) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
		return
	}

	var req generated.UpdateMeetingJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}

	m, err := h.meetings.Update(r.Context(), claims.Subject, meetingID.String(), service.UpdateMeetingInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.respondServiceError(w, "обновление встречи", err)
		return
	}

	writeJSON(w, http.StatusOK, toAPIMeeting(m))
}

// DeleteMeeting — реализация DELETE /api/v1/meetings/{meetingId}.
func (h *APIHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request, meetingID generated.MeetingId) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
		return
	}

	if err := h.meetings.Delete(r.Context(), claims.Subject, meetingID.String()); err != nil {
		h.respondServiceError(w, "удаление встречи", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportMeeting — реализация GET /api/v1/meetings/{meetingId}/export.
// Протокол отдаётся как attachment с именем файла из названия встречи.
func (h *APIHandler) ExportMeeting(w http.ResponseWriter, r *http.Request, meetingID generated.MeetingId, params generated.ExportMeetingParams) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
		return
	}

	format := ""
	if params.Format != nil {
		format = string(*params.Format)
	}

	content, filename, err := h.meetings.Export(r.Context(), claims.Subject, meetingID.String(), format)
	if err != nil {
		h.respondServiceError(w, "выгрузка протокола встречи", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

// ProcessMeeting — реализация POST /api/v1/meetings/{meetingId}/process.
// Ставит встречу в фоновую обработку и возвращает 202 сразу: результат
// и ошибки наблюдаются только через поллинг GET встречи.
func (h *APIHandler) ProcessMeeting(w http.ResponseWriter, r *http.Request, meetingID generated.MeetingId) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		apierrors.Unauthorized(w, "Отсутствуют claims в контексте")
		return
	}

	// Скоуп владельца проверяется до постановки в очередь
	m, err := h.meetings.Get(r.Context(), claims.Subject, meetingID.String())
	if err != nil {
		h.respondServiceError(w, "получение встречи перед обработкой", err)
		return
	}
	if m.RecordingURL == nil || *m.RecordingURL == "" {
		apierrors.ValidationError(w, "У встречи нет URL записи для обработки")
		return
	}

	if err := h.runner.Enqueue(m.ID); err != nil {
		h.logger.Error("Не удалось поставить встречу в обработку",
			slog.String("meeting_id", m.ID),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Сервис останавливается, попробуйте позже")
		return
	}

	h.logger.Info("Встреча поставлена в обработку",
		slog.String("meeting_id", m.ID),
		slog.String("owner_id", claims.Subject),
	)

	writeJSON(w, http.StatusAccepted, generated.ProcessAccepted{
		MeetingId: meetingID,
		Status:    generated.ProcessAcceptedStatusProcessing,
	})
}

// respondServiceError маппит ошибки сервисного слоя в HTTP-ответы.
func (h *APIHandler) respondServiceError(w http.ResponseWriter, op string, err error) {
	var usageErr *service.UsageLimitError
	var sizeErr *service.FileTooLargeError

	switch {
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Встреча не найдена")
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.As(err, &usageErr):
		apierrors.UsageLimitExceeded(w, usageErr.Error())
	case errors.As(err, &sizeErr):
		apierrors.FileTooLarge(w, sizeErr.Error())
	case errors.Is(err, service.ErrAIUnavailable):
		apierrors.AIUnavailable(w, "AI-провайдер недоступен, попробуйте позже")
	default:
		h.logger.Error("Ошибка сервисного слоя",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка сервиса")
	}
}

// toAPIMeeting конвертирует domain модель в API-тип Meeting.
func toAPIMeeting(m *model.Meeting) generated.Meeting {
	id, _ := uuid.Parse(m.ID)

	resp := generated.Meeting{
		Id:              id,
		Title:           m.Title,
		Description:     m.Description,
		RecordingUrl:    m.RecordingURL,
		Status:          generated.MeetingStatus(m.Status),
		Source:          generated.MeetingSource(m.Source),
		Transcript:      m.Transcript,
		Summary:         m.Summary,
		DurationSeconds: m.DurationSeconds,
		CreatedAt:       m.CreatedAt,
		ProcessedAt:     m.ProcessedAt,
		UpdatedAt:       m.UpdatedAt,
	}

	if m.ActionItems != nil {
		items := make([]generated.ActionItem, 0, len(m.ActionItems))
		for _, it := range m.ActionItems {
			items = append(items, generated.ActionItem{
				Text:     it.Text,
				Assignee: it.Assignee,
				DueDate:  it.DueDate,
			})
		}
		resp.ActionItems = &items
	}

	if m.KeyDecisions != nil {
		decisions := make([]generated.KeyDecision, 0, len(m.KeyDecisions))
		for _, d := range m.KeyDecisions {
			decisions = append(decisions, generated.KeyDecision{Text: d.Text})
		}
		resp.KeyDecisions = &decisions
	}

	if m.Topics != nil {
		topics := make([]generated.Topic, 0, len(m.Topics))
		for _, tp := range m.Topics {
			topics = append(topics, generated.Topic{
				Name:        tp.Name,
				Description: tp.Description,
			})
		}
		resp.Topics = &topics
	}

	return resp
}
