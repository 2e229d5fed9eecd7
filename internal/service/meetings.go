// meetings.go — сервис встреч: создание с проверкой лимитов тарифа,
// чтение (через кэш терминальных статусов), частичное обновление,
// удаление с best-effort очисткой blob-хранилища, список последних.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/meetnotes/internal/blobstore"
	"github.com/bigkaa/meetnotes/internal/domain/model"
	"github.com/bigkaa/meetnotes/internal/domain/status"
	"github.com/bigkaa/meetnotes/internal/repository"
	"github.com/bigkaa/meetnotes/internal/retry"
)

// maxListLimit — потолок размера списка встреч.
const maxListLimit = 50

// maxTitleLen — потолок длины названия встречи.
const maxTitleLen = 500

// CreateMeetingInput — входные данные создания встречи.
type CreateMeetingInput struct {
	Title        string
	Description  *string
	RecordingURL *string
	// Source — upload (по умолчанию) или teams.
	Source string
}

// UpdateMeetingInput — частичное обновление: nil-поля не изменяются.
type UpdateMeetingInput struct {
	Title       *string
	Description *string
}

// MeetingService — бизнес-логика встреч.
type MeetingService struct {
	repo     repository.MeetingRepository
	blob     *blobstore.Client
	cache    *StatusCache
	readExec *retry.Executor
	now      func() time.Time
	logger   *slog.Logger
}

// NewMeetingService создаёт сервис встреч.
func NewMeetingService(
	repo repository.MeetingRepository,
	blob *blobstore.Client,
	cache *StatusCache,
	readExec *retry.Executor,
	logger *slog.Logger,
) *MeetingService {
	return &MeetingService{
		repo:     repo,
		blob:     blob,
		cache:    cache,
		readExec: readExec,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With(slog.String("component", "meetings")),
	}
}

// Create создаёт встречу в статусе pending.
//
// Перед созданием проверяется месячный лимит тарифа (claim plan из JWT):
// free 3, starter 20, pro 100, business без лимита. Расчётный период —
// календарный месяц UTC. Превышение — *UsageLimitError.
func (s *MeetingService) Create(ctx context.Context, ownerID, plan string, in CreateMeetingInput) (*model.Meeting, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: название встречи обязательно", ErrValidation)
	}
	if len(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: название встречи длиннее %d символов", ErrValidation, maxTitleLen)
	}

	source := in.Source
	if source == "" {
		source = model.SourceUpload
	}
	if source != model.SourceUpload && source != model.SourceTeams {
		return nil, fmt.Errorf("%w: недопустимый источник %q", ErrValidation, source)
	}

	limit, planName := PlanLimit(plan)
	var used int
	err := s.readExec.Do(ctx, "count_meetings", retry.Database, func(ctx context.Context) error {
		var cntErr error
		used, cntErr = s.repo.CountCreatedSince(ctx, ownerID, startOfMonth(s.now()))
		return cntErr
	})
	if err != nil {
		return nil, fmt.Errorf("проверка лимита тарифа: %w", err)
	}
	if used >= limit {
		return nil, &UsageLimitError{Plan: planName, Limit: limit, Used: used}
	}

	m := &model.Meeting{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Title:        title,
		Description:  in.Description,
		RecordingURL: in.RecordingURL,
		Status:       string(status.Pending),
		Source:       source,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("создание встречи: %w", err)
	}

	s.logger.Info("Встреча создана",
		slog.String("meeting_id", m.ID),
		slog.String("owner_id", ownerID),
		slog.String("source", source),
		slog.String("plan", planName),
	)

	return m, nil
}

// Get возвращает встречу владельца.
// Терминальные встречи отдаются из LRU-кэша — это горячий путь
// клиентского поллера прогресса.
func (s *MeetingService) Get(ctx context.Context, ownerID, meetingID string) (*model.Meeting, error) {
	if m, ok := s.cache.Get(ownerID, meetingID); ok {
		return m, nil
	}

	var m *model.Meeting
	err := s.readExec.Do(ctx, "get_meeting", retry.Database, func(ctx context.Context) error {
		var getErr error
		m, getErr = s.repo.GetByID(ctx, ownerID, meetingID)
		return getErr
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение встречи: %w", err)
	}

	s.cache.Set(m)
	return m, nil
}

// List возвращает последние встречи владельца (до 50).
func (s *MeetingService) List(ctx context.Context, ownerID string, limit int) ([]*model.Meeting, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	var list []*model.Meeting
	err := s.readExec.Do(ctx, "list_meetings", retry.Database, func(ctx context.Context) error {
		var listErr error
		list, listErr = s.repo.ListRecent(ctx, ownerID, limit)
		return listErr
	})
	if err != nil {
		return nil, fmt.Errorf("список встреч: %w", err)
	}
	return list, nil
}

// Update частично обновляет название и описание встречи.
// Разрешено в любом статусе, включая processing: обработка никогда
// не пишет эти поля.
func (s *MeetingService) Update(ctx context.Context, ownerID, meetingID string, in UpdateMeetingInput) (*model.Meeting, error) {
	if in.Title == nil && in.Description == nil {
		return nil, fmt.Errorf("%w: нет полей для обновления", ErrValidation)
	}
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: название встречи не может быть пустым", ErrValidation)
		}
		if len(trimmed) > maxTitleLen {
			return nil, fmt.Errorf("%w: название встречи длиннее %d символов", ErrValidation, maxTitleLen)
		}
		in.Title = &trimmed
	}

	m, err := s.repo.UpdateContent(ctx, ownerID, meetingID, in.Title, in.Description)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление встречи: %w", err)
	}

	s.cache.Invalidate(ownerID, meetingID)
	return m, nil
}

// Delete удаляет встречу вместе с записью в blob-хранилище.
// Удаление blob — best-effort: ошибка логируется, но не блокирует
// удаление самой встречи.
func (s *MeetingService) Delete(ctx context.Context, ownerID, meetingID string) error {
	m, err := s.repo.GetByID(ctx, ownerID, meetingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("получение встречи перед удалением: %w", err)
	}

	if m.RecordingURL != nil && *m.RecordingURL != "" {
		if err := s.blob.Delete(ctx, *m.RecordingURL); err != nil {
			s.logger.Warn("Не удалось удалить запись из blob-хранилища",
				slog.String("meeting_id", meetingID),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.repo.Delete(ctx, ownerID, meetingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление встречи: %w", err)
	}

	s.cache.Invalidate(ownerID, meetingID)
	s.logger.Info("Встреча удалена",
		slog.String("meeting_id", meetingID),
		slog.String("owner_id", ownerID),
	)
	return nil
}
