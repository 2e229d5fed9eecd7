package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/meetnotes/internal/domain/model"
	"github.com/bigkaa/meetnotes/internal/domain/status"
)

// MeetingRepository — доступ к таблице meetings.
// Операции чтения и изменения, доступные пользователю, скоупятся
// по owner_id; варианты без скоупа предназначены для пайплайна обработки.
type MeetingRepository interface {
	// Create создаёт встречу в статусе pending.
	Create(ctx context.Context, m *model.Meeting) error
	// GetByID возвращает встречу владельца по UUID.
	GetByID(ctx context.Context, ownerID, id string) (*model.Meeting, error)
	// GetAnyByID возвращает встречу без проверки владельца (для пайплайна).
	GetAnyByID(ctx context.Context, id string) (*model.Meeting, error)
	// Exists проверяет существование встречи (для пайплайна).
	Exists(ctx context.Context, id string) (bool, error)
	// UpdateContent частично обновляет title и description.
	// Переданные nil-поля не изменяются.
	UpdateContent(ctx context.Context, ownerID, id string, title, description *string) (*model.Meeting, error)
	// UpdateStatus переводит встречу в новый статус с проверкой допустимости
	// перехода на уровне SQL. lastError записывается при переходе в failed.
	UpdateStatus(ctx context.Context, id string, to status.Status, lastError *string) error
	// UpdateProcessingResult атомарно записывает транскрипт и результаты
	// анализа, переводя встречу processing → completed.
	UpdateProcessingResult(ctx context.Context, id string, transcript string, res *model.AnalysisResult) error
	// Delete удаляет встречу владельца.
	Delete(ctx context.Context, ownerID, id string) error
	// ListRecent возвращает последние встречи владельца по дате создания.
	ListRecent(ctx context.Context, ownerID string, limit int) ([]*model.Meeting, error)
	// CountCreatedSince считает встречи владельца, созданные после since
	// (для проверки лимитов тарифа).
	CountCreatedSince(ctx context.Context, ownerID string, since time.Time) (int, error)
}

// meetingRepo — реализация MeetingRepository.
type meetingRepo struct {
	db DBTX
}

// NewMeetingRepository создаёт репозиторий встреч.
func NewMeetingRepository(db DBTX) MeetingRepository {
	return &meetingRepo{db: db}
}

const meetingColumns = `id, owner_id, title, description, recording_url, status,
	transcript, summary, action_items, key_decisions, topics,
	duration_seconds, source, last_error, created_at, processed_at, updated_at`

// scanMeeting сканирует строку результата в модель Meeting.
// JSONB-колонки десериализуются кодеком pgx напрямую в срезы структур.
func scanMeeting(row pgx.Row) (*model.Meeting, error) {
	m := &model.Meeting{}
	err := row.Scan(
		&m.ID, &m.OwnerID, &m.Title, &m.Description, &m.RecordingURL, &m.Status,
		&m.Transcript, &m.Summary, &m.ActionItems, &m.KeyDecisions, &m.Topics,
		&m.DurationSeconds, &m.Source, &m.LastError, &m.CreatedAt, &m.ProcessedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *meetingRepo) Create(ctx context.Context, m *model.Meeting) error {
	query := `
		INSERT INTO meetings (id, owner_id, title, description, recording_url, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		m.ID, m.OwnerID, m.Title, m.Description, m.RecordingURL, m.Status, m.Source,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: встреча с таким id уже существует", ErrConflict)
		}
		return fmt.Errorf("ошибка создания встречи: %w", err)
	}
	return nil
}

func (r *meetingRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings WHERE id = $1 AND owner_id = $2`, meetingColumns)
	m, err := scanMeeting(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения встречи: %w", err)
	}
	return m, nil
}

func (r *meetingRepo) GetAnyByID(ctx context.Context, id string) (*model.Meeting, error) {
	query := fmt.Sprintf(`SELECT %s FROM meetings WHERE id = $1`, meetingColumns)
	m, err := scanMeeting(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения встречи: %w", err)
	}
	return m, nil
}

func (r *meetingRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM meetings WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки существования встречи: %w", err)
	}
	return exists, nil
}

func (r *meetingRepo) UpdateContent(ctx context.Context, ownerID, id string, title, description *string) (*model.Meeting, error) {
	query := fmt.Sprintf(`
		UPDATE meetings
		SET title       = COALESCE($3, title),
		    description = COALESCE($4, description),
		    updated_at  = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING %s`, meetingColumns)

	m, err := scanMeeting(r.db.QueryRow(ctx, query, id, ownerID, title, description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления встречи: %w", err)
	}
	return m, nil
}

func (r *meetingRepo) UpdateStatus(ctx context.Context, id string, to status.Status, lastError *string) error {
	if !status.IsValid(to) {
		return fmt.Errorf("недопустимый целевой статус: %q", to)
	}

	// Compare-and-set: допустимые исходные статусы вычисляются
	// из матрицы переходов, гонка двух обработчиков разрешается в БД.
	query := `
		UPDATE meetings
		SET status     = $2,
		    last_error = CASE WHEN $3::text IS NOT NULL THEN $3 ELSE last_error END,
		    updated_at = now()
		WHERE id = $1 AND status = ANY($4)
		RETURNING id`

	var updated string
	err := r.db.QueryRow(ctx, query, id, string(to), lastError, transitionSources(to)).Scan(&updated)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка смены статуса встречи: %w", err)
	}

	// Guard не сработал: различаем отсутствие записи и недопустимый переход.
	var current string
	err = r.db.QueryRow(ctx, `SELECT status FROM meetings WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("ошибка чтения статуса встречи: %w", err)
	}
	return status.Validate(status.Status(current), to)
}

func (r *meetingRepo) UpdateProcessingResult(ctx context.Context, id string, transcript string, res *model.AnalysisResult) error {
	// Единственная запись результатов: транскрипт, анализ и переход
	// в completed — одним атомарным UPDATE. Guard status = 'processing'
	// не даёт перезаписать терминальный статус.
	query := `
		UPDATE meetings
		SET status           = 'completed',
		    transcript       = $2,
		    summary          = $3,
		    action_items     = $4,
		    key_decisions    = $5,
		    topics           = $6,
		    duration_seconds = $7,
		    last_error       = NULL,
		    processed_at     = now(),
		    updated_at       = now()
		WHERE id = $1 AND status = 'processing'
		RETURNING id`

	var updated string
	err := r.db.QueryRow(ctx, query,
		id, transcript, res.Summary, res.ActionItems, res.KeyDecisions, res.Topics, res.DurationSeconds,
	).Scan(&updated)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка записи результатов обработки: %w", err)
	}

	var current string
	err = r.db.QueryRow(ctx, `SELECT status FROM meetings WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("ошибка чтения статуса встречи: %w", err)
	}
	return status.Validate(status.Status(current), status.Completed)
}

func (r *meetingRepo) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM meetings WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("ошибка удаления встречи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *meetingRepo) ListRecent(ctx context.Context, ownerID string, limit int) ([]*model.Meeting, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM meetings
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, meetingColumns)

	rows, err := r.db.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка встреч: %w", err)
	}
	defer rows.Close()

	var result []*model.Meeting
	for rows.Next() {
		m := &model.Meeting{}
		if err := rows.Scan(
			&m.ID, &m.OwnerID, &m.Title, &m.Description, &m.RecordingURL, &m.Status,
			&m.Transcript, &m.Summary, &m.ActionItems, &m.KeyDecisions, &m.Topics,
			&m.DurationSeconds, &m.Source, &m.LastError, &m.CreatedAt, &m.ProcessedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования встречи: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *meetingRepo) CountCreatedSince(ctx context.Context, ownerID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM meetings WHERE owner_id = $1 AND created_at >= $2`,
		ownerID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта встреч: %w", err)
	}
	return count, nil
}

// transitionSources возвращает статусы, из которых допустим переход в to.
func transitionSources(to status.Status) []string {
	var sources []string
	for _, from := range []status.Status{status.Pending, status.Processing, status.Completed, status.Failed} {
		if status.CanTransition(from, to) {
			sources = append(sources, string(from))
		}
	}
	return sources
}
