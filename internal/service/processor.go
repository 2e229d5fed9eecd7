// processor.go — оркестратор пайплайна обработки встречи.
//
// Жизненный цикл: pending → processing → {completed | failed}.
// Успех пишется одним атомарным обновлением (транскрипт + анализ +
// completed + processed_at). При ошибке стадии существование встречи
// перепроверяется: пользователь мог удалить её во время обработки,
// тогда запись статуса пропускается. Исходная ошибка стадии всегда
// возвращается вызывающему воркеру, который её только логирует.
//
// Prometheus-метрики:
//   - mn_meetings_processed_total{status} — завершённые обработки
//   - mn_processing_duration_seconds{stage} — длительность стадий
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/meetnotes/internal/domain/model"
	"github.com/bigkaa/meetnotes/internal/domain/status"
	"github.com/bigkaa/meetnotes/internal/repository"
	"github.com/bigkaa/meetnotes/internal/retry"
)

// maxLastErrorLen — потолок длины текста ошибки в колонке last_error.
const maxLastErrorLen = 500

// Prometheus-метрики пайплайна обработки.
var (
	meetingsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mn_meetings_processed_total",
		Help: "Количество завершённых обработок встреч по итоговому статусу",
	}, []string{"status"}) // status: completed, failed

	processingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mn_processing_duration_seconds",
		Help:    "Длительность стадий обработки встречи",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s … ~1024s
	}, []string{"stage"}) // stage: transcribe, analyze, total
)

// Transcriber — стадия транскрипции (для подмены в тестах).
type Transcriber interface {
	Transcribe(ctx context.Context, recordingURL string) (string, error)
}

// Analyzer — стадия анализа транскрипта (для подмены в тестах).
type Analyzer interface {
	Analyze(ctx context.Context, title, transcript string) (*model.AnalysisResult, error)
}

// Processor — оркестратор обработки встречи.
type Processor struct {
	repo        repository.MeetingRepository
	transcriber Transcriber
	analyzer    Analyzer
	storeExec   *retry.Executor // критичные записи БД: 1-3 повтора, fast
	readExec    *retry.Executor // чтения БД: без повторов, fail fast
	logger      *slog.Logger
}

// NewProcessor создаёт оркестратор пайплайна.
func NewProcessor(
	repo repository.MeetingRepository,
	transcriber Transcriber,
	analyzer Analyzer,
	storeExec, readExec *retry.Executor,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		repo:        repo,
		transcriber: transcriber,
		analyzer:    analyzer,
		storeExec:   storeExec,
		readExec:    readExec,
		logger:      logger.With(slog.String("component", "processor")),
	}
}

// Process выполняет полный пайплайн обработки встречи.
//
// Отсутствие встречи или записи — фатальная ошибка без записи статуса.
// Ошибка транскрипции или анализа переводит встречу в failed (если она
// ещё существует) и возвращается вызывающему.
func (p *Processor) Process(ctx context.Context, meetingID string) error {
	startedAt := time.Now()
	log := p.logger.With(slog.String("meeting_id", meetingID))

	// Загрузка встречи — без скоупа владельца: пайплайн работает от системы.
	var meeting *model.Meeting
	err := p.readExec.Do(ctx, "get_meeting", retry.Database, func(ctx context.Context) error {
		var loadErr error
		meeting, loadErr = p.repo.GetAnyByID(ctx, meetingID)
		return loadErr
	})
	if err != nil {
		return fmt.Errorf("встреча не загружена: %w", err)
	}
	if meeting.RecordingURL == nil || *meeting.RecordingURL == "" {
		return fmt.Errorf("у встречи %s нет URL записи", meetingID)
	}

	// pending → processing (повторный запуск из processing идемпотентен).
	err = p.storeExec.Do(ctx, "set_processing", retry.Database, func(ctx context.Context) error {
		return p.repo.UpdateStatus(ctx, meetingID, status.Processing, nil)
	})
	if err != nil {
		return fmt.Errorf("не удалось перевести встречу в processing: %w", err)
	}

	// Стадия 1: транскрипция.
	log.Info("Транскрипция встречи начата")
	stageStart := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, *meeting.RecordingURL)
	if err != nil {
		return p.fail(ctx, meetingID, "transcribe", err)
	}
	processingDuration.WithLabelValues("transcribe").Observe(time.Since(stageStart).Seconds())

	// Стадия 2: анализ.
	log.Info("Анализ транскрипта начат")
	stageStart = time.Now()
	analysis, err := p.analyzer.Analyze(ctx, meeting.Title, transcript)
	if err != nil {
		return p.fail(ctx, meetingID, "analyze", err)
	}
	processingDuration.WithLabelValues("analyze").Observe(time.Since(stageStart).Seconds())

	// Единственная запись результатов: processing → completed.
	err = p.storeExec.Do(ctx, "write_result", retry.Database, func(ctx context.Context) error {
		return p.repo.UpdateProcessingResult(ctx, meetingID, transcript, analysis)
	})
	if err != nil {
		return p.fail(ctx, meetingID, "persist", err)
	}

	meetingsProcessedTotal.WithLabelValues("completed").Inc()
	processingDuration.WithLabelValues("total").Observe(time.Since(startedAt).Seconds())

	log.Info("Обработка встречи завершена",
		slog.String("duration", time.Since(startedAt).String()),
	)

	return nil
}

// fail переводит встречу в failed и возвращает исходную ошибку стадии.
//
// Перед записью статуса существование встречи перепроверяется:
// если пользователь удалил её во время обработки, запись пропускается.
// Ошибки самой записи статуса логируются, но не подменяют исходную.
func (p *Processor) fail(ctx context.Context, meetingID, stage string, stageErr error) error {
	log := p.logger.With(
		slog.String("meeting_id", meetingID),
		slog.String("stage", stage),
	)
	log.Error("Ошибка обработки встречи", slog.String("error", stageErr.Error()))
	meetingsProcessedTotal.WithLabelValues("failed").Inc()

	var exists bool
	err := p.readExec.Do(ctx, "exists_meeting", retry.Database, func(ctx context.Context) error {
		var exErr error
		exists, exErr = p.repo.Exists(ctx, meetingID)
		return exErr
	})
	if err != nil {
		log.Warn("Не удалось проверить существование встречи",
			slog.String("error", err.Error()))
		return stageErr
	}
	if !exists {
		log.Warn("Встреча удалена во время обработки, запись статуса пропущена")
		return stageErr
	}

	lastErr := truncateError(stageErr)
	err = p.storeExec.Do(ctx, "set_failed", retry.Database, func(ctx context.Context) error {
		return p.repo.UpdateStatus(ctx, meetingID, status.Failed, &lastErr)
	})
	if err != nil {
		// Гонка с удалением или терминальным статусом — не ошибка пайплайна.
		var te *status.TransitionError
		if !errors.Is(err, repository.ErrNotFound) && !errors.As(err, &te) {
			log.Error("Не удалось перевести встречу в failed",
				slog.String("error", err.Error()))
		}
	}

	return stageErr
}

// truncateError обрезает текст ошибки до потолка колонки last_error.
func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > maxLastErrorLen {
		return msg[:maxLastErrorLen]
	}
	return msg
}
