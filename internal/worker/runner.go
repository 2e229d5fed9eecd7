// runner.go — фоновый исполнитель пайплайна обработки встреч.
//
// Runner принимает задачи fire-and-forget: HTTP-обработчик отвечает 202
// сразу после постановки, результат обработки клиент узнаёт поллингом
// статуса. Конкурентность ограничена семафором (MN_WORKER_MAX_CONCURRENT),
// при останове задачи дожидаются с таймаутом (MN_WORKER_DRAIN_TIMEOUT).
//
// Prometheus-метрики:
//   - mn_worker_jobs_inflight — задачи в обработке сейчас
//   - mn_worker_jobs_total — завершённые задачи (по результату)
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики фонового исполнителя.
var (
	jobsInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mn_worker_jobs_inflight",
		Help: "Количество задач обработки встреч, выполняющихся сейчас",
	})

	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mn_worker_jobs_total",
		Help: "Количество завершённых задач обработки встреч",
	}, []string{"result"}) // result: ok, error, panic
)

// ProcessFunc — пайплайн обработки одной встречи.
type ProcessFunc func(ctx context.Context, meetingID string) error

// Runner — фоновый исполнитель с ограничением конкурентности.
type Runner struct {
	process      ProcessFunc
	sem          chan struct{}
	drainTimeout time.Duration
	logger       *slog.Logger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup

	// jobCtx живёт дольше HTTP-запроса: задача не должна умирать
	// вместе с соединением клиента, получившего 202.
	jobCtx context.Context
	cancel context.CancelFunc
}

// New создаёт исполнитель. maxConcurrent — потолок одновременных задач.
func New(process ProcessFunc, maxConcurrent int, drainTimeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		process:      process,
		sem:          make(chan struct{}, maxConcurrent),
		drainTimeout: drainTimeout,
		logger:       logger.With(slog.String("component", "worker")),
	}
}

// Start подготавливает исполнитель к приёму задач.
// Вызывается один раз при старте приложения.
func (r *Runner) Start(ctx context.Context) {
	r.jobCtx, r.cancel = context.WithCancel(context.WithoutCancel(ctx))
	r.logger.Info("Фоновый исполнитель запущен",
		slog.Int("max_concurrent", cap(r.sem)),
		slog.String("drain_timeout", r.drainTimeout.String()),
	)
}

// Enqueue ставит встречу в обработку и сразу возвращается.
// При достижении потолка конкурентности задача ждёт слот в своей
// горутине, не блокируя вызывающего. После Stop задачи не принимаются.
func (r *Runner) Enqueue(meetingID string) error {
	r.mu.Lock()
	if r.stopped || r.jobCtx == nil {
		r.mu.Unlock()
		return fmt.Errorf("исполнитель остановлен, встреча %s не принята", meetingID)
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(meetingID)
	return nil
}

// run выполняет одну задачу: слот семафора, паника не роняет процесс.
func (r *Runner) run(meetingID string) {
	defer r.wg.Done()

	select {
	case r.sem <- struct{}{}:
	case <-r.jobCtx.Done():
		r.logger.Warn("Задача отменена до начала обработки",
			slog.String("meeting_id", meetingID))
		return
	}
	defer func() { <-r.sem }()

	jobsInflight.Inc()
	defer jobsInflight.Dec()

	defer func() {
		if rec := recover(); rec != nil {
			jobsTotal.WithLabelValues("panic").Inc()
			r.logger.Error("Паника при обработке встречи",
				slog.String("meeting_id", meetingID),
				slog.Any("panic", rec),
			)
		}
	}()

	if err := r.process(r.jobCtx, meetingID); err != nil {
		jobsTotal.WithLabelValues("error").Inc()
		// Подробности уже записаны пайплайном в last_error встречи
		r.logger.Warn("Обработка встречи завершилась ошибкой",
			slog.String("meeting_id", meetingID),
			slog.String("error", err.Error()),
		)
		return
	}
	jobsTotal.WithLabelValues("ok").Inc()
}

// Stop прекращает приём задач и ждёт завершения текущих.
// По истечении drain-таймаута оставшиеся задачи отменяются через контекст.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Фоновый исполнитель остановлен, все задачи завершены")
	case <-time.After(r.drainTimeout):
		r.logger.Warn("Drain-таймаут исполнителя истёк, задачи отменяются",
			slog.String("drain_timeout", r.drainTimeout.String()),
		)
		if r.cancel != nil {
			r.cancel()
		}
		<-done
	}

	if r.cancel != nil {
		r.cancel()
	}
}
