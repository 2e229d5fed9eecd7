// Пакет retry — исполнитель повторов для внешних вызовов.
//
// Два профиля задержек:
//   - экспоненциальный (BaseDelay * 2^attempt + джиттер до 1 секунды) —
//     для вызовов AI-провайдера и blob-хранилища;
//   - линейный (Fast, BaseDelay * номер попытки) — для критичных операций
//     БД, где долгие паузы недопустимы.
//
// По умолчанию MaxRetries: 0 — операция выполняется один раз и ошибка
// возвращается сразу (fail fast). Повторяются только transient-ошибки,
// классификацию задаёт вызывающий.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// retryAttemptsTotal — счётчик повторов по операциям.
var retryAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "mn_retry_attempts_total",
	Help: "Количество повторов операций после transient-ошибок",
}, []string{"operation"})

// maxJitter — верхняя граница случайной добавки к экспоненциальной задержке.
const maxJitter = time.Second

// ErrRetriesExceeded — все попытки исчерпаны, последняя ошибка обёрнута.
var ErrRetriesExceeded = errors.New("превышено число попыток")

// Policy — параметры повторов для одного класса операций.
type Policy struct {
	// MaxRetries — число повторов ПОСЛЕ первой попытки (0 — fail fast).
	MaxRetries int
	// BaseDelay — базовая задержка между попытками.
	BaseDelay time.Duration
	// Fast — линейный профиль (BaseDelay * номер попытки)
	// вместо экспоненциального роста.
	Fast bool
	// NoJitter отключает случайную добавку (для детерминизма в тестах).
	NoJitter bool
}

// Executor выполняет операции с повторами по заданной политике.
type Executor struct {
	policy Policy
	logger *slog.Logger
}

// New создаёт исполнитель повторов.
func New(policy Policy, logger *slog.Logger) *Executor {
	return &Executor{
		policy: policy,
		logger: logger.With(slog.String("component", "retry")),
	}
}

// Do выполняет op с повторами.
//
// Параметры:
//   - name: имя операции для логов
//   - transient: классификатор — true, если ошибку имеет смысл повторить
//   - op: сама операция
//
// Не-transient ошибка возвращается сразу без повторов. Если попытки
// исчерпаны, возвращается ErrRetriesExceeded с обёрнутой последней
// ошибкой. Отмена контекста прерывает ожидание между попытками.
func (e *Executor) Do(ctx context.Context, name string, transient func(error) bool, op func(context.Context) error) error {
	var (
		attempt   int
		lastErr   error
		permanent bool
	)

	wrapped := func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !transient(err) {
			permanent = true
			return backoff.Permanent(err)
		}

		attempt++
		retryAttemptsTotal.WithLabelValues(name).Inc()
		e.logger.Warn("transient-ошибка, будет повтор",
			slog.String("operation", name),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		return err
	}

	schedule := backoff.WithContext(
		backoff.WithMaxRetries(e.schedule(), uint64(e.policy.MaxRetries)), ctx)

	err := backoff.Retry(wrapped, schedule)
	if err == nil {
		return nil
	}

	// Не-transient ошибка возвращается как есть, без обёртки.
	if permanent {
		return lastErr
	}

	if ctx.Err() != nil {
		return fmt.Errorf("операция %s прервана: %w", name, ctx.Err())
	}

	return fmt.Errorf("%w (%d): операция %s: %w",
		ErrRetriesExceeded, e.policy.MaxRetries+1, name, lastErr)
}

// schedule строит расписание задержек по политике.
func (e *Executor) schedule() backoff.BackOff {
	if e.policy.Fast {
		return &linearSchedule{base: e.policy.BaseDelay}
	}
	return &exponentialSchedule{base: e.policy.BaseDelay, noJitter: e.policy.NoJitter}
}

// linearSchedule — задержка base * номер попытки, без джиттера.
type linearSchedule struct {
	base    time.Duration
	attempt int
}

func (s *linearSchedule) NextBackOff() time.Duration {
	s.attempt++
	return s.base * time.Duration(s.attempt)
}

func (s *linearSchedule) Reset() {
	s.attempt = 0
}

// exponentialSchedule — задержка base * 2^attempt + джиттер до 1 секунды.
type exponentialSchedule struct {
	base     time.Duration
	attempt  int
	noJitter bool
}

func (s *exponentialSchedule) NextBackOff() time.Duration {
	delay := s.base * (1 << s.attempt)
	s.attempt++
	if !s.noJitter {
		delay += time.Duration(rand.Int63n(int64(maxJitter)))
	}
	return delay
}

func (s *exponentialSchedule) Reset() {
	s.attempt = 0
}

// Network сообщает, является ли ошибка сетевой transient-ошибкой:
// таймаут, сброс соединения, неожиданный обрыв потока.
func Network(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ETIMEDOUT) {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF)
}

// Database сообщает, является ли ошибка БД transient-ошибкой соединения.
// Ошибки целостности данных и SQL-ошибки повтору не подлежат.
func Database(err error) bool {
	if err == nil {
		return false
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	return Network(err)
}
