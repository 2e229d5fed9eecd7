// Package poller — клиентский поллер прогресса обработки встречи.
//
// Серверный пайплайн сообщает о результате только через статус встречи,
// поэтому клиент опрашивает GET /api/v1/meetings/{id} с адаптивным
// интервалом: 3 секунды на старте, после пятого опроса интервал растёт
// ×1.2 до потолка 10 секунд; при ошибке опроса — ×1.5 до потолка
// 15 секунд (ошибки отступают быстрее, чтобы не добивать сервис).
// Опрос прекращается на терминальном статусе (completed/failed) или
// при отмене контекста. Таймер следующего опроса не утекает.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bigkaa/meetnotes/internal/domain/status"
)

// Интервалы адаптивного опроса.
const (
	initialInterval = 3 * time.Second
	steadyGrowth    = 1.2
	steadyCeiling   = 10 * time.Second
	errorGrowth     = 1.5
	errorCeiling    = 15 * time.Second
	// steadyPolls — количество опросов до начала роста интервала.
	steadyPolls = 5
)

// ErrStopped возвращается из Wait при отмене контекста.
var ErrStopped = errors.New("опрос остановлен")

// FetchFunc возвращает текущий статус встречи.
// Реализация свободна в транспорте: HTTP-клиент API, прямое чтение БД в тестах.
type FetchFunc func(ctx context.Context, meetingID string) (status.Status, error)

// Poller опрашивает статус встречи до терминального состояния.
type Poller struct {
	fetch  FetchFunc
	logger *slog.Logger

	// clock подменяется в тестах; по умолчанию time.After.
	clock func(d time.Duration) <-chan time.Time
}

// New создаёт поллер с переданной функцией получения статуса.
func New(fetch FetchFunc, logger *slog.Logger) *Poller {
	return &Poller{
		fetch:  fetch,
		logger: logger.With(slog.String("component", "poller")),
		clock: func(d time.Duration) <-chan time.Time {
			return time.After(d)
		},
	}
}

// Wait блокируется до терминального статуса встречи и возвращает его.
// При отмене контекста возвращает ErrStopped (вместе с причиной отмены).
func (p *Poller) Wait(ctx context.Context, meetingID string) (status.Status, error) {
	interval := initialInterval
	polls := 0

	for {
		st, err := p.fetch(ctx, meetingID)
		polls++
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return "", errors.Join(ErrStopped, context.Cause(ctx))
			}
			interval = grow(interval, errorGrowth, errorCeiling)
			p.logger.Warn("Ошибка опроса статуса встречи",
				slog.String("meeting_id", meetingID),
				slog.String("error", err.Error()),
				slog.String("next_poll", interval.String()),
			)
		case status.IsTerminal(st):
			p.logger.Info("Обработка встречи завершена",
				slog.String("meeting_id", meetingID),
				slog.String("status", string(st)),
				slog.Int("polls", polls),
			)
			return st, nil
		default:
			if polls >= steadyPolls {
				interval = grow(interval, steadyGrowth, steadyCeiling)
			}
		}

		select {
		case <-ctx.Done():
			return "", errors.Join(ErrStopped, context.Cause(ctx))
		case <-p.clock(interval):
		}
	}
}

// grow увеличивает интервал с потолком.
func grow(interval time.Duration, factor float64, ceiling time.Duration) time.Duration {
	next := time.Duration(float64(interval) * factor)
	if next > ceiling {
		return ceiling
	}
	return next
}
