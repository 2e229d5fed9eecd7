package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bigkaa/meetnotes/internal/domain/status"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// instantClock подменяет таймер и записывает запрошенные интервалы.
type instantClock struct {
	intervals []time.Duration
}

func (c *instantClock) after(d time.Duration) <-chan time.Time {
	c.intervals = append(c.intervals, d)
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func newTestPoller(fetch FetchFunc) (*Poller, *instantClock) {
	p := New(fetch, testLogger())
	clock := &instantClock{}
	p.clock = clock.after
	return p, clock
}

// TestWait_TerminalStops проверяет остановку на терминальном статусе.
func TestWait_TerminalStops(t *testing.T) {
	statuses := []status.Status{status.Pending, status.Processing, status.Processing, status.Completed}
	calls := 0
	p, _ := newTestPoller(func(ctx context.Context, meetingID string) (status.Status, error) {
		st := statuses[calls]
		calls++
		return st, nil
	})

	st, err := p.Wait(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("Wait() ошибка: %v", err)
	}
	if st != status.Completed {
		t.Errorf("статус = %s, ожидался completed", st)
	}
	if calls != 4 {
		t.Errorf("опросов = %d, ожидалось 4", calls)
	}
}

// TestWait_FailedStops проверяет остановку на статусе failed.
func TestWait_FailedStops(t *testing.T) {
	p, _ := newTestPoller(func(ctx context.Context, meetingID string) (status.Status, error) {
		return status.Failed, nil
	})

	st, err := p.Wait(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("Wait() ошибка: %v", err)
	}
	if st != status.Failed {
		t.Errorf("статус = %s, ожидался failed", st)
	}
}

// TestWait_SteadyBackoff проверяет адаптивный интервал: первые пять
// опросов идут каждые 3 секунды, затем интервал растёт ×1.2 до 10 секунд.
func TestWait_SteadyBackoff(t *testing.T) {
	calls := 0
	p, clock := newTestPoller(func(ctx context.Context, meetingID string) (status.Status, error) {
		calls++
		if calls >= 30 {
			return status.Completed, nil
		}
		return status.Processing, nil
	})

	if _, err := p.Wait(context.Background(), "m-1"); err != nil {
		t.Fatalf("Wait() ошибка: %v", err)
	}

	// Опросы 1-4: интервал не растёт
	for i := 0; i < 4; i++ {
		if clock.intervals[i] != 3*time.Second {
			t.Errorf("интервал после опроса %d = %v, ожидалось 3s", i+1, clock.intervals[i])
		}
	}
	// Опрос 5: начало роста, 3s × 1.2 ≈ 3.6s
	if clock.intervals[4] < 3500*time.Millisecond || clock.intervals[4] > 3700*time.Millisecond {
		t.Errorf("интервал после опроса 5 = %v, ожидалось ~3.6s", clock.intervals[4])
	}
	if clock.intervals[5] <= clock.intervals[4] {
		t.Errorf("интервал должен расти: %v → %v", clock.intervals[4], clock.intervals[5])
	}
	// Потолок 10 секунд
	last := clock.intervals[len(clock.intervals)-1]
	if last != steadyCeiling {
		t.Errorf("последний интервал = %v, ожидался потолок %v", last, steadyCeiling)
	}
	for _, iv := range clock.intervals {
		if iv > steadyCeiling {
			t.Errorf("интервал %v превышает потолок %v", iv, steadyCeiling)
		}
	}
}

// TestWait_ErrorBackoff проверяет ускоренный рост интервала при ошибках
// опроса с потолком 15 секунд.
func TestWait_ErrorBackoff(t *testing.T) {
	calls := 0
	p, clock := newTestPoller(func(ctx context.Context, meetingID string) (status.Status, error) {
		calls++
		if calls >= 12 {
			return status.Completed, nil
		}
		return "", errors.New("сервис недоступен")
	})

	if _, err := p.Wait(context.Background(), "m-1"); err != nil {
		t.Fatalf("Wait() ошибка: %v", err)
	}

	// Первая ошибка: 3s × 1.5 = 4.5s, рост с каждой ошибкой
	if clock.intervals[0] != 4500*time.Millisecond {
		t.Errorf("интервал после первой ошибки = %v, ожидалось 4.5s", clock.intervals[0])
	}
	for i := 1; i < len(clock.intervals); i++ {
		if clock.intervals[i] < clock.intervals[i-1] {
			t.Errorf("интервал не должен убывать: %v → %v", clock.intervals[i-1], clock.intervals[i])
		}
	}
	last := clock.intervals[len(clock.intervals)-1]
	if last != errorCeiling {
		t.Errorf("последний интервал = %v, ожидался потолок %v", last, errorCeiling)
	}
}

// TestWait_ContextCanceled проверяет остановку по отмене контекста.
func TestWait_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(func(ctx context.Context, meetingID string) (status.Status, error) {
		return status.Processing, nil
	}, testLogger())
	// Реальный таймер: отмена должна прервать ожидание, не дожидаясь 3s
	cancel()

	start := time.Now()
	_, err := p.Wait(ctx, "m-1")
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("ожидалась ErrStopped, получено: %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("причина отмены должна сохраняться: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("отмена не должна ждать следующего опроса")
	}
}
