package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bigkaa/meetnotes/internal/blobstore"
)

func newMeetingSvc(repo *memRepo) *MeetingService {
	blob := blobstore.New("", time.Second, testLogger())
	cache := NewStatusCache(16, time.Minute)
	return NewMeetingService(repo, blob, cache, failFastExec(), testLogger())
}

func ptr(s string) *string { return &s }

// TestCreate_OK проверяет создание встречи в статусе pending.
func TestCreate_OK(t *testing.T) {
	repo := newMemRepo()
	svc := newMeetingSvc(repo)

	m, err := svc.Create(context.Background(), "owner-1", PlanPro, CreateMeetingInput{
		Title:        "  Планёрка  ",
		Description:  ptr("еженедельная"),
		RecordingURL: ptr("https://blob.example.com/rec.mp3"),
	})
	if err != nil {
		t.Fatalf("Create() ошибка: %v", err)
	}
	if m.Title != "Планёрка" {
		t.Errorf("Title = %q, пробелы должны обрезаться", m.Title)
	}
	if m.Status != "pending" {
		t.Errorf("Status = %q, ожидался pending", m.Status)
	}
	if m.Source != "upload" {
		t.Errorf("Source = %q, по умолчанию ожидался upload", m.Source)
	}
	if m.ID == "" {
		t.Error("ID не назначен")
	}
	if repo.get(m.ID) == nil {
		t.Error("встреча не сохранена в репозитории")
	}
}

// TestCreate_Validation проверяет отказы валидации входных данных.
func TestCreate_Validation(t *testing.T) {
	svc := newMeetingSvc(newMemRepo())
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateMeetingInput
	}{
		{"пустое название", CreateMeetingInput{Title: "   "}},
		{"слишком длинное название", CreateMeetingInput{Title: strings.Repeat("a", maxTitleLen+1)}},
		{"недопустимый источник", CreateMeetingInput{Title: "Встреча", Source: "zoom"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "owner-1", PlanPro, tc.in); !errors.Is(err, ErrValidation) {
				t.Errorf("ожидалась ErrValidation, получено: %v", err)
			}
		})
	}
}

// TestCreate_UsageLimit проверяет месячный лимит тарифа free.
func TestCreate_UsageLimit(t *testing.T) {
	repo := newMemRepo()
	svc := newMeetingSvc(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "owner-1", PlanFree, CreateMeetingInput{
			Title: fmt.Sprintf("Встреча %d", i+1),
		}); err != nil {
			t.Fatalf("создание %d: %v", i+1, err)
		}
	}

	_, err := svc.Create(ctx, "owner-1", PlanFree, CreateMeetingInput{Title: "Четвёртая"})
	var ul *UsageLimitError
	if !errors.As(err, &ul) {
		t.Fatalf("ожидалась *UsageLimitError, получено: %v", err)
	}
	if ul.Plan != "Free" || ul.Limit != 3 || ul.Used != 3 {
		t.Errorf("UsageLimitError = %+v", ul)
	}

	// Другой владелец не упирается в чужой лимит
	if _, err := svc.Create(ctx, "owner-2", PlanFree, CreateMeetingInput{Title: "Своя встреча"}); err != nil {
		t.Errorf("лимит должен считаться по владельцу: %v", err)
	}
}

// TestCreate_UnknownPlan проверяет трактовку неизвестного тарифа как starter.
func TestCreate_UnknownPlan(t *testing.T) {
	repo := newMemRepo()
	svc := newMeetingSvc(repo)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		if _, err := svc.Create(ctx, "owner-1", "enterprise-legacy", CreateMeetingInput{
			Title: fmt.Sprintf("Встреча %d", i+1),
		}); err != nil {
			t.Fatalf("создание %d: %v", i+1, err)
		}
	}

	_, err := svc.Create(ctx, "owner-1", "enterprise-legacy", CreateMeetingInput{Title: "Сверх лимита"})
	var ul *UsageLimitError
	if !errors.As(err, &ul) {
		t.Fatalf("ожидалась *UsageLimitError, получено: %v", err)
	}
	if ul.Plan != "Starter" || ul.Limit != 20 {
		t.Errorf("неизвестный тариф должен трактоваться как Starter: %+v", ul)
	}
}

// TestGet_OwnerScoping проверяет изоляцию встреч по владельцу.
func TestGet_OwnerScoping(t *testing.T) {
	repo := newMemRepo()
	m := pendingMeeting(repo)
	svc := newMeetingSvc(repo)

	if _, err := svc.Get(context.Background(), "owner-2", m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("чужая встреча должна давать ErrNotFound, получено: %v", err)
	}
	if _, err := svc.Get(context.Background(), m.OwnerID, m.ID); err != nil {
		t.Errorf("своя встреча должна читаться: %v", err)
	}
}

// TestGet_CachesTerminal проверяет, что завершённая встреча отдаётся
// из кэша: после удаления из репозитория чтение всё ещё успешно.
func TestGet_CachesTerminal(t *testing.T) {
	repo := newMemRepo()
	m := pendingMeeting(repo)
	m.Status = "completed"
	repo.put(m)
	svc := newMeetingSvc(repo)
	ctx := context.Background()

	if _, err := svc.Get(ctx, m.OwnerID, m.ID); err != nil {
		t.Fatalf("первое чтение: %v", err)
	}
	repo.mu.Lock()
	delete(repo.meetings, m.ID)
	repo.mu.Unlock()

	got, err := svc.Get(ctx, m.OwnerID, m.ID)
	if err != nil {
		t.Fatalf("второе чтение должно прийти из кэша: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("ID = %q, ожидался %q", got.ID, m.ID)
	}
}

// TestGet_PendingNotCached проверяет, что нетерминальная встреча
// не кэшируется и каждое чтение идёт в репозиторий.
func TestGet_PendingNotCached(t *testing.T) {
	repo := newMemRepo()
	m := pendingMeeting(repo)
	svc := newMeetingSvc(repo)
	ctx := context.Background()

	if _, err := svc.Get(ctx, m.OwnerID, m.ID); err != nil {
		t.Fatalf("первое чтение: %v", err)
	}
	repo.mu.Lock()
	delete(repo.meetings, m.ID)
	repo.mu.Unlock()

	if _, err := svc.Get(ctx, m.OwnerID, m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("pending не должен кэшироваться, получено: %v", err)
	}
}

// TestList_LimitClamp проверяет потолок размера списка.
func TestList_LimitClamp(t *testing.T) {
	repo := newMemRepo()
	svc := newMeetingSvc(repo)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		pendingMeeting(repo)
	}

	for _, limit := range []int{0, -5, 1000} {
		list, err := svc.List(ctx, "owner-1", limit)
		if err != nil {
			t.Fatalf("List(%d): %v", limit, err)
		}
		if len(list) != maxListLimit {
			t.Errorf("List(%d) вернул %d встреч, ожидалось %d", limit, len(list), maxListLimit)
		}
	}

	list, err := svc.List(ctx, "owner-1", 10)
	if err != nil {
		t.Fatalf("List(10): %v", err)
	}
	if len(list) != 10 {
		t.Errorf("List(10) вернул %d встреч", len(list))
	}
}

// TestUpdate_Validation проверяет отказы частичного обновления.
func TestUpdate_Validation(t *testing.T) {
	repo := newMemRepo()
	m := pendingMeeting(repo)
	svc := newMeetingSvc(repo)
	ctx := context.Background()

	if _, err := svc.Update(ctx, m.OwnerID, m.ID, UpdateMeetingInput{}); !errors.Is(err, ErrValidation) {
		t.Errorf("пустое обновление должно давать ErrValidation, получено: %v", err)
	}
	if _, err := svc.Update(ctx, m.OwnerID, m.ID, UpdateMeetingInput{Title: ptr("  ")}); !errors.Is(err, ErrValidation) {
		t.Errorf("пустое название должно давать ErrValidation, получено: %v", err)
	}
}

// TestUpdate_DuringProcessing проверяет, что название и описание
// обновляются независимо от статуса обработки.
func TestUpdate_DuringProcessing(t *testing.T) {
	repo := newMemRepo()
	m := pendingMeeting(repo)
	m.Status = "processing"
	repo.put(m)
	svc := newMeetingSvc(repo)

	got, err := svc.Update(context.Background(), m.OwnerID, m.ID, UpdateMeetingInput{
		Title: ptr("Новое название"),
	})
	if err != nil {
		t.Fatalf("Update() ошибка: %v", err)
	}
	if got.Title != "Новое название" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Status != "processing" {
		t.Errorf("Status = %q, обновление не должно менять статус", got.Status)
	}
}

// TestUpdate_InvalidatesCache проверяет сброс кэша при обновлении.
func TestUpdate_InvalidatesCache(t *testing.T) {
	repo := newMemRepo()
	m := pendingMeeting(repo)
	m.Status = "completed"
	repo.put(m)
	svc := newMeetingSvc(repo)
	ctx := context.Background()

	if _, err := svc.Get(ctx, m.OwnerID, m.ID); err != nil {
		t.Fatalf("прогрев кэша: %v", err)
	}
	if _, err := svc.Update(ctx, m.OwnerID, m.ID, UpdateMeetingInput{Title: ptr("Переименована")}); err != nil {
		t.Fatalf("Update() ошибка: %v", err)
	}

	got, err := svc.Get(ctx, m.OwnerID, m.ID)
	if err != nil {
		t.Fatalf("чтение после обновления: %v", err)
	}
	if got.Title != "Переименована" {
		t.Errorf("Title = %q, кэш должен был сброситься", got.Title)
	}
}

// TestDelete_OK проверяет удаление встречи вместе с blob-записью.
func TestDelete_OK(t *testing.T) {
	var deleteCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("метод = %s, ожидался DELETE", r.Method)
		}
		deleteCalls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	repo := newMemRepo()
	m := pendingMeeting(repo)
	url := srv.URL + "/rec.mp3"
	m.RecordingURL = &url
	repo.put(m)

	svc := newMeetingSvc(repo)
	if err := svc.Delete(context.Background(), m.OwnerID, m.ID); err != nil {
		t.Fatalf("Delete() ошибка: %v", err)
	}
	if repo.get(m.ID) != nil {
		t.Error("встреча не удалена из репозитория")
	}
	if deleteCalls.Load() != 1 {
		t.Errorf("вызовов удаления blob = %d, ожидался 1", deleteCalls.Load())
	}
}

// TestDelete_BlobErrorIgnored проверяет best-effort удаление записи:
// ошибка blob-хранилища не блокирует удаление встречи.
func TestDelete_BlobErrorIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := newMemRepo()
	m := pendingMeeting(repo)
	url := srv.URL + "/rec.mp3"
	m.RecordingURL = &url
	repo.put(m)

	svc := newMeetingSvc(repo)
	if err := svc.Delete(context.Background(), m.OwnerID, m.ID); err != nil {
		t.Fatalf("ошибка blob не должна блокировать удаление: %v", err)
	}
	if repo.get(m.ID) != nil {
		t.Error("встреча не удалена из репозитория")
	}
}

// TestDelete_NotFound проверяет удаление несуществующей или чужой встречи.
func TestDelete_NotFound(t *testing.T) {
	repo := newMemRepo()
	m := pendingMeeting(repo)
	svc := newMeetingSvc(repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, "owner-2", m.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("чужая встреча: ожидалась ErrNotFound, получено: %v", err)
	}
	if err := svc.Delete(ctx, m.OwnerID, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("несуществующая встреча: ожидалась ErrNotFound, получено: %v", err)
	}
}
