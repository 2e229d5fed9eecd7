package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bigkaa/meetnotes/internal/api/generated"
	"github.com/bigkaa/meetnotes/internal/api/middleware"
	"github.com/bigkaa/meetnotes/internal/blobstore"
	"github.com/bigkaa/meetnotes/internal/domain/model"
	"github.com/bigkaa/meetnotes/internal/domain/status"
	"github.com/bigkaa/meetnotes/internal/repository"
	"github.com/bigkaa/meetnotes/internal/retry"
	"github.com/bigkaa/meetnotes/internal/service"
	"github.com/bigkaa/meetnotes/internal/worker"
)

const testWebhookSecret = "wh-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// apiRepo — минимальный in-memory репозиторий для HTTP-тестов.
type apiRepo struct {
	mu       sync.Mutex
	meetings map[string]*model.Meeting
}

func newAPIRepo() *apiRepo {
	return &apiRepo{meetings: make(map[string]*model.Meeting)}
}

func copyMeeting(m *model.Meeting) *model.Meeting {
	c := *m
	return &c
}

func (r *apiRepo) Create(_ context.Context, m *model.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	r.meetings[m.ID] = copyMeeting(m)
	return nil
}

func (r *apiRepo) GetByID(_ context.Context, ownerID, id string) (*model.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repoNotFound()
	}
	return copyMeeting(m), nil
}

func (r *apiRepo) GetAnyByID(_ context.Context, id string) (*model.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil, repoNotFound()
	}
	return copyMeeting(m), nil
}

func (r *apiRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.meetings[id]
	return ok, nil
}

func (r *apiRepo) UpdateContent(_ context.Context, ownerID, id string, title, description *string) (*model.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok || m.OwnerID != ownerID {
		return nil, repoNotFound()
	}
	if title != nil {
		m.Title = *title
	}
	if description != nil {
		m.Description = description
	}
	m.UpdatedAt = time.Now().UTC()
	return copyMeeting(m), nil
}

func (r *apiRepo) UpdateStatus(_ context.Context, id string, to status.Status, lastError *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return repoNotFound()
	}
	if err := status.Validate(status.Status(m.Status), to); err != nil {
		return err
	}
	m.Status = string(to)
	m.LastError = lastError
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *apiRepo) UpdateProcessingResult(_ context.Context, id string, transcript string, res *model.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return repoNotFound()
	}
	if err := status.Validate(status.Status(m.Status), status.Completed); err != nil {
		return err
	}
	now := time.Now().UTC()
	m.Status = string(status.Completed)
	m.Transcript = &transcript
	m.Summary = &res.Summary
	m.ActionItems = res.ActionItems
	m.KeyDecisions = res.KeyDecisions
	m.Topics = res.Topics
	m.DurationSeconds = res.DurationSeconds
	m.ProcessedAt = &now
	m.UpdatedAt = now
	return nil
}

func (r *apiRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok || m.OwnerID != ownerID {
		return repoNotFound()
	}
	delete(r.meetings, id)
	return nil
}

func (r *apiRepo) ListRecent(_ context.Context, ownerID string, limit int) ([]*model.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Meeting
	for _, m := range r.meetings {
		if m.OwnerID == ownerID {
			out = append(out, copyMeeting(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *apiRepo) CountCreatedSince(_ context.Context, ownerID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.meetings {
		if m.OwnerID == ownerID && !m.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func repoNotFound() error {
	return fmt.Errorf("тест: %w", repository.ErrNotFound)
}

// testEnv — собранный HTTP-стек с доступом к внутренностям.
type testEnv struct {
	handler   http.Handler
	repo      *apiRepo
	runner    *worker.Runner
	processed chan string
}

// claimsMiddleware подкладывает claims в контекст, минуя проверку JWT.
func claimsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub := r.Header.Get("X-Test-Sub")
		if sub == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims := &middleware.AuthClaims{
			Subject: sub,
			Plan:    r.Header.Get("X-Test-Plan"),
		}
		ctx := context.WithValue(r.Context(), middleware.ContextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := testLogger()
	repo := newAPIRepo()

	readExec := retry.New(retry.Policy{MaxRetries: 0, Fast: true}, logger)
	meetings := service.NewMeetingService(
		repo,
		blobstore.New("", time.Second, logger),
		service.NewStatusCache(16, time.Minute),
		readExec,
		logger,
	)

	processed := make(chan string, 16)
	runner := worker.New(func(_ context.Context, meetingID string) error {
		processed <- meetingID
		return nil
	}, 2, time.Second, logger)
	runner.Start(context.Background())
	t.Cleanup(runner.Stop)

	health := NewHealthHandler(readyAlways{})
	api := NewAPIHandler(meetings, runner, health, testWebhookSecret, logger)

	r := chi.NewRouter()
	r.Use(claimsMiddleware)
	handler := generated.HandlerFromMux(api, r)

	return &testEnv{handler: handler, repo: repo, runner: runner, processed: processed}
}

type readyAlways struct{}

func (readyAlways) CheckReady() (string, string) { return "ok", "соединение активно" }

// doJSON выполняет запрос от имени владельца и декодирует ответ в out.
func (e *testEnv) doJSON(t *testing.T, method, path, owner, plan string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("маршалинг тела запроса: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if owner != "" {
		req.Header.Set("X-Test-Sub", owner)
	}
	if plan != "" {
		req.Header.Set("X-Test-Plan", plan)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("декодирование ответа: %v (тело: %s)", err, rec.Body.String())
		}
	}
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("декодирование ошибки: %v (тело: %s)", err, rec.Body.String())
	}
	return body.Error.Code
}

func seedMeeting(t *testing.T, e *testEnv, owner string, st status.Status) *model.Meeting {
	t.Helper()
	// Порт 1 закрыт: best-effort удаление blob получает мгновенный отказ
	url := "http://127.0.0.1:1/recordings/rec.mp3"
	m := &model.Meeting{
		ID:           uuid.New().String(),
		OwnerID:      owner,
		Title:        "Планёрка",
		RecordingURL: &url,
		Status:       string(st),
		Source:       model.SourceUpload,
	}
	if st == status.Completed {
		tr := "всем привет, начинаем"
		sum := "Обсудили план на квартал."
		m.Transcript = &tr
		m.Summary = &sum
		now := time.Now().UTC()
		m.ProcessedAt = &now
	}
	if err := e.repo.Create(context.Background(), m); err != nil {
		t.Fatalf("подготовка встречи: %v", err)
	}
	return m
}

func TestCreateMeeting(t *testing.T) {
	e := newTestEnv(t)

	var got generated.Meeting
	rec := e.doJSON(t, http.MethodPost, "/api/v1/meetings", "owner-1", "pro", map[string]any{
		"title":        "Ретроспектива спринта",
		"recordingUrl": "https://blob.example.com/recordings/retro.mp3",
	}, &got)

	if rec.Code != http.StatusCreated {
		t.Fatalf("код ответа = %d, ожидался 201 (тело: %s)", rec.Code, rec.Body.String())
	}
	if got.Title != "Ретроспектива спринта" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Status != generated.Pending {
		t.Errorf("status = %q, ожидался pending", got.Status)
	}
	if got.Source != generated.Upload {
		t.Errorf("source = %q, ожидался upload", got.Source)
	}
	if got.Id == uuid.Nil {
		t.Error("id не заполнен")
	}
	if got.CreatedAt.IsZero() {
		t.Error("createdAt не заполнен")
	}
}

func TestCreateMeeting_Validation(t *testing.T) {
	e := newTestEnv(t)

	rec := e.doJSON(t, http.MethodPost, "/api/v1/meetings", "owner-1", "pro", map[string]any{
		"title": "   ",
	}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("код ответа = %d, ожидался 400", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "VALIDATION_ERROR" {
		t.Errorf("код ошибки = %q", code)
	}
}

func TestCreateMeeting_BadJSON(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/meetings", strings.NewReader("{не json"))
	req.Header.Set("X-Test-Sub", "owner-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("код ответа = %d, ожидался 400", rec.Code)
	}
}

func TestCreateMeeting_UsageLimit(t *testing.T) {
	e := newTestEnv(t)

	for i := 0; i < 3; i++ {
		rec := e.doJSON(t, http.MethodPost, "/api/v1/meetings", "owner-free", "free", map[string]any{
			"title": fmt.Sprintf("Встреча %d", i+1),
		}, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("встреча %d: код = %d", i+1, rec.Code)
		}
	}

	rec := e.doJSON(t, http.MethodPost, "/api/v1/meetings", "owner-free", "free", map[string]any{
		"title": "Четвёртая",
	}, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("код ответа = %d, ожидался 429", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "USAGE_LIMIT_EXCEEDED" {
		t.Errorf("код ошибки = %q", code)
	}
}

func TestCreateMeeting_Unauthorized(t *testing.T) {
	e := newTestEnv(t)

	rec := e.doJSON(t, http.MethodPost, "/api/v1/meetings", "", "", map[string]any{
		"title": "Без токена",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("код ответа = %d, ожидался 401", rec.Code)
	}
}

func TestGetMeeting(t *testing.T) {
	e := newTestEnv(t)
	m := seedMeeting(t, e, "owner-1", status.Completed)

	var got generated.Meeting
	rec := e.doJSON(t, http.MethodGet, "/api/v1/meetings/"+m.ID, "owner-1", "", nil, &got)

	if rec.Code != http.StatusOK {
		t.Fatalf("код ответа = %d (тело: %s)", rec.Code, rec.Body.String())
	}
	if got.Status != generated.Completed {
		t.Errorf("status = %q", got.Status)
	}
	if got.Summary == nil || *got.Summary == "" {
		t.Error("summary пуст")
	}
	if got.ProcessedAt == nil {
		t.Error("processedAt не заполнен")
	}
}

func TestGetMeeting_OwnerScoping(t *testing.T) {
	e := newTestEnv(t)
	m := seedMeeting(t, e, "owner-1", status.Pending)

	rec := e.doJSON(t, http.MethodGet, "/api/v1/meetings/"+m.ID, "owner-2", "", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("код ответа = %d, ожидался 404 для чужой встречи", rec.Code)
	}
}

func TestGetMeeting_NotFound(t *testing.T) {
	e := newTestEnv(t)

	rec := e.doJSON(t, http.MethodGet, "/api/v1/meetings/"+uuid.New().String(), "owner-1", "", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("код ответа = %d, ожидался 404", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "NOT_FOUND" {
		t.Errorf("код ошибки = %q", code)
	}
}

func TestGetMeeting_BadUUID(t *testing.T) {
	e := newTestEnv(t)

	rec := e.doJSON(t, http.MethodGet, "/api/v1/meetings/not-a-uuid", "owner-1", "", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("код ответа = %d, ожидался 400 на невалидный UUID", rec.Code)
	}
}

func TestListMeetings(t *testing.T) {
	e := newTestEnv(t)
	for i := 0; i < 5; i++ {
		seedMeeting(t, e, "owner-1", status.Pending)
	}
	seedMeeting(t, e, "owner-2", status.Pending)

	var got generated.MeetingList
	rec := e.doJSON(t, http.MethodGet, "/api/v1/meetings?limit=3", "owner-1", "", nil, &got)

	if rec.Code != http.StatusOK {
		t.Fatalf("код ответа = %d", rec.Code)
	}
	if len(got.Meetings) != 3 {
		t.Errorf("len(meetings) = %d, ожидалось 3", len(got.Meetings))
	}
}

func TestListMeetings_DefaultLimit(t *testing.T) {
	e := newTestEnv(t)
	seedMeeting(t, e, "owner-1", status.Pending)

	var got generated.MeetingList
	rec := e.doJSON(t, http.MethodGet, "/api/v1/meetings", "owner-1", "", nil, &got)

	if rec.Code != http.StatusOK {
		t.Fatalf("код ответа = %d", rec.Code)
	}
	if len(got.Meetings) != 1 {
		t.Errorf("len(meetings) = %d", len(got.Meetings))
	}
}

func TestUpdateMeeting(t *testing.T) {
	e := newTestEnv(t)
	m := seedMeeting(t, e, "owner-1", status.Pending)

	var got generated.Meeting
	rec := e.doJSON(t, http.MethodPatch, "/api/v1/meetings/"+m.ID, "owner-1", "", map[string]any{
		"title":       "Новое название",
		"description": "Новое описание",
	}, &got)

	if rec.Code != http.StatusOK {
		t.Fatalf("код ответа = %d (тело: %s)", rec.Code, rec.Body.String())
	}
	if got.Title != "Новое название" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Description == nil || *got.Description != "Новое описание" {
		t.Errorf("description = %v", got.Description)
	}
}

func TestUpdateMeeting_EmptyBody(t *testing.T) {
	e := newTestEnv(t)
	m := seedMeeting(t, e, "owner-1", status.Pending)

	rec := e.doJSON(t, http.MethodPatch, "/api/v1/meetings/"+m.ID, "owner-1", "", map[string]any{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("код ответа = %d, ожидался 400 на пустое обновление", rec.Code)
	}
}

func TestDeleteMeeting(t *testing.T) {
	e := newTestEnv(t)
	m := seedMeeting(t, e, "owner-1", status.Pending)

	rec := e.doJSON(t, http.MethodDelete, "/api/v1/meetings/"+m.ID, "owner-1", "", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("код ответа = %d, ожидался 204", rec.Code)
	}

	rec = e.doJSON(t, http.MethodGet, "/api/v1/meetings/"+m.ID, "owner-1", "", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("встреча доступна после удаления: код = %d", rec.Code)
	}
}

func TestExportMeeting(t *testing.T) {
	e := newTestEnv(t)
	m := seedMeeting(t, e, "owner-1", status.Completed)

	rec := e.doJSON(t, http.MethodGet, "/api/v1/meetings/"+m.ID+"/export?format=txt", "owner-1", "", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("код ответа = %d (тело: %s)", rec.Code, rec.Body.String())
	}

	disp := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disp, "attachment; filename=") {
		t.Errorf("Content-Disposition = %q", disp)
	}
	if !strings.Contains(disp, ".txt") {
		t.Errorf("в имени файла нет .txt: %q", disp)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Планёрка") {
		t.Error("в протоколе нет названия встречи")
	}
}

func TestExportMeeting_NotFound(t *testing.T) {
	e := newTestEnv(t)

	rec := e.doJSON(t, http.MethodGet, "/api/v1/meetings/"+uuid.New().String()+"/export", "owner-1", "", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("код ответа = %d, ожидался 404", rec.Code)
	}
}

func TestProcessMeeting(t *testing.T) {
	e := newTestEnv(t)
	m := seedMeeting(t, e, "owner-1", status.Pending)

	var got generated.ProcessAccepted
	rec := e.doJSON(t, http.MethodPost, "/api/v1/meetings/"+m.ID+"/process", "owner-1", "", nil, &got)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("код ответа = %d, ожидался 202 (тело: %s)", rec.Code, rec.Body.String())
	}
	if got.Status != generated.ProcessAcceptedStatusProcessing {
		t.Errorf("status = %q", got.Status)
	}
	if got.MeetingId.String() != m.ID {
		t.Errorf("meetingId = %q, ожидался %q", got.MeetingId, m.ID)
	}

	select {
	case id := <-e.processed:
		if id != m.ID {
			t.Errorf("в обработку попала встреча %q, ожидалась %q", id, m.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("фоновая обработка не запустилась")
	}
}

func TestProcessMeeting_NoRecording(t *testing.T) {
	e := newTestEnv(t)
	m := seedMeeting(t, e, "owner-1", status.Pending)

	e.repo.mu.Lock()
	e.repo.meetings[m.ID].RecordingURL = nil
	e.repo.mu.Unlock()

	rec := e.doJSON(t, http.MethodPost, "/api/v1/meetings/"+m.ID+"/process", "owner-1", "", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("код ответа = %d, ожидался 400 без URL записи", rec.Code)
	}
}

func TestProcessMeeting_OwnerScoping(t *testing.T) {
	e := newTestEnv(t)
	m := seedMeeting(t, e, "owner-1", status.Pending)

	rec := e.doJSON(t, http.MethodPost, "/api/v1/meetings/"+m.ID+"/process", "owner-2", "", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("код ответа = %d, ожидался 404 для чужой встречи", rec.Code)
	}
}

func TestTeamsWebhook_ValidationToken(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/teams?validationToken=abc123", nil)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("код ответа = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "abc123" {
		t.Errorf("тело = %q, ожидался echo токена", got)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestTeamsWebhook_WrongSecret(t *testing.T) {
	e := newTestEnv(t)

	body, _ := json.Marshal(map[string]any{"value": []map[string]any{}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/teams", bytes.NewReader(body))
	req.Header.Set(webhookSecretHeader, "не тот секрет")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("код ответа = %d, ожидался 401", rec.Code)
	}
}

func TestTeamsWebhook_Notifications(t *testing.T) {
	e := newTestEnv(t)

	body, _ := json.Marshal(map[string]any{
		"value": []map[string]any{
			{
				"ownerId":      "owner-teams",
				"callId":       "call-42",
				"recordingUrl": "https://blob.example.com/recordings/call-42.mp4",
				"title":        "Созвон с заказчиком",
			},
			// Без recordingUrl — пропускается, не валит batch
			{
				"ownerId": "owner-teams",
				"callId":  "call-43",
			},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/teams", bytes.NewReader(body))
	req.Header.Set(webhookSecretHeader, testWebhookSecret)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("код ответа = %d (тело: %s)", rec.Code, rec.Body.String())
	}

	select {
	case <-e.processed:
	case <-time.After(2 * time.Second):
		t.Fatal("встреча из Teams не попала в обработку")
	}

	meetings, err := e.repo.ListRecent(context.Background(), "owner-teams", 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(meetings) != 1 {
		t.Fatalf("создано встреч: %d, ожидалась 1", len(meetings))
	}
	m := meetings[0]
	if m.Title != "Созвон с заказчиком" {
		t.Errorf("title = %q", m.Title)
	}
	if m.Source != model.SourceTeams {
		t.Errorf("source = %q, ожидался teams", m.Source)
	}
}

func TestTeamsWebhook_Disabled(t *testing.T) {
	logger := testLogger()
	repo := newAPIRepo()
	meetings := service.NewMeetingService(
		repo,
		blobstore.New("", time.Second, logger),
		service.NewStatusCache(16, time.Minute),
		retry.New(retry.Policy{MaxRetries: 0, Fast: true}, logger),
		logger,
	)
	runner := worker.New(func(context.Context, string) error { return nil }, 1, time.Second, logger)
	runner.Start(context.Background())
	t.Cleanup(runner.Stop)

	api := NewAPIHandler(meetings, runner, NewHealthHandler(readyAlways{}), "", logger)
	handler := generated.HandlerFromMux(api, chi.NewRouter())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/teams?validationToken=abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("код ответа = %d, ожидался 401 при пустом секрете", rec.Code)
	}
}

func TestHealthLive(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("код ответа = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("декодирование: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestHealthReady(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("код ответа = %d (тело: %s)", rec.Code, rec.Body.String())
	}
}
