package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{"успешный запрос", "/api/v1/meetings", http.StatusOK, "INFO"},
		{"ошибка клиента", "/api/v1/meetings", http.StatusNotFound, "WARN"},
		{"ошибка сервера", "/api/v1/meetings", http.StatusInternalServerError, "ERROR"},
		{"liveness probe", "/health/live", http.StatusOK, "DEBUG"},
		{"metrics", "/metrics", http.StatusOK, "DEBUG"},
		// Проба с ошибкой не должна прятаться за DEBUG
		{"readiness с отказом", "/health/ready", http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))

			handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			line := buf.String()
			if !strings.Contains(line, "level="+tt.wantLevel) {
				t.Errorf("уровень лога: ожидался %s, запись: %s", tt.wantLevel, line)
			}
			if !strings.Contains(line, "path="+tt.path) {
				t.Errorf("в записи нет пути %s: %s", tt.path, line)
			}
		})
	}
}

func TestResponseWriter_DefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	// Хендлер пишет тело без явного WriteHeader
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meetings", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	if !strings.Contains(line, "status=200") {
		t.Errorf("ожидался статус 200 по умолчанию: %s", line)
	}
	if !strings.Contains(line, "bytes=2") {
		t.Errorf("ожидался размер ответа 2: %s", line)
	}
}
