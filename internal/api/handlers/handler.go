// handler.go — основной обработчик API, реализующий generated.ServerInterface.
// Объединяет health и бизнес-обработчики встреч, делегируя в сервисный слой.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bigkaa/meetnotes/internal/service"
	"github.com/bigkaa/meetnotes/internal/worker"
)

// APIHandler — основной обработчик API Meetnotes.
// Реализует generated.ServerInterface, делегируя запросы в сервисный слой.
type APIHandler struct {
	meetings           *service.MeetingService
	runner             *worker.Runner
	health             *HealthHandler
	teamsWebhookSecret string
	logger             *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// teamsWebhookSecret — общий секрет webhook Teams (пустой — webhook отключён).
func NewAPIHandler(
	meetings *service.MeetingService,
	runner *worker.Runner,
	health *HealthHandler,
	teamsWebhookSecret string,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		meetings:           meetings,
		runner:             runner,
		health:             health,
		teamsWebhookSecret: teamsWebhookSecret,
		logger:             logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
