// webhooks.go — приём уведомлений Microsoft Teams о записях звонков.
// OAuth-танец с Graph и управление подписками остаются на стороне
// интеграционного сервиса; сюда приходят уже готовые уведомления.
package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/meetnotes/internal/api/errors"
	"github.com/bigkaa/meetnotes/internal/api/generated"
	"github.com/bigkaa/meetnotes/internal/domain/model"
	"github.com/bigkaa/meetnotes/internal/service"
)

// webhookSecretHeader — заголовок с общим секретом webhook.
const webhookSecretHeader = "X-Webhook-Secret"

// TeamsWebhook — реализация POST /api/v1/webhooks/teams.
//
// Graph при создании подписки шлёт запрос с validationToken — его нужно
// вернуть как plain text в течение 10 секунд, иначе подписка не создастся.
// Боевые уведомления аутентифицируются общим секретом в заголовке
// X-Webhook-Secret. Пустой секрет в конфигурации отключает webhook целиком.
func (h *APIHandler) TeamsWebhook(w http.ResponseWriter, r *http.Request, params generated.TeamsWebhookParams) {
	if h.teamsWebhookSecret == "" {
		apierrors.Unauthorized(w, "Webhook Teams отключён")
		return
	}

	// Echo validationToken — подтверждение подписки, секрет Graph не шлёт
	if params.ValidationToken != nil && *params.ValidationToken != "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(*params.ValidationToken))
		return
	}

	secret := r.Header.Get(webhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.teamsWebhookSecret)) != 1 {
		apierrors.Unauthorized(w, "Неверный секрет webhook")
		return
	}

	var req generated.TeamsWebhookJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON в теле запроса")
		return
	}
	if req.Value == nil || len(*req.Value) == 0 {
		w.WriteHeader(http.StatusOK)
		return
	}

	accepted := 0
	for _, n := range *req.Value {
		if n.OwnerId == "" || n.RecordingUrl == "" {
			h.logger.Warn("Уведомление Teams без ownerId или recordingUrl пропущено",
				slog.String("call_id", n.CallId),
			)
			continue
		}

		title := "Teams call " + n.CallId
		if n.Title != nil && *n.Title != "" {
			title = *n.Title
		}

		recordingURL := n.RecordingUrl
		m, err := h.meetings.Create(r.Context(), n.OwnerId, "", service.CreateMeetingInput{
			Title:        title,
			RecordingURL: &recordingURL,
			Source:       model.SourceTeams,
		})
		if err != nil {
			// Лимиты тарифа и прочие отказы не валят весь batch
			h.logger.Warn("Уведомление Teams не принято",
				slog.String("owner_id", n.OwnerId),
				slog.String("call_id", n.CallId),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := h.runner.Enqueue(m.ID); err != nil {
			h.logger.Error("Встреча из Teams создана, но не поставлена в обработку",
				slog.String("meeting_id", m.ID),
				slog.String("error", err.Error()),
			)
			continue
		}

		accepted++
	}

	h.logger.Info("Обработан webhook Teams",
		slog.Int("notifications", len(*req.Value)),
		slog.Int("accepted", accepted),
	)

	w.WriteHeader(http.StatusOK)
}
