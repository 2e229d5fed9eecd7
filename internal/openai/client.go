// Пакет openai — HTTP-клиент OpenAI API.
// Операции: Transcribe (POST /audio/transcriptions, Whisper) и
// CompleteJSON (POST /chat/completions со строгим JSON-ответом).
// Базовый URL переопределяется в тестах (MN_OPENAI_BASE_URL).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/bigkaa/meetnotes/internal/retry"
)

// APIError — ошибка OpenAI API с HTTP-статусом.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAI API статус %d (%s): %s", e.StatusCode, e.Type, e.Message)
}

// IsTransient сообщает, имеет ли смысл повторить вызов OpenAI:
// rate limit, внутренние ошибки провайдера, сетевые сбои.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable:
			return true
		}
		return false
	}
	return retry.Network(err)
}

// IsTooLarge сообщает, отклонил ли провайдер файл как слишком большой.
func IsTooLarge(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusRequestEntityTooLarge
}

// Client — HTTP-клиент OpenAI API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// New создаёт клиент OpenAI.
func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.With(slog.String("component", "openai")),
	}
}

// Transcribe отправляет аудио в Whisper и возвращает текст транскрипта.
// language — подсказка языка ("en"); filename нужен провайдеру для
// определения формата по расширению.
func (c *Client) Transcribe(ctx context.Context, model, language, filename string, audio []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("формирование multipart-запроса: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("запись аудио в multipart-запрос: %w", err)
	}
	if err := mw.WriteField("model", model); err != nil {
		return "", fmt.Errorf("формирование multipart-запроса: %w", err)
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return "", fmt.Errorf("формирование multipart-запроса: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("формирование multipart-запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("создание запроса транскрипции: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("запрос транскрипции: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp)
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("декодирование ответа транскрипции: %w", err)
	}

	c.logger.Debug("Транскрипция получена",
		slog.String("model", model),
		slog.Int("transcript_len", len(tr.Text)),
	)

	return tr.Text, nil
}

// CompleteJSON выполняет chat completion со строгим JSON-ответом
// (response_format: json_object) и возвращает содержимое первого choice.
func (c *Client) CompleteJSON(ctx context.Context, model string, temperature float64, system, user string) (string, error) {
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("сериализация запроса chat completion: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("создание запроса chat completion: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("запрос chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.parseError(resp)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("декодирование ответа chat completion: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("пустой ответ chat completion: нет choices")
	}

	return cr.Choices[0].Message.Content, nil
}

// parseError разбирает тело ошибки OpenAI в APIError.
func (c *Client) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	var er apiErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Type:       er.Error.Type,
			Message:    er.Error.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
