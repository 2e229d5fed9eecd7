// Пакет blobstore — HTTP-клиент blob-хранилища записей встреч.
// Операции: Fetch (загрузка записи по URL с ограничением размера)
// и Delete (best-effort удаление при удалении встречи).
package blobstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// TooLargeError — запись превышает допустимый размер.
// Declared — размер из заголовка Content-Length (0, если не указан),
// Actual — фактически прочитанные байты (0 при отказе по заголовку).
type TooLargeError struct {
	Declared int64
	Actual   int64
	Limit    int64
}

func (e *TooLargeError) Error() string {
	if e.Actual > 0 {
		return fmt.Sprintf("запись превышает лимит %d байт: прочитано %d", e.Limit, e.Actual)
	}
	return fmt.Sprintf("запись превышает лимит %d байт: Content-Length %d", e.Limit, e.Declared)
}

// StatusError — хранилище вернуло не-2xx статус.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("blob-хранилище вернуло статус %d: %s", e.StatusCode, e.Body)
}

// Client — HTTP-клиент blob-хранилища.
type Client struct {
	httpClient *http.Client
	token      string
	logger     *slog.Logger
}

// New создаёт клиент blob-хранилища.
// token добавляется в Authorization для операций удаления
// (пустая строка — запросы без авторизации).
func New(token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
		logger:     logger.With(slog.String("component", "blobstore")),
	}
}

// Fetch загружает запись по URL целиком в память.
//
// Размер ограничен maxBytes в два приёма: сначала по заголовку
// Content-Length (если хранилище его прислало), затем по фактически
// прочитанным байтам — заголовку доверять нельзя. Превышение в обоих
// случаях — *TooLargeError.
func (c *Client) Fetch(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("создание запроса загрузки записи: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("загрузка записи: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if resp.ContentLength > maxBytes {
		return nil, &TooLargeError{Declared: resp.ContentLength, Limit: maxBytes}
	}

	// Читаем на один байт больше лимита, чтобы отличить ровно maxBytes
	// от превышения.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("чтение записи: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, &TooLargeError{Actual: int64(len(data)), Limit: maxBytes}
	}

	c.logger.Debug("Запись загружена",
		slog.String("url", url),
		slog.Int("size", len(data)),
	)

	return data, nil
}

// Delete удаляет запись из хранилища.
// Вызывается best-effort при удалении встречи: ошибка логируется
// вызывающим, но не блокирует удаление самой встречи.
func (c *Client) Delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("создание запроса удаления записи: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("удаление записи: %w", err)
	}
	defer resp.Body.Close()

	// 404 считаем успехом: записи уже нет
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent &&
		resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return nil
}
