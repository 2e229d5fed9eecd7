// transcription.go — стадия транскрипции: загрузка записи из
// blob-хранилища и отправка в Whisper под политикой повторов AI.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"

	"github.com/bigkaa/meetnotes/internal/blobstore"
	"github.com/bigkaa/meetnotes/internal/openai"
	"github.com/bigkaa/meetnotes/internal/retry"
)

// MaxAudioBytes — лимит Whisper API на размер аудиофайла.
// Граница строгая: файл ровно в 25 МБ проходит.
const MaxAudioBytes = 25 * 1024 * 1024

// TranscriptionService — стадия транскрипции пайплайна обработки.
type TranscriptionService struct {
	blob     *blobstore.Client
	ai       *openai.Client
	exec     *retry.Executor
	model    string
	language string
	logger   *slog.Logger
}

// NewTranscriptionService создаёт сервис транскрипции.
// exec — исполнитель повторов с AI-политикой (3 повтора, база 2s).
func NewTranscriptionService(
	blob *blobstore.Client,
	ai *openai.Client,
	exec *retry.Executor,
	model, language string,
	logger *slog.Logger,
) *TranscriptionService {
	return &TranscriptionService{
		blob:     blob,
		ai:       ai,
		exec:     exec,
		model:    model,
		language: language,
		logger:   logger.With(slog.String("component", "transcription")),
	}
}

// Transcribe загружает запись по URL и возвращает текст транскрипта.
//
// Размер проверяется до единого вызова Whisper: сначала по Content-Length,
// затем по фактическим байтам. Превышение лимита и отказ провайдера 413 —
// *FileTooLargeError (не повторяется). Transient-ошибки провайдера
// (429/500/502/503) и сети повторяются исполнителем и видны снаружи
// только при исчерпании попыток.
func (s *TranscriptionService) Transcribe(ctx context.Context, recordingURL string) (string, error) {
	audio, err := s.blob.Fetch(ctx, recordingURL, MaxAudioBytes)
	if err != nil {
		var tle *blobstore.TooLargeError
		if errors.As(err, &tle) {
			size := tle.Declared
			if tle.Actual > 0 {
				size = tle.Actual
			}
			return "", &FileTooLargeError{Size: size, Limit: MaxAudioBytes}
		}
		return "", &TranscriptionFailedError{Err: fmt.Errorf("загрузка записи: %w", err)}
	}

	s.logger.Info("Запись загружена, начинаем транскрипцию",
		slog.Int("size", len(audio)),
	)

	var text string
	err = s.exec.Do(ctx, "transcribe", openai.IsTransient, func(ctx context.Context) error {
		var trErr error
		text, trErr = s.ai.Transcribe(ctx, s.model, s.language, filenameFromURL(recordingURL), audio)
		return trErr
	})
	if err != nil {
		if openai.IsTooLarge(err) {
			return "", &FileTooLargeError{Size: int64(len(audio)), Limit: MaxAudioBytes}
		}
		return "", &TranscriptionFailedError{Err: err}
	}

	return text, nil
}

// filenameFromURL извлекает имя файла из URL записи.
// Провайдер определяет аудиоформат по расширению.
func filenameFromURL(rawURL string) string {
	const fallback = "audio.mp4"

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}
