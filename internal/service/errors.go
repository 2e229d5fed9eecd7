// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrAIUnavailable — AI-провайдер недоступен после всех повторов.
	ErrAIUnavailable = errors.New("AI-провайдер недоступен")
	// ErrEmptyTranscript — транскрипция вернула пустой текст.
	ErrEmptyTranscript = errors.New("транскрипция вернула пустой текст")
)

// UsageLimitError — достигнут лимит встреч тарифа за расчётный период.
type UsageLimitError struct {
	Plan  string
	Limit int
	Used  int
}

func (e *UsageLimitError) Error() string {
	return fmt.Sprintf("лимит тарифа %s исчерпан: %d из %d встреч за период", e.Plan, e.Used, e.Limit)
}

// FileTooLargeError — запись превышает лимит размера для транскрипции.
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	if e.Size > 0 {
		return fmt.Sprintf("размер записи %d байт превышает лимит %d", e.Size, e.Limit)
	}
	return fmt.Sprintf("размер записи превышает лимит %d байт", e.Limit)
}

// TranscriptionFailedError — стадия транскрипции завершилась ошибкой.
type TranscriptionFailedError struct {
	Err error
}

func (e *TranscriptionFailedError) Error() string {
	return fmt.Sprintf("ошибка транскрипции: %v", e.Err)
}

func (e *TranscriptionFailedError) Unwrap() error { return e.Err }

// AnalysisFailedError — стадия анализа транскрипта завершилась ошибкой.
type AnalysisFailedError struct {
	Err error
}

func (e *AnalysisFailedError) Error() string {
	return fmt.Sprintf("ошибка анализа транскрипта: %v", e.Err)
}

func (e *AnalysisFailedError) Unwrap() error { return e.Err }
