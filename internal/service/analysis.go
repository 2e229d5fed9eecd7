// analysis.go — стадия анализа транскрипта: единственный chat completion
// со строгим JSON-ответом, разбор в AnalysisResult с дефолтами.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bigkaa/meetnotes/internal/domain/model"
	"github.com/bigkaa/meetnotes/internal/openai"
	"github.com/bigkaa/meetnotes/internal/retry"
)

// defaultSummary — заглушка, если модель не вернула резюме.
const defaultSummary = "No summary available"

// systemPrompt — системная роль: только валидный JSON.
const systemPrompt = "You are a meeting analysis assistant. Always respond with valid JSON only."

// analysisPromptTemplate — пользовательский промпт анализа.
// Плейсхолдеры: название встречи, транскрипт.
const analysisPromptTemplate = `You are an AI assistant that analyzes meeting transcripts. Analyze the following meeting transcript and provide:

1. A concise executive summary (2-3 paragraphs)
2. Action items (extract tasks mentioned, identify who is responsible if mentioned, and when it's due if mentioned)
3. Key decisions made during the meeting
4. Main topics discussed

Meeting Title: %s

Transcript:
%s

Please respond in the following JSON format:
{
  "summary": "Executive summary here",
  "actionItems": [
    {"text": "Task description", "assignee": "Name or null", "dueDate": "Date or null"}
  ],
  "keyDecisions": [
    {"text": "Decision description"}
  ],
  "topics": [
    {"name": "Topic name", "description": "Brief description"}
  ],
  "duration": estimated duration in seconds (if mentioned in transcript, otherwise null)
}

Only return valid JSON, no additional text.`

// analysisPayload — JSON-ответ модели до применения дефолтов.
type analysisPayload struct {
	Summary      string              `json:"summary"`
	ActionItems  []model.ActionItem  `json:"actionItems"`
	KeyDecisions []model.KeyDecision `json:"keyDecisions"`
	Topics       []model.Topic       `json:"topics"`
	Duration     *int                `json:"duration"`
}

// AnalysisService — стадия анализа транскрипта.
type AnalysisService struct {
	ai          *openai.Client
	exec        *retry.Executor
	model       string
	temperature float64
	logger      *slog.Logger
}

// NewAnalysisService создаёт сервис анализа транскрипта.
// exec — исполнитель повторов с AI-политикой.
func NewAnalysisService(ai *openai.Client, exec *retry.Executor, model string, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{
		ai:          ai,
		exec:        exec,
		model:       model,
		temperature: 0.3,
		logger:      logger.With(slog.String("component", "analysis")),
	}
}

// Analyze отправляет транскрипт в модель и возвращает структурированный
// результат. Отсутствующие поля ответа заменяются дефолтами: резюме —
// заглушкой, списки — пустыми срезами, длительность — nil. Пустой ответ
// и невалидный JSON — *AnalysisFailedError.
func (s *AnalysisService) Analyze(ctx context.Context, title, transcript string) (*model.AnalysisResult, error) {
	prompt := fmt.Sprintf(analysisPromptTemplate, title, transcript)

	var content string
	err := s.exec.Do(ctx, "analyze", openai.IsTransient, func(ctx context.Context) error {
		var aiErr error
		content, aiErr = s.ai.CompleteJSON(ctx, s.model, s.temperature, systemPrompt, prompt)
		return aiErr
	})
	if err != nil {
		return nil, &AnalysisFailedError{Err: err}
	}
	if content == "" {
		return nil, &AnalysisFailedError{Err: fmt.Errorf("пустой ответ модели")}
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, &AnalysisFailedError{Err: fmt.Errorf("невалидный JSON в ответе модели: %w", err)}
	}

	res := &model.AnalysisResult{
		Summary:         payload.Summary,
		ActionItems:     payload.ActionItems,
		KeyDecisions:    payload.KeyDecisions,
		Topics:          payload.Topics,
		DurationSeconds: payload.Duration,
	}
	if res.Summary == "" {
		res.Summary = defaultSummary
	}
	if res.ActionItems == nil {
		res.ActionItems = []model.ActionItem{}
	}
	if res.KeyDecisions == nil {
		res.KeyDecisions = []model.KeyDecision{}
	}
	if res.Topics == nil {
		res.Topics = []model.Topic{}
	}

	s.logger.Info("Анализ транскрипта завершён",
		slog.Int("action_items", len(res.ActionItems)),
		slog.Int("key_decisions", len(res.KeyDecisions)),
		slog.Int("topics", len(res.Topics)),
	)

	return res, nil
}
