// Пакет model — доменные модели Meeting Notes AI.
package model

import "time"

// Источник появления встречи в системе.
const (
	// SourceUpload — запись загружена пользователем вручную.
	SourceUpload = "upload"
	// SourceTeams — запись получена через интеграцию с Microsoft Teams.
	SourceTeams = "teams"
)

// Meeting — центральная сущность: встреча с записью, транскриптом
// и результатами AI-анализа. Все операции скоупятся по OwnerID.
type Meeting struct {
	// ID — UUID встречи, генерируется при создании.
	ID string
	// OwnerID — идентификатор владельца (sub из JWT identity-провайдера).
	OwnerID string
	// Title — название встречи, редактируется пользователем в любом статусе.
	Title string
	// Description — описание встречи (опционально).
	Description *string
	// RecordingURL — ссылка на запись в blob-хранилище.
	// Устанавливается при создании, далее неизменна.
	RecordingURL *string
	// Status — текущий статус жизненного цикла (см. пакет status).
	Status string
	// Transcript — сырой текст транскрипции; nil до успеха стадии.
	Transcript *string
	// Summary — краткое резюме встречи; nil до успеха анализа.
	Summary *string
	// ActionItems — задачи, извлечённые из транскрипта.
	ActionItems []ActionItem
	// KeyDecisions — ключевые решения встречи.
	KeyDecisions []KeyDecision
	// Topics — обсуждённые темы.
	Topics []Topic
	// DurationSeconds — длительность встречи в секундах (если удалось определить).
	DurationSeconds *int
	// Source — происхождение записи: upload или teams.
	Source string
	// LastError — текст последней ошибки обработки (только для диагностики,
	// в API-ответ встречи не входит).
	LastError *string
	// CreatedAt — время создания, неизменно.
	CreatedAt time.Time
	// ProcessedAt — время успешного завершения обработки; устанавливается
	// ровно один раз при переходе в completed.
	ProcessedAt *time.Time
	// UpdatedAt — время последнего изменения записи.
	UpdatedAt time.Time
}

// ActionItem — задача, извлечённая анализом из транскрипта.
type ActionItem struct {
	// Text — формулировка задачи.
	Text string `json:"text"`
	// Assignee — ответственный, если упомянут.
	Assignee *string `json:"assignee"`
	// DueDate — срок, если упомянут (свободный текст из транскрипта).
	DueDate *string `json:"dueDate"`
}

// KeyDecision — ключевое решение, принятое на встрече.
type KeyDecision struct {
	// Text — формулировка решения.
	Text string `json:"text"`
}

// Topic — тема, обсуждённая на встрече.
type Topic struct {
	// Name — название темы.
	Name string `json:"name"`
	// Description — краткое описание (опционально).
	Description *string `json:"description"`
}

// AnalysisResult — результат стадии анализа транскрипта.
// Все четыре поля и длительность записываются в БД одним обновлением.
type AnalysisResult struct {
	Summary         string
	ActionItems     []ActionItem
	KeyDecisions    []KeyDecision
	Topics          []Topic
	DurationSeconds *int
}
