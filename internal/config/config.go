// Пакет config — загрузка и валидация конфигурации Meeting Notes AI
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации сервиса.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 60s,
	// выгрузка протокола и приём batch-уведомлений Teams)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string
	// Максимальный размер пула подключений
	DBMaxConns int

	// --- OpenAI ---

	// Базовый URL OpenAI API (переопределяется в тестах)
	OpenAIBaseURL string
	// API-ключ OpenAI
	OpenAIAPIKey string
	// Модель транскрипции
	TranscriptionModel string
	// Модель анализа транскрипта
	AnalysisModel string
	// Языковая подсказка для транскрипции
	TranscriptionLanguage string
	// Таймаут HTTP-запросов к OpenAI
	OpenAITimeout time.Duration

	// --- Пайплайн обработки ---

	// Количество повторов AI-вызовов
	AIMaxRetries int
	// Базовая задержка между повторами AI-вызовов
	AIRetryBaseDelay time.Duration
	// Количество повторов критичных записей в БД
	DBCriticalRetries int
	// Базовая задержка повторов БД
	DBRetryBaseDelay time.Duration
	// Максимальное количество одновременных фоновых обработок
	WorkerMaxConcurrent int
	// Таймаут ожидания фоновых задач при остановке
	WorkerDrainTimeout time.Duration

	// --- Хранилище записей (blob) ---

	// Токен доступа к blob-хранилищу (для удаления записей)
	BlobToken string
	// Таймаут загрузки записи
	BlobFetchTimeout time.Duration
	// Базовый URL blob-хранилища (для мониторинга зависимостей; опционален)
	BlobBaseURL string

	// --- JWT (валидация токенов внешнего identity-провайдера) ---

	// URL JWKS endpoint identity-провайдера
	JWTJWKSURL string
	// Ожидаемый issuer JWT
	JWTIssuer string
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration
	// Интервал обновления JWKS-ключей
	JWKSRefreshInterval time.Duration

	// --- Teams webhook ---

	// Общий секрет для аутентификации webhook-уведомлений Teams
	TeamsWebhookSecret string

	// --- Кэш статусов ---

	// Максимальный размер LRU-кэша завершённых встреч
	StatusCacheSize int
	// TTL записи кэша
	StatusCacheTTL time.Duration

	// --- Мониторинг зависимостей ---

	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Имя группы в метриках dephealth
	DephealthGroup string

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// MN_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("MN_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("MN_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("MN_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// MN_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("MN_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("MN_LOG_LEVEL: %w", err)
	}

	// MN_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("MN_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("MN_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// MN_HTTP_READ_TIMEOUT — таймаут чтения (по умолчанию 30s)
	cfg.HTTPReadTimeout, err = getEnvDuration("MN_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MN_HTTP_READ_TIMEOUT: %w", err)
	}

	// MN_HTTP_WRITE_TIMEOUT — таймаут записи (по умолчанию 60s)
	cfg.HTTPWriteTimeout, err = getEnvDuration("MN_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MN_HTTP_WRITE_TIMEOUT: %w", err)
	}

	// MN_HTTP_IDLE_TIMEOUT — таймаут простоя (по умолчанию 120s)
	cfg.HTTPIdleTimeout, err = getEnvDuration("MN_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MN_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- PostgreSQL ---

	// MN_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("MN_DB_HOST")
	if err != nil {
		return nil, err
	}

	// MN_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("MN_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("MN_DB_PORT: %w", err)
	}

	// MN_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("MN_DB_NAME")
	if err != nil {
		return nil, err
	}

	// MN_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("MN_DB_USER")
	if err != nil {
		return nil, err
	}

	// MN_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("MN_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// MN_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("MN_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("MN_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// MN_DB_MAX_CONNS — размер пула подключений (по умолчанию 8)
	cfg.DBMaxConns, err = getEnvInt("MN_DB_MAX_CONNS", 8)
	if err != nil {
		return nil, fmt.Errorf("MN_DB_MAX_CONNS: %w", err)
	}
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 100 {
		return nil, fmt.Errorf("MN_DB_MAX_CONNS: значение %d вне допустимого диапазона 1-100", cfg.DBMaxConns)
	}

	// --- OpenAI ---

	// MN_OPENAI_BASE_URL — базовый URL API (по умолчанию официальный)
	cfg.OpenAIBaseURL = strings.TrimRight(getEnvDefault("MN_OPENAI_BASE_URL", "https://api.openai.com/v1"), "/")

	// MN_OPENAI_API_KEY — обязательный
	cfg.OpenAIAPIKey, err = getEnvRequired("MN_OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	// MN_TRANSCRIPTION_MODEL — модель транскрипции (по умолчанию whisper-1)
	cfg.TranscriptionModel = getEnvDefault("MN_TRANSCRIPTION_MODEL", "whisper-1")

	// MN_ANALYSIS_MODEL — модель анализа (по умолчанию gpt-4o-mini)
	cfg.AnalysisModel = getEnvDefault("MN_ANALYSIS_MODEL", "gpt-4o-mini")

	// MN_TRANSCRIPTION_LANGUAGE — языковая подсказка (по умолчанию en)
	cfg.TranscriptionLanguage = getEnvDefault("MN_TRANSCRIPTION_LANGUAGE", "en")

	// MN_OPENAI_TIMEOUT — таймаут запросов к OpenAI (по умолчанию 5m:
	// транскрипция больших файлов занимает минуты)
	cfg.OpenAITimeout, err = getEnvDuration("MN_OPENAI_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("MN_OPENAI_TIMEOUT: %w", err)
	}

	// --- Пайплайн обработки ---

	// MN_AI_MAX_RETRIES — повторы AI-вызовов (по умолчанию 3)
	cfg.AIMaxRetries, err = getEnvInt("MN_AI_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("MN_AI_MAX_RETRIES: %w", err)
	}
	if cfg.AIMaxRetries < 0 || cfg.AIMaxRetries > 10 {
		return nil, fmt.Errorf("MN_AI_MAX_RETRIES: значение %d вне допустимого диапазона 0-10", cfg.AIMaxRetries)
	}

	// MN_AI_RETRY_BASE_DELAY — базовая задержка повторов AI (по умолчанию 2s)
	cfg.AIRetryBaseDelay, err = getEnvDuration("MN_AI_RETRY_BASE_DELAY", 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MN_AI_RETRY_BASE_DELAY: %w", err)
	}

	// MN_DB_CRITICAL_RETRIES — повторы критичных записей в БД (по умолчанию 2)
	cfg.DBCriticalRetries, err = getEnvInt("MN_DB_CRITICAL_RETRIES", 2)
	if err != nil {
		return nil, fmt.Errorf("MN_DB_CRITICAL_RETRIES: %w", err)
	}
	if cfg.DBCriticalRetries < 0 || cfg.DBCriticalRetries > 3 {
		return nil, fmt.Errorf("MN_DB_CRITICAL_RETRIES: значение %d вне допустимого диапазона 0-3", cfg.DBCriticalRetries)
	}

	// MN_DB_RETRY_BASE_DELAY — базовая задержка повторов БД (по умолчанию 100ms)
	cfg.DBRetryBaseDelay, err = getEnvDuration("MN_DB_RETRY_BASE_DELAY", 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("MN_DB_RETRY_BASE_DELAY: %w", err)
	}

	// MN_WORKER_MAX_CONCURRENT — одновременные фоновые обработки (по умолчанию 4)
	cfg.WorkerMaxConcurrent, err = getEnvInt("MN_WORKER_MAX_CONCURRENT", 4)
	if err != nil {
		return nil, fmt.Errorf("MN_WORKER_MAX_CONCURRENT: %w", err)
	}
	if cfg.WorkerMaxConcurrent < 1 || cfg.WorkerMaxConcurrent > 64 {
		return nil, fmt.Errorf("MN_WORKER_MAX_CONCURRENT: значение %d вне допустимого диапазона 1-64", cfg.WorkerMaxConcurrent)
	}

	// MN_WORKER_DRAIN_TIMEOUT — ожидание фоновых задач при остановке (по умолчанию 30s)
	cfg.WorkerDrainTimeout, err = getEnvDuration("MN_WORKER_DRAIN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MN_WORKER_DRAIN_TIMEOUT: %w", err)
	}

	// --- Хранилище записей ---

	// MN_BLOB_TOKEN — токен blob-хранилища (опционально: без него удаление
	// записей выполняется анонимным запросом)
	cfg.BlobToken = getEnvDefault("MN_BLOB_TOKEN", "")

	// MN_BLOB_FETCH_TIMEOUT — таймаут загрузки записи (по умолчанию 2m)
	cfg.BlobFetchTimeout, err = getEnvDuration("MN_BLOB_FETCH_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("MN_BLOB_FETCH_TIMEOUT: %w", err)
	}

	// MN_BLOB_BASE_URL — базовый URL хранилища для мониторинга зависимостей
	// (опционально: записи адресуются абсолютными URL)
	cfg.BlobBaseURL = strings.TrimRight(getEnvDefault("MN_BLOB_BASE_URL", ""), "/")

	// --- JWT ---

	// MN_JWT_JWKS_URL — обязательный
	cfg.JWTJWKSURL, err = getEnvRequired("MN_JWT_JWKS_URL")
	if err != nil {
		return nil, err
	}

	// MN_JWT_ISSUER — ожидаемый issuer (опционально: пустой — не проверяется)
	cfg.JWTIssuer = getEnvDefault("MN_JWT_ISSUER", "")

	// MN_JWT_LEEWAY — отклонение времени при проверке JWT (по умолчанию 30s)
	cfg.JWTLeeway, err = getEnvDuration("MN_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MN_JWT_LEEWAY: %w", err)
	}

	// MN_JWKS_REFRESH_INTERVAL — интервал обновления JWKS (по умолчанию 1h)
	cfg.JWKSRefreshInterval, err = getEnvDuration("MN_JWKS_REFRESH_INTERVAL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("MN_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// --- Teams webhook ---

	// MN_TEAMS_WEBHOOK_SECRET — опционально: пустой — webhook отключён
	cfg.TeamsWebhookSecret = getEnvDefault("MN_TEAMS_WEBHOOK_SECRET", "")

	// --- Кэш статусов ---

	// MN_STATUS_CACHE_SIZE — размер LRU-кэша (по умолчанию 1024)
	cfg.StatusCacheSize, err = getEnvInt("MN_STATUS_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("MN_STATUS_CACHE_SIZE: %w", err)
	}
	if cfg.StatusCacheSize < 1 || cfg.StatusCacheSize > 100000 {
		return nil, fmt.Errorf("MN_STATUS_CACHE_SIZE: значение %d вне допустимого диапазона 1-100000", cfg.StatusCacheSize)
	}

	// MN_STATUS_CACHE_TTL — TTL записи кэша (по умолчанию 5m)
	cfg.StatusCacheTTL, err = getEnvDuration("MN_STATUS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("MN_STATUS_CACHE_TTL: %w", err)
	}

	// --- Мониторинг зависимостей ---

	// MN_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("MN_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MN_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// MN_DEPHEALTH_GROUP — имя группы в метриках (по умолчанию meetnotes)
	cfg.DephealthGroup = getEnvDefault("MN_DEPHEALTH_GROUP", "meetnotes")

	// --- Graceful shutdown ---

	// MN_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("MN_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("MN_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для dephealth-метрик).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
