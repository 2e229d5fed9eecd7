// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Сервис мониторит три зависимости:
//   - PostgreSQL — SQL checker через существующий pgxpool (pool mode, critical)
//   - OpenAI API — HTTP checker к базовому URL провайдера (critical)
//   - blob-хранилище — HTTP checker (некритичная: чтение встреч работает без него)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker для OpenAI и blob-хранилища
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"     // PostgreSQL checker (pool mode)
	"github.com/prometheus/client_golang/prometheus"
)

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - group — имя группы в метриках (MN_DEPHEALTH_GROUP)
//   - db — *sql.DB, полученный из pgxpool через stdlib.OpenDBFromPool()
//   - pgConnURL — URL подключения к PostgreSQL (для лейблов, не для подключения)
//   - openAIBaseURL — базовый URL OpenAI API
//   - blobURL — базовый URL blob-хранилища (пустая строка — без проверки)
func NewDephealthService(
	group string,
	db *sql.DB,
	pgConnURL string,
	openAIBaseURL string,
	blobURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(group, db, pgConnURL, openAIBaseURL, blobURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus registerer.
// Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	group string,
	db *sql.DB,
	pgConnURL string,
	openAIBaseURL string,
	blobURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(group, db, pgConnURL, openAIBaseURL, blobURL, checkInterval, logger,
		dephealth.WithRegisterer(registerer))
}

func newDephealthService(
	group string,
	db *sql.DB,
	pgConnURL string,
	openAIBaseURL string,
	blobURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		// PostgreSQL — pool mode через существующий pgxpool: отражает
		// реальное состояние пула и обнаруживает его исчерпание.
		dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)),
			dephealth.FromURL(pgConnURL),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
		// OpenAI — без него пайплайн обработки не работает.
		dephealth.HTTP("openai",
			dephealth.FromURL(openAIBaseURL),
			dephealth.WithHTTPHealthPath("/models"),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
	}

	if blobURL != "" {
		// Blob-хранилище некритично: чтение и список встреч работают без него.
		opts = append(opts, dephealth.HTTP("blobstore",
			dephealth.FromURL(blobURL),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(false),
		))
	}

	opts = append(opts, extraOpts...)

	dh, err := dephealth.New("meetnotes", group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (PostgreSQL + OpenAI + blobstore)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
