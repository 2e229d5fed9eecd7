// Точка входа Meetnotes — backend сервиса протоколов встреч.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт клиентов blob-хранилища и OpenAI, собирает пайплайн обработки
// (транскрипция + анализ), пул фоновых воркеров, JWT middleware
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/meetnotes/internal/api/handlers"
	"github.com/bigkaa/meetnotes/internal/api/middleware"
	"github.com/bigkaa/meetnotes/internal/blobstore"
	"github.com/bigkaa/meetnotes/internal/config"
	"github.com/bigkaa/meetnotes/internal/database"
	"github.com/bigkaa/meetnotes/internal/openai"
	"github.com/bigkaa/meetnotes/internal/repository"
	"github.com/bigkaa/meetnotes/internal/retry"
	"github.com/bigkaa/meetnotes/internal/server"
	"github.com/bigkaa/meetnotes/internal/service"
	"github.com/bigkaa/meetnotes/internal/worker"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Meetnotes запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if cfg.TeamsWebhookSecret == "" {
		logger.Warn("MN_TEAMS_WEBHOOK_SECRET не задан, webhook Teams отключён")
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL идёт через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Внешние клиенты: blob-хранилище записей и OpenAI
	blobClient := blobstore.New(cfg.BlobToken, cfg.BlobFetchTimeout, logger)
	aiClient := openai.New(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAITimeout, logger)

	// 6. Исполнители повторов
	// AI: экспоненциальный backoff с джиттером для transient-ошибок провайдера.
	aiExec := retry.New(retry.Policy{
		MaxRetries: cfg.AIMaxRetries,
		BaseDelay:  cfg.AIRetryBaseDelay,
	}, logger)
	// Критичные записи БД: короткие линейные задержки, чтобы не
	// потерять готовый результат обработки из-за мгновенного сбоя.
	storeExec := retry.New(retry.Policy{
		MaxRetries: cfg.DBCriticalRetries,
		BaseDelay:  cfg.DBRetryBaseDelay,
		Fast:       true,
	}, logger)
	// Чтения не повторяются: клиентский поллер придёт снова сам.
	readExec := retry.New(retry.Policy{MaxRetries: 0, Fast: true}, logger)

	// 7. Repository
	meetingRepo := repository.NewMeetingRepository(pool)

	// 8. Пайплайн обработки: транскрипция → анализ → запись результата
	transcriptionSvc := service.NewTranscriptionService(
		blobClient, aiClient, aiExec,
		cfg.TranscriptionModel, cfg.TranscriptionLanguage,
		logger,
	)
	analysisSvc := service.NewAnalysisService(aiClient, aiExec, cfg.AnalysisModel, logger)
	processor := service.NewProcessor(
		meetingRepo, transcriptionSvc, analysisSvc,
		storeExec, readExec,
		logger,
	)

	// 9. Сервис встреч с LRU-кэшем терминальных статусов
	statusCache := service.NewStatusCache(cfg.StatusCacheSize, cfg.StatusCacheTTL)
	meetingsSvc := service.NewMeetingService(meetingRepo, blobClient, statusCache, readExec, logger)

	// 10. Пул фоновых воркеров обработки
	runner := worker.New(processor.Process, cfg.WorkerMaxConcurrent, cfg.WorkerDrainTimeout, logger)
	runner.Start(ctx)

	// 11. topologymetrics — мониторинг зависимостей (PostgreSQL, OpenAI, blob)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.OpenAIBaseURL,
		cfg.BlobBaseURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	dephealthStarted := false
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
			dephealthStarted = true
		}
	}

	// 12. Readiness checker и handlers
	pgChecker := database.NewReadinessChecker(pool)
	healthHandler := handlers.NewHealthHandler(pgChecker)
	apiHandler := handlers.NewAPIHandler(meetingsSvc, runner, healthHandler, cfg.TeamsWebhookSecret, logger)

	// 13. JWT middleware
	jwtAuth, err := middleware.NewJWTAuth(
		cfg.JWTJWKSURL,
		cfg.JWTIssuer,
		cfg.JWKSRefreshInterval,
		cfg.JWTLeeway,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("JWT middleware инициализирован",
		slog.String("jwks_url", cfg.JWTJWKSURL),
		slog.String("issuer", cfg.JWTIssuer),
	)

	// Health, metrics и webhook Teams не требуют JWT:
	// webhook аутентифицируется общим секретом.
	jwtWithExclusions := server.JWTAuthWithExclusions(
		jwtAuth.Middleware(),
		"/health/",
		"/metrics",
		"/api/v1/webhooks/",
	)

	// 14. HTTP-сервер: metrics → logging → JWT
	middlewares := []func(http.Handler) http.Handler{
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
		jwtWithExclusions,
	}
	srv := server.New(cfg, logger, apiHandler, middlewares...)

	// После остановки HTTP: сначала дренаж воркеров, затем мониторинг
	srv.RegisterOnShutdown(runner.Stop)
	if dephealthStarted {
		srv.RegisterOnShutdown(dephealthSvc.Stop)
	}

	// 15. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Meetnotes остановлен")
}
