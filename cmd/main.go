package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shenikar/sos_alert_system/internal/config"
	"github.com/shenikar/sos_alert_system/internal/dispatcher"
	v1 "github.com/shenikar/sos_alert_system/internal/handler/http/v1"
	"github.com/shenikar/sos_alert_system/internal/provider"
	"github.com/shenikar/sos_alert_system/internal/queue"
	"github.com/shenikar/sos_alert_system/internal/repository"
	"github.com/shenikar/sos_alert_system/internal/service"
	"github.com/shenikar/sos_alert_system/internal/webhook"
	"github.com/shenikar/sos_alert_system/pkg/logger"
	"github.com/shenikar/sos_alert_system/pkg/postgres"
	redisclient "github.com/shenikar/sos_alert_system/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/sos_alert_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title SOS Alert System API
// @version 1.0
// @description Panic alert intake, SMS and voice fan-out to emergency contacts, and incident tracking.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
		migrationURL = strings.Replace(migrationURL, "postgresql://", "pgx5://", 1)
	}

	m, err := migrate.New(cfg.MigrationsPath, migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// newProvider выбирает провайдера оповещений. Неполные учетные данные
// переводят сервис в режим симуляции, неизвестное имя провайдера фатально.
func newProvider(cfg *config.Config, log *logrus.Logger) provider.Provider {
	p, err := provider.New(cfg.Provider, log)
	if err != nil {
		var (
			cfgErr     *provider.ConfigError
			unknownErr *provider.UnknownProviderError
		)
		switch {
		case errors.As(err, &unknownErr):
			log.Fatalf("Failed to select notification provider: %v", err)
		case errors.As(err, &cfgErr):
			log.WithError(err).Warn("Notification provider is not configured, running in simulation mode")
			return nil
		default:
			log.Fatalf("Failed to create notification provider: %v", err)
		}
	}

	if err := p.ValidateConfig(); err != nil {
		log.WithError(err).Warn("Notification provider config is invalid, running in simulation mode")
		return nil
	}
	log.WithField("provider", p.Name()).Info("Notification provider selected")
	return p
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация Redis клиента, если он нужен очереди или кешу
	var redisClient *redis.Client
	if cfg.NeedsRedis() {
		redisClient, err = redisclient.NewRedisClient(ctx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Successfully connected to Redis")
	}

	// Инициализация хранилища инцидентов
	var incidentRepo service.IncidentRepository
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		if err := runMigrations(cfg, log); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}

		var dbpool *pgxpool.Pool
		dbpool, err = postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer dbpool.Close()
		log.Info("Successfully connected to PostgreSQL")

		var cache *redis.Client
		if cfg.IncidentCache {
			cache = redisClient
		}
		incidentRepo = repository.NewIncidentRepository(dbpool, cache, cfg.IncidentCacheTTL)
	default:
		log.Warn("Using in-memory incident storage, incidents are lost on restart")
		incidentRepo = repository.NewMemoryIncidentRepository()
	}

	// Инициализация сервисов
	incidentService := service.NewIncidentService(incidentRepo, log)

	// Провайдер, рассылка и фоновая обработка
	alertDispatcher := dispatcher.New(newProvider(cfg, log), cfg.Dispatch, log)
	notifier := webhook.NewNotifier(cfg, log)
	worker := queue.NewWorker(incidentService, alertDispatcher, notifier, redisClient, log)

	var (
		publisher      service.DispatchPublisher
		localPublisher *queue.LocalPublisher
	)
	switch cfg.QueueBackend {
	case config.QueueRedis:
		publisher = queue.NewRedisPublisher(redisClient)
		worker.Start(ctx)
	default:
		localPublisher = queue.NewLocalPublisher(ctx, worker, log)
		publisher = localPublisher
	}

	alertService := service.NewAlertService(incidentService, publisher, log)

	// Инициализация хэндлеров
	handler := v1.NewHandler(alertService, incidentService, v1.ProviderInfo{
		Active:     alertDispatcher.ProviderName(),
		Simulation: alertDispatcher.Simulated(),
	}, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	// Останавливаем прием заданий и дожидаемся начатых рассылок
	cancel()
	if localPublisher != nil {
		localPublisher.Close()
	} else {
		<-worker.Done()
	}

	log.Info("Server gracefully stopped")
}
