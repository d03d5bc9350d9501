package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shenikar/accident_dispatch_system/internal/cache"
	"github.com/shenikar/accident_dispatch_system/internal/config"
	v1 "github.com/shenikar/accident_dispatch_system/internal/handler/http/v1"
	"github.com/shenikar/accident_dispatch_system/internal/links"
	"github.com/shenikar/accident_dispatch_system/internal/notify"
	"github.com/shenikar/accident_dispatch_system/internal/reminder"
	pgrepo "github.com/shenikar/accident_dispatch_system/internal/repository/postgres"
	sqliterepo "github.com/shenikar/accident_dispatch_system/internal/repository/sqlite"
	"github.com/shenikar/accident_dispatch_system/internal/service"
	"github.com/shenikar/accident_dispatch_system/migrations"
	"github.com/shenikar/accident_dispatch_system/pkg/logger"
	"github.com/shenikar/accident_dispatch_system/pkg/postgres"
	redisclient "github.com/shenikar/accident_dispatch_system/pkg/redis"
	"github.com/shenikar/accident_dispatch_system/pkg/sqlite"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/accident_dispatch_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// store - справочник больниц и журнал происшествий в одном хранилище
type store interface {
	service.ResponderRepository
	service.IncidentRepository
}

// @title Accident Dispatch System API
// @version 1.0
// @description Accident reporting, nearest-hospital dispatch and first-wins case acceptance.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.WithField("driver", cfg.DBDriver).Info("Running database migrations...")

	var err error
	switch cfg.DBDriver {
	case config.DriverSQLite:
		err = migrations.Up("sqlite", migrations.SQLiteURL(cfg.SQLitePath))
	default:
		err = migrations.Up("postgres", migrations.PostgresURL(cfg.DatabaseURL))
	}
	if err != nil {
		return err
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// openStore подключается к БД выбранного драйвера
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store, func(), error) {
	if cfg.DBDriver == config.DriverSQLite {
		db, err := sqlite.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("path", cfg.SQLitePath).Info("Successfully opened SQLite database")
		return sqliterepo.NewDispatchRepository(db), func() { _ = db.Close() }, nil
	}

	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Successfully connected to PostgreSQL")
	return pgrepo.NewDispatchRepository(dbpool), dbpool.Close, nil
}

// newSender выбирает транспорт доставки уведомлений
func newSender(cfg *config.Config, log *logrus.Logger) notify.Sender {
	switch cfg.NotifyTransport {
	case config.TransportSMTP:
		return notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.NotifyTimeout)
	case config.TransportWebhook:
		return notify.NewWebhookSender(cfg.WebhookURL, cfg.WebhookSecret, cfg.NotifyTimeout)
	default:
		return notify.NewLogSender(log)
	}
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

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к БД
	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeStore()

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Очередь уведомлений: сервис публикует, воркер доставляет через выбранный транспорт
	fanout := notify.NewFanoutGateway(newSender(cfg, log), cfg.NotifyTimeout)
	notifyWorker := notify.NewWorker(redisClient, fanout, log, cfg.NotifyMaxRetries, cfg.NotifyBaseDelay)
	notifyWorker.Start(ctx)
	log.WithField("transport", cfg.NotifyTransport).Info("Notification worker started")

	// Инициализация сервисов
	signer := links.NewSigner(cfg.PublicBaseURL, cfg.LinkSecret)
	dispatchService := service.NewDispatchService(
		repo,
		repo,
		cache.NewIncidentCache(redisClient, cfg.IncidentCacheTTL),
		notify.NewQueueGateway(redisClient),
		signer,
		log,
		cfg,
	)

	// Напоминания по непринятым происшествиям
	sweeper, err := reminder.NewSweeper(cfg.ReminderSchedule, cfg.ReminderAfter, dispatchService, log)
	if err != nil {
		log.Fatalf("Failed to configure reminder sweeper: %v", err)
	}
	sweeper.Start(ctx)

	// Инициализация хэндлеров
	handler := v1.NewHandler(dispatchService, signer, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	handler.RegisterRoutes(router)

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	sweeper.Stop()
	cancel()

	log.Info("Server gracefully stopped")
}
