package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/wakandasalud/clinic-api/internal/config"
	"github.com/wakandasalud/clinic-api/internal/handler"
	"github.com/wakandasalud/clinic-api/internal/infra/postgresql"
	"github.com/wakandasalud/clinic-api/internal/infra/postgresql/migrations"
	infraredis "github.com/wakandasalud/clinic-api/internal/infra/redis"
	"github.com/wakandasalud/clinic-api/internal/observability"
	"github.com/wakandasalud/clinic-api/internal/provider"
	"github.com/wakandasalud/clinic-api/internal/repository"
	"github.com/wakandasalud/clinic-api/internal/service"
	"github.com/wakandasalud/clinic-api/internal/transport"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.RateLimitPerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	dispatcher, err := provider.NewTwilioWhatsAppDispatcher(provider.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioWhatsAppFrom,
	}, limiter, logger)
	if err != nil {
		logger.Fatal("whatsapp dispatcher initialization failed", zap.Error(err))
	}

	invoiceRepo := repository.NewGormInvoiceRepo(db)
	notificationRepo := repository.NewGormNotificationRepo(db)
	phoneRepo := repository.NewGormPhoneRepo(db)
	appointmentRepo := repository.NewGormAppointmentRepo(db)
	patientRepo := repository.NewGormPatientRepo(db)

	invoiceService, err := service.NewInvoiceService(
		invoiceRepo, appointmentRepo, patientRepo, notificationRepo,
		dispatcher, cfg.DefaultCountryCode, metrics, logger,
	)
	if err != nil {
		logger.Fatal("invoice service initialization failed", zap.Error(err))
	}

	phoneService, err := service.NewPhoneService(phoneRepo, notificationRepo, dispatcher, metrics, logger)
	if err != nil {
		logger.Fatal("phone service initialization failed", zap.Error(err))
	}

	notificationService, err := service.NewNotificationService(notificationRepo)
	if err != nil {
		logger.Fatal("notification service initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "clinic-api",
		ErrorHandler: transport.ErrorHandler(logger),
	})

	app.Use(metrics.HTTPMiddleware())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	handler.RegisterHealthRoutes(app, sqlDB, rdb)

	if err := handler.RegisterInvoiceRoutes(app, invoiceService); err != nil {
		logger.Fatal("invoice routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterPhoneRoutes(app, phoneService); err != nil {
		logger.Fatal("phone routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterNotificationRoutes(app, notificationService); err != nil {
		logger.Fatal("notification routes registration failed", zap.Error(err))
	}

	logger.Info("clinic-api started", zap.Int("port", cfg.APIPort))

	if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
