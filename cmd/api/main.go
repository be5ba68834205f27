package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/arsverma5/huskyhub-api/internal/config"
	"github.com/arsverma5/huskyhub-api/internal/database"
	"github.com/arsverma5/huskyhub-api/internal/events"
	"github.com/arsverma5/huskyhub-api/internal/handler"
	"github.com/arsverma5/huskyhub-api/internal/middleware"
	"github.com/arsverma5/huskyhub-api/internal/repository"
	"github.com/arsverma5/huskyhub-api/internal/router"
	"github.com/arsverma5/huskyhub-api/internal/service"
	"github.com/arsverma5/huskyhub-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.Connect(database.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DatabaseAutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, moderation summary will not be cached")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	hub := events.NewHub()
	publishers := events.Multi{hub}

	switch cfg.EventsDriver {
	case config.EventsDriverNATS:
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer conn.Drain()

		natsPublisher := events.NewNATSPublisher(conn, cfg.NATSSubject, uuid.NewString())
		unsubscribe, err := natsPublisher.Subscribe(hub)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to subscribe to moderation events")
		}
		defer unsubscribe()
		publishers = append(publishers, natsPublisher)
	case config.EventsDriverKafka:
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close kafka writer")
			}
		}()
		publishers = append(publishers, kafkaPublisher)
	}

	validate := utils.NewValidator()
	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)

	activityService := service.NewActivityService(repos.Activity, logger)
	reportService := service.NewReportService(repos.Reports, uow, validate, activityService, publishers, logger)
	suspensionService := service.NewSuspensionService(repos.Suspensions, uow, validate, activityService, publishers, logger)
	summaryService := service.NewModerationSummaryService(repos.Reports, repository.NewMarketplaceAnalyticsRepository(db), redisClient, cfg.SummaryCacheTTL, logger)
	studentService := service.NewStudentService(repos.Students, validate, activityService, logger)
	listingService := service.NewListingService(repos, uow, validate, activityService, logger)
	transactionService := service.NewTransactionService(repos, uow, validate, activityService, logger)
	reviewService := service.NewReviewService(repos, validate, activityService, logger)

	deps := router.Dependencies{
		DB:                 db,
		ReportHandler:      handler.NewAdminReportHandler(reportService, logger),
		SuspensionHandler:  handler.NewAdminSuspensionHandler(suspensionService, logger),
		ModerationHandler:  handler.NewAdminModerationHandler(summaryService, hub, logger),
		ActivityHandler:    handler.NewAdminActivityHandler(activityService, logger),
		StudentHandler:     handler.NewStudentHandler(studentService, logger),
		ListingHandler:     handler.NewListingHandler(listingService, reviewService, logger),
		TransactionHandler: handler.NewTransactionHandler(transactionService, logger),
		ReviewHandler:      handler.NewReviewHandler(reviewService, logger),
	}
	if cfg.JWTSecret != "" {
		deps.JWTMiddleware = middleware.PersonaJWT(cfg.JWTSecret)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: router.ErrorHandler,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, deps)

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("events_driver", cfg.EventsDriver).Msg("huskyhub api listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", cfg.AppName).Logger()
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
