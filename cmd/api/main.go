package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httpapi "github.com/pegasus-hq/support-core/internal/api/http"
	"github.com/pegasus-hq/support-core/internal/api/http/handlers"
	"github.com/pegasus-hq/support-core/internal/auth"
	"github.com/pegasus-hq/support-core/internal/config"
	"github.com/pegasus-hq/support-core/internal/events"
	"github.com/pegasus-hq/support-core/internal/observability"
	"github.com/pegasus-hq/support-core/internal/persistence"
	"github.com/pegasus-hq/support-core/internal/repository"
	"github.com/pegasus-hq/support-core/internal/service"
	"github.com/pegasus-hq/support-core/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("mongo connection failed", zap.Error(err))
	}
	defer mongo.Close(context.Background())

	if cfg.Mongo.EnsureIndexes {
		if err := persistence.EnsureIndexes(ctx, mongo, logger); err != nil {
			logger.Fatal("index bootstrap failed", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	ticketRepo := repository.NewTicketRepository(mongo.DB.Collection(persistence.CollectionTickets))
	notificationRepo := repository.NewNotificationRepository(mongo.DB.Collection(persistence.CollectionNotifications))
	templateRepo := repository.NewTemplateRepository(mongo.DB.Collection(persistence.CollectionTemplates))
	automationRepo := repository.NewAutomationRepository(mongo.DB.Collection(persistence.CollectionAutomations))
	userRepo := repository.NewUserRepository(mongo.AuthDB.Collection(persistence.CollectionUsers))
	usageRepo := repository.NewTokenUsageRepository(mongo.AuthDB.Collection(persistence.CollectionTokenUsage))

	dispatcher := events.NewInMemoryDispatcher()
	publisher := events.NewRedisPublisher(rdb.Client, cfg.Events.RedisChannel, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:       ticketRepo,
		NotificationRepo: notificationRepo,
		TemplateRepo:     templateRepo,
		AutomationRepo:   automationRepo,
		Dispatcher:       dispatcher,
	})
	moderationService := service.NewModerationService(userRepo, usageRepo)
	tokenService := service.NewTokenService(userRepo, usageRepo, cfg.Tokens.DefaultLimit)
	authService := service.NewAuthService(cfg.Auth, userRepo)
	notificationService := service.NewNotificationService(dispatcher, publisher, logger)

	worker.StartNotificationWorker(notificationService, logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpapi.NewErrorHandler(logger, metrics),
	})
	app.Use(httpapi.Recover(logger))
	app.Use(httpapi.RequestTimeout(cfg.App.RequestTimeout()))
	app.Use(observability.RequestLogger(logger, metrics))

	httpapi.RegisterRoutes(app, httpapi.RouteConfig{
		Auth:          handlers.NewAuthHandler(authService),
		Health:        handlers.NewHealthHandler(mongo, rdb, metrics, cfg.App.Version),
		Tickets:       handlers.NewTicketsHandler(ticketService),
		Users:         handlers.NewUsersHandler(moderationService),
		Tokens:        handlers.NewTokensHandler(tokenService),
		Notifications: handlers.NewNotificationsHandler(ticketService),
		Templates:     handlers.NewTemplatesHandler(ticketService),
		AuthMW:        auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
