package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civic-kit/complaint-service/internal/api/http"
	"github.com/civic-kit/complaint-service/internal/api/http/handlers"
	"github.com/civic-kit/complaint-service/internal/auth"
	"github.com/civic-kit/complaint-service/internal/config"
	"github.com/civic-kit/complaint-service/internal/events"
	"github.com/civic-kit/complaint-service/internal/observability"
	"github.com/civic-kit/complaint-service/internal/persistence"
	"github.com/civic-kit/complaint-service/internal/repository"
	"github.com/civic-kit/complaint-service/internal/store"
	"github.com/civic-kit/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	sessions := persistence.NewSessionStore(redis)
	snapshots := persistence.NewSnapshotCache(redis, cfg.Gateway.SnapshotTTL())
	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	confirmationRepo := repository.NewConfirmationRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	historyRepo := repository.NewComplaintHistoryRepository(pool)
	treeRepo := repository.NewTreeRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	gatewayTimeout := cfg.Gateway.Timeout()

	authStore := store.NewAuthStore(*cfg, store.AuthStoreDependencies{
		UserRepo:         userRepo,
		ConfirmationRepo: confirmationRepo,
		Sessions:         sessions,
		Logger:           logger,
	})
	userStore := store.NewUserStore(userRepo, snapshots, logger, gatewayTimeout)
	complaintStore := store.NewComplaintStore(store.ComplaintStoreDependencies{
		ComplaintRepo: complaintRepo,
		HistoryRepo:   historyRepo,
		Dispatcher:    dispatcher,
		Snapshots:     snapshots,
		Logger:        logger,
		Timeout:       gatewayTimeout,
	})
	treeStore := store.NewTreeStore(store.TreeStoreDependencies{
		TreeRepo:   treeRepo,
		Dispatcher: dispatcher,
		Snapshots:  snapshots,
		Logger:     logger,
		Timeout:    gatewayTimeout,
	})
	eventStore := store.NewEventStore(eventRepo, snapshots, logger, gatewayTimeout)
	scheduleStore := store.NewScheduleStore(scheduleRepo, snapshots, logger, gatewayTimeout)
	notificationStore := store.NewNotificationStore(notificationRepo, snapshots, logger, gatewayTimeout)
	messageStore := store.NewMessageStore(messageRepo, snapshots, logger, gatewayTimeout)

	notifier := worker.NewNotifier(notificationStore, dispatcher, logger)
	notifier.Start()

	complaintStore.Restore(ctx)

	authMiddleware := auth.NewAuthMiddleware(authStore.TokenManager(), userRepo, sessions)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authStore, userStore),
		Complaints:     handlers.NewComplaintsHandler(complaintStore),
		Tasks:          handlers.NewTasksHandler(complaintStore, scheduleStore),
		Admin:          handlers.NewAdminHandler(complaintStore, userStore, eventStore, scheduleStore),
		Trees:          handlers.NewTreesHandler(treeStore),
		Events:         handlers.NewEventsHandler(eventStore),
		Notifications:  handlers.NewNotificationsHandler(notificationStore),
		Messages:       handlers.NewMessagesHandler(messageStore),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
