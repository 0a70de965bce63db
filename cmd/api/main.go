package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/item-service/internal/admission"
	httptransport "github.com/spec-kit/item-service/internal/api/http"
	"github.com/spec-kit/item-service/internal/api/http/handlers"
	"github.com/spec-kit/item-service/internal/auth"
	"github.com/spec-kit/item-service/internal/config"
	"github.com/spec-kit/item-service/internal/events"
	"github.com/spec-kit/item-service/internal/observability"
	"github.com/spec-kit/item-service/internal/persistence"
	"github.com/spec-kit/item-service/internal/repository"
	"github.com/spec-kit/item-service/internal/service"
	"github.com/spec-kit/item-service/internal/worker"
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

	if pg.Configured() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var userRepo repository.UserRepository
	var itemRepo repository.ItemRepository
	if pg.Configured() {
		userRepo = repository.NewPostgresUserRepository(pg.Pool)
		itemRepo = repository.NewPostgresItemRepository(pg.Pool)
	} else {
		userRepo = repository.NewMemoryUserRepository()
		itemRepo = repository.NewMemoryItemRepository()
	}

	var counter admission.WindowCounter
	if redis.Configured() {
		counter = admission.NewRedisCounter(redis.Client)
	} else {
		counter = admission.NewMemoryCounter()
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	cookies := auth.NewSessionCookie(cfg.App.IsProduction(), cfg.Auth.CookieTTL())

	authService := service.NewAuthService(userRepo, hasher, tokens, dispatcher)
	userService := service.NewUserService(userRepo)
	itemService := service.NewItemService(itemRepo)
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	sessionMiddleware := auth.NewSessionMiddleware(tokens, cookies)
	admissionMiddleware := admission.NewMiddleware(
		admission.NewProvider(counter), cfg.Admission, logger, metrics, dispatcher)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:      handlers.NewAuthHandler(authService, cookies, logger),
		Users:     handlers.NewUsersHandler(userService),
		Items:     handlers.NewItemsHandler(itemService),
		Session:   sessionMiddleware,
		Admission: admissionMiddleware,
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
