package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/helpdesk-kit/helpdesk-service/internal/api/http"
	"github.com/helpdesk-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/config"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/observability"
	"github.com/helpdesk-kit/helpdesk-service/internal/persistence"
	"github.com/helpdesk-kit/helpdesk-service/internal/repository"
	"github.com/helpdesk-kit/helpdesk-service/internal/seed"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	categoryRepo := repository.NewCachedCategoryRepository(repository.NewCategoryRepository(pool), redis.Client)

	if cfg.App.SeedOnStart {
		if err := seed.Run(ctx, seed.Dependencies{
			Users:       userRepo,
			Clients:     clientRepo,
			Technicians: technicianRepo,
			Categories:  categoryRepo,
			BcryptCost:  cfg.Auth.BcryptCost,
		}, logger); err != nil {
			logger.Fatal("failed to seed", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	observability.RegisterEventRecorder(dispatcher, metrics, logger)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	profileService := service.NewProfileService(service.ProfileDependencies{
		UserRepo:       userRepo,
		ClientRepo:     clientRepo,
		TechnicianRepo: technicianRepo,
	})
	categoryService := service.NewCategoryService(categoryRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		ClientRepo:   clientRepo,
		CategoryRepo: categoryRepo,
		Dispatcher:   dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo:     ticketRepo,
		TechnicianRepo: technicianRepo,
		Dispatcher:     dispatcher,
		MaxInProgress:  cfg.Assignment.MaxInProgressPerTechnician,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Profiles:       handlers.NewProfilesHandler(profileService),
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
