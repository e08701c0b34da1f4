package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/waterworks/water-service/internal/api/http"
	"github.com/waterworks/water-service/internal/api/http/handlers"
	"github.com/waterworks/water-service/internal/auth"
	"github.com/waterworks/water-service/internal/config"
	"github.com/waterworks/water-service/internal/events"
	"github.com/waterworks/water-service/internal/observability"
	"github.com/waterworks/water-service/internal/persistence"
	"github.com/waterworks/water-service/internal/repository"
	"github.com/waterworks/water-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, persistence.MigrateUp, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("failed to connect postgres: %w", err)
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(dispatcher, logger, redis, cfg.Redis.EventsChannel, metrics).RegisterHandlers()

	accountService := service.NewAccountService(userRepo, cfg.Auth.BcryptCost)
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		UserRepo:        userRepo,
		ApplicationRepo: applicationRepo,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		UserRepo:        userRepo,
		ApplicationRepo: applicationRepo,
		ComplaintRepo:   complaintRepo,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	adminService, err := service.NewAdminService(cfg.Admin, cfg.Auth.BcryptCost, userRepo)
	if err != nil {
		return fmt.Errorf("failed to init admin console: %w", err)
	}
	if !cfg.Admin.Enabled() {
		logger.Warn("admin console disabled: ADMIN_USERNAME or ADMIN_PASSWORD not set")
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Pages:          handlers.NewPagesHandler(),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Applications:   handlers.NewApplicationsHandler(applicationService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Admin:          handlers.NewAdminHandler(adminService, applicationService, complaintService),
		AuthMiddleware: auth.NewAuthMiddleware(adminService.TokenManager()),
		RateLimiter:    httptransport.NewRateLimiter(cfg.Auth.RateLimitPerSecond, cfg.Auth.RateLimitBurst, logger),
		Metrics:        metrics,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		listenErr <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("fiber listen: %w", err)
	case <-waitForShutdown(ctx, logger):
	}

	return app.ShutdownWithTimeout(shutdownTimeout)
}

func waitForShutdown(ctx context.Context, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			logger.Info("shutting down", zap.String("signal", sig.String()))
		case <-ctx.Done():
			logger.Info("shutting down", zap.Error(ctx.Err()))
		}
	}()
	return done
}
