// Package server assembles the CRM HTTP application from configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realestatecrm/internal/attachments"
	"realestatecrm/internal/config"
	"realestatecrm/internal/database"
	"realestatecrm/internal/handlers"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/middleware"
	"realestatecrm/internal/repositories"
	"realestatecrm/internal/services"
	"realestatecrm/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// App is a fully wired CRM server.
type App struct {
	Fiber *fiber.App
	Files *attachments.Manager

	cfg *config.Config
	log logging.Logger
	db  *gorm.DB
	mq  *rabbitmq.Client
}

// New opens the database and content store, connects to RabbitMQ when
// configured, and registers every route.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	store, err := attachments.OpenStore(ctx, cfg)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	a := &App{cfg: cfg, log: log, db: db}

	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Warn(ctx, "rabbitmq unavailable, domain events disabled", "err", err)
		} else {
			a.mq = mq
			events = mq
		}
	}

	listingRepo := repositories.NewGORMListingRepository(db)
	clientRepo := repositories.NewGORMClientRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	a.Files = attachments.NewManager(store, listingRepo, log)

	listingService := services.NewListingService(listingRepo, a.Files, events, log)
	clientService := services.NewClientService(clientRepo, events, log)
	authService := services.NewAuthService(userRepo, a.Files, events, log, services.AuthOptions{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	})

	app := fiber.New(fiber.Config{
		AppName:      "realestatecrm",
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: a.handleError,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", a.handleHealth)
	handlers.NewUploadsHandler(a.Files, log).RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService, log).RegisterRoutes(apiV1)

	protected := apiV1
	if cfg.AuthRequired {
		protected = apiV1.Group("", middleware.AuthRequired(authService, log))
	}
	handlers.NewListingHandler(listingService, log).RegisterRoutes(protected)
	handlers.NewClientHandler(clientService, log).RegisterRoutes(protected)

	a.Fiber = app
	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status, dbState := "healthy", "up"
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		status, dbState = "degraded", "down"
	}
	events := "disabled"
	if a.mq != nil {
		events = "enabled"
	}

	code := fiber.StatusOK
	if status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": dbState,
		"events":   events,
	})
}

// handleError renders errors that escape the handlers, such as unknown
// routes or oversized bodies, in the usual {"message", "error"} shape.
func (a *App) handleError(c *fiber.Ctx, err error) error {
	code, message := fiber.StatusInternalServerError, fiber.ErrInternalServerError.Message
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, message = fe.Code, fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		a.log.Error(c.UserContext(), "unhandled error", "path", c.Path(), "err", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "starting server", "addr", a.cfg.AppPort)
		errCh <- a.Fiber.Listen(a.cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.log.Info(ctx, "shutting down server")
	if err := a.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}

// Close releases the database and broker connections.
func (a *App) Close() error {
	var errs []error
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := database.Close(a.db); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
