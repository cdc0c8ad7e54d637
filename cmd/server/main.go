package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/segmentio/ksuid"

	"github.com/playbojio/playbojio-api/internal/cache"
	"github.com/playbojio/playbojio-api/internal/config"
	"github.com/playbojio/playbojio-api/internal/database"
	"github.com/playbojio/playbojio-api/internal/handlers"
	"github.com/playbojio/playbojio-api/internal/logging"
	"github.com/playbojio/playbojio-api/internal/middleware"
	"github.com/playbojio/playbojio-api/internal/routes"
	"github.com/playbojio/playbojio-api/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	db := database.DB

	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.AttachDB(db)

	retention := logging.NewRetention(db, cfg.LogRetention)
	if err := retention.Start(cfg.LogCleanupSchedule); err != nil {
		slog.Error("log retention not scheduled", "error", err)
		os.Exit(1)
	}

	// Shared rate-limit state when Redis is configured, in-memory otherwise
	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(context.Background(), cfg)
		if err != nil {
			slog.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		limiterStorage = cache.NewStorage(client, "playbojio:limiter:")
		slog.Info("redis connected", "addr", cfg.RedisAddr)
	}

	// Services
	sessionService := services.NewSessionService(db, cfg.PageSize)
	eventService := services.NewEventService(db, cfg.PageSize)
	groupService := services.NewGroupService(db)
	joinRequestService := services.NewGroupJoinRequestService(db)
	invitationService := services.NewGroupInvitationService(db)
	friendService := services.NewFriendService(db)
	blacklistService := services.NewBlacklistService(db)
	userService := services.NewUserService(db)
	adminService := services.NewAdminService(db)

	// Handlers
	h := routes.Handlers{
		Health:    handlers.NewHealthHandler(db),
		Sessions:  handlers.NewSessionHandler(sessionService),
		Events:    handlers.NewEventHandler(eventService),
		Groups:    handlers.NewGroupHandler(groupService, joinRequestService, invitationService, sessionService, eventService),
		Friends:   handlers.NewFriendHandler(friendService),
		Blacklist: handlers.NewBlacklistHandler(blacklistService),
		Users:     handlers.NewUserHandler(userService),
		Admin:     handlers.NewAdminHandler(adminService),
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return ksuid.New().String() },
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, db, userService, h, limiterStorage)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	retention.Stop()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if limiterStorage != nil {
		if err := limiterStorage.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	// Close database connections
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
