package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"weddinglead_backend/internal/email"
	"weddinglead_backend/internal/events"
	"weddinglead_backend/internal/followup"
	apphttp "weddinglead_backend/internal/http"
	"weddinglead_backend/internal/http/router"
	"weddinglead_backend/internal/intake"
	"weddinglead_backend/internal/leads"
	"weddinglead_backend/internal/messaging"
	"weddinglead_backend/internal/notification"
	"weddinglead_backend/internal/parse"
	"weddinglead_backend/internal/reports"
	"weddinglead_backend/internal/vendors"
	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/db"
	"weddinglead_backend/platform/logger"
	"weddinglead_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	if !strings.EqualFold(cfg.Env, "development") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	parser, err := parse.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize inquiry parser", "error", err)
		panic("failed to initialize inquiry parser: " + err.Error())
	}

	emailSender, err := email.New(cfg, log)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification subscribes to domain events before anything can publish.
	notificationModule := notification.NewModule(pool, eventBus, cfg, log)

	messagingModule := messaging.NewModule(pool, cfg, log)
	vendorsModule := vendors.NewModule(pool, val)
	leadsModule := leads.NewModule(pool, eventBus, log, val)
	followupModule := followup.NewModule(pool, messagingModule.Repository(), messagingModule.Dispatcher(), log, val)
	intakeModule := intake.NewModule(pool, followupModule.Repository(), messagingModule.Repository(),
		parser, messagingModule.Dispatcher(), eventBus, log, val)
	reportsModule := reports.NewModule(pool, emailSender, notificationModule.Sender(), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:              cfg,
		Logger:              log,
		Health:              db.NewPoolAdapter(pool),
		EventBus:            eventBus,
		IntakeRatePerMinute: cfg.IntakeRatePerMinute,
		IntakeRateBurst:     cfg.IntakeRateBurst,
		Modules: []apphttp.Module{
			vendorsModule,
			leadsModule,
			followupModule,
			messagingModule,
			intakeModule,
			notificationModule,
			reportsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
