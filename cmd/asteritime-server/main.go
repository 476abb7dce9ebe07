// Command asteritime-server runs the AsteriTime REST API: task lifecycle,
// journal, auth, and the NATS-to-WebSocket event bridge.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	athttp "github.com/asteritime/asteritime/internal/adapter/http"
	atnats "github.com/asteritime/asteritime/internal/adapter/nats"
	"github.com/asteritime/asteritime/internal/adapter/natskv"
	"github.com/asteritime/asteritime/internal/adapter/otel"
	"github.com/asteritime/asteritime/internal/adapter/postgres"
	"github.com/asteritime/asteritime/internal/adapter/ristretto"
	"github.com/asteritime/asteritime/internal/adapter/tiered"
	"github.com/asteritime/asteritime/internal/adapter/ws"
	"github.com/asteritime/asteritime/internal/config"
	"github.com/asteritime/asteritime/internal/logger"
	"github.com/asteritime/asteritime/internal/middleware"
	"github.com/asteritime/asteritime/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"reconcile_interval", cfg.Engine.ReconcileInterval,
	)

	ctx := context.Background()

	// --- Telemetry ---
	shutdownTracer, err := otel.InitTracer(ctx, cfg.Logging.Service, cfg.Otel.Endpoint)
	if err != nil {
		return fmt.Errorf("otel tracer: %w", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	shutdownMeter, err := otel.InitMeter(ctx, cfg.Logging.Service, cfg.Otel.Endpoint)
	if err != nil {
		return fmt.Errorf("otel meter: %w", err)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("otel metrics: %w", err)
	}

	// --- Infrastructure ---
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	queue, err := atnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	local, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	kv, err := queue.KeyValue(ctx, "asteritime-cache")
	if err != nil {
		return fmt.Errorf("cache bucket: %w", err)
	}
	focusCache := tiered.New(local, natskv.New(kv), cfg.Cache.DefaultTTL)

	// --- Services ---
	hub := ws.NewHub()
	store := postgres.NewStore(pool)

	authSvc := service.NewAuthService(store, &cfg.Auth)
	taskSvc := service.NewTaskService(store, queue)
	categorySvc := service.NewCategoryService(store)
	recurrenceSvc := service.NewRecurrenceService(store)
	journalSvc := service.NewJournalService(store, queue, focusCache, cfg.Cache.DefaultTTL)

	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	authSvc.StartTokenCleanup(cleanupCtx, time.Hour)

	bridge := service.NewEventBridge(queue, hub)
	stopBridge, err := bridge.Start(ctx)
	if err != nil {
		return fmt.Errorf("event bridge: %w", err)
	}
	defer stopBridge()

	// --- HTTP ---
	handlers := &athttp.Handlers{
		Auth:        authSvc,
		Tasks:       taskSvc,
		Categories:  categorySvc,
		Recurrences: recurrenceSvc,
		Journal:     journalSvc,
		Hub:         hub,
		Metrics:     metrics,
	}

	r := chi.NewRouter()
	r.Use(athttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(athttp.Logger)
	r.Use(athttp.Instrument(metrics))
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Auth(authSvc))

	athttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
