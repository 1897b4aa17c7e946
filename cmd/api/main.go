package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/conversor/webhook-relay/internal/config"
	"github.com/conversor/webhook-relay/internal/handler"
	"github.com/conversor/webhook-relay/internal/logging"
	"github.com/conversor/webhook-relay/internal/middleware"
	"github.com/conversor/webhook-relay/internal/service"
	"github.com/conversor/webhook-relay/internal/store"
)

const serviceName = "conversion-relay"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init(serviceName, cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statusStore, sweep, err := buildStore(cfg)
	if err != nil {
		slog.Error("failed to initialize status store", "error", err)
		os.Exit(1)
	}
	defer statusStore.Close()

	if sweep {
		sweeper := store.NewSweeper(statusStore, slog.Default(), cfg.SweepInterval)
		go sweeper.Start(ctx)
	}

	conversions := service.NewConversionClient(service.ConversionClientConfig{
		BaseURL:        cfg.AdsAPIBaseURL,
		PixelID:        cfg.AdsPixelID,
		AccessToken:    cfg.AdsAccessToken,
		EventSourceURL: cfg.AdsEventSourceURL,
		TestEventCode:  cfg.TestCode(),
	})
	orders := service.NewOrderClient(cfg.OrderTrackingURL, cfg.OrderTrackingToken)
	gateway := service.NewGatewayClient(cfg.GatewayAPIURL, cfg.GatewaySecretKey)

	relay := service.NewRelay(statusStore, conversions, orders, cfg.GatewayPlatform, cfg.AdsEventSource)

	healthHandler := handler.NewHealthHandler(serviceName)
	webhookHandler := handler.NewWebhookHandler(relay, cfg.WebhookSecret)
	statusHandler := handler.NewStatusHandler(statusStore, gateway)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("POST /webhook/payment-status", webhookHandler.ReceivePaymentStatus)
	mux.HandleFunc("POST /webhook/debug", handler.Echo)
	mux.HandleFunc("GET /payment/status", statusHandler.GetStatus)

	chain := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started",
			"addr", addr,
			"store_backend", cfg.StoreBackend,
			"signature_verification", cfg.WebhookSecret != "",
			"test_mode", cfg.TestMode,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// buildStore selects the status store backend. The boolean reports
// whether the backend needs the sweeper (redis expires keys itself).
func buildStore(cfg *config.Config) (store.StatusStore, bool, error) {
	switch cfg.StoreBackend {
	case "memory", "":
		return store.NewMemoryStore(cfg.StatusTTL), true, nil
	case "redis":
		s, err := store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StatusTTL)
		if err != nil {
			return nil, false, err
		}
		return s, false, nil
	case "postgres":
		db, err := connectDB(cfg.DatabaseURL)
		if err != nil {
			return nil, false, err
		}
		return store.NewPostgresStore(db, cfg.StatusTTL), true, nil
	default:
		return nil, false, fmt.Errorf("buildStore: unknown backend %q", cfg.StoreBackend)
	}
}

func connectDB(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("connectDB: DATABASE_URL is required for the postgres backend")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connectDB: %w", err)
	}

	for i := range 30 {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
