package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/salaoapp/salao-bfa-go/internal/config"
	"github.com/salaoapp/salao-bfa-go/internal/domain"
	"github.com/salaoapp/salao-bfa-go/internal/handler"
	"github.com/salaoapp/salao-bfa-go/internal/infra/cache"
	"github.com/salaoapp/salao-bfa-go/internal/infra/observability"
	"github.com/salaoapp/salao-bfa-go/internal/infra/resilience"
	"github.com/salaoapp/salao-bfa-go/internal/infra/supabase"
	"github.com/salaoapp/salao-bfa-go/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load()

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.SupabaseURL == "" || cfg.SupabaseJWTSecret == "" {
		logger.Fatal("SUPABASE_URL and SUPABASE_JWT_SECRET are required")
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("supabase_url", cfg.SupabaseURL),
		zap.String("storage_bucket", cfg.StorageBucket),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "salao-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	sessionCache := cache.New[domain.Session](cfg.SessionTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("supabase")

	// --- Supabase client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	supabaseClient := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		logger,
	)

	// --- Services ---
	resolver := service.NewSessionResolver(
		supabaseClient,
		sessionCache,
		[]byte(cfg.SupabaseJWTSecret),
		metrics,
		logger,
	)
	authSvc := service.NewAuth(supabaseClient, supabaseClient, resolver, cfg.ResetRedirectURL, logger)
	historySvc := service.NewHistory(supabaseClient, supabaseClient, metrics, logger)
	performedSvc := service.NewPerformed(supabaseClient, supabaseClient, supabaseClient, logger)
	catalogSvc := service.NewCatalog(supabaseClient, logger)
	professionalsSvc := service.NewProfessionals(supabaseClient, logger)
	profileSvc := service.NewProfile(supabaseClient, supabaseClient, cfg.StorageBucket, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Resolver:      resolver,
		Auth:          authSvc,
		History:       historySvc,
		Performed:     performedSvc,
		Catalog:       catalogSvc,
		Professionals: professionalsSvc,
		Profile:       profileSvc,
	}, metrics, cfg.AllowedOrigins, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
