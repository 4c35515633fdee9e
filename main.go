package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-dashboard/agents"
	"stock-dashboard/config"
	"stock-dashboard/internal/api"
	"stock-dashboard/internal/app"
	"stock-dashboard/observability"
	"stock-dashboard/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger(false)
		observability.Fatal("invalid configuration", "error", err)
	}

	observability.InitLoggerWithLevel(cfg.Log.Production, observability.ParseLevel(cfg.Log.Level))
	observability.InitMetrics()
	if envErr != nil {
		observability.Debug("no .env file found, using environment variables")
	}

	ctx := context.Background()

	services.SetGlobalRegistry(services.NewCircuitBreakerRegistry(services.DefaultCircuitBreakerConfig))

	// A missing provider degrades the dashboard instead of stopping it:
	// every search then shows the error banner and /api/health says why.
	var analyst agents.StockAnalyzer
	if cfg.HasProvider() {
		llm, err := services.NewLLMService(ctx, cfg)
		if err != nil {
			observability.Fatal("failed to initialize analysis provider", "error", err)
		}
		analyst = agents.NewStockAnalystWithCacheTTL(llm, cfg.Analysis.Provider,
			time.Duration(cfg.Analysis.HealthCacheTTLSeconds)*time.Second)
		observability.WithProvider(cfg.Analysis.Provider).Info("analysis provider ready")
	} else {
		observability.WithProvider(cfg.Analysis.Provider).Warn("analysis provider not configured, searches will fail")
	}

	application := app.New(cfg, analyst)
	application.Startup(ctx)

	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		observability.Info("starting dashboard", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Error("server forced to shutdown", "error", err)
	}
	if err := application.Shutdown(shutdownCtx); err != nil {
		observability.WithError(err).Warn("fetches still running at shutdown")
	}
	observability.Info("dashboard stopped")
}
