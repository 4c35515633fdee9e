// Package main provides a standalone HTTP server for E2E testing.
// It serves the same routes and handlers as the dashboard, backed by an
// in-process mock of the OpenAI chat API, making it suitable for browser tests.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-dashboard/agents"
	"stock-dashboard/e2e"
	"stock-dashboard/e2e/mocks"
	"stock-dashboard/internal/api"
	"stock-dashboard/internal/app"
	"stock-dashboard/observability"
	"stock-dashboard/services"
)

func main() {
	// Initialize logger in development mode for tests
	observability.InitLogger(false)
	observability.InitMetrics()

	port := os.Getenv("E2E_SERVER_PORT")
	if port == "" {
		port = "9090"
	}

	mockLLM := mocks.NewMockServer()
	defer mockLLM.Close()
	if delay, err := time.ParseDuration(os.Getenv("E2E_LLM_DELAY")); err == nil {
		mockLLM.SetDelay(delay)
	}
	observability.Info("mock provider started", "url", mockLLM.URL())

	cfg := e2e.TestConfig(mockLLM.URL())
	ctx := context.Background()

	llm, err := services.NewLLMService(ctx, cfg)
	if err != nil {
		observability.Fatal("failed to create provider", "error", err)
	}

	application := app.New(cfg, agents.NewStockAnalyst(llm, cfg.Analysis.Provider))
	application.Startup(ctx)

	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		observability.Info("starting E2E test server", "port", port, "url", fmt.Sprintf("http://localhost:%s", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down E2E test server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}

	if err := application.Shutdown(shutdownCtx); err != nil {
		observability.Warn("fetches still running at shutdown", "error", err)
	}
	observability.Info("E2E test server stopped")
}
