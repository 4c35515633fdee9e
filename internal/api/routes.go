package api

import (
	"net/http"
	"strings"
	"time"

	"stock-dashboard/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures a Chi router with all routes
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.HTTP.RequestTimeoutSeconds) * time.Second))
	r.Use(cors.Handler(corsOptions(cfg.HTTP.CORSAllowedOrigins)))
	r.Use(MetricsMiddleware)

	// Dashboard
	r.Get("/", h.HandleIndex)
	r.Get("/index.html", h.HandleIndex)
	r.Post("/search", h.HandleSearch)

	// Metrics endpoint for Prometheus
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Get("/state", h.HandleState)
		r.Post("/analyze", h.HandleAnalyzeStock)
		r.Get("/chart/{ticker}", h.HandleChart)
	})

	return r
}

// corsOptions builds the CORS policy from a comma-separated origin list
func corsOptions(allowedOrigins string) cors.Options {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Current-URL"},
		MaxAge:         300,
	}
}
