// Package server wires the development Product Service: a chi router over the
// product repository with logging, metrics and CORS.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Lixing-Zhang/product-panel/internal/handlers"
	"github.com/Lixing-Zhang/product-panel/internal/middleware"
	"github.com/Lixing-Zhang/product-panel/internal/repository"
	"github.com/Lixing-Zhang/product-panel/internal/service"
)

// Version is reported by /health
const Version = "1.0.0"

// Options configures the router
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	// Registry receives the HTTP metrics; nil creates a private one
	Registry *prometheus.Registry
}

// NewRouter returns the HTTP handler serving /products, /health and /metrics
func NewRouter(repo repository.ProductRepository, log *zap.Logger, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	productService := service.NewProductService(repo)

	healthHandler := handlers.NewHealthHandler(repo, log, Version)
	productHandler := handlers.NewProductHandler(productService, log)
	metrics := middleware.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(opts.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	productHandler.Routes(r)

	return r
}
