package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Lixing-Zhang/product-panel/internal/repository"
)

// HealthHandler reports whether the product store can be read
type HealthHandler struct {
	repo    repository.ProductRepository
	logger  *zap.Logger
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(repo repository.ProductRepository, logger *zap.Logger, version string) *HealthHandler {
	return &HealthHandler{
		repo:    repo,
		logger:  logger,
		version: version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Products  int       `json:"products"`
}

// ServeHTTP handles health check requests. An unreadable store answers 503.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}

	products, err := h.repo.GetAll(r.Context())
	if err != nil {
		h.logger.Error("health check: product store unavailable", zap.Error(err))
		resp.Status = "unavailable"
		WriteJSON(w, http.StatusServiceUnavailable, resp, h.logger)
		return
	}
	resp.Products = len(products)

	WriteJSON(w, http.StatusOK, resp, h.logger)
}
