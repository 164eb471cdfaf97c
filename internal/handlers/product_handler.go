package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Lixing-Zhang/product-panel/internal/models"
	"github.com/Lixing-Zhang/product-panel/internal/repository"
	"github.com/Lixing-Zhang/product-panel/internal/service"
)

// maxBodyBytes caps product request bodies
const maxBodyBytes = 1 << 20

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the collection under the current router
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Post("/products", h.CreateProduct)
	r.Get("/products/{productId}", h.GetProduct)
	r.Put("/products/{productId}", h.UpdateProduct)
	r.Delete("/products/{productId}", h.DeleteProduct)
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.log(r).Error("failed to list products", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// GetProduct handles GET /products/{productId}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		h.writeServiceError(w, r, "get", productID, err)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, "create", "", err)
		return
	}

	WriteJSON(w, http.StatusCreated, product, h.logger)
	h.log(r).Info("product created", zap.String("productId", product.ID.String()))
}

// UpdateProduct handles PUT /products/{productId}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), productID, in)
	if err != nil {
		h.writeServiceError(w, r, "update", productID, err)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
	h.log(r).Info("product updated", zap.String("productId", productID.String()))
}

// DeleteProduct handles DELETE /products/{productId}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
		h.writeServiceError(w, r, "delete", productID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.log(r).Info("product deleted", zap.String("productId", productID.String()))
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (models.ID, bool) {
	productID := chi.URLParam(r, "productId")
	if productID == "" {
		h.log(r).Warn("product ID is required")
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return "", false
	}
	return models.ID(productID), true
}

func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request) (models.ProductInput, bool) {
	var in models.ProductInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		h.log(r).Warn("failed to decode product request", zap.Error(err))
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return models.ProductInput{}, false
	}
	return in, true
}

func (h *ProductHandler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, productID models.ID, err error) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		h.log(r).Info("product not found", zap.String("productId", productID.String()))
		WriteError(w, http.StatusNotFound, "Product not found", h.logger)
	case errors.Is(err, service.ErrNameRequired):
		WriteError(w, http.StatusBadRequest, "Name is required", h.logger)
	case errors.Is(err, service.ErrInvalidPrice):
		WriteError(w, http.StatusBadRequest, "Price must be a non-negative number", h.logger)
	default:
		h.log(r).Error("failed to "+op+" product", zap.String("productId", productID.String()), zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}

// log tags entries with the request id set by chi's RequestID middleware
func (h *ProductHandler) log(r *http.Request) *zap.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return h.logger.With(zap.String("request_id", id))
	}
	return h.logger
}
