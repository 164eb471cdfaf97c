package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/product-panel/internal/models"
	"github.com/Lixing-Zhang/product-panel/internal/repository"
	"github.com/Lixing-Zhang/product-panel/internal/service"
	"github.com/Lixing-Zhang/product-panel/pkg/logger"
)

func newRouter() chi.Router {
	repo := repository.NewInMemoryProductRepository(repository.SeedProducts())
	svc := service.NewProductService(repo)
	handler := NewProductHandler(svc, logger.New("error"))

	r := chi.NewRouter()
	handler.Routes(r)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return response["error"]
}

func TestListProducts(t *testing.T) {
	// Setup
	r := newRouter()

	// Execute
	w := serve(r, http.MethodGet, "/products", "")

	// Assert
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(products) != len(repository.SeedProducts()) {
		t.Errorf("expected %d products, got %d", len(repository.SeedProducts()), len(products))
	}

	// Insertion order is preserved
	if products[0].Name != "Chicken Waffle" {
		t.Errorf("expected first product 'Chicken Waffle', got %s", products[0].Name)
	}
}

func TestListProducts_PriceIsJSONNumber(t *testing.T) {
	r := newRouter()

	w := serve(r, http.MethodGet, "/products", "")

	var raw []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := raw[0]["price"].(float64); !ok {
		t.Errorf("expected price to be a JSON number, got %T", raw[0]["price"])
	}
	if _, ok := raw[0]["id"].(float64); !ok {
		t.Errorf("expected numeric id, got %T", raw[0]["id"])
	}
}

func TestGetProduct_Success(t *testing.T) {
	r := newRouter()

	w := serve(r, http.MethodGet, "/products/1", "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var product models.Product
	if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if product.ID != "1" {
		t.Errorf("expected product ID 1, got %s", product.ID)
	}

	if product.Price != 12.99 {
		t.Errorf("expected product price 12.99, got %f", product.Price)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	r := newRouter()

	testCases := []struct {
		name string
		id   string
	}{
		{"unknown number", "999"},
		{"letters", "invalid"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/products/"+tc.id, "")

			if w.Code != http.StatusNotFound {
				t.Errorf("expected status 404, got %d", w.Code)
			}
			if msg := decodeError(t, w); msg != "Product not found" {
				t.Errorf("expected error message 'Product not found', got %s", msg)
			}
		})
	}
}

func TestCreateProduct(t *testing.T) {
	r := newRouter()

	w := serve(r, http.MethodPost, "/products", `{"name":"Pen","price":1.5,"description":"blue"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}

	var product models.Product
	if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if product.ID != "6" {
		t.Errorf("expected assigned id 6, got %s", product.ID)
	}

	// The new product is listed last
	w = serve(r, http.MethodGet, "/products", "")
	var products []models.Product
	_ = json.NewDecoder(w.Body).Decode(&products)
	if last := products[len(products)-1]; last != product {
		t.Errorf("expected %+v at the end of the list, got %+v", product, last)
	}
}

func TestCreateProduct_Invalid(t *testing.T) {
	r := newRouter()

	testCases := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed json", `{"name":`, "Invalid request body"},
		{"price as string", `{"name":"Pen","price":"1.5"}`, "Invalid request body"},
		{"missing name", `{"price":1}`, "Name is required"},
		{"negative price", `{"name":"Pen","price":-2}`, "Price must be a non-negative number"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, http.MethodPost, "/products", tc.body)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
			if msg := decodeError(t, w); msg != tc.message {
				t.Errorf("expected error message %q, got %q", tc.message, msg)
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	r := newRouter()

	w := serve(r, http.MethodPut, "/products/2", `{"id":2,"name":"X","price":9.99,"description":"d"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var product models.Product
	if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := models.Product{ID: "2", Name: "X", Price: 9.99, Description: "d"}
	if product != want {
		t.Errorf("expected %+v, got %+v", want, product)
	}

	w = serve(r, http.MethodPut, "/products/999", `{"name":"X","price":1}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown product, got %d", w.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	r := newRouter()

	w := serve(r, http.MethodDelete, "/products/2", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/products/2", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected deleted product to be gone, got %d", w.Code)
	}

	w = serve(r, http.MethodDelete, "/products/2", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	repo := repository.NewInMemoryProductRepository(repository.SeedProducts())
	h := NewHealthHandler(repo, logger.New("error"), "test")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var response HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "healthy" || response.Version != "test" || response.Products != 5 {
		t.Errorf("unexpected health response: %+v", response)
	}
}

func TestHealth_StoreUnavailable(t *testing.T) {
	repo, err := repository.NewSQLiteProductRepository(context.Background(), filepath.Join(t.TempDir(), "products.db"), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	_ = repo.Close()
	h := NewHealthHandler(repo, logger.New("error"), "test")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}
