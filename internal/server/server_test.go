package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lixing-Zhang/product-panel/internal/client"
	"github.com/Lixing-Zhang/product-panel/internal/models"
	"github.com/Lixing-Zhang/product-panel/internal/panel"
	"github.com/Lixing-Zhang/product-panel/internal/repository"
)

func startServer(t *testing.T, seed []models.ProductInput) *httptest.Server {
	t.Helper()
	repo := repository.NewInMemoryProductRepository(seed)
	ts := httptest.NewServer(NewRouter(repo, zap.NewNop(), Options{}))
	t.Cleanup(ts.Close)
	return ts
}

func newPanel(t *testing.T, ts *httptest.Server) *panel.Panel {
	t.Helper()
	c, err := client.New(ts.URL, client.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return panel.New(c, zap.NewNop())
}

func TestHealthAndMetrics(t *testing.T) {
	ts := startServer(t, nil)

	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = ts.Client().Get(ts.URL + "/products")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `product_service_http_requests_total{method="GET",route="/products",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	ts := startServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/products/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagates(t *testing.T) {
	ts := startServer(t, nil)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/products", nil)
	require.NoError(t, err)
	req.Header.Set(client.RequestIDHeader, "abc-123")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPanelAgainstServer(t *testing.T) {
	ts := startServer(t, []models.ProductInput{
		{Name: "Mug", Price: 4, Description: "white"},
		{Name: "Cup", Price: 3.25},
	})
	p := newPanel(t, ts)
	ctx := context.Background()
	yes := panel.ConfirmFunc(func(string) bool { return true })

	require.NoError(t, p.List(ctx))
	require.Len(t, p.Products(), 2)

	created, err := p.Create(ctx, panel.Draft{Name: "Pen", Price: "1.5", Description: "blue"})
	require.NoError(t, err)
	assert.Equal(t, models.Product{ID: "3", Name: "Pen", Price: 1.5, Description: "blue"}, created)
	assert.Equal(t, panel.Draft{}, p.Draft())

	require.NoError(t, p.BeginEditByID("2"))
	require.NoError(t, p.UpdateEditBuffer(panel.FieldName, "X"))
	require.NoError(t, p.UpdateEditBuffer(panel.FieldPrice, "9.99"))
	require.NoError(t, p.UpdateEditBuffer(panel.FieldDescription, "d"))
	_, err = p.SaveEdit(ctx)
	require.NoError(t, err)

	require.NoError(t, p.Delete(ctx, "1", yes))

	want := []models.Product{
		{ID: "2", Name: "X", Price: 9.99, Description: "d"},
		{ID: "3", Name: "Pen", Price: 1.5, Description: "blue"},
	}
	assert.Equal(t, want, p.Products())

	// the server agrees with the cache
	require.NoError(t, p.List(ctx))
	assert.Equal(t, want, p.Products())
}

func TestPanelAgainstServer_Failures(t *testing.T) {
	ts := startServer(t, []models.ProductInput{{Name: "Mug", Price: 4}})
	p := newPanel(t, ts)
	ctx := context.Background()
	require.NoError(t, p.List(ctx))

	// the server removed it behind our back
	other := newPanel(t, ts)
	require.NoError(t, other.Delete(ctx, "1", panel.ConfirmFunc(func(string) bool { return true })))

	require.NoError(t, p.BeginEditByID("1"))
	require.NoError(t, p.UpdateEditBuffer(panel.FieldName, "Big mug"))
	_, err := p.SaveEdit(ctx)

	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, "Failed to update product", panel.UserMessage(err))
	buf, editing := p.Editing()
	require.True(t, editing)
	assert.Equal(t, "Big mug", buf.Name)
	assert.Len(t, p.Products(), 1)
}
