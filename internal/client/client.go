// Package client talks to the Product Service REST collection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Lixing-Zhang/product-panel/internal/models"
)

// RequestIDHeader carries a per-request id so panel and server logs can be joined.
// chi's RequestID middleware reads the same header.
const RequestIDHeader = "X-Request-Id"

const collectionPath = "products"

// maxErrorBody bounds how much of a failed response is read for diagnostics
const maxErrorBody = 64 << 10

// Client is an HTTP client for the Product Service
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

// New creates a client rooted at baseURL, e.g. http://localhost:8080/api.
// The collection lives at {baseURL}/products.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List handles GET /products
func (c *Client) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, "list", http.MethodGet, c.collectionURL(), nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Create handles POST /products and returns the record with its assigned id
func (c *Client) Create(ctx context.Context, in models.ProductInput) (models.Product, error) {
	in.ID = ""
	var created models.Product
	if err := c.do(ctx, "create", http.MethodPost, c.collectionURL(), in, &created); err != nil {
		return models.Product{}, err
	}
	return created, nil
}

// Update handles PUT /products/{id} with a full replacement body
func (c *Client) Update(ctx context.Context, id models.ID, in models.ProductInput) (models.Product, error) {
	in.ID = id
	var updated models.Product
	if err := c.do(ctx, "update", http.MethodPut, c.itemURL(id), in, &updated); err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

// Delete handles DELETE /products/{id}. Any response body is ignored.
func (c *Client) Delete(ctx context.Context, id models.ID) error {
	return c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) collectionURL() string {
	return c.baseURL.JoinPath(collectionPath).String()
}

func (c *Client) itemURL(id models.ID) string {
	return c.baseURL.JoinPath(collectionPath, id.String()).String()
}

func (c *Client) do(ctx context.Context, op, method, target string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	fail := func(status int, msg string, err error) error {
		return &ServiceError{Op: op, StatusCode: status, Message: msg, RequestID: requestID, Err: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(0, "", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, "", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("product service call",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, readErrorMessage(resp.Body), ErrUnexpectedStatus)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// readErrorMessage extracts {"error": "..."} from a failed response, falling back
// to the raw body text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}

	return strings.TrimSpace(string(raw))
}
