// Package backend provides a typed client for the back-office REST backend,
// the system of record for deposits, companies and the user directory.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/vaultline/dat-backoffice-go/internal/domain"
	"github.com/vaultline/dat-backoffice-go/internal/infra/resilience"
)

var tracer = otel.Tracer("backend")

// Client wraps HTTP calls to the back-office backend. Every call goes through
// the bulkhead, then the circuit breaker with retries inside.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewClient creates a backend client. MaxConcurrency bounds in-flight backend
// calls; zero or negative disables the bulkhead.
func NewClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	var bulkhead *resilience.Bulkhead
	if cfg.MaxConcurrency > 0 {
		bulkhead = resilience.NewBulkhead(cfg.MaxConcurrency)
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		bulkhead:   bulkhead,
		cfg:        cfg,
		logger:     logger,
	}
}

// doRequest executes one authenticated request. A 404 or 204 reads as an
// empty body with no error; callers decide whether that means not-found.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		c.logger.Error("backend: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("backend: failed to read response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("backend: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("backend %s %s returned %d: %s", method, path, resp.StatusCode, string(body))
	}

	c.logger.Debug("backend: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return body, nil
}

// call runs fn through the bulkhead, breaker and retry policy and classifies
// the failure into the domain error taxonomy.
func (c *Client) call(ctx context.Context, service string, fn func() error) error {
	if c.bulkhead != nil {
		if err := c.bulkhead.Acquire(ctx); err != nil {
			return classify(service, err)
		}
		defer c.bulkhead.Release()
	}
	err := resilience.Call(ctx, c.cb, c.cfg, fn)
	return classify(service, err)
}

func classify(service string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: service}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ErrTimeout{Operation: service}
	}
	return &domain.ErrExternalService{Service: service, Err: err}
}
