// Package catalog is the HTTP client of the watch catalog backend.
package catalog

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

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reflookup/internal/domain"
	"github.com/kailas-cloud/reflookup/internal/domain/search/query"
	"github.com/kailas-cloud/reflookup/internal/domain/search/result"
	"github.com/kailas-cloud/reflookup/internal/metrics"
	"github.com/kailas-cloud/reflookup/internal/version"
)

// Operation names used in metrics and errors.
const (
	OpSearchByReference = "search_by_reference"
	OpSearchAdvanced    = "search_advanced"
	OpAutocomplete      = "autocomplete"
	OpHealth            = "health"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 4 << 20

// Config holds the catalog client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HealthPath string
	HTTPClient *http.Client // optional
	Logger     *zap.Logger
}

// Client calls the catalog REST API.
type Client struct {
	base       string
	healthPath string
	http       *http.Client
	logger     *zap.Logger
}

// New creates a catalog client.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	healthPath := cfg.HealthPath
	if healthPath == "" {
		healthPath = "/health"
	}

	return &Client{
		base:       strings.TrimRight(cfg.BaseURL, "/"),
		healthPath: "/" + strings.TrimLeft(healthPath, "/"),
		http:       hc,
		logger:     l,
	}, nil
}

// SearchByReference looks listings up by exact or partial reference code.
func (c *Client) SearchByReference(ctx context.Context, reference string) ([]result.Record, error) {
	ref, err := runtime.StyleParamWithLocation("simple", false, "reference", runtime.ParamLocationPath, reference)
	if err != nil {
		return nil, domain.NewTransportError(OpSearchByReference, 0, err)
	}
	body, err := c.do(ctx, OpSearchByReference, http.MethodGet, "/watches/reference/"+ref, nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(OpSearchByReference, body)
}

// SearchAdvanced runs a multi-field search.
func (c *Client) SearchAdvanced(ctx context.Context, q query.Advanced) ([]result.Record, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, domain.NewTransportError(OpSearchAdvanced, 0, fmt.Errorf("marshal query: %w", err))
	}
	body, err := c.do(ctx, OpSearchAdvanced, http.MethodPost, "/watches/search", payload)
	if err != nil {
		return nil, err
	}
	return decodeRecords(OpSearchAdvanced, body)
}

// Autocomplete returns reference codes starting with partial.
func (c *Client) Autocomplete(ctx context.Context, partial string) ([]string, error) {
	q, err := runtime.StyleParamWithLocation("form", true, "q", runtime.ParamLocationQuery, partial)
	if err != nil {
		return nil, domain.NewTransportError(OpAutocomplete, 0, err)
	}
	body, err := c.do(ctx, OpAutocomplete, http.MethodGet, "/watches/autocomplete?"+q, nil)
	if err != nil {
		return nil, err
	}
	return decodeSuggestions(body)
}

// HealthCheck verifies the backend answers its health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.do(ctx, OpHealth, http.MethodGet, c.healthPath, nil); err != nil {
		return fmt.Errorf("catalog health check: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return nil, domain.NewTransportError(op, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, domain.NewTransportError(op, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, domain.NewTransportError(op, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendRequestsTotal.WithLabelValues(op, "error").Inc()
		c.logger.Debug("catalog request rejected",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 256)),
		)
		return nil, domain.NewTransportError(op, resp.StatusCode, nil)
	}

	metrics.BackendRequestsTotal.WithLabelValues(op, "success").Inc()
	return body, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
