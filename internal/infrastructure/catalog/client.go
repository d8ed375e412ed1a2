package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/glowmatch/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	maxAttempts      = 3
	maxResponseBytes = 8 << 20
	debugBodyLimit   = 512
)

// ClientConfig holds catalog API client configuration
type ClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client handles communication with the storefront backend API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	backoffBase time.Duration
	logger      zerolog.Logger
	debug       bool
}

// NewClient creates a new catalog API client
func NewClient(config ClientConfig, logger zerolog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 20
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		backoffBase: 500 * time.Millisecond,
		logger:      logger.With().Str("component", "catalog").Logger(),
	}
}

// SetDebug enables logging of response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns base, 2*base, 4*base... for attempts 1, 2, 3...
func exponentialBackoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<(attempt-1))
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "GlowMatch/1.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
	}
	return resp, nil
}

// get fetches path with retries on network errors, 429 and 5xx responses
func (c *Client) get(ctx context.Context, path string, params url.Values, token string) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepContext(ctx, exponentialBackoff(c.backoffBase, attempt-1)); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL, token)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, ctxErr)
			}
			c.logger.Warn().Err(err).Int("attempt", attempt).Str("path", path).Msg("catalog request failed")
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()

		if c.debug {
			c.logger.Debug().
				Str("path", path).
				Int("status", resp.StatusCode).
				Str("body", truncate(string(body), debugBodyLimit)).
				Msg("catalog response")
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, fmt.Errorf("%w: read body: %v", domain.ErrCatalogAPIFailure, readErr)
			}
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrProductNotFound
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, domain.ErrUnauthorized
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.logger.Warn().Int("attempt", attempt).Int("status", resp.StatusCode).Str("path", path).Msg("catalog API error, retrying")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogAPIFailure, resp.StatusCode)
		default:
			return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogAPIFailure, resp.StatusCode)
		}
	}

	c.logger.Error().Err(lastErr).Str("path", path).Msg("all catalog retries failed")
	return nil, lastErr
}

// SearchProducts lists products matching the query
func (c *Client) SearchProducts(ctx context.Context, query domain.ProductQuery) ([]domain.Product, error) {
	params := url.Values{}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.Category != "" {
		params.Set("category", query.Category)
	}

	body, err := c.get(ctx, "/products", params, "")
	if err != nil {
		return nil, err
	}

	var payloads []ProductPayload
	if err := json.Unmarshal(unwrapData(body), &payloads); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug().Int("count", len(payloads)).Str("search", query.Search).Msg("fetched products")
	return MapProducts(payloads), nil
}

// GetProduct fetches a single product by id
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidRequest
	}

	body, err := c.get(ctx, "/products/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, err
	}

	var payload ProductPayload
	if err := json.Unmarshal(unwrapData(body), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	product := MapProduct(payload)
	return &product, nil
}

// GetSkinProfile fetches the skin profile of the shopper owning token
func (c *Client) GetSkinProfile(ctx context.Context, token string) (*domain.ShopperProfile, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	body, err := c.get(ctx, "/skinscore", nil, token)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, domain.ErrProfileIncomplete
	}
	if err != nil {
		return nil, err
	}

	data := unwrapData(body)
	if isNullJSON(data) {
		return nil, domain.ErrProfileIncomplete
	}

	var payload ProfilePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return MapProfile(payload)
}

// unwrapData strips a Laravel {"data": ...} resource envelope when present
func unwrapData(body []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data
	}
	return body
}

func isNullJSON(b []byte) bool {
	s := strings.TrimSpace(string(b))
	return s == "" || s == "null" || s == "{}" || s == "[]"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
