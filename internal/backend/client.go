// Package backend is the single HTTP doorway to the booking backend.
// Every domain call goes through one configured client that attaches
// the current bearer token and normalizes error payloads.
package backend

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

	"wayfare/internal/config"
	"wayfare/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// TokenSource yields the bearer token to attach, or "" for anonymous
// requests. Implementations read fresh state on every call.
type TokenSource interface {
	Token(ctx context.Context) string
}

// StaticToken is a fixed-token source, mostly for tests.
type StaticToken string

func (s StaticToken) Token(context.Context) string { return string(s) }

type Client struct {
	base    *url.URL
	httpc   *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

func New(cfg config.BackendConfig, logger *zerolog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL %q: %w", cfg.BaseURL, err)
	}

	httpc := &http.Client{}
	if cfg.TimeoutSeconds > 0 {
		httpc.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	c := &Client{base: base, httpc: httpc, logger: logger}
	if cfg.RateLimit.Enabled {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}
	return c, nil
}

// Bound returns a shallow copy reading tokens from src. The bot binds
// one per chat; the CLI binds its credentials file once.
func (c *Client) Bound(src TokenSource) *Client {
	bound := *c
	bound.tokens = src
	return &bound
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if tok := c.tokens.Token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	endpoint := metricLabel(path)
	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.IncRequest(endpoint, "transport_error")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.IncRequest(endpoint, "api_error")
		apiErr := decodeAPIError(resp)
		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("error", apiErr.Message).
			Msg("Backend request failed")
		return apiErr
	}

	metrics.IncRequest(endpoint, "ok")
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	return nil
}

// metricLabel collapses numeric path segments so endpoint labels stay
// low-cardinality.
func metricLabel(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if isDigits(s) {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
