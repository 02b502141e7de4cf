// Package refstore reads the reference data store over its REST API.
package refstore

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"stockcard/internal/core/apperror"
	"stockcard/pkg/logger"
)

// maxBody caps how much of an error response is kept for diagnostics.
const maxBody = 4 << 10

// Config configures the REST client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Location is used for dates sent without a UTC offset
	Location *time.Location

	// Token, if set, is sent as a Bearer token
	Token string

	// HTTPClient overrides the default instrumented client (tests)
	HTTPClient *http.Client
}

// Client issues GET requests against the reference store and decodes JSON.
type Client struct {
	base     *url.URL
	http     *http.Client
	location *time.Location
	token    string
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("refstore: invalid base url %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Client{base: base, http: hc, location: loc, token: cfg.Token}, nil
}

// getJSON decodes GET {base}/{path}?{query} into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperror.NewTimeout(err).WithDetail("path", path)
		}
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	logger.Debug(ctx, "refstore request",
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		return apperror.NewUpstream(fmt.Sprintf("GET %s returned %d", path, resp.StatusCode), resp.StatusCode).
			WithDetail("path", path).
			WithDetail("body", strings.TrimSpace(string(body)))
	}

	// Some endpoints answer 204 or an empty body for "nothing found".
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Ping checks that the store answers; any HTTP response counts as alive.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.base.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("refstore unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}
