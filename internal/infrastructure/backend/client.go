// Package backend is the REST client of the apartment-management API. Every
// call except token issuance carries the bearer token found in the session's
// token slot at call time.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/api/metrics"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/core/ports"
)

const (
	DefaultBaseURL = "https://chulengan0209.pythonanywhere.com/"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

// Config holds the connection settings shared by every session.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// Client implements ports.Backend for one session.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
	tokens       ports.TokenStore
	log          zerolog.Logger
}

// New binds a client to the token slot of one session.
func New(cfg Config, tokens ports.TokenStore, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		cfg.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         cfg.HTTPClient,
		tokens:       tokens,
		log:          log,
	}
}

// Factory returns a service.BackendFactory-compatible constructor.
func Factory(cfg Config, log zerolog.Logger) func(ports.TokenStore) ports.Backend {
	return func(tokens ports.TokenStore) ports.Backend {
		return New(cfg, tokens, log)
	}
}

// APIError is a non-2xx backend response. It matches domain.ErrNetwork and,
// for 404s, domain.ErrNotFound.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) Unwrap() []error {
	if e.StatusCode == http.StatusNotFound {
		return []error{domain.ErrNetwork, domain.ErrNotFound}
	}
	return []error{domain.ErrNetwork}
}

// call describes one request. endpoint is the path template used as the
// metrics label; path is the concrete path.
type call struct {
	method   string
	endpoint string
	path     string
	public   bool
	json     any
	form     *form
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, req, out)
	metrics.BackendRequestDuration.WithLabelValues(req.endpoint).Observe(time.Since(start).Seconds())
	metrics.BackendRequestsTotal.WithLabelValues(req.endpoint, outcome(err)).Inc()
	if err != nil {
		c.log.Debug().Err(err).Str("method", req.method).Str("path", req.path).Msg("backend call failed")
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, req call, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.json != nil:
		encoded, err := json.Marshal(req.json)
		if err != nil {
			return fmt.Errorf("backend: encode %s body: %w", req.path, err)
		}
		body, contentType = bytes.NewReader(encoded), "application/json"
	case req.form != nil:
		encoded, ct, err := req.form.encode()
		if err != nil {
			return fmt.Errorf("backend: encode %s form: %w", req.path, err)
		}
		body, contentType = encoded, ct
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if !req.public {
		token, err := c.tokens.Load(ctx)
		if err != nil {
			if errors.Is(err, ports.ErrNoToken) {
				return fmt.Errorf("backend: %s %s: %w", req.method, req.path, domain.ErrNotLoggedIn)
			}
			return fmt.Errorf("backend: load token: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w: %w", req.method, req.path, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Method: req.method, Path: req.path, Body: string(raw)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s: %w: %w", req.path, domain.ErrNetwork, err)
	}
	return nil
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.As(err, &apiErr):
		return "http_error"
	default:
		return "transport_error"
	}
}
