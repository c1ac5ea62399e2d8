// Package gateway is the only place that builds and executes HTTP calls to
// the booking API. It resolves paths against the configured origin,
// attaches the bearer token supplied by a TokenSource, and turns every
// failure into an *APIError or a *TransportError.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"eventbook/internal/models"
)

const (
	contentTypeJSON = "application/json"
	// maxBodyBytes bounds how much of a response is read into memory.
	maxBodyBytes = 10 << 20
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// string means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// Client sends requests to the booking API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. The http.Client is copied so
// a client passed to WithHTTPClient keeps its transport and is not mutated.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// WithTokens returns a copy of c that authenticates with ts.
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// ResolveURL joins base and path with exactly one slash between them.
func ResolveURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// ResolveURL resolves path against the client's origin.
func (c *Client) ResolveURL(path string) string {
	return ResolveURL(c.baseURL, path)
}

// Send issues method against path. A non-nil body is encoded as JSON
// unless it is a *Form, which is sent as multipart data. On a 2xx
// response the body is decoded into out (when out is non-nil) and
// checked with Validate where the target type provides it.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	url := c.ResolveURL(path)

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Method: method, URL: url, Err: err}
	}

	c.logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &TransportError{Method: method, URL: url, Err: fmt.Errorf("%w: empty body", ErrMalformedResponse)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Method: method, URL: url, Err: fmt.Errorf("%w: %w", ErrMalformedResponse, err)}
	}
	if err := validate(out); err != nil {
		return &TransportError{Method: method, URL: url, Err: fmt.Errorf("%w: %w", ErrMalformedResponse, err)}
	}
	return nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return http.NoBody, contentTypeJSON, nil
	case *Form:
		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(data), contentTypeJSON, nil
	}
}

// validate runs Validate on out, or on every element when out points to a slice.
func validate(out any) error {
	if v, ok := out.(models.Validator); ok {
		return v.Validate()
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return nil
	}
	for i := 0; i < rv.Len(); i++ {
		v, ok := rv.Index(i).Addr().Interface().(models.Validator)
		if !ok {
			return nil
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &APIError{Status: status, Message: payload.Message}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("request failed with status %d", status)}
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
