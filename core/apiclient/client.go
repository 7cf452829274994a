package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"

	"github.com/clinreg/clinreg-go/core/logger"
	"github.com/clinreg/clinreg-go/core/session"
)

// TokenSource supplies bearer tokens and performs full logout on
// authorization failure. *session.Manager satisfies it.
type TokenSource interface {
	// Token returns a currently-valid bearer token, refreshing first when
	// the stored one is stale.
	Token(ctx context.Context) (string, error)
	// Logout revokes the session server-side (best effort) and tears down
	// local state unconditionally.
	Logout(ctx context.Context) error
}

// Client is the single choke point through which every registry API call
// passes. It decorates outgoing requests with the current bearer token,
// blocks on a refresh when the token is stale, and escalates any 401/403
// response to a full session teardown.
//
// Transport-level retries (connection errors, 5xx) are handled by the
// underlying retryable client; authorization failures are never retried.
type Client struct {
	baseURL string
	session TokenSource
	http    *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// New creates a client for the registry API rooted at cfg.BaseURL.
func New(cfg Config, sess TokenSource, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if sess == nil {
		return nil, ErrMissingTokenSource
	}

	transport := retryablehttp.NewClient()
	transport.RetryMax = cfg.RetryMax
	transport.RetryWaitMin = cfg.RetryWaitMin
	transport.RetryWaitMax = cfg.RetryWaitMax
	transport.HTTPClient.Timeout = cfg.Timeout
	transport.Logger = nil
	// Exhausted retries hand back the final response so 5xx statuses reach
	// the caller instead of being swallowed as transport errors.
	transport.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		session: sess,
		http:    transport,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "clinreg-api",
		}),
		log: slog.Default().With(logger.Component("apiclient")),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do issues the request with the current bearer token attached.
//
// A stale token is refreshed before the request goes out; if that pre-flight
// refresh fails the request is never issued, teardown having already run
// inside the session manager. A 401/403 response triggers full logout and is
// surfaced as session.ErrSessionExpired so callers can short-circuit further
// work. Every other response, including non-auth 4xx/5xx, passes through
// untouched.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("pre-flight authentication: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("wrap request: %w", err)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.http.Do(retryReq)
	})
	if err != nil {
		// Transport and breaker errors are not auth failures; surface them
		// unchanged with no teardown.
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	resp := result.(*http.Response)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		c.log.WarnContext(ctx, "authorization rejected, tearing down session",
			logger.Method(req.Method), logger.Path(req.URL.Path), logger.Status(resp.StatusCode))
		if err := c.session.Logout(ctx); err != nil {
			c.log.ErrorContext(ctx, "logout after auth failure", logger.Error(err))
		}
		return nil, fmt.Errorf("%w: status %d", session.ErrSessionExpired, resp.StatusCode)
	}

	return resp, nil
}

// Get issues a GET to path and decodes a 2xx JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes a 2xx response into out.
// Either side may be nil.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

// Put issues a PUT with a JSON body and decodes a 2xx response into out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

// Delete issues a DELETE to path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Status: resp.StatusCode,
			Body:   string(data),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
