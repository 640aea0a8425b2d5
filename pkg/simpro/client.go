package simpro

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

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// Client is the HTTP wrapper for the Simpro REST API.
type Client struct {
	baseURL       string
	apiPrefix     string
	httpClient    *http.Client
	limiter       *rate.Limiter
	retryAttempts int
	retryDelay    time.Duration
}

// NewClient creates a new Simpro HTTP client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = defaultRetryAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	limit := rate.Inf
	burst := 1
	if cfg.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.RateLimitPerSec)
		if b := int(cfg.RateLimitPerSec); b > burst {
			burst = b
		}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		baseURL:       baseURL,
		apiPrefix:     fmt.Sprintf(apiPrefixFormat, cfg.CompanyID),
		httpClient:    newHTTPClient(cfg, baseURL),
		limiter:       rate.NewLimiter(limit, burst),
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
	}
}

func newHTTPClient(cfg Config, baseURL string) *http.Client {
	var ts oauth2.TokenSource
	switch {
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		tokenURL := cfg.TokenURL
		if tokenURL == "" {
			tokenURL = baseURL + tokenPath
		}
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		}
		ts = cc.TokenSource(context.Background())
	case cfg.AccessToken != "":
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"})
	}

	transport := http.DefaultTransport
	if ts != nil {
		transport = &oauth2.Transport{Source: ts, Base: http.DefaultTransport}
	}

	return &http.Client{Timeout: cfg.Timeout, Transport: transport}
}

// Get issues GET {prefix}{path}?{query}.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues POST {prefix}{path} with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Patch issues PATCH {prefix}{path} with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// do sends the request, retrying transient failures with linear backoff.
func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		payload = raw
	}

	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &APIError{Method: method, Path: path, Err: ctx.Err()}
			}
		}

		resp, err := c.once(ctx, method, path, payload)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil || !IsRetryable(err) {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) once(ctx context.Context, method, path string, payload []byte) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Method: method, Path: path, Err: err}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+c.apiPrefix+path, reader)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}
