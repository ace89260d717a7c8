package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_scout/internal/engine"
	"golang.org/x/time/rate"
)

const ytDataAPIBase = "https://www.googleapis.com/youtube/v3"

// APIError is a non-2xx response from the Data API.
type APIError struct {
	Status  int
	Reason  string
	Message string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube data API %d %s: %s", e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube data API %d: %s", e.Status, e.Message)
}

// IsQuota reports whether the provider rejected the call for quota or rate reasons.
func (e *APIError) IsQuota() bool {
	switch e.Reason {
	case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
		return true
	}
	return e.Status == http.StatusTooManyRequests
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Client is a thin YouTube Data API v3 client. It does no quota accounting
// and no caching; callers decide when a call may be issued.
type Client struct {
	base    string
	keys    []string
	http    *http.Client
	limiter *rate.Limiter // nil = unpaced
	retry   engine.RetryConfig
}

// Option configures a Client.
type Option func(*Client)

// WithFallbackKey adds a secondary key tried once when the primary is
// rejected with 403 (quota or key restrictions).
func WithFallbackKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.keys = append(c.keys, key)
		}
	}
}

// WithBaseURL overrides the API base (tests, proxies).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = strings.TrimRight(base, "/") }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit paces requests to rps per second. rps <= 0 disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithRetry sets the dial-level retry policy.
func WithRetry(rc engine.RetryConfig) Option {
	return func(c *Client) { c.retry = rc }
}

// NewClient creates a client for apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		base:  ytDataAPIBase,
		keys:  []string{apiKey},
		http:  http.DefaultClient,
		retry: engine.DefaultRetryConfig,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewClientFromConfig builds a client from the engine configuration.
func NewClientFromConfig(cfg *engine.Config) *Client {
	opts := []Option{
		WithFallbackKey(cfg.YouTubeAPIKeyFallback),
		WithHTTPClient(cfg.HTTPClient),
		WithRateLimit(cfg.RequestsPerSecond),
	}
	if cfg.YouTubeAPIBase != "" {
		opts = append(opts, WithBaseURL(cfg.YouTubeAPIBase))
	}
	rc := engine.DefaultRetryConfig
	if cfg.RetryMax >= 0 {
		rc.MaxRetries = cfg.RetryMax
	}
	opts = append(opts, WithRetry(rc))
	return NewClient(cfg.YouTubeAPIKey, opts...)
}

// get calls endpoint with params and decodes the JSON body into out.
// Falls back to the secondary key on 403.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	var lastErr error
	for i, key := range c.keys {
		err := c.getWithKey(ctx, endpoint, params, key, out)
		if err == nil {
			return nil
		}
		lastErr = err
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
			return err
		}
		if i+1 < len(c.keys) {
			slog.Debug("youtube data API key rejected, trying fallback",
				slog.String("endpoint", endpoint), slog.Any("error", err))
		}
	}
	return lastErr
}

func (c *Client) getWithKey(ctx context.Context, endpoint string, params url.Values, key string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", key)
	apiURL := c.base + "/" + endpoint + "?" + q.Encode()

	resp, err := engine.RetryDo(ctx, c.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	})
	if err != nil {
		return fmt.Errorf("youtube %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube %s: %w", endpoint, err)
	}
	return nil
}

func parseAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	var decoded apiErrorBody
	if json.Unmarshal(body, &decoded) == nil && decoded.Error.Code != 0 {
		apiErr.Message = decoded.Error.Message
		if len(decoded.Error.Errors) > 0 {
			apiErr.Reason = decoded.Error.Errors[0].Reason
		}
	}
	return apiErr
}
