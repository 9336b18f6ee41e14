// Package client is the authenticated HTTPS transport for the Elydora audit
// platform. It submits signed operation records and performs the read-only
// platform queries, with bounded retry/backoff and the typed error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/Elydora-Infrastructure/Elydora-Node-SDK/pkg/contracts"
)

// DefaultBaseURL is the production platform endpoint.
const DefaultBaseURL = "https://api.elydora.com"

// DefaultMaxRetries bounds re-attempts after the first request.
const DefaultMaxRetries = 3

// DefaultTimeout is the per-attempt HTTP timeout.
const DefaultTimeout = 30 * time.Second

// Client is a typed client for the Elydora platform API. It is safe for
// concurrent use; the underlying connection pool is shared across calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu    sync.RWMutex
	token string

	// sleep is a variable to allow capturing backoff waits in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures the client.
type Option func(*Client)

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithMaxRetries overrides the retry budget. Attempt count is 1+n.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithTimeout overrides the per-attempt HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient swaps the underlying HTTP client (connection pool, TLS
// config). The caller keeps ownership.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRateLimit caps outgoing attempts at rps requests per second with the
// given burst. Zero rps disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the given base URL. Trailing slashes are
// stripped; an empty URL selects the production endpoint.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		logger:     slog.Default(),
		sleep:      sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// doJSON marshals body (when non-nil) and dispatches through do.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return contracts.Validationf("request body not serializable: %v", err)
		}
	}
	return c.do(ctx, method, path, raw, out)
}

// do issues one API call with the retry policy: transport failures and
// 429/5xx responses are retried up to maxRetries times; all other statuses
// resolve on the first response. The wait before retry attempt n honors an
// integer-seconds Retry-After header, otherwise follows the exponential
// schedule 1s, 2s, 4s, 8s capped at 10s.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	schedule := backoff.NewExponentialBackOff()
	schedule.InitialInterval = time.Second
	schedule.RandomizationFactor = 0
	schedule.Multiplier = 2
	schedule.MaxInterval = 10 * time.Second

	var lastErr error
	var delay time.Duration
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request",
				"method", method, "path", path, "attempt", attempt+1, "delay", delay)
			if err := c.sleep(ctx, delay); err != nil {
				return contracts.Internalf(0, "local", "request aborted during backoff: %v", err)
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return contracts.Internalf(0, "local", "request aborted by rate limiter: %v", err)
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return contracts.Validationf("invalid request: %v", err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = contracts.Internalf(0, "local", "transport error: %v", err)
			if ctx.Err() != nil {
				return lastErr
			}
			delay = schedule.NextBackOff()
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = contracts.Internalf(0, "local", "transport error: %v", readErr)
			if ctx.Err() != nil {
				return lastErr
			}
			delay = schedule.NextBackOff()
			continue
		}

		status := resp.StatusCode
		if status >= 200 && status < 300 {
			if status == http.StatusNoContent || out == nil || len(data) == 0 {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				return contracts.Internalf(status, "unknown", "HTTP %d: unparseable response body", status)
			}
			return nil
		}

		apiErr := decodeError(status, data)
		if status == http.StatusTooManyRequests || status >= 500 {
			lastErr = apiErr
			delay = schedule.NextBackOff()
			if seconds, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
				delay = seconds
			}
			continue
		}
		return apiErr
	}
	return lastErr
}

// decodeError maps a non-2xx response to a typed error. A structured
// `{"error":{...}}` body wins; otherwise 429 degrades to RATE_LIMITED and
// everything else to INTERNAL_ERROR with an "unknown" request id.
func decodeError(status int, body []byte) *contracts.Error {
	var env struct {
		Error *struct {
			Code      string         `json:"code"`
			Message   string         `json:"message"`
			RequestID string         `json:"request_id"`
			Details   map[string]any `json:"details,omitempty"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Code != "" {
		return &contracts.Error{
			Status:    status,
			Code:      env.Error.Code,
			Message:   env.Error.Message,
			RequestID: env.Error.RequestID,
			Details:   env.Error.Details,
		}
	}
	if status == http.StatusTooManyRequests {
		return &contracts.Error{
			Status:    status,
			Code:      contracts.CodeRateLimited,
			Message:   "HTTP 429: " + http.StatusText(status),
			RequestID: "unknown",
		}
	}
	return contracts.Internalf(status, "unknown", "HTTP %d: %s", status, http.StatusText(status))
}

// parseRetryAfter accepts the integer-seconds form of Retry-After. The
// HTTP-date form is ignored.
func parseRetryAfter(header string) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
