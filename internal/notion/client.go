// Package notion wraps the jomei/notionapi client with rate limiting,
// retry-with-backoff on transient errors, and the batch/pagination helpers
// the upload pipeline and orchestrator need.
package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is Notion's documented integration limit, requests/sec.
	DefaultRateLimit = 3

	// DefaultBatchSize is the max children accepted by a single create or
	// append_children request.
	DefaultBatchSize = 100

	maxRetries  = 5
	baseBackoff = 300 * time.Millisecond
	maxBackoff  = 8 * time.Second
)

// Client wraps the Notion API client with rate limiting and retry policy.
type Client struct {
	api       *notionapi.Client
	limiter   *rate.Limiter
	batchSize int
	logger    *slog.Logger

	// token and apiVersion are kept alongside api for the file-upload calls
	// in fileupload.go, which the SDK this client wraps does not expose and
	// which are therefore made directly against the REST endpoint.
	token      string
	apiVersion string
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithRateLimit overrides the outbound requests-per-second cap.
func WithRateLimit(requestsPerSecond float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// WithBatchSize overrides the max children per create/append request.
func WithBatchSize(size int) ClientOption {
	return func(c *Client) {
		c.batchSize = size
	}
}

// WithLogger attaches a structured logger; phase boundaries and retries log
// through it. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a rate-limited, retrying Notion client. apiVersion, when
// non-empty, pins the Notion-Version header sent with every request.
func New(token, apiVersion string, opts ...ClientOption) *Client {
	var apiOpts []notionapi.ClientOption
	if apiVersion != "" {
		apiOpts = append(apiOpts, notionapi.WithVersion(apiVersion))
	}

	c := &Client{
		api:        notionapi.NewClient(notionapi.Token(token), apiOpts...),
		limiter:    rate.NewLimiter(rate.Every(time.Second/DefaultRateLimit), 1),
		batchSize:  DefaultBatchSize,
		logger:     slog.Default(),
		token:      token,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// API returns the underlying notionapi.Client for operations this wrapper
// does not cover.
func (c *Client) API() *notionapi.Client {
	return c.api
}

// BatchSize reports the configured max children per request.
func (c *Client) BatchSize() int {
	return c.batchSize
}

func (c *Client) wait(ctx context.Context) error {
	return c.limiter.Wait(ctx)
}

// call runs fn, retrying on transient Notion errors (429, 5xx, connection
// reset) with exponential backoff and full jitter, bounded by maxRetries.
// The core pipeline never sees a transient error unless retries are
// exhausted; callers still see permanent errors (4xx other than 429)
// immediately.
func (c *Client) call(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransient(lastErr) {
			return lastErr
		}

		delay := backoffDelay(attempt)
		c.logger.Warn("notion call retrying after transient error",
			"op", op, "attempt", attempt, "delay", delay, "err", lastErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s: exhausted retries: %w", op, lastErr)
}

func backoffDelay(attempt int) time.Duration {
	d := time.Duration(float64(baseBackoff) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(d) / 2))
	return d/2 + jitter
}

// isTransient reports whether err is worth retrying: a Notion 429 or 5xx, or
// a raw connection error underneath the SDK's typed error.
func isTransient(err error) bool {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusTooManyRequests:
			return true
		default:
			return apiErr.Status >= http.StatusInternalServerError
		}
	}
	// Anything that isn't a structured Notion error (DNS failure, reset
	// connection, timeout) is assumed transient; the notionapi client always
	// wraps HTTP-layer errors in its own *Error for well-formed responses.
	return true
}
