// Package imdb fetches IMDb title pages and extracts best-effort metadata
// from them.
package imdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/listenupapp/movielens/internal/metadata"
	"github.com/listenupapp/movielens/internal/metrics"
	"github.com/listenupapp/movielens/internal/ratelimit"
)

const (
	// DefaultURLTemplate is the title page address; {key} is replaced by the
	// external key.
	DefaultURLTemplate = "https://www.imdb.com/title/tt{key}/"

	// DefaultUserAgent is a desktop browser identifier.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// HTTP client settings
	defaultTimeout = 3 * time.Second
	maxBodySize    = 8 << 20

	// Rate limit per host: 1 request per second, burst of 3
	defaultRPS   = 1.0
	defaultBurst = 3
)

var keyPattern = regexp.MustCompile(`^[0-9A-Za-z]+$`)

// ValidateKey reports whether key can be placed into a title page address.
func ValidateKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	URLTemplate       string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client is a rate-limited title page client.
type Client struct {
	http        *http.Client
	limiter     *ratelimit.KeyedRateLimiter
	urlTemplate string
	userAgent   string
	logger      *slog.Logger
}

// New creates a new client.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.URLTemplate == "" {
		opts.URLTemplate = DefaultURLTemplate
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:     ratelimit.New(opts.RequestsPerSecond, opts.Burst),
		urlTemplate: opts.URLTemplate,
		userAgent:   opts.UserAgent,
		logger:      logger,
	}
}

// Close stops the rate limiter.
func (c *Client) Close() {
	c.limiter.Stop()
}

// URL returns the title page address for key.
func (c *Client) URL(key string) string {
	return strings.ReplaceAll(c.urlTemplate, "{key}", url.PathEscape(key))
}

// Fetch downloads the title page for key. Only a 200 response is a success.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	if !ValidateKey(key) {
		return nil, wrapError("fetch", key, ErrInvalidKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(key), nil)
	if err != nil {
		return nil, wrapError("fetch", key, fmt.Errorf("create request: %w", err))
	}

	if err := c.limiter.Wait(ctx, req.URL.Host); err != nil {
		return nil, wrapError("fetch", key, fmt.Errorf("rate limit wait: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	c.logger.Debug("imdb request", "key", key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError("fetch", key, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, wrapError("fetch", key, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, wrapError("fetch", key, ErrRateLimited)
	case resp.StatusCode >= 500:
		return nil, wrapError("fetch", key, ErrServer)
	default:
		return nil, wrapError("fetch", key, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, wrapError("fetch", key, fmt.Errorf("read response: %w", err))
	}
	return body, nil
}

// Enrich fetches and extracts the record for key. Every failure degrades to
// the empty record; nothing is returned as an error.
func (c *Client) Enrich(ctx context.Context, key string) metadata.Record {
	start := time.Now()

	body, err := c.Fetch(ctx, key)
	if err != nil {
		metrics.RecordEnrich(metrics.OutcomeFailure, time.Since(start))
		c.logger.Warn("title page fetch failed, caching empty record",
			"key", key,
			"error", err,
		)
		return metadata.Record{}
	}

	rec := Extract(body)

	outcome := metrics.OutcomeOK
	if rec.IsEmpty() {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordEnrich(outcome, time.Since(start))

	c.logger.Debug("title page enriched",
		"key", key,
		"director", rec.Director,
		"runtime", rec.Runtime,
		"budget", rec.Budget,
		"gross", rec.Gross,
	)

	return rec
}
