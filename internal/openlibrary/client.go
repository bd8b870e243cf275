// Package openlibrary is a client for the OpenLibrary search and works APIs.
package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/bookfinder/internal/config"
)

// Failure kinds reported by Search. SearchBooks collapses all of them into an
// empty result.
var (
	ErrTimeout     = errors.New("openlibrary: request timed out")
	ErrUnavailable = errors.New("openlibrary: service unavailable")
	ErrBadStatus   = errors.New("openlibrary: unexpected status")
	ErrDecode      = errors.New("openlibrary: malformed response")
	ErrNoKey       = errors.New("openlibrary: empty work key")
)

// Client fetches book data from the OpenLibrary API.
type Client struct {
	httpClient  *http.Client
	urls        URLs
	userAgent   string
	timeout     time.Duration
	rateLimiter *rateLimiter
	logger      *zap.Logger
}

// Options configures a Client. Zero values fall back to the public OpenLibrary
// hosts and a 15 second timeout.
type Options struct {
	BaseURL     string
	CoversURL   string
	UserAgent   string
	Timeout     time.Duration
	MinInterval time.Duration
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait(ctx context.Context) error {
	if r.interval <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if since := time.Since(r.lastCall); since < r.interval {
		timer := time.NewTimer(r.interval - since)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	r.lastCall = time.Now()
	return nil
}

// NewClient creates a new OpenLibrary API client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultOpenLibraryBaseURL
	}
	if opts.CoversURL == "" {
		opts.CoversURL = config.DefaultOpenLibraryCoversURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultSearchTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "BookFinder/1.0"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Client{
		httpClient: opts.HTTPClient,
		urls: URLs{
			Base:   strings.TrimRight(opts.BaseURL, "/"),
			Covers: strings.TrimRight(opts.CoversURL, "/"),
		},
		userAgent:   opts.UserAgent,
		timeout:     opts.Timeout,
		rateLimiter: newRateLimiter(opts.MinInterval),
		logger:      opts.Logger,
	}
}

// NewClientFromConfig creates a client from application configuration.
func NewClientFromConfig(cfg config.OpenLibrary, logger *zap.Logger) *Client {
	return NewClient(Options{
		BaseURL:     cfg.BaseURL,
		CoversURL:   cfg.CoversURL,
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.Timeout,
		MinInterval: cfg.MinInterval,
		Logger:      logger,
	})
}

// URLs returns the URL builder bound to this client's hosts.
func (c *Client) URLs() URLs {
	return c.urls
}

// get issues a bounded GET and returns the response for a 2xx status.
// The returned cancel func must be called once the body has been consumed.
func (c *Client) get(ctx context.Context, url string) (*http.Response, context.CancelFunc, error) {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, classifyTransportError(reqCtx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	return resp, cancel, nil
}

func classifyTransportError(reqCtx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
