package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/codeWuws/th-governance-web-sub002/pkg/buildinfo"
	"github.com/codeWuws/th-governance-web-sub002/pkg/observability"
)

// DefaultMaxBytes caps remote documents at 64 MiB.
const DefaultMaxBytes = 64 << 20

// ErrTooLarge is returned when a response body exceeds Client.MaxBytes.
var ErrTooLarge = errors.New("response body too large")

// Client fetches remote JSON documents with retry and an optional
// revalidating response cache.
type Client struct {
	// HTTP is the underlying client. Nil uses a client with a 30s timeout.
	HTTP *http.Client

	// Cache stores bodies with their validators. Nil disables caching.
	Cache *Cache

	// MaxBytes caps the body size. Zero uses DefaultMaxBytes.
	MaxBytes int64

	// Attempts and Delay configure [Retry]. Zero uses 3 attempts and 1s.
	Attempts int
	Delay    time.Duration
}

type cachedResponse struct {
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	Body         []byte `json:"body"`
}

// Get fetches rawURL. A fresh cache entry is returned without a request; a
// stale one is revalidated with If-None-Match / If-Modified-Since.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var cached cachedResponse
	var haveStale bool
	if c.Cache != nil {
		ok, err := c.Cache.Get(rawURL, &cached)
		switch {
		case ok && err == nil:
			observability.Cache().OnCacheHit(ctx, "http")
			return cached.Body, nil
		case ok && errors.Is(err, ErrExpired):
			haveStale = true
		default:
			observability.Cache().OnCacheMiss(ctx, "http")
		}
	}

	attempts, delay := c.Attempts, c.Delay
	if attempts == 0 {
		attempts = 3
	}
	if delay == 0 {
		delay = time.Second
	}

	var body []byte
	var notModified bool
	var fresh cachedResponse
	err := Retry(ctx, attempts, delay, func() error {
		var err error
		fresh, notModified, err = c.do(ctx, rawURL, cached, haveStale)
		return err
	})
	if err != nil {
		return nil, err
	}

	if notModified {
		body = cached.Body
		fresh = cached
	} else {
		body = fresh.Body
	}
	if c.Cache != nil {
		if err := c.Cache.Set(rawURL, fresh); err == nil {
			observability.Cache().OnCacheSet(ctx, "http", len(body))
		}
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string, cached cachedResponse, revalidate bool) (cachedResponse, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return cachedResponse{}, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return cachedResponse{}, false, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if revalidate {
		if cached.ETag != "" {
			req.Header.Set("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.LastModified)
		}
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.client().Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return cachedResponse{}, false, ctx.Err()
		}
		return cachedResponse{}, false, &RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := CheckStatus(rawURL, resp.StatusCode); err != nil {
		return cachedResponse{}, false, err
	}
	if resp.StatusCode == http.StatusNotModified {
		if !revalidate {
			return cachedResponse{}, false, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
		}
		return cachedResponse{}, true, nil
	}

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return cachedResponse{}, false, &RetryableError{Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > limit {
		return cachedResponse{}, false, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	return cachedResponse{
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		Body:         body,
	}, false, nil
}

func (c *Client) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: 30 * time.Second}
}
