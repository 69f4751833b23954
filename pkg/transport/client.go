// Package transport performs single HTTP GET requests for the wiki sources.
//
// The client deliberately does not retry, rate-limit, or cache: a request
// either yields a body plus response metadata, or fails with a wrapped
// [ErrNetwork]. HTTP error statuses (404, 5xx) are not transport failures;
// they are returned in [Info] for the caller's normalizer to classify.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrNetwork is returned for request construction and network failures
// (DNS, connect, timeout). Check with errors.Is.
var ErrNetwork = errors.New("network error")

const defaultUserAgent = "wikifetch (https://github.com/wikifetch/wikifetch)"

// Info carries response metadata for one completed GET.
type Info struct {
	Status      int    // HTTP status code
	ContentType string // Content-Type header, e.g. "application/json; charset=utf-8"
	RequestID   string // correlation id sent as X-Client-Request-Id
}

// HTML reports whether the response carried an HTML content type.
// HTML bodies are stored verbatim by the normalizers instead of being
// parsed as structured data.
func (i Info) HTML() bool {
	ct := i.ContentType
	return len(ct) >= 9 && ct[:9] == "text/html"
}

// Client performs GET requests with an optional proxy and timeout.
// A zero timeout means wait indefinitely. The client is safe for
// concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
	logger    *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger attaches a logger for per-request debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client. The proxy, when non-empty, must be a URL understood
// by http.ProxyURL (e.g. "http://localhost:8080"). A timeout of 0 disables
// the client-side deadline.
func New(proxy string, timeout time.Duration, opts ...Option) (*Client, error) {
	hc := &http.Client{Timeout: timeout}
	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", proxy, err)
		}
		hc.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
	}

	c := &Client{http: hc, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get fetches rawurl and returns the decoded body with response metadata.
// The status hint is a short human-readable banner ("domain (action) title")
// used only for debug logging. Get does not retry and treats every HTTP
// status as a valid response; only network-level failures return an error.
func (c *Client) Get(ctx context.Context, rawurl, status string) ([]byte, Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, http.NoBody)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	reqID := uuid.NewString()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Client-Request-Id", reqID)

	if c.logger != nil {
		c.logger.Debug("GET", "status", status, "url", rawurl, "id", reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	info := Info{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		RequestID:   reqID,
	}

	if c.logger != nil {
		c.logger.Debug("done", "status", status, "http", info.Status,
			"bytes", len(body), "elapsed", time.Since(start).Round(time.Millisecond))
	}
	return body, info, nil
}
