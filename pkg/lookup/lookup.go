// Package lookup provides a settle.Predicate backed by an HTTP existence
// check, such as a "GET /users/{name}" endpoint answering 200 or 404.
//
// Identical concurrent lookups share one request, and outbound requests can be
// paced with a token bucket.
package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/zoobzio/settle"
)

// DefaultTimeout bounds each HTTP request unless WithClient overrides it.
const DefaultTimeout = 5 * time.Second

// Checker reports whether a resource named by a value exists on an HTTP
// endpoint. A 2xx response means present, 404 or 410 means absent, and
// anything else is an error.
type Checker struct {
	client   *http.Client
	endpoint string
	header   http.Header
	limiter  *rate.Limiter
	group    singleflight.Group
}

// Option configures a Checker.
type Option func(*Checker)

// WithClient sets the HTTP client.
func WithClient(client *http.Client) Option {
	return func(c *Checker) {
		c.client = client
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Checker) {
		c.header.Add(key, value)
	}
}

// WithRateLimit paces outbound requests to rps per second with the given
// burst. Callers wait for a token, or give up when their context ends.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Checker) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a new Checker. endpoint contains a single "{value}" placeholder
// which is replaced with the path-escaped value:
//
//	lookup.New("https://api.example.com/users/{value}")
func New(endpoint string, opts ...Option) *Checker {
	c := &Checker{
		client:   &http.Client{Timeout: DefaultTimeout},
		endpoint: endpoint,
		header:   make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) url(value string) string {
	return strings.ReplaceAll(c.endpoint, "{value}", url.PathEscape(value))
}

// Exists reports whether the endpoint knows value. A canceled ctx returns
// immediately; a request already shared with other callers keeps running for
// them.
func (c *Checker) Exists(ctx context.Context, value string) (bool, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, fmt.Errorf("waiting for rate limit: %w", err)
		}
	}

	target := c.url(value)
	ch := c.group.DoChan(target, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), target)
	})

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

func (c *Checker) fetch(ctx context.Context, target string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("building request: %w", err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("requesting %s: %w", target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return false, nil
	default:
		return false, &StatusError{URL: target, StatusCode: resp.StatusCode}
	}
}

// Predicate returns Exists as a settle.Predicate.
func (c *Checker) Predicate() settle.Predicate[string] {
	return c.Exists
}

// StatusError reports an HTTP response that answers neither present nor
// absent.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lookup %s: unexpected status %d", e.URL, e.StatusCode)
}
