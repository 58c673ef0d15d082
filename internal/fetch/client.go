// Package fetch downloads lesson source pages over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hyperifyio/tinyteacher/internal/cache"
)

// DefaultMaxBodyBytes bounds a downloaded body.
const DefaultMaxBodyBytes = 8 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

// Transient reports whether a retry may succeed.
func (e *StatusError) Transient() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// ContentTypeError reports a response whose media type is not accepted.
type ContentTypeError struct {
	URL         string
	ContentType string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("fetch %s: unsupported content type %q", e.URL, e.ContentType)
}

// Client wraps http.Client with timeouts, bounded retry on transient errors,
// redirect limits, content-type gating and an optional conditional cache.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each request.
	PerRequestTimeout time.Duration
	// Cache enables conditional GETs against previously saved pages.
	Cache *cache.PageCache
	// BypassCache fetches fresh without validators but still saves.
	BypassCache bool
	// RedirectMaxHops caps redirects. Zero means 5.
	RedirectMaxHops int
	// MaxConcurrent limits in-flight requests. Zero means unlimited.
	MaxConcurrent int
	// Accept decides whether a Content-Type is usable. Nil accepts HTML only;
	// AnyContentType accepts everything.
	Accept func(contentType string) bool
	// MaxBodyBytes bounds the body. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
	// Backoff is the base delay between attempts. Zero means 200ms.
	Backoff time.Duration

	limiter     chan struct{}
	limiterOnce sync.Once
}

// Response is a fetched body with its media type.
type Response struct {
	Body        []byte
	ContentType string
	FromCache   bool
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirect()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirect()}
}

// Get issues a GET with retry for transient failures. When a cache is set,
// saved validators are sent and a 304 is answered from the cache.
func (c *Client) Get(ctx context.Context, rawURL string) (Response, error) {
	var etag, lastMod string
	if c.Cache != nil && !c.BypassCache {
		if meta, err := c.Cache.LoadMeta(ctx, rawURL); err == nil && meta != nil {
			etag, lastMod = meta.ETag, meta.LastModified
		}
	}
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		res, err := c.tryOnce(ctx, rawURL, etag, lastMod)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !isTransient(err) || i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-time.After(time.Duration(i+1) * backoff):
		}
	}
	return Response{}, lastErr
}

func (c *Client) tryOnce(ctx context.Context, rawURL, etag, lastMod string) (Response, error) {
	c.acquire()
	defer c.release()

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Response{}, fmt.Errorf("new request: %w", err)
	}
	if !isHTTPScheme(req.URL) {
		return Response{}, fmt.Errorf("unsupported URL scheme: %q", req.URL.String())
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && c.Cache != nil {
		body, err := c.Cache.LoadBody(ctx, rawURL)
		if err == nil {
			ct := resp.Header.Get("Content-Type")
			if meta, merr := c.Cache.LoadMeta(ctx, rawURL); merr == nil && meta.ContentType != "" {
				ct = meta.ContentType
			}
			return Response{Body: body, ContentType: ct, FromCache: true}, nil
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, &StatusError{URL: rawURL, Status: resp.StatusCode}
	}

	ct := resp.Header.Get("Content-Type")
	accept := c.Accept
	if accept == nil {
		accept = HTMLContentType
	}
	if !accept(ct) {
		return Response{}, &ContentTypeError{URL: rawURL, ContentType: ct}
	}
	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return Response{}, fmt.Errorf("read body: %w", err)
	}
	if c.Cache != nil && resp.StatusCode == http.StatusOK {
		_ = c.Cache.Save(ctx, rawURL, ct, resp.Header.Get("ETag"), resp.Header.Get("Last-Modified"), body)
	}
	return Response{Body: body, ContentType: ct}, nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}
	return false
}

func (c *Client) checkRedirect() func(req *http.Request, via []*http.Request) error {
	hops := c.RedirectMaxHops
	if hops <= 0 {
		hops = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= hops {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// HTMLContentType accepts text/html and application/xhtml+xml.
func HTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// AnyContentType accepts every response.
func AnyContentType(string) bool { return true }

func (c *Client) acquire() {
	if c.MaxConcurrent <= 0 {
		return
	}
	c.limiterOnce.Do(func() {
		c.limiter = make(chan struct{}, c.MaxConcurrent)
	})
	c.limiter <- struct{}{}
}

func (c *Client) release() {
	if c.MaxConcurrent <= 0 || c.limiter == nil {
		return
	}
	select {
	case <-c.limiter:
	default:
	}
}
