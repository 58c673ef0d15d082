package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hyperifyio/tinyteacher/internal/cache"
)

func htmlHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}
}

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(htmlHandler("<html><body>ok</body></html>"))
	defer srv.Close()

	c := &Client{UserAgent: "tinyteacher-test", MaxAttempts: 2, PerRequestTimeout: 2 * time.Second}
	res, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContentType == "" || string(res.Body) == "" {
		t.Fatalf("expected content type and body")
	}
}

func TestGet_RetryOn5xx(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		htmlHandler("<html>ok</html>")(w, r)
	}))
	defer srv.Close()

	c := &Client{MaxAttempts: 2, Backoff: time.Millisecond}
	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
}

func TestGet_NoRetryOn404(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Client{MaxAttempts: 3, Backoff: time.Millisecond}
	_, err := c.Get(context.Background(), srv.URL)
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound {
		t.Fatalf("expected 404 status error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestGet_Conditional304_UsesCache(t *testing.T) {
	var calls int32
	etag := `"abc123"`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "text/html")
		if n == 1 {
			w.Header().Set("ETag", etag)
			_, _ = w.Write([]byte("first"))
			return
		}
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		_, _ = w.Write([]byte("unexpected"))
	}))
	defer srv.Close()

	c := &Client{MaxAttempts: 1, Cache: &cache.PageCache{Dir: t.TempDir()}}
	first, err := c.Get(context.Background(), srv.URL)
	if err != nil || string(first.Body) != "first" {
		t.Fatalf("first get: %q %v", first.Body, err)
	}
	second, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("second get error: %v", err)
	}
	if string(second.Body) != "first" || !second.FromCache {
		t.Fatalf("expected cached body, got %+v", second)
	}
}

func TestGet_RejectsNonHTTP(t *testing.T) {
	c := &Client{MaxAttempts: 1}
	if _, err := c.Get(context.Background(), "file:///etc/hosts"); err == nil {
		t.Fatalf("expected error for non-http scheme")
	}
}

func TestGet_ContentTypeGating(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	c := &Client{MaxAttempts: 1}
	_, err := c.Get(context.Background(), srv.URL)
	var cte *ContentTypeError
	if !errors.As(err, &cte) {
		t.Fatalf("expected content type error, got %v", err)
	}
	c.Accept = AnyContentType
	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("AnyContentType should accept pdf: %v", err)
	}
}

func TestGet_RedirectLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/next", http.StatusFound)
			return
		}
		htmlHandler("ok")(w, r)
	}))
	defer srv.Close()

	c := &Client{MaxAttempts: 1, RedirectMaxHops: 1}
	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected redirect limit error")
	}
}

func TestGet_MaxConcurrent(t *testing.T) {
	var inFlight, maxObserved int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		curr := atomic.AddInt32(&inFlight, 1)
		for {
			prev := atomic.LoadInt32(&maxObserved)
			if curr <= prev || atomic.CompareAndSwapInt32(&maxObserved, prev, curr) {
				break
			}
		}
		time.Sleep(100 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		htmlHandler("ok")(w, r)
	}))
	defer srv.Close()

	c := &Client{MaxAttempts: 1, MaxConcurrent: 2}
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, _ = c.Get(context.Background(), srv.URL)
		}()
	}
	close(start)
	wg.Wait()
	if maxObserved > 2 {
		t.Fatalf("expected max concurrency <= 2, got %d", maxObserved)
	}
}

func TestFetcher_FallsBackToRelay(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer origin.Close()

	var relayed string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		relayed = r.URL.Query().Get("u")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("<p>relayed</p>"))
	}))
	defer relay.Close()

	f := &Fetcher{Client: &Client{MaxAttempts: 1}, RelayURL: relay.URL + "/?u="}
	page, err := f.Fetch(context.Background(), origin.URL+"/article?utm_source=x#top")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !page.ViaRelay || string(page.Body) != "<p>relayed</p>" {
		t.Fatalf("unexpected page %+v", page)
	}
	if relayed != origin.URL+"/article" {
		t.Fatalf("relay got target %q", relayed)
	}
}

func TestFetcher_NoRelayReturnsDirectError(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer origin.Close()

	f := &Fetcher{Client: &Client{MaxAttempts: 1}}
	if _, err := f.Fetch(context.Background(), origin.URL); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCanonicalURL(t *testing.T) {
	cases := map[string]string{
		"HTTPS://Example.COM:443/a?utm_source=x&id=2#frag": "https://example.com/a?id=2",
		"http://user:pw@example.com:80/p":                  "http://example.com/p",
		"https://example.com/plain":                         "https://example.com/plain",
	}
	for in, want := range cases {
		got, err := CanonicalURL(in)
		if err != nil || got != want {
			t.Fatalf("CanonicalURL(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	for _, bad := range []string{"ftp://example.com", "not a url", "/relative"} {
		if _, err := CanonicalURL(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
