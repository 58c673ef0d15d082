package fetch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
)

// Page is a fetched document.
type Page struct {
	URL         string
	Body        []byte
	ContentType string
	ViaRelay    bool
}

// Fetcher tries the URL directly and, when that fails, through a relay that
// takes the target as a query-escaped suffix (for example
// "https://relay.example/?u="). The relay accepts any successful response.
type Fetcher struct {
	Client   *Client
	RelayURL string
}

// Fetch downloads rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	target, err := CanonicalURL(rawURL)
	if err != nil {
		return Page{}, err
	}
	client := f.Client
	if client == nil {
		client = &Client{MaxAttempts: 1}
	}
	res, err := client.Get(ctx, target)
	if err == nil {
		return Page{URL: target, Body: res.Body, ContentType: res.ContentType}, nil
	}
	if f.RelayURL == "" || ctx.Err() != nil {
		return Page{}, err
	}
	log.Warn().Err(err).Str("url", target).Msg("direct fetch failed; trying relay")

	relay := &Client{
		HTTPClient:        client.HTTPClient,
		UserAgent:         client.UserAgent,
		MaxAttempts:       client.MaxAttempts,
		PerRequestTimeout: client.PerRequestTimeout,
		RedirectMaxHops:   client.RedirectMaxHops,
		MaxBodyBytes:      client.MaxBodyBytes,
		Backoff:           client.Backoff,
		Accept:            AnyContentType,
	}
	res, rerr := relay.Get(ctx, f.RelayURL+url.QueryEscape(target))
	if rerr != nil {
		return Page{}, fmt.Errorf("fetch %s: direct: %v; relay: %w", target, err, rerr)
	}
	return Page{URL: target, Body: res.Body, ContentType: res.ContentType, ViaRelay: true}, nil
}
