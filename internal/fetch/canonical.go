package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id",
	"gclid", "fbclid",
}

// CanonicalURL validates an http(s) URL and strips the fragment, default
// ports, user info and common tracking parameters. It is used as the cache
// key and as the stored lesson source.
func CanonicalURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) || u.Host == "" {
		return "", fmt.Errorf("unsupported url %q: want http or https", raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Fragment = ""
	u.User = nil
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) || (u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Hostname()
	}
	if u.RawQuery != "" {
		q := u.Query()
		for _, p := range trackingParams {
			q.Del(p)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
