// Package source resolves what a lesson is built from: pasted text, a local
// file or a web page.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tinyteacher/internal/extract"
	"github.com/hyperifyio/tinyteacher/internal/fetch"
)

// ErrNoSource is returned when a request names no text, file or URL.
var ErrNoSource = errors.New("no source given: paste text, name a file or give a URL")

// StdinPath reads the file content from the resolver's Stdin.
const StdinPath = "-"

// Request names the lesson input. The first non-empty field in the order
// Text, Path, URL wins.
type Request struct {
	Text string
	Path string
	URL  string
}

// Document is resolved source text. Text may be empty when nothing usable was
// found; callers decide how to report that.
type Document struct {
	Title string
	URL   string
	Text  string
}

// PageFetcher downloads a page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (fetch.Page, error)
}

// Resolver turns a Request into a Document.
type Resolver struct {
	Fetcher   PageFetcher
	Extractor extract.Extractor
	Stdin     io.Reader
}

var headingRe = regexp.MustCompile(`^\s{0,3}#{1,6}\s+(.+?)\s*#*\s*$`)

// Resolve reads the source named by req.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Document, error) {
	switch {
	case strings.TrimSpace(req.Text) != "":
		return Document{Text: normalize(req.Text), URL: strings.TrimSpace(req.URL)}, nil
	case req.Path != "":
		return r.readFile(req.Path)
	case strings.TrimSpace(req.URL) != "":
		return r.fetchPage(ctx, req.URL)
	}
	return Document{}, ErrNoSource
}

func (r *Resolver) extractor() extract.Extractor {
	if r.Extractor == nil {
		return extract.HTML{}
	}
	return r.Extractor
}

func (r *Resolver) readFile(path string) (Document, error) {
	var (
		data []byte
		err  error
	)
	if path == StdinPath {
		if r.Stdin == nil {
			return Document{}, errors.New("read stdin: no input stream")
		}
		data, err = io.ReadAll(r.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Document{}, fmt.Errorf("read source: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" || looksLikeHTML(data) {
		doc := r.extractor().Extract(data)
		return Document{Title: doc.Title, Text: normalize(doc.Text)}, nil
	}
	title, text := fromMarkdown(string(data))
	return Document{Title: title, Text: text}, nil
}

func (r *Resolver) fetchPage(ctx context.Context, rawURL string) (Document, error) {
	canonical, err := fetch.CanonicalURL(rawURL)
	if err != nil {
		return Document{}, err
	}
	if r.Fetcher == nil {
		return Document{}, errors.New("fetch: no fetcher configured")
	}
	page, err := r.Fetcher.Fetch(ctx, canonical)
	if err != nil {
		if ctx.Err() != nil {
			return Document{}, ctx.Err()
		}
		log.Warn().Err(err).Str("url", canonical).Msg("source page unavailable")
		return Document{URL: canonical}, nil
	}
	if fetch.HTMLContentType(page.ContentType) || looksLikeHTML(page.Body) {
		doc := r.extractor().Extract(page.Body)
		return Document{Title: doc.Title, URL: canonical, Text: normalize(doc.Text)}, nil
	}
	return Document{URL: canonical, Text: normalize(string(page.Body))}, nil
}

func looksLikeHTML(b []byte) bool {
	return strings.HasPrefix(http.DetectContentType(b), "text/html")
}

// fromMarkdown takes the first heading as the title and drops heading
// markers. Headings without a terminator get a period so they do not run into
// the next sentence.
func fromMarkdown(s string) (string, string) {
	title := ""
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			h := strings.TrimSpace(m[1])
			if h == "" {
				continue
			}
			if title == "" {
				title = h
			}
			if !strings.ContainsAny(h[len(h)-1:], ".!?") {
				h += "."
			}
			parts = append(parts, h)
			continue
		}
		parts = append(parts, line)
	}
	return title, normalize(strings.Join(parts, "\n"))
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
