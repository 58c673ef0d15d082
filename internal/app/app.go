// Package app wires configuration, storage, fetching and the lesson pipeline
// into the operations the CLI and the HTTP server expose.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tinyteacher/internal/cache"
	"github.com/hyperifyio/tinyteacher/internal/export"
	"github.com/hyperifyio/tinyteacher/internal/extract"
	"github.com/hyperifyio/tinyteacher/internal/fetch"
	"github.com/hyperifyio/tinyteacher/internal/lesson"
	"github.com/hyperifyio/tinyteacher/internal/lexicon"
	"github.com/hyperifyio/tinyteacher/internal/segment"
	"github.com/hyperifyio/tinyteacher/internal/share"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
	"github.com/hyperifyio/tinyteacher/internal/source"
	"github.com/hyperifyio/tinyteacher/internal/store"
	"github.com/hyperifyio/tinyteacher/internal/store/memstore"
	"github.com/hyperifyio/tinyteacher/internal/store/sqlite"
)

// App holds the long-lived collaborators of one process.
type App struct {
	cfg Config

	Store    store.Store
	Pipeline *lesson.Pipeline
	Resolver *source.Resolver

	gen *lesson.Generator
	now func() time.Time
}

// New validates cfg, prepares the page cache and opens the store.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	pipeline, err := lesson.NewPipeline(lex, cfg.LessonOptions())
	if err != nil {
		return nil, err
	}

	pageCache, err := prepareCache(cfg)
	if err != nil {
		return nil, err
	}
	client := &fetch.Client{
		HTTPClient:        &http.Client{Timeout: cfg.FetchTimeout},
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.FetchTimeout,
		Cache:             pageCache,
		MaxConcurrent:     4,
	}

	st, err := openStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		Store:    st,
		Pipeline: pipeline,
		Resolver: &source.Resolver{
			Fetcher:   &fetch.Fetcher{Client: client, RelayURL: cfg.RelayURL},
			Extractor: extract.HTML{},
			Stdin:     os.Stdin,
		},
		gen: lesson.NewGenerator(pipeline),
		now: time.Now,
	}, nil
}

func openStore(ctx context.Context, path string) (store.Store, error) {
	if path == MemoryDB {
		return memstore.New(), nil
	}
	st, err := sqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func prepareCache(cfg Config) (*cache.PageCache, error) {
	if cfg.DisableCache || strings.TrimSpace(cfg.CacheDir) == "" {
		return nil, nil
	}
	if cfg.CacheClear {
		if err := cache.Clear(cfg.CacheDir); err != nil {
			return nil, fmt.Errorf("clear cache: %w", err)
		}
		log.Info().Str("dir", cfg.CacheDir).Msg("cache cleared")
	}
	if cfg.CacheMaxAge > 0 {
		n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache purge failed")
		} else if n > 0 {
			log.Info().Int("removed", n).Dur("maxAge", cfg.CacheMaxAge).Msg("cache purged")
		}
	}
	return &cache.PageCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}, nil
}

// Close releases the store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// Config returns the configuration the app was built with.
func (a *App) Config() Config { return a.cfg }

// NewGenerator returns a generator with its own busy guard, for callers that
// serve several sessions.
func (a *App) NewGenerator() *lesson.Generator {
	return lesson.NewGenerator(a.Pipeline)
}

// ResolveFunc resolves req into pipeline input. A source without usable
// text fails with lesson.ErrNoText.
func (a *App) ResolveFunc(req source.Request, level simplify.Level) lesson.ResolveFunc {
	return func(ctx context.Context) (lesson.Input, error) {
		doc, err := a.Resolver.Resolve(ctx, req)
		if err != nil {
			return lesson.Input{}, err
		}
		if segment.Normalize(doc.Text) == "" {
			if doc.URL != "" {
				return lesson.Input{}, fmt.Errorf("%w from %s; paste the text instead", lesson.ErrNoText, doc.URL)
			}
			return lesson.Input{}, lesson.ErrNoText
		}
		return lesson.Input{Title: doc.Title, URL: doc.URL, Text: doc.Text, Level: level}, nil
	}
}

// Generate runs the pipeline on req without saving.
func (a *App) Generate(ctx context.Context, req source.Request, level simplify.Level) (lesson.Result, error) {
	level, err := a.ParseLevel(string(level))
	if err != nil {
		return lesson.Result{}, err
	}
	return a.gen.Generate(ctx, a.ResolveFunc(req, level))
}

// ParseLevel parses s, falling back to the configured level when s is empty.
func (a *App) ParseLevel(s string) (simplify.Level, error) {
	if strings.TrimSpace(s) == "" {
		return a.Pipeline.Options().Level, nil
	}
	return simplify.ParseLevel(s)
}

// Save stores a generated result as a new lesson.
func (a *App) Save(ctx context.Context, res lesson.Result) (lesson.Lesson, error) {
	l := lesson.New(res.Input, res.Bundle, a.now())
	if err := a.Store.Add(ctx, l); err != nil {
		return lesson.Lesson{}, fmt.Errorf("save lesson: %w", err)
	}
	log.Info().Str("id", l.ID).Str("title", l.Title).Msg("lesson saved")
	return l, nil
}

// CreateLesson generates a lesson from req and saves it.
func (a *App) CreateLesson(ctx context.Context, req source.Request, level simplify.Level) (lesson.Lesson, error) {
	res, err := a.Generate(ctx, req, level)
	if err != nil {
		return lesson.Lesson{}, err
	}
	return a.Save(ctx, res)
}

// Resimplify recomputes the simplified text of a saved lesson at level and
// stores the result.
func (a *App) Resimplify(ctx context.Context, id string, level simplify.Level) (lesson.Lesson, error) {
	level, err := a.ParseLevel(string(level))
	if err != nil {
		return lesson.Lesson{}, err
	}
	l, err := a.Store.Get(ctx, id)
	if err != nil {
		return lesson.Lesson{}, err
	}
	l.Simplified = a.Pipeline.Resimplify(l.Summary, level)
	l.ReadingLevel = level
	if err := a.Store.Update(ctx, l); err != nil {
		return lesson.Lesson{}, fmt.Errorf("update lesson: %w", err)
	}
	return l, nil
}

// Lessons lists saved lessons, newest first.
func (a *App) Lessons(ctx context.Context) ([]lesson.Lesson, error) {
	return a.Store.List(ctx)
}

// Lesson returns the saved lesson with id.
func (a *App) Lesson(ctx context.Context, id string) (lesson.Lesson, error) {
	return a.Store.Get(ctx, id)
}

// DeleteLesson removes the saved lesson with id.
func (a *App) DeleteLesson(ctx context.Context, id string) error {
	if err := a.Store.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("id", id).Msg("lesson deleted")
	return nil
}

// Markdown renders the saved lesson with id.
func (a *App) Markdown(ctx context.Context, id string) (string, error) {
	l, err := a.Store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return export.Markdown(l), nil
}

// WritePDF renders the saved lesson with id as PDF into w.
func (a *App) WritePDF(ctx context.Context, id string, w io.Writer) error {
	md, err := a.Markdown(ctx, id)
	if err != nil {
		return err
	}
	return export.WritePDF(w, md)
}

// ShareLink returns the share link of the saved lesson with id.
func (a *App) ShareLink(ctx context.Context, id string) (string, error) {
	l, err := a.Store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return share.Link(a.cfg.ShareBaseURL, share.FromLesson(l))
}

// QRCode renders the share link of the saved lesson with id as a PNG and
// returns the link that was encoded.
func (a *App) QRCode(ctx context.Context, id string, size int) ([]byte, string, error) {
	l, err := a.Store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return share.QRCode(a.cfg.ShareBaseURL, share.FromLesson(l), size)
}

// Import decodes a share link and saves the lesson it carries.
func (a *App) Import(ctx context.Context, link string) (lesson.Lesson, error) {
	p, err := share.Decode(link)
	if err != nil {
		return lesson.Lesson{}, err
	}
	if strings.TrimSpace(p.Summary) == "" && strings.TrimSpace(p.SourceText) == "" {
		return lesson.Lesson{}, fmt.Errorf("%w: lesson has no content", share.ErrInvalidPayload)
	}
	l := p.Lesson(a.now())
	if level, err := a.ParseLevel(string(p.Level)); err == nil {
		l.ReadingLevel = level
	} else {
		l.ReadingLevel = a.Pipeline.Options().Level
	}
	if err := a.Store.Add(ctx, l); err != nil {
		return lesson.Lesson{}, fmt.Errorf("save lesson: %w", err)
	}
	log.Info().Str("id", l.ID).Str("title", l.Title).Msg("shared lesson imported")
	return l, nil
}

// IsInputError reports whether err was caused by the caller's input rather
// than by the system.
func IsInputError(err error) bool {
	return errors.Is(err, lesson.ErrNoText) ||
		errors.Is(err, source.ErrNoSource) ||
		errors.Is(err, share.ErrInvalidPayload)
}
