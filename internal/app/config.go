package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperifyio/tinyteacher/internal/keywords"
	"github.com/hyperifyio/tinyteacher/internal/lesson"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
	"github.com/hyperifyio/tinyteacher/internal/summarize"
)

// MemoryDB selects the in-memory store instead of a sqlite file.
const MemoryDB = ":memory:"

// Config holds the runtime settings of the CLI and the server.
type Config struct {
	// Storage
	DBPath string

	// Page cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool
	DisableCache     bool

	// Fetching
	UserAgent    string
	RelayURL     string
	FetchTimeout time.Duration
	MaxAttempts  int

	// Lesson generation
	SummarySentences int
	KeywordCount     int
	KeywordStrategy  string
	FlashcardCount   int
	QuizCount        int
	ReadingLevel     string
	QuizSeed         uint64
	LexiconPath      string
	Weights          summarize.Weights

	// Server
	ListenAddr   string
	CORSOrigins  []string
	ShareBaseURL string

	Verbose bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	opts := lesson.DefaultOptions()
	return Config{
		DBPath:           DefaultDBPath(),
		CacheDir:         DefaultCacheDir(),
		UserAgent:        "tinyteacher/1.0 (+https://github.com/hyperifyio/tinyteacher)",
		FetchTimeout:     15 * time.Second,
		MaxAttempts:      2,
		SummarySentences: opts.SummarySentences,
		KeywordCount:     opts.KeywordCount,
		KeywordStrategy:  opts.KeywordStrategy,
		FlashcardCount:   opts.FlashcardCount,
		QuizCount:        opts.QuizCount,
		ReadingLevel:     string(opts.Level),
		Weights:          opts.Weights,
		ListenAddr:       "127.0.0.1:8080",
		CORSOrigins:      []string{"http://localhost:*", "http://127.0.0.1:*"},
		ShareBaseURL:     "http://127.0.0.1:8080/",
	}
}

// DefaultDBPath is $XDG_DATA_HOME/tinyteacher/lessons.db, falling back to
// ~/.local/share.
func DefaultDBPath() string {
	return filepath.Join(dataHome(), "tinyteacher", "lessons.db")
}

// DefaultCacheDir is the user cache directory, or .tinyteacher-cache when it
// cannot be determined.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "tinyteacher")
	}
	return ".tinyteacher-cache"
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// ValidateConfig reports every invalid setting at once.
func ValidateConfig(cfg Config) error {
	var errs []error
	checks := []struct {
		name string
		n    int
	}{
		{"summary sentences", cfg.SummarySentences},
		{"keyword count", cfg.KeywordCount},
		{"flashcard count", cfg.FlashcardCount},
		{"quiz count", cfg.QuizCount},
		{"max attempts", cfg.MaxAttempts},
	}
	for _, c := range checks {
		if c.n < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative (got %d)", c.name, c.n))
		}
	}
	if cfg.CacheMaxAge < 0 {
		errs = append(errs, fmt.Errorf("cache max age must not be negative (got %s)", cfg.CacheMaxAge))
	}
	if cfg.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("fetch timeout must not be negative (got %s)", cfg.FetchTimeout))
	}
	if _, err := keywords.New(cfg.KeywordStrategy, nil); err != nil {
		errs = append(errs, err)
	}
	if _, err := simplify.ParseLevel(cfg.ReadingLevel); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	return errors.Join(errs...)
}

// LessonOptions converts cfg into pipeline options.
func (cfg Config) LessonOptions() lesson.Options {
	return lesson.Options{
		SummarySentences: cfg.SummarySentences,
		KeywordCount:     cfg.KeywordCount,
		KeywordStrategy:  cfg.KeywordStrategy,
		FlashcardCount:   cfg.FlashcardCount,
		QuizCount:        cfg.QuizCount,
		Level:            simplify.Level(strings.ToUpper(strings.TrimSpace(cfg.ReadingLevel))),
		QuizSeed:         cfg.QuizSeed,
		Weights:          cfg.Weights,
	}
}
