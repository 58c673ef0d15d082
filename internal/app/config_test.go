package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/tinyteacher/internal/keywords"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateConfigReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuizCount = -1
	cfg.KeywordStrategy = "textrank"
	cfg.ReadingLevel = "C2"
	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"quiz count", "textrank", "C2"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err, want)
		}
	}
}

func TestApplyFileConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tinyteacher.yaml")
	yml := `db: /tmp/lessons.db
cache:
  dir: /tmp/tt-cache
  maxAge: 48h
  strictPerms: true
fetch:
  relay: https://relay.example/?u=
  maxAttempts: 3
lesson:
  summary: 3
  strategy: phrase
  level: a2
  seed: 42
  weights:
    frequency: 1
    position: 0.5
server:
  listen: ":9000"
  corsOrigins: ["https://school.example"]
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := DefaultConfig()
	ApplyFileConfig(&cfg, fc)

	if cfg.DBPath != "/tmp/lessons.db" || cfg.CacheDir != "/tmp/tt-cache" {
		t.Fatalf("paths not applied: %+v", cfg)
	}
	if cfg.CacheMaxAge != 48*time.Hour || !cfg.CacheStrictPerms {
		t.Fatalf("cache settings not applied: %+v", cfg)
	}
	if cfg.RelayURL != "https://relay.example/?u=" || cfg.MaxAttempts != 3 {
		t.Fatalf("fetch settings not applied: %+v", cfg)
	}
	if cfg.SummarySentences != 3 || cfg.KeywordStrategy != keywords.StrategyPhrase || cfg.QuizSeed != 42 {
		t.Fatalf("lesson settings not applied: %+v", cfg)
	}
	if cfg.Weights.Frequency != 1 || cfg.Weights.Position != 0.5 {
		t.Fatalf("weights not applied: %+v", cfg.Weights)
	}
	if cfg.QuizCount != DefaultConfig().QuizCount {
		t.Fatalf("unset field changed: quiz=%d", cfg.QuizCount)
	}
	if cfg.ListenAddr != ":9000" || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("server settings not applied: %+v", cfg)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("lowercase level should validate: %v", err)
	}
	if got := cfg.LessonOptions().Level; got != "A2" {
		t.Fatalf("level not normalized: %q", got)
	}
}

func TestLoadConfigFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte(`{"lesson":{"quiz":2,"flashcards":3}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Lesson.Quiz != 2 || fc.Lesson.Flashcards != 3 {
		t.Fatalf("unexpected file config: %+v", fc.Lesson)
	}
}

func TestApplyEnvToConfigOverridesFile(t *testing.T) {
	t.Setenv("TINYTEACHER_DB", ":memory:")
	t.Setenv("TINYTEACHER_QUIZ", "9")
	t.Setenv("TINYTEACHER_LEVEL", "A2")
	t.Setenv("TINYTEACHER_CACHE_MAX_AGE", "2h")
	t.Setenv("TINYTEACHER_NO_CACHE", "yes")
	t.Setenv("TINYTEACHER_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TINYTEACHER_SEED", "not-a-number")

	cfg := DefaultConfig()
	cfg.QuizCount = 1
	cfg.QuizSeed = 5
	ApplyEnvToConfig(&cfg)

	if cfg.DBPath != MemoryDB || cfg.QuizCount != 9 || cfg.ReadingLevel != "A2" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.CacheMaxAge != 2*time.Hour || !cfg.DisableCache {
		t.Fatalf("cache env not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins: %v", cfg.CORSOrigins)
	}
	if cfg.QuizSeed != 5 {
		t.Fatalf("invalid seed should be ignored, got %d", cfg.QuizSeed)
	}
}

func TestApplyEnvToConfigFalseBool(t *testing.T) {
	t.Setenv("TINYTEACHER_VERBOSE", "off")
	cfg := DefaultConfig()
	cfg.Verbose = true
	ApplyEnvToConfig(&cfg)
	if cfg.Verbose {
		t.Fatal("verbose should be switched off")
	}
}
