package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/tinyteacher/internal/summarize"
)

// FileConfig is the single-file configuration schema. Sections mirror the
// flag groups.
type FileConfig struct {
	DB      string `yaml:"db" json:"db"`
	Verbose bool   `yaml:"verbose" json:"verbose"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
		Disable     bool          `yaml:"disable" json:"disable"`
	} `yaml:"cache" json:"cache"`

	Fetch struct {
		UserAgent   string        `yaml:"userAgent" json:"userAgent"`
		Relay       string        `yaml:"relay" json:"relay"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout"`
		MaxAttempts int           `yaml:"maxAttempts" json:"maxAttempts"`
	} `yaml:"fetch" json:"fetch"`

	Lesson struct {
		Summary    int                `yaml:"summary" json:"summary"`
		Keywords   int                `yaml:"keywords" json:"keywords"`
		Strategy   string             `yaml:"strategy" json:"strategy"`
		Flashcards int                `yaml:"flashcards" json:"flashcards"`
		Quiz       int                `yaml:"quiz" json:"quiz"`
		Level      string             `yaml:"level" json:"level"`
		Seed       uint64             `yaml:"seed" json:"seed"`
		Lexicon    string             `yaml:"lexicon" json:"lexicon"`
		Weights    *summarize.Weights `yaml:"weights" json:"weights"`
	} `yaml:"lesson" json:"lesson"`

	Server struct {
		Listen      string   `yaml:"listen" json:"listen"`
		CORSOrigins []string `yaml:"corsOrigins" json:"corsOrigins"`
		ShareBase   string   `yaml:"shareBase" json:"shareBase"`
	} `yaml:"server" json:"server"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It runs after
// DefaultConfig and before environment and flag overrides.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString(&cfg.DBPath, fc.DB)
	if fc.Verbose {
		cfg.Verbose = true
	}

	setString(&cfg.CacheDir, fc.Cache.Dir)
	if fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if fc.Cache.Disable {
		cfg.DisableCache = true
	}

	setString(&cfg.UserAgent, fc.Fetch.UserAgent)
	setString(&cfg.RelayURL, fc.Fetch.Relay)
	if fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	setInt(&cfg.MaxAttempts, fc.Fetch.MaxAttempts)

	setInt(&cfg.SummarySentences, fc.Lesson.Summary)
	setInt(&cfg.KeywordCount, fc.Lesson.Keywords)
	setString(&cfg.KeywordStrategy, fc.Lesson.Strategy)
	setInt(&cfg.FlashcardCount, fc.Lesson.Flashcards)
	setInt(&cfg.QuizCount, fc.Lesson.Quiz)
	setString(&cfg.ReadingLevel, fc.Lesson.Level)
	if fc.Lesson.Seed != 0 {
		cfg.QuizSeed = fc.Lesson.Seed
	}
	setString(&cfg.LexiconPath, fc.Lesson.Lexicon)
	if fc.Lesson.Weights != nil {
		cfg.Weights = *fc.Lesson.Weights
	}

	setString(&cfg.ListenAddr, fc.Server.Listen)
	if len(fc.Server.CORSOrigins) > 0 {
		cfg.CORSOrigins = append([]string{}, fc.Server.CORSOrigins...)
	}
	setString(&cfg.ShareBaseURL, fc.Server.ShareBase)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
