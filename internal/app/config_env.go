package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "TINYTEACHER_"

// ApplyEnvToConfig overrides cfg with the TINYTEACHER_* variables that are
// set. Values that fail to parse are ignored.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	str := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}
	num := func(dst *int, key string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	dur := func(dst *time.Duration, key string) {
		if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}
	setBool := func(dst *bool, key string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvPrefix + key))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}

	str(&cfg.DBPath, "DB")

	str(&cfg.CacheDir, "CACHE_DIR")
	dur(&cfg.CacheMaxAge, "CACHE_MAX_AGE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.DisableCache, "NO_CACHE")

	str(&cfg.UserAgent, "USER_AGENT")
	str(&cfg.RelayURL, "RELAY_URL")
	dur(&cfg.FetchTimeout, "FETCH_TIMEOUT")
	num(&cfg.MaxAttempts, "MAX_ATTEMPTS")

	num(&cfg.SummarySentences, "SUMMARY_SENTENCES")
	num(&cfg.KeywordCount, "KEYWORDS")
	str(&cfg.KeywordStrategy, "KEYWORD_STRATEGY")
	num(&cfg.FlashcardCount, "FLASHCARDS")
	num(&cfg.QuizCount, "QUIZ")
	str(&cfg.ReadingLevel, "LEVEL")
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "SEED")); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.QuizSeed = n
		}
	}
	str(&cfg.LexiconPath, "LEXICON")

	str(&cfg.ListenAddr, "LISTEN")
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "CORS_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}
	str(&cfg.ShareBaseURL, "SHARE_BASE")

	setBool(&cfg.Verbose, "VERBOSE")
}
