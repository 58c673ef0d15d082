package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/tinyteacher/internal/app"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tinyteacher",
		Short: "Turn a text or a web page into a short lesson",
		Long: "tinyteacher builds a summary, a simplified version, flashcards and a " +
			"multiple-choice quiz from pasted text, a file or a web page.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a YAML or JSON config file")
	pf.StringSlice("env", []string{".env"}, "Dotenv files to load before reading TINYTEACHER_* variables")
	pf.String("db", "", "Path to the SQLite lesson database (\":memory:\" keeps lessons in memory)")
	pf.BoolP("verbose", "v", false, "Verbose logging")

	pf.String("cache.dir", "", "Page cache directory")
	pf.Duration("cache.maxAge", 0, "Purge cached pages older than this (e.g. 72h); 0 disables")
	pf.Bool("cache.clear", false, "Clear the page cache before running")
	pf.Bool("cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	pf.Bool("no-cache", false, "Do not cache fetched pages")

	pf.String("relay", "", "Relay URL prefix used when a direct fetch fails (target is appended query-escaped)")
	pf.String("user-agent", "", "User-Agent for page fetches")
	pf.Duration("fetch.timeout", 0, "Per-request fetch timeout")

	pf.Int("summary", 0, "Maximum summary sentences")
	pf.Int("keywords", 0, "Number of keywords used for flashcards and quiz")
	pf.String("strategy", "", "Keyword strategy: frequency or phrase")
	pf.Int("flashcards", 0, "Maximum flashcards")
	pf.Int("quiz", 0, "Maximum quiz questions")
	pf.String("level", "", "Reading level: A2 or B2")
	pf.Uint64("seed", 0, "Seed for quiz option order; 0 shuffles randomly")
	pf.String("lexicon", "", "YAML file with extra stop words and substitutions")
	pf.String("share-base", "", "Base URL that share links point to")

	root.AddCommand(
		newCreateCmd(),
		newSimplifyCmd(),
		newListCmd(),
		newShowCmd(),
		newDeleteCmd(),
		newExportCmd(),
		newShareCmd(),
		newOpenCmd(),
		newServeCmd(),
	)
	return root
}

// loadConfig layers defaults, the config file, the environment and finally
// the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	f := cmd.Flags()

	envFiles, _ := f.GetStringSlice("env")
	if err := app.LoadEnvFiles(envFiles...); err != nil {
		return app.Config{}, err
	}

	cfg := app.DefaultConfig()
	if path, _ := f.GetString("config"); path != "" {
		fc, err := app.LoadConfigFile(path)
		if err != nil {
			return app.Config{}, err
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	flag := func(name string, dst *bool) {
		if f.Changed(name) {
			*dst, _ = f.GetBool(name)
		}
	}

	str("db", &cfg.DBPath)
	flag("verbose", &cfg.Verbose)
	str("cache.dir", &cfg.CacheDir)
	if f.Changed("cache.maxAge") {
		cfg.CacheMaxAge, _ = f.GetDuration("cache.maxAge")
	}
	flag("cache.clear", &cfg.CacheClear)
	flag("cache.strictPerms", &cfg.CacheStrictPerms)
	flag("no-cache", &cfg.DisableCache)
	str("relay", &cfg.RelayURL)
	str("user-agent", &cfg.UserAgent)
	if f.Changed("fetch.timeout") {
		cfg.FetchTimeout, _ = f.GetDuration("fetch.timeout")
	}
	num("summary", &cfg.SummarySentences)
	num("keywords", &cfg.KeywordCount)
	str("strategy", &cfg.KeywordStrategy)
	num("flashcards", &cfg.FlashcardCount)
	num("quiz", &cfg.QuizCount)
	str("level", &cfg.ReadingLevel)
	if f.Changed("seed") {
		cfg.QuizSeed, _ = f.GetUint64("seed")
	}
	str("lexicon", &cfg.LexiconPath)
	str("share-base", &cfg.ShareBaseURL)
	str("listen", &cfg.ListenAddr)
	if f.Changed("cors-origin") {
		cfg.CORSOrigins, _ = f.GetStringSlice("cors-origin")
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return cfg, nil
}

// openApp loads the configuration and builds the app for cmd.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	a.Resolver.Stdin = cmd.InOrStdin()
	return a, nil
}
