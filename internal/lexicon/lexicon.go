// Package lexicon holds the word tables the lesson pipeline consults: stop
// words per language and the plain-language substitution table. A Lexicon is
// built once and only read afterwards, so it is safe to share between
// goroutines.
package lexicon

import (
	"sort"
	"strings"
	"sync"

	"github.com/hyperifyio/tinyteacher/internal/segment"
)

// Substitution rewrites a formal or jargon word into a plainer one.
type Substitution struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Config is the declarative form of a Lexicon.
type Config struct {
	Stopwords     map[string][]string `yaml:"stopwords" json:"stopwords"`
	Substitutions []Substitution      `yaml:"substitutions" json:"substitutions"`
}

// Lexicon is an immutable set of stop words and substitutions.
type Lexicon struct {
	stop      map[string]struct{}
	languages []string
	subs      []Substitution
}

// New builds a Lexicon from cfg. Stop words are folded the same way tokens
// are, so "że" matches the token "ze".
func New(cfg Config) *Lexicon {
	lex := &Lexicon{stop: make(map[string]struct{})}
	for lang, words := range cfg.Stopwords {
		lex.languages = append(lex.languages, lang)
		for _, w := range words {
			if f := segment.Fold(strings.TrimSpace(w)); f != "" {
				lex.stop[f] = struct{}{}
			}
		}
	}
	sort.Strings(lex.languages)
	for _, s := range cfg.Substitutions {
		from, to := strings.TrimSpace(s.From), strings.TrimSpace(s.To)
		if from == "" {
			continue
		}
		lex.subs = append(lex.subs, Substitution{From: from, To: to})
	}
	return lex
}

var defaultLexicon = sync.OnceValue(func() *Lexicon { return New(DefaultConfig()) })

// Default returns the process-wide built-in Lexicon.
func Default() *Lexicon { return defaultLexicon() }

// IsStop reports whether the folded token is a stop word.
func (l *Lexicon) IsStop(token string) bool {
	if l == nil {
		return false
	}
	_, ok := l.stop[token]
	return ok
}

// Languages lists the languages that contributed stop words.
func (l *Lexicon) Languages() []string {
	return append([]string(nil), l.languages...)
}

// Substitutions returns a copy of the substitution table in order.
func (l *Lexicon) Substitutions() []Substitution {
	if l == nil {
		return nil
	}
	return append([]Substitution(nil), l.subs...)
}

// Merge returns a new Lexicon holding l's entries plus those of cfg. Later
// substitutions for the same source word win.
func (l *Lexicon) Merge(cfg Config) *Lexicon {
	out := &Lexicon{stop: make(map[string]struct{}, len(l.stop))}
	for w := range l.stop {
		out.stop[w] = struct{}{}
	}
	langs := map[string]struct{}{}
	for _, lang := range l.languages {
		langs[lang] = struct{}{}
	}
	extra := New(cfg)
	for w := range extra.stop {
		out.stop[w] = struct{}{}
	}
	for _, lang := range extra.languages {
		langs[lang] = struct{}{}
	}
	for lang := range langs {
		out.languages = append(out.languages, lang)
	}
	sort.Strings(out.languages)

	override := map[string]string{}
	for _, s := range extra.subs {
		override[segment.Fold(s.From)] = s.To
	}
	for _, s := range l.subs {
		if to, ok := override[segment.Fold(s.From)]; ok {
			out.subs = append(out.subs, Substitution{From: s.From, To: to})
			delete(override, segment.Fold(s.From))
			continue
		}
		out.subs = append(out.subs, s)
	}
	for _, s := range extra.subs {
		if _, ok := override[segment.Fold(s.From)]; ok {
			out.subs = append(out.subs, s)
			delete(override, segment.Fold(s.From))
		}
	}
	return out
}
