// Package lesson turns source text into a lesson: summary, simplified
// summary, flashcards and quiz.
package lesson

import (
	"errors"

	"github.com/hyperifyio/tinyteacher/internal/flashcard"
	"github.com/hyperifyio/tinyteacher/internal/keywords"
	"github.com/hyperifyio/tinyteacher/internal/lexicon"
	"github.com/hyperifyio/tinyteacher/internal/quiz"
	"github.com/hyperifyio/tinyteacher/internal/segment"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
	"github.com/hyperifyio/tinyteacher/internal/summarize"
)

// ErrNoText is returned when the input has no usable text after
// normalization.
var ErrNoText = errors.New("no usable text was available to summarize")

// Options control the size of each lesson section.
type Options struct {
	SummarySentences int
	KeywordCount     int
	KeywordStrategy  string
	FlashcardCount   int
	QuizCount        int
	Level            simplify.Level
	// QuizSeed makes option order reproducible. Zero shuffles randomly.
	QuizSeed uint64
	Weights  summarize.Weights
}

// DefaultOptions returns the standard section sizes.
func DefaultOptions() Options {
	return Options{
		SummarySentences: summarize.DefaultMaxSentences,
		KeywordCount:     keywords.DefaultK,
		KeywordStrategy:  keywords.StrategyFrequency,
		FlashcardCount:   flashcard.DefaultMax,
		QuizCount:        quiz.DefaultCount,
		Level:            simplify.B2,
		Weights:          summarize.DefaultWeights(),
	}
}

// Bundle is what the pipeline produces for one text.
type Bundle struct {
	Summary      string           `json:"summary"`
	Simplified   string           `json:"simplified"`
	Keywords     []string         `json:"keywords"`
	Flashcards   []flashcard.Card `json:"flashcards"`
	Quiz         []quiz.Question  `json:"quiz"`
	ReadingLevel simplify.Level   `json:"readingLevel"`
}

// Pipeline runs every stage with one lexicon and one set of options. It holds
// no mutable state and is safe for concurrent use.
type Pipeline struct {
	opts       Options
	extractor  keywords.Extractor
	summarizer summarize.Summarizer
	simplifier simplify.Simplifier
	lex        *lexicon.Lexicon
}

// NewPipeline validates opts and builds a pipeline. A nil lexicon selects the
// default one.
func NewPipeline(lex *lexicon.Lexicon, opts Options) (*Pipeline, error) {
	if lex == nil {
		lex = lexicon.Default()
	}
	ex, err := keywords.New(opts.KeywordStrategy, lex)
	if err != nil {
		return nil, err
	}
	if opts.Level == "" {
		opts.Level = simplify.B2
	}
	if _, err := simplify.ParseLevel(string(opts.Level)); err != nil {
		return nil, err
	}
	return &Pipeline{
		opts:       opts,
		extractor:  ex,
		summarizer: summarize.Summarizer{Lexicon: lex, Keywords: ex, Weights: opts.Weights},
		simplifier: simplify.Simplifier{Lexicon: lex},
		lex:        lex,
	}, nil
}

// Options returns the options the pipeline was built with.
func (p *Pipeline) Options() Options { return p.opts }

// Run produces a bundle at the pipeline's reading level.
func (p *Pipeline) Run(text string) (Bundle, error) {
	return p.RunLevel(text, p.opts.Level)
}

// RunLevel produces a bundle at the given reading level.
func (p *Pipeline) RunLevel(text string, level simplify.Level) (Bundle, error) {
	norm := segment.Normalize(text)
	if norm == "" {
		return Bundle{}, ErrNoText
	}
	if level == "" {
		level = p.opts.Level
	}
	summary := p.summarizer.Summarize(norm, p.opts.SummarySentences)
	terms := keywords.Terms(p.extractor.Extract(norm, p.opts.KeywordCount))

	qb := quiz.Builder{Lexicon: p.lex}
	if p.opts.QuizSeed != 0 {
		qb.Shuffle = quiz.SeededShuffle(p.opts.QuizSeed)
	}
	return Bundle{
		Summary:      summary,
		Simplified:   p.simplifier.SimplifyLevel(summary, level),
		Keywords:     terms,
		Flashcards:   flashcard.Build(norm, terms, p.opts.FlashcardCount),
		Quiz:         qb.Build(norm, terms, p.opts.QuizCount),
		ReadingLevel: level,
	}, nil
}

// Resimplify recomputes the simplified text from an existing summary.
func (p *Pipeline) Resimplify(summary string, level simplify.Level) string {
	return p.simplifier.SimplifyLevel(summary, level)
}
