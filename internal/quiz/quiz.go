// Package quiz turns keywords into fill-in-the-blank multiple choice
// questions.
package quiz

import (
	"math/rand/v2"
	"strings"

	"github.com/hyperifyio/tinyteacher/internal/keywords"
	"github.com/hyperifyio/tinyteacher/internal/lexicon"
	"github.com/hyperifyio/tinyteacher/internal/segment"
)

// Blank replaces the answer in the question stem.
const Blank = "_____"

const (
	// DefaultCount is used when Build is called with n <= 0.
	DefaultCount = 5
	// DefaultPoolSize is how many leading keywords are considered.
	DefaultPoolSize = 12
	// Options is the number of choices per question.
	Options = 4
)

// Question is one multiple choice question. Answer is always one of Options.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// ShuffleFunc permutes n elements through swap, like rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// SeededShuffle returns a deterministic ShuffleFunc.
func SeededShuffle(seed uint64) ShuffleFunc {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.Shuffle
}

// Builder builds quizzes. The zero value uses the default lexicon, an
// unseeded shuffle and DefaultPoolSize.
type Builder struct {
	Lexicon  *lexicon.Lexicon
	Shuffle  ShuffleFunc
	PoolSize int
}

// Build returns at most n questions, one per distinct term, in term order.
// A term is used only when a sentence of text contains it as a whole word;
// that sentence, with the first occurrence blanked, becomes the stem.
// Distractors come from the other terms, preferring ones absent from the
// stem, and then from the most frequent words of text. Terms that cannot get
// three distinct distractors are skipped.
func (b Builder) Build(text string, terms []string, n int) []Question {
	if n <= 0 {
		n = DefaultCount
	}
	poolSize := b.PoolSize
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}
	shuffle := b.Shuffle
	if shuffle == nil {
		shuffle = rand.Shuffle
	}

	sents := segment.Split(text)
	out := []Question{}
	if len(sents) == 0 {
		return out
	}
	pool := dedupe(terms, poolSize)

	var backup []string
	backupWords := func() []string {
		if backup == nil {
			lex := b.Lexicon
			if lex == nil {
				lex = lexicon.Default()
			}
			backup = keywords.Frequencies(segment.Tokenize(text), lex).Ranked()
		}
		return backup
	}

	used := map[string]struct{}{}
	for _, term := range pool {
		if len(out) >= n {
			break
		}
		ft := segment.Fold(term)
		if _, ok := used[ft]; ok {
			continue
		}
		ctx, ok := segment.FindContext(sents, term)
		if !ok {
			continue
		}
		start, end, ok := segment.FindWholeWord(ctx, term)
		if !ok {
			continue
		}
		stem := strings.TrimSpace(ctx[:start] + Blank + ctx[end:])
		if segment.ContainsFold(stem, term) {
			continue
		}

		d := distractors{answer: ft, taken: map[string]struct{}{}}
		for _, k := range pool {
			if !segment.ContainsFold(ctx, k) {
				d.add(k)
			}
		}
		for _, k := range pool {
			d.add(k)
		}
		if !d.full() {
			words := backupWords()
			for _, w := range words {
				if !segment.ContainsWholeWord(ctx, w) {
					d.add(w)
				}
			}
			for _, w := range words {
				d.add(w)
			}
		}
		if !d.full() {
			continue
		}

		opts := append([]string{term}, d.list...)
		shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
		out = append(out, Question{Question: stem, Options: opts, Answer: term})
		used[ft] = struct{}{}
	}
	return out
}

// Build runs the default Builder.
func Build(text string, terms []string, n int) []Question {
	return Builder{}.Build(text, terms, n)
}

type distractors struct {
	answer string
	taken  map[string]struct{}
	list   []string
}

func (d *distractors) full() bool { return len(d.list) >= Options-1 }

func (d *distractors) add(c string) {
	if d.full() {
		return
	}
	fc := segment.Fold(strings.TrimSpace(c))
	if fc == "" || fc == d.answer {
		return
	}
	if _, ok := d.taken[fc]; ok {
		return
	}
	d.taken[fc] = struct{}{}
	d.list = append(d.list, c)
}

func dedupe(terms []string, limit int) []string {
	out := make([]string, 0, min(len(terms), limit))
	seen := map[string]struct{}{}
	for _, t := range terms {
		if len(out) >= limit {
			break
		}
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
