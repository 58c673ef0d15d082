package lesson

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hyperifyio/tinyteacher/internal/flashcard"
	"github.com/hyperifyio/tinyteacher/internal/quiz"
	"github.com/hyperifyio/tinyteacher/internal/segment"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
)

// MaxTitleRunes bounds a derived title.
const MaxTitleRunes = 80

// DefaultTitle is used when the summary has no sentences.
const DefaultTitle = "Lesson"

// Lesson is the saved aggregate.
type Lesson struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	SourceURL    string           `json:"sourceUrl,omitempty"`
	SourceText   string           `json:"sourceText"`
	Summary      string           `json:"summary"`
	Simplified   string           `json:"simplified"`
	Flashcards   []flashcard.Card `json:"flashcards"`
	Quiz         []quiz.Question  `json:"quiz"`
	ReadingLevel simplify.Level   `json:"readingLevel"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// Input is the resolved source of a lesson. An empty Level selects the
// pipeline's level.
type Input struct {
	Title string
	URL   string
	Text  string
	Level simplify.Level
}

type idSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

var ids = &idSource{entropy: ulid.Monotonic(rand.Reader, 0)}

func (s *idSource) next(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// NewID returns a time-ordered lesson id.
func NewID(t time.Time) string { return ids.next(t) }

// New assembles a lesson from its input and bundle. The title comes from in
// when set, otherwise from the summary.
func New(in Input, b Bundle, now time.Time) Lesson {
	title := in.Title
	if title == "" {
		title = Title(b.Summary)
	} else {
		title = truncateRunes(segment.Normalize(title), MaxTitleRunes)
	}
	return Lesson{
		ID:           NewID(now),
		Title:        title,
		SourceURL:    in.URL,
		SourceText:   segment.Normalize(in.Text),
		Summary:      b.Summary,
		Simplified:   b.Simplified,
		Flashcards:   b.Flashcards,
		Quiz:         b.Quiz,
		ReadingLevel: b.ReadingLevel,
		CreatedAt:    now.UTC(),
	}
}

// Title derives a lesson title from the first sentence of summary.
func Title(summary string) string {
	sents := segment.Split(summary)
	if len(sents) == 0 {
		return DefaultTitle
	}
	return truncateRunes(sents[0], MaxTitleRunes)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
