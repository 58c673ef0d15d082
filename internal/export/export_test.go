package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/tinyteacher/internal/flashcard"
	"github.com/hyperifyio/tinyteacher/internal/lesson"
	"github.com/hyperifyio/tinyteacher/internal/quiz"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
)

func sampleLesson() lesson.Lesson {
	return lesson.Lesson{
		ID:           "01HX",
		Title:        "Rzeki niosą osady.",
		SourceURL:    "https://example.com/rivers",
		Summary:      "Rzeki niosą osady. Delta rośnie.",
		Simplified:   "Rzeki niosą osady.",
		Flashcards:   []flashcard.Card{{Term: "osady", Definition: "Rzeki niosą osady."}},
		Quiz:         []quiz.Question{{Question: "Rzeki niosą _____.", Options: []string{"delta", "osady", "rzeki", "rośnie"}, Answer: "osady"}},
		ReadingLevel: simplify.A2,
		CreatedAt:    time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC),
	}
}

func TestMarkdown_Sections(t *testing.T) {
	md := Markdown(sampleLesson())
	for _, want := range []string{
		"# Rzeki niosą osady.\n",
		"Source: [https://example.com/rivers](https://example.com/rivers)",
		"Created: 2025-04-02 10:30 UTC",
		"## Summary\n\nRzeki niosą osady. Delta rośnie.",
		"## Simplified (A2)\n\nRzeki niosą osady.",
		"- **osady**: Rzeki niosą osady.",
		"1. Rzeki niosą _____.\n   - A) delta\n   - B) osady",
		"## Answer key\n\n1. B) osady",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdown_EmptyLessonHasTitle(t *testing.T) {
	md := Markdown(lesson.Lesson{})
	if md != "# Lesson\n" {
		t.Fatalf("got %q", md)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, Markdown(sampleLesson())); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestLatinSafe(t *testing.T) {
	if got := latinSafe("Zażółć gęślą jaźń … é"); got != "Zazólc gesla jazn … é" {
		t.Fatalf("got %q", got)
	}
}
