// Package export renders lessons for printing and download.
package export

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/tinyteacher/internal/lesson"
)

// Markdown renders l as a printable Markdown document: summary, simplified
// text, flashcards, the quiz with lettered options and an answer key.
func Markdown(l lesson.Lesson) string {
	var b strings.Builder
	title := strings.TrimSpace(l.Title)
	if title == "" {
		title = lesson.DefaultTitle
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if l.SourceURL != "" {
		fmt.Fprintf(&b, "Source: [%s](%s)\n\n", l.SourceURL, l.SourceURL)
	}
	if !l.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Created: %s\n\n", l.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	}

	section(&b, "Summary", l.Summary)
	heading := "Simplified"
	if l.ReadingLevel != "" {
		heading = fmt.Sprintf("Simplified (%s)", l.ReadingLevel)
	}
	section(&b, heading, l.Simplified)

	if len(l.Flashcards) > 0 {
		b.WriteString("## Flashcards\n\n")
		for _, c := range l.Flashcards {
			fmt.Fprintf(&b, "- **%s**: %s\n", c.Term, c.Definition)
		}
		b.WriteString("\n")
	}

	if len(l.Quiz) > 0 {
		b.WriteString("## Quiz\n\n")
		for i, q := range l.Quiz {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
			for j, o := range q.Options {
				fmt.Fprintf(&b, "   - %s) %s\n", letter(j), o)
			}
		}
		b.WriteString("\n## Answer key\n\n")
		for i, q := range l.Quiz {
			fmt.Fprintf(&b, "%d. %s) %s\n", i+1, letter(indexOf(q.Options, q.Answer)), q.Answer)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, heading, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", heading, strings.TrimSpace(body))
}

func letter(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

func indexOf(opts []string, s string) int {
	for i, o := range opts {
		if o == s {
			return i
		}
	}
	return -1
}
