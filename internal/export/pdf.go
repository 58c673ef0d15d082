package export

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/unicode/norm"
)

var (
	linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// WritePDF renders Markdown produced by Markdown as a simple A4 PDF:
// headings, paragraphs, list items and clickable links.
func WritePDF(w io.Writer, markdown string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(latinSafe(s)) }

	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(3)
			continue
		}
		if strings.HasPrefix(s, "#") {
			level := 0
			for level < len(s) && s[level] == '#' {
				level++
			}
			h := strings.TrimSpace(s[level:])
			if h == "" {
				continue
			}
			size := 16.0
			if level >= 2 {
				size = 13.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 8, text(h), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		indent := 0.0
		if strings.HasPrefix(s, "- ") {
			s = "• " + strings.TrimPrefix(s, "- ")
			if strings.HasPrefix(scanner.Text(), "   ") {
				indent = 8
			}
		}
		s = boldRe.ReplaceAllString(s, "$1")
		if indent > 0 {
			pdf.SetX(pdf.GetX() + indent)
		}
		parts := linkRe.FindAllStringSubmatchIndex(s, -1)
		if len(parts) == 0 {
			pdf.MultiCell(0, 5.5, text(s), "", "L", false)
			continue
		}
		pos := 0
		for _, m := range parts {
			if m[0] > pos {
				pdf.Write(5.5, text(s[pos:m[0]]))
			}
			pdf.WriteLinkString(5.5, text(s[m[2]:m[3]]), s[m[4]:m[5]])
			pos = m[1]
		}
		if pos < len(s) {
			pdf.Write(5.5, text(s[pos:]))
		}
		pdf.Ln(6)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// cp1252 punctuation outside Latin-1 that the core fonts can draw.
var cp1252Extras = map[rune]bool{
	'€': true, '‚': true, 'ƒ': true, '„': true, '…': true, '†': true, '‡': true,
	'ˆ': true, '‰': true, 'Š': true, '‹': true, 'Œ': true, 'Ž': true, '‘': true,
	'’': true, '“': true, '”': true, '•': true, '–': true, '—': true, '˜': true,
	'™': true, 'š': true, '›': true, 'œ': true, 'ž': true, 'Ÿ': true,
}

// latinSafe replaces runes the core PDF fonts cannot draw with their base
// letter (ą → a, ł → l) or '?'.
func latinSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= 0xFF || cp1252Extras[r] {
			return r
		}
		switch r {
		case 'ł':
			return 'l'
		case 'Ł':
			return 'L'
		}
		for _, d := range norm.NFD.String(string(r)) {
			if !unicode.Is(unicode.Mn, d) && d <= 0xFF {
				return d
			}
		}
		return '?'
	}, s)
}
