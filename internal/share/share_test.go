package share

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/tinyteacher/internal/flashcard"
	"github.com/hyperifyio/tinyteacher/internal/quiz"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
)

func samplePayload() Payload {
	return Payload{
		Title:      "Volcanoes",
		URL:        "https://example.com/volcanoes",
		SourceText: "Volcanoes form where magma reaches the surface. Magma cools into basalt.",
		Summary:    "Volcanoes form where magma reaches the surface.",
		Simple:     "Volcanoes form where magma reaches the surface.",
		Cards:      []flashcard.Card{{Term: "magma", Definition: "Magma cools into basalt."}},
		Quiz: []quiz.Question{{
			Question: "Volcanoes form where _____ reaches the surface.",
			Options:  []string{"basalt", "magma", "surface", "volcanoes"},
			Answer:   "magma",
		}},
		Level: simplify.B2,
	}
}

func TestLinkDecode_RoundTrip(t *testing.T) {
	p := samplePayload()
	link, err := Link("https://teach.example/app/#old", p)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if !strings.HasPrefix(link, "https://teach.example/app/"+Fragment) {
		t.Fatalf("unexpected link %q", link)
	}
	enc := strings.TrimPrefix(link, "https://teach.example/app/"+Fragment)
	if strings.ContainsAny(enc, "+/=") {
		t.Fatalf("fragment is not url-safe: %q", enc)
	}
	for _, in := range []string{link, Fragment + enc, "lesson=" + enc, enc} {
		got, err := Decode(in)
		if err != nil {
			t.Fatalf("Decode(%q): %v", in, err)
		}
		if !reflect.DeepEqual(got, p) {
			t.Fatalf("payload mismatch:\n%+v\n%+v", got, p)
		}
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, in := range []string{"", "https://x/#lesson=", "!!!notbase64", "aGVsbG8"} {
		if _, err := Decode(in); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("Decode(%q) err=%v", in, err)
		}
	}
}

func TestPayload_Lesson(t *testing.T) {
	l := samplePayload().Lesson(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if l.ID == "" || l.Title != "Volcanoes" || l.SourceURL != "https://example.com/volcanoes" {
		t.Fatalf("unexpected lesson %+v", l)
	}
	if len(l.Quiz) != 1 || l.ReadingLevel != simplify.B2 {
		t.Fatalf("sections not copied: %+v", l)
	}
	if back := FromLesson(l); !reflect.DeepEqual(back, samplePayload()) {
		t.Fatalf("FromLesson mismatch: %+v", back)
	}
}

func TestPayload_LessonNormalizesLevel(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for in, want := range map[simplify.Level]simplify.Level{"a2": simplify.A2, "Z9": simplify.B2, "": simplify.B2} {
		p := samplePayload()
		p.Level = in
		if got := p.Lesson(now).ReadingLevel; got != want {
			t.Fatalf("level %q: got %q want %q", in, got, want)
		}
	}
}

func TestQRCode(t *testing.T) {
	png, link, err := QRCode("https://teach.example/", samplePayload(), 0)
	if err != nil {
		t.Fatalf("QRCode: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("not a PNG")
	}
	if _, err := Decode(link); err != nil {
		t.Fatalf("QR link does not decode: %v", err)
	}
}

func TestQRCode_DropsSourceTextWhenTooLong(t *testing.T) {
	p := samplePayload()
	r := rand.New(rand.NewPCG(1, 2))
	var b strings.Builder
	for b.Len() < 20000 {
		b.WriteByte(byte('a' + r.IntN(26)))
	}
	p.SourceText = b.String()
	_, link, err := QRCode("https://teach.example/", p, 0)
	if err != nil {
		t.Fatalf("QRCode: %v", err)
	}
	got, err := Decode(link)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SourceText != "" || got.Summary != p.Summary {
		t.Fatalf("expected compact payload, got %+v", got)
	}
}
