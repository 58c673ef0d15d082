// Package share packs a lesson into a self-contained link: the lesson JSON is
// DEFLATE-compressed and base64url-encoded into a "#lesson=" fragment, so the
// link opens without any server-side storage.
package share

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/hyperifyio/tinyteacher/internal/flashcard"
	"github.com/hyperifyio/tinyteacher/internal/lesson"
	"github.com/hyperifyio/tinyteacher/internal/quiz"
	"github.com/hyperifyio/tinyteacher/internal/simplify"
)

// Fragment precedes the encoded payload in a link.
const Fragment = "#lesson="

// MaxPayloadBytes bounds the decompressed payload.
const MaxPayloadBytes = 1 << 20

// DefaultQRSize is the QR image width and height in pixels.
const DefaultQRSize = 256

// ErrInvalidPayload is returned when a link or fragment cannot be decoded.
var ErrInvalidPayload = errors.New("invalid lesson link")

// Payload is the shared part of a lesson.
type Payload struct {
	Title      string           `json:"title,omitempty"`
	URL        string           `json:"url"`
	SourceText string           `json:"sourceText"`
	Summary    string           `json:"summary"`
	Simple     string           `json:"simple"`
	Cards      []flashcard.Card `json:"cards"`
	Quiz       []quiz.Question  `json:"quiz"`
	Level      simplify.Level   `json:"level,omitempty"`
}

// FromLesson copies the shareable fields of l.
func FromLesson(l lesson.Lesson) Payload {
	return Payload{
		Title:      l.Title,
		URL:        l.SourceURL,
		SourceText: l.SourceText,
		Summary:    l.Summary,
		Simple:     l.Simplified,
		Cards:      l.Flashcards,
		Quiz:       l.Quiz,
		Level:      l.ReadingLevel,
	}
}

// Lesson rebuilds a lesson from p with a fresh id. A missing or unknown level
// becomes B2.
func (p Payload) Lesson(now time.Time) lesson.Lesson {
	level, err := simplify.ParseLevel(string(p.Level))
	if err != nil {
		level = simplify.B2
	}
	l := lesson.New(lesson.Input{Title: p.Title, URL: p.URL, Text: p.SourceText}, lesson.Bundle{
		Summary:      p.Summary,
		Simplified:   p.Simple,
		Flashcards:   p.Cards,
		Quiz:         p.Quiz,
		ReadingLevel: level,
	}, now)
	if l.Flashcards == nil {
		l.Flashcards = []flashcard.Card{}
	}
	if l.Quiz == nil {
		l.Quiz = []quiz.Question{}
	}
	return l
}

// Encode compresses p into the fragment value.
func Encode(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write(raw); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Link returns base with p attached as the fragment. Any fragment already on
// base is replaced.
func Link(base string, p Payload) (string, error) {
	enc, err := Encode(p)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + Fragment + enc, nil
}

// Decode accepts a full link, a "#lesson=..." or "lesson=..." fragment, or
// the bare encoded value.
func Decode(s string) (Payload, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, Fragment); i >= 0 {
		s = s[i+len(Fragment):]
	} else {
		s = strings.TrimPrefix(s, Fragment[1:])
	}
	if s == "" {
		return Payload{}, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	compressed, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	zr := flate.NewReader(bytes.NewReader(compressed))
	defer zr.Close()
	raw, err := io.ReadAll(io.LimitReader(zr, MaxPayloadBytes+1))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(raw) > MaxPayloadBytes {
		return Payload{}, fmt.Errorf("%w: payload too large", ErrInvalidPayload)
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, nil
}

// QRCode renders link as a PNG. When the full link is too long for a QR
// code, a link without the source text is tried before giving up.
func QRCode(base string, p Payload, size int) ([]byte, string, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	link, err := Link(base, p)
	if err != nil {
		return nil, "", err
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err == nil {
		return png, link, nil
	}
	if p.SourceText == "" {
		return nil, "", fmt.Errorf("render qr: %w", err)
	}
	p.SourceText = ""
	if link, err = Link(base, p); err != nil {
		return nil, "", err
	}
	png, err = qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, "", fmt.Errorf("render qr: %w", err)
	}
	return png, link, nil
}
