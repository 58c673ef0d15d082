package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_FoldsPolishStopwords(t *testing.T) {
	lex := Default()
	for _, w := range []string{"the", "which", "ze", "sa", "sie", "miedzy", "ktora"} {
		if !lex.IsStop(w) {
			t.Fatalf("expected %q to be a stop word", w)
		}
	}
	if lex.IsStop("river") {
		t.Fatalf("content word flagged as stop word")
	}
	if got := lex.Languages(); len(got) != 2 || got[0] != "en" || got[1] != "pl" {
		t.Fatalf("Languages=%v", got)
	}
}

func TestDefault_IsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatalf("expected a single default lexicon")
	}
}

func TestSubstitutions_ReturnsCopy(t *testing.T) {
	lex := Default()
	subs := lex.Substitutions()
	subs[0].To = "mutated"
	if lex.Substitutions()[0].To == "mutated" {
		t.Fatalf("substitution table must not be mutable through the accessor")
	}
}

func TestLoad_MergesOverlay(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "lexicon.yaml")
	content := "stopwords:\n  de: [der, die, das]\nsubstitutions:\n  - {from: utilize, to: employ}\n  - {from: commence, to: start}\n"
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	lex, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !lex.IsStop("der") || !lex.IsStop("the") {
		t.Fatalf("expected both default and overlay stop words")
	}
	subs := lex.Substitutions()
	if subs[0].From != "utilize" || subs[0].To != "employ" {
		t.Fatalf("expected overlay to replace utilize, got %+v", subs[0])
	}
	if last := subs[len(subs)-1]; last.From != "commence" || last.To != "start" {
		t.Fatalf("expected new substitution appended, got %+v", last)
	}
	if Default().Substitutions()[0].To != "use" {
		t.Fatalf("merge must not modify the default lexicon")
	}
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	lex, err := Load("")
	if err != nil || lex != Default() {
		t.Fatalf("expected default lexicon, got %v %v", lex, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing overlay")
	}
}
