package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFiles_LaterOverridesEarlier(t *testing.T) {
	t.Setenv("TINYTEACHER_LEVEL", "")
	t.Setenv("TINYTEACHER_QUIZ", "")
	dir := t.TempDir()
	a := filepath.Join(dir, "a.env")
	b := filepath.Join(dir, "b.env")
	if err := os.WriteFile(a, []byte("# defaults\nTINYTEACHER_LEVEL=B2\nTINYTEACHER_QUIZ=3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("TINYTEACHER_LEVEL=\"A2\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnvFiles(a, filepath.Join(dir, "missing.env"), b); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("TINYTEACHER_LEVEL"); got != "A2" {
		t.Fatalf("level = %q", got)
	}
	if got := os.Getenv("TINYTEACHER_QUIZ"); got != "3" {
		t.Fatalf("quiz = %q", got)
	}
}

func TestLoadEnvFiles_NoPaths(t *testing.T) {
	if err := LoadEnvFiles("", "  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
