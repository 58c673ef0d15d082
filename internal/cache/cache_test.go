package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPageCache_SaveLoad(t *testing.T) {
	t.Parallel()
	c := &PageCache{Dir: filepath.Join(t.TempDir(), "pages")}
	ctx := context.Background()
	if err := c.Save(ctx, "https://example.com/a", "text/html", `"v1"`, "", []byte("<p>hi</p>")); err != nil {
		t.Fatalf("save: %v", err)
	}
	meta, err := c.LoadMeta(ctx, "https://example.com/a")
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if meta.ETag != `"v1"` || meta.ContentType != "text/html" {
		t.Fatalf("unexpected meta %+v", meta)
	}
	body, err := c.LoadBody(ctx, "https://example.com/a")
	if err != nil || string(body) != "<p>hi</p>" {
		t.Fatalf("body=%q err=%v", body, err)
	}
	if _, err := c.LoadBody(ctx, "https://example.com/missing"); err == nil {
		t.Fatalf("expected miss")
	}
}

func TestPageCache_StrictPerms(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "http")
	c := &PageCache{Dir: dir, StrictPerms: true}
	url := "https://example.com/x"
	if err := c.Save(context.Background(), url, "text/html", "etag", "", []byte("hello")); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if got := info.Mode() & 0o777; got != 0o700 {
		t.Fatalf("dir mode = %o, want 0700", got)
	}
	key := Key(url)
	for _, f := range []string{filepath.Join(dir, key+".body"), filepath.Join(dir, key+".meta.json")} {
		finfo, err := os.Stat(f)
		if err != nil {
			t.Fatalf("stat %s: %v", f, err)
		}
		if got := finfo.Mode() & 0o777; got != 0o600 {
			t.Fatalf("%s mode = %o, want 0600", f, got)
		}
	}
}

func TestPurgeByAge(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	c := &PageCache{Dir: dir}
	ctx := context.Background()
	if err := c.Save(ctx, "https://old.example", "text/html", "", "", []byte("old")); err != nil {
		t.Fatalf("save old: %v", err)
	}
	if err := c.Save(ctx, "https://new.example", "text/html", "", "", []byte("new")); err != nil {
		t.Fatalf("save new: %v", err)
	}
	// Backdate the first entry.
	metaPath := filepath.Join(dir, Key("https://old.example")+".meta.json")
	e, _ := c.LoadMeta(ctx, "https://old.example")
	e.SavedAt = time.Now().Add(-48 * time.Hour)
	b, _ := json.Marshal(e)
	if err := os.WriteFile(metaPath, b, 0o644); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	removed, err := PurgeByAge(dir, 24*time.Hour)
	if err != nil || removed != 1 {
		t.Fatalf("removed=%d err=%v", removed, err)
	}
	if _, err := c.LoadBody(ctx, "https://old.example"); err == nil {
		t.Fatalf("expected old body removed")
	}
	if _, err := c.LoadBody(ctx, "https://new.example"); err != nil {
		t.Fatalf("new entry removed: %v", err)
	}
	if n, _ := PurgeByAge(dir, 0); n != 0 {
		t.Fatalf("zero max age must keep entries")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "c")
	c := &PageCache{Dir: dir}
	_ = c.Save(context.Background(), "https://a", "text/html", "", "", []byte("x"))
	if err := Clear(dir); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty dir, got %v %v", entries, err)
	}
	if err := Clear("  "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
