package tmcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.yaml")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load (missing file) error: %v", err)
	}
	c.Put("de", "Hello", "Hallo")
	c.Put("de", "World", "Welt")
	c.Put("fr", "Hello", "Bonjour")
	if err := c.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got, ok := reloaded.Get("de", "Hello"); !ok || got != "Hallo" {
		t.Errorf("Get(de, Hello) = %q, %v", got, ok)
	}
	if got, ok := reloaded.Get("fr", "Hello"); !ok || got != "Bonjour" {
		t.Errorf("Get(fr, Hello) = %q, %v", got, ok)
	}
	if _, ok := reloaded.Get("de", "Missing"); ok {
		t.Error("Get returned a hit for an unknown string")
	}

	langs, entries := reloaded.Stats()
	if langs != 2 || entries != 3 {
		t.Errorf("Stats = %d langs, %d entries; want 2, 3", langs, entries)
	}
}

func TestSave_NoopWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "memory.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := c.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	// no Put happened, so the parent directory must not even exist
	if _, err := Load(path); err != nil {
		t.Fatalf("reload error: %v", err)
	}
}

func TestWithMemory(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "memory.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	calls := 0
	tr := WithMemory(func(ctx context.Context, text string) (string, error) {
		calls++
		if text == "boom" {
			return "", errors.New("engine failure")
		}
		return "übersetzt: " + text, nil
	}, c, "de")

	out, err := tr(context.Background(), "Hello")
	if err != nil || out != "übersetzt: Hello" {
		t.Fatalf("first call = %q, %v", out, err)
	}
	out, err = tr(context.Background(), "Hello")
	if err != nil || out != "übersetzt: Hello" {
		t.Fatalf("second call = %q, %v", out, err)
	}
	if calls != 1 {
		t.Errorf("engine called %d times, want 1", calls)
	}

	if _, err := tr(context.Background(), "boom"); err == nil {
		t.Fatal("expected engine failure to propagate")
	}
	if _, ok := c.Get("de", "boom"); ok {
		t.Error("failed call was cached")
	}
}
