package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_AppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := []byte(`
languages: [de, fr]
source_lang: en
provider: ollama
model: qwen2.5
chunk_budget: 400
min_viable_len: 5
extra_keys: [caption, hint]
cache: false
jobs: 4
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(f.Languages) != 2 || f.Languages[0] != "de" {
		t.Errorf("Languages = %v", f.Languages)
	}
	if f.Provider != "ollama" || f.Model != "qwen2.5" {
		t.Errorf("backend = %s/%s", f.Provider, f.Model)
	}
	if f.ChunkBudget != 400 || f.Jobs != 4 {
		t.Errorf("budget/jobs = %d/%d", f.ChunkBudget, f.Jobs)
	}
	if f.CacheEnabled() {
		t.Error("cache: false not honored")
	}

	p := f.Policy()
	if !p.Translatable("caption") || !p.Translatable("hint") {
		t.Error("extra keys not applied to policy")
	}
	if !p.Translatable("text") {
		t.Error("default keys lost")
	}
	if p.MinViableLen != 5 {
		t.Errorf("MinViableLen = %d, want 5", p.MinViableLen)
	}
}

func TestDefault(t *testing.T) {
	f := Default()
	if f.SourceLang != "en" || f.Provider != "openai" || f.Jobs != 1 {
		t.Errorf("unexpected defaults: %+v", f)
	}
	if !f.CacheEnabled() {
		t.Error("cache should default to enabled")
	}
	if !f.Policy().Translatable("title") {
		t.Error("default policy missing standard keys")
	}
}

func TestFind_WalksUpToParent(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, FileName)
	if err := os.WriteFile(cfgPath, []byte("languages: [de]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, ok := Find(nested)
	if !ok || found != cfgPath {
		t.Errorf("Find = %q, %v; want %q", found, ok, cfgPath)
	}

	if _, ok := Find(filepath.Join(t.TempDir())); ok {
		t.Error("Find reported a config in an empty tree")
	}
}
