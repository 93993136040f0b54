// Package config loads the optional project configuration file
// .h5pkit.yaml. Everything in it has a working default; the file
// exists so repeated invocations in a course repository do not need a
// wall of flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/h5p-tools/h5pkit/walker"
)

// FileName is the configuration file name searched for by Find.
const FileName = ".h5pkit.yaml"

// File is the parsed .h5pkit.yaml.
type File struct {
	// Languages are the default target languages.
	Languages []string `yaml:"languages"`
	// SourceLang is the source language of the packages.
	SourceLang string `yaml:"source_lang"`
	// Provider, Model, BaseURL select the translation backend.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	// SystemPrompt overrides the built-in translation prompt.
	SystemPrompt string `yaml:"system_prompt"`
	// ChunkBudget is the per-call character budget.
	ChunkBudget int `yaml:"chunk_budget"`
	// MinTextLen, MinViableLen, TruncationRatio tune the quality
	// gates.
	MinTextLen      int     `yaml:"min_text_len"`
	MinViableLen    int     `yaml:"min_viable_len"`
	TruncationRatio float64 `yaml:"truncation_ratio"`
	// ExtraKeys extends the translatable key set.
	ExtraKeys []string `yaml:"extra_keys"`
	// Cache toggles the translation memory. Defaults to on.
	Cache *bool `yaml:"cache"`
	// Jobs is the parallel job limit for batch runs.
	Jobs int `yaml:"jobs"`
}

// Default returns the configuration used when no file exists.
func Default() *File {
	return &File{
		SourceLang: "en",
		Provider:   "openai",
		Jobs:       1,
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f := Default()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if f.SourceLang == "" {
		f.SourceLang = "en"
	}
	if f.Jobs < 1 {
		f.Jobs = 1
	}
	return f, nil
}

// Find searches dir and its parents for the configuration file.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Policy builds the walker policy with the file's overrides applied.
func (f *File) Policy() walker.Policy {
	p := walker.DefaultPolicy()
	if len(f.ExtraKeys) > 0 {
		p = p.WithExtraKeys(f.ExtraKeys)
	}
	if f.MinViableLen > 0 {
		p.MinViableLen = f.MinViableLen
	}
	return p
}

// CacheEnabled reports whether the translation memory should be used.
func (f *File) CacheEnabled() bool {
	if f.Cache == nil {
		return true
	}
	return *f.Cache
}
