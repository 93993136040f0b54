// Package tmcache implements a persistent translation memory: MD5
// checksums of source strings mapped to their translations per target
// language. Re-running a translation reuses cached results instead of
// paying for identical engine calls again.
//
// The cache lives under the user cache directory as h5pkit/memory.yaml
// unless an explicit path is given.
package tmcache

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Version is the cache file format version.
const Version = 1

// Cache is the on-disk translation memory. Safe for concurrent use.
type Cache struct {
	Version int                          `yaml:"version"`
	Entries map[string]map[string]string `yaml:"entries"` // lang -> checksum -> translation

	mu    sync.Mutex `yaml:"-"`
	path  string     `yaml:"-"`
	dirty bool       `yaml:"-"`
}

// DefaultPath returns the per-user cache file location.
func DefaultPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(base, "h5pkit", "memory.yaml"), nil
}

// Load reads the cache at path. A missing file yields an empty cache
// bound to that path.
func Load(path string) (*Cache, error) {
	c := &Cache{
		Version: Version,
		Entries: make(map[string]map[string]string),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	c.path = path
	if c.Entries == nil {
		c.Entries = make(map[string]map[string]string)
	}
	return c, nil
}

// Save writes the cache back to its path, creating parent directories
// as needed. A no-op when nothing changed since Load.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	if c.path == "" {
		return fmt.Errorf("cache path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", c.path, err)
	}
	c.dirty = false
	return nil
}

// Key returns the checksum used to index a source string.
func Key(text string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(text)))
}

// Get looks up the cached translation of text into lang.
func (c *Cache) Get(lang, text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byLang, ok := c.Entries[lang]
	if !ok {
		return "", false
	}
	out, ok := byLang[Key(text)]
	return out, ok
}

// Put records a translation of text into lang.
func (c *Cache) Put(lang, text, translation string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	byLang, ok := c.Entries[lang]
	if !ok {
		byLang = make(map[string]string)
		c.Entries[lang] = byLang
	}
	byLang[Key(text)] = translation
	c.dirty = true
}

// Stats returns the number of languages and total cached entries.
func (c *Cache) Stats() (langs, entries int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, byLang := range c.Entries {
		entries += len(byLang)
	}
	return len(c.Entries), entries
}
