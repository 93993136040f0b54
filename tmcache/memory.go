package tmcache

import (
	"context"

	"github.com/h5p-tools/h5pkit/engine"
)

// WithMemory wraps a translate function with cache lookups: hits skip
// the engine entirely, misses are translated and recorded. Failed
// calls are never cached.
func WithMemory(tr engine.TranslateFunc, c *Cache, lang string) engine.TranslateFunc {
	if c == nil {
		return tr
	}
	return func(ctx context.Context, text string) (string, error) {
		if out, ok := c.Get(lang, text); ok {
			return out, nil
		}
		out, err := tr(ctx, text)
		if err != nil {
			return "", err
		}
		c.Put(lang, text, out)
		return out, nil
	}
}
