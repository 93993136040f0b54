// Package markup translates HTML fragments while preserving tag
// structure. Round-tripping raw markup through a text translator
// corrupts or drops tags, so fragments are taken apart, their text is
// translated, and the markup is reassembled.
//
// Three strategies are tried in order, each validated before being
// accepted:
//
//  1. element-context: translate the flattened text of each block
//     element as one unit (lossy for inline formatting).
//  2. text-node: translate every text leaf individually, preserving
//     surrounding whitespace.
//  3. flatten-and-resegment: translate the whole plain text and
//     re-wrap it heuristically.
//
// If every strategy fails, the original fragment is returned unchanged
// together with an error the caller can log.
package markup

import (
	"context"
	"fmt"
	"strings"

	"github.com/h5p-tools/h5pkit/chunker"
	"github.com/h5p-tools/h5pkit/engine"
)

// Options holds the segmenter policy knobs. Thresholds are heuristics
// carried over from field experience with MT engines, not tuned
// constants.
type Options struct {
	// MinTextLen is the minimum rendered plain-text length (runes) a
	// candidate must exceed to be accepted. Default: 10.
	MinTextLen int
	// TruncationRatio rejects a translated block shorter than this
	// fraction of the original block text. Default: 0.5.
	TruncationRatio float64
	// ChunkBudget is the per-call character budget used by the
	// flatten strategy. Default: chunker.DefaultBudget.
	ChunkBudget int
	// OnLog emits log messages during segmentation.
	OnLog func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveMinTextLen() int {
	if o.MinTextLen > 0 {
		return o.MinTextLen
	}
	return 10
}

func (o *Options) effectiveTruncationRatio() float64 {
	if o.TruncationRatio > 0 {
		return o.TruncationRatio
	}
	return 0.5
}

func (o *Options) effectiveChunkBudget() int {
	if o.ChunkBudget > 0 {
		return o.ChunkBudget
	}
	return chunker.DefaultBudget
}

// strategy is one fallback tier. All tiers share the same signature
// and the same validator.
type strategy struct {
	name  string
	apply func(ctx context.Context, frag string, tr engine.TranslateFunc) (string, error)
}

// Segmenter translates markup fragments using the ordered strategy
// list.
type Segmenter struct {
	opts       Options
	strategies []strategy
}

// New returns a Segmenter with the three standard strategies.
func New(opts Options) *Segmenter {
	s := &Segmenter{opts: opts}
	s.strategies = []strategy{
		{name: "element-context", apply: s.elementContext},
		{name: "text-node", apply: s.textNode},
		{name: "flatten", apply: s.flatten},
	}
	return s
}

// Translate translates a markup fragment, trying each strategy in
// order until one produces a validated candidate. When all strategies
// fail the original fragment is returned along with the error.
func (s *Segmenter) Translate(ctx context.Context, frag string, tr engine.TranslateFunc) (string, error) {
	var lastErr error
	for _, st := range s.strategies {
		candidate, err := st.apply(ctx, frag, tr)
		if err != nil {
			s.opts.log("[Markup] %s strategy failed: %v", st.name, err)
			lastErr = err
			continue
		}
		if !s.validate(candidate) {
			s.opts.log("[Markup] %s strategy produced degraded output, trying next", st.name)
			lastErr = fmt.Errorf("%s strategy: degraded output", st.name)
			continue
		}
		return candidate, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no strategy produced output")
	}
	return frag, fmt.Errorf("all markup strategies failed: %w", lastErr)
}

// validate is the shared acceptance check: the candidate's rendered
// plain text must be non-empty and exceed the minimum length. This
// catches a parser producing an empty or garbled tree.
func (s *Segmenter) validate(candidate string) bool {
	text := strings.TrimSpace(PlainText(candidate))
	return len([]rune(text)) > s.opts.effectiveMinTextLen()
}
