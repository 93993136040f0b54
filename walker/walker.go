package walker

import (
	"context"
	"fmt"
	"strings"

	"github.com/h5p-tools/h5pkit/chunker"
	"github.com/h5p-tools/h5pkit/document"
	"github.com/h5p-tools/h5pkit/engine"
	"github.com/h5p-tools/h5pkit/markup"
)

// Stats summarizes one walker run.
type Stats struct {
	// Translated counts leaves whose value was rewritten (including
	// translations identical to the input).
	Translated int
	// Skipped counts string leaves the classifier passed over.
	Skipped int
	// Rejected counts leaves whose translation failed the quality gate
	// and kept the original value.
	Rejected int
	// Failed counts leaves where the engine or segmenter errored; the
	// original value is kept and the walk continues.
	Failed int
}

// Summary renders the stats for end-of-run logging.
func (s Stats) Summary() string {
	return fmt.Sprintf("%d translated, %d skipped, %d rejected, %d failed",
		s.Translated, s.Skipped, s.Rejected, s.Failed)
}

// Options configures a Walker.
type Options struct {
	// Policy is the field-classification policy. Zero value means
	// DefaultPolicy.
	Policy Policy
	// ChunkBudget is the per-call character budget for plain-text
	// leaves. Default: chunker.DefaultBudget.
	ChunkBudget int
	// Markup configures the fragment segmenter.
	Markup markup.Options
	// OnLog emits per-leaf decision messages.
	OnLog func(format string, args ...any)
}

// Walker traverses a content document depth-first in document order
// and translates every leaf the policy classifies as human-readable.
// A Walker is not safe for concurrent use; each Run resets its
// visited set and stats.
type Walker struct {
	tr      engine.TranslateFunc
	policy  Policy
	budget  int
	seg     *markup.Segmenter
	onLog   func(format string, args ...any)
	visited *document.VisitedSet
	stats   Stats
}

// New returns a Walker that rewrites leaves via tr.
func New(tr engine.TranslateFunc, opts Options) *Walker {
	policy := opts.Policy
	if policy.TranslatableKeys == nil {
		policy = DefaultPolicy()
	}
	budget := opts.ChunkBudget
	if budget <= 0 {
		budget = chunker.DefaultBudget
	}
	mopts := opts.Markup
	if mopts.OnLog == nil {
		mopts.OnLog = opts.OnLog
	}
	if mopts.ChunkBudget <= 0 {
		mopts.ChunkBudget = budget
	}
	return &Walker{
		tr:     tr,
		policy: policy,
		budget: budget,
		seg:    markup.New(mopts),
		onLog:  opts.OnLog,
	}
}

func (w *Walker) logf(format string, args ...any) {
	if w.onLog != nil {
		w.onLog(format, args...)
	}
}

// Visited returns the paths attempted during the last Run.
func (w *Walker) Visited() *document.VisitedSet {
	return w.visited
}

// Run walks doc and translates its translatable leaves in place.
// Engine failures on individual leaves are tolerated (the leaf keeps
// its original value); only context cancellation aborts the walk.
func (w *Walker) Run(ctx context.Context, doc *document.Node) (Stats, error) {
	w.visited = document.NewVisitedSet()
	w.stats = Stats{}
	err := w.walkNode(ctx, doc, document.Root(), false)
	return w.stats, err
}

// walkNode dispatches on node kind. bareStrings marks a sequence whose
// own key is translatable, so its direct string elements are
// translated too.
func (w *Walker) walkNode(ctx context.Context, n *document.Node, path document.Path, bareStrings bool) error {
	switch n.Kind {
	case document.KindMapping:
		return w.walkMapping(ctx, n, path)
	case document.KindSequence:
		return w.walkSequence(ctx, n, path, bareStrings)
	default:
		return nil
	}
}

func (w *Walker) walkMapping(ctx context.Context, n *document.Node, path document.Path) error {
	for _, key := range n.Keys() {
		child, ok := n.Get(key)
		if !ok || child == nil {
			continue
		}
		childPath := path.Child(key)

		if key == w.policy.AnswerListKey && child.Kind == document.KindSequence {
			if err := w.walkAnswers(ctx, child, childPath); err != nil {
				return err
			}
			continue
		}
		if key == w.policy.QuestionListKey && child.Kind == document.KindSequence {
			for i, item := range child.Items {
				if err := w.walkNode(ctx, item, childPath.At(i), false); err != nil {
					return err
				}
			}
			continue
		}

		switch w.policy.Classify(key, child, childPath, w.visited) {
		case ActionTranslatePlain:
			if err := w.translateLeaf(ctx, child, childPath, false); err != nil {
				return err
			}
		case ActionTranslateMarkup:
			if err := w.translateLeaf(ctx, child, childPath, true); err != nil {
				return err
			}
		case ActionRecurse:
			if err := w.walkNode(ctx, child, childPath, w.policy.Translatable(key)); err != nil {
				return err
			}
		case ActionSkip:
			if child.Kind == document.KindString {
				w.stats.Skipped++
			}
		}
	}
	return nil
}

// walkAnswers handles the answers array: each element's own text field
// is translated directly (with full markup dispatch), then the element
// is recursed as a regular sub-document. The visited set keeps the
// recursion from touching the text field a second time.
func (w *Walker) walkAnswers(ctx context.Context, n *document.Node, path document.Path) error {
	for i, item := range n.Items {
		itemPath := path.At(i)
		if item.Kind == document.KindMapping {
			if text, ok := item.Get(w.policy.AnswerTextKey); ok && text != nil && text.Kind == document.KindString {
				textPath := itemPath.Child(w.policy.AnswerTextKey)
				if !w.visited.Has(textPath) && strings.TrimSpace(text.Str) != "" {
					if err := w.translateLeaf(ctx, text, textPath, w.policy.HasMarkup(text.Str)); err != nil {
						return err
					}
				}
			}
		}
		if err := w.walkNode(ctx, item, itemPath, false); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) walkSequence(ctx context.Context, n *document.Node, path document.Path, bareStrings bool) error {
	for i, item := range n.Items {
		itemPath := path.At(i)
		switch item.Kind {
		case document.KindMapping, document.KindSequence:
			if err := w.walkNode(ctx, item, itemPath, bareStrings); err != nil {
				return err
			}
		case document.KindString:
			if !bareStrings {
				continue
			}
			if w.visited.Has(itemPath) || strings.TrimSpace(item.Str) == "" {
				w.stats.Skipped++
				continue
			}
			if err := w.translateLeaf(ctx, item, itemPath, w.policy.HasMarkup(item.Str)); err != nil {
				return err
			}
		}
	}
	return nil
}

// translateLeaf rewrites one string leaf in place. The path is marked
// visited whatever the outcome, so a leaf is attempted at most once
// per run. Context errors abort the walk; engine errors keep the
// original value and continue.
func (w *Walker) translateLeaf(ctx context.Context, n *document.Node, path document.Path, isMarkup bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.visited.Add(path)

	orig := n.Str
	var out string
	var err error
	if isMarkup {
		out, err = w.seg.Translate(ctx, orig, w.tr)
	} else {
		out, err = chunker.Translate(ctx, orig, w.budget, w.tr)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.stats.Failed++
		w.logf("[WARN] %s left untranslated: %v", path, err)
		return nil
	}

	// near-empty output from a long input means the engine degraded;
	// a short input legitimately yields short output
	min := w.policy.effectiveMinViableLen()
	trimmed := strings.TrimSpace(out)
	if len([]rune(trimmed)) < min && len([]rune(strings.TrimSpace(orig))) >= min {
		w.stats.Rejected++
		w.logf("[WARN] %s: translation too short (%q), keeping original", path, trimmed)
		return nil
	}

	if out == orig {
		w.logf("[Leaf] %s unchanged by engine", path)
	} else {
		w.logf("[Leaf] %s: %s → %s", path, snippet(orig), snippet(out))
	}
	n.Str = out
	w.stats.Translated++
	return nil
}

// snippet compacts a value for log output.
func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return s
}
