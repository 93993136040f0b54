// Package walker implements the structured-document translation
// walker: it classifies which fields of an H5P content document carry
// human-readable text, traverses the tree depth-first in document
// order, and rewrites translatable leaves in place via the chunker
// (plain text) or the markup segmenter (HTML fragments).
package walker

import (
	"strings"

	"github.com/h5p-tools/h5pkit/document"
)

// Action is the classification outcome for one (key, value, path)
// triple.
type Action int

const (
	// ActionSkip leaves the value untouched.
	ActionSkip Action = iota
	// ActionTranslatePlain sends the string through the text chunker.
	ActionTranslatePlain
	// ActionTranslateMarkup sends the string through the markup segmenter.
	ActionTranslateMarkup
	// ActionRecurse descends into a container value.
	ActionRecurse
)

// Policy holds the field-classification heuristics as data. The
// defaults mirror what H5P content types actually use; all of it is
// overridable from configuration.
type Policy struct {
	// TranslatableKeys are the key names recognized as carrying
	// human-readable content.
	TranslatableKeys map[string]bool
	// AnswerListKey names the array whose elements carry their own
	// answer text field.
	AnswerListKey string
	// AnswerTextKey is the text field inside answer elements.
	AnswerTextKey string
	// QuestionListKey names the array whose elements are full
	// sub-documents.
	QuestionListKey string
	// MarkupOpen, MarkupClose, MarkupCloseTag drive the has-markup
	// check: a string containing MarkupOpen and either close marker is
	// treated as an HTML fragment.
	MarkupOpen     string
	MarkupClose    string
	MarkupCloseTag string
	// MinViableLen is the quality gate: a translation whose trimmed
	// length (runes) is below this keeps the original value. Default: 3.
	MinViableLen int
}

// DefaultTranslatableKeys returns the standard H5P key set.
func DefaultTranslatableKeys() map[string]bool {
	return map[string]bool{
		"text":               true,
		"title":              true,
		"alt":                true,
		"label":              true,
		"question":           true,
		"header":             true,
		"body":               true,
		"contentName":        true,
		"checkAnswerButton":  true,
		"submitAnswerButton": true,
		"showSolutionButton": true,
		"a11yCheck":          true,
		"a11yShowSolution":   true,
		"a11yRetry":          true,
		"feedbackOnWrong":    true,
	}
}

// DefaultPolicy returns the standard classification policy.
func DefaultPolicy() Policy {
	return Policy{
		TranslatableKeys: DefaultTranslatableKeys(),
		AnswerListKey:    "answers",
		AnswerTextKey:    "text",
		QuestionListKey:  "questions",
		MarkupOpen:       "<",
		MarkupClose:      ">",
		MarkupCloseTag:   "</",
		MinViableLen:     3,
	}
}

// WithExtraKeys returns a copy of the policy with additional
// translatable key names.
func (p Policy) WithExtraKeys(keys []string) Policy {
	merged := make(map[string]bool, len(p.TranslatableKeys)+len(keys))
	for k, v := range p.TranslatableKeys {
		merged[k] = v
	}
	for _, k := range keys {
		merged[k] = true
	}
	p.TranslatableKeys = merged
	return p
}

// Translatable reports whether a key is in the translatable set.
func (p Policy) Translatable(key string) bool {
	return p.TranslatableKeys[key]
}

// HasMarkup reports whether a string looks like an HTML fragment.
// A substring heuristic, deliberately: real H5P text fields either
// contain tags or contain no angle brackets at all.
func (p Policy) HasMarkup(s string) bool {
	if !strings.Contains(s, p.MarkupOpen) {
		return false
	}
	return strings.Contains(s, p.MarkupCloseTag) || strings.Contains(s, p.MarkupClose)
}

func (p Policy) effectiveMinViableLen() int {
	if p.MinViableLen > 0 {
		return p.MinViableLen
	}
	return 3
}

// Classify decides what to do with a (key, value, path) triple. Skip
// still allows the walker to recurse into containers reachable from
// this node; Recurse is returned for containers so either traversal
// order produces the same net result, with the visited set as the
// correctness mechanism.
func (p Policy) Classify(key string, n *document.Node, path document.Path, visited *document.VisitedSet) Action {
	if n == nil {
		return ActionSkip
	}
	switch n.Kind {
	case document.KindMapping, document.KindSequence:
		return ActionRecurse
	case document.KindString:
		// fallthrough to the string rules below
	default:
		return ActionSkip
	}

	if !p.Translatable(key) {
		return ActionSkip
	}
	if visited != nil && visited.Has(path) {
		return ActionSkip
	}
	if strings.TrimSpace(n.Str) == "" {
		return ActionSkip
	}
	if p.HasMarkup(n.Str) {
		return ActionTranslateMarkup
	}
	return ActionTranslatePlain
}
