// Package chunker translates plain text that may exceed the
// translation engine's reliable input-length budget. Long text is
// split on sentence boundaries, each chunk is translated
// independently, and the results are re-joined in order.
package chunker

import (
	"context"
	"strings"

	"github.com/h5p-tools/h5pkit/engine"
)

// DefaultBudget is the default per-call character budget. Engines tend
// to truncate or degrade on longer inputs.
const DefaultBudget = 600

// Translate translates text, chunking it when it exceeds budget.
// A budget of 0 or less means no limit. Chunks are translated in
// document order and joined with a single space; anything else would
// scramble meaning.
func Translate(ctx context.Context, text string, budget int, tr engine.TranslateFunc) (string, error) {
	if budget <= 0 || len([]rune(text)) <= budget {
		return tr(ctx, text)
	}

	chunks := Split(text, budget)
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		out, err := tr(ctx, chunk)
		if err != nil {
			return "", err
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, " "), nil
}

// Split segments text into sentence-bounded chunks of at most budget
// characters (runes). Sentences are greedily accumulated; a single
// sentence longer than the budget becomes its own chunk, untruncated.
// Engine-side truncation beats dropping content.
func Split(text string, budget int) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var buf string
	for _, sentence := range sentences {
		if buf == "" {
			buf = sentence
			continue
		}
		candidate := buf + " " + sentence
		if len([]rune(candidate)) > budget {
			chunks = append(chunks, buf)
			buf = sentence
			continue
		}
		buf = candidate
	}
	if buf != "" {
		chunks = append(chunks, buf)
	}
	return chunks
}

// splitSentences splits text on sentence-terminal punctuation,
// retaining the punctuation with its preceding sentence.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}
