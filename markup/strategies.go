package markup

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/h5p-tools/h5pkit/chunker"
	"github.com/h5p-tools/h5pkit/engine"
)

// ---------------------------------------------------------------------------
// Tier 1: element-context
// ---------------------------------------------------------------------------

// elementContext translates the flattened text of every leaf block
// element as one unit and replaces the element's content with the
// result, discarding inline sub-formatting. A translated block shorter
// than TruncationRatio of the original keeps its original content,
// guarding against engine-side truncation of long blocks.
func (s *Segmenter) elementContext(ctx context.Context, frag string, tr engine.TranslateFunc) (string, error) {
	nodes, err := parseFragment(frag)
	if err != nil {
		return "", err
	}

	blocks := leafBlocks(nodes)
	if len(blocks) == 0 {
		return "", fmt.Errorf("no block elements in fragment")
	}

	ratio := s.opts.effectiveTruncationRatio()
	handled := 0
	for _, block := range blocks {
		orig := strings.TrimSpace(textContent(block))
		if orig == "" {
			continue
		}
		translated, err := tr(ctx, orig)
		if err != nil {
			s.opts.log("[Markup] block left untranslated: %v", err)
			continue
		}
		translated = strings.TrimSpace(translated)

		origLen := len([]rune(orig))
		transLen := len([]rune(translated))
		if float64(transLen) < ratio*float64(origLen) {
			s.opts.log("[Markup] truncated block (keeping original) → %d vs %d chars", transLen, origLen)
			handled++
			continue
		}
		replaceContent(block, translated)
		handled++
	}
	if handled == 0 {
		return "", fmt.Errorf("engine failed on every block")
	}

	return renderNodes(nodes)
}

// ---------------------------------------------------------------------------
// Tier 2: text-node
// ---------------------------------------------------------------------------

// textNode translates every text-bearing leaf individually, splicing
// each result back with the leaf's original leading and trailing
// whitespace so inline spacing between tags survives.
func (s *Segmenter) textNode(ctx context.Context, frag string, tr engine.TranslateFunc) (string, error) {
	nodes, err := parseFragment(frag)
	if err != nil {
		return "", err
	}

	translated := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed == "" {
				return
			}
			lead := n.Data[:len(n.Data)-len(strings.TrimLeft(n.Data, " \t\n\r"))]
			trail := n.Data[len(strings.TrimRight(n.Data, " \t\n\r")):]
			out, err := tr(ctx, trimmed)
			if err != nil {
				s.opts.log("[Markup] text node left untranslated: %v", err)
				return
			}
			n.Data = lead + strings.TrimSpace(out) + trail
			translated++
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	if translated == 0 {
		return "", fmt.Errorf("engine failed on every text node")
	}

	return renderNodes(nodes)
}

// ---------------------------------------------------------------------------
// Tier 3: flatten-and-resegment
// ---------------------------------------------------------------------------

var (
	listItemBoundary = regexp.MustCompile(`\s*\d+[.)]\s+`)
	paragraphBreak   = regexp.MustCompile(`\n\s*\n`)
)

// flatten discards structure entirely: the fragment's full plain text
// is translated as one block (through the chunker, so the engine's
// length budget still holds) and re-wrapped heuristically. Explicitly
// approximate; it exists to guarantee some structured output rather
// than raw failure.
func (s *Segmenter) flatten(ctx context.Context, frag string, tr engine.TranslateFunc) (string, error) {
	text := strings.TrimSpace(PlainText(frag))
	if text == "" {
		return "", fmt.Errorf("fragment has no text content")
	}

	translated, err := chunker.Translate(ctx, text, s.opts.effectiveChunkBudget(), tr)
	if err != nil {
		return "", err
	}
	translated = strings.TrimSpace(translated)

	switch {
	case strings.Contains(frag, "<ol") || strings.Contains(frag, "<li"):
		items := splitListItems(translated)
		var b strings.Builder
		b.WriteString("<ol>")
		for _, item := range items {
			b.WriteString("<li><p>")
			b.WriteString(item)
			b.WriteString("</p></li>")
		}
		b.WriteString("</ol>")
		return b.String(), nil

	case strings.Contains(frag, "<p"):
		paras := paragraphBreak.Split(translated, -1)
		var b strings.Builder
		for _, p := range paras {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			b.WriteString("<p>")
			b.WriteString(p)
			b.WriteString("</p>")
		}
		if b.Len() == 0 {
			return "<p>" + translated + "</p>", nil
		}
		return b.String(), nil

	default:
		return "<p>" + translated + "</p>", nil
	}
}

// splitListItems resplits translated text on list-item-like
// boundaries: numbered markers first, then line breaks, else the whole
// text as a single item.
func splitListItems(text string) []string {
	parts := listItemBoundary.Split(text, -1)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if len(items) > 1 {
		return items
	}

	items = items[:0]
	for _, p := range strings.Split(text, "\n") {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if len(items) == 0 {
		items = append(items, strings.TrimSpace(text))
	}
	return items
}
