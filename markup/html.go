package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags enumerates the block-ish elements whose flattened text is
// translated as a unit by the element-context strategy.
var blockTags = map[atom.Atom]bool{
	atom.Ol: true,
	atom.Ul: true,
	atom.P:  true,
	atom.Li: true,
	atom.H1: true,
	atom.H2: true,
	atom.H3: true,
	atom.H4: true,
}

// skipTags are elements whose text content is never translated.
var skipTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
}

// parseFragment parses an HTML fragment in body context.
func parseFragment(frag string) ([]*html.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(frag), body)
}

// renderNodes serializes fragment nodes back to HTML.
func renderNodes(nodes []*html.Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// textContent returns the concatenated text of a node subtree,
// skipping script and style elements.
func textContent(n *html.Node) string {
	var b strings.Builder
	collectText(n, &b)
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && skipTags[n.DataAtom] {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// PlainText parses a fragment and returns its rendered text content.
// Returns the input unchanged when it contains no tags at all.
func PlainText(frag string) string {
	nodes, err := parseFragment(frag)
	if err != nil {
		return frag
	}
	var b strings.Builder
	for _, n := range nodes {
		collectText(n, &b)
	}
	return b.String()
}

// replaceContent drops all children of an element and inserts a single
// text node.
func replaceContent(n *html.Node, text string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// leafBlocks collects block elements that contain no nested block
// elements (the li inside an ol, not the ol itself), in document
// order. Translating only the innermost blocks keeps list structure
// intact.
func leafBlocks(nodes []*html.Node) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && blockTags[n.DataAtom] && !hasBlockDescendant(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func hasBlockDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.DataAtom] {
			return true
		}
		if hasBlockDescendant(c) {
			return true
		}
	}
	return false
}
