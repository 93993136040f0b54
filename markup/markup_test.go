package markup

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func upper(ctx context.Context, text string) (string, error) {
	return strings.ToUpper(text), nil
}

func identity(ctx context.Context, text string) (string, error) {
	return text, nil
}

func TestTranslate_SimpleParagraph(t *testing.T) {
	s := New(Options{})
	out, err := s.Translate(context.Background(), "<p>Hello wonderful world</p>", upper)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if !strings.Contains(out, "<p>") || !strings.Contains(out, "</p>") {
		t.Errorf("paragraph structure lost: %q", out)
	}
	if !strings.Contains(out, "HELLO WONDERFUL WORLD") {
		t.Errorf("text not translated: %q", out)
	}
}

func TestTranslate_ListKeepsItemStructure(t *testing.T) {
	frag := "<ol><li>First item with some words</li><li>Second item with some words</li></ol>"

	s := New(Options{})
	out, err := s.Translate(context.Background(), frag, upper)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if strings.Count(out, "<li>") != 2 {
		t.Errorf("list item count changed: %q", out)
	}
	if !strings.Contains(out, "FIRST ITEM WITH SOME WORDS") || !strings.Contains(out, "SECOND ITEM WITH SOME WORDS") {
		t.Errorf("item text not translated: %q", out)
	}
}

func TestTranslate_IdentityRoundTripKeepsText(t *testing.T) {
	frag := "<p>Hello <strong>world</strong> again</p>"

	s := New(Options{})
	out, err := s.Translate(context.Background(), frag, identity)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if got := strings.TrimSpace(PlainText(out)); got != "Hello world again" {
		t.Errorf("plain text changed: %q", got)
	}
}

func TestTranslate_TruncationGuardKeepsOriginalBlock(t *testing.T) {
	frag := "<p>This is a reasonably long block of source text for the guard</p>"

	// engine that truncates hard; tier 1 must keep the original block,
	// and the shared validator must reject tiers producing short text
	stub := func(ctx context.Context, text string) (string, error) {
		return "ok", nil
	}
	s := New(Options{})
	out, err := s.Translate(context.Background(), frag, stub)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if !strings.Contains(out, "reasonably long block of source text") {
		t.Errorf("truncated translation replaced original: %q", out)
	}
}

func TestTranslate_AllStrategiesFailReturnsOriginal(t *testing.T) {
	frag := "<p>Some content that will not survive</p>"
	boom := func(ctx context.Context, text string) (string, error) {
		return "", errors.New("engine down")
	}

	s := New(Options{})
	out, err := s.Translate(context.Background(), frag, boom)
	if err == nil {
		t.Fatal("expected error when every strategy fails")
	}
	if out != frag {
		t.Errorf("original fragment not returned: %q", out)
	}
}

func TestPlainText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>Hello <em>there</em></p>", "Hello there"},
		{"no tags at all", "no tags at all"},
		{"<ul><li>a</li><li>b</li></ul>", "ab"},
		{"<script>evil()</script><p>safe</p>", "safe"},
	}
	for _, tc := range cases {
		if got := PlainText(tc.in); got != tc.want {
			t.Errorf("PlainText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidate_RejectsShortOutput(t *testing.T) {
	s := New(Options{})
	if s.validate("<p>short</p>") {
		t.Error("validator accepted text at or below the minimum length")
	}
	if !s.validate("<p>long enough to pass</p>") {
		t.Error("validator rejected acceptable text")
	}
}
