package walker

import (
	"testing"

	"github.com/h5p-tools/h5pkit/document"
)

func TestClassify_StringRules(t *testing.T) {
	p := DefaultPolicy()
	path := document.Root().Child("text")

	cases := []struct {
		name  string
		key   string
		value string
		want  Action
	}{
		{"translatable plain", "text", "Hello world", ActionTranslatePlain},
		{"translatable markup", "text", "<p>Hello</p>", ActionTranslateMarkup},
		{"unrecognized key", "subContentId", "Hello world", ActionSkip},
		{"empty value", "text", "", ActionSkip},
		{"whitespace only", "text", "   \n\t", ActionSkip},
		{"angle bracket without close", "text", "a < b and nothing else", ActionTranslatePlain},
	}
	for _, tc := range cases {
		n := document.NewString(tc.value)
		got := p.Classify(tc.key, n, path, nil)
		if got != tc.want {
			t.Errorf("%s: Classify(%q, %q) = %v, want %v", tc.name, tc.key, tc.value, got, tc.want)
		}
	}
}

func TestClassify_Containers(t *testing.T) {
	p := DefaultPolicy()
	path := document.Root().Child("params")

	if got := p.Classify("params", document.NewMapping(), path, nil); got != ActionRecurse {
		t.Errorf("mapping under unrecognized key: Classify = %v, want Recurse", got)
	}
	if got := p.Classify("text", document.NewSequence(), path, nil); got != ActionRecurse {
		t.Errorf("sequence under translatable key: Classify = %v, want Recurse", got)
	}
}

func TestClassify_VisitedSkips(t *testing.T) {
	p := DefaultPolicy()
	path := document.Root().Child("title")
	visited := document.NewVisitedSet()
	visited.Add(path)

	got := p.Classify("title", document.NewString("Already handled"), path, visited)
	if got != ActionSkip {
		t.Errorf("visited path: Classify = %v, want Skip", got)
	}
}

func TestHasMarkup(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		in   string
		want bool
	}{
		{"<p>tagged</p>", true},
		{"<br>", true},
		{"plain sentence", false},
		{"", false},
		{"2 < 3", false},
	}
	for _, tc := range cases {
		if got := p.HasMarkup(tc.in); got != tc.want {
			t.Errorf("HasMarkup(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWithExtraKeys(t *testing.T) {
	p := DefaultPolicy().WithExtraKeys([]string{"customField"})

	if !p.Translatable("customField") {
		t.Error("extra key not translatable")
	}
	if !p.Translatable("text") {
		t.Error("default key lost after WithExtraKeys")
	}
	if DefaultPolicy().Translatable("customField") {
		t.Error("WithExtraKeys mutated the default policy")
	}
}
