package document

import (
	"strings"
	"testing"
)

func TestParseMarshal_RoundTrip(t *testing.T) {
	src := `{
  "title": "Übung: Grüße",
  "score": 1.50,
  "passed": true,
  "missing": null,
  "params": {
    "zeta": "last first",
    "alpha": "first last"
  },
  "answers": [
    {
      "text": "<p>Ja &amp; Nein</p>",
      "correct": false
    }
  ]
}
`
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got := string(doc.Marshal()); got != src {
		t.Errorf("round trip not byte-identical:\n got: %s\nwant: %s", got, src)
	}
}

func TestParse_PreservesKeyOrder(t *testing.T) {
	doc, err := Parse([]byte(`{"zeta": 1, "alpha": 2, "mid": 3}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	keys := doc.Keys()
	if len(keys) != 3 || keys[0] != "zeta" || keys[1] != "alpha" || keys[2] != "mid" {
		t.Errorf("key order = %v, want [zeta alpha mid]", keys)
	}
}

func TestMarshal_NoEscapingOfMarkupAndUnicode(t *testing.T) {
	doc := NewMapping()
	doc.Set("text", NewString("<p>Grüße & Küsse</p>"))

	out := string(doc.Marshal())
	if !strings.Contains(out, "<p>Grüße & Küsse</p>") {
		t.Errorf("markup or unicode was escaped: %s", out)
	}
	if strings.Contains(out, `\u003c`) || strings.Contains(out, `\u0026`) {
		t.Errorf("HTML-style escapes present: %s", out)
	}
}

func TestMarshal_EscapesControlCharacters(t *testing.T) {
	doc := NewMapping()
	doc.Set("text", NewString("line1\nline2\t\"quoted\""))

	out := string(doc.Marshal())
	if !strings.Contains(out, `line1\nline2\t\"quoted\"`) {
		t.Errorf("control characters not escaped: %s", out)
	}
	if _, err := Parse(doc.Marshal()); err != nil {
		t.Errorf("marshaled output does not reparse: %v", err)
	}
}

func TestParse_NumberFidelity(t *testing.T) {
	doc, err := Parse([]byte(`{"a": 1.0, "b": 7, "c": 0.30000000000000004}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	for key, want := range map[string]string{"a": "1.0", "b": "7", "c": "0.30000000000000004"} {
		n, _ := doc.Get(key)
		if n.Kind != KindNumber || n.Num.String() != want {
			t.Errorf("%s = %q, want %q", key, n.Num.String(), want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, bad := range []string{`{"broken":`, `{"a": 1} trailing`, ``} {
		if _, err := Parse([]byte(bad)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", bad)
		}
	}
}

func TestSetDeleteSemantics(t *testing.T) {
	doc := NewMapping()
	doc.Set("a", NewString("1"))
	doc.Set("b", NewString("2"))
	doc.Set("a", NewString("updated"))

	if doc.Len() != 2 {
		t.Fatalf("Len = %d, want 2", doc.Len())
	}
	keys := doc.Keys()
	if keys[0] != "a" || keys[1] != "b" {
		t.Errorf("re-set changed key order: %v", keys)
	}
	if a, _ := doc.Get("a"); a.Str != "updated" {
		t.Errorf("a = %q, want updated", a.Str)
	}

	if !doc.Delete("a") {
		t.Error("Delete(a) = false")
	}
	if doc.Delete("a") {
		t.Error("second Delete(a) = true")
	}
	if doc.Len() != 1 || doc.Keys()[0] != "b" {
		t.Errorf("after delete: len=%d keys=%v", doc.Len(), doc.Keys())
	}
}
