package chunker

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTranslate_ShortTextSingleCall(t *testing.T) {
	calls := 0
	tr := func(ctx context.Context, text string) (string, error) {
		calls++
		return strings.ToUpper(text), nil
	}

	out, err := Translate(context.Background(), "Short enough.", 600, tr)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if out != "SHORT ENOUGH." {
		t.Errorf("out = %q", out)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTranslate_LongTextChunksAndJoins(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("This sentence is here. ", 20))

	var received []string
	tr := func(ctx context.Context, chunk string) (string, error) {
		received = append(received, chunk)
		return strings.ToUpper(chunk), nil
	}

	out, err := Translate(context.Background(), text, 100, tr)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if len(received) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(received))
	}
	for _, chunk := range received {
		if len([]rune(chunk)) > 100 {
			t.Errorf("chunk over budget (%d runes): %q", len([]rune(chunk)), chunk)
		}
	}
	if got, want := out, strings.ToUpper(text); got != want {
		t.Errorf("joined output mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestTranslate_ZeroBudgetMeansNoLimit(t *testing.T) {
	calls := 0
	tr := func(ctx context.Context, text string) (string, error) {
		calls++
		return text, nil
	}

	long := strings.Repeat("word ", 500)
	if _, err := Translate(context.Background(), long, 0, tr); err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no chunking)", calls)
	}
}

func TestTranslate_ChunkFailurePropagates(t *testing.T) {
	tr := func(ctx context.Context, chunk string) (string, error) {
		if strings.Contains(chunk, "third") {
			return "", errors.New("provider down")
		}
		return chunk, nil
	}

	text := "First sentence is long enough. Second sentence is long enough. And now the third sentence."
	if _, err := Translate(context.Background(), text, 40, tr); err == nil {
		t.Fatal("expected error from failing chunk")
	}
}

func TestSplit_SentenceBoundaries(t *testing.T) {
	chunks := Split("One. Two! Three? Four.", 12)
	for _, c := range chunks {
		if strings.HasPrefix(c, " ") || strings.HasSuffix(c, " ") {
			t.Errorf("chunk has ragged whitespace: %q", c)
		}
	}
	if got := strings.Join(chunks, " "); got != "One. Two! Three? Four." {
		t.Errorf("rejoined = %q, content lost", got)
	}
}

func TestSplit_OversizedSentenceKeptWhole(t *testing.T) {
	long := strings.Repeat("x", 50) + "."
	chunks := Split("Tiny. "+long+" Tiny again.", 20)

	found := false
	for _, c := range chunks {
		if strings.Contains(c, strings.Repeat("x", 50)) {
			found = true
			if len([]rune(c)) < 50 {
				t.Errorf("oversized sentence was truncated: %q", c)
			}
		}
	}
	if !found {
		t.Error("oversized sentence missing from chunks")
	}
}

func TestSplit_Empty(t *testing.T) {
	if chunks := Split("", 100); chunks != nil {
		t.Errorf("Split(empty) = %v, want nil", chunks)
	}
	if chunks := Split("   ", 100); len(chunks) != 0 {
		t.Errorf("Split(whitespace) = %v, want empty", chunks)
	}
}
