package schema

import "testing"

func TestRichestPrefersMarkdown(t *testing.T) {
	bundle := MimeBundle{
		MimePlain:    "plain",
		MimeMarkdown: "markdown",
	}
	mime, value, ok := bundle.Richest(RichestPriority)
	if !ok {
		t.Fatalf("expected a selection")
	}
	if mime != MimeMarkdown || value != "markdown" {
		t.Fatalf("unexpected selection: %s %v", mime, value)
	}
}

func TestRichestFallsBackToPlain(t *testing.T) {
	bundle := MimeBundle{
		MimePlain: "plain",
		MimePNG:   "aGk=",
	}
	mime, _, ok := bundle.Richest(RichestPriority)
	if !ok || mime != MimePlain {
		t.Fatalf("unexpected selection: %s ok=%t", mime, ok)
	}
}

func TestRichestNoneRanked(t *testing.T) {
	bundle := MimeBundle{MimePNG: "aGk="}
	if _, _, ok := bundle.Richest(RichestPriority); ok {
		t.Fatalf("expected no selection for unranked bundle")
	}
	empty := MimeBundle{}
	if _, _, ok := empty.Richest(RichestPriority); ok {
		t.Fatalf("expected no selection for empty bundle")
	}
}

func TestRichestIsDeterministic(t *testing.T) {
	bundle := MimeBundle{
		MimeMarkdown: "md",
		MimePlain:    "plain",
	}
	first, _, _ := bundle.Richest(RichestPriority)
	for i := 0; i < 100; i++ {
		mime, _, _ := bundle.Richest(RichestPriority)
		if mime != first {
			t.Fatalf("selection changed between calls: %s then %s", first, mime)
		}
	}
}

func TestTextNonStringValue(t *testing.T) {
	if got := Text(42); got != "" {
		t.Fatalf("expected empty string for non-string value, got %q", got)
	}
	if got := Text("hello"); got != "hello" {
		t.Fatalf("unexpected text: %q", got)
	}
}
