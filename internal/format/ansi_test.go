package format

import (
	"reflect"
	"strings"
	"testing"

	"pkt.systems/jove/schema"
)

func TestRenderBlockStreamPassthrough(t *testing.T) {
	r := NewANSIRenderer()
	lines := []string{"plain", "\x1b[31mred\x1b[0m"}
	got, ok := r.RenderBlock(schema.BlockSnapshot{Kind: schema.BlockStream, Lines: lines})
	if !ok {
		t.Fatalf("stream block not renderable")
	}
	if !reflect.DeepEqual(got, lines) {
		t.Fatalf("stream lines altered: %#v", got)
	}
}

func TestRenderBlockPlainKeepsText(t *testing.T) {
	r := NewANSIRenderer()
	got, ok := r.RenderBlock(schema.BlockSnapshot{
		Kind:  schema.BlockPlain,
		Lines: []string{"# Title", "a **bold** word"},
	})
	if !ok {
		t.Fatalf("plain block not renderable")
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if !strings.Contains(got[0], "Title") {
		t.Fatalf("heading text missing: %q", got[0])
	}
	if !strings.Contains(got[1], "bold") || strings.Contains(got[1], "**") {
		t.Fatalf("inline markers not consumed: %q", got[1])
	}
}

func TestRenderBlockErrorHead(t *testing.T) {
	r := NewANSIRenderer()
	got, ok := r.RenderBlock(schema.BlockSnapshot{
		Kind:      schema.BlockError,
		Ename:     "NameError",
		Evalue:    "boom",
		Traceback: []string{"line one", "line two"},
	})
	if !ok {
		t.Fatalf("error block not renderable")
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got))
	}
	if !strings.Contains(got[0], "NameError: boom") {
		t.Fatalf("error head missing: %q", got[0])
	}
}

func TestRenderBlockMediaWithoutText(t *testing.T) {
	r := NewANSIRenderer()
	_, ok := r.RenderBlock(schema.BlockSnapshot{
		Kind:     schema.BlockMedia,
		MimeType: schema.MimePNG,
		Value:    map[string]any{"data": "deadbeef"},
	})
	if ok {
		t.Fatalf("expected non-textual media to be skipped")
	}
}

func TestRenderBlockMediaWithText(t *testing.T) {
	r := NewANSIRenderer()
	got, ok := r.RenderBlock(schema.BlockSnapshot{
		Kind:     schema.BlockMedia,
		MimeType: schema.MimeHTML,
		Value:    "<b>hi</b>\n",
	})
	if !ok {
		t.Fatalf("textual media not renderable")
	}
	if len(got) != 1 || got[0] != "<b>hi</b>" {
		t.Fatalf("unexpected media lines: %#v", got)
	}
}

func TestRenderStatusFallbacks(t *testing.T) {
	r := NewANSIRenderer()
	cases := map[schema.ExecutionStatus]string{
		schema.StatusConnectingToKernel: "Connecting to kernel...",
		schema.StatusExecuting:          "Executing...",
		schema.StatusFinished:           "✓",
		schema.StatusUnknown:            "...",
	}
	for status, want := range cases {
		if got := r.RenderStatus(status); !strings.Contains(got, want) {
			t.Fatalf("status %v: got %q, want substring %q", status, got, want)
		}
	}
}
