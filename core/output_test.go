package core

import (
	"math"
	"strings"
	"testing"

	"pkt.systems/jove/internal/termbuf"
	"pkt.systems/jove/schema"
)

func TestCountLines(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo", 2},
		{"one\ntwo\n", 2},
	}
	for _, tc := range cases {
		if got := countLines(tc.text); got != tc.want {
			t.Fatalf("countLines(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestSatAddSaturates(t *testing.T) {
	if got := satAdd(200, 100); got != math.MaxUint8 {
		t.Fatalf("satAdd(200,100) = %d, want 255", got)
	}
	if got := satAdd(1, 2); got != 3 {
		t.Fatalf("satAdd(1,2) = %d, want 3", got)
	}
}

func TestMediaBlockNumLines(t *testing.T) {
	block := &MediaBlock{MimeType: schema.MimeHTML, Value: "a\nb\nc"}
	if got := block.NumLines(); got != 3 {
		t.Fatalf("unexpected height: %d", got)
	}
	opaque := &MediaBlock{MimeType: schema.MimePNG, Value: map[string]any{"data": "x"}}
	if got := opaque.NumLines(); got != 0 {
		t.Fatalf("opaque media should span 0 lines, got %d", got)
	}
}

func TestErrorBlockNumLinesSaturates(t *testing.T) {
	traceback := termbuf.New()
	traceback.Append(strings.Repeat("frame\n", 300))
	block := &ErrorBlock{Ename: "E", Evalue: "v", Traceback: traceback}
	if got := block.NumLines(); got != math.MaxUint8 {
		t.Fatalf("unexpected height: %d, want 255", got)
	}
}

func TestPlainBlockSnapshot(t *testing.T) {
	buf := termbuf.New()
	buf.Append("hello\nworld")
	block := &PlainBlock{Text: buf}
	snapshot := block.Snapshot()
	if snapshot.Kind != schema.BlockPlain {
		t.Fatalf("unexpected kind: %s", snapshot.Kind)
	}
	if len(snapshot.Lines) != 2 || snapshot.NumLines != 2 {
		t.Fatalf("unexpected snapshot: %#v", snapshot)
	}
}
