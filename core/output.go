package core

import (
	"math"
	"strings"

	"pkt.systems/jove/internal/termbuf"
	"pkt.systems/jove/schema"
)

// OutputBlock is one rendered unit of execution output. The variant set is
// closed: consumption sites switch exhaustively over the four concrete
// types, so adding a variant is a compile-visible change everywhere.
type OutputBlock interface {
	// NumLines estimates how many text lines the block occupies when
	// rendered. The value is advisory and saturates at 255.
	NumLines() uint8
	// Snapshot returns a transport-friendly view of the block.
	Snapshot() schema.BlockSnapshot

	outputBlock()
}

// PlainBlock is a fully-realized text result, e.g. an execute result whose
// chosen representation is markdown or plain text.
type PlainBlock struct {
	Text *termbuf.Buffer
}

// MediaBlock is a rich result the core could not reduce to text; the value
// is carried opaquely for the renderer.
type MediaBlock struct {
	MimeType schema.MimeType
	Value    any
}

// StreamBlock is incrementally-growing stdout/stderr text. Consecutive
// stream chunks merge into the same block's buffer.
type StreamBlock struct {
	Text *termbuf.Buffer
}

// ErrorBlock is a structured execution failure: short name, short value,
// and a traceback rendered through the terminal buffer.
type ErrorBlock struct {
	Ename     string
	Evalue    string
	Traceback *termbuf.Buffer
}

func (*PlainBlock) outputBlock()  {}
func (*MediaBlock) outputBlock()  {}
func (*StreamBlock) outputBlock() {}
func (*ErrorBlock) outputBlock()  {}

// NumLines delegates to the buffer's own line count.
func (b *PlainBlock) NumLines() uint8 {
	return satLines(b.Text.NumLines())
}

// NumLines counts newline-delimited lines of the value when it has a
// textual form, zero otherwise.
func (b *MediaBlock) NumLines() uint8 {
	return satLines(countLines(schema.Text(b.Value)))
}

// NumLines delegates to the buffer's own line count.
func (b *StreamBlock) NumLines() uint8 {
	return satLines(b.Text.NumLines())
}

// NumLines sums the line counts of ename, evalue, and the traceback, each
// addition saturating.
func (b *ErrorBlock) NumLines() uint8 {
	height := satLines(countLines(b.Ename))
	height = satAdd(height, satLines(countLines(b.Evalue)))
	height = satAdd(height, satLines(b.Traceback.NumLines()))
	return height
}

// Snapshot returns the plain block payload.
func (b *PlainBlock) Snapshot() schema.BlockSnapshot {
	return schema.BlockSnapshot{
		Kind:     schema.BlockPlain,
		Lines:    b.Text.Lines(),
		NumLines: b.NumLines(),
	}
}

// Snapshot returns the media block payload.
func (b *MediaBlock) Snapshot() schema.BlockSnapshot {
	return schema.BlockSnapshot{
		Kind:     schema.BlockMedia,
		MimeType: b.MimeType,
		Value:    b.Value,
		NumLines: b.NumLines(),
	}
}

// Snapshot returns the stream block payload.
func (b *StreamBlock) Snapshot() schema.BlockSnapshot {
	return schema.BlockSnapshot{
		Kind:     schema.BlockStream,
		Lines:    b.Text.Lines(),
		NumLines: b.NumLines(),
	}
}

// Snapshot returns the error block payload.
func (b *ErrorBlock) Snapshot() schema.BlockSnapshot {
	return schema.BlockSnapshot{
		Kind:      schema.BlockError,
		Ename:     b.Ename,
		Evalue:    b.Evalue,
		Traceback: b.Traceback.Lines(),
		NumLines:  b.NumLines(),
	}
}

// countLines counts display lines of text; a trailing newline does not
// open an extra line, and empty text spans zero lines.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	count := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		count++
	}
	return count
}

func satLines(count int) uint8 {
	if count <= 0 {
		return 0
	}
	if count > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(count)
}

func satAdd(a, b uint8) uint8 {
	if a > math.MaxUint8-b {
		return math.MaxUint8
	}
	return a + b
}
