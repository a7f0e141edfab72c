// Package termbuf accumulates raw terminal text, including control
// sequences, and reports how many display lines it spans.
package termbuf

import "strings"

// Buffer stores processed display lines plus an in-progress line with a
// cursor, so carriage returns overwrite in place instead of stacking
// progress-bar frames as separate lines.
type Buffer struct {
	lines    []string
	cur      []rune
	cursor   int
	dirty    bool
	maxLines int
}

// New returns an empty buffer with the default line limit.
func New() *Buffer {
	return NewWithMaxLines(defaultMaxLines)
}

// NewWithMaxLines returns an empty buffer capped at maxLines display lines.
func NewWithMaxLines(maxLines int) *Buffer {
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}
	return &Buffer{maxLines: maxLines}
}

const defaultMaxLines = 5000

// Append feeds a chunk of raw text into the buffer. Newlines complete the
// current line, carriage returns reset the cursor so subsequent text
// overwrites, and backspace steps the cursor back one cell. Escape
// sequences are carried through untouched.
func (b *Buffer) Append(text string) {
	if text == "" {
		return
	}
	b.dirty = true
	for _, r := range text {
		switch r {
		case '\n':
			b.commitLine()
		case '\r':
			b.cursor = 0
		case '\b':
			if b.cursor > 0 {
				b.cursor--
			}
		default:
			b.writeRune(r)
		}
	}
}

func (b *Buffer) writeRune(r rune) {
	if b.cursor < len(b.cur) {
		b.cur[b.cursor] = r
	} else {
		b.cur = append(b.cur, r)
	}
	b.cursor++
}

func (b *Buffer) commitLine() {
	b.lines = append(b.lines, string(b.cur))
	b.cur = b.cur[:0]
	b.cursor = 0
	if b.maxLines > 0 && len(b.lines) > b.maxLines {
		trim := len(b.lines) - b.maxLines
		b.lines = b.lines[trim:]
	}
}

// NumLines reports how many display lines the buffer currently spans.
func (b *Buffer) NumLines() int {
	if b == nil {
		return 0
	}
	count := len(b.lines)
	if len(b.cur) > 0 {
		count++
	}
	return count
}

// Lines materializes the buffer as display lines.
func (b *Buffer) Lines() []string {
	if b == nil {
		return nil
	}
	lines := make([]string, 0, b.NumLines())
	lines = append(lines, b.lines...)
	if len(b.cur) > 0 {
		lines = append(lines, string(b.cur))
	}
	return lines
}

// String materializes the buffer as a single newline-joined string.
func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}
