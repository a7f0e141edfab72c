package markdown

import "strings"

// Span represents a styled slice of text.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
}

// LineKind tags the block-level shape of a parsed line.
type LineKind int

const (
	// LineText is a regular paragraph line.
	LineText LineKind = iota
	// LineHeading is an ATX heading; Level carries the depth.
	LineHeading
	// LineBullet is an unordered list entry.
	LineBullet
	// LineCode is a line inside a fenced code block, fences included.
	LineCode
)

// Line is one display line with its block-level kind and inline spans.
// Code lines carry a single raw span; fences toggle code mode.
type Line struct {
	Kind  LineKind
	Level int
	Spans []Span
}

// ParseLines splits markdown text into display lines. Only the subset
// that matters for terminal output is recognized: ATX headings, dash and
// asterisk bullets, fenced code blocks, and inline bold/italic/code.
func ParseLines(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines := make([]Line, 0, len(raw))
	fenced := false
	for _, entry := range raw {
		trimmed := strings.TrimLeft(entry, " \t")
		if strings.HasPrefix(trimmed, "```") {
			fenced = !fenced
			lines = append(lines, Line{Kind: LineCode, Spans: rawSpan(entry)})
			continue
		}
		if fenced {
			lines = append(lines, Line{Kind: LineCode, Spans: rawSpan(entry)})
			continue
		}
		if level, rest, ok := headingLine(trimmed); ok {
			lines = append(lines, Line{Kind: LineHeading, Level: level, Spans: ParseInline(rest)})
			continue
		}
		if rest, ok := bulletLine(trimmed); ok {
			lines = append(lines, Line{Kind: LineBullet, Spans: ParseInline(rest)})
			continue
		}
		lines = append(lines, Line{Kind: LineText, Spans: ParseInline(entry)})
	}
	return lines
}

func rawSpan(text string) []Span {
	if text == "" {
		return nil
	}
	return []Span{{Text: text, Code: true}}
}

func headingLine(text string) (int, string, bool) {
	level := 0
	for level < len(text) && text[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, "", false
	}
	if level == len(text) {
		return level, "", true
	}
	if text[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimLeft(text[level:], " "), true
}

func bulletLine(text string) (string, bool) {
	if strings.HasPrefix(text, "- ") || strings.HasPrefix(text, "* ") {
		return text[2:], true
	}
	return "", false
}

// ParseInline parses a subset of inline markdown (bold, italic, code).
// Supported markers: **bold**, *italic*, and `code`.
func ParseInline(input string) []Span {
	if input == "" {
		return nil
	}
	var spans []Span
	var buf strings.Builder
	bold := false
	italic := false
	code := false

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		spans = append(spans, Span{
			Text:   buf.String(),
			Bold:   bold,
			Italic: italic,
			Code:   code,
		})
		buf.Reset()
	}

	for i := 0; i < len(input); {
		ch := input[i]
		if ch == '\\' && i+1 < len(input) {
			buf.WriteByte(input[i+1])
			i += 2
			continue
		}
		if ch == '`' {
			if code {
				flush()
				code = false
				i++
				continue
			}
			if hasClosing(input[i+1:], "`") {
				flush()
				code = true
				i++
				continue
			}
		}
		if !code && ch == '*' {
			if strings.HasPrefix(input[i:], "**") {
				if bold {
					flush()
					bold = false
					i += 2
					continue
				}
				if hasClosing(input[i+2:], "**") {
					flush()
					bold = true
					i += 2
					continue
				}
				buf.WriteString("**")
				i += 2
				continue
			}
			if italic {
				flush()
				italic = false
				i++
				continue
			}
			if hasClosing(input[i+1:], "*") {
				flush()
				italic = true
				i++
				continue
			}
		}
		buf.WriteByte(ch)
		i++
	}
	flush()
	return spans
}

func hasClosing(remaining, marker string) bool {
	if remaining == "" || marker == "" {
		return false
	}
	return strings.Contains(remaining, marker)
}
