package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pkt.systems/jove/internal/markdown"
	"pkt.systems/jove/schema"
)

var (
	colorError   = lipgloss.Color("196")
	colorDim     = lipgloss.Color("241")
	colorAccent  = lipgloss.Color("39")
	colorSuccess = lipgloss.Color("35")
)

// ANSIRenderer renders block snapshots as ANSI-styled terminal lines.
// Stream lines pass through untouched so kernel-emitted colors and
// control sequences survive.
type ANSIRenderer struct {
	bold       lipgloss.Style
	italic     lipgloss.Style
	code       lipgloss.Style
	heading    lipgloss.Style
	bullet     lipgloss.Style
	errorHead  lipgloss.Style
	errorTrace lipgloss.Style
	statusDim  lipgloss.Style
	statusDone lipgloss.Style
}

// NewANSIRenderer returns the default styled renderer.
func NewANSIRenderer() *ANSIRenderer {
	return &ANSIRenderer{
		bold:       lipgloss.NewStyle().Bold(true),
		italic:     lipgloss.NewStyle().Italic(true),
		code:       lipgloss.NewStyle().Foreground(colorAccent),
		heading:    lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		bullet:     lipgloss.NewStyle().Foreground(colorAccent),
		errorHead:  lipgloss.NewStyle().Bold(true).Foreground(colorError),
		errorTrace: lipgloss.NewStyle().Foreground(colorError),
		statusDim:  lipgloss.NewStyle().Foreground(colorDim),
		statusDone: lipgloss.NewStyle().Foreground(colorSuccess),
	}
}

// RenderBlock renders one block snapshot. Media without a textual form
// reports ok=false and is skipped by the caller.
func (r *ANSIRenderer) RenderBlock(block schema.BlockSnapshot) ([]string, bool) {
	switch block.Kind {
	case schema.BlockPlain:
		return r.renderMarkdown(block.Lines), true
	case schema.BlockStream:
		return append([]string(nil), block.Lines...), true
	case schema.BlockError:
		return r.renderError(block), true
	case schema.BlockMedia:
		return r.renderMedia(block)
	default:
		return nil, false
	}
}

// RenderStatus renders the fallback line shown while an execution has no
// outputs yet.
func (r *ANSIRenderer) RenderStatus(status schema.ExecutionStatus) string {
	switch status {
	case schema.StatusConnectingToKernel:
		return r.statusDim.Render("Connecting to kernel...")
	case schema.StatusExecuting:
		return r.statusDim.Render("Executing...")
	case schema.StatusFinished:
		return r.statusDone.Render("✓")
	default:
		return r.statusDim.Render("...")
	}
}

func (r *ANSIRenderer) renderMarkdown(lines []string) []string {
	parsed := markdown.ParseLines(strings.Join(lines, "\n"))
	out := make([]string, 0, len(parsed))
	for _, line := range parsed {
		out = append(out, r.renderLine(line))
	}
	return out
}

func (r *ANSIRenderer) renderLine(line markdown.Line) string {
	var b strings.Builder
	switch line.Kind {
	case markdown.LineHeading:
		for _, span := range line.Spans {
			b.WriteString(r.heading.Render(span.Text))
		}
		return b.String()
	case markdown.LineBullet:
		b.WriteString(r.bullet.Render("•"))
		b.WriteString(" ")
	case markdown.LineCode:
		for _, span := range line.Spans {
			b.WriteString(r.code.Render(span.Text))
		}
		return b.String()
	}
	for _, span := range line.Spans {
		b.WriteString(r.renderSpan(span))
	}
	return b.String()
}

func (r *ANSIRenderer) renderSpan(span markdown.Span) string {
	switch {
	case span.Code:
		return r.code.Render(span.Text)
	case span.Bold:
		return r.bold.Render(span.Text)
	case span.Italic:
		return r.italic.Render(span.Text)
	default:
		return span.Text
	}
}

func (r *ANSIRenderer) renderError(block schema.BlockSnapshot) []string {
	lines := make([]string, 0, len(block.Traceback)+1)
	head := block.Ename
	if block.Evalue != "" {
		head = fmt.Sprintf("%s: %s", block.Ename, block.Evalue)
	}
	if head != "" {
		lines = append(lines, r.errorHead.Render(head))
	}
	for _, entry := range block.Traceback {
		lines = append(lines, r.errorTrace.Render(entry))
	}
	if len(lines) == 0 {
		lines = append(lines, r.errorHead.Render("error"))
	}
	return lines
}

func (r *ANSIRenderer) renderMedia(block schema.BlockSnapshot) ([]string, bool) {
	text := schema.Text(block.Value)
	if text == "" {
		return nil, false
	}
	if block.MimeType == schema.MimeMarkdown {
		return r.renderMarkdown(strings.Split(strings.TrimSuffix(text, "\n"), "\n")), true
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n"), true
}
