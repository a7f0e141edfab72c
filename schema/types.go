package schema

// ExecutionID identifies one execution request.
type ExecutionID string

// KernelName identifies a kernel spec (e.g. "python3").
type KernelName string

// MimeType identifies a content representation offered by a kernel.
type MimeType string

const (
	// MimeMarkdown is markdown-formatted text.
	MimeMarkdown MimeType = "text/markdown"
	// MimePlain is plain text, the universal fallback.
	MimePlain MimeType = "text/plain"
	// MimeHTML is an HTML representation.
	MimeHTML MimeType = "text/html"
	// MimePNG is a base64-encoded PNG image.
	MimePNG MimeType = "image/png"
	// MimeSVG is an SVG image.
	MimeSVG MimeType = "image/svg+xml"
	// MimeJSON is a structured JSON representation.
	MimeJSON MimeType = "application/json"
)

// StreamName identifies which kernel stream produced text.
type StreamName string

const (
	// StreamStdout is the kernel's stdout stream.
	StreamStdout StreamName = "stdout"
	// StreamStderr is the kernel's stderr stream.
	StreamStderr StreamName = "stderr"
)
