package core

import "pkt.systems/jove/schema"

// Renderer turns output blocks and status fallbacks into display lines.
type Renderer interface {
	// RenderBlock renders one block. ok is false when the block has no
	// renderable representation and should be skipped.
	RenderBlock(block schema.BlockSnapshot) (lines []string, ok bool)
	// RenderStatus renders the fallback line shown while an execution
	// has no outputs.
	RenderStatus(status schema.ExecutionStatus) string
}
