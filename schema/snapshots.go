package schema

// BlockKind tags the variant of an output block snapshot.
type BlockKind string

const (
	// BlockPlain is a fully-realized text result.
	BlockPlain BlockKind = "plain"
	// BlockMedia is a rich result carried opaquely for the renderer.
	BlockMedia BlockKind = "media"
	// BlockStream is incrementally-growing stdout/stderr text.
	BlockStream BlockKind = "stream"
	// BlockError is a structured execution failure.
	BlockError BlockKind = "error"
)

// BlockSnapshot is a read-only view of one output block for transports
// and renderers. Only the fields matching Kind are populated.
type BlockSnapshot struct {
	Kind      BlockKind
	Lines     []string
	MimeType  MimeType
	Value     any
	Ename     string
	Evalue    string
	Traceback []string
	NumLines  uint8
}

// ExecutionSnapshot is a read-only view of one execution's state.
type ExecutionSnapshot struct {
	ID       ExecutionID
	Kernel   KernelName
	Status   ExecutionStatus
	Blocks   []BlockSnapshot
	NumLines uint8
}
