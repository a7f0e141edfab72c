package core

import (
	"strings"

	"pkt.systems/jove/internal/termbuf"
	"pkt.systems/jove/schema"
)

// Aggregator folds the kernel message stream for one execution request into
// an ordered list of output blocks plus a single execution status. Blocks
// are append-only; only the trailing stream block's buffer grows in place.
//
// The aggregator assumes a single logical writer feeding messages in
// arrival order; callers that read concurrently must serialize access.
type Aggregator struct {
	id          schema.ExecutionID
	outputs     []OutputBlock
	status      schema.ExecutionStatus
	bufMaxLines int
}

// NewAggregator constructs an aggregator for one execution id.
func NewAggregator(id schema.ExecutionID) *Aggregator {
	return NewAggregatorWithMaxLines(id, schema.DefaultBufferMaxLines)
}

// NewAggregatorWithMaxLines constructs an aggregator whose terminal
// buffers are capped at maxLines display lines.
func NewAggregatorWithMaxLines(id schema.ExecutionID, maxLines int) *Aggregator {
	if maxLines <= 0 {
		maxLines = schema.DefaultBufferMaxLines
	}
	return &Aggregator{id: id, bufMaxLines: maxLines}
}

// ID returns the execution id assigned at construction.
func (a *Aggregator) ID() schema.ExecutionID {
	return a.id
}

// Status returns the current execution status.
func (a *Aggregator) Status() schema.ExecutionStatus {
	return a.status
}

// SetStatus unconditionally overwrites the execution status. Used by the
// surrounding system for transitions outside the message stream, e.g.
// marking the execution as connecting before the kernel responds.
func (a *Aggregator) SetStatus(status schema.ExecutionStatus) {
	a.status = status
}

// Accept folds one kernel message into the aggregator and reports whether
// observable state changed. Messages with no usable representation and
// unknown message kinds are silent no-ops.
func (a *Aggregator) Accept(msg schema.KernelMessage) bool {
	var block OutputBlock
	switch msg.Type {
	case schema.MsgExecuteResult:
		mime, value, ok := msg.Data.Richest(schema.RichestPriority)
		if !ok {
			// No representation we can show; skip the message.
			return false
		}
		switch mime {
		case schema.MimeMarkdown, schema.MimePlain:
			block = a.newPlainBlock(schema.Text(value))
		default:
			block = &MediaBlock{MimeType: mime, Value: value}
		}
	case schema.MsgDisplayData:
		mime, value, ok := msg.Data.Richest(schema.RichestPriority)
		if !ok {
			return false
		}
		// Display data stays a media block even for textual types; the
		// plain special case applies to execute results only.
		block = &MediaBlock{MimeType: mime, Value: value}
	case schema.MsgStream:
		if last := a.lastStreamBlock(); last != nil {
			// Adjacent stream chunks coalesce in place; colors and
			// carriage returns combine inside the existing buffer.
			last.Text.Append(msg.Text)
			return true
		}
		stream := &StreamBlock{Text: termbuf.NewWithMaxLines(a.bufMaxLines)}
		stream.Text.Append(msg.Text)
		block = stream
	case schema.MsgError:
		traceback := termbuf.NewWithMaxLines(a.bufMaxLines)
		traceback.Append(strings.Join(msg.Traceback, "\n"))
		block = &ErrorBlock{
			Ename:     msg.Ename,
			Evalue:    msg.Evalue,
			Traceback: traceback,
		}
	case schema.MsgStatus:
		switch msg.State {
		case schema.StateBusy:
			a.status = schema.StatusExecuting
		case schema.StateIdle:
			a.status = schema.StatusFinished
		default:
			return false
		}
		return true
	default:
		return false
	}

	a.outputs = append(a.outputs, block)
	return true
}

// lastStreamBlock returns the trailing block when it is a stream block.
// Any other block type in the way forces a new stream block to start.
func (a *Aggregator) lastStreamBlock() *StreamBlock {
	if len(a.outputs) == 0 {
		return nil
	}
	last, ok := a.outputs[len(a.outputs)-1].(*StreamBlock)
	if !ok {
		return nil
	}
	return last
}

func (a *Aggregator) newPlainBlock(text string) *PlainBlock {
	buf := termbuf.NewWithMaxLines(a.bufMaxLines)
	buf.Append(text)
	return &PlainBlock{Text: buf}
}

// Outputs returns the block sequence in arrival order.
func (a *Aggregator) Outputs() []OutputBlock {
	return append([]OutputBlock(nil), a.outputs...)
}

// NumLines reports the saturating sum of all block heights, or 1 when
// there are no outputs, reserving a line for the status fallback.
func (a *Aggregator) NumLines() uint8 {
	if len(a.outputs) == 0 {
		return 1
	}
	var height uint8
	for _, block := range a.outputs {
		height = satAdd(height, block.NumLines())
	}
	return height
}

// Snapshot returns a read-only view of the aggregator state.
func (a *Aggregator) Snapshot() schema.ExecutionSnapshot {
	blocks := make([]schema.BlockSnapshot, 0, len(a.outputs))
	for _, block := range a.outputs {
		blocks = append(blocks, block.Snapshot())
	}
	return schema.ExecutionSnapshot{
		ID:       a.id,
		Status:   a.status,
		Blocks:   blocks,
		NumLines: a.NumLines(),
	}
}
