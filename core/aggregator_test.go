package core

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"pkt.systems/jove/schema"
)

func streamMsg(name schema.StreamName, text string) schema.KernelMessage {
	return schema.KernelMessage{Type: schema.MsgStream, Name: name, Text: text}
}

func resultMsg(data schema.MimeBundle) schema.KernelMessage {
	return schema.KernelMessage{Type: schema.MsgExecuteResult, Data: data}
}

func displayMsg(data schema.MimeBundle) schema.KernelMessage {
	return schema.KernelMessage{Type: schema.MsgDisplayData, Data: data}
}

func statusMsg(state schema.ExecutionState) schema.KernelMessage {
	return schema.KernelMessage{Type: schema.MsgStatus, State: state}
}

func TestAcceptPreservesArrivalOrder(t *testing.T) {
	agg := NewAggregator("exec-1")
	agg.Accept(resultMsg(schema.MimeBundle{schema.MimePlain: "first"}))
	agg.Accept(streamMsg(schema.StreamStdout, "second\n"))
	agg.Accept(schema.KernelMessage{
		Type:   schema.MsgError,
		Ename:  "ValueError",
		Evalue: "third",
	})

	outputs := agg.Outputs()
	if len(outputs) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(outputs))
	}
	if _, ok := outputs[0].(*PlainBlock); !ok {
		t.Fatalf("block 0: expected plain, got %T", outputs[0])
	}
	if _, ok := outputs[1].(*StreamBlock); !ok {
		t.Fatalf("block 1: expected stream, got %T", outputs[1])
	}
	if _, ok := outputs[2].(*ErrorBlock); !ok {
		t.Fatalf("block 2: expected error, got %T", outputs[2])
	}
}

func TestAcceptMergesAdjacentStreamChunks(t *testing.T) {
	agg := NewAggregator("exec-1")
	agg.Accept(streamMsg(schema.StreamStdout, "hel"))
	agg.Accept(streamMsg(schema.StreamStdout, "lo\nwor"))
	agg.Accept(streamMsg(schema.StreamStderr, "ld"))

	outputs := agg.Outputs()
	if len(outputs) != 1 {
		t.Fatalf("expected 1 merged stream block, got %d", len(outputs))
	}
	stream := outputs[0].(*StreamBlock)
	want := []string{"hello", "world"}
	if got := stream.Text.Lines(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected merged lines: %#v", got)
	}
}

func TestAcceptInterruptionBreaksStreamMerge(t *testing.T) {
	agg := NewAggregator("exec-1")
	agg.Accept(streamMsg(schema.StreamStdout, "one\n"))
	agg.Accept(displayMsg(schema.MimeBundle{schema.MimePlain: "interlude"}))
	agg.Accept(streamMsg(schema.StreamStdout, "two\n"))

	outputs := agg.Outputs()
	if len(outputs) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(outputs))
	}
	first := outputs[0].(*StreamBlock)
	second := outputs[2].(*StreamBlock)
	if got := first.Text.String(); got != "one" {
		t.Fatalf("unexpected first stream text: %q", got)
	}
	if got := second.Text.String(); got != "two" {
		t.Fatalf("unexpected second stream text: %q", got)
	}
}

func TestAcceptExecuteResultPicksRichest(t *testing.T) {
	agg := NewAggregator("exec-1")
	agg.Accept(resultMsg(schema.MimeBundle{
		schema.MimePlain:    "plain body",
		schema.MimeMarkdown: "# md body",
	}))

	outputs := agg.Outputs()
	if len(outputs) != 1 {
		t.Fatalf("expected 1 block, got %d", len(outputs))
	}
	plain := outputs[0].(*PlainBlock)
	if got := plain.Text.String(); got != "# md body" {
		t.Fatalf("expected markdown representation, got %q", got)
	}
}

func TestAcceptExecuteResultUnrankedMimeIsNoOp(t *testing.T) {
	agg := NewAggregator("exec-1")
	if agg.Accept(resultMsg(schema.MimeBundle{schema.MimePNG: "aGk="})) {
		t.Fatalf("expected unranked mime bundle to be a no-op")
	}
	if len(agg.Outputs()) != 0 {
		t.Fatalf("expected no blocks")
	}
}

func TestAcceptDisplayDataAlwaysMedia(t *testing.T) {
	agg := NewAggregator("exec-1")
	agg.Accept(displayMsg(schema.MimeBundle{schema.MimeMarkdown: "# heading"}))

	outputs := agg.Outputs()
	if len(outputs) != 1 {
		t.Fatalf("expected 1 block, got %d", len(outputs))
	}
	media, ok := outputs[0].(*MediaBlock)
	if !ok {
		t.Fatalf("expected media block, got %T", outputs[0])
	}
	if media.MimeType != schema.MimeMarkdown {
		t.Fatalf("unexpected mime type: %s", media.MimeType)
	}
}

func TestAcceptEmptyBundleIsNoOp(t *testing.T) {
	agg := NewAggregator("exec-1")
	if agg.Accept(resultMsg(nil)) {
		t.Fatalf("expected empty execute result to be a no-op")
	}
	if agg.Accept(displayMsg(schema.MimeBundle{})) {
		t.Fatalf("expected empty display data to be a no-op")
	}
	if len(agg.Outputs()) != 0 {
		t.Fatalf("expected no blocks")
	}
}

func TestAcceptUnknownMessageIsNoOp(t *testing.T) {
	agg := NewAggregator("exec-1")
	if agg.Accept(schema.KernelMessage{Type: schema.MsgExecuteInput}) {
		t.Fatalf("expected execute_input to be ignored")
	}
	if agg.Accept(schema.KernelMessage{Type: schema.MsgType("comm_open")}) {
		t.Fatalf("expected unknown message type to be ignored")
	}
}

func TestAcceptStatusTransitions(t *testing.T) {
	agg := NewAggregator("exec-1")
	if agg.Status() != schema.StatusUnknown {
		t.Fatalf("unexpected initial status: %v", agg.Status())
	}
	if !agg.Accept(statusMsg(schema.StateBusy)) {
		t.Fatalf("busy should change status")
	}
	if agg.Status() != schema.StatusExecuting {
		t.Fatalf("unexpected status after busy: %v", agg.Status())
	}
	if !agg.Accept(statusMsg(schema.StateIdle)) {
		t.Fatalf("idle should change status")
	}
	if agg.Status() != schema.StatusFinished {
		t.Fatalf("unexpected status after idle: %v", agg.Status())
	}
	if agg.Accept(statusMsg(schema.StateStarting)) {
		t.Fatalf("starting should be ignored")
	}
	if len(agg.Outputs()) != 0 {
		t.Fatalf("status messages must not create blocks")
	}
}

func TestAcceptErrorBuildsTraceback(t *testing.T) {
	agg := NewAggregator("exec-1")
	agg.Accept(schema.KernelMessage{
		Type:      schema.MsgError,
		Ename:     "ZeroDivisionError",
		Evalue:    "division by zero",
		Traceback: []string{"Traceback (most recent call last):", "  File \"<stdin>\""},
	})

	outputs := agg.Outputs()
	block := outputs[0].(*ErrorBlock)
	if block.Ename != "ZeroDivisionError" || block.Evalue != "division by zero" {
		t.Fatalf("unexpected error head: %s / %s", block.Ename, block.Evalue)
	}
	want := []string{"Traceback (most recent call last):", "  File \"<stdin>\""}
	if got := block.Traceback.Lines(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected traceback lines: %#v", got)
	}
}

func TestNumLinesEmptyReservesStatusLine(t *testing.T) {
	agg := NewAggregator("exec-1")
	if got := agg.NumLines(); got != 1 {
		t.Fatalf("expected height 1 for empty aggregator, got %d", got)
	}
}

func TestNumLinesSaturates(t *testing.T) {
	agg := NewAggregator("exec-1")
	for i := 0; i < 300; i++ {
		agg.Accept(displayMsg(schema.MimeBundle{schema.MimePlain: fmt.Sprintf("line %d", i)}))
	}
	if got := agg.NumLines(); got != math.MaxUint8 {
		t.Fatalf("expected saturated height 255, got %d", got)
	}
}

func TestSnapshotCarriesBlocksAndStatus(t *testing.T) {
	agg := NewAggregator("exec-1")
	agg.Accept(statusMsg(schema.StateBusy))
	agg.Accept(streamMsg(schema.StreamStdout, "hello\n"))

	snapshot := agg.Snapshot()
	if snapshot.ID != "exec-1" {
		t.Fatalf("unexpected id: %s", snapshot.ID)
	}
	if snapshot.Status != schema.StatusExecuting {
		t.Fatalf("unexpected status: %v", snapshot.Status)
	}
	if len(snapshot.Blocks) != 1 || snapshot.Blocks[0].Kind != schema.BlockStream {
		t.Fatalf("unexpected blocks: %#v", snapshot.Blocks)
	}
	if snapshot.NumLines != 1 {
		t.Fatalf("unexpected height: %d", snapshot.NumLines)
	}
}
