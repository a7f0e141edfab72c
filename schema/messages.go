package schema

import "encoding/json"

// MsgType is the discriminator on messages arriving from a kernel.
type MsgType string

const (
	// MsgExecuteResult carries the final result of an execute request.
	MsgExecuteResult MsgType = "execute_result"
	// MsgDisplayData carries a rich display update.
	MsgDisplayData MsgType = "display_data"
	// MsgStream carries a chunk of stdout/stderr text.
	MsgStream MsgType = "stream"
	// MsgError carries a structured execution failure.
	MsgError MsgType = "error"
	// MsgStatus carries a kernel execution-state transition.
	MsgStatus MsgType = "status"
	// MsgExecuteInput echoes the code being executed.
	MsgExecuteInput MsgType = "execute_input"
	// MsgClearOutput requests clearing previously displayed output.
	MsgClearOutput MsgType = "clear_output"
)

// ExecutionState is the kernel-reported busy/idle state.
type ExecutionState string

const (
	// StateBusy indicates the kernel is processing the request.
	StateBusy ExecutionState = "busy"
	// StateIdle indicates the kernel finished processing the request.
	StateIdle ExecutionState = "idle"
	// StateStarting indicates the kernel is still starting up.
	StateStarting ExecutionState = "starting"
)

// KernelMessage is one unit of execution feedback from a kernel, already
// decoded and typed by the transport layer.
type KernelMessage struct {
	Type      MsgType         `json:"msg_type"`
	Data      MimeBundle      `json:"data,omitempty"`
	Name      StreamName      `json:"name,omitempty"`
	Text      string          `json:"text,omitempty"`
	Ename     string          `json:"ename,omitempty"`
	Evalue    string          `json:"evalue,omitempty"`
	Traceback []string        `json:"traceback,omitempty"`
	State     ExecutionState  `json:"execution_state,omitempty"`
	Raw       json.RawMessage `json:"-"`
}
