package schema

// Execution lifecycle.

// ExecuteRequest describes a request to run code on a kernel.
type ExecuteRequest struct {
	Code   string
	Kernel KernelName
}

// ExecuteResponse reports the created execution.
type ExecuteResponse struct {
	Execution ExecutionSnapshot
}

// GetExecutionRequest describes a request for one execution snapshot.
type GetExecutionRequest struct {
	ExecutionID ExecutionID
}

// GetExecutionResponse reports the execution snapshot.
type GetExecutionResponse struct {
	Execution ExecutionSnapshot
}

// ListExecutionsRequest describes a request to list executions.
type ListExecutionsRequest struct{}

// ListExecutionsResponse reports executions in creation order.
type ListExecutionsResponse struct {
	Executions []ExecutionSnapshot
}

// RenderExecutionRequest describes a request to render an execution as
// display lines.
type RenderExecutionRequest struct {
	ExecutionID ExecutionID
}

// RenderExecutionResponse reports the rendered lines and the advisory
// line height.
type RenderExecutionResponse struct {
	Lines    []string
	NumLines uint8
}

// StopExecutionRequest describes a request to stop a running execution.
type StopExecutionRequest struct {
	ExecutionID ExecutionID
}

// StopExecutionResponse reports the execution snapshot after the stop
// request was issued.
type StopExecutionResponse struct {
	Execution ExecutionSnapshot
}

// SetExecutionStatusRequest forces a status transition from outside the
// message stream.
type SetExecutionStatusRequest struct {
	ExecutionID ExecutionID
	Status      ExecutionStatus
}

// SetExecutionStatusResponse reports the execution snapshot.
type SetExecutionStatusResponse struct {
	Execution ExecutionSnapshot
}
