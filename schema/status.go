package schema

// ExecutionStatus tracks the lifecycle of one execution request.
type ExecutionStatus int

const (
	// StatusUnknown is the initial status before any kernel feedback.
	StatusUnknown ExecutionStatus = iota
	// StatusConnectingToKernel indicates the kernel is being reached.
	StatusConnectingToKernel
	// StatusExecuting indicates the kernel reported busy.
	StatusExecuting
	// StatusFinished indicates the kernel reported idle.
	StatusFinished
)

// String returns the status name for logs.
func (s ExecutionStatus) String() string {
	switch s {
	case StatusConnectingToKernel:
		return "connecting"
	case StatusExecuting:
		return "executing"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}
