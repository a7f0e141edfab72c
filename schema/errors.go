package schema

import "errors"

var (
	// ErrEmptyCode indicates the submitted code was empty.
	ErrEmptyCode = errors.New("empty code")
	// ErrExecutionNotFound indicates a requested execution could not be found.
	ErrExecutionNotFound = errors.New("execution not found")
	// ErrKernelUnavailable indicates no kernel runner is configured.
	ErrKernelUnavailable = errors.New("kernel not configured")
	// ErrInvalidKernel indicates an invalid kernel name.
	ErrInvalidKernel = errors.New("invalid kernel")
)
