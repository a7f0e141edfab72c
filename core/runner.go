package core

import (
	"context"

	"pkt.systems/jove/schema"
)

// Runner starts kernel executions and exposes their message stream.
type Runner interface {
	Run(ctx context.Context, req RunRequest) (RunHandle, error)
}

// RunRequest describes one code execution on a kernel.
type RunRequest struct {
	Code       string
	Kernel     schema.KernelName
	WorkingDir string
}

// RunHandle exposes the message stream and process lifecycle controls.
type RunHandle interface {
	Messages() MessageStream
	Signal(ctx context.Context, sig ProcessSignal) error
	Wait(ctx context.Context) (RunResult, error)
	Close() error
}

// MessageStream yields typed kernel messages in arrival order.
type MessageStream interface {
	Next(ctx context.Context) (schema.KernelMessage, error)
	Close() error
}

// RunResult describes the kernel process outcome.
type RunResult struct {
	ExitCode int
}

// ProcessSignal indicates which signal to send to the kernel process.
type ProcessSignal string

const (
	// ProcessSignalTERM requests a termination signal.
	ProcessSignalTERM ProcessSignal = "TERM"
	// ProcessSignalKILL requests an immediate kill signal.
	ProcessSignalKILL ProcessSignal = "KILL"
)
