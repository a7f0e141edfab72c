package logx

import (
	"context"

	"pkt.systems/jove/schema"
	"pkt.systems/pslog"
)

type contextKey int

const executionKey contextKey = iota

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithExecution annotates the logger with the execution id if present.
func WithExecution(ctx context.Context, id schema.ExecutionID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if id != "" {
		if current, ok := ctx.Value(executionKey).(schema.ExecutionID); ok && current == id {
			return log
		}
		log = log.With("execution", id)
	}
	return log
}

// WithKernel annotates the logger with a kernel name when available.
func WithKernel(log pslog.Logger, kernel schema.KernelName) pslog.Logger {
	if kernel != "" {
		log = log.With("kernel", kernel)
	}
	return log
}

// ContextWithExecution stores the execution marker on the context for log
// de-duplication.
func ContextWithExecution(ctx context.Context, id schema.ExecutionID) context.Context {
	if ctx == nil || id == "" {
		return ctx
	}
	return context.WithValue(ctx, executionKey, id)
}

// ContextWithExecutionLogger attaches the logger and execution marker to
// the context.
func ContextWithExecutionLogger(ctx context.Context, log pslog.Logger, id schema.ExecutionID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithExecution(ctx, id)
}

// CopyContextFields copies the execution marker from src to dst.
func CopyContextFields(dst context.Context, src context.Context) context.Context {
	if src == nil {
		return dst
	}
	if id, ok := src.Value(executionKey).(schema.ExecutionID); ok && id != "" {
		dst = ContextWithExecution(dst, id)
	}
	return dst
}
