package core

import (
	"context"

	"pkt.systems/jove/schema"
)

// Service is the transport-agnostic API for running code on kernels and
// querying aggregated execution output.
type Service interface {
	Execute(ctx context.Context, req schema.ExecuteRequest) (schema.ExecuteResponse, error)
	GetExecution(ctx context.Context, req schema.GetExecutionRequest) (schema.GetExecutionResponse, error)
	ListExecutions(ctx context.Context, req schema.ListExecutionsRequest) (schema.ListExecutionsResponse, error)
	RenderExecution(ctx context.Context, req schema.RenderExecutionRequest) (schema.RenderExecutionResponse, error)
	StopExecution(ctx context.Context, req schema.StopExecutionRequest) (schema.StopExecutionResponse, error)
	SetExecutionStatus(ctx context.Context, req schema.SetExecutionStatusRequest) (schema.SetExecutionStatusResponse, error)
}
