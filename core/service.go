package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"pkt.systems/jove/internal/format"
	"pkt.systems/jove/internal/logx"
	"pkt.systems/jove/schema"
	"pkt.systems/pslog"
)

// service implements the core service behavior.
type service struct {
	cfg      schema.ServiceConfig
	runner   Runner
	renderer Renderer
	sink     EventSink
	logger   pslog.Logger
	mu       sync.Mutex
	execs    map[schema.ExecutionID]*execution
	order    []schema.ExecutionID
}

var stopSleep = time.Sleep

// execution tracks the state of a single execution request.
type execution struct {
	kernel    schema.KernelName
	agg       *Aggregator
	run       RunHandle
	runCancel context.CancelFunc
}

// NewService constructs the core service implementation.
func NewService(cfg schema.ServiceConfig, deps ServiceDeps) (Service, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	if deps.Renderer == nil {
		deps.Renderer = format.NewANSIRenderer()
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &service{
		cfg:      cfg,
		runner:   deps.Runner,
		renderer: deps.Renderer,
		sink:     deps.EventSink,
		logger:   logger,
		execs:    make(map[schema.ExecutionID]*execution),
	}, nil
}

func (s *service) Execute(ctx context.Context, req schema.ExecuteRequest) (schema.ExecuteResponse, error) {
	if ctx == nil {
		return schema.ExecuteResponse{}, errors.New("missing context")
	}
	if s.runner == nil {
		return schema.ExecuteResponse{}, schema.ErrKernelUnavailable
	}
	if strings.TrimSpace(req.Code) == "" {
		return schema.ExecuteResponse{}, schema.ErrEmptyCode
	}
	kernel := req.Kernel
	if kernel == "" {
		kernel = s.cfg.DefaultKernel
	}
	if strings.ContainsAny(string(kernel), " \t/\\") {
		return schema.ExecuteResponse{}, schema.ErrInvalidKernel
	}

	id := newExecutionID()
	baseLog := logx.WithExecution(ctx, id)
	log := logx.WithKernel(baseLog, kernel).With("code_len", len(req.Code))
	log.Info("service execute start")
	if !s.cfg.DisableAuditLogging {
		log.Debug("audit execute", "kernel", kernel, "code_len", len(req.Code))
	}

	agg := NewAggregatorWithMaxLines(id, s.cfg.BufferMaxLines)
	agg.SetStatus(schema.StatusConnectingToKernel)
	exec := &execution{kernel: kernel, agg: agg}

	s.mu.Lock()
	s.execs[id] = exec
	s.order = append(s.order, id)
	s.mu.Unlock()
	s.emitStatus(id, schema.StatusConnectingToKernel)

	runCtx, runCancel := detachRunContext(ctx)
	runCtx = logx.ContextWithExecutionLogger(runCtx, baseLog, id)
	started := time.Now()
	handle, err := s.runner.Run(runCtx, RunRequest{Code: req.Code, Kernel: kernel})
	if err != nil {
		log.Error("service kernel start failed", "err", err)
		s.mu.Lock()
		agg.SetStatus(schema.StatusFinished)
		snapshot := snapshotExecution(exec)
		s.mu.Unlock()
		s.emitStatus(id, schema.StatusFinished)
		runCancel()
		return schema.ExecuteResponse{Execution: snapshot}, err
	}

	s.mu.Lock()
	exec.run = handle
	exec.runCancel = runCancel
	snapshot := snapshotExecution(exec)
	s.mu.Unlock()
	log.Info("service kernel started")

	go s.consumeMessages(runCtx, id, handle, runCancel, started)
	return schema.ExecuteResponse{Execution: snapshot}, nil
}

func (s *service) GetExecution(ctx context.Context, req schema.GetExecutionRequest) (schema.GetExecutionResponse, error) {
	log := logx.WithExecution(ctx, req.ExecutionID)

	s.mu.Lock()
	exec := s.execs[req.ExecutionID]
	var snapshot schema.ExecutionSnapshot
	if exec != nil {
		snapshot = snapshotExecution(exec)
	}
	s.mu.Unlock()
	if exec == nil {
		log.Warn("service execution get failed", "err", schema.ErrExecutionNotFound)
		return schema.GetExecutionResponse{}, schema.ErrExecutionNotFound
	}
	log.Trace("service execution snapshot", "blocks", len(snapshot.Blocks), "status", snapshot.Status)
	return schema.GetExecutionResponse{Execution: snapshot}, nil
}

func (s *service) ListExecutions(ctx context.Context, req schema.ListExecutionsRequest) (schema.ListExecutionsResponse, error) {
	_ = req
	log := logx.Ctx(ctx)

	s.mu.Lock()
	snapshots := make([]schema.ExecutionSnapshot, 0, len(s.order))
	for _, id := range s.order {
		exec := s.execs[id]
		if exec == nil {
			continue
		}
		snapshots = append(snapshots, snapshotExecution(exec))
	}
	s.mu.Unlock()
	log.Trace("service executions listed", "count", len(snapshots))
	return schema.ListExecutionsResponse{Executions: snapshots}, nil
}

func (s *service) RenderExecution(ctx context.Context, req schema.RenderExecutionRequest) (schema.RenderExecutionResponse, error) {
	log := logx.WithExecution(ctx, req.ExecutionID)

	s.mu.Lock()
	exec := s.execs[req.ExecutionID]
	var snapshot schema.ExecutionSnapshot
	if exec != nil {
		snapshot = snapshotExecution(exec)
	}
	s.mu.Unlock()
	if exec == nil {
		log.Warn("service execution render failed", "err", schema.ErrExecutionNotFound)
		return schema.RenderExecutionResponse{}, schema.ErrExecutionNotFound
	}

	if len(snapshot.Blocks) == 0 {
		return schema.RenderExecutionResponse{
			Lines:    []string{s.renderer.RenderStatus(snapshot.Status)},
			NumLines: snapshot.NumLines,
		}, nil
	}
	lines := make([]string, 0, int(snapshot.NumLines))
	for _, block := range snapshot.Blocks {
		rendered, ok := s.renderer.RenderBlock(block)
		if !ok {
			// Unrenderable media is skipped, not an error.
			continue
		}
		lines = append(lines, rendered...)
	}
	log.Trace("service execution rendered", "lines", len(lines))
	return schema.RenderExecutionResponse{Lines: lines, NumLines: snapshot.NumLines}, nil
}

func (s *service) StopExecution(ctx context.Context, req schema.StopExecutionRequest) (schema.StopExecutionResponse, error) {
	if ctx == nil {
		return schema.StopExecutionResponse{}, errors.New("missing context")
	}
	log := logx.WithExecution(ctx, req.ExecutionID)

	s.mu.Lock()
	exec := s.execs[req.ExecutionID]
	handle := RunHandle(nil)
	runCancel := context.CancelFunc(nil)
	var snapshot schema.ExecutionSnapshot
	if exec != nil {
		handle = exec.run
		runCancel = exec.runCancel
		snapshot = snapshotExecution(exec)
	}
	s.mu.Unlock()
	if exec == nil {
		log.Warn("service stop failed", "err", schema.ErrExecutionNotFound)
		return schema.StopExecutionResponse{}, schema.ErrExecutionNotFound
	}
	if handle == nil {
		log.Info("service stop ignored", "reason", "no running kernel")
		return schema.StopExecutionResponse{Execution: snapshot}, nil
	}

	log.Info("service stop requested")
	go s.stopHandle(log, req.ExecutionID, handle, runCancel)
	return schema.StopExecutionResponse{Execution: snapshot}, nil
}

func (s *service) SetExecutionStatus(ctx context.Context, req schema.SetExecutionStatusRequest) (schema.SetExecutionStatusResponse, error) {
	log := logx.WithExecution(ctx, req.ExecutionID)

	s.mu.Lock()
	exec := s.execs[req.ExecutionID]
	var snapshot schema.ExecutionSnapshot
	if exec != nil {
		exec.agg.SetStatus(req.Status)
		snapshot = snapshotExecution(exec)
	}
	s.mu.Unlock()
	if exec == nil {
		log.Warn("service status update failed", "err", schema.ErrExecutionNotFound)
		return schema.SetExecutionStatusResponse{}, schema.ErrExecutionNotFound
	}
	s.emitStatus(req.ExecutionID, req.Status)
	log.Info("service status updated", "status", req.Status)
	return schema.SetExecutionStatusResponse{Execution: snapshot}, nil
}

func (s *service) consumeMessages(ctx context.Context, id schema.ExecutionID, handle RunHandle, cancel context.CancelFunc, started time.Time) {
	log := logx.WithExecution(ctx, id)
	defer func() {
		if cancel != nil {
			cancel()
		}
	}()
	log.Info("service message stream start")
	stream := handle.Messages()
	messageCount := 0
	for {
		msg, err := stream.Next(ctx)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				log.Warn("service message stream error", "err", err)
			}
			break
		}
		messageCount++

		s.mu.Lock()
		exec := s.execs[id]
		if exec == nil {
			s.mu.Unlock()
			break
		}
		previous := exec.agg.Status()
		changed := exec.agg.Accept(msg)
		status := exec.agg.Status()
		s.mu.Unlock()

		if !changed {
			log.Trace("service message ignored", "type", msg.Type)
			continue
		}
		if status != previous {
			s.emitStatus(id, status)
		}
		if msg.Type != schema.MsgStatus {
			s.emitOutput(id)
		}
	}

	result, err := handle.Wait(ctx)
	if err != nil {
		log.Warn("service kernel wait failed", "err", err)
	} else if result.ExitCode != 0 {
		log.Warn("service kernel non-zero exit", "exit_code", result.ExitCode)
	}
	if closeErr := handle.Close(); closeErr != nil {
		log.Warn("service kernel close failed", "err", closeErr)
	}
	if err == nil {
		log.Info("service execution finished", "exit_code", result.ExitCode, "messages", messageCount, "duration_ms", time.Since(started).Milliseconds())
	}

	// A kernel can die without reporting idle; force the terminal state so
	// subscribers are not left waiting on a status that will never arrive.
	s.mu.Lock()
	exec := s.execs[id]
	emitFinal := false
	if exec != nil {
		if exec.run == handle {
			exec.run = nil
			exec.runCancel = nil
		}
		if exec.agg.Status() != schema.StatusFinished {
			exec.agg.SetStatus(schema.StatusFinished)
			emitFinal = true
		}
	}
	s.mu.Unlock()
	if emitFinal {
		s.emitStatus(id, schema.StatusFinished)
	}
}

func (s *service) stopHandle(log pslog.Logger, id schema.ExecutionID, handle RunHandle, cancel context.CancelFunc) {
	signalCtx := context.Background()
	if log != nil {
		signalCtx = logx.ContextWithExecutionLogger(signalCtx, log, id)
	}
	if err := handle.Signal(signalCtx, ProcessSignalTERM); err != nil && log != nil {
		log.Warn("service stop signal failed", "signal", ProcessSignalTERM, "err", err)
	}
	stopSleep(5 * time.Second)
	if !isDone(handleDone(handle)) {
		if err := handle.Signal(signalCtx, ProcessSignalKILL); err != nil && log != nil {
			log.Warn("service stop signal failed", "signal", ProcessSignalKILL, "err", err)
		}
	}
	if cancel != nil {
		cancel()
	}
	if log != nil {
		log.Info("service stop completed")
	}
}

func handleDone(h any) <-chan struct{} {
	if h == nil {
		return nil
	}
	if done, ok := h.(interface{ Done() <-chan struct{} }); ok {
		return done.Done()
	}
	return nil
}

func isDone(ch <-chan struct{}) bool {
	if ch == nil {
		return false
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func (s *service) emitOutput(id schema.ExecutionID) {
	if s.sink == nil {
		return
	}
	s.sink.OnOutput(schema.OutputEvent{ExecutionID: id})
}

func (s *service) emitStatus(id schema.ExecutionID, status schema.ExecutionStatus) {
	if s.sink == nil {
		return
	}
	s.sink.OnStatus(schema.StatusEvent{ExecutionID: id, Status: status})
}

func snapshotExecution(exec *execution) schema.ExecutionSnapshot {
	snapshot := exec.agg.Snapshot()
	snapshot.Kernel = exec.kernel
	return snapshot
}

func detachRunContext(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.Background()
	if ctx != nil {
		if logger := pslog.Ctx(ctx); logger != nil {
			base = logx.CopyContextFields(pslog.ContextWithLogger(base, logger), ctx)
		}
	}
	return context.WithCancel(base)
}
