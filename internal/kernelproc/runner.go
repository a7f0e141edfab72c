package kernelproc

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"pkt.systems/jove/core"
	"pkt.systems/jove/schema"
	"pkt.systems/pslog"
)

// Config controls how the kernel process is invoked.
type Config struct {
	BinaryPath string
	ExtraArgs  []string
	Env        []string
}

// Runner implements core.Runner by spawning a kernel shim process that
// reads code on stdin and writes JSONL kernel messages on stdout.
type Runner struct {
	cfg Config
}

// NewRunner constructs a kernel process runner.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "jove-kernel"
	}
	return &Runner{cfg: cfg}, nil
}

// Run starts a kernel process for one execution request.
func (r *Runner) Run(ctx context.Context, req core.RunRequest) (core.RunHandle, error) {
	if req.Code == "" {
		return nil, schema.ErrEmptyCode
	}
	args := buildKernelArgs(r.cfg, req)
	log := pslog.Ctx(ctx)
	if log != nil {
		log.Info(
			"kernel exec start",
			"binary", r.cfg.BinaryPath,
			"workdir", req.WorkingDir,
			"args_len", len(args),
			"kernel", req.Kernel,
			"code_len", len(req.Code),
			"env_extra", len(r.cfg.Env),
		)
	}

	cmd := exec.CommandContext(ctx, r.cfg.BinaryPath, args...)
	if req.WorkingDir != "" {
		cmd.Dir = req.WorkingDir
	}
	if len(r.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), r.cfg.Env...)
	} else {
		cmd.Env = append(cmd.Env, os.Environ()...)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		if log != nil {
			log.Error("kernel exec stdout failed", "err", err)
		}
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		if log != nil {
			log.Error("kernel exec stderr failed", "err", err)
		}
		return nil, err
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		if log != nil {
			log.Error("kernel exec stdin failed", "err", err)
		}
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		if log != nil {
			log.Error("kernel exec start failed", "err", err)
		}
		return nil, err
	}
	if log != nil && cmd.Process != nil {
		log.Info("kernel exec started", "pid", cmd.Process.Pid)
	}

	go func() {
		_, _ = io.WriteString(stdin, req.Code)
		_ = stdin.Close()
	}()

	stream := newCombinedStream(ctx, stdout, stderr)
	handle := &runHandle{
		cmd:     cmd,
		stream:  stream,
		log:     log,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	return handle, nil
}

func buildKernelArgs(cfg Config, req core.RunRequest) []string {
	args := []string{}
	if req.Kernel != "" {
		args = append(args, "--kernel", string(req.Kernel))
	}
	args = append(args, cfg.ExtraArgs...)
	args = append(args, "-")
	return args
}

type runHandle struct {
	cmd     *exec.Cmd
	stream  *combinedStream
	log     pslog.Logger
	started time.Time
	done    chan struct{}
}

func (r *runHandle) Messages() core.MessageStream {
	return r.stream
}

// Done is closed once Wait observes process exit.
func (r *runHandle) Done() <-chan struct{} {
	return r.done
}

func (r *runHandle) Signal(ctx context.Context, sig core.ProcessSignal) error {
	_ = ctx
	if r.cmd == nil || r.cmd.Process == nil {
		return fmt.Errorf("process not started")
	}
	switch sig {
	case core.ProcessSignalTERM:
		return r.cmd.Process.Signal(syscall.SIGTERM)
	case core.ProcessSignalKILL:
		return r.cmd.Process.Signal(syscall.SIGKILL)
	default:
		return fmt.Errorf("unsupported signal: %s", sig)
	}
}

func (r *runHandle) Wait(ctx context.Context) (core.RunResult, error) {
	_ = ctx
	if r.cmd == nil {
		return core.RunResult{}, fmt.Errorf("process not started")
	}
	defer close(r.done)
	err := r.cmd.Wait()
	signal := ""
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				signal = status.Signal().String()
			}
		} else {
			if r.log != nil {
				r.log.Error("kernel exec wait failed", "err", err)
			}
			return core.RunResult{}, err
		}
	}
	if r.log != nil {
		fields := []any{
			"exit_code", exitCode,
			"duration_ms", time.Since(r.started).Milliseconds(),
		}
		if signal != "" {
			fields = append(fields, "signal", signal)
		}
		if err != nil {
			fields = append(fields, "err", err)
		}
		r.log.Info("kernel exec finished", fields...)
	}
	return core.RunResult{ExitCode: exitCode}, nil
}

func (r *runHandle) Close() error {
	if r.stream != nil {
		_ = r.stream.Close()
	}
	return nil
}
