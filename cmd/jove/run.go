package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/jove/core"
	"pkt.systems/jove/internal/appconfig"
	"pkt.systems/jove/internal/eventbus"
	"pkt.systems/jove/internal/kernelproc"
	"pkt.systems/jove/schema"
	"pkt.systems/pslog"
)

func newRunCmd() *cobra.Command {
	var cfgPath string
	var inlineCode string
	var kernel string
	var disableAuditTrails bool
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Execute code on a kernel and print the aggregated output",
		Long: "Run executes code on the configured kernel, folds the kernel's " +
			"message stream into output blocks, and prints the rendered result. " +
			"Code is read from the file argument, --code, or stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)

			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if disableAuditTrails {
				cfg.Logging.DisableAuditTrails = true
			}
			code, err := readCode(cmd, args, inlineCode)
			if err != nil {
				return err
			}

			runner, err := kernelproc.NewRunner(kernelproc.Config{
				BinaryPath: cfg.Kernel.Binary,
				ExtraArgs:  cfg.Kernel.Args,
				Env:        toEnvList(cfg.Kernel.Env),
			})
			if err != nil {
				return err
			}
			bus := eventbus.New(logger)
			svc, err := core.NewService(schema.ServiceConfig{
				DefaultKernel:       schema.KernelName(cfg.Kernel.Name),
				BufferMaxLines:      cfg.Service.BufferMaxLines,
				DisableAuditLogging: cfg.Logging.DisableAuditTrails,
			}, core.ServiceDeps{
				Runner:    runner,
				EventSink: bus,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			// Subscribe before Execute so the finished event cannot be missed.
			events, unsubscribe := bus.Subscribe("")
			defer unsubscribe()

			resp, err := svc.Execute(ctx, schema.ExecuteRequest{
				Code:   code,
				Kernel: schema.KernelName(kernel),
			})
			if err != nil {
				return err
			}
			id := resp.Execution.ID

			if err := awaitFinished(ctx, svc, events, id); err != nil {
				return err
			}

			rendered, err := svc.RenderExecution(ctx, schema.RenderExecutionRequest{ExecutionID: id})
			if err != nil {
				return err
			}
			for _, line := range rendered.Lines {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "config path (default ~/.jove/config.yaml)")
	cmd.Flags().StringVarP(&inlineCode, "code", "c", "", "inline code to execute")
	cmd.Flags().StringVar(&kernel, "kernel", "", "kernel name (default from config)")
	cmd.Flags().BoolVar(&disableAuditTrails, "no-audit-trails", false, "disable audit trail logs")
	return cmd
}

func awaitFinished(ctx context.Context, svc core.Service, events <-chan eventbus.Event, id schema.ExecutionID) error {
	for {
		select {
		case <-ctx.Done():
			stopCtx := context.Background()
			if _, err := svc.StopExecution(stopCtx, schema.StopExecutionRequest{ExecutionID: id}); err != nil {
				pslog.Ctx(ctx).Warn("stop on interrupt failed", "err", err)
			}
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return errors.New("event stream closed")
			}
			if event.Type != eventbus.EventStatus {
				continue
			}
			if event.Status.ExecutionID != id {
				continue
			}
			if event.Status.Status == schema.StatusFinished {
				return nil
			}
		}
	}
}

func readCode(cmd *cobra.Command, args []string, inline string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", schema.ErrEmptyCode
	}
	return string(data), nil
}

func toEnvList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for key, value := range env {
		out = append(out, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(out)
	return out
}
