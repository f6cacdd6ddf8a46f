package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"quill/internal/trace"
)

func addTraceFlags(rootCmd *cobra.Command) {
	pf := rootCmd.PersistentFlags()
	pf.String("trace", "", "write trace events to a file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|file|rule)")
	pf.String("trace-format", "text", "trace output format (text|ndjson)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring|both")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
}

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазовую трассировку
	if level == trace.LevelOff && traceOutput != "" && !root.PersistentFlags().Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}
	if traceOutput == "" {
		traceOutput = "-"
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	runSpan := trace.Begin(tracer, trace.ScopeDriver, cmd.Name(), 0).WithExtra("run_id", uuid.NewString())
	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: runSpan.ID()})
	cmd.SetContext(ctx)

	stopHeartbeat := trace.StartHeartbeat(tracer, heartbeatInterval)

	cleanup := func() {
		stopHeartbeat()
		runSpan.End("")
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := dumpRing(cmd, ring, traceOutput, format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// dumpRing пишет содержимое кольцевого буфера при завершении команды.
func dumpRing(cmd *cobra.Command, ring *trace.RingTracer, path string, format trace.Format) error {
	if path == "-" {
		return ring.Dump(cmd.ErrOrStderr(), format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ring.Dump(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// withTracing wraps a RunE so the tracer and profilers live exactly as long as the command.
func withTracing(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		defer stopProfiling()

		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
		return run(cmd, args)
	}
}
