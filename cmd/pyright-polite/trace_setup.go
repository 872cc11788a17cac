package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jamielinux/pyright-polite/internal/trace"
)

// setupTracing creates the tracer described by cfg and attaches it to ctx.
// It returns the new context, a cleanup function and an error if
// initialization fails.
func setupTracing(ctx context.Context, cfg traceConfig, errOut io.Writer) (context.Context, func(), error) {
	if cfg.Level == trace.LevelOff {
		return trace.WithTracer(ctx, trace.Nop), func() {}, nil
	}

	tracer, err := trace.New(trace.Config{
		Level:      cfg.Level,
		Mode:       cfg.Mode,
		Format:     cfg.Format,
		OutputPath: cfg.Output,
		RingSize:   cfg.RingSize,
		Heartbeat:  cfg.Heartbeat,
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx = trace.WithTracer(ctx, tracer)

	var heartbeat *trace.Heartbeat
	if cfg.Heartbeat > 0 {
		heartbeat = trace.StartHeartbeat(tracer, cfg.Heartbeat)
	}

	cleanup := func() {
		// Stop heartbeat first
		if heartbeat != nil {
			heartbeat.Stop()
		}

		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: close error: %v\n", err)
		}
	}

	return ctx, cleanup, nil
}

// dumpTraceOnPanic writes the in-memory trace to errOut and re-panics.
// Use as: defer dumpTraceOnPanic(ctx, errOut)
func dumpTraceOnPanic(ctx context.Context, errOut io.Writer) {
	r := recover()
	if r == nil {
		return
	}
	if d, ok := trace.FromContext(ctx).(trace.Dumper); ok {
		fmt.Fprintln(errOut, "pyright-polite: panic, recent trace events:")
		_ = d.Dump(errOut, trace.FormatText) //nolint:errcheck
	}
	panic(r)
}
