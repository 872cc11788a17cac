package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jamielinux/pyright-polite/internal/diag"
	"github.com/jamielinux/pyright-polite/internal/diagfmt"
	"github.com/jamielinux/pyright-polite/internal/mode"
	"github.com/jamielinux/pyright-polite/internal/noise"
	"github.com/jamielinux/pyright-polite/internal/observ"
	"github.com/jamielinux/pyright-polite/internal/platform"
	"github.com/jamielinux/pyright-polite/internal/trace"
)

const (
	// DefaultStartupDelay holds back stdout so stderr's banner prints first.
	DefaultStartupDelay = 300 * time.Millisecond
	// DefaultCloseGrace is how long a child may keep running after closing
	// both output streams before it counts as misbehaving.
	DefaultCloseGrace = 2 * time.Second
)

// Options configures a Runner.
type Options struct {
	// Argv is the full command line, executable first.
	Argv []string
	Mode mode.Mode

	// Stdout and Stderr default to the process's own streams.
	Stdout io.Writer
	Stderr io.Writer
	// Env is the child's environment; nil inherits ours.
	Env []string

	Filter *noise.Filter
	Pretty diagfmt.PrettyOpts

	// StartupDelay applies before the first stdout read. Zero disables it.
	StartupDelay time.Duration
	// CloseGrace defaults to DefaultCloseGrace when not positive.
	CloseGrace time.Duration

	// Platform defaults to platform.Current().
	Platform *platform.Platform

	// Timer, when set, records the start, run and teardown phases.
	Timer *observ.Timer
}

// Runner supervises a single pyright invocation.
type Runner struct {
	opts Options
}

// New creates a Runner, filling in defaults.
func New(opts Options) *Runner {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Filter == nil {
		opts.Filter = noise.New()
	}
	if opts.CloseGrace <= 0 {
		opts.CloseGrace = DefaultCloseGrace
	}
	if opts.StartupDelay < 0 {
		opts.StartupDelay = 0
	}
	if opts.Platform == nil {
		p := platform.Current()
		opts.Platform = &p
	}
	return &Runner{opts: opts}
}

// Run starts pyright and supervises it to completion. It returns the exit
// code the supervisor should use. A *StartError is returned when pyright
// could not be started; when ctx is cancelled the child is torn down and
// ctx.Err() is returned along with whatever code was already decided.
func (r *Runner) Run(ctx context.Context) (int, error) {
	tr := trace.FromContext(ctx)
	plat := *r.opts.Platform
	state := newState(plat)

	runSpan := trace.Begin(tr, trace.ScopeRun, "run", trace.Parent(ctx))
	runSpan.WithExtra("mode", r.opts.Mode.String())

	timer := r.opts.Timer
	startPhase := timer.Begin("start")
	starting := trace.Begin(tr, trace.ScopePhase, "starting", runSpan.ID())
	proc, err := launch(launchSpec{
		argv:    r.opts.Argv,
		env:     r.opts.Env,
		capture: r.opts.Mode.Captures(),
		stdout:  r.opts.Stdout,
		stderr:  r.opts.Stderr,
		plat:    plat,
	})
	if err != nil {
		starting.End(err.Error())
		timer.End(startPhase, "failed")
		runSpan.End("start failed")
		return 0, err
	}
	br := newBridge(plat.Signals, state, proc, tr, runSpan.ID())
	br.Install()
	starting.WithExtra("pid", strconv.Itoa(proc.pid())).End("")
	timer.End(startPhase, "pid "+strconv.Itoa(proc.pid()))

	var teardownOnce sync.Once
	teardown := func() {
		teardownOnce.Do(func() {
			phase := timer.Begin("teardown")
			span := trace.Begin(tr, trace.ScopePhase, "teardown", runSpan.ID())
			br.Restore()
			note := ""
			if proc.running() {
				note = "interrupted"
				if err := proc.interrupt(); err != nil {
					trace.Point(tr, trace.ScopeStream, "interrupt", err.Error(), span.ID())
				}
			}
			<-proc.done
			proc.closePipes()
			span.End(note)
			timer.End(phase, note)
		})
	}
	defer teardown()

	runPhase := timer.Begin("run")
	running := trace.Begin(tr, trace.ScopePhase, "running", runSpan.ID())
	if !r.opts.Mode.Captures() {
		select {
		case <-proc.done:
		case <-ctx.Done():
		}
		running.End("")
		timer.End(runPhase, r.opts.Mode.String())
		teardown()
		code := state.FinishUnfiltered(proc.exitCode())
		runSpan.WithExtra("code", strconv.Itoa(code)).End("done")
		return code, ctx.Err()
	}

	groupErr := r.supervise(ctx, proc, state, teardown, tr, running.ID())
	running.End(outcome(groupErr))
	timer.End(runPhase, outcome(groupErr))

	var jerr *diag.JSONError
	if errors.As(groupErr, &jerr) && state.ClaimBadJSON() {
		fmt.Fprintf(r.opts.Stderr, "%s%s\n", ErrorPrefix, jerr.Error())
	}

	teardown()

	code := state.Finish(proc.exitCode())
	if ctx.Err() != nil {
		code = state.ReturnCode()
	}
	runSpan.WithExtra("code", strconv.Itoa(code)).End("done")
	return code, ctx.Err()
}

// supervise runs both stream readers and a child waiter as siblings. The
// first failure cancels the others; the waiter then tears the child down so
// that blocked readers see their pipes close.
func (r *Runner) supervise(ctx context.Context, proc *process, state *State, teardown func(), tr trace.Tracer, parent uint64) error {
	g, gctx := errgroup.WithContext(ctx)

	lines := &lineProcessor{
		mode:     r.opts.Mode,
		out:      newLockedWriter(r.opts.Stdout),
		filter:   r.opts.Filter,
		pretty:   r.opts.Pretty,
		reportMu: &sync.Mutex{},
		tracer:   tr,
		parent:   parent,
	}

	var readers sync.WaitGroup
	readersDone := make(chan struct{})
	readers.Add(2)
	for _, sr := range []*streamReader{
		{src: proc.stderr, name: streamStderr, lines: lines, signalled: state.Signalled},
		{src: proc.stdout, name: streamStdout, lines: lines, delay: r.opts.StartupDelay, signalled: state.Signalled},
	} {
		g.Go(func() error {
			defer readers.Done()
			span := trace.Begin(tr, trace.ScopeStream, "stream:"+sr.name.String(), parent)
			err := sr.run(gctx)
			span.End(outcome(err))
			return err
		})
	}
	go func() {
		readers.Wait()
		close(readersDone)
	}()

	g.Go(func() error {
		return r.waitChild(gctx, proc, readersDone, teardown, tr, parent)
	})

	return g.Wait()
}

// waitChild returns when the child has exited and both streams reached EOF,
// when the group is cancelled (after tearing the child down), or when both
// streams closed while the child kept running for longer than the close grace.
func (r *Runner) waitChild(ctx context.Context, proc *process, readersDone <-chan struct{}, teardown func(), tr trace.Tracer, parent uint64) error {
	grace := r.opts.CloseGrace

	select {
	case <-proc.done:
		// Output still in the pipes is drained to EOF, however slow the
		// consumer of our own output is.
		trace.Point(tr, trace.ScopePhase, "child-exited", "draining", parent)
		select {
		case <-readersDone:
			return nil
		case <-ctx.Done():
			teardown()
			return ctx.Err()
		}

	case <-ctx.Done():
		teardown()
		return ctx.Err()

	case <-readersDone:
		t := time.NewTimer(grace)
		defer t.Stop()
		select {
		case <-proc.done:
			return nil
		case <-ctx.Done():
			teardown()
			return ctx.Err()
		case <-t.C:
			trace.Point(tr, trace.ScopePhase, "streams-closed-early", "", parent)
			return errStreamsClosedEarly
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return err.Error()
	}
}
