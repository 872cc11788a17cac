package driver

import (
	"os"
	"os/signal"
	"sync"

	"github.com/jamielinux/pyright-polite/internal/platform"
	"github.com/jamielinux/pyright-polite/internal/trace"
)

// terminator is the part of the child the bridge needs.
type terminator interface {
	running() bool
	interrupt() error
}

// bridge turns signals delivered to the supervisor into an exit code and a
// termination request for the child.
type bridge struct {
	table  platform.SignalTable
	state  *State
	child  terminator
	tracer trace.Tracer
	parent uint64

	ch   chan os.Signal
	stop chan struct{}
	done chan struct{}

	installed bool
	once      sync.Once
}

func newBridge(table platform.SignalTable, state *State, child terminator, tracer trace.Tracer, parent uint64) *bridge {
	return &bridge{
		table:  table,
		state:  state,
		child:  child,
		tracer: tracer,
		parent: parent,
		ch:     make(chan os.Signal, table.Len()),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Install starts watching every signal in the table.
func (b *bridge) Install() {
	signal.Notify(b.ch, b.table.Signals()...)
	b.installed = true
	go b.loop()
}

func (b *bridge) loop() {
	defer close(b.done)
	for {
		select {
		case sig := <-b.ch:
			b.handle(sig)
		case <-b.stop:
			return
		}
	}
}

// handle must not block on I/O: the child may be wedged on a full pipe.
func (b *bridge) handle(sig os.Signal) {
	// A second signal gets the default behaviour.
	signal.Reset(b.table.Signals()...)

	code, ok := b.table.Lookup(sig)
	if !ok {
		return
	}
	b.state.Signal(code)
	trace.Point(b.tracer, trace.ScopePhase, "signalled", sig.String(), b.parent)

	if b.child.running() {
		if err := b.child.interrupt(); err != nil {
			trace.Point(b.tracer, trace.ScopeStream, "interrupt", err.Error(), b.parent)
		}
	}
}

// Restore stops watching and returns the signals to their default
// disposition. After Restore returns no further state changes happen.
// It is idempotent.
func (b *bridge) Restore() {
	b.once.Do(func() {
		if !b.installed {
			return
		}
		signal.Stop(b.ch)
		signal.Reset(b.table.Signals()...)
		close(b.stop)
		<-b.done
	})
}
