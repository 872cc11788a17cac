package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/jamielinux/pyright-polite/internal/diag"
)

// pyright from pypi always prints a KeyboardInterrupt traceback after Ctrl-C
// in --watch mode.
const tracebackPrefix = "Traceback (most recent call last):"

type streamReader struct {
	src       io.Reader
	name      streamName
	lines     *lineProcessor
	delay     time.Duration
	signalled func() bool
}

// run reads src line by line until EOF. A final line without a newline is
// still delivered. A read that fails because teardown closed the pipe is
// reported as context.Canceled.
func (r *streamReader) run(ctx context.Context) error {
	// Let pyright's stderr banner come out first, as pyright itself does.
	if r.name == streamStdout && r.delay > 0 {
		t := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	br := bufio.NewReader(r.src)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if r.name == streamStderr && r.signalled() && strings.HasPrefix(line, tracebackPrefix) {
				return nil
			}
			if perr := r.lines.process(line, r.name); perr != nil {
				return perr
			}
			runtime.Gosched()
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		if err == nil {
			continue
		}
		switch {
		case errors.Is(err, io.EOF):
			if r.name == streamStdout && r.lines.pending() {
				return diag.NewJSONError("unexpected EOF")
			}
			return nil
		case errors.Is(err, os.ErrClosed):
			return context.Canceled
		default:
			return fmt.Errorf("failed to read pyright %s: %w", r.name, err)
		}
	}
}
