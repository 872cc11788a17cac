package driver

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jamielinux/pyright-polite/internal/diag"
	"github.com/jamielinux/pyright-polite/internal/diagfmt"
	"github.com/jamielinux/pyright-polite/internal/mode"
	"github.com/jamielinux/pyright-polite/internal/noise"
	"github.com/jamielinux/pyright-polite/internal/trace"
)

type streamName uint8

const (
	streamStderr streamName = iota
	streamStdout
)

func (s streamName) String() string {
	if s == streamStdout {
		return "stdout"
	}
	return "stderr"
}

// lineProcessor routes lines from both readers. Only the stdout reader
// touches buf, so buf needs no lock.
type lineProcessor struct {
	mode   mode.Mode
	out    io.Writer
	filter *noise.Filter
	pretty diagfmt.PrettyOpts

	reportMu *sync.Mutex
	buf      []string

	tracer trace.Tracer
	parent uint64
}

func (lp *lineProcessor) process(raw string, from streamName) error {
	line := strings.ToValidUTF8(raw, "\uFFFD")
	trace.Point(lp.tracer, trace.ScopeLine, from.String(), strings.TrimRight(line, "\r\n"), lp.parent)

	if from == streamStderr || lp.mode == mode.Plaintext {
		if err := lp.filter.Print(lp.out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	lp.buf = append(lp.buf, line)
	if !strings.HasPrefix(line, "}") {
		return nil
	}
	return lp.flush()
}

// flush parses the buffered document. The buffer is emptied whether or not
// the document is valid.
func (lp *lineProcessor) flush() error {
	doc := strings.Join(lp.buf, "")
	lp.buf = lp.buf[:0]

	report, err := diag.Parse(doc)
	if err != nil {
		return err
	}
	trace.Point(lp.tracer, trace.ScopeStream, "report", diag.FormatShort(report.Diagnostics), lp.parent)

	lp.reportMu.Lock()
	defer lp.reportMu.Unlock()
	if err := diagfmt.Pretty(lp.out, report, lp.pretty); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// pending reports whether part of a document is waiting for its closing brace.
func (lp *lineProcessor) pending() bool {
	return len(lp.buf) > 0
}
