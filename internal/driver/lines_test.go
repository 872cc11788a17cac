package driver

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jamielinux/pyright-polite/internal/diag"
	"github.com/jamielinux/pyright-polite/internal/mode"
	"github.com/jamielinux/pyright-polite/internal/noise"
	"github.com/jamielinux/pyright-polite/internal/trace"
)

func newTestProcessor(m mode.Mode, out *bytes.Buffer) *lineProcessor {
	return &lineProcessor{
		mode:     m,
		out:      out,
		filter:   noise.New(),
		reportMu: &sync.Mutex{},
		tracer:   trace.Nop,
	}
}

const validDoc = `{
  "generalDiagnostics": [],
  "summary": {"filesAnalyzed": 1, "errorCount": 0, "warningCount": 0, "informationCount": 0}
}
`

func feed(t *testing.T, lp *lineProcessor, from streamName, text string) error {
	t.Helper()
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if err := lp.process(line, from); err != nil {
			return err
		}
	}
	return nil
}

func TestProcessStderrIsFiltered(t *testing.T) {
	var out bytes.Buffer
	lp := newTestProcessor(mode.JSON, &out)
	if err := feed(t, lp, streamStderr, "Searching for source files\nreal problem\n"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "real problem\n" {
		t.Errorf("out = %q", out.String())
	}
	if lp.pending() {
		t.Error("stderr lines must not reach the JSON buffer")
	}
}

func TestProcessRendersReport(t *testing.T) {
	var out bytes.Buffer
	lp := newTestProcessor(mode.JSON, &out)
	if err := feed(t, lp, streamStdout, validDoc); err != nil {
		t.Fatal(err)
	}
	want := "Found 1 source file\n0 errors, 0 warnings, 0 informations\n"
	if out.String() != want {
		t.Errorf("out = %q, want %q", out.String(), want)
	}
	if lp.pending() {
		t.Error("buffer must be empty after a flush")
	}
}

// --watch mode prints one document per analysis.
func TestProcessConsecutiveReports(t *testing.T) {
	var out bytes.Buffer
	lp := newTestProcessor(mode.JSON, &out)
	if err := feed(t, lp, streamStdout, validDoc+validDoc); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "Found 1 source file\n"); n != 2 {
		t.Errorf("rendered %d reports, want 2", n)
	}
}

func TestProcessBadJSONClearsBuffer(t *testing.T) {
	var out bytes.Buffer
	lp := newTestProcessor(mode.JSON, &out)
	err := feed(t, lp, streamStdout, "{\n  \"summary\": []\n}\n")
	var jerr *diag.JSONError
	if !errors.As(err, &jerr) || jerr.Detail != "summary is invalid" {
		t.Fatalf("err = %v, want summary is invalid", err)
	}
	if lp.pending() {
		t.Error("buffer must be cleared even when parsing fails")
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be printed for bad JSON, got %q", out.String())
	}
}

func TestProcessPlaintextFiltersStdout(t *testing.T) {
	var out bytes.Buffer
	lp := newTestProcessor(mode.Plaintext, &out)
	if err := feed(t, lp, streamStdout, "Found 2 source files\n}\nstub written\n"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "}\nstub written\n" {
		t.Errorf("out = %q", out.String())
	}
}

func TestProcessInvalidUTF8(t *testing.T) {
	var out bytes.Buffer
	lp := newTestProcessor(mode.JSON, &out)
	if err := lp.process("caf\xe9\n", streamStderr); err != nil {
		t.Fatal(err)
	}
	if out.String() != "caf\uFFFD\n" {
		t.Errorf("out = %q", out.String())
	}
}
