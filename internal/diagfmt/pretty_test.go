package diagfmt

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamielinux/pyright-polite/internal/diag"
)

func parseFixture(t *testing.T) *diag.Report {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "report.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	r, err := diag.Parse(string(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return r
}

// TestPrettyGolden сравнивает вывод без цвета с эталоном
func TestPrettyGolden(t *testing.T) {
	want, err := os.ReadFile(filepath.Join("testdata", "report.golden"))
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}

	var buf bytes.Buffer
	if err := Pretty(&buf, parseFixture(t), PrettyOpts{Color: false}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if got := buf.String(); got != string(want) {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettySingleFile(t *testing.T) {
	rule := "reportMissingImports"
	r := &diag.Report{
		Summary: diag.Summary{Analyzed: 1, Errors: 1},
		Diagnostics: []diag.Diagnostic{{
			File:      "/a.py",
			Severity:  diag.SevError,
			Message:   `Import "foo" could not be resolved`,
			StartLine: 24,
			StartChar: 5,
			Rule:      &rule,
		}},
	}

	var buf bytes.Buffer
	if err := Pretty(&buf, r, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "Found 1 source file\n" +
		"/a.py\n" +
		"  /a.py:25:6 - error: Import \"foo\" could not be resolved (reportMissingImports)\n" +
		"1 errors, 0 warnings, 0 informations\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

// Повторяющийся файл после другого печатается снова.
func TestPrettyNonContiguousFiles(t *testing.T) {
	r := &diag.Report{
		Summary: diag.Summary{Analyzed: 2, Errors: 3},
		Diagnostics: []diag.Diagnostic{
			{File: "/a.py", Severity: diag.SevError, Message: "one"},
			{File: "/b.py", Severity: diag.SevError, Message: "two"},
			{File: "/a.py", Severity: diag.SevError, Message: "three"},
		},
	}
	var buf bytes.Buffer
	if err := Pretty(&buf, r, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if n := strings.Count(buf.String(), "\n/a.py\n"); n != 2 {
		t.Errorf("file header for /a.py printed %d times, want 2:\n%s", n, buf.String())
	}
}

func TestPrettyEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, &diag.Report{}, PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "Found 0 source files\n0 errors, 0 warnings, 0 informations\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, parseFixture(t), PrettyOpts{Color: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"\x1b[33m25\x1b[",
		"\x1b[31merror\x1b[",
		"\x1b[36mwarning\x1b[",
		"\x1b[90m(reportMissingImports)\x1b[",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("coloured output missing %q", want)
		}
	}
	if strings.Contains(out, "\x1b[33mFound") {
		t.Error("header must not be coloured")
	}
}

type countingWriter struct {
	writes int
	err    error
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return len(p), w.err
}

func TestPrettySingleWrite(t *testing.T) {
	w := &countingWriter{}
	if err := Pretty(w, parseFixture(t), PrettyOpts{}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if w.writes != 1 {
		t.Errorf("Pretty issued %d writes, want 1", w.writes)
	}

	w = &countingWriter{err: errors.New("closed")}
	if err := Pretty(w, parseFixture(t), PrettyOpts{}); err == nil {
		t.Error("Pretty should return the writer's error")
	}
}

func TestColorMode(t *testing.T) {
	tests := []struct {
		in      string
		tty     bool
		enabled bool
	}{
		{"auto", true, true},
		{"auto", false, false},
		{"on", false, true},
		{"off", true, false},
		{"", true, true},
	}
	for _, tt := range tests {
		m, err := ParseColorMode(tt.in)
		if err != nil {
			t.Fatalf("ParseColorMode(%q): %v", tt.in, err)
		}
		if got := m.Enabled(tt.tty); got != tt.enabled {
			t.Errorf("%q.Enabled(%v) = %v, want %v", tt.in, tt.tty, got, tt.enabled)
		}
	}
	if _, err := ParseColorMode("always"); err == nil {
		t.Error("ParseColorMode(always) should fail")
	}
}
