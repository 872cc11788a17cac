package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jamielinux/pyright-polite/internal/diagfmt"
	"github.com/jamielinux/pyright-polite/internal/driver"
	"github.com/jamielinux/pyright-polite/internal/mode"
	"github.com/jamielinux/pyright-polite/internal/platform"
)

type fakeApp struct {
	*app
	stdout bytes.Buffer
	stderr bytes.Buffer
	calls  []driver.Options
}

func newFakeApp(t *testing.T) *fakeApp {
	t.Helper()
	dir := t.TempDir()
	f := &fakeApp{}
	f.app = &app{
		stdout: &f.stdout,
		stderr: &f.stderr,
		plat:   platform.Current(),
		getwd:  func() (string, error) { return dir, nil },
		locate: func(platform.Platform) (string, error) { return "/usr/bin/pyright", nil },
		run: func(_ context.Context, opts driver.Options) (int, error) {
			f.calls = append(f.calls, opts)
			return 0, nil
		},
		isTTY: func() bool { return false },
	}
	return f
}

func TestPrepareArgv(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
		mode mode.Mode
	}{
		{
			name: "files only",
			args: []string{"a.py", "b.py"},
			want: []string{"/usr/bin/pyright", "--outputjson", "a.py", "b.py"},
			mode: mode.JSON,
		},
		{
			name: "canonical order",
			args: []string{"-w", "--level", "warning", "-p", "proj", "--lib", "x.py", "--createstub", "foo"},
			want: []string{"/usr/bin/pyright", "--createstub", "foo", "--lib", "--level", "warning", "--project", "proj", "--watch", "x.py"},
			mode: mode.Plaintext,
		},
		{
			name: "short forms",
			args: []string{"-t", "ts", "-v", "venvs"},
			want: []string{"/usr/bin/pyright", "--typeshed-path", "ts", "--venv-path", "venvs", "--outputjson"},
			mode: mode.JSON,
		},
		{
			name: "explicit outputjson",
			args: []string{"--outputjson", "--verifytypes", "pkg"},
			want: []string{"/usr/bin/pyright", "--verifytypes", "pkg", "--outputjson"},
			mode: mode.JSON,
		},
		{
			name: "stats is unfiltered",
			args: []string{"--stats"},
			want: []string{"/usr/bin/pyright", "--stats"},
			mode: mode.Unfiltered,
		},
		{
			name: "version discards the rest",
			args: []string{"--version", "--lib", "a.py"},
			want: []string{"/usr/bin/pyright", "--version"},
			mode: mode.Unfiltered,
		},
		{
			name: "empty value is still forwarded",
			args: []string{"-p", "", "a.py"},
			want: []string{"/usr/bin/pyright", "--project", "", "--outputjson", "a.py"},
			mode: mode.JSON,
		},
		{
			name: "files after double dash",
			args: []string{"--", "-odd.py"},
			want: []string{"/usr/bin/pyright", "--outputjson", "-odd.py"},
			mode: mode.JSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeApp(t)
			if code := execute(tt.args, f.app); code != 0 {
				t.Fatalf("execute = %d, stderr: %s", code, f.stderr.String())
			}
			if len(f.calls) != 1 {
				t.Fatalf("run called %d times", len(f.calls))
			}
			got := f.calls[0]
			if !reflect.DeepEqual(got.Argv, tt.want) {
				t.Errorf("argv = %q, want %q", got.Argv, tt.want)
			}
			if got.Mode != tt.mode {
				t.Errorf("mode = %v, want %v", got.Mode, tt.mode)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		f := newFakeApp(t)
		if code := execute([]string{arg}, f.app); code != 0 {
			t.Fatalf("%s: code = %d", arg, code)
		}
		if f.stdout.String() != helpText {
			t.Errorf("%s: help output differs:\n%s", arg, f.stdout.String())
		}
		if len(f.calls) != 0 {
			t.Errorf("%s: pyright should not run", arg)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"bad level", []string{"--level", "info"}, "argument --level: invalid choice: 'info' (choose from 'error', 'warning')"},
		{"unknown flag", []string{"--bogus"}, "unknown flag: --bogus"},
		{"missing value", []string{"a.py", "-p"}, "flag needs an argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeApp(t)
			if code := execute(tt.args, f.app); code != usageExitCode {
				t.Fatalf("code = %d, want %d", code, usageExitCode)
			}
			out := f.stderr.String()
			if !strings.HasPrefix(out, usageLine+driver.ErrorPrefix) {
				t.Errorf("stderr = %q", out)
			}
			if !strings.Contains(out, tt.msg) {
				t.Errorf("stderr %q does not mention %q", out, tt.msg)
			}
			if len(f.calls) != 0 {
				t.Error("pyright should not run after a usage error")
			}
		})
	}
}

func TestStartErrorExitCode(t *testing.T) {
	f := newFakeApp(t)
	f.locate = func(p platform.Platform) (string, error) {
		return "", &driver.StartError{Reason: "pyright could not be found in your PATH", Code: p.NotFoundCode}
	}
	code := execute([]string{"a.py"}, f.app)
	if code != f.plat.NotFoundCode {
		t.Errorf("code = %d, want %d", code, f.plat.NotFoundCode)
	}
	want := driver.ErrorPrefix + "pyright could not be found in your PATH\n"
	if f.stderr.String() != want {
		t.Errorf("stderr = %q, want %q", f.stderr.String(), want)
	}
}

func TestRunnerCodeIsExitCode(t *testing.T) {
	f := newFakeApp(t)
	f.run = func(context.Context, driver.Options) (int, error) { return 130, context.Canceled }
	if code := execute(nil, f.app); code != 130 {
		t.Errorf("code = %d, want 130", code)
	}

	f = newFakeApp(t)
	f.run = func(context.Context, driver.Options) (int, error) { return 0, errors.New("boom") }
	if code := execute(nil, f.app); code != 1 {
		t.Errorf("code = %d, want 1", code)
	}
	if f.stderr.String() != driver.ErrorPrefix+"boom\n" {
		t.Errorf("stderr = %q", f.stderr.String())
	}
}

func TestConfigFlowsIntoOptions(t *testing.T) {
	f := newFakeApp(t)
	dir := t.TempDir()
	body := `
[tool.pyright-polite]
color = "on"
startup-delay = "0s"
close-grace = "5s"
extra-noise = ["Indexing"]
`
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	f.getwd = func() (string, error) { return dir, nil }

	if code := execute([]string{"a.py"}, f.app); code != 0 {
		t.Fatalf("code = %d, stderr: %s", code, f.stderr.String())
	}
	opts := f.calls[0]
	if !opts.Pretty.Color {
		t.Error("color = on should enable colour")
	}
	if opts.StartupDelay != 0 || opts.CloseGrace.String() != "5s" {
		t.Errorf("delays = %v/%v", opts.StartupDelay, opts.CloseGrace)
	}
	if !opts.Filter.Suppress("Indexing 3 files") {
		t.Error("extra noise prefix not applied")
	}
}

func TestBadConfigExitsOne(t *testing.T) {
	f := newFakeApp(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[tool.pyright-polite]\ncolor = \"sometimes\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	f.getwd = func() (string, error) { return dir, nil }

	if code := execute([]string{"a.py"}, f.app); code != 1 {
		t.Fatalf("code = %d, want 1", code)
	}
	if !strings.HasPrefix(f.stderr.String(), driver.ErrorPrefix) || !strings.Contains(f.stderr.String(), "invalid color mode") {
		t.Errorf("stderr = %q", f.stderr.String())
	}
}

func TestPoliteVersion(t *testing.T) {
	f := newFakeApp(t)
	if code := execute([]string{"--polite-version"}, f.app); code != 0 {
		t.Fatalf("code = %d", code)
	}
	if !strings.HasPrefix(f.stdout.String(), "pyright-polite ") {
		t.Errorf("stdout = %q", f.stdout.String())
	}
	if len(f.calls) != 0 {
		t.Error("pyright should not run for --polite-version")
	}
}

func TestColorEnabled(t *testing.T) {
	f := newFakeApp(t)
	if f.colorEnabled(diagfmt.ColorAuto) {
		t.Error("auto without a terminal must be off")
	}
	if f.colorEnabled(diagfmt.ColorOff) {
		t.Error("off must be off")
	}
	if !f.colorEnabled(diagfmt.ColorOn) {
		t.Error("on must be on")
	}
}

func TestTimingsPrintedToStderr(t *testing.T) {
	f := newFakeApp(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("[tool.pyright-polite]\ntimings = true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	f.getwd = func() (string, error) { return dir, nil }
	f.run = func(_ context.Context, opts driver.Options) (int, error) {
		if opts.Timer == nil {
			t.Error("timings = true should pass a timer")
		}
		opts.Timer.End(opts.Timer.Begin("run"), "")
		return 0, nil
	}

	if code := execute([]string{"a.py"}, f.app); code != 0 {
		t.Fatalf("code = %d, stderr: %s", code, f.stderr.String())
	}
	if !strings.HasPrefix(f.stderr.String(), "pyright-polite timings:\n") {
		t.Errorf("stderr = %q", f.stderr.String())
	}
	if f.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", f.stdout.String())
	}
}
