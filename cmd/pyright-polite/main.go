package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jamielinux/pyright-polite/internal/diagfmt"
	"github.com/jamielinux/pyright-polite/internal/driver"
	"github.com/jamielinux/pyright-polite/internal/mode"
	"github.com/jamielinux/pyright-polite/internal/noise"
	"github.com/jamielinux/pyright-polite/internal/observ"
	"github.com/jamielinux/pyright-polite/internal/platform"
	"github.com/jamielinux/pyright-polite/internal/prof"
	"github.com/jamielinux/pyright-polite/internal/trace"
	"github.com/jamielinux/pyright-polite/internal/version"
)

// usageExitCode matches the exit status of an argument error.
const usageExitCode = 4

type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

// app holds everything the root command touches outside the process, so
// tests can substitute it.
type app struct {
	stdout io.Writer
	stderr io.Writer

	plat   platform.Platform
	getwd  func() (string, error)
	locate func(platform.Platform) (string, error)
	run    func(ctx context.Context, opts driver.Options) (int, error)
	isTTY  func() bool

	code int
}

func newApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		plat:   platform.Current(),
		getwd:  os.Getwd,
		locate: findPyright,
		run: func(ctx context.Context, opts driver.Options) (int, error) {
			return driver.New(opts).Run(ctx)
		},
		isTTY: func() bool { return isTerminal(os.Stdout) },
	}
}

func main() {
	os.Exit(execute(os.Args[1:], newApp()))
}

// execute runs the root command and maps its outcome to an exit code.
func execute(args []string, a *app) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return a.code
	}

	var uerr usageError
	var serr *driver.StartError
	switch {
	case errors.As(err, &uerr):
		fmt.Fprint(a.stderr, usageLine)
		fmt.Fprintf(a.stderr, "%s%s\n", driver.ErrorPrefix, uerr.msg)
		return usageExitCode
	case errors.As(err, &serr):
		fmt.Fprintf(a.stderr, "%s%s\n", driver.ErrorPrefix, serr.Reason)
		return serr.Code
	default:
		fmt.Fprintf(a.stderr, "%s%v\n", driver.ErrorPrefix, err)
		return 1
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pyright-polite [options] files...",
		Short:         "Run pyright with quieter, friendlier output",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, files []string) error {
			return a.runRoot(cmd, files)
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	registerFlags(cmd)

	// Справка печатается как есть, без шаблонов cobra
	cmd.SetHelpFunc(func(*cobra.Command, []string) {
		fmt.Fprint(a.stdout, helpText)
	})
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	return cmd
}

func (a *app) runRoot(cmd *cobra.Command, files []string) error {
	if show, err := cmd.Flags().GetBool("polite-version"); err == nil && show {
		fmt.Fprintf(a.stdout, "pyright-polite %s\n", version.Colored())
		return nil
	}
	if err := validateLevel(cmd); err != nil {
		return err
	}

	cwd, err := a.getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := loadConfig(cwd)
	if err != nil {
		return err
	}

	exe, err := a.locate(a.plat)
	if err != nil {
		return err
	}
	argv, err := prepareArgv(exe, cmd, files)
	if err != nil {
		return err
	}

	ctx, cleanup, err := setupTracing(cmd.Context(), cfg.Trace, a.stderr)
	if err != nil {
		return err
	}
	defer cleanup()
	defer dumpTraceOnPanic(ctx, a.stderr)

	if cfg.Profile.Enabled() {
		session, err := prof.Start(cfg.Profile)
		if err != nil {
			return err
		}
		defer func() {
			if err := session.Stop(); err != nil {
				fmt.Fprintf(a.stderr, "%s%v\n", driver.ErrorPrefix, err)
			}
		}()
	}

	var timer *observ.Timer
	if cfg.Timings {
		timer = observ.NewTimer()
	}

	tr := trace.FromContext(ctx)
	root := trace.Begin(tr, trace.ScopeRun, "pyright-polite", 0).WithExtra("version", version.Full())
	if cfg.Path != "" {
		root.WithExtra("config", cfg.Path)
	}
	ctx = trace.WithParent(ctx, root.ID())

	plat := a.plat
	code, err := a.run(ctx, driver.Options{
		Argv:         argv,
		Mode:         mode.Select(argv[1:]),
		Stdout:       a.stdout,
		Stderr:       a.stderr,
		Filter:       noise.New(cfg.ExtraNoise...),
		Pretty:       diagfmt.PrettyOpts{Color: a.colorEnabled(cfg.Color)},
		StartupDelay: cfg.StartupDelay,
		CloseGrace:   cfg.CloseGrace,
		Platform:     &plat,
		Timer:        timer,
	})
	root.End(fmt.Sprintf("exit %d", code))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	// таймеры печатаем в stderr, чтобы не смешивать с отчётом
	fmt.Fprint(a.stderr, timer.Summary())
	a.code = code
	return nil
}

// colorEnabled resolves the configured mode against the terminal. In auto
// mode fatih/color's own NO_COLOR and TERM=dumb detection also applies.
func (a *app) colorEnabled(m diagfmt.ColorMode) bool {
	if m == diagfmt.ColorAuto {
		return m.Enabled(a.isTTY()) && !color.NoColor
	}
	return m.Enabled(false)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
