package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jamielinux/pyright-polite/internal/diagfmt"
	"github.com/jamielinux/pyright-polite/internal/driver"
	"github.com/jamielinux/pyright-polite/internal/prof"
	"github.com/jamielinux/pyright-polite/internal/trace"
)

// duration decodes TOML strings such as "300ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", text)
	}
	d.Duration = v
	return nil
}

type pyprojectFile struct {
	Tool struct {
		Polite politeTable `toml:"pyright-polite"`
	} `toml:"tool"`
}

type politeTable struct {
	Color        string       `toml:"color"`
	StartupDelay duration     `toml:"startup-delay"`
	CloseGrace   duration     `toml:"close-grace"`
	ExtraNoise   []string     `toml:"extra-noise"`
	Timings      bool         `toml:"timings"`
	Trace        traceTable   `toml:"trace"`
	Profile      profileTable `toml:"profile"`
}

type profileTable struct {
	CPU          string `toml:"cpu"`
	Mem          string `toml:"mem"`
	RuntimeTrace string `toml:"runtime-trace"`
}

type traceTable struct {
	Level     string   `toml:"level"`
	Mode      string   `toml:"mode"`
	Output    string   `toml:"output"`
	Format    string   `toml:"format"`
	RingSize  int      `toml:"ring-size"`
	Heartbeat duration `toml:"heartbeat"`
}

// config is the resolved configuration.
type config struct {
	// Path is the pyproject.toml that was read, empty when none was found.
	Path string

	Color        diagfmt.ColorMode
	StartupDelay time.Duration
	CloseGrace   time.Duration
	ExtraNoise   []string
	Timings      bool
	Trace        traceConfig
	Profile      prof.Config
}

type traceConfig struct {
	Level     trace.Level
	Mode      trace.StorageMode
	Format    trace.Format
	Output    string
	RingSize  int
	Heartbeat time.Duration
}

func defaultConfig() config {
	return config{
		Color:        diagfmt.ColorAuto,
		StartupDelay: driver.DefaultStartupDelay,
		CloseGrace:   driver.DefaultCloseGrace,
		Trace: traceConfig{
			Level:  trace.LevelOff,
			Mode:   trace.ModeStream,
			Output: "-",
		},
	}
}

func findPyproject(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "pyproject.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig reads [tool.pyright-polite] from the nearest pyproject.toml.
// A missing file or table yields the defaults.
func loadConfig(startDir string) (config, error) {
	cfg := defaultConfig()
	path, ok, err := findPyproject(startDir)
	if err != nil || !ok {
		return cfg, err
	}
	if err := decodeConfig(path, &cfg); err != nil {
		return defaultConfig(), err
	}
	return cfg, nil
}

func decodeConfig(path string, cfg *config) error {
	var file pyprojectFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	const table = "pyright-polite"
	if !meta.IsDefined("tool", table) {
		return nil
	}
	t := file.Tool.Polite
	defined := func(key ...string) bool {
		return meta.IsDefined(append([]string{"tool", table}, key...)...)
	}

	if defined("color") {
		if cfg.Color, err = diagfmt.ParseColorMode(t.Color); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if defined("startup-delay") {
		cfg.StartupDelay = t.StartupDelay.Duration
	}
	if defined("close-grace") {
		cfg.CloseGrace = t.CloseGrace.Duration
	}
	if defined("extra-noise") {
		cfg.ExtraNoise = t.ExtraNoise
	}

	if defined("timings") {
		cfg.Timings = t.Timings
	}
	if defined("trace", "level") {
		if cfg.Trace.Level, err = trace.ParseLevel(t.Trace.Level); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if defined("trace", "mode") {
		if cfg.Trace.Mode, err = trace.ParseMode(t.Trace.Mode); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if defined("trace", "format") {
		f, ok := trace.ParseFormat(t.Trace.Format)
		if !ok {
			return fmt.Errorf("%s: invalid trace format %q (expected: auto|text|ndjson)", path, t.Trace.Format)
		}
		cfg.Trace.Format = f
	}
	if defined("trace", "output") {
		cfg.Trace.Output = t.Trace.Output
		if cfg.Trace.Output == "" {
			cfg.Trace.Output = "-"
		}
		if cfg.Trace.Output != "-" {
			cfg.Trace.Output = relativeTo(path, cfg.Trace.Output)
		}
	}
	if defined("trace", "ring-size") {
		cfg.Trace.RingSize = t.Trace.RingSize
	}
	if defined("trace", "heartbeat") {
		cfg.Trace.Heartbeat = t.Trace.Heartbeat.Duration
	}
	cfg.Profile = prof.Config{
		CPU:          relativeTo(path, t.Profile.CPU),
		Mem:          relativeTo(path, t.Profile.Mem),
		RuntimeTrace: relativeTo(path, t.Profile.RuntimeTrace),
	}
	return nil
}

// relativeTo resolves p against the directory holding the pyproject.toml.
func relativeTo(pyproject, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(pyproject), p)
}
