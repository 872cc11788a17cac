package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/jamielinux/pyright-polite/internal/driver"
	"github.com/jamielinux/pyright-polite/internal/platform"
)

// findPyright resolves pyright on PATH. When no executable copy exists, it
// tells "not on PATH" apart from "on PATH but not executable".
func findPyright(plat platform.Platform) (string, error) {
	path, err := exec.LookPath("pyright")
	if err == nil {
		return filepath.Abs(path)
	}
	if errors.Is(err, exec.ErrDot) {
		return "", &driver.StartError{
			Reason: "pyright resolves to the current directory, refusing to run it",
			Code:   plat.NotFoundCode,
			Err:    err,
		}
	}

	if found := scanPath("pyright"); found != "" {
		return "", &driver.StartError{Reason: "pyright is not executable", Code: plat.NotExecutableCode, Err: err}
	}
	return "", &driver.StartError{Reason: "pyright could not be found in your PATH", Code: plat.NotFoundCode, Err: err}
}

// scanPath returns the first regular file called name on PATH, executable
// or not.
func scanPath(name string) string {
	names := []string{name}
	if runtime.GOOS == "windows" {
		names = append(names, name+".exe", name+".cmd", name+".bat")
	}
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}
		for _, n := range names {
			candidate := filepath.Join(dir, n)
			if fi, err := os.Stat(candidate); err == nil && fi.Mode().IsRegular() {
				return candidate
			}
		}
	}
	return ""
}
