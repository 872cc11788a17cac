//go:build !windows

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func newPlatform() Platform {
	return Platform{
		Name: "posix",
		Signals: NewSignalTable(
			[]os.Signal{unix.SIGHUP, unix.SIGINT, unix.SIGQUIT, unix.SIGALRM, unix.SIGTERM},
			[]int{129, 130, 131, 142, 143},
		),
		TermSignal:        "SIGINT",
		NotFoundCode:      127,
		NotExecutableCode: 126,
	}
}

// Interrupt asks the process to stop. SIGINT is used rather than SIGTERM
// because pypi's pyright wrapper only forwards an interrupt to the node
// process it spawns. A process that is already gone is not an error.
func Interrupt(pid int) error {
	if pid <= 0 {
		return nil
	}
	err := unix.Kill(pid, unix.SIGINT)
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

// NormalizeExitCode is the identity on POSIX; Go already reports -1 for a
// child killed by a signal.
func NormalizeExitCode(code int) int {
	return code
}
