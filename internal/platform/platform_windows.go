//go:build windows

package platform

import (
	"errors"
	"os"

	"fortio.org/safecast"
	"golang.org/x/sys/windows"
)

// Go delivers both CTRL_C_EVENT and CTRL_BREAK_EVENT as os.Interrupt.
func newPlatform() Platform {
	return Platform{
		Name: "windows",
		Signals: NewSignalTable(
			[]os.Signal{os.Interrupt},
			[]int{StatusControlCExit},
		),
		TermSignal:          "CTRL_C_EVENT",
		AcceptNegativeCodes: true,
		NotFoundCode:        9009,
		NotExecutableCode:   126,
	}
}

// Interrupt sends CTRL_C_EVENT to the child, which cascades through the pypi
// wrapper to node. An event for a process that is already gone is ignored.
func Interrupt(pid int) error {
	if pid <= 0 {
		return nil
	}
	group, err := safecast.Conv[uint32](pid)
	if err != nil {
		return err
	}
	err = windows.GenerateConsoleCtrlEvent(windows.CTRL_C_EVENT, group)
	if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
		return nil
	}
	return err
}

// NormalizeExitCode reinterprets a 32-bit NTSTATUS reported as an unsigned
// value (0xC000013A) in its signed form (-1073741510).
func NormalizeExitCode(code int) int {
	return int(int32(uint32(code))) //nolint:gosec // intentional bit reinterpretation
}
