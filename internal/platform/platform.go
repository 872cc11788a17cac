// Package platform isolates everything that differs between POSIX systems and
// Windows: which signals are watched, the exit code each one maps to, how the
// child is asked to stop and which exit codes are representable.
package platform

import "os"

// StatusControlCExit is the signed form of 0xC000013A, the NTSTATUS a console
// program ends with after Ctrl-C. pyright exits with it on Windows when it
// receives CTRL_C_EVENT or CTRL_BREAK_EVENT.
const StatusControlCExit = -1073741510

// Platform describes the host's signal and exit-code conventions.
type Platform struct {
	// Name is the platform family ("posix" or "windows").
	Name string

	// Signals maps every watched signal to the exit code it produces.
	Signals SignalTable

	// TermSignal names the signal sent to the child to request shutdown.
	TermSignal string

	// AcceptNegativeCodes is true where negative exit codes are meaningful.
	// On POSIX a negative code only means "killed by a signal" and is dropped.
	AcceptNegativeCodes bool

	// NotFoundCode is the exit code when the executable is not on the PATH.
	NotFoundCode int

	// NotExecutableCode is the exit code when the executable cannot be run.
	NotExecutableCode int
}

// AcceptsCode reports whether code may be used as this process's exit code.
func (p Platform) AcceptsCode(code int) bool {
	return code >= 0 || p.AcceptNegativeCodes
}

// Current returns the table for the running platform. It is built once.
func Current() Platform {
	return current
}

var current = newPlatform()

// SignalTable is an immutable, ordered mapping of signals to exit codes.
type SignalTable struct {
	signals []os.Signal
	codes   []int
}

// NewSignalTable builds a table from parallel slices. It panics on a length
// mismatch because tables are only built from constants.
func NewSignalTable(signals []os.Signal, codes []int) SignalTable {
	if len(signals) != len(codes) {
		panic("platform: signal table length mismatch")
	}
	t := SignalTable{
		signals: make([]os.Signal, len(signals)),
		codes:   make([]int, len(codes)),
	}
	copy(t.signals, signals)
	copy(t.codes, codes)
	return t
}

// Lookup returns the exit code for sig.
func (t SignalTable) Lookup(sig os.Signal) (int, bool) {
	for i, s := range t.signals {
		if s == sig {
			return t.codes[i], true
		}
	}
	return 0, false
}

// Signals returns a copy of the watched signals in table order.
func (t SignalTable) Signals() []os.Signal {
	out := make([]os.Signal, len(t.signals))
	copy(out, t.signals)
	return out
}

// Len returns the number of entries.
func (t SignalTable) Len() int {
	return len(t.signals)
}
