package driver

import "errors"

// ErrorPrefix starts every error line the supervisor prints itself.
const ErrorPrefix = "pyright-polite: error: "

// StartError reports that pyright could not be started. No subprocess exists
// when it is returned.
type StartError struct {
	// Reason is the user-facing message, without ErrorPrefix.
	Reason string
	// Code is the exit code the supervisor should use.
	Code int
	Err  error
}

func (e *StartError) Error() string {
	return e.Reason
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// errStreamsClosedEarly means pyright closed both output streams but kept
// running past the close grace period.
var errStreamsClosedEarly = errors.New("pyright closed its output streams but is still running")
