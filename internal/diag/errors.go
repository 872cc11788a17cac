package diag

import "fmt"

// JSONError reports a malformed or incomplete pyright JSON document.
type JSONError struct {
	// Detail is a stable description of the defect, e.g. "summary is missing".
	Detail string
	// Err is the underlying decoder error, if any.
	Err error
}

// NewJSONError creates a JSONError with the given detail.
func NewJSONError(detail string) *JSONError {
	return &JSONError{Detail: detail}
}

func jsonErrorf(format string, args ...any) *JSONError {
	return &JSONError{Detail: fmt.Sprintf(format, args...)}
}

func (e *JSONError) Error() string {
	return "pyright returned unexpected JSON (" + e.Detail + ")"
}

func (e *JSONError) Unwrap() error {
	return e.Err
}
