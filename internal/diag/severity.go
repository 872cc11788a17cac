package diag

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevError is for error diagnostics.
	SevError Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
)

var severityNames = [...]string{
	SevError:   "ERROR",
	SevWarning: "WARNING",
}

// Name returns the canonical upper-case name.
func (s Severity) Name() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// String returns the lower-case name used in pyright's output.
func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "unknown"
}

// ParseSeverity matches s against the severity names ignoring case.
func ParseSeverity(s string) (Severity, bool) {
	// A Caser keeps state between calls, so each parse gets its own.
	name := cases.Upper(language.Und).String(s)
	for i, n := range severityNames {
		if n == name {
			return Severity(i), true
		}
	}
	return 0, false
}
