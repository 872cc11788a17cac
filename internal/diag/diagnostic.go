package diag

// Diagnostic is a single finding from a pyright run.
// StartLine and StartChar are 0-based, as pyright stores them.
type Diagnostic struct {
	File      string
	Severity  Severity
	Message   string
	StartLine int
	StartChar int
	// Rule is nil when pyright did not attach a rule name.
	Rule *string
}

// HasRule reports whether a non-empty rule name is attached.
func (d Diagnostic) HasRule() bool {
	return d.Rule != nil && *d.Rule != ""
}

// Summary holds the counters from pyright's summary object.
type Summary struct {
	Analyzed     int
	Errors       int
	Warnings     int
	Informations int
}

// Report is one fully validated pyright result.
type Report struct {
	Summary     Summary
	Diagnostics []Diagnostic
}
