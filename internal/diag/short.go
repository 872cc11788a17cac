package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

type shortDiagnostic struct {
	Severity string
	Rule     string
	Path     string
	Line     int
	Column   int
	Message  string
}

// FormatShort renders diagnostics one per line as
// "<severity> <rule> <path>:<line>:<col> <message>", sorted by location so
// that two runs over the same sources compare equal. Positions are 1-based.
// Diagnostics without a rule use "-" in the rule column.
func FormatShort(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for _, d := range diags {
		rule := "-"
		if d.HasRule() {
			rule = *d.Rule
		}
		rendered = append(rendered, shortDiagnostic{
			Severity: d.Severity.String(),
			Rule:     rule,
			Path:     filepath.ToSlash(d.File),
			Line:     d.StartLine + 1,
			Column:   d.StartChar + 1,
			Message:  sanitizeMessage(d.Message),
		})
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Rule, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	fields := strings.Fields(strings.ReplaceAll(msg, "\u00a0", " "))
	return strings.Join(fields, " ")
}
