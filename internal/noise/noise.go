// Package noise suppresses the informational lines pyright prints on every
// run: startup banners, auto-exclusion notices, configuration discovery and
// timing reports.
package noise

import (
	"io"
	"regexp"
	"strings"
)

// prefixes are regular expressions anchored at the start of a line.
var prefixes = []string{
	`Assuming `,           // Assuming Python version 3.11
	`Auto-excluding `,     // Auto-excluding **/node_modules
	`Completed in `,       // Completed in 0.925sec
	`Found `,              // Found 2 source files
	`Loading `,            // Loading pyproject.toml file at ...
	`No configuration `,   // No configuration file found.
	`No include entries `, // No include entries specified; assuming ...
	`No source `,          // No source files found.
	`No pyproject\.toml `, // No pyproject.toml file found.
	`Please install the new version`,
	`Searching `, // Searching for source files
	`WARNING: there is a new pyright`,
	`pyproject\.toml file found `,
	`pyright \d+\.\d+\.\d+`, // pyright 1.1.300
	`stubPath `,             // stubPath .../typings is not a valid directory.
}

// Filter decides which lines are noise. It is safe for concurrent use.
type Filter struct {
	re *regexp.Regexp
}

// New builds a filter from the built-in table plus extra literal prefixes.
// Empty extras are ignored.
func New(extra ...string) *Filter {
	alts := make([]string, 0, len(prefixes)+len(extra))
	alts = append(alts, prefixes...)
	for _, e := range extra {
		if e == "" {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(e))
	}
	return &Filter{re: regexp.MustCompile(`^(?:` + strings.Join(alts, "|") + `)`)}
}

// Suppress reports whether line is noise.
func (f *Filter) Suppress(line string) bool {
	return f.re.MatchString(line)
}

// Print writes line to w unless it is noise. The written line always ends in
// exactly one newline, even when line is a final partial line without one.
func (f *Filter) Print(w io.Writer, line string) error {
	if f.Suppress(line) {
		return nil
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	_, err := io.WriteString(w, line)
	return err
}
