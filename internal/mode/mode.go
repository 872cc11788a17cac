// Package mode decides how pyright's output streams are handled for a run.
package mode

// Mode is the capture and parsing strategy for one pyright run.
type Mode uint8

const (
	// JSON filters stderr and parses the JSON report written to stdout.
	JSON Mode = iota
	// Plaintext filters both streams and expects no JSON.
	Plaintext
	// Unfiltered lets pyright write straight to the terminal.
	Unfiltered
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case JSON:
		return "json"
	case Plaintext:
		return "plaintext"
	case Unfiltered:
		return "unfiltered"
	default:
		return "unknown"
	}
}

// Captures reports whether stdout and stderr must be piped through the supervisor.
func (m Mode) Captures() bool {
	return m != Unfiltered
}

// OutputJSONFlag asks pyright for a machine-readable report.
const OutputJSONFlag = "--outputjson"

// pyright refuses --outputjson together with these, so their output is
// filtered as plain text.
var plaintextArgs = map[string]struct{}{
	"--createstub":     {},
	"--ignoreexternal": {},
	"--verifytypes":    {},
}

// --dependencies and --stats print diagnostics of their own and --version is a
// one-liner; filtering them would only lose pyright's colours.
var unfilteredArgs = map[string]struct{}{
	"--dependencies": {},
	"--stats":        {},
	"--version":      {},
}

// IsNonJSON reports whether arg rules out --outputjson.
func IsNonJSON(arg string) bool {
	if _, ok := plaintextArgs[arg]; ok {
		return true
	}
	_, ok := unfilteredArgs[arg]
	return ok
}

// Select classifies the arguments passed to pyright (without the executable).
// An explicit --outputjson always wins. Otherwise an unfiltered flag beats a
// plaintext flag, and JSON is the default.
func Select(args []string) Mode {
	for _, arg := range args {
		if arg == OutputJSONFlag {
			return JSON
		}
	}

	m := JSON
	for _, arg := range args {
		if _, ok := plaintextArgs[arg]; ok {
			m = Plaintext
			break
		}
	}
	for _, arg := range args {
		if _, ok := unfilteredArgs[arg]; ok {
			m = Unfiltered
			break
		}
	}
	return m
}
