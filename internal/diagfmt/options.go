package diagfmt

import "fmt"

// ColorMode specifies when terminal colours are used.
type ColorMode uint8

const (
	// ColorAuto colours output only when stdout is a terminal.
	ColorAuto ColorMode = iota
	// ColorOn always colours output.
	ColorOn
	// ColorOff never colours output.
	ColorOff
)

func (m ColorMode) String() string {
	switch m {
	case ColorOn:
		return "on"
	case ColorOff:
		return "off"
	default:
		return "auto"
	}
}

// ParseColorMode accepts auto, on and off (case-sensitive, like the CLI flag).
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "on":
		return ColorOn, nil
	case "off":
		return ColorOff, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (must be auto, on or off)", s)
}

// Enabled resolves the mode for an output that is (or is not) a terminal.
func (m ColorMode) Enabled(isTTY bool) bool {
	return m == ColorOn || (m == ColorAuto && isTTY)
}

// PrettyOpts configures pretty-printing of a report.
type PrettyOpts struct {
	Color bool
}
