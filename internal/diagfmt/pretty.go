package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/jamielinux/pyright-polite/internal/diag"
)

type palette struct {
	pos     *color.Color
	error   *color.Color
	warning *color.Color
	rule    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		pos:     color.New(color.FgYellow),
		error:   color.New(color.FgRed),
		warning: color.New(color.FgCyan),
		rule:    color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.pos, p.error, p.warning, p.rule} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	if sev == diag.SevWarning {
		return p.warning
	}
	return p.error
}

// Pretty renders r the way pyright's own CLI does:
//
//	Found <n> source file[s]
//	<file>
//	  <file>:<line>:<col> - <severity>: <message> (<rule>)
//	<errors> errors, <warnings> warnings, <informations> informations
//
// The file name is printed once per contiguous run of diagnostics. The whole
// report reaches w in a single Write so it cannot interleave with other output.
func Pretty(w io.Writer, r *diag.Report, opts PrettyOpts) error {
	if r == nil {
		return nil
	}
	p := newPalette(opts.Color)

	var buf bytes.Buffer
	suffix := "s"
	if r.Summary.Analyzed == 1 {
		suffix = ""
	}
	fmt.Fprintf(&buf, "Found %d source file%s\n", r.Summary.Analyzed, suffix)

	file := ""
	for i, d := range r.Diagnostics {
		if i == 0 || d.File != file {
			file = d.File
			buf.WriteString(file)
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "  %s:%s:%s - %s: %s",
			file,
			p.pos.Sprint(strconv.Itoa(d.StartLine+1)),
			p.pos.Sprint(strconv.Itoa(d.StartChar+1)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Message,
		)
		if d.HasRule() {
			buf.WriteByte(' ')
			buf.WriteString(p.rule.Sprint("(" + *d.Rule + ")"))
		}
		buf.WriteByte('\n')
	}

	fmt.Fprintf(&buf, "%d errors, %d warnings, %d informations\n",
		r.Summary.Errors, r.Summary.Warnings, r.Summary.Informations)

	_, err := w.Write(buf.Bytes())
	return err
}
