package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamielinux/pyright-polite/internal/diag"
	"github.com/jamielinux/pyright-polite/internal/mode"
)

const helpText = `Usage: pyright-polite [options] files...
  Options:
  --createstub <IMPORT>              Create type stub file(s) for import
  --dependencies                     Emit import dependency information
  -h,--help                          Show this help message
  --ignoreexternal                   Ignore external imports for --verifytypes
  --lib                              Use library code to infer types when stubs are missing
  --level <LEVEL>                    Minimum diagnostic level (error or warning)
  --outputjson                       Output results in JSON format
  -p,--project <FILE OR DIRECTORY>   Use the configuration file at this location
  --pythonplatform <PLATFORM>        Analyze for a specific platform (Darwin, Linux, Windows)
  --pythonversion <VERSION>          Analyze for a specific version (3.3, 3.4, etc.)
  --skipunannotated                  Skip analysis of functions with no type annotations
  --stats                            Print detailed performance stats
  -t,--typeshed-path <DIRECTORY>     Use typeshed type stubs at this location
  -v,--venv-path <DIRECTORY>         Directory that contains virtual environments
  --verbose                          Emit verbose diagnostics
  --verifytypes <PACKAGE>            Verify type completeness of a py.typed package
  --version                          Print Pyright version
  --warnings                         Use exit code of 1 if warnings are reported
  -w,--watch                         Continue to run and watch for changes


  Note: pyright-polite does not filter output from ` + "`--dependencies` or `--stats`" + `.

`

const usageLine = "usage: pyright-polite [options] files...\n"

// forwarded lists pyright's flags in the order they are passed on.
var forwarded = []struct {
	name       string
	short      string
	takesValue bool
}{
	{"createstub", "", true},
	{"dependencies", "", false},
	{"ignoreexternal", "", false},
	{"lib", "", false},
	{"level", "", true},
	{"project", "p", true},
	{"pythonplatform", "", true},
	{"pythonversion", "", true},
	{"skipunannotated", "", false},
	{"stats", "", false},
	{"typeshed-path", "t", true},
	{"venv-path", "v", true},
	{"warnings", "", false},
	{"verbose", "", false},
	{"verifytypes", "", true},
	{"watch", "w", false},
}

func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	for _, f := range forwarded {
		if f.takesValue {
			flags.StringP(f.name, f.short, "", "")
		} else {
			flags.BoolP(f.name, f.short, false, "")
		}
	}
	flags.Bool("outputjson", false, "")
	flags.Bool("version", false, "")
	flags.Bool("polite-version", false, "")
	flags.SortFlags = false
}

// levelChoices are the values pyright accepts for --level.
func levelChoices() []string {
	return []string{diag.SevError.String(), diag.SevWarning.String()}
}

func validateLevel(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("level") {
		return nil
	}
	level, err := cmd.Flags().GetString("level")
	if err != nil {
		return fmt.Errorf("failed to get level flag: %w", err)
	}
	choices := levelChoices()
	for _, c := range choices {
		if level == c {
			return nil
		}
	}
	quoted := make([]string, len(choices))
	for i, c := range choices {
		quoted[i] = "'" + c + "'"
	}
	return usageError{msg: fmt.Sprintf("argument --level: invalid choice: '%s' (choose from %s)", level, strings.Join(quoted, ", "))}
}

// prepareArgv builds pyright's command line. --version discards everything
// else. --outputjson is added when asked for, or when no flag rules JSON
// output out. Files go last.
func prepareArgv(exe string, cmd *cobra.Command, files []string) ([]string, error) {
	flags := cmd.Flags()
	argv := []string{exe}

	version, err := flags.GetBool("version")
	if err != nil {
		return nil, fmt.Errorf("failed to get version flag: %w", err)
	}
	if version {
		return append(argv, "--version"), nil
	}

	for _, f := range forwarded {
		if !flags.Changed(f.name) {
			continue
		}
		if f.takesValue {
			v, err := flags.GetString(f.name)
			if err != nil {
				return nil, fmt.Errorf("failed to get %s flag: %w", f.name, err)
			}
			argv = append(argv, "--"+f.name, v)
			continue
		}
		set, err := flags.GetBool(f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
		if set {
			argv = append(argv, "--"+f.name)
		}
	}

	outputJSON, err := flags.GetBool(mode.OutputJSONFlag[2:])
	if err != nil {
		return nil, fmt.Errorf("failed to get outputjson flag: %w", err)
	}
	if outputJSON || !anyNonJSON(argv[1:]) {
		argv = append(argv, mode.OutputJSONFlag)
	}

	return append(argv, files...), nil
}

func anyNonJSON(args []string) bool {
	for _, a := range args {
		if mode.IsNonJSON(a) {
			return true
		}
	}
	return false
}
