package diag

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"fortio.org/safecast"
)

var summaryKeys = [...]string{"filesAnalyzed", "errorCount", "warningCount", "informationCount"}

// Parse decodes and validates one pyright JSON document.
// The summary is validated before the diagnostics, and the first defect found
// is returned as a *JSONError.
func Parse(data string) (*Report, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &JSONError{Detail: "unexpected end of JSON input", Err: err}
		}
		return nil, &JSONError{Detail: err.Error(), Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, NewJSONError("extra data after JSON object")
	}

	root, ok := doc.(map[string]any)
	if !ok {
		return nil, NewJSONError("invalid JSON object")
	}

	summary, err := parseSummary(root)
	if err != nil {
		return nil, err
	}
	diags, err := parseDiagnostics(root)
	if err != nil {
		return nil, err
	}
	return &Report{Summary: summary, Diagnostics: diags}, nil
}

func parseSummary(root map[string]any) (Summary, error) {
	raw, ok := root["summary"]
	if !ok {
		return Summary{}, NewJSONError("summary is missing")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return Summary{}, NewJSONError("summary is invalid")
	}

	var vals [len(summaryKeys)]int
	for i, key := range summaryKeys {
		v, err := intField(obj, "summary", key)
		if err != nil {
			return Summary{}, err
		}
		vals[i] = v
	}
	return Summary{
		Analyzed:     vals[0],
		Errors:       vals[1],
		Warnings:     vals[2],
		Informations: vals[3],
	}, nil
}

func parseDiagnostics(root map[string]any) ([]Diagnostic, error) {
	raw, ok := root["generalDiagnostics"]
	if !ok {
		return nil, NewJSONError("generalDiagnostics is missing")
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, NewJSONError("generalDiagnostics is invalid")
	}

	out := make([]Diagnostic, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, NewJSONError("invalid diagnostic")
		}
		d, err := parseDiagnostic(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func parseDiagnostic(obj map[string]any) (Diagnostic, error) {
	file, err := strField(obj, "diagnostic", "file")
	if err != nil {
		return Diagnostic{}, err
	}

	sevName, err := strField(obj, "diagnostic", "severity")
	if err != nil {
		return Diagnostic{}, err
	}
	sev, ok := ParseSeverity(sevName)
	if !ok {
		return Diagnostic{}, NewJSONError("diagnostic with invalid severity")
	}

	message, err := strField(obj, "diagnostic", "message")
	if err != nil {
		return Diagnostic{}, err
	}
	// pyright indents continuation lines with two non-breaking spaces only;
	// two regular spaces are added so they line up under the location.
	message = strings.ReplaceAll(message, "\n", "\n  ")

	rng, ok := obj["range"].(map[string]any)
	if !ok {
		return Diagnostic{}, NewJSONError("diagnostic with missing or invalid range")
	}
	rawStart, ok := rng["start"]
	if !ok {
		return Diagnostic{}, NewJSONError("diagnostic is missing start")
	}
	start, ok := rawStart.(map[string]any)
	if !ok {
		return Diagnostic{}, NewJSONError("diagnostic.start is not of type dict")
	}
	line, err := intField(start, "range.start", "line")
	if err != nil {
		return Diagnostic{}, err
	}
	char, err := intField(start, "range.start", "character")
	if err != nil {
		return Diagnostic{}, err
	}

	d := Diagnostic{
		File:      file,
		Severity:  sev,
		Message:   message,
		StartLine: line,
		StartChar: char,
	}
	if rule, ok := obj["rule"].(string); ok {
		d.Rule = &rule
	}
	return d, nil
}

func strField(obj map[string]any, name, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", jsonErrorf("%s is missing %s", name, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", jsonErrorf("%s.%s is not of type str", name, key)
	}
	return s, nil
}

func intField(obj map[string]any, name, key string) (int, error) {
	raw, ok := obj[key]
	if !ok {
		return 0, jsonErrorf("%s is missing %s", name, key)
	}
	num, ok := raw.(json.Number)
	if !ok {
		return 0, jsonErrorf("%s.%s is not of type int", name, key)
	}
	i64, err := num.Int64()
	if err != nil {
		return 0, &JSONError{Detail: name + "." + key + " is not of type int", Err: err}
	}
	v, err := safecast.Conv[int](i64)
	if err != nil {
		return 0, &JSONError{Detail: name + "." + key + " is not of type int", Err: err}
	}
	return v, nil
}
