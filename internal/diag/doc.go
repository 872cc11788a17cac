// Package diag defines the report model produced by a pyright run and the
// parser that builds it from pyright's --outputjson document.
//
// # Purpose
//
//   - Provide immutable value types (Severity, Diagnostic, Summary, Report)
//     that describe one completed analysis.
//   - Validate the JSON document strictly: a Report is either fully valid or
//     not produced at all.
//
// # Scope
//
// Package diag does no formatting and no IO. Rendering lives in
// internal/diagfmt; reading pyright's output streams lives in internal/driver.
//
// # Data model
//
//   - Severity – two-level enum (Error, Warning), matched case-insensitively.
//   - Diagnostic – file, severity, message, 0-based start position and an
//     optional rule name.
//   - Summary – the four counters pyright reports; all are mandatory.
//   - Report – the summary plus diagnostics in the order pyright emitted them.
//
// # Errors
//
// Every validation failure is a *JSONError whose Detail names the offending
// field. Details are stable strings and are part of the user-visible output,
// so they must not change casually.
package diag
