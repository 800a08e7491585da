// Package diag defines the diagnostic model shared by rules, the driver and
// every output format.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Code: compact numeric identifier (see codes.go) rendered as OCA001..OCA014.
//   - Message: human oriented text; may embed values found in the source.
//   - Filename, Line, Column: 1-based line and 0-based byte column, the
//     convention used by the Python parser.
//   - EndLine, EndColumn: optional end position, zero when absent.
//   - Severity: Error, Warning, Info, Convention or Refactor.
//   - FixAvailable: always false; the linter does not rewrite sources.
//
// Diagnostics are values. Producers build them with New and never mutate them
// afterwards; the only ordering guarantee is applied at the presentation
// boundary through Bag.Sort / SortDiagnostics.
//
// # Scope
//
// Package diag does not perform any formatting beyond the one-line String
// form and the Record used by machine-readable formats. Rendering lives in
// internal/diagfmt, collection per file lives in internal/rules and
// internal/driver.
package diag
