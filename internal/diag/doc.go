// Package diag defines the core diagnostic model shared by the lexer, the parser
// and the pipeline driver.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture findings
//     produced by the lexing and parsing stages.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the CLI can print.
//
// # Scope
//
// Package diag does not perform any formatting, IO or CLI integration.
// Rendering responsibilities live in internal/diagfmt, whereas orchestration
// lives in the driver layer.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: info, warning or error; the front end reports errors only.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Labels – spans underlined in the rendered source excerpt, each with its
//     own message and style. The first primary label usually repeats Primary.
//   - Notes – optional secondary spans/messages printed after the excerpt.
//   - Fixes – optional Fix records describing how to address the problem.
//
// Notes should be used sparingly: each note must add new context (e.g. “value
// declared here”) rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter to decouple emission from storage. The
// engine, for example, constructs a ReportBuilder via NewReportBuilder (or the
// helper function ReportError) and chains WithLabel / WithNote / WithFix
// before calling Emit.
//
// When no additional metadata is needed, producers may call Reporter.Report
// directly. diag.BagReporter aggregates diagnostics into a Bag, which keeps
// insertion order and enforces an optional limit. Diagnostics are never
// deduplicated: two identical errors produce two entries.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics into pretty/short/json formats.
//   - internal/driver: coordinates bag collection per file and transports
//     diagnostic data to CLI commands and the disk cache.
package diag
