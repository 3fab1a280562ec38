// Package logging assembles structured slog loggers and formatting helpers used
// across ludotheque.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so scanner and identification code tag log
// lines with the scan run id, the pipeline stage, and the file being processed.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
