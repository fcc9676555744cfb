// Package logging assembles structured slog loggers and formatting helpers used
// across muxext.
//
// It owns the configurable console/JSON handlers writing to a caller-supplied
// writer, centralizes level parsing, and exposes context-aware helpers so pipeline code can tag log
// lines with the current run ID. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
