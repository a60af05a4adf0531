// Package logging assembles the slog loggers used by the sidecar CLI.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (stderr plus an optional log file), and defines the field keys shared by
// every component so log lines keep the same shape. NewNop serves tests and
// wiring code that has no logger to hand.
package logging
