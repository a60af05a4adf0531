// Package main hosts the sidecar CLI entrypoint and command graph.
//
// The Cobra command tree resolves Google Takeout sidecars for single files
// (resolve), walks whole exports (scan), replays recorded scans from the
// ledger (history), and scaffolds configuration (config). Configuration and
// logger setup live in commandContext so subcommands only deal with their own
// flags and output.
package main
