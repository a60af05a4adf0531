// Package ledger records scan runs and their per-file outcomes in SQLite.
//
// Each run gets a UUID, the root it walked, and counts per status; entries
// keep the media path, the resolved sidecar (if any), and the probe error for
// files that could not be checked. The ledger is a history for humans and
// scripts; resolution itself never reads from it.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package ledger
