// Package scan walks a Takeout export and resolves the sidecar of every
// media file it finds.
//
// MediaFiles does the traversal; Runner fans the files out to a worker pool
// and collects one Result per file, in the same order as the input.
package scan
