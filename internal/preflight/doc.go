// Package preflight checks the directories a scan depends on before any
// media file is probed.
//
// A scan root that cannot be listed would otherwise surface as one access
// failure per file; checking once up front turns it into a single clear
// error. State and log directories are only checked when they will be
// written.
package preflight
