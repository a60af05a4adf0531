// Package companion locates the JSON sidecar Google Takeout exports next to
// each photo or video.
//
// Takeout does not name sidecars consistently. Candidates builds the ordered
// list of filenames a sidecar may have been given, most likely first, without
// touching the filesystem. Resolve then probes those names in order and
// returns the first one that exists. Keeping the two steps apart lets the
// naming rules be tested as plain string functions.
//
// A missing sidecar is a normal outcome and is reported as found == false
// with a nil error. Only probes that cannot complete (permission denied, I/O
// errors) surface as errors, wrapped in *AccessError.
package companion
