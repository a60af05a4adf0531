package companion

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

// maxStemLength is the point, in UTF-16 code units, at which Takeout
// truncates sidecar names.
const maxStemLength = 46

var (
	editedSuffixPattern = regexp.MustCompile(`(?i)-edited$`)
	counterPattern      = regexp.MustCompile(`^(.*)(\(\d+\))$`)
)

// trailingAnomalies are checked in order; only the first match applies.
var trailingAnomalies = []string{"_n-", "_n", "_"}

// thumbnailExtensions are the still-image extensions Takeout uses for the
// sidecar of a video that belongs to a motion or live photo.
var thumbnailExtensions = []string{".JPG", ".jpg", ".jpeg", ".heic"}

// Candidates returns the sidecar filenames that may belong to a media file
// with the given stem and extension, highest confidence first. ext keeps its
// leading dot and original case. No filesystem access happens here.
func Candidates(stem, ext string) []string {
	stem = stripEditedSuffix(stem)

	candidates := []string{
		stem + ".json",
		stem + ext + ".json",
		stem + ".jpg.json",
		stem + ".HEIC.json",
	}

	// Takeout writes the sidecar of foo(1).jpg as foo.jpg(1).json.
	if name, counter, ok := splitCounter(stem); ok {
		name = stripEditedSuffix(name)
		candidates = append(candidates, name+ext+counter+".json")
		if isMP4(ext) {
			for _, still := range thumbnailExtensions {
				candidates = append(candidates, name+still+counter+".json")
			}
		}
	}

	if trimmed, ok := trailingAnomaly(stem); ok {
		candidates = append(candidates, trimmed+".json")
	}

	if isMP4(ext) {
		for _, still := range thumbnailExtensions {
			candidates = append(candidates, stem+still+".json")
		}
	}

	if exceedsLengthCap(stem) {
		candidates = append(candidates, truncateStem(stem)+".json")
	}

	// Observed in real exports with no detectable trigger; always tried last.
	candidates = append(candidates, stem+".j.json", stem+".jp.json")

	return candidates
}

func hasEditedSuffix(stem string) bool {
	return editedSuffixPattern.MatchString(stem)
}

func stripEditedSuffix(stem string) string {
	if !hasEditedSuffix(stem) {
		return stem
	}
	return stem[:len(stem)-len("-edited")]
}

// splitCounter splits "name(12)" into "name" and "(12)".
func splitCounter(stem string) (name, counter string, ok bool) {
	m := counterPattern.FindStringSubmatch(stem)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// trailingAnomaly reports the stem with its last character dropped when the
// stem ends in one of the known stray suffixes.
func trailingAnomaly(stem string) (string, bool) {
	for _, suffix := range trailingAnomalies {
		if strings.HasSuffix(stem, suffix) {
			return stem[:len(stem)-1], true
		}
	}
	return "", false
}

func isMP4(ext string) bool {
	return strings.EqualFold(ext, ".mp4")
}

// stemLength measures stem in UTF-16 code units, the unit Takeout's limit is
// counted in. Characters outside the Basic Multilingual Plane count twice.
func stemLength(stem string) int {
	n := 0
	for _, r := range stem {
		n += utf16.RuneLen(r)
	}
	return n
}

func exceedsLengthCap(stem string) bool {
	return stemLength(stem) > maxStemLength
}

// truncateStem keeps at most maxStemLength UTF-16 code units of stem without
// splitting a character.
func truncateStem(stem string) string {
	n := 0
	for i, r := range stem {
		width := utf16.RuneLen(r)
		if n+width > maxStemLength {
			return stem[:i]
		}
		n += width
	}
	return stem
}
