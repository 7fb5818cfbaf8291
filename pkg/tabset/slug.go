package tabset

import (
	"regexp"
	"strings"
)

// slugSeparators matches runs of ASCII characters that are not lowercase
// letters or digits. Everything at or above U+0080 is left alone.
var slugSeparators = regexp.MustCompile(`[\x00-\x2f\x3a-\x60\x7b-\x7f]+`)

// Slugify lowercases s, collapses every run of ASCII punctuation, spaces and
// symbols into a single hyphen and trims hyphens from both ends. Non-ASCII
// letters and digits are preserved unescaped.
func Slugify(s string) string {
	s = slugSeparators.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
