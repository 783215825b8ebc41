package textutil

import (
	"strings"
	"unicode"
)

// Slugify lowercases and converts runs of non-alphanumerics to single
// hyphens, trimming any leading or trailing hyphen.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Anchor produces a MediaWiki-style section anchor: spaces become
// underscores, everything else is preserved.
func Anchor(heading string) string {
	return strings.ReplaceAll(strings.TrimSpace(heading), " ", "_")
}
