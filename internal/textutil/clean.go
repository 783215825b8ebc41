// Package textutil holds the text-cleaning primitives shared by the wiki and
// Markdown parsers and by the analyzer's tokenization.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	commentRe    = regexp.MustCompile(`(?s)<!--.*?-->`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	boldItalicRe = regexp.MustCompile(`'{2,5}`)
	externalRe   = regexp.MustCompile(`\[(https?://\S+)(?:\s+([^\]]+))?\]`)
)

// StripComments removes HTML-style comments
func StripComments(s string) string {
	return commentRe.ReplaceAllString(s, "")
}

// StripTemplates removes balanced {{...}} template blocks, including nested
// ones. An unterminated opener is left untouched so malformed markup degrades
// instead of failing.
func StripTemplates(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if strings.HasPrefix(s[i:], "{{") {
			end, ok := MatchBraces(s, i)
			if ok {
				i = end
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// MatchBraces scans from an opening "{{" at position start and returns the
// index just past its balanced closer. ok is false when the block never
// closes.
func MatchBraces(s string, start int) (int, bool) {
	depth := 0
	i := start
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "{{"):
			depth++
			i += 2
		case strings.HasPrefix(s[i:], "}}"):
			depth--
			i += 2
			if depth == 0 {
				return i, true
			}
		default:
			i++
		}
	}
	return start, false
}

// ExtractTemplate returns the first balanced template whose name matches the
// given prefix (case-insensitive), along with its start offset. Returns ok
// false when no such template exists.
func ExtractTemplate(s, namePrefix string) (body string, start int, ok bool) {
	lowerPrefix := strings.ToLower(namePrefix)
	i := 0
	for i < len(s) {
		idx := strings.Index(s[i:], "{{")
		if idx < 0 {
			return "", 0, false
		}
		open := i + idx
		end, matched := MatchBraces(s, open)
		if !matched {
			return "", 0, false
		}
		inner := s[open+2 : end-2]
		name := inner
		if cut := strings.IndexAny(inner, "|\n"); cut >= 0 {
			name = inner[:cut]
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(name)), lowerPrefix) {
			return inner, open, true
		}
		i = end
	}
	return "", 0, false
}

// MatchBrackets scans from an opening "[[" at position start and returns the
// index just past its balanced "]]" closer, tolerating nested links inside
// parameters. ok is false when the link never closes.
func MatchBrackets(s string, start int) (int, bool) {
	depth := 0
	i := start
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "[["):
			depth++
			i += 2
		case strings.HasPrefix(s[i:], "]]"):
			depth--
			i += 2
			if depth == 0 {
				return i, true
			}
		default:
			i++
		}
	}
	return start, false
}

// SplitTopLevel splits s on sep, ignoring separators nested inside [[...]]
// or {{...}} pairs.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "[[") || strings.HasPrefix(s[i:], "{{"):
			depth++
			i++
		case strings.HasPrefix(s[i:], "]]") || strings.HasPrefix(s[i:], "}}"):
			depth--
			i++
		case s[i] == sep && depth == 0:
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// NormalizeWhitespace collapses runs of whitespace into single spaces
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// StripMarkupQuotes removes wiki bold/italic quote runs
func StripMarkupQuotes(s string) string {
	return boldItalicRe.ReplaceAllString(s, "")
}

// StripExternalLinks rewrites [http://url label] to its label, or drops the
// bare-URL form entirely.
func StripExternalLinks(s string) string {
	return externalRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := externalRe.FindStringSubmatch(m)
		if len(sub) == 3 && sub[2] != "" {
			return sub[2]
		}
		return ""
	})
}

// Tokenize lowercases, strips everything but letters, digits and hyphens,
// and splits on whitespace. Empty tokens are dropped.
func Tokenize(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, s)

	fields := strings.Fields(cleaned)
	return fields
}

// Normalize lowercases and collapses whitespace for exact-match comparison
func Normalize(s string) string {
	return strings.ToLower(NormalizeWhitespace(s))
}

// AlnumRatio returns the fraction of non-space runes that are letters or
// digits. Used by the sentence filters to reject markup leaks.
func AlnumRatio(s string) float64 {
	total := 0
	alnum := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			alnum++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alnum) / float64(total)
}
