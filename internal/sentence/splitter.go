// Package sentence segments cleaned paragraph text into sentence spans with
// byte offsets preserved, so callers can re-attach citation and media markers
// recorded during markup stripping.
package sentence

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/crosswiki/internal/textutil"
)

// Span is one accepted sentence with its byte range in the input text
type Span struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

var (
	danglingStarts = []string{"until ", "from ", "and ", "or ", "but "}

	mediaExtRe    = regexp.MustCompile(`(?i)^\S+\.(jpe?g|png|gif|svg|webp|tiff?|ogg|ogv|mp3|mp4|webm|wav)\b`)
	citationRe    = regexp.MustCompile(`^\p{Lu}[\p{L}'-]+,\s+\p{Lu}\.?,?\s*\(`)
	retrievedRe   = regexp.MustCompile(`^(Retrieved|Archived|Accessed)\b`)
	minSentenceLn = 5
)

// Split segments text on sentence-terminal punctuation followed by
// whitespace and an uppercase letter (or end of input), then drops spans that
// fail the rejection filters. Stateless; safe for concurrent use.
func Split(text string) []Span {
	var spans []Span
	start := 0
	i := 0
	n := len(text)

	for i < n {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			// Absorb trailing closers so offsets cover the full span.
			j := i + 1
			for j < n && (text[j] == '"' || text[j] == ')' || text[j] == ']' || text[j] == '\'') {
				j++
			}
			if j >= n || boundaryFollows(text, j) {
				emit(&spans, text, start, j)
				for j < n && isSpace(text[j]) {
					j++
				}
				start = j
				i = j
				continue
			}
		}
		i++
	}
	if start < n {
		emit(&spans, text, start, n)
	}
	return spans
}

// boundaryFollows reports whether position j starts whitespace followed by an
// uppercase letter, which is what distinguishes a sentence break from an
// abbreviation dot.
func boundaryFollows(text string, j int) bool {
	if !isSpace(text[j]) {
		return false
	}
	k := j
	for k < len(text) && isSpace(text[k]) {
		k++
	}
	if k >= len(text) {
		return true
	}
	r := []rune(text[k:])[0]
	return unicode.IsUpper(r) || r == '"' || r == '\''
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func emit(spans *[]Span, text string, start, end int) {
	raw := text[start:end]
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}
	// Keep offsets pointing at the trimmed content.
	lead := strings.Index(raw, trimmed)
	s := start + lead
	e := s + len(trimmed)

	if Reject(trimmed) {
		return
	}
	*spans = append(*spans, Span{Text: trimmed, Start: s, End: e})
}

// Reject applies the rejection filters, in order. Exposed so the Markdown
// parser can re-filter after first-occurrence offset recovery.
func Reject(s string) bool {
	if len(s) < minSentenceLn {
		return true
	}
	if wordCount(s) < 2 {
		return true
	}
	if textutil.AlnumRatio(s) < 0.5 {
		return true
	}
	lower := strings.ToLower(s)
	for _, prefix := range danglingStarts {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	if strings.HasPrefix(s, "See ") {
		return true
	}
	if mediaExtRe.MatchString(s) {
		return true
	}
	if len(s) > 3 && s == strings.ToUpper(s) && s != strings.ToLower(s) {
		return true
	}
	if retrievedRe.MatchString(s) || citationRe.MatchString(s) {
		return true
	}
	return false
}

// wordCount counts whitespace-separated words containing at least one
// letter or digit.
func wordCount(s string) int {
	count := 0
	for _, f := range strings.Fields(s) {
		if strings.IndexFunc(f, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) >= 0 {
			count++
		}
	}
	return count
}
