package analyze

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ppiankov/crosswiki/internal/textutil"
)

// WordSimilarity is the reference-relative token ratio: the fraction of
// reference tokens present in the candidate's token set. Asymmetric by
// design; both-empty is full similarity, one-empty is none.
func WordSimilarity(ref, cand string) float64 {
	refTokens := textutil.Tokenize(ref)
	candTokens := textutil.Tokenize(cand)

	if len(refTokens) == 0 && len(candTokens) == 0 {
		return 1
	}
	if len(refTokens) == 0 || len(candTokens) == 0 {
		return 0
	}

	candSet := make(map[string]bool, len(candTokens))
	for _, t := range candTokens {
		candSet[t] = true
	}

	found := 0
	for _, t := range refTokens {
		if candSet[t] {
			found++
		}
	}
	return clamp01(float64(found) / float64(len(refTokens)))
}

// SymmetricTokenOverlap is the shorter-over-longer overlap variant, used
// where neither side is privileged.
func SymmetricTokenOverlap(a, b string) float64 {
	at := textutil.Tokenize(a)
	bt := textutil.Tokenize(b)

	if len(at) == 0 && len(bt) == 0 {
		return 1
	}
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}

	shorter, longer := at, bt
	if len(bt) < len(at) {
		shorter, longer = bt, at
	}
	longSet := make(map[string]bool, len(longer))
	for _, t := range longer {
		longSet[t] = true
	}
	found := 0
	for _, t := range shorter {
		if longSet[t] {
			found++
		}
	}
	return clamp01(float64(found) / float64(len(shorter)))
}

// ShingleOverlap is the Jaccard ratio over contiguous k-token windows.
// Texts shorter than k collapse to a single shingle.
func ShingleOverlap(a, b string, k int) float64 {
	if k < 1 {
		k = 1
	}
	as := shingles(textutil.Tokenize(a), k)
	bs := shingles(textutil.Tokenize(b), k)

	if len(as) == 0 && len(bs) == 0 {
		return 1
	}

	union := make(map[string]bool, len(as)+len(bs))
	inter := 0
	for s := range as {
		union[s] = true
	}
	for s := range bs {
		if as[s] {
			inter++
		}
		union[s] = true
	}
	if len(union) == 0 {
		return 0
	}
	return float64(inter) / float64(len(union))
}

func shingles(tokens []string, k int) map[string]bool {
	set := make(map[string]bool)
	if len(tokens) == 0 {
		return set
	}
	if len(tokens) <= k {
		set[strings.Join(tokens, " ")] = true
		return set
	}
	for i := 0; i+k <= len(tokens); i++ {
		set[strings.Join(tokens[i:i+k], " ")] = true
	}
	return set
}

var punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// ApproxSimilarity is a normalized edit similarity in [0,1] over cleaned
// sentences, used for near-duplicate and rewording detection.
func ApproxSimilarity(a, b string) float64 {
	ca := cleanForEditDistance(a)
	cb := cleanForEditDistance(b)

	if ca == "" && cb == "" {
		return 1
	}
	if ca == "" || cb == "" {
		return 0
	}

	dist := levenshtein.ComputeDistance(ca, cb)
	longest := len([]rune(ca))
	if l := len([]rune(cb)); l > longest {
		longest = l
	}
	return clamp01(1 - float64(dist)/float64(longest))
}

func cleanForEditDistance(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, "")
	return textutil.NormalizeWhitespace(s)
}

// DiffStrings returns the case/whitespace-insensitive set difference a\b,
// preserving a's order and deduplicating.
func DiffStrings(a, b []string) []string {
	bSet := make(map[string]bool, len(b))
	for _, s := range b {
		bSet[textutil.Normalize(s)] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, s := range a {
		key := textutil.Normalize(s)
		if bSet[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
