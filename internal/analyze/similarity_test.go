package analyze

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestWordSimilarity_RefRelative(t *testing.T) {
	ref := "the moon is bright"
	cand := "the moon is bright and large tonight"

	if got := WordSimilarity(ref, cand); got != 1 {
		t.Errorf("WordSimilarity(ref, superset) = %v, want 1", got)
	}
	// Asymmetric: the longer side as reference dilutes the ratio.
	if got := WordSimilarity(cand, ref); !almostEqual(got, 4.0/7.0) {
		t.Errorf("WordSimilarity(superset, ref) = %v, want 4/7", got)
	}
}

func TestWordSimilarity_Empty(t *testing.T) {
	if got := WordSimilarity("", ""); got != 1 {
		t.Errorf("both empty = %v, want 1", got)
	}
	if got := WordSimilarity("the moon", ""); got != 0 {
		t.Errorf("empty candidate = %v, want 0", got)
	}
	if got := WordSimilarity("", "the moon"); got != 0 {
		t.Errorf("empty reference = %v, want 0", got)
	}
}

func TestSymmetricTokenOverlap(t *testing.T) {
	if got := SymmetricTokenOverlap("the moon", "the moon is bright"); got != 1 {
		t.Errorf("subset overlap = %v, want 1", got)
	}
	if got := SymmetricTokenOverlap("the moon is bright", "the moon"); got != 1 {
		t.Errorf("overlap is not symmetric: %v", got)
	}
	if got := SymmetricTokenOverlap("alpha beta", "gamma delta"); got != 0 {
		t.Errorf("disjoint overlap = %v, want 0", got)
	}
}

func TestShingleOverlap(t *testing.T) {
	if got := ShingleOverlap("the moon orbits the earth", "the moon orbits the earth", 3); got != 1 {
		t.Errorf("identical = %v, want 1", got)
	}
	if got := ShingleOverlap("", "", 3); got != 1 {
		t.Errorf("both empty = %v, want 1", got)
	}
	// Texts shorter than k collapse to one shingle each.
	if got := ShingleOverlap("lunar surface", "lunar surface", 3); got != 1 {
		t.Errorf("short identical = %v, want 1", got)
	}
	if got := ShingleOverlap("lunar surface", "solar wind", 3); got != 0 {
		t.Errorf("short disjoint = %v, want 0", got)
	}
	// {a b c, b c d} vs {b c d, c d e}: one of three shingles shared.
	if got := ShingleOverlap("a b c d", "b c d e", 3); !almostEqual(got, 1.0/3.0) {
		t.Errorf("partial overlap = %v, want 1/3", got)
	}
}

func TestApproxSimilarity(t *testing.T) {
	if got := ApproxSimilarity("The Moon is bright.", "the moon is bright"); got != 1 {
		t.Errorf("case and punctuation must not matter: %v", got)
	}
	if got := ApproxSimilarity("", ""); got != 1 {
		t.Errorf("both empty = %v, want 1", got)
	}
	if got := ApproxSimilarity("the moon", ""); got != 0 {
		t.Errorf("one empty = %v, want 0", got)
	}
	near := ApproxSimilarity("the moon orbits the earth", "the moon orbits our earth")
	far := ApproxSimilarity("the moon orbits the earth", "rainfall totals vary widely")
	if near <= far {
		t.Errorf("near paraphrase %v not above unrelated %v", near, far)
	}
	if near < 0.8 {
		t.Errorf("near paraphrase = %v, want high", near)
	}
}

func TestDiffStrings(t *testing.T) {
	a := []string{"The Moon is bright.", "It has craters.", "it has craters."}
	b := []string{"THE MOON IS BRIGHT."}

	got := DiffStrings(a, b)
	if len(got) != 1 || got[0] != "It has craters." {
		t.Errorf("DiffStrings = %v, want deduplicated [It has craters.]", got)
	}
	if got := DiffStrings(nil, b); got != nil {
		t.Errorf("DiffStrings(nil, b) = %v, want nil", got)
	}
}
