package analyze

import (
	"strings"
	"testing"

	"github.com/ppiankov/crosswiki/internal/model"
)

func analyzerCfg() model.AnalyzerConfig {
	return model.DefaultConfig().Analyzer
}

func TestComputeConfidence_BaseBands(t *testing.T) {
	cases := []struct {
		sentenceSim float64
		want        float64
	}{
		{0.97, 0.15},
		{0.85, 0.3},
		{0.6, 0.45},
		{0.2, 0.55},
		{0.05, 0.7},
	}
	for _, tc := range cases {
		in := ConfidenceInput{Similarity: model.SimilarityScores{SentenceSimilarity: tc.sentenceSim}}
		got := ComputeConfidence(in, analyzerCfg())
		if got.Score != tc.want {
			t.Errorf("sentence similarity %v: score = %v, want %v", tc.sentenceSim, got.Score, tc.want)
		}
		if len(got.Rationale) != 1 || !strings.HasPrefix(got.Rationale[0], "base ") {
			t.Errorf("rationale = %v, want single base entry", got.Rationale)
		}
	}
}

func TestComputeConfidence_Labels(t *testing.T) {
	cfg := analyzerCfg()
	cases := []struct {
		name          string
		sentenceSim   float64
		shingle       float64
		factualErrors int
		want          model.ConfidenceLabel
	}{
		{"high similarity", 0.9, 0.6, 0, model.LabelAligned},
		{"at thresholds", 0.75, 0.5, 0, model.LabelAligned},
		{"factual error blocks aligned", 0.9, 0.6, 1, model.LabelPossibleDivergence},
		{"middling similarity", 0.5, 0.45, 0, model.LabelPossibleDivergence},
		{"low shingle overlap", 0.5, 0.2, 0, model.LabelSuspectedDivergence},
		{"low similarity", 0.2, 0.1, 0, model.LabelSuspectedDivergence},
	}
	for _, tc := range cases {
		in := ConfidenceInput{
			Similarity: model.SimilarityScores{
				SentenceSimilarity: tc.sentenceSim,
				ShingleOverlap:     tc.shingle,
			},
			FactualErrors: tc.factualErrors,
		}
		if got := ComputeConfidence(in, cfg); got.Label != tc.want {
			t.Errorf("%s: label = %q, want %q", tc.name, got.Label, tc.want)
		}
	}
}

func TestComputeConfidence_Adjustments(t *testing.T) {
	in := ConfidenceInput{
		Similarity: model.SimilarityScores{
			SentenceSimilarity: 0.6,
			ShingleOverlap:     0.5,
		},
		SectionsAligned: true,
		SectionAlignAvg: 0.95,
		AgreedSentences: 5,
		ExtraSentences:  20,
		FactualErrors:   1,
	}
	got := ComputeConfidence(in, analyzerCfg())

	// 0.45 - 0.05 (sections) - 0.10 (agreed) + 0.10 (extras, capped) + 0.08
	want := 0.45 - 0.05 - 0.10 + 0.10 + 0.08
	if diff := got.Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score = %v, want %v", got.Score, want)
	}
	// base plus one line per signal that moved the score
	if len(got.Rationale) != 5 {
		t.Errorf("rationale = %v, want 5 entries", got.Rationale)
	}
}

func TestComputeConfidence_ReorderingHint(t *testing.T) {
	in := ConfidenceInput{
		Similarity: model.SimilarityScores{
			SentenceSimilarity: 0.3,
			WordSimilarity:     0.9,
		},
	}
	got := ComputeConfidence(in, analyzerCfg())
	want := 0.55 - 0.05
	if diff := got.Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score = %v, want %v", got.Score, want)
	}
}

func TestComputeConfidence_Clamped(t *testing.T) {
	low := ConfidenceInput{
		Similarity:      model.SimilarityScores{SentenceSimilarity: 0.99, WordSimilarity: 0.99},
		SectionsAligned: true,
		SectionAlignAvg: 0.99,
		AgreedSentences: 50,
	}
	if got := ComputeConfidence(low, analyzerCfg()); got.Score != 0 {
		t.Errorf("score = %v, want clamped to 0", got.Score)
	}

	high := ConfidenceInput{
		Similarity:     model.SimilarityScores{SentenceSimilarity: 0.01},
		FactualErrors:  5,
		BiasEvents:     10,
		Hallucinations: 5,
	}
	if got := ComputeConfidence(high, analyzerCfg()); got.Score != 1 {
		t.Errorf("score = %v, want clamped to 1", got.Score)
	}
}
