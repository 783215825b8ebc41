package analyze

import (
	"fmt"

	"github.com/ppiankov/crosswiki/internal/model"
)

// ConfidenceInput carries the aggregates the verdict is computed from.
type ConfidenceInput struct {
	Similarity       model.SimilarityScores
	SectionAlignAvg  float64
	SectionsAligned  bool
	AgreedSentences  int
	ExtraSentences   int
	MissingSentences int
	FactualErrors    int
	BiasEvents       int
	Hallucinations   int
}

// ComputeConfidence turns the aggregates into a divergence score in [0,1]
// (higher means the candidate drifts further from the reference), a verdict
// label gated on the configured thresholds, and a rationale line per signal
// that moved the score.
func ComputeConfidence(in ConfidenceInput, cfg model.AnalyzerConfig) model.Confidence {
	score := baseScore(in.Similarity.SentenceSimilarity)
	rationale := []string{
		fmt.Sprintf("base %.2f from sentence similarity %.2f", score, in.Similarity.SentenceSimilarity),
	}

	adjust := func(delta float64, reason string) {
		score += delta
		rationale = append(rationale, fmt.Sprintf("%+.3f %s", delta, reason))
	}

	if in.Similarity.WordSimilarity >= 0.8 && in.Similarity.SentenceSimilarity < 0.5 {
		adjust(-0.05, "high word overlap despite low sentence similarity suggests reordering")
	}
	if in.SectionsAligned {
		if in.SectionAlignAvg >= 0.9 {
			adjust(-0.05, fmt.Sprintf("section structure closely aligned (%.2f)", in.SectionAlignAvg))
		} else if in.SectionAlignAvg < 0.3 {
			adjust(0.05, fmt.Sprintf("section structure diverges (%.2f)", in.SectionAlignAvg))
		}
	}
	if in.AgreedSentences > 0 {
		adjust(-capped(0.02*float64(in.AgreedSentences), 0.2),
			fmt.Sprintf("%d agreed sentences", in.AgreedSentences))
	}
	if in.ExtraSentences > 0 {
		adjust(capped(0.01*float64(in.ExtraSentences), 0.1),
			fmt.Sprintf("%d sentences only in candidate", in.ExtraSentences))
	}
	if in.MissingSentences > 0 {
		adjust(capped(0.005*float64(in.MissingSentences), 0.05),
			fmt.Sprintf("%d reference sentences missing", in.MissingSentences))
	}
	if in.FactualErrors > 0 {
		adjust(0.08*float64(in.FactualErrors),
			fmt.Sprintf("%d factual errors", in.FactualErrors))
	}
	if in.BiasEvents > 0 {
		adjust(0.03*float64(in.BiasEvents),
			fmt.Sprintf("%d bias events", in.BiasEvents))
	}
	if in.Hallucinations > 0 {
		adjust(0.04*float64(in.Hallucinations),
			fmt.Sprintf("%d possible hallucinations", in.Hallucinations))
	}

	return model.Confidence{
		Score:     clamp01(score),
		Label:     verdictLabel(in, cfg),
		Rationale: rationale,
	}
}

// baseScore buckets sentence similarity into a starting divergence level.
func baseScore(sentenceSim float64) float64 {
	switch {
	case sentenceSim >= 0.95:
		return 0.15
	case sentenceSim >= 0.8:
		return 0.3
	case sentenceSim >= 0.5:
		return 0.45
	case sentenceSim >= 0.1:
		return 0.55
	default:
		return 0.7
	}
}

// verdictLabel gates on similarity thresholds. The aligned verdict also
// requires a clean factual record: one confirmed factual error is enough
// to rule it out no matter how similar the prose reads.
func verdictLabel(in ConfidenceInput, cfg model.AnalyzerConfig) model.ConfidenceLabel {
	sim := in.Similarity
	if sim.SentenceSimilarity >= cfg.AlignedSentenceSim &&
		sim.ShingleOverlap >= cfg.AlignedShingle &&
		in.FactualErrors == 0 {
		return model.LabelAligned
	}
	if sim.SentenceSimilarity >= cfg.PossibleSentenceSim &&
		sim.ShingleOverlap >= cfg.PossibleShingle {
		return model.LabelPossibleDivergence
	}
	return model.LabelSuspectedDivergence
}

func capped(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}
