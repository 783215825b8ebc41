package analyze

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/crosswiki/internal/classify"
	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/textutil"
)

// AnalyzerVersion is bumped whenever the comparison semantics change, so
// cached payloads from older runs miss instead of serving stale verdicts.
const AnalyzerVersion = "0.3.0"

// Analyzer runs the full comparison pipeline over a prepared pair of
// snapshots. Safe for concurrent use.
type Analyzer struct {
	cfg    *model.Config
	bias   *BiasDetector
	logger *zap.Logger
}

// New builds an analyzer. classifier may be nil; bias detection then runs
// keyword-only regardless of configuration.
func New(cfg *model.Config, classifier classify.Classifier, logger *zap.Logger) *Analyzer {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		cfg:    cfg,
		bias:   NewBiasDetector(cfg.Bias, cfg.Classifier, classifier, logger.Named("bias")),
		logger: logger,
	}
}

// Analyze compares the reference against the candidate and returns the
// complete payload. Pure with respect to its inputs apart from run metadata
// (run id, timestamp) and optional classifier calls.
func (a *Analyzer) Analyze(ctx context.Context, topic model.Topic, ref, cand *model.StructuredArticle) (*model.AnalysisPayload, error) {
	if ref == nil {
		return nil, errors.New("analyze: reference snapshot is nil")
	}
	if cand == nil {
		return nil, errors.New("analyze: candidate snapshot is nil")
	}

	refSrc := Prepare(ref, a.cfg.Analyzer.ExcludeMetaSections)
	candSrc := Prepare(cand, a.cfg.Analyzer.ExcludeMetaSections)

	p := &model.AnalysisPayload{Topic: topic}
	p.Stats = stats(refSrc, candSrc)

	p.Similarity = model.SimilarityScores{
		SentenceSimilarity: sentenceSimilarity(refSrc.Sentences, candSrc.Sentences),
		WordSimilarity:     WordSimilarity(refSrc.Text, candSrc.Text),
		ShingleOverlap:     ShingleOverlap(refSrc.Text, candSrc.Text, a.cfg.Analyzer.ShingleSize),
	}

	p.MissingSentences = DiffStrings(refSrc.Sentences, candSrc.Sentences)
	p.ExtraSentences = DiffStrings(candSrc.Sentences, refSrc.Sentences)
	p.AgreedSentences = agreedSentences(refSrc.Sentences, candSrc.Sentences)
	p.MissingSentences, p.RewordedSentences = extractReworded(
		p.MissingSentences, p.ExtraSentences, a.cfg.Analyzer.RewordedThreshold)

	p.SectionsMissing = DiffStrings(refSrc.Sections, candSrc.Sections)
	p.SectionsExtra = DiffStrings(candSrc.Sections, refSrc.Sections)
	p.CitationsMissing = DiffStrings(refSrc.Citations, candSrc.Citations)
	p.CitationsExtra = DiffStrings(candSrc.Citations, refSrc.Citations)

	p.SectionAlignments = AlignSections(ref.Sections, cand.Sections)

	pairs := AlignClaims(refSrc.Claims, candSrc.Claims)
	p.ClaimAlignments = claimAlignmentRecords(pairs)

	var numErrs, entErrs []model.FactualError
	p.NumericDiscrepancies, numErrs = DetectNumeric(pairs,
		a.cfg.Analyzer.NumericThreshold, a.cfg.Analyzer.NumericErrorLevel)
	p.EntityDiscrepancies, entErrs = DetectEntities(pairs)
	semErrs := DetectSemanticDivergence(pairs)
	p.FactualErrors = append(append(append(p.FactualErrors, numErrs...), entErrs...), semErrs...)

	refClaims := make([]*model.Claim, len(refSrc.Claims))
	for i := range refSrc.Claims {
		refClaims[i] = &refSrc.Claims[i]
	}
	seed := sampleSeed(topic)
	p.BiasEvents, p.BiasMetrics = a.bias.Detect(ctx, p.ExtraSentences, refSrc.Text, seed)
	p.HallucinationEvents = DetectHallucinations(p.ExtraSentences, refClaims)

	diff, err := DiffSample(refSrc.Sentences, candSrc.Sentences,
		a.cfg.Analyzer.DiffContextLines, a.cfg.Analyzer.DiffMaxLines)
	if err != nil {
		return nil, fmt.Errorf("diff sample: %w", err)
	}
	p.DiffSample = diff

	p.Discrepancies = summarizeDiscrepancies(p)

	p.Confidence = ComputeConfidence(ConfidenceInput{
		Similarity:       p.Similarity,
		SectionAlignAvg:  sectionAlignAvg(p.SectionAlignments),
		SectionsAligned:  len(p.SectionAlignments) > 0,
		AgreedSentences:  len(p.AgreedSentences),
		ExtraSentences:   len(p.ExtraSentences),
		MissingSentences: len(p.MissingSentences),
		FactualErrors:    len(p.FactualErrors),
		BiasEvents:       len(p.BiasEvents),
		Hallucinations:   len(p.HallucinationEvents),
	}, a.cfg.Analyzer)

	p.Meta = model.AnalysisMeta{
		AnalyzerVersion: AnalyzerVersion,
		ContentHash:     ContentHash(refSrc.Text, candSrc.Text),
		RunID:           uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		CacheTTLSeconds: int(a.cfg.Analyzer.CacheTTL.Seconds()),
		ShingleSize:     a.cfg.Analyzer.ShingleSize,
		AnalysisWindow:  analysisWindow(ref, cand),
	}

	a.logger.Info("comparison complete",
		zap.String("topic", topic.ID),
		zap.Float64("sentence_similarity", p.Similarity.SentenceSimilarity),
		zap.String("label", string(p.Confidence.Label)),
		zap.Int("factual_errors", len(p.FactualErrors)))
	return p, nil
}

// ContentHash identifies the input pair for caching. Computed over the
// flattened normalized texts plus the analyzer version, so either side
// changing or the semantics changing produces a new key.
func ContentHash(refText, candText string) string {
	h := sha256.New()
	h.Write([]byte(refText))
	h.Write([]byte{0})
	h.Write([]byte(candText))
	h.Write([]byte{0})
	h.Write([]byte(AnalyzerVersion))
	return hex.EncodeToString(h.Sum(nil))
}

// sentenceSimilarity averages, over reference sentences, the best candidate
// match for each. Candidates are not consumed: several reference sentences
// may match one candidate sentence.
func sentenceSimilarity(ref, cand []string) float64 {
	if len(ref) == 0 && len(cand) == 0 {
		return 1
	}
	if len(ref) == 0 || len(cand) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range ref {
		best := 0.0
		for _, c := range cand {
			if sim := ApproxSimilarity(r, c); sim > best {
				best = sim
			}
		}
		total += best
	}
	return clamp01(total / float64(len(ref)))
}

func agreedSentences(ref, cand []string) []string {
	candSet := make(map[string]bool, len(cand))
	for _, s := range cand {
		candSet[textutil.Normalize(s)] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, s := range ref {
		key := textutil.Normalize(s)
		if candSet[key] && !seen[key] {
			seen[key] = true
			out = append(out, s)
		}
	}
	return out
}

// extractReworded moves missing sentences that have a near-duplicate among
// the extras into the reworded list. A missing sentence with a rewrite is
// not missing content, only restated content. Each pair is scored by the
// stronger of edit similarity and token overlap: reordering clauses wrecks
// edit distance while leaving the token set intact.
func extractReworded(missing, extra []string, threshold float64) ([]string, []model.RewordedSentence) {
	var stillMissing []string
	var reworded []model.RewordedSentence
	for _, m := range missing {
		bestSim := 0.0
		bestIdx := -1
		for i, e := range extra {
			sim := ApproxSimilarity(m, e)
			if ov := SymmetricTokenOverlap(m, e); ov > sim {
				sim = ov
			}
			if sim > bestSim {
				bestSim = sim
				bestIdx = i
			}
		}
		if bestIdx >= 0 && bestSim >= threshold {
			reworded = append(reworded, model.RewordedSentence{
				Reference:  m,
				Candidate:  extra[bestIdx],
				Similarity: bestSim,
			})
			continue
		}
		stillMissing = append(stillMissing, m)
	}
	return stillMissing, reworded
}

func sectionAlignAvg(rows []model.SectionAlignment) float64 {
	if len(rows) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range rows {
		total += r.Similarity
	}
	return total / float64(len(rows))
}

// summarizeDiscrepancies flattens every detector's findings into the single
// human-readable discrepancy list.
func summarizeDiscrepancies(p *model.AnalysisPayload) []model.Discrepancy {
	var out []model.Discrepancy
	for _, n := range p.NumericDiscrepancies {
		out = append(out, model.Discrepancy{
			Kind: model.DiscrepancyNumeric,
			Description: fmt.Sprintf("numeric value differs: %s vs %s (relative diff %.2f)",
				n.RefRaw, n.CandRaw, n.RelativeDiff),
			Detail: fmt.Sprintf("%s vs %s", n.RefClaimID, n.CandClaimID),
		})
	}
	for _, e := range p.EntityDiscrepancies {
		out = append(out, model.Discrepancy{
			Kind: model.DiscrepancyEntity,
			Description: fmt.Sprintf("entity sets differ: %d only in reference, %d only in candidate",
				len(e.RefOnly), len(e.CandOnly)),
			Detail: fmt.Sprintf("%s vs %s", e.RefClaimID, e.CandClaimID),
		})
	}
	for _, f := range p.FactualErrors {
		if f.Kind == model.FactualSemantic {
			out = append(out, model.Discrepancy{
				Kind:        model.DiscrepancySemantic,
				Description: f.Description,
				Detail:      f.RefClaim,
			})
		}
	}
	if len(p.SectionsMissing) > 0 || len(p.SectionsExtra) > 0 {
		out = append(out, model.Discrepancy{
			Kind: model.DiscrepancySection,
			Description: fmt.Sprintf("section structure differs: %d missing, %d extra",
				len(p.SectionsMissing), len(p.SectionsExtra)),
		})
	}
	if len(p.CitationsMissing) > 0 || len(p.CitationsExtra) > 0 {
		out = append(out, model.Discrepancy{
			Kind: model.DiscrepancyCitation,
			Description: fmt.Sprintf("citation sets differ: %d missing, %d extra",
				len(p.CitationsMissing), len(p.CitationsExtra)),
		})
	}
	return out
}

func stats(ref, cand *Source) model.AnalysisStats {
	return model.AnalysisStats{
		RefSentences:  len(ref.Sentences),
		CandSentences: len(cand.Sentences),
		RefSections:   len(ref.Sections),
		CandSections:  len(cand.Sections),
		RefCitations:  len(ref.Citations),
		CandCitations: len(cand.Citations),
		RefClaims:     len(ref.Claims),
		CandClaims:    len(cand.Claims),
		RefWords:      len(textutil.Tokenize(ref.Text)),
		CandWords:     len(textutil.Tokenize(cand.Text)),
	}
}

// sampleSeed derives a stable per-topic seed so the hybrid bias sample is
// the same across reruns of the same pair.
func sampleSeed(topic model.Topic) int64 {
	sum := sha256.Sum256([]byte(topic.ID + "\x00" + topic.Title))
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}

func analysisWindow(ref, cand *model.StructuredArticle) string {
	r := snapshotTime(ref)
	c := snapshotTime(cand)
	if r == "" && c == "" {
		return ""
	}
	return fmt.Sprintf("reference %s, candidate %s", orUnknown(r), orUnknown(c))
}

func snapshotTime(a *model.StructuredArticle) string {
	return a.Revision.Timestamp
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
