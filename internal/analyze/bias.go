package analyze

import (
	"context"
	"math/rand"
	"regexp"
	"sort"

	"go.uber.org/zap"

	"github.com/ppiankov/crosswiki/internal/classify"
	"github.com/ppiankov/crosswiki/internal/model"
)

// lexiconCategory is one fixed bias category with its word-boundary patterns
type lexiconCategory struct {
	category   model.BiasCategory
	severity   model.BiasSeverity
	styleGuide string
	patterns   []string
	compiled   []*regexp.Regexp
}

// biasLexicon holds the five fixed categories. Patterns follow the
// Wikipedia manual-of-style vocabulary lists for words to watch.
var biasLexicon = []lexiconCategory{
	{
		category:   model.BiasPuffery,
		severity:   model.SeverityMedium,
		styleGuide: "MOS:PUFFERY",
		patterns: []string{
			"legendary", "world-class", "groundbreaking", "renowned",
			"visionary", "iconic", "award-winning", "cutting-edge",
			"revolutionary", "unparalleled", "acclaimed", "prestigious",
			"best known", "masterpiece", "stunning",
		},
	},
	{
		category:   model.BiasContentiousLabel,
		severity:   model.SeverityHigh,
		styleGuide: "MOS:LABEL",
		patterns: []string{
			"cult", "racist", "terrorist", "extremist", "fundamentalist",
			"conspiracy", "pseudo-scientific", "pseudoscientific", "sect",
			"denialist", "heretic", "controversial", "neo-nazi", "fraudulent",
		},
	},
	{
		category:   model.BiasWeaselWording,
		severity:   model.SeverityMedium,
		styleGuide: "MOS:WEASEL",
		patterns: []string{
			"some people say", "many believe", "it is believed",
			"critics say", "some argue", "it has been said",
			"experts agree", "it is widely thought", "research has shown",
			"studies show", "many scholars", "observers note",
		},
	},
	{
		category:   model.BiasDoubtExpression,
		severity:   model.SeverityLow,
		styleGuide: "MOS:DOUBT",
		patterns: []string{
			"so-called", "supposed", "supposedly", "purported", "purportedly",
			"alleged", "allegedly", "self-proclaimed", "claims to be",
		},
	},
	{
		category:   model.BiasEditorializing,
		severity:   model.SeverityLow,
		styleGuide: "MOS:EDITORIAL",
		patterns: []string{
			"notably", "interestingly", "remarkably", "ironically",
			"essentially", "clearly", "obviously", "of course",
			"it should be noted", "importantly", "surprisingly",
			"without a doubt", "proves",
		},
	},
}

func init() {
	for i := range biasLexicon {
		for _, p := range biasLexicon[i].patterns {
			biasLexicon[i].compiled = append(biasLexicon[i].compiled,
				regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(p)+`\b`))
		}
	}
}

// keywordConfidence maps severity onto the lexicon's own confidence scale,
// compared against the classifier's neutrality score in hybrid mode.
func keywordConfidence(s model.BiasSeverity) float64 {
	switch s {
	case model.SeverityHigh:
		return 0.9
	case model.SeverityMedium:
		return 0.75
	default:
		return 0.6
	}
}

func downgrade(s model.BiasSeverity) model.BiasSeverity {
	switch s {
	case model.SeverityHigh:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// BiasDetector scans candidate-only sentences with the lexicon, optionally
// reconciling hits with the external zero-shot classifier.
type BiasDetector struct {
	cfg        model.BiasConfig
	clfCfg     model.ClassifierConfig
	classifier classify.Classifier
	logger     *zap.Logger
}

// NewBiasDetector builds a detector. classifier may be nil for keyword-only
// mode regardless of cfg.Hybrid.
func NewBiasDetector(cfg model.BiasConfig, clfCfg model.ClassifierConfig, classifier classify.Classifier, logger *zap.Logger) *BiasDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BiasDetector{cfg: cfg, clfCfg: clfCfg, classifier: classifier, logger: logger}
}

// Detect scans the extra sentences (present only in the candidate). A
// category/pattern hit is suppressed when the same pattern already matches
// the reference's full text: shared wording is not candidate-introduced
// bias. seed keeps the hybrid sampling stable across reruns of one pair.
func (d *BiasDetector) Detect(ctx context.Context, extraSentences []string, refText string, seed int64) ([]model.BiasEvent, model.BiasMetrics) {
	metrics := model.BiasMetrics{
		ExtraSentencesScanned: len(extraSentences),
		EventsByCategory:      make(map[model.BiasCategory]int),
	}

	var events []model.BiasEvent
	flagged := make(map[int][]int) // sentence index -> event indices

	for si, sent := range extraSentences {
		for _, cat := range biasLexicon {
			for pi, re := range cat.compiled {
				if !re.MatchString(sent) {
					continue
				}
				if re.MatchString(refText) {
					continue // suppressed: wording shared with the reference
				}
				events = append(events, model.BiasEvent{
					Sentence:   sent,
					Category:   cat.category,
					Pattern:    cat.patterns[pi],
					Severity:   cat.severity,
					StyleGuide: cat.styleGuide,
				})
				flagged[si] = append(flagged[si], len(events)-1)
				break // one event per category per sentence
			}
		}
	}

	if d.cfg.Hybrid && d.classifier != nil {
		events = d.reconcile(ctx, extraSentences, flagged, events, seed, &metrics)
	}

	metrics.FlaggedSentences = len(flagged)
	for _, e := range events {
		metrics.EventsByCategory[e.Category]++
		metrics.SeverityScore += keywordConfidence(e.Severity)
	}
	return events, metrics
}

func biasLabels() []string {
	labels := make([]string, 0, len(biasLexicon)+1)
	for _, cat := range biasLexicon {
		labels = append(labels, string(cat.category))
	}
	return append(labels, string(model.BiasNeutral))
}

// reconcile runs the hybrid classifier pass: confirm, demote or downgrade
// every keyword hit, then sample unflagged sentences for keyword-missed
// bias. Any classifier failure falls back to the keyword-only events with a
// logged warning; the comparison never aborts here.
func (d *BiasDetector) reconcile(ctx context.Context, sentences []string, flagged map[int][]int, events []model.BiasEvent, seed int64, metrics *model.BiasMetrics) []model.BiasEvent {
	labels := biasLabels()

	var flaggedIdx []int
	for si := range flagged {
		flaggedIdx = append(flaggedIdx, si)
	}
	sort.Ints(flaggedIdx)

	flaggedTexts := make([]string, len(flaggedIdx))
	for i, si := range flaggedIdx {
		flaggedTexts[i] = sentences[si]
	}

	scores, err := classify.ClassifyBatch(ctx, d.classifier, flaggedTexts, labels, d.clfCfg.BatchSize, d.clfCfg.Parallelism)
	if err != nil {
		d.logger.Warn("bias classifier unavailable, falling back to keyword-only detection",
			zap.Error(err))
		return events
	}
	metrics.ClassifierUsed = true
	metrics.ClassifierCalls += len(flaggedTexts)

	drop := make(map[int]bool)
	for i, si := range flaggedIdx {
		s := scores[i]
		neutral := s[string(model.BiasNeutral)]
		for _, ei := range flagged[si] {
			ev := &events[ei]
			catScore := s[string(ev.Category)]
			switch {
			case catScore >= d.cfg.ConfirmThreshold:
				score := catScore
				ev.ClassifierScore = &score
				ev.Note = "confirmed by classifier"
			case neutral > d.cfg.NeutralThreshold && keywordConfidence(ev.Severity) <= d.cfg.KeywordThreshold:
				drop[ei] = true
			default:
				ev.Severity = downgrade(ev.Severity)
				ev.Note = "classifier inconclusive, severity downgraded"
			}
		}
	}

	kept := events[:0:0]
	for i, ev := range events {
		if !drop[i] {
			kept = append(kept, ev)
		}
	}
	events = kept

	// Sample unflagged extra sentences to catch bias the lexicon missed.
	var unflagged []int
	for si := range sentences {
		if _, ok := flagged[si]; !ok {
			unflagged = append(unflagged, si)
		}
	}
	n := int(float64(len(unflagged)) * d.cfg.SampleFraction)
	if n > d.cfg.SampleCap {
		n = d.cfg.SampleCap
	}
	if n <= 0 || len(unflagged) == 0 {
		return events
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(unflagged), func(i, j int) {
		unflagged[i], unflagged[j] = unflagged[j], unflagged[i]
	})
	sample := unflagged[:n]
	sort.Ints(sample)

	sampleTexts := make([]string, len(sample))
	for i, si := range sample {
		sampleTexts[i] = sentences[si]
	}
	sampleScores, err := classify.ClassifyBatch(ctx, d.classifier, sampleTexts, labels, d.clfCfg.BatchSize, d.clfCfg.Parallelism)
	if err != nil {
		d.logger.Warn("bias classifier sampling failed", zap.Error(err))
		return events
	}
	metrics.ClassifierCalls += len(sampleTexts)

	for i, si := range sample {
		label, score := sampleScores[i].Top()
		if label == string(model.BiasNeutral) || score <= d.cfg.ConfirmThreshold {
			continue
		}
		severity := model.SeverityLow
		if score >= 0.85 {
			severity = model.SeverityMedium
		}
		sc := score
		events = append(events, model.BiasEvent{
			Sentence:        sentences[si],
			Category:        model.BiasCategory(label),
			Severity:        severity,
			ClassifierScore: &sc,
			Note:            "detected by classifier only",
		})
	}
	return events
}
