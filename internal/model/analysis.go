package model

import "time"

// DiscrepancyKind tags entries in the unified discrepancies list
type DiscrepancyKind string

const (
	DiscrepancyNumeric  DiscrepancyKind = "numeric"
	DiscrepancyEntity   DiscrepancyKind = "entity"
	DiscrepancySemantic DiscrepancyKind = "semantic_divergence"
	DiscrepancySection  DiscrepancyKind = "section_structure"
	DiscrepancyCitation DiscrepancyKind = "citation_set"
)

// Discrepancy is one entry in the unified discrepancy list
type Discrepancy struct {
	Kind        DiscrepancyKind `json:"kind"`
	Description string          `json:"description"`
	Detail      string          `json:"detail,omitempty"`
}

// BiasCategory is one of the five fixed lexicon categories
type BiasCategory string

const (
	BiasPuffery          BiasCategory = "puffery"
	BiasContentiousLabel BiasCategory = "contentious_labels"
	BiasWeaselWording    BiasCategory = "weasel_words"
	BiasDoubtExpression  BiasCategory = "expressions_of_doubt"
	BiasEditorializing   BiasCategory = "editorializing"
	BiasNeutral          BiasCategory = "neutral" // classifier-only label
)

// BiasSeverity ranks bias events
type BiasSeverity string

const (
	SeverityLow    BiasSeverity = "low"
	SeverityMedium BiasSeverity = "medium"
	SeverityHigh   BiasSeverity = "high"
)

// BiasEvent is one flagged candidate-only sentence
type BiasEvent struct {
	Sentence        string       `json:"sentence"`
	Category        BiasCategory `json:"category"`
	Pattern         string       `json:"pattern,omitempty"`
	Severity        BiasSeverity `json:"severity"`
	StyleGuide      string       `json:"style_guide,omitempty"`
	ClassifierScore *float64     `json:"classifier_score,omitempty"`
	Note            string       `json:"note,omitempty"`
}

// HallucinationEvent is one speculative-language hit in the candidate
type HallucinationEvent struct {
	Sentence     string  `json:"sentence"`
	Marker       string  `json:"marker"`
	NearestClaim string  `json:"nearest_claim,omitempty"`
	Similarity   float64 `json:"similarity"`
}

// FactualErrorKind classifies escalated discrepancies
type FactualErrorKind string

const (
	FactualNumeric  FactualErrorKind = "numeric"
	FactualEntity   FactualErrorKind = "entity"
	FactualSemantic FactualErrorKind = "semantic"
)

// FactualError is a discrepancy severe enough to count against confidence
type FactualError struct {
	Kind        FactualErrorKind `json:"kind"`
	Description string           `json:"description"`
	RefClaim    string           `json:"ref_claim,omitempty"`
	CandClaim   string           `json:"cand_claim,omitempty"`
}

// RewordedSentence pairs a reference sentence with its high-similarity rewrite
type RewordedSentence struct {
	Reference  string  `json:"reference"`
	Candidate  string  `json:"candidate"`
	Similarity float64 `json:"similarity"`
}

// SectionAlignment is one row of the greedy section pairing
type SectionAlignment struct {
	RefHeading    string  `json:"ref_heading,omitempty"`
	CandHeading   string  `json:"cand_heading,omitempty"`
	Similarity    float64 `json:"similarity"`
	RefSectionID  string  `json:"ref_section_id,omitempty"`
	CandSectionID string  `json:"cand_section_id,omitempty"`
}

// AlignedClaim is one side of a claim pairing
type AlignedClaim struct {
	ClaimID string `json:"claim_id"`
	Text    string `json:"text"`
}

// ClaimAlignment is one row of the greedy claim pairing
type ClaimAlignment struct {
	RefClaim   *AlignedClaim `json:"ref_claim,omitempty"`
	CandClaim  *AlignedClaim `json:"cand_claim,omitempty"`
	Similarity float64       `json:"similarity"`
}

// NumericDiscrepancy reports diverging first numbers on an aligned claim pair
type NumericDiscrepancy struct {
	RefClaimID   string  `json:"ref_claim_id"`
	CandClaimID  string  `json:"cand_claim_id"`
	RefRaw       string  `json:"ref_raw"`
	CandRaw      string  `json:"cand_raw"`
	RefValue     float64 `json:"ref_value"`
	CandValue    float64 `json:"cand_value"`
	Unit         string  `json:"unit,omitempty"`
	RelativeDiff float64 `json:"relative_diff"`
	FactualError bool    `json:"factual_error"`
}

// EntityDiscrepancy reports a non-empty symmetric entity-set difference
type EntityDiscrepancy struct {
	RefClaimID   string   `json:"ref_claim_id"`
	CandClaimID  string   `json:"cand_claim_id"`
	RefOnly      []string `json:"ref_only,omitempty"`
	CandOnly     []string `json:"cand_only,omitempty"`
	FactualError bool     `json:"factual_error"`
}

// BiasMetrics summarizes the bias pass
type BiasMetrics struct {
	ExtraSentencesScanned int                  `json:"extra_sentences_scanned"`
	FlaggedSentences      int                  `json:"flagged_sentences"`
	EventsByCategory      map[BiasCategory]int `json:"events_by_category,omitempty"`
	SeverityScore         float64              `json:"severity_score"`
	ClassifierUsed        bool                 `json:"classifier_used"`
	ClassifierCalls       int                  `json:"classifier_calls,omitempty"`
}

// ConfidenceLabel is the final verdict
type ConfidenceLabel string

const (
	LabelAligned             ConfidenceLabel = "aligned"
	LabelPossibleDivergence  ConfidenceLabel = "possible_divergence"
	LabelSuspectedDivergence ConfidenceLabel = "suspected_divergence"
)

// Confidence is the scored verdict with its contributing rationales
type Confidence struct {
	Score     float64         `json:"score"`
	Label     ConfidenceLabel `json:"label"`
	Rationale []string        `json:"rationale"`
}

// AnalysisStats counts raw material on both sides
type AnalysisStats struct {
	RefSentences  int `json:"ref_sentences"`
	CandSentences int `json:"cand_sentences"`
	RefSections   int `json:"ref_sections"`
	CandSections  int `json:"cand_sections"`
	RefCitations  int `json:"ref_citations"`
	CandCitations int `json:"cand_citations"`
	RefClaims     int `json:"ref_claims"`
	CandClaims    int `json:"cand_claims"`
	RefWords      int `json:"ref_words"`
	CandWords     int `json:"cand_words"`
}

// SimilarityScores groups the document-level ratios
type SimilarityScores struct {
	SentenceSimilarity float64 `json:"sentence_similarity"`
	WordSimilarity     float64 `json:"word_similarity"`
	ShingleOverlap     float64 `json:"shingle_overlap"`
}

// AnalysisMeta carries provenance for caching and audit
type AnalysisMeta struct {
	AnalyzerVersion string    `json:"analyzer_version"`
	ContentHash     string    `json:"content_hash"`
	RunID           string    `json:"run_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	CacheTTLSeconds int       `json:"cache_ttl_seconds"`
	ShingleSize     int       `json:"shingle_size"`
	AnalysisWindow  string    `json:"analysis_window"`
}

// AnalysisPayload is the complete comparison result. Immutable once returned;
// persistence belongs to external collaborators.
type AnalysisPayload struct {
	Topic                Topic                `json:"topic"`
	Stats                AnalysisStats        `json:"stats"`
	Similarity           SimilarityScores     `json:"similarity"`
	MissingSentences     []string             `json:"missing_sentences"`
	ExtraSentences       []string             `json:"extra_sentences"`
	AgreedSentences      []string             `json:"agreed_sentences"`
	RewordedSentences    []RewordedSentence   `json:"reworded_sentences"`
	SectionsMissing      []string             `json:"sections_missing"`
	SectionsExtra        []string             `json:"sections_extra"`
	CitationsMissing     []string             `json:"citations_missing"`
	CitationsExtra       []string             `json:"citations_extra"`
	DiffSample           []string             `json:"diff_sample"`
	Discrepancies        []Discrepancy        `json:"discrepancies"`
	BiasEvents           []BiasEvent          `json:"bias_events"`
	HallucinationEvents  []HallucinationEvent `json:"hallucination_events"`
	FactualErrors        []FactualError       `json:"factual_errors"`
	SectionAlignments    []SectionAlignment   `json:"section_alignments"`
	ClaimAlignments      []ClaimAlignment     `json:"claim_alignments"`
	NumericDiscrepancies []NumericDiscrepancy `json:"numeric_discrepancies"`
	EntityDiscrepancies  []EntityDiscrepancy  `json:"entity_discrepancies"`
	BiasMetrics          BiasMetrics          `json:"bias_metrics"`
	Confidence           Confidence           `json:"confidence"`
	Meta                 AnalysisMeta         `json:"meta"`
}
