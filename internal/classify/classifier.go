// Package classify wraps the external zero-shot text classifier used as an
// optional confidence booster for bias detection. The classifier is a pure,
// possibly-slow remote function; every failure path degrades to keyword-only
// detection and never aborts an analysis.
package classify

import (
	"context"
	"fmt"

	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/worker"
)

// Scores holds per-label scores for one classified sentence in [0,1]
type Scores map[string]float64

// Top returns the highest-scoring label and its score
func (s Scores) Top() (string, float64) {
	best := ""
	bestScore := 0.0
	for label, score := range s {
		if score > bestScore {
			best = label
			bestScore = score
		}
	}
	return best, bestScore
}

// Classifier is the zero-shot collaborator contract
type Classifier interface {
	// Name identifies the provider
	Name() string

	// Classify scores one sentence against the label set
	Classify(ctx context.Context, sentence string, labels []string) (Scores, error)

	// Available reports whether the provider is configured and reachable
	Available(ctx context.Context) bool
}

// New builds a classifier from configuration. An empty provider disables
// hybrid mode entirely.
func New(cfg model.ClassifierConfig) (Classifier, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return newOpenAIClassifier(cfg)
	default:
		return nil, fmt.Errorf("unknown classifier provider: %q", cfg.Provider)
	}
}

type batchJob struct {
	classifier Classifier
	sentence   string
	labels     []string
}

type batchResult struct {
	Scores Scores
	Err    error
}

// GetError returns the job error
func (r batchResult) GetError() error { return r.Err }

// Execute runs one classification
func (j batchJob) Execute(ctx context.Context) worker.Result {
	scores, err := j.classifier.Classify(ctx, j.sentence, j.labels)
	return batchResult{Scores: scores, Err: err}
}

// ClassifyBatch scores sentences in batches with bounded parallelism.
// Results are index-aligned with the input; the caller depends on that for
// event attribution. batchSize bounds how many sentences are in flight per
// scheduling round.
func ClassifyBatch(ctx context.Context, c Classifier, sentences []string, labels []string, batchSize, parallelism int) ([]Scores, error) {
	if batchSize <= 0 {
		batchSize = 5
	}
	if parallelism <= 0 {
		parallelism = 1
	}

	out := make([]Scores, len(sentences))
	for start := 0; start < len(sentences); start += batchSize {
		end := start + batchSize
		if end > len(sentences) {
			end = len(sentences)
		}

		jobs := make([]worker.Job, 0, end-start)
		for _, s := range sentences[start:end] {
			jobs = append(jobs, batchJob{classifier: c, sentence: s, labels: labels})
		}

		results := worker.RunOrdered(ctx, parallelism, jobs)
		for i, r := range results {
			if r == nil {
				return nil, ctx.Err()
			}
			br := r.(batchResult)
			if br.Err != nil {
				return nil, fmt.Errorf("classify sentence %d: %w", start+i, br.Err)
			}
			out[start+i] = br.Scores
		}
	}
	return out, nil
}
