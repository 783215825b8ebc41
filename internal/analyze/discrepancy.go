package analyze

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ppiankov/crosswiki/internal/model"
)

// DetectNumeric compares the first extracted number of each side of every
// aligned claim pair. Pairs whose units are both specified but differ are
// skipped: units must be identical strings after normalization, there is no
// cross-unit conversion here.
func DetectNumeric(pairs []ClaimPair, threshold, errorLevel float64) ([]model.NumericDiscrepancy, []model.FactualError) {
	var discrepancies []model.NumericDiscrepancy
	var errors []model.FactualError

	for _, p := range pairs {
		if p.Ref == nil || p.Cand == nil {
			continue
		}
		if len(p.Ref.Numbers) == 0 || len(p.Cand.Numbers) == 0 {
			continue
		}
		rn := p.Ref.Numbers[0]
		cn := p.Cand.Numbers[0]

		if rn.Unit != "" && cn.Unit != "" && rn.Unit != cn.Unit {
			continue
		}

		rel := relativeDiff(rn.Value, cn.Value)
		if rel < threshold {
			continue
		}

		unit := rn.Unit
		if unit == "" {
			unit = cn.Unit
		}
		isError := rel >= errorLevel
		discrepancies = append(discrepancies, model.NumericDiscrepancy{
			RefClaimID:   p.Ref.ClaimID,
			CandClaimID:  p.Cand.ClaimID,
			RefRaw:       rn.Raw,
			CandRaw:      cn.Raw,
			RefValue:     rn.Value,
			CandValue:    cn.Value,
			Unit:         unit,
			RelativeDiff: rel,
			FactualError: isError,
		})
		if isError {
			errors = append(errors, model.FactualError{
				Kind:        model.FactualNumeric,
				Description: fmt.Sprintf("numeric divergence %.0f%%: %q vs %q", rel*100, rn.Raw, cn.Raw),
				RefClaim:    p.Ref.Text,
				CandClaim:   p.Cand.Text,
			})
		}
	}
	return discrepancies, errors
}

// relativeDiff is |a-b| / max(|a|,|b|), with both-zero defined as 0 and
// exactly-one-zero as 1.
func relativeDiff(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	if a == 0 || b == 0 {
		return 1
	}
	return math.Abs(a-b) / math.Max(math.Abs(a), math.Abs(b))
}

// DetectEntities reports aligned claim pairs whose lowercased entity label
// sets differ. A single added or dropped entity is paraphrase noise; two or
// more escalate to a factual error.
func DetectEntities(pairs []ClaimPair) ([]model.EntityDiscrepancy, []model.FactualError) {
	var discrepancies []model.EntityDiscrepancy
	var errors []model.FactualError

	for _, p := range pairs {
		if p.Ref == nil || p.Cand == nil {
			continue
		}
		refOnly, candOnly := labelDiff(p.Ref.Entities, p.Cand.Entities)
		if len(refOnly) == 0 && len(candOnly) == 0 {
			continue
		}

		isError := len(refOnly)+len(candOnly) > 1
		discrepancies = append(discrepancies, model.EntityDiscrepancy{
			RefClaimID:   p.Ref.ClaimID,
			CandClaimID:  p.Cand.ClaimID,
			RefOnly:      refOnly,
			CandOnly:     candOnly,
			FactualError: isError,
		})
		if isError {
			errors = append(errors, model.FactualError{
				Kind: model.FactualEntity,
				Description: fmt.Sprintf("entity divergence: reference-only %v, candidate-only %v",
					refOnly, candOnly),
				RefClaim:  p.Ref.Text,
				CandClaim: p.Cand.Text,
			})
		}
	}
	return discrepancies, errors
}

func labelDiff(ref, cand []model.Entity) (refOnly, candOnly []string) {
	refSet := make(map[string]bool, len(ref))
	candSet := make(map[string]bool, len(cand))
	for _, e := range ref {
		refSet[strings.ToLower(e.Label)] = true
	}
	for _, e := range cand {
		candSet[strings.ToLower(e.Label)] = true
	}
	for label := range refSet {
		if !candSet[label] {
			refOnly = append(refOnly, label)
		}
	}
	for label := range candSet {
		if !refSet[label] {
			candOnly = append(candOnly, label)
		}
	}
	sort.Strings(refOnly)
	sort.Strings(candOnly)
	return refOnly, candOnly
}

// DetectSemanticDivergence flags aligned pairs that are about the same thing
// but say something different: both sides present with similarity strictly
// between 0 and 0.3.
func DetectSemanticDivergence(pairs []ClaimPair) []model.FactualError {
	var errors []model.FactualError
	for _, p := range pairs {
		if p.Ref == nil || p.Cand == nil {
			continue
		}
		if p.Similarity > 0 && p.Similarity < 0.3 {
			errors = append(errors, model.FactualError{
				Kind:        model.FactualSemantic,
				Description: fmt.Sprintf("aligned claims diverge semantically (similarity %.2f)", p.Similarity),
				RefClaim:    p.Ref.Text,
				CandClaim:   p.Cand.Text,
			})
		}
	}
	return errors
}
