package analyze

import (
	"github.com/ppiankov/crosswiki/internal/model"
)

// ClaimPair is one aligned claim pairing; either side may be nil for
// unmatched items.
type ClaimPair struct {
	Ref        *model.Claim
	Cand       *model.Claim
	Similarity float64
}

// AlignClaims pairs claims greedily: each reference claim takes the unused
// candidate claim maximizing approximate similarity, ties broken by
// first-encountered order. Leftover candidates trail with similarity 0.
// This is deliberately not an optimal bipartite assignment.
func AlignClaims(ref, cand []model.Claim) []ClaimPair {
	used := make([]bool, len(cand))
	var pairs []ClaimPair

	for i := range ref {
		bestIdx := -1
		bestSim := 0.0
		for j := range cand {
			if used[j] {
				continue
			}
			sim := ApproxSimilarity(ref[i].NormalizedText, cand[j].NormalizedText)
			if sim > bestSim {
				bestSim = sim
				bestIdx = j
			}
		}
		if bestIdx >= 0 {
			used[bestIdx] = true
			pairs = append(pairs, ClaimPair{Ref: &ref[i], Cand: &cand[bestIdx], Similarity: bestSim})
		} else {
			pairs = append(pairs, ClaimPair{Ref: &ref[i]})
		}
	}

	for j := range cand {
		if !used[j] {
			pairs = append(pairs, ClaimPair{Cand: &cand[j]})
		}
	}
	return pairs
}

// AlignSections pairs section headings the same way claims are paired
func AlignSections(ref, cand []model.Section) []model.SectionAlignment {
	used := make([]bool, len(cand))
	var out []model.SectionAlignment

	for i := range ref {
		if isMetaHeading(ref[i].Heading) {
			continue
		}
		bestIdx := -1
		bestSim := 0.0
		for j := range cand {
			if used[j] || isMetaHeading(cand[j].Heading) {
				continue
			}
			sim := ApproxSimilarity(ref[i].Heading, cand[j].Heading)
			if sim > bestSim {
				bestSim = sim
				bestIdx = j
			}
		}
		row := model.SectionAlignment{
			RefHeading:   ref[i].Heading,
			RefSectionID: ref[i].SectionID,
		}
		if bestIdx >= 0 {
			used[bestIdx] = true
			row.CandHeading = cand[bestIdx].Heading
			row.CandSectionID = cand[bestIdx].SectionID
			row.Similarity = bestSim
		}
		out = append(out, row)
	}

	for j := range cand {
		if !used[j] && !isMetaHeading(cand[j].Heading) {
			out = append(out, model.SectionAlignment{
				CandHeading:   cand[j].Heading,
				CandSectionID: cand[j].SectionID,
			})
		}
	}
	return out
}

// claimAlignmentRecords converts pairs into the payload representation
func claimAlignmentRecords(pairs []ClaimPair) []model.ClaimAlignment {
	out := make([]model.ClaimAlignment, 0, len(pairs))
	for _, p := range pairs {
		rec := model.ClaimAlignment{Similarity: p.Similarity}
		if p.Ref != nil {
			rec.RefClaim = &model.AlignedClaim{ClaimID: p.Ref.ClaimID, Text: p.Ref.Text}
		}
		if p.Cand != nil {
			rec.CandClaim = &model.AlignedClaim{ClaimID: p.Cand.ClaimID, Text: p.Cand.Text}
		}
		out = append(out, rec)
	}
	return out
}
