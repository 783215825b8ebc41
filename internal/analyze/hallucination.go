package analyze

import (
	"regexp"

	"github.com/ppiankov/crosswiki/internal/model"
)

// hedgeMarkers are attribution-free sourcing phrases. A candidate-only
// sentence carrying one is suspect when nothing in the reference supports
// it even loosely.
var hedgeMarkers = []string{
	"allegedly",
	"reportedly",
	"it is said",
	"some sources",
	"according to some",
	"may have",
	"might have",
	"is rumored",
	"is believed to",
	"citation needed",
	"unverified",
}

var hedgeRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(hedgeMarkers))
	for i, m := range hedgeMarkers {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(m) + `\b`)
	}
	return res
}()

const (
	// Ambiguous support band: close enough to look grounded, too far to be
	// a match. Below the floor the sentence is plain extra content, above
	// the ceiling it is a reworded claim, not a hallucination.
	hallucinationSimFloor   = 0.15
	hallucinationSimCeiling = 0.6
)

// DetectHallucinations flags hedged extra sentences whose best reference
// claim lands in the ambiguous support band. With no reference claims at
// all every hedged extra sentence is flagged.
func DetectHallucinations(extraSentences []string, refClaims []*model.Claim) []model.HallucinationEvent {
	var events []model.HallucinationEvent
	for _, sent := range extraSentences {
		marker := matchHedge(sent)
		if marker == "" {
			continue
		}
		if len(refClaims) == 0 {
			events = append(events, model.HallucinationEvent{
				Sentence: sent,
				Marker:   marker,
			})
			continue
		}
		nearest, sim := nearestClaim(sent, refClaims)
		if sim >= hallucinationSimFloor && sim <= hallucinationSimCeiling {
			events = append(events, model.HallucinationEvent{
				Sentence:     sent,
				Marker:       marker,
				NearestClaim: nearest.ClaimID,
				Similarity:   sim,
			})
		}
	}
	return events
}

func matchHedge(sentence string) string {
	for i, re := range hedgeRes {
		if re.MatchString(sentence) {
			return hedgeMarkers[i]
		}
	}
	return ""
}

func nearestClaim(sentence string, claims []*model.Claim) (*model.Claim, float64) {
	best := claims[0]
	bestSim := -1.0
	for _, c := range claims {
		sim := ApproxSimilarity(sentence, c.Text)
		if sim > bestSim {
			best, bestSim = c, sim
		}
	}
	return best, bestSim
}
