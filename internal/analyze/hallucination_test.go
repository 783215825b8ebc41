package analyze

import (
	"testing"

	"github.com/ppiankov/crosswiki/internal/model"
)

func TestDetectHallucinations_RequiresHedgeMarker(t *testing.T) {
	events := DetectHallucinations(
		[]string{"The fortress fell after a long siege."},
		[]*model.Claim{{ClaimID: "c1", Text: "Unrelated text."}},
	)
	if len(events) != 0 {
		t.Errorf("unhedged sentence flagged: %+v", events)
	}
}

func TestDetectHallucinations_NoReferenceClaims(t *testing.T) {
	events := DetectHallucinations(
		[]string{"The fortress allegedly fell in a single night."},
		nil,
	)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Marker != "allegedly" {
		t.Errorf("marker = %q, want allegedly", events[0].Marker)
	}
	if events[0].NearestClaim != "" {
		t.Errorf("nearest claim = %q, want empty with no reference", events[0].NearestClaim)
	}
}

func TestDetectHallucinations_AmbiguousSupportBand(t *testing.T) {
	claims := []*model.Claim{
		{ClaimID: "c1", Text: "The fortress fell."},
		{ClaimID: "c2", Text: "Rainfall varies by season."},
	}

	events := DetectHallucinations(
		[]string{"It is said the fortress fell in ancient times."},
		claims,
	)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.NearestClaim != "c1" {
		t.Errorf("nearest claim = %q, want c1", ev.NearestClaim)
	}
	if ev.Similarity < hallucinationSimFloor || ev.Similarity > hallucinationSimCeiling {
		t.Errorf("similarity %v outside the ambiguous band", ev.Similarity)
	}
	if ev.Marker != "it is said" {
		t.Errorf("marker = %q, want it is said", ev.Marker)
	}
}

func TestDetectHallucinations_RewordedClaimNotFlagged(t *testing.T) {
	claims := []*model.Claim{
		{ClaimID: "c1", Text: "The fortress fell after a long siege in the winter."},
	}

	events := DetectHallucinations(
		[]string{"The fortress reportedly fell after a long siege in the winter."},
		claims,
	)
	if len(events) != 0 {
		t.Errorf("well-supported hedged sentence flagged: %+v", events)
	}
}

func TestDetectHallucinations_UnrelatedExtraNotFlagged(t *testing.T) {
	// A numeric table fragment shares no characters with the sentence, so
	// the best match sits below the floor of the band.
	claims := []*model.Claim{
		{ClaimID: "c1", Text: "45218734991273451208556734019988776655"},
	}

	events := DetectHallucinations(
		[]string{"Allegedly the dunes sing at night."},
		claims,
	)
	if len(events) != 0 {
		t.Errorf("unrelated extra flagged: %+v", events)
	}
}
