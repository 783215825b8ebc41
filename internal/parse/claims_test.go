package parse

import (
	"testing"

	"github.com/ppiankov/crosswiki/internal/model"
)

func TestClaimExtractor_MonotonicIDs(t *testing.T) {
	e := NewClaimExtractor()

	s1 := &model.Sentence{Text: "The Moon orbits the Earth."}
	s2 := &model.Sentence{Text: "It has no atmosphere to speak of."}

	c1 := e.Extract(s1, nil)
	c2 := e.Extract(s2, nil)

	if c1.ClaimID != "c1" || c2.ClaimID != "c2" {
		t.Errorf("IDs = %s, %s", c1.ClaimID, c2.ClaimID)
	}
	if len(s1.ClaimIDs) != 1 || s1.ClaimIDs[0] != "c1" {
		t.Errorf("Sentence not backlinked: %v", s1.ClaimIDs)
	}
}

func TestClaimExtractor_LinkEntitiesPreferred(t *testing.T) {
	e := NewClaimExtractor()
	s := &model.Sentence{Text: "The Moon orbits the Earth."}

	c := e.Extract(s, []string{"Moon", "Earth", "moon", "Orbit#Types"})

	if len(c.Entities) != 3 {
		t.Fatalf("Expected 3 entities, got %#v", c.Entities)
	}
	if c.Entities[0].Label != "Moon" || c.Entities[0].Type != "link" {
		t.Errorf("First entity = %#v", c.Entities[0])
	}
	if c.Entities[2].Label != "Orbit" {
		t.Errorf("Anchor fragment kept: %#v", c.Entities[2])
	}
}

func TestClaimExtractor_CapitalizedFallback(t *testing.T) {
	e := NewClaimExtractor()
	s := &model.Sentence{Text: "The mission was run by Neil Armstrong and Buzz Aldrin."}

	c := e.Extract(s, nil)

	labels := make(map[string]bool)
	for _, ent := range c.Entities {
		labels[ent.Label] = true
	}
	if !labels["Neil Armstrong"] || !labels["Buzz Aldrin"] {
		t.Errorf("Missing expected entities: %#v", c.Entities)
	}
	if labels["The"] {
		t.Errorf("Sentence opener treated as entity: %#v", c.Entities)
	}
}

func TestExtractNumbers_UnitsAndSeparators(t *testing.T) {
	nums := extractNumbers("The radius is 1,737 km and the mass is 7.3 kilograms short of a guess.")

	if len(nums) != 2 {
		t.Fatalf("Expected 2 numbers, got %#v", nums)
	}
	if nums[0].Value != 1737 || nums[0].Unit != "km" {
		t.Errorf("First number = %#v", nums[0])
	}
	if nums[1].Value != 7.3 || nums[1].Unit != "kg" {
		t.Errorf("Second number = %#v", nums[1])
	}
}

func TestExtractNumbers_ProseWordIsNotUnit(t *testing.T) {
	nums := extractNumbers("About 12 astronauts walked there.")

	if len(nums) != 1 {
		t.Fatalf("Expected 1 number, got %#v", nums)
	}
	if nums[0].Unit != "" {
		t.Errorf("Prose word treated as unit: %#v", nums[0])
	}
	if nums[0].Value != 12 {
		t.Errorf("Value = %v", nums[0].Value)
	}
}

func TestExtractNumbers_Percent(t *testing.T) {
	nums := extractNumbers("Coverage grew by 59 percent overall.")
	if len(nums) != 1 || nums[0].Unit != "percent" {
		t.Fatalf("Percent not normalized: %#v", nums)
	}
}

func TestExtractTime_DayCount(t *testing.T) {
	ts := extractTime("A full cycle takes 27.3 days to complete.")
	if ts == nil {
		t.Fatal("Expected a time span")
	}
	if ts.Unit != "days" || ts.Value != 27.3 {
		t.Errorf("TimeSpan = %#v", ts)
	}

	if got := extractTime("No durations mentioned here."); got != nil {
		t.Errorf("Unexpected time span: %#v", got)
	}
}
