package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ppiankov/crosswiki/internal/model"
)

// ClaimExtractor derives one Claim per sentence, numbered with a monotonic
// counter spanning the lead and all sections. Scoped to one parse call.
type ClaimExtractor struct {
	counter int
}

// NewClaimExtractor creates an extractor with its counter at zero
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{}
}

var (
	numberRe = regexp.MustCompile(`([+-]?\d{1,3}(?:,\d{3})+(?:\.\d+)?|[+-]?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)(?:[ \t]*([a-zA-Z°%²]{1,12}))?`)

	dayCountRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s+days?\b`)

	capPhraseRe = regexp.MustCompile(`\p{Lu}[\p{L}'’-]*(?:\s+\p{Lu}[\p{L}'’-]*)*`)
)

// unitTable maps surface unit spellings onto normalized identifiers. Units
// are compared as exact strings after normalization; there is no cross-unit
// conversion at comparison time.
var unitTable = map[string]string{
	"km": "km", "kilometre": "km", "kilometres": "km", "kilometer": "km", "kilometers": "km",
	"mi": "mi", "mile": "mi", "miles": "mi",
	"m": "m", "metre": "m", "metres": "m", "meter": "m", "meters": "m",
	"ft": "ft", "feet": "ft",
	"kg": "kg", "kilogram": "kg", "kilograms": "kg",
	"lb": "lb", "pound": "lb", "pounds": "lb",
	"g": "g", "gram": "g", "grams": "g",
	"t": "t", "tonne": "t", "tonnes": "t",
	"km²": "km2", "km2": "km2",
	"°c": "degc", "°f": "degf",
	"%": "percent", "percent": "percent",
	"day": "days", "days": "days",
	"year": "years", "years": "years", "yr": "years", "yrs": "years",
	"hour": "hours", "hours": "hours", "hr": "hours", "hrs": "hours",
	"minute": "minutes", "minutes": "minutes",
	"second": "seconds", "seconds": "seconds", "s": "seconds",
}

// Extract builds the claim for one sentence. linkTargets are the bracketed
// wiki-link targets found inside the sentence; when none exist, entities fall
// back to a capitalized-phrase heuristic.
func (e *ClaimExtractor) Extract(s *model.Sentence, linkTargets []string) model.Claim {
	e.counter++
	claim := model.Claim{
		ClaimID:        fmt.Sprintf("c%d", e.counter),
		Text:           s.Text,
		NormalizedText: s.NormalizedText,
		Entities:       extractEntities(s.Text, linkTargets),
		Time:           extractTime(s.Text),
		Numbers:        extractNumbers(s.Text),
		CitationIDs:    s.CitationIDs,
	}
	s.ClaimIDs = append(s.ClaimIDs, claim.ClaimID)
	return claim
}

func extractEntities(text string, linkTargets []string) []model.Entity {
	if len(linkTargets) > 0 {
		seen := make(map[string]bool)
		var entities []model.Entity
		for _, target := range linkTargets {
			label := strings.TrimSpace(target)
			if cut := strings.Index(label, "#"); cut >= 0 {
				label = label[:cut]
			}
			key := strings.ToLower(label)
			if label == "" || seen[key] {
				continue
			}
			seen[key] = true
			entities = append(entities, model.Entity{Label: label, Type: "link"})
		}
		return entities
	}
	return capitalizedPhrases(text)
}

// capitalizedPhrases is the fallback entity heuristic: runs of capitalized
// words, skipping a capitalized sentence opener when it is a single common
// word.
func capitalizedPhrases(text string) []model.Entity {
	matches := capPhraseRe.FindAllStringIndex(text, -1)
	seen := make(map[string]bool)
	var entities []model.Entity
	for _, m := range matches {
		phrase := text[m[0]:m[1]]
		// A lone capitalized word at position 0 is usually just the
		// sentence opener, not a name.
		if m[0] == 0 && !strings.Contains(phrase, " ") {
			continue
		}
		key := strings.ToLower(phrase)
		if seen[key] || len(phrase) < 2 {
			continue
		}
		seen[key] = true
		entities = append(entities, model.Entity{Label: phrase, Type: "heuristic"})
	}
	return entities
}

func extractTime(text string) *model.TimeSpan {
	m := dayCountRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &model.TimeSpan{Unit: "days", Value: v}
}

func extractNumbers(text string) []model.NumberValue {
	var numbers []model.NumberValue
	for _, m := range numberRe.FindAllStringSubmatch(text, -1) {
		raw := m[1]
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			continue
		}
		nv := model.NumberValue{Raw: raw, Value: v}
		if unit := normalizeUnit(m[2]); unit != "" {
			nv.Unit = unit
			nv.Raw = strings.TrimSpace(m[0])
		}
		numbers = append(numbers, nv)
	}
	return numbers
}

// normalizeUnit maps a trailing word onto the fixed unit table; words outside
// the table are ordinary prose, not units.
func normalizeUnit(u string) string {
	key := strings.ToLower(strings.TrimFunc(u, unicode.IsSpace))
	return unitTable[key]
}
