// Package analyze compares two normalized articles and produces the
// structured comparison payload: similarity metrics, sentence and section
// diffs, claim alignment, discrepancy detection, bias and hallucination
// signals, and the confidence verdict.
package analyze

import (
	"strings"

	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/sentence"
	"github.com/ppiankov/crosswiki/internal/textutil"
)

// metaHeadings are boilerplate sections excluded from the flattened text and
// from structural diffing; their presence is not a content discrepancy.
var metaHeadings = map[string]bool{
	"references":      true,
	"external links":  true,
	"notes":           true,
	"bibliography":    true,
	"sources":         true,
	"further reading": true,
	"see also":        true,
	"citations":       true,
	"footnotes":       true,
}

// Source is the analyzer-only flat view of one article. Built fresh per
// comparison, never persisted.
type Source struct {
	Text      string
	Sentences []string
	Sections  []string
	Citations []string
	Claims    []model.Claim
	Article   *model.StructuredArticle
}

// Prepare flattens a structured article for comparison. Meta sections are
// skipped when excludeMeta is set; if the structured tree carries no
// sentences at all, the flattened text is re-split directly as a defensive
// path for malformed input.
func Prepare(a *model.StructuredArticle, excludeMeta bool) *Source {
	src := &Source{Article: a, Claims: a.Claims}

	var parts []string
	collect := func(paras []model.Paragraph) {
		for _, p := range paras {
			for _, s := range p.Sentences {
				parts = append(parts, s.Text)
				src.Sentences = append(src.Sentences, s.Text)
			}
		}
	}

	collect(a.Lead.Paragraphs)
	for _, sec := range a.Sections {
		if excludeMeta && isMetaHeading(sec.Heading) {
			continue
		}
		src.Sections = append(src.Sections, sec.Heading)
		collect(sec.Paragraphs)
	}

	src.Text = textutil.NormalizeWhitespace(strings.Join(parts, " "))

	if len(src.Sentences) == 0 && src.Text != "" {
		for _, span := range sentence.Split(src.Text) {
			src.Sentences = append(src.Sentences, span.Text)
		}
	}

	src.Citations = citationDisplayStrings(a.References)
	return src
}

func isMetaHeading(h string) bool {
	return metaHeadings[strings.ToLower(strings.TrimSpace(h))]
}

// citationDisplayStrings dedupes references down to comparable display
// strings: title when normalized, else URL, else trimmed raw text.
func citationDisplayStrings(refs []model.Reference) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range refs {
		display := r.Normalized.Title
		if display == "" {
			display = r.Normalized.URL
		}
		if display == "" {
			display = textutil.NormalizeWhitespace(r.Raw)
		}
		if len(display) > 120 {
			display = display[:120]
		}
		if display == "" {
			continue
		}
		key := strings.ToLower(display)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, display)
	}
	return out
}
