package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/crosswiki/internal/model"
)

// Renderer writes comparison payloads as JSON and Markdown reports
type Renderer struct {
	includeFooter bool
}

func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full payload as indented JSON
func (r *Renderer) RenderJSON(p *model.AnalysisPayload, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(p *model.AnalysisPayload, path string) error {
	return os.WriteFile(path, []byte(r.Markdown(p)), 0644)
}

// Markdown builds the report body
func (r *Renderer) Markdown(p *model.AnalysisPayload) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Comparison: %s\n\n", p.Topic.Title)
	fmt.Fprintf(&b, "**Verdict:** %s (score %.2f)\n\n", p.Confidence.Label, p.Confidence.Score)

	b.WriteString("## Similarity\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Sentence similarity | %.3f |\n", p.Similarity.SentenceSimilarity)
	fmt.Fprintf(&b, "| Word similarity | %.3f |\n", p.Similarity.WordSimilarity)
	fmt.Fprintf(&b, "| Shingle overlap | %.3f |\n\n", p.Similarity.ShingleOverlap)

	b.WriteString("## Content\n\n")
	fmt.Fprintf(&b, "- Agreed sentences: %d\n", len(p.AgreedSentences))
	fmt.Fprintf(&b, "- Reworded sentences: %d\n", len(p.RewordedSentences))
	fmt.Fprintf(&b, "- Missing from candidate: %d\n", len(p.MissingSentences))
	fmt.Fprintf(&b, "- Only in candidate: %d\n\n", len(p.ExtraSentences))

	if len(p.FactualErrors) > 0 {
		b.WriteString("## Factual errors\n\n")
		for _, f := range p.FactualErrors {
			fmt.Fprintf(&b, "- **%s**: %s\n", f.Kind, f.Description)
		}
		b.WriteString("\n")
	}

	if len(p.BiasEvents) > 0 {
		b.WriteString("## Bias\n\n")
		for _, e := range p.BiasEvents {
			fmt.Fprintf(&b, "- [%s/%s] %q", e.Category, e.Severity, truncate(e.Sentence, 100))
			if e.Pattern != "" {
				fmt.Fprintf(&b, " (pattern: %s, %s)", e.Pattern, e.StyleGuide)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(p.HallucinationEvents) > 0 {
		b.WriteString("## Possible hallucinations\n\n")
		for _, e := range p.HallucinationEvents {
			fmt.Fprintf(&b, "- %q (marker: %s)\n", truncate(e.Sentence, 100), e.Marker)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Rationale\n\n")
	for _, line := range p.Confidence.Rationale {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\n")

	if len(p.DiffSample) > 0 {
		b.WriteString("## Diff sample\n\n```diff\n")
		for _, line := range p.DiffSample {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\nGenerated %s, analyzer %s, run %s\n",
			p.Meta.GeneratedAt.Format("2006-01-02 15:04 UTC"),
			p.Meta.AnalyzerVersion, p.Meta.RunID)
	}
	return b.String()
}

// RenderSummary prints a short verdict to stdout
func (r *Renderer) RenderSummary(p *model.AnalysisPayload) {
	fmt.Printf("%s: %s (score %.2f)\n", p.Topic.Title, p.Confidence.Label, p.Confidence.Score)
	fmt.Printf("  sentences: %d agreed, %d reworded, %d missing, %d extra\n",
		len(p.AgreedSentences), len(p.RewordedSentences),
		len(p.MissingSentences), len(p.ExtraSentences))
	if len(p.FactualErrors) > 0 {
		fmt.Printf("  factual errors: %d\n", len(p.FactualErrors))
	}
	if len(p.BiasEvents) > 0 {
		fmt.Printf("  bias events: %d\n", len(p.BiasEvents))
	}
	if len(p.HallucinationEvents) > 0 {
		fmt.Printf("  possible hallucinations: %d\n", len(p.HallucinationEvents))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
