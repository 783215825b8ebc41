package analyze

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffSample renders a unified diff of the two flattened texts, sentence
// per line, truncated to maxLines. Nil means the texts match.
func DiffSample(refSentences, candSentences []string, contextLines, maxLines int) ([]string, error) {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(refSentences, "\n")),
		B:        difflib.SplitLines(strings.Join(candSentences, "\n")),
		FromFile: "reference",
		ToFile:   "candidate",
		Context:  contextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, fmt.Errorf("render diff: %w", err)
	}
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		omitted := len(lines) - maxLines
		lines = append(lines[:maxLines], fmt.Sprintf("... %d more lines omitted", omitted))
	}
	return lines, nil
}
