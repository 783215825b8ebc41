// Package parse converts raw wiki markup or Markdown into the normalized
// StructuredArticle tree: lead, sections, paragraphs, sentences, plus flat
// deduplicated reference/media/claim collections.
package parse

import (
	"errors"
	"strings"

	"github.com/ppiankov/crosswiki/internal/model"
)

// Mode selects the markup dialect
type Mode string

const (
	ModeWiki     Mode = "wiki"
	ModeMarkdown Mode = "markdown"
)

// ErrNoContent is returned alongside the (degraded) article when parsing
// produced an empty lead and zero sections. It is a data-quality signal, not
// a failure: the article is still usable.
var ErrNoContent = errors.New("parse: no content extracted")

// Parse converts raw markup into a StructuredArticle. It is a pure function
// of its inputs: no I/O, deterministic, and the returned article is immutable.
// extCitations applies to Markdown mode only and may be nil.
func Parse(raw string, meta model.ArticleMetadata, mode Mode, extCitations []model.ExternalCitation) (*model.StructuredArticle, error) {
	b := newDocBuilder()

	var lead model.Lead
	var sections []model.Section
	switch mode {
	case ModeMarkdown:
		lead, sections = parseMarkdown(raw, extCitations, b)
	default:
		lead, sections = parseWiki(raw, b)
	}

	article := &model.StructuredArticle{
		Source:     meta.Source,
		PageID:     meta.PageID,
		Language:   meta.Language,
		Title:      meta.Title,
		URL:        meta.URL,
		Revision:   meta.Revision,
		Lead:       lead,
		Sections:   sections,
		Media:      b.media.Media(),
		References: b.refs.References(),
		Claims:     b.allClaims,
	}

	if article.Language == "" {
		article.Language = detectLanguage(flattenForLang(article))
	}

	if len(lead.Paragraphs) == 0 && len(sections) == 0 {
		return article, ErrNoContent
	}
	return article, nil
}

// flattenForLang joins a bounded amount of sentence text for language
// detection; the detector does not need the whole document.
func flattenForLang(a *model.StructuredArticle) string {
	var b strings.Builder
	appendPara := func(p model.Paragraph) bool {
		for _, s := range p.Sentences {
			b.WriteString(s.Text)
			b.WriteByte(' ')
			if b.Len() > 2000 {
				return false
			}
		}
		return true
	}
	for _, p := range a.Lead.Paragraphs {
		if !appendPara(p) {
			return b.String()
		}
	}
	for _, sec := range a.Sections {
		for _, p := range sec.Paragraphs {
			if !appendPara(p) {
				return b.String()
			}
		}
	}
	return b.String()
}
