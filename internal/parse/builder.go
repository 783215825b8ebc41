package parse

import (
	"fmt"
	"strings"

	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/sentence"
	"github.com/ppiankov/crosswiki/internal/textutil"
)

// marker records where a citation or media reference sat in cleaned text
type marker struct {
	offset int
	id     string
}

// linkMark records where a wiki-link label starts and what it pointed at
type linkMark struct {
	offset int
	target string
}

// cleanedParagraph is paragraph text with all markup stripped and the
// positions of everything that was stripped out of it.
type cleanedParagraph struct {
	text      string
	citations []marker
	media     []marker
	links     []linkMark
}

// bannerDenylist rejects product-chrome strings that leak into scraped
// article bodies.
var bannerDenylist = []string{
	"from wikipedia, the free encyclopedia",
	"jump to navigation",
	"jump to search",
	"this article needs additional citations",
	"expand all sections",
	"create account",
	"want to improve this article",
	"ask grok",
	"fact-checked by grok",
	"adapted from wikipedia",
}

// docBuilder assembles paragraphs, sentences and claims for one parse call.
// All counters are scoped to the builder; nothing survives the call.
type docBuilder struct {
	refs      *ReferenceStore
	media     *MediaRegistry
	claims    *ClaimExtractor
	allClaims []model.Claim
	sentSeq   int
	paraSeq   int
}

func newDocBuilder() *docBuilder {
	return &docBuilder{
		refs:   NewReferenceStore(),
		media:  NewMediaRegistry(),
		claims: NewClaimExtractor(),
	}
}

// buildParagraph sentence-splits a cleaned paragraph, re-attaches markers by
// offset, filters banner text and derives one claim per surviving sentence.
// ok is false when nothing survives; such paragraphs are dropped.
func (b *docBuilder) buildParagraph(cp cleanedParagraph, sectionID string) (model.Paragraph, bool) {
	spans := sentence.Split(cp.text)
	if len(spans) == 0 {
		return model.Paragraph{}, false
	}

	var sentences []model.Sentence
	citUsed := make([]bool, len(cp.citations))
	medUsed := make([]bool, len(cp.media))

	for _, span := range spans {
		if isBanner(span.Text) {
			continue
		}

		b.sentSeq++
		text := textutil.StripHTML(span.Text)
		if text == "" {
			continue
		}
		sent := model.Sentence{
			SentenceID:     fmt.Sprintf("s%d", b.sentSeq),
			Text:           text,
			NormalizedText: textutil.Normalize(text),
			Tokens:         textutil.Tokenize(text),
		}

		// Citation markers attach to the first sentence whose span end is at
		// or past the marker; wiki refs sit just after the closing period.
		for i, m := range cp.citations {
			if !citUsed[i] && m.offset <= span.End {
				citUsed[i] = true
				sent.CitationIDs = appendUnique(sent.CitationIDs, m.id)
			}
		}
		for i, m := range cp.media {
			if !medUsed[i] && m.offset <= span.End {
				medUsed[i] = true
				sent.MediaIDs = appendUnique(sent.MediaIDs, m.id)
				b.media.LinkSentence(m.id, sent.SentenceID)
			}
		}

		var targets []string
		for _, l := range cp.links {
			if l.offset >= span.Start && l.offset < span.End {
				targets = append(targets, l.target)
			}
		}

		claim := b.claims.Extract(&sent, targets)
		b.allClaims = append(b.allClaims, claim)
		sentences = append(sentences, sent)
	}

	if len(sentences) == 0 {
		return model.Paragraph{}, false
	}

	b.paraSeq++
	return model.Paragraph{
		ParaID:    fmt.Sprintf("p%d", b.paraSeq),
		Sentences: sentences,
	}, true
}

func isBanner(s string) bool {
	lower := strings.ToLower(s)
	for _, banner := range bannerDenylist {
		if strings.Contains(lower, banner) {
			return true
		}
	}
	return false
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
