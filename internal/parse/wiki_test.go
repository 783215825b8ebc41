package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/crosswiki/internal/model"
)

const moonWikitext = `{{Short description|Earth's natural satellite}}
{{Infobox planet
| name = Moon
| image = Moon near side.jpg
| image_caption = The [[near side of the Moon|near side]]
}}
The '''Moon''' is [[Earth]]'s only natural satellite and orbits at an average distance of {{convert|384400|km}}.<ref name="nasa">{{cite web |title=Moon Facts |url=https://nasa.gov/moon}}</ref> Its surface gravity is about one sixth of the gravity on Earth.<ref name="nasa"/>

== Formation ==
The Moon formed about 4.5 billion years ago after a giant impact between Earth and a body called [[Theia (planet)|Theia]].

=== Giant impact ===
[[File:Impact art.png|thumb|Artist impression of the [[giant-impact hypothesis|impact]]]]
Debris from the collision accreted into orbit within weeks, according to [https://example.org/impact a 2022 modelling study].

== Formation ==
Later bombardment reshaped much of the lunar surface over the following billion years.
`

func parseMoonWikitext(t *testing.T) *model.StructuredArticle {
	t.Helper()
	meta := model.ArticleMetadata{
		Source:   model.SourceWikipedia,
		PageID:   "moon",
		Language: "en",
		Title:    "Moon",
	}
	article, err := Parse(moonWikitext, meta, ModeWiki, nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return article
}

func TestParse_WikiLead(t *testing.T) {
	article := parseMoonWikitext(t)

	if len(article.Lead.Paragraphs) != 1 {
		t.Fatalf("lead paragraphs = %d, want 1", len(article.Lead.Paragraphs))
	}
	sentences := article.Lead.Paragraphs[0].Sentences
	if len(sentences) != 2 {
		t.Fatalf("lead sentences = %d, want 2", len(sentences))
	}

	want := "The Moon is Earth's only natural satellite and orbits at an average distance of 384400 km."
	if sentences[0].Text != want {
		t.Errorf("lead sentence = %q, want %q", sentences[0].Text, want)
	}
	if sentences[0].SentenceID != "s1" {
		t.Errorf("SentenceID = %q, want s1", sentences[0].SentenceID)
	}
}

func TestParse_WikiSectionTree(t *testing.T) {
	article := parseMoonWikitext(t)

	if len(article.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(article.Sections))
	}

	formation := article.Sections[0]
	if formation.SectionID != "formation" || formation.Level != 2 {
		t.Errorf("section 0 = %s level %d, want formation level 2", formation.SectionID, formation.Level)
	}
	if formation.ParentSectionID != "" {
		t.Errorf("formation parent = %q, want root", formation.ParentSectionID)
	}

	impact := article.Sections[1]
	if impact.SectionID != "giant-impact" || impact.Level != 3 {
		t.Errorf("section 1 = %s level %d, want giant-impact level 3", impact.SectionID, impact.Level)
	}
	if impact.ParentSectionID != "formation" {
		t.Errorf("giant-impact parent = %q, want formation", impact.ParentSectionID)
	}
	if impact.Anchor != "Giant_impact" {
		t.Errorf("anchor = %q, want Giant_impact", impact.Anchor)
	}

	// A repeated heading gets a numbered slug, not a merged section.
	dup := article.Sections[2]
	if dup.SectionID != "formation-2" {
		t.Errorf("section 2 = %q, want formation-2", dup.SectionID)
	}
	if dup.ParentSectionID != "" {
		t.Errorf("formation-2 parent = %q, want root", dup.ParentSectionID)
	}
}

func TestParse_WikiReferences(t *testing.T) {
	article := parseMoonWikitext(t)

	if len(article.References) != 1 {
		t.Fatalf("references = %d, want 1", len(article.References))
	}
	ref := article.References[0]
	if ref.CitationID != "ref1" {
		t.Errorf("CitationID = %q, want ref1", ref.CitationID)
	}
	if ref.Name != "nasa" {
		t.Errorf("Name = %q, want nasa", ref.Name)
	}
	if ref.Normalized.Title != "Moon Facts" {
		t.Errorf("Title = %q, want Moon Facts", ref.Normalized.Title)
	}

	// Both lead sentences cite the same named reference: the full
	// definition and the self-closing reuse.
	sentences := article.Lead.Paragraphs[0].Sentences
	for i, s := range sentences {
		if len(s.CitationIDs) != 1 || s.CitationIDs[0] != "ref1" {
			t.Errorf("sentence %d citations = %v, want [ref1]", i, s.CitationIDs)
		}
	}
}

func TestParse_WikiMedia(t *testing.T) {
	article := parseMoonWikitext(t)

	byID := make(map[string]model.Media)
	for _, m := range article.Media {
		byID[m.MediaID] = m
	}

	infobox, ok := byID["moon-near-side-jpg"]
	if !ok {
		t.Fatalf("infobox image missing from media: %v", article.Media)
	}
	if infobox.Origin != model.OriginInfobox {
		t.Errorf("infobox origin = %q, want %q", infobox.Origin, model.OriginInfobox)
	}
	if infobox.Caption != "The near side" {
		t.Errorf("infobox caption = %q, want flattened link label", infobox.Caption)
	}

	body, ok := byID["impact-art-png"]
	if !ok {
		t.Fatalf("body image missing from media: %v", article.Media)
	}
	if body.Origin != model.OriginBody {
		t.Errorf("body origin = %q, want %q", body.Origin, model.OriginBody)
	}
	if body.Caption != "Artist impression of the impact" {
		t.Errorf("body caption = %q", body.Caption)
	}
	if len(body.Usage) == 0 || body.Usage[0].SentenceID == nil {
		t.Errorf("body image not linked to a sentence: %+v", body.Usage)
	}
}

func TestParse_WikiClaims(t *testing.T) {
	article := parseMoonWikitext(t)

	if len(article.Claims) != len(collectSentences(article)) {
		t.Fatalf("claims = %d, want one per sentence (%d)",
			len(article.Claims), len(collectSentences(article)))
	}

	first := article.Claims[0]
	if first.ClaimID != "c1" {
		t.Errorf("ClaimID = %q, want c1", first.ClaimID)
	}
	foundEarth := false
	for _, e := range first.Entities {
		if e.Label == "Earth" {
			foundEarth = true
		}
	}
	if !foundEarth {
		t.Errorf("entities = %v, want Earth from the wiki link", first.Entities)
	}

	foundDistance := false
	for _, n := range first.Numbers {
		if n.Value == 384400 && n.Unit == "km" {
			foundDistance = true
		}
	}
	if !foundDistance {
		t.Errorf("numbers = %v, want 384400 km", first.Numbers)
	}
}

func TestParse_WikiEmptyInput(t *testing.T) {
	article, err := Parse("", model.ArticleMetadata{Language: "en"}, ModeWiki, nil)
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
	if article == nil {
		t.Fatal("article is nil; degraded result expected")
	}
	if len(article.Lead.Paragraphs) != 0 || len(article.Sections) != 0 {
		t.Errorf("empty input produced content: %+v", article)
	}
}

func TestParse_WikiFoldedRuneBeforeRef(t *testing.T) {
	// U+212A lowers to a one-byte "k"; case folding must not shift the byte
	// offsets used to scan for ref tags.
	raw := "Daytime temperatures can exceed 390K at the equator.<ref>{{cite web|title=Thermal environment|url=https://example.org/thermal}}</ref>"
	article, err := Parse(raw, model.ArticleMetadata{Source: model.SourceWikipedia, PageID: "moon", Language: "en", Title: "Moon"}, ModeWiki, nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(article.References) != 1 {
		t.Fatalf("references = %+v, want 1", article.References)
	}
	if got := article.References[0].Normalized.Title; got != "Thermal environment" {
		t.Errorf("reference title = %q, want Thermal environment", got)
	}
	sentences := collectSentences(article)
	if len(sentences) != 1 {
		t.Fatalf("sentences = %+v, want 1", sentences)
	}
	if len(sentences[0].CitationIDs) != 1 || sentences[0].CitationIDs[0] != "ref1" {
		t.Errorf("citations = %v, want [ref1]", sentences[0].CitationIDs)
	}
}

func TestParse_WikiRefTagCaseInsensitive(t *testing.T) {
	raw := "The basin spans nearly 2500 km across the southern hemisphere.<REF>{{cite web|title=Basin survey|url=https://example.org/basin}}</Ref>"
	article, err := Parse(raw, model.ArticleMetadata{Source: model.SourceWikipedia, PageID: "moon", Language: "en", Title: "Moon"}, ModeWiki, nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(article.References) != 1 || article.References[0].Normalized.Title != "Basin survey" {
		t.Errorf("references = %+v, want one Basin survey entry", article.References)
	}
	text := collectSentences(article)[0].Text
	if strings.Contains(text, "<") || strings.Contains(text, "cite web") {
		t.Errorf("ref markup leaked into sentence text: %q", text)
	}
}

func TestParse_WikiInfoboxCaptionMarkup(t *testing.T) {
	raw := `{{Infobox observatory
| image = Dome.png
| image_caption = View {{circa}} 1900 from [https://example.org/archive the archive]
}}
The observatory opened to the public after extensive restoration work.`
	article, err := Parse(raw, model.ArticleMetadata{Source: model.SourceWikipedia, PageID: "obs", Language: "en", Title: "Observatory"}, ModeWiki, nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(article.Media) != 1 {
		t.Fatalf("media = %+v, want 1", article.Media)
	}
	if got := article.Media[0].Caption; got != "View 1900 from the archive" {
		t.Errorf("caption = %q, want templates and external links stripped", got)
	}
}

func collectSentences(a *model.StructuredArticle) []model.Sentence {
	var out []model.Sentence
	for _, p := range a.Lead.Paragraphs {
		out = append(out, p.Sentences...)
	}
	for _, sec := range a.Sections {
		for _, p := range sec.Paragraphs {
			out = append(out, p.Sentences...)
		}
	}
	return out
}
