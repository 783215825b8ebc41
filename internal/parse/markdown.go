package parse

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/textutil"
)

var bracketCiteRe = regexp.MustCompile(`^\[\^?(\d+)\]`)

// parseMarkdown builds the lead/section tree from Markdown source. Goldmark
// segments the document into heading and paragraph blocks; inline media and
// citation markup is handled by the paragraph scanner so marker offsets line
// up with the cleaned text.
func parseMarkdown(raw string, ext []model.ExternalCitation, b *docBuilder) (model.Lead, []model.Section) {
	// Externally supplied citations are registered up front; bracketed
	// numeric markers in the body resolve against this list by position.
	extIDs := make([]string, len(ext))
	for i, c := range ext {
		extIDs[i] = b.refs.AddExternal("api", c)
	}

	src := []byte(raw)
	doc := goldmark.New().Parser().Parse(gtext.NewReader(src))

	type block struct {
		heading string
		level   int
		text    string
	}
	var blocks []block

	first := true
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			// A leading H1 is the page title, not a section.
			if first && node.Level == 1 {
				first = false
				continue
			}
			first = false
			blocks = append(blocks, block{heading: title, level: node.Level})
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
			first = false
		default:
			first = false
			if t := blockSource(n, src); t != "" {
				blocks = append(blocks, block{text: t})
			}
		}
	}

	var lead model.Lead
	var sections []model.Section

	type openSection struct {
		id    string
		level int
	}
	var stack []openSection
	idSeen := make(map[string]int)
	current := -1 // index into sections; -1 while in the lead

	for _, blk := range blocks {
		if blk.heading != "" {
			for len(stack) > 0 && stack[len(stack)-1].level >= blk.level {
				stack = stack[:len(stack)-1]
			}
			parentID := ""
			if len(stack) > 0 {
				parentID = stack[len(stack)-1].id
			}
			id := textutil.Slugify(blk.heading)
			if id == "" {
				id = "section"
			}
			idSeen[id]++
			if n := idSeen[id]; n > 1 {
				id = fmt.Sprintf("%s-%d", id, n)
			}
			sections = append(sections, model.Section{
				SectionID:       id,
				Heading:         blk.heading,
				Level:           blk.level,
				Anchor:          textutil.Anchor(blk.heading),
				ParentSectionID: parentID,
			})
			stack = append(stack, openSection{id: id, level: blk.level})
			current = len(sections) - 1
			continue
		}

		sectionID := ""
		if current >= 0 {
			sectionID = sections[current].SectionID
		}
		cp := cleanMarkdownParagraph(blk.text, sectionID, b, extIDs)
		if para, ok := b.buildParagraph(cp, sectionID); ok {
			if current < 0 {
				lead.Paragraphs = append(lead.Paragraphs, para)
			} else {
				sections[current].Paragraphs = append(sections[current].Paragraphs, para)
			}
		}
	}

	if len(lead.Paragraphs) == 0 {
		lead = markdownLeadFallback(raw, sections, b, extIDs)
	}

	return lead, sections
}

// markdownLeadFallback is the two-step ladder for documents whose normal
// splitting produced no lead: first retry the whole body as the lead, then
// clone a representative first-section paragraph into a synthetic lead.
func markdownLeadFallback(raw string, sections []model.Section, b *docBuilder, extIDs []string) model.Lead {
	var lead model.Lead

	// Step one: with no sections to draw on, retry the whole body as the
	// lead in one piece.
	if len(sections) == 0 {
		body := strings.TrimSpace(stripMarkdownHeadings(raw))
		if body != "" {
			cp := cleanMarkdownParagraph(body, "", b, extIDs)
			if para, ok := b.buildParagraph(cp, ""); ok {
				lead.Paragraphs = append(lead.Paragraphs, para)
			}
		}
		return lead
	}

	src := pickLeadDonor(sections)
	if src == nil {
		return lead
	}

	// The clone gets fresh sentence IDs and no claim references so it cannot
	// collide with the donor's claim graph.
	b.paraSeq++
	clone := model.Paragraph{ParaID: fmt.Sprintf("p%d", b.paraSeq)}
	for _, s := range src.Sentences {
		b.sentSeq++
		dup := s
		dup.SentenceID = fmt.Sprintf("s%d", b.sentSeq)
		dup.ClaimIDs = nil
		clone.Sentences = append(clone.Sentences, dup)
	}
	lead.Paragraphs = append(lead.Paragraphs, clone)
	return lead
}

// pickLeadDonor prefers the first section paragraph containing a sentence
// longer than 80 characters, falling back to the very first paragraph.
func pickLeadDonor(sections []model.Section) *model.Paragraph {
	var firstPara *model.Paragraph
	for si := range sections {
		for pi := range sections[si].Paragraphs {
			p := &sections[si].Paragraphs[pi]
			if firstPara == nil {
				firstPara = p
			}
			for _, s := range p.Sentences {
				if len(s.Text) > 80 {
					return p
				}
			}
		}
	}
	return firstPara
}

var mdHeadingLineRe = regexp.MustCompile(`(?m)^#{1,6}[ \t].*$`)

func stripMarkdownHeadings(raw string) string {
	return mdHeadingLineRe.ReplaceAllString(raw, "")
}

// blockSource gathers the raw source text of a goldmark block node,
// including nested list items.
func blockSource(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
			for i := 0; i < n.Lines().Len(); i++ {
				seg := n.Lines().At(i)
				buf.Write(seg.Value(src))
				buf.WriteByte('\n')
			}
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

// cleanMarkdownParagraph strips inline image, link and citation markup from
// one paragraph while recording marker offsets in output coordinates.
func cleanMarkdownParagraph(s, sectionID string, b *docBuilder, extIDs []string) cleanedParagraph {
	var out strings.Builder
	var cp cleanedParagraph
	i := 0

	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "!["):
			img, ok := parseMarkdownImage(s, i)
			if !ok {
				out.WriteByte(s[i])
				i++
				continue
			}
			id := b.media.Register(img.filename, img.title, img.alt, model.OriginBody, "body", sectionID)
			cp.media = append(cp.media, marker{offset: out.Len(), id: id})
			i = img.end

		case s[i] == '[':
			if m := bracketCiteRe.FindStringSubmatch(s[i:]); m != nil {
				n, _ := strconv.Atoi(m[1])
				if n >= 1 && n <= len(extIDs) {
					cp.citations = append(cp.citations, marker{offset: out.Len(), id: extIDs[n-1]})
				}
				i += len(m[0])
				continue
			}
			lnk, ok := parseMarkdownLink(s, i)
			if !ok {
				out.WriteByte(s[i])
				i++
				continue
			}
			id := b.refs.AddLink(lnk.url, lnk.label)
			cp.citations = append(cp.citations, marker{offset: out.Len(), id: id})
			cp.links = append(cp.links, linkMark{offset: out.Len(), target: lnk.label})
			out.WriteString(lnk.label)
			i = lnk.end

		case s[i] == '*' || s[i] == '`':
			i++

		case s[i] == '\\' && i+1 < len(s):
			out.WriteByte(s[i+1])
			i += 2

		case s[i] == '\n':
			out.WriteByte(' ')
			i++

		default:
			out.WriteByte(s[i])
			i++
		}
	}

	cp.text = out.String()
	return cp
}

type mdImage struct {
	filename string
	alt      string
	title    string
	end      int
}

// parseMarkdownImage parses ![alt](url "title") at position i
func parseMarkdownImage(s string, i int) (mdImage, bool) {
	altEnd := findUnescaped(s, i+2, ']')
	if altEnd < 0 || altEnd+1 >= len(s) || s[altEnd+1] != '(' {
		return mdImage{}, false
	}
	urlEnd := findUnescaped(s, altEnd+2, ')')
	if urlEnd < 0 {
		return mdImage{}, false
	}

	alt := s[i+2 : altEnd]
	target := strings.TrimSpace(s[altEnd+2 : urlEnd])
	title := ""
	if sp := strings.IndexByte(target, ' '); sp >= 0 {
		title = strings.Trim(strings.TrimSpace(target[sp+1:]), `"`)
		target = target[:sp]
	}

	filename := target
	if u, err := url.Parse(target); err == nil && u.Path != "" {
		filename = path.Base(u.Path)
	}

	return mdImage{filename: filename, alt: alt, title: title, end: urlEnd + 1}, true
}

type mdLink struct {
	label string
	url   string
	end   int
}

// parseMarkdownLink parses [label](url) at position i
func parseMarkdownLink(s string, i int) (mdLink, bool) {
	labelEnd := findUnescaped(s, i+1, ']')
	if labelEnd < 0 || labelEnd+1 >= len(s) || s[labelEnd+1] != '(' {
		return mdLink{}, false
	}
	urlEnd := findUnescaped(s, labelEnd+2, ')')
	if urlEnd < 0 {
		return mdLink{}, false
	}

	target := strings.TrimSpace(s[labelEnd+2 : urlEnd])
	if sp := strings.IndexByte(target, ' '); sp >= 0 {
		target = target[:sp]
	}

	return mdLink{
		label: s[i+1 : labelEnd],
		url:   target,
		end:   urlEnd + 1,
	}, true
}

func findUnescaped(s string, from int, c byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == c {
			return i
		}
	}
	return -1
}
