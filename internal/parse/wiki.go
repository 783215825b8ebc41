package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/textutil"
)

var (
	wikiHeadingRe = regexp.MustCompile(`(?m)^(={2,6})\s*(.+?)\s*=+[ \t]*$`)
	blankLineRe   = regexp.MustCompile(`\n[ \t]*\n`)
	listMarkRe    = regexp.MustCompile(`(?m)^[*#:;]+\s*`)
	refNameAttrRe = regexp.MustCompile(`(?i)name\s*=\s*"?([^"/>\s]+)"?`)
)

// parseWiki turns raw wiki markup into the lead/section tree, accumulating
// references, media and claims in the builder. Malformed markup degrades to
// untouched text rather than failing.
func parseWiki(raw string, b *docBuilder) (model.Lead, []model.Section) {
	src := textutil.StripComments(raw)
	src = registerInfoboxMedia(src, b)
	src = stripBlockTemplates(src)

	// The lead is everything before the first level-2+ heading.
	var lead model.Lead
	var sections []model.Section

	headings := wikiHeadingRe.FindAllStringSubmatchIndex(src, -1)

	leadEnd := len(src)
	if len(headings) > 0 {
		leadEnd = headings[0][0]
	}
	lead.Paragraphs = b.wikiParagraphs(src[:leadEnd], "")

	// A heading closes every open section at its own level or deeper.
	type openSection struct {
		id    string
		level int
	}
	var stack []openSection
	idSeen := make(map[string]int)

	for i, h := range headings {
		level := h[3] - h[2]
		heading := strings.TrimSpace(src[h[4]:h[5]])
		heading = textutil.StripMarkupQuotes(heading)

		bodyStart := h[1]
		bodyEnd := len(src)
		if i+1 < len(headings) {
			bodyEnd = headings[i+1][0]
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		parentID := ""
		if len(stack) > 0 {
			parentID = stack[len(stack)-1].id
		}

		id := textutil.Slugify(heading)
		if id == "" {
			id = "section"
		}
		idSeen[id]++
		if n := idSeen[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
		}

		sec := model.Section{
			SectionID:       id,
			Heading:         heading,
			Level:           level,
			Anchor:          textutil.Anchor(heading),
			ParentSectionID: parentID,
			Paragraphs:      b.wikiParagraphs(src[bodyStart:bodyEnd], id),
		}
		sections = append(sections, sec)
		stack = append(stack, openSection{id: id, level: level})
	}

	return lead, sections
}

// wikiParagraphs splits a block on blank lines and cleans each paragraph
func (b *docBuilder) wikiParagraphs(block, sectionID string) []model.Paragraph {
	var paragraphs []model.Paragraph
	for _, chunk := range blankLineRe.Split(block, -1) {
		chunk = listMarkRe.ReplaceAllString(chunk, "")
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		cp := cleanWikiParagraph(chunk, sectionID, b)
		if para, ok := b.buildParagraph(cp, sectionID); ok {
			paragraphs = append(paragraphs, para)
		}
	}
	return paragraphs
}

// cleanWikiParagraph is a single left-to-right scan that strips media links,
// reference tags, wiki links, inline templates and external links, emitting
// cleaned text while recording marker offsets in output coordinates.
func cleanWikiParagraph(s, sectionID string, b *docBuilder) cleanedParagraph {
	var out strings.Builder
	var cp cleanedParagraph
	i := 0

	for i < len(s) {
		switch {
		case hasFoldAt(s, i, "<ref"):
			next, id, ok := b.consumeRef(s, i)
			if !ok {
				out.WriteByte(s[i])
				i++
				continue
			}
			cp.citations = append(cp.citations, marker{offset: out.Len(), id: id})
			i = next

		case strings.HasPrefix(s[i:], "[["):
			end, ok := textutil.MatchBrackets(s, i)
			if !ok {
				out.WriteByte(s[i])
				i++
				continue
			}
			inner := s[i+2 : end-2]
			if isMediaLink(inner) {
				id := b.registerWikiMedia(inner, sectionID)
				cp.media = append(cp.media, marker{offset: out.Len(), id: id})
			} else {
				target, label := splitWikiLink(inner)
				cp.links = append(cp.links, linkMark{offset: out.Len(), target: target})
				out.WriteString(label)
			}
			i = end

		case strings.HasPrefix(s[i:], "{{"):
			end, ok := textutil.MatchBraces(s, i)
			if !ok {
				out.WriteByte(s[i])
				i++
				continue
			}
			out.WriteString(inlineTemplateText(s[i+2 : end-2]))
			i = end

		case s[i] == '[':
			m := externalLinkAt(s, i)
			if m == nil {
				out.WriteByte(s[i])
				i++
				continue
			}
			out.WriteString(m.label)
			i = m.end

		case s[i] == '\'' && strings.HasPrefix(s[i:], "''"):
			for i < len(s) && s[i] == '\'' {
				i++
			}

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

// hasFoldAt reports whether the ASCII pattern matches s at byte offset i,
// ignoring case. Folding happens in place: lowering a copy of s can change
// its byte length (U+212A lowers to a one-byte "k"), which would invalidate
// every offset into the copy.
func hasFoldAt(s string, i int, pattern string) bool {
	return i+len(pattern) <= len(s) && strings.EqualFold(s[i:i+len(pattern)], pattern)
}

// indexCloseRef returns the offset of the first case-insensitive "</ref>"
// at or after from, or -1.
func indexCloseRef(s string, from int) int {
	for j := from; j+6 <= len(s); j++ {
		if s[j] == '<' && strings.EqualFold(s[j:j+6], "</ref>") {
			return j
		}
	}
	return -1
}

// consumeRef handles <ref .../>, <ref>...</ref> and <ref name=...> forms
// starting at i. ok is false for an unterminated tag, which then passes
// through as raw text.
func (b *docBuilder) consumeRef(s string, i int) (next int, id string, ok bool) {
	tagEnd := strings.IndexByte(s[i:], '>')
	if tagEnd < 0 {
		return 0, "", false
	}
	tagEnd += i

	attrs := s[i+4 : tagEnd]
	name := ""
	if m := refNameAttrRe.FindStringSubmatch(attrs); m != nil {
		name = m[1]
	}

	if strings.HasSuffix(strings.TrimSpace(attrs), "/") {
		// Self-closing marker: a bare reuse of a named reference.
		if name != "" {
			return tagEnd + 1, b.refs.AddNamed(name, ""), true
		}
		return tagEnd + 1, b.refs.AddAnonymous(""), true
	}

	closer := indexCloseRef(s, tagEnd)
	if closer < 0 {
		return 0, "", false
	}

	body := strings.TrimSpace(s[tagEnd+1 : closer])
	if name != "" {
		return closer + len("</ref>"), b.refs.AddNamed(name, body), true
	}
	return closer + len("</ref>"), b.refs.AddAnonymous(body), true
}

func isMediaLink(inner string) bool {
	lower := strings.ToLower(inner)
	return strings.HasPrefix(lower, "file:") || strings.HasPrefix(lower, "image:")
}

// registerWikiMedia parses a [[File:...]] body with nested-bracket-aware
// parameter splitting and registers the asset as body media.
func (b *docBuilder) registerWikiMedia(inner, sectionID string) string {
	parts := textutil.SplitTopLevel(inner, '|')
	filename := parts[0]
	if cut := strings.Index(filename, ":"); cut >= 0 {
		filename = filename[cut+1:]
	}
	filename = strings.TrimSpace(filename)

	caption := ""
	alt := ""
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		lower := strings.ToLower(p)
		switch {
		case strings.HasPrefix(lower, "alt="):
			alt = strings.TrimSpace(p[4:])
		case isFormatParam(lower):
			// layout keywords carry no content
		default:
			caption = stripCaptionMarkup(p)
		}
	}

	return b.media.Register(filename, caption, alt, model.OriginBody, "body", sectionID)
}

func isFormatParam(p string) bool {
	switch p {
	case "thumb", "thumbnail", "frame", "frameless", "border",
		"right", "left", "center", "none", "upright":
		return true
	}
	return strings.HasSuffix(p, "px") || strings.HasPrefix(p, "upright=") ||
		strings.HasPrefix(p, "link=") || strings.HasPrefix(p, "class=")
}

// stripCaptionMarkup flattens wiki links inside a caption to their labels,
// then drops templates, rewrites external links to their labels and strips
// quote runs.
func stripCaptionMarkup(caption string) string {
	var out strings.Builder
	i := 0
	for i < len(caption) {
		if strings.HasPrefix(caption[i:], "[[") {
			if end, ok := textutil.MatchBrackets(caption, i); ok {
				_, label := splitWikiLink(caption[i+2 : end-2])
				out.WriteString(label)
				i = end
				continue
			}
		}
		out.WriteByte(caption[i])
		i++
	}
	s := textutil.StripTemplates(out.String())
	s = textutil.StripExternalLinks(s)
	return textutil.NormalizeWhitespace(textutil.StripMarkupQuotes(s))
}

func splitWikiLink(inner string) (target, label string) {
	parts := textutil.SplitTopLevel(inner, '|')
	target = strings.TrimSpace(parts[0])
	label = target
	if len(parts) > 1 {
		label = strings.TrimSpace(parts[len(parts)-1])
	}
	return target, label
}

// inlineTemplateText renders the few inline templates whose loss would drop
// factual content; everything else vanishes.
func inlineTemplateText(inner string) string {
	parts := textutil.SplitTopLevel(inner, '|')
	name := strings.ToLower(strings.TrimSpace(parts[0]))
	switch name {
	case "convert", "cvt":
		if len(parts) >= 3 {
			return strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[2])
		}
	case "nowrap", "lang":
		if len(parts) >= 2 {
			return strings.TrimSpace(parts[len(parts)-1])
		}
	}
	return ""
}

type externalLink struct {
	label string
	end   int
}

// externalLinkAt parses [http://url label] at position i
func externalLinkAt(s string, i int) *externalLink {
	end := strings.IndexByte(s[i:], ']')
	if end < 0 {
		return nil
	}
	end += i
	inner := s[i+1 : end]
	if !strings.HasPrefix(inner, "http://") && !strings.HasPrefix(inner, "https://") {
		return nil
	}
	label := ""
	if sp := strings.IndexByte(inner, ' '); sp >= 0 {
		label = strings.TrimSpace(inner[sp+1:])
	}
	return &externalLink{label: label, end: end + 1}
}

// stripBlockTemplates removes balanced templates that open at the start of a
// line: infoboxes, navboxes, maintenance banners. Inline templates inside
// paragraph text survive for the paragraph scanner.
func stripBlockTemplates(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	lineStart := true
	for i < len(s) {
		if lineStart && strings.HasPrefix(s[i:], "{{") {
			if end, ok := textutil.MatchBraces(s, i); ok {
				i = end
				// Swallow the trailing newline so no blank paragraph remains.
				if i < len(s) && s[i] == '\n' {
					i++
				}
				continue
			}
		}
		lineStart = s[i] == '\n'
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

var infoboxImageKeys = map[string]bool{
	"image": true, "image_name": true, "logo": true, "image_map": true,
}

// registerInfoboxMedia pulls image parameters out of the article's infobox
// before block templates are stripped, so infobox media survive with
// origin=infobox.
func registerInfoboxMedia(s string, b *docBuilder) string {
	body, _, ok := textutil.ExtractTemplate(s, "infobox")
	if !ok {
		return s
	}

	caption := ""
	var files []string
	for _, part := range textutil.SplitTopLevel(body, '|')[1:] {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])
		if val == "" {
			continue
		}
		switch {
		case infoboxImageKeys[key]:
			files = append(files, strings.TrimPrefix(strings.TrimPrefix(val, "File:"), "Image:"))
		case key == "caption" || key == "image_caption":
			caption = stripCaptionMarkup(val)
		}
	}

	for _, f := range files {
		b.media.Register(f, caption, "", model.OriginInfobox, "infobox", "")
	}
	return s
}
