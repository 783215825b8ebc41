package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/textutil"
)

// ReferenceStore accumulates deduplicated citations during one parse call.
// Never shared across parses; the parser owns it for the lifetime of the call.
type ReferenceStore struct {
	refs   []model.Reference
	byName map[string]int
	byURL  map[string]int
	bySlug map[string]int
	nextID int
}

// NewReferenceStore creates an empty store
func NewReferenceStore() *ReferenceStore {
	return &ReferenceStore{
		byName: make(map[string]int),
		byURL:  make(map[string]int),
		bySlug: make(map[string]int),
	}
}

// AddNamed registers a named reference. The first full definition wins; a
// later bare repeat of the same name (case-insensitive) reuses the ID.
func (s *ReferenceStore) AddNamed(name, raw string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if idx, ok := s.byName[key]; ok {
		// First definition wins, but a definition arriving after a bare
		// marker fills the empty body.
		if s.refs[idx].Raw == "" && raw != "" {
			s.refs[idx].Raw = raw
			s.refs[idx].Normalized = normalizeCitation(raw)
		}
		return s.refs[idx].CitationID
	}

	id := s.newID()
	s.refs = append(s.refs, model.Reference{
		CitationID: id,
		Kind:       model.ReferenceNamed,
		Name:       strings.TrimSpace(name),
		Raw:        raw,
		Normalized: normalizeCitation(raw),
	})
	s.byName[key] = len(s.refs) - 1
	return id
}

// AddAnonymous registers an unnamed reference under a fresh auto ID
func (s *ReferenceStore) AddAnonymous(raw string) string {
	id := s.newID()
	s.refs = append(s.refs, model.Reference{
		CitationID: id,
		Kind:       model.ReferenceAnonymous,
		Raw:        raw,
		Normalized: normalizeCitation(raw),
	})
	return id
}

// AddLink registers a link-style citation, deduplicating by URL
func (s *ReferenceStore) AddLink(url, title string) string {
	key := strings.TrimSpace(url)
	if idx, ok := s.byURL[key]; ok {
		return s.refs[idx].CitationID
	}

	id := s.newID()
	norm := model.NormalizedReference{Type: model.CitationWeb, Title: title, URL: key}
	s.refs = append(s.refs, model.Reference{
		CitationID: id,
		Kind:       model.ReferenceLink,
		Raw:        url,
		Normalized: norm,
	})
	s.byURL[key] = len(s.refs) - 1
	return id
}

// AddExternal registers an externally supplied citation, deduplicating by a
// provider-prefixed slug of its URL (or title when the URL is absent).
func (s *ReferenceStore) AddExternal(provider string, ext model.ExternalCitation) string {
	basis := ext.URL
	if basis == "" {
		basis = ext.Title
	}
	key := provider + ":" + textutil.Slugify(basis)
	if idx, ok := s.bySlug[key]; ok {
		return s.refs[idx].CitationID
	}

	id := s.newID()
	s.refs = append(s.refs, model.Reference{
		CitationID: id,
		Kind:       model.ReferenceExternal,
		Name:       ext.ID,
		Raw:        ext.URL,
		Normalized: model.NormalizedReference{
			Type:  model.CitationWeb,
			Title: ext.Title,
			URL:   ext.URL,
		},
	})
	s.bySlug[key] = len(s.refs) - 1
	return id
}

// References returns the accumulated flat collection in registration order
func (s *ReferenceStore) References() []model.Reference {
	return s.refs
}

func (s *ReferenceStore) newID() string {
	s.nextID++
	return fmt.Sprintf("ref%d", s.nextID)
}

var (
	citeParamRe = regexp.MustCompile(`\|\s*([a-zA-Z-]+)\s*=\s*([^|{}]*)`)
	bareURLRe   = regexp.MustCompile(`https?://[^\s|\]}<]+`)
	yearRe      = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)
)

// normalizeCitation extracts a structured record from raw citation text,
// typically the body of a cite template.
func normalizeCitation(raw string) model.NormalizedReference {
	norm := model.NormalizedReference{Type: model.CitationGeneric}
	if raw == "" {
		return norm
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "cite journal"):
		norm.Type = model.CitationJournal
	case strings.Contains(lower, "cite book"):
		norm.Type = model.CitationBook
	case strings.Contains(lower, "cite news"):
		norm.Type = model.CitationNews
	case strings.Contains(lower, "cite web"):
		norm.Type = model.CitationWeb
	}

	for _, m := range citeParamRe.FindAllStringSubmatch(raw, -1) {
		key := strings.ToLower(m[1])
		val := strings.TrimSpace(m[2])
		if val == "" {
			continue
		}
		switch key {
		case "title":
			norm.Title = val
		case "publisher", "website", "work":
			if norm.Publisher == "" {
				norm.Publisher = val
			}
		case "journal":
			norm.Journal = val
		case "year":
			norm.Year = val
		case "date":
			if norm.Year == "" {
				if y := yearRe.FindString(val); y != "" {
					norm.Year = y
				}
			}
		case "url":
			norm.URL = val
		case "doi":
			norm.DOI = val
		}
	}

	if norm.URL == "" {
		norm.URL = bareURLRe.FindString(raw)
	}
	if norm.Type == model.CitationGeneric && norm.Journal != "" {
		norm.Type = model.CitationJournal
	}
	return norm
}
