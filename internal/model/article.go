package model

// SourceKind tags which side of a comparison an article came from
type SourceKind string

const (
	SourceWikipedia  SourceKind = "wikipedia"  // reference source
	SourceGrokipedia SourceKind = "grokipedia" // candidate source
)

// Revision identifies the captured revision of an article
type Revision struct {
	ID        string `json:"id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ArticleMetadata is the caller-supplied identity of a raw snapshot
type ArticleMetadata struct {
	Source   SourceKind `json:"source"`
	PageID   string     `json:"page_id"`
	Language string     `json:"language,omitempty"`
	Title    string     `json:"title"`
	URL      string     `json:"url,omitempty"`
	Revision Revision   `json:"revision"`
}

// StructuredArticle is the parser's normalized document tree.
// It is immutable once returned and consumed read-only by the analyzer.
type StructuredArticle struct {
	Source     SourceKind  `json:"source"`
	PageID     string      `json:"page_id"`
	Language   string      `json:"language"`
	Title      string      `json:"title"`
	URL        string      `json:"url,omitempty"`
	Revision   Revision    `json:"revision"`
	Lead       Lead        `json:"lead"`
	Sections   []Section   `json:"sections"`
	Media      []Media     `json:"media"`
	References []Reference `json:"references"`
	Claims     []Claim     `json:"claims"`
}

// Lead is the introductory text before the first heading
type Lead struct {
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Section is one heading-delimited block. ParentSectionID refers to the
// nearest enclosing section with a strictly lower level; the tree is implied
// by IDs, never by pointers.
type Section struct {
	SectionID       string      `json:"section_id"`
	Heading         string      `json:"heading"`
	Level           int         `json:"level"`
	Anchor          string      `json:"anchor"`
	ParentSectionID string      `json:"parent_section_id,omitempty"`
	Paragraphs      []Paragraph `json:"paragraphs"`
}

// Paragraph holds an ordered, non-empty list of sentences. Paragraphs that
// yield zero sentences after cleaning are dropped by the parser.
type Paragraph struct {
	ParaID    string     `json:"para_id"`
	Sentences []Sentence `json:"sentences"`
}

// Sentence carries cleaned text plus by-reference ID associations into the
// article's flat reference/media/claim collections.
type Sentence struct {
	SentenceID     string   `json:"sentence_id"`
	Text           string   `json:"text"`
	NormalizedText string   `json:"normalized_text"`
	Tokens         []string `json:"tokens"`
	CitationIDs    []string `json:"citation_ids,omitempty"`
	MediaIDs       []string `json:"media_ids,omitempty"`
	ClaimIDs       []string `json:"claim_ids,omitempty"`
}

// ReferenceKind classifies how a reference entered the store
type ReferenceKind string

const (
	ReferenceNamed     ReferenceKind = "named"
	ReferenceAnonymous ReferenceKind = "anonymous"
	ReferenceLink      ReferenceKind = "link"
	ReferenceExternal  ReferenceKind = "external"
)

// CitationType classifies the normalized citation record
type CitationType string

const (
	CitationWeb     CitationType = "web"
	CitationNews    CitationType = "news"
	CitationJournal CitationType = "journal"
	CitationBook    CitationType = "book"
	CitationGeneric CitationType = "generic"
)

// NormalizedReference is the structured view of a citation
type NormalizedReference struct {
	Type      CitationType `json:"type"`
	Title     string       `json:"title,omitempty"`
	Publisher string       `json:"publisher,omitempty"`
	Journal   string       `json:"journal,omitempty"`
	Year      string       `json:"year,omitempty"`
	URL       string       `json:"url,omitempty"`
	DOI       string       `json:"doi,omitempty"`
}

// Reference is one deduplicated citation. References sharing a declared name
// resolve to a single entry; the first full definition wins.
type Reference struct {
	CitationID string              `json:"citation_id"`
	Kind       ReferenceKind       `json:"kind"`
	Name       string              `json:"name,omitempty"`
	Raw        string              `json:"raw"`
	Normalized NormalizedReference `json:"normalized"`
}

// MediaType classifies a media asset by filename extension
type MediaType string

const (
	MediaImage   MediaType = "image"
	MediaAudio   MediaType = "audio"
	MediaVideo   MediaType = "video"
	MediaUnknown MediaType = "unknown"
)

// MediaOrigin records where in the markup the asset was found
type MediaOrigin string

const (
	OriginInfobox MediaOrigin = "infobox"
	OriginBody    MediaOrigin = "body"
)

// MediaUsage is one occurrence of a media asset. SentenceID starts nil and
// is back-filled exactly once when the owning sentence is identified.
type MediaUsage struct {
	Context    string  `json:"context,omitempty"`
	SectionID  string  `json:"section_id,omitempty"`
	SentenceID *string `json:"sentence_id"`
}

// Media is one deduplicated media asset with its usage history
type Media struct {
	MediaID string       `json:"media_id"`
	Title   string       `json:"title"`
	Type    MediaType    `json:"type"`
	Origin  MediaOrigin  `json:"origin"`
	Caption string       `json:"caption,omitempty"`
	AltText string       `json:"alt_text,omitempty"`
	License *string      `json:"license"`
	Usage   []MediaUsage `json:"usage"`
}

// Entity is a named entity extracted from a sentence
type Entity struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	QID   string `json:"qid,omitempty"`
}

// TimeSpan is an extracted duration (currently day counts only)
type TimeSpan struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// NumberValue is an extracted numeric quantity with an optional normalized unit
type NumberValue struct {
	Raw   string  `json:"raw"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Claim is the extracted factual unit of one sentence (1:1, document order)
type Claim struct {
	ClaimID        string        `json:"claim_id"`
	Text           string        `json:"text"`
	NormalizedText string        `json:"normalized_text"`
	Entities       []Entity      `json:"entities,omitempty"`
	Time           *TimeSpan     `json:"time,omitempty"`
	Numbers        []NumberValue `json:"numbers,omitempty"`
	CitationIDs    []string      `json:"citation_ids,omitempty"`
}

// ExternalCitation is a citation supplied alongside a Markdown snapshot
// (e.g. from an article API) rather than embedded in the markup.
type ExternalCitation struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Favicon     string `json:"favicon,omitempty"`
}

// Topic pairs two article slugs describing the same subject
type Topic struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	ReferenceSlug string `json:"reference_slug" yaml:"reference_slug"`
	CandidateSlug string `json:"candidate_slug" yaml:"candidate_slug"`
}
