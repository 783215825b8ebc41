package catalog

import (
	"errors"
	"testing"

	"github.com/ppiankov/crosswiki/internal/model"
)

func TestCatalog_TopicsRoundTrip(t *testing.T) {
	c := New(t.TempDir())

	topics, err := c.LoadTopics()
	if err != nil {
		t.Fatalf("LoadTopics on empty catalog: %v", err)
	}
	if len(topics) != 0 {
		t.Errorf("empty catalog has topics: %v", topics)
	}

	want := []model.Topic{
		{ID: "moon", Title: "Moon", ReferenceSlug: "moon-wiki", CandidateSlug: "moon-md"},
		{ID: "great-wall", Title: "Great Wall of China", ReferenceSlug: "wall-wiki", CandidateSlug: "wall-md"},
	}
	if err := c.SaveTopics(want); err != nil {
		t.Fatalf("SaveTopics: %v", err)
	}

	got, err := c.LoadTopics()
	if err != nil {
		t.Fatalf("LoadTopics: %v", err)
	}
	if len(got) != 2 || got[0].ID != "moon" || got[1].Title != "Great Wall of China" {
		t.Errorf("topics = %+v, want %+v", got, want)
	}
}

func TestCatalog_Topic(t *testing.T) {
	c := New(t.TempDir())
	if err := c.AddTopic(model.Topic{ID: "moon", Title: "Moon"}); err != nil {
		t.Fatalf("AddTopic: %v", err)
	}

	got, err := c.Topic("moon")
	if err != nil {
		t.Fatalf("Topic: %v", err)
	}
	if got.Title != "Moon" {
		t.Errorf("topic = %+v", got)
	}

	if _, err := c.Topic("mars"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing topic err = %v, want ErrNotFound", err)
	}
}

func TestCatalog_AddTopicReplacesByID(t *testing.T) {
	c := New(t.TempDir())
	if err := c.AddTopic(model.Topic{ID: "moon", Title: "Moon"}); err != nil {
		t.Fatal(err)
	}
	if err := c.AddTopic(model.Topic{ID: "moon", Title: "The Moon"}); err != nil {
		t.Fatal(err)
	}

	topics, err := c.LoadTopics()
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 1 || topics[0].Title != "The Moon" {
		t.Errorf("topics = %+v, want single replaced entry", topics)
	}
}

func TestCatalog_RawRoundTrip(t *testing.T) {
	c := New(t.TempDir())
	if err := c.SaveRaw("moon-wiki", "wiki", []byte("== Formation ==")); err != nil {
		t.Fatalf("SaveRaw: %v", err)
	}

	data, ext, err := c.LoadRaw("moon-wiki", "wiki", "txt")
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if ext != "wiki" || string(data) != "== Formation ==" {
		t.Errorf("LoadRaw = %q ext %q", data, ext)
	}

	// Extension fallback order matters.
	if err := c.SaveRaw("moon-txt", "txt", []byte("plain")); err != nil {
		t.Fatal(err)
	}
	_, ext, err = c.LoadRaw("moon-txt", "wiki", "txt")
	if err != nil || ext != "txt" {
		t.Errorf("fallback ext = %q err %v, want txt", ext, err)
	}

	if _, _, err := c.LoadRaw("absent", "wiki"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing raw err = %v, want ErrNotFound", err)
	}
}

func TestCatalog_ArticleRoundTrip(t *testing.T) {
	c := New(t.TempDir())
	article := &model.StructuredArticle{
		Source: model.SourceWikipedia,
		Title:  "Moon",
		Lead: model.Lead{Paragraphs: []model.Paragraph{{
			ParaID: "p1",
			Sentences: []model.Sentence{{
				SentenceID: "s1",
				Text:       "The Moon is Earth's only natural satellite.",
			}},
		}}},
	}

	if err := c.SaveArticle("moon-wiki", article); err != nil {
		t.Fatalf("SaveArticle: %v", err)
	}
	got, err := c.LoadArticle("moon-wiki")
	if err != nil {
		t.Fatalf("LoadArticle: %v", err)
	}
	if got.Title != "Moon" || got.Lead.Paragraphs[0].Sentences[0].SentenceID != "s1" {
		t.Errorf("article = %+v", got)
	}

	if _, err := c.LoadArticle("absent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing article err = %v, want ErrNotFound", err)
	}
}

func TestCatalog_CitationsRoundTrip(t *testing.T) {
	c := New(t.TempDir())

	got, err := c.LoadCitations("absent")
	if err != nil || got != nil {
		t.Errorf("missing citations = %v/%v, want nil/nil", got, err)
	}

	cits := []model.ExternalCitation{{ID: "1", Title: "Moon Facts", URL: "https://nasa.gov/moon"}}
	if err := c.SaveCitations("moon-md", cits); err != nil {
		t.Fatalf("SaveCitations: %v", err)
	}
	got, err = c.LoadCitations("moon-md")
	if err != nil {
		t.Fatalf("LoadCitations: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Moon Facts" {
		t.Errorf("citations = %+v", got)
	}
}
