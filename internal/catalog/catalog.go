// Package catalog is the on-disk workspace for comparison inputs: the
// topic list, raw snapshots and parsed article trees, addressed by slug.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/crosswiki/internal/model"
)

// ErrNotFound reports a missing catalog entry
var ErrNotFound = errors.New("catalog: entry not found")

// Catalog manages one directory tree:
//
//	<dir>/topics.yaml
//	<dir>/raw/<slug>.<ext>
//	<dir>/parsed/<slug>.json
//	<dir>/citations/<slug>.json
type Catalog struct {
	dir string
}

func New(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Dir returns the catalog root
func (c *Catalog) Dir() string { return c.dir }

type topicsFile struct {
	Topics []model.Topic `yaml:"topics"`
}

// LoadTopics reads topics.yaml. A missing file is an empty catalog, not an
// error.
func (c *Catalog) LoadTopics() ([]model.Topic, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, "topics.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read topics: %w", err)
	}
	var f topicsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}
	return f.Topics, nil
}

// SaveTopics rewrites topics.yaml in full
func (c *Catalog) SaveTopics(topics []model.Topic) error {
	data, err := yaml.Marshal(topicsFile{Topics: topics})
	if err != nil {
		return fmt.Errorf("marshal topics: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, "topics.yaml"), data, 0644); err != nil {
		return fmt.Errorf("write topics: %w", err)
	}
	return nil
}

// Topic looks up one topic by id
func (c *Catalog) Topic(id string) (model.Topic, error) {
	topics, err := c.LoadTopics()
	if err != nil {
		return model.Topic{}, err
	}
	for _, t := range topics {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Topic{}, fmt.Errorf("topic %q: %w", id, ErrNotFound)
}

// AddTopic appends or replaces a topic by id
func (c *Catalog) AddTopic(topic model.Topic) error {
	topics, err := c.LoadTopics()
	if err != nil {
		return err
	}
	replaced := false
	for i := range topics {
		if topics[i].ID == topic.ID {
			topics[i] = topic
			replaced = true
			break
		}
	}
	if !replaced {
		topics = append(topics, topic)
	}
	return c.SaveTopics(topics)
}

// SaveRaw stores a raw snapshot under raw/<slug>.<ext>
func (c *Catalog) SaveRaw(slug, ext string, data []byte) error {
	return c.writeFile(filepath.Join("raw", slug+"."+ext), data)
}

// LoadRaw reads a raw snapshot, trying the given extensions in order
func (c *Catalog) LoadRaw(slug string, exts ...string) ([]byte, string, error) {
	for _, ext := range exts {
		data, err := os.ReadFile(filepath.Join(c.dir, "raw", slug+"."+ext))
		if err == nil {
			return data, ext, nil
		}
		if !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("read raw %s: %w", slug, err)
		}
	}
	return nil, "", fmt.Errorf("raw snapshot %q: %w", slug, ErrNotFound)
}

// SaveArticle stores a parsed tree under parsed/<slug>.json
func (c *Catalog) SaveArticle(slug string, a *model.StructuredArticle) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}
	return c.writeFile(filepath.Join("parsed", slug+".json"), data)
}

// LoadArticle reads a parsed tree
func (c *Catalog) LoadArticle(slug string) (*model.StructuredArticle, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, "parsed", slug+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("parsed article %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("read article %s: %w", slug, err)
	}
	var a model.StructuredArticle
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse article %s: %w", slug, err)
	}
	return &a, nil
}

// SaveCitations stores a candidate's external citation list
func (c *Catalog) SaveCitations(slug string, cits []model.ExternalCitation) error {
	data, err := json.MarshalIndent(cits, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal citations: %w", err)
	}
	return c.writeFile(filepath.Join("citations", slug+".json"), data)
}

// LoadCitations reads a candidate's external citation list. Missing file
// means the snapshot simply shipped without one.
func (c *Catalog) LoadCitations(slug string) ([]model.ExternalCitation, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, "citations", slug+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read citations %s: %w", slug, err)
	}
	var cits []model.ExternalCitation
	if err := json.Unmarshal(data, &cits); err != nil {
		return nil, fmt.Errorf("parse citations %s: %w", slug, err)
	}
	return cits, nil
}

func (c *Catalog) writeFile(rel string, data []byte) error {
	path := filepath.Join(c.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
