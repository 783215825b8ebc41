// Package pipeline wires parsing, analysis, caching and rendering into the
// end-to-end comparison flow the CLI drives.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ppiankov/crosswiki/internal/analyze"
	"github.com/ppiankov/crosswiki/internal/cache"
	"github.com/ppiankov/crosswiki/internal/catalog"
	"github.com/ppiankov/crosswiki/internal/classify"
	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/parse"
	"github.com/ppiankov/crosswiki/internal/worker"
)

// Pipeline orchestrates one or more topic comparisons
type Pipeline struct {
	analyzer *analyze.Analyzer
	catalog  *catalog.Catalog
	reports  *cache.ReportCache
	renderer *Renderer
	cfg      *model.Config
	logger   *zap.Logger
}

// New builds the pipeline. A classifier construction failure downgrades to
// keyword-only bias detection instead of failing the run.
func New(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	var classifier classify.Classifier
	if cfg.Bias.Hybrid {
		c, err := classify.New(cfg.Classifier)
		if err != nil {
			logger.Warn("classifier unavailable, bias detection is keyword-only", zap.Error(err))
		} else {
			classifier = c
		}
	}

	var reports *cache.ReportCache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "crosswiki-cache")
		}
		store := cache.NewLayeredCache(cfg.Cache.TTL, dir, cfg.Cache.TTL)
		reports = cache.NewReportCache(store, cfg.Cache.TTL)
	}

	return &Pipeline{
		analyzer: analyze.New(cfg, classifier, logger.Named("analyze")),
		catalog:  catalog.New(cfg.Catalog.Dir),
		reports:  reports,
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		cfg:      cfg,
		logger:   logger,
	}
}

// Catalog exposes the underlying catalog for CLI subcommands
func (p *Pipeline) Catalog() *catalog.Catalog { return p.catalog }

// Renderer exposes the report renderer
func (p *Pipeline) Renderer() *Renderer { return p.renderer }

// CompareResult is one finished topic comparison
type CompareResult struct {
	Topic   model.Topic
	Payload *model.AnalysisPayload
	Cached  bool
}

// CompareTopic loads both snapshots for a topic, parses them and runs the
// comparison, consulting the report cache first.
func (p *Pipeline) CompareTopic(ctx context.Context, topicID string) (*CompareResult, error) {
	topic, err := p.catalog.Topic(topicID)
	if err != nil {
		return nil, err
	}

	ref, err := p.loadSide(topic.ReferenceSlug, parse.ModeWiki, model.SourceWikipedia)
	if err != nil {
		return nil, fmt.Errorf("reference %q: %w", topic.ReferenceSlug, err)
	}
	cand, err := p.loadSide(topic.CandidateSlug, parse.ModeMarkdown, model.SourceGrokipedia)
	if err != nil {
		return nil, fmt.Errorf("candidate %q: %w", topic.CandidateSlug, err)
	}

	return p.Compare(ctx, topic, ref, cand)
}

// Compare runs the analyzer over two parsed articles with cache lookup
func (p *Pipeline) Compare(ctx context.Context, topic model.Topic, ref, cand *model.StructuredArticle) (*CompareResult, error) {
	refSrc := analyze.Prepare(ref, p.cfg.Analyzer.ExcludeMetaSections)
	candSrc := analyze.Prepare(cand, p.cfg.Analyzer.ExcludeMetaSections)
	hash := analyze.ContentHash(refSrc.Text, candSrc.Text)

	if cached := p.reports.Get(hash); cached != nil {
		p.logger.Info("report cache hit", zap.String("topic", topic.ID))
		return &CompareResult{Topic: topic, Payload: cached, Cached: true}, nil
	}

	payload, err := p.analyzer.Analyze(ctx, topic, ref, cand)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", topic.ID, err)
	}
	if err := p.reports.Put(hash, payload); err != nil {
		p.logger.Warn("report cache write failed", zap.Error(err))
	}
	return &CompareResult{Topic: topic, Payload: payload}, nil
}

// loadSide prefers a parsed tree in the catalog, falling back to parsing
// the raw snapshot. ErrNoContent degrades to a warning: an empty side
// still compares, it just compares badly.
func (p *Pipeline) loadSide(slug string, mode parse.Mode, source model.SourceKind) (*model.StructuredArticle, error) {
	if a, err := p.catalog.LoadArticle(slug); err == nil {
		return a, nil
	} else if !errors.Is(err, catalog.ErrNotFound) {
		return nil, err
	}

	exts := []string{"wiki", "txt"}
	if mode == parse.ModeMarkdown {
		exts = []string{"md", "txt"}
	}
	raw, _, err := p.catalog.LoadRaw(slug, exts...)
	if err != nil {
		return nil, err
	}

	cits, err := p.catalog.LoadCitations(slug)
	if err != nil {
		return nil, err
	}

	meta := model.ArticleMetadata{Source: source, PageID: slug, Title: slug}
	article, err := parse.Parse(string(raw), meta, mode, cits)
	if err != nil {
		if !errors.Is(err, parse.ErrNoContent) {
			return nil, fmt.Errorf("parse: %w", err)
		}
		p.logger.Warn("snapshot parsed to empty article", zap.String("slug", slug))
	}
	return article, nil
}

// compareJob adapts one topic comparison to the worker pool
type compareJob struct {
	pipeline *Pipeline
	topicID  string
}

type compareJobResult struct {
	res *CompareResult
}

func (r compareJobResult) GetError() error { return nil }

func (j *compareJob) Execute(ctx context.Context) worker.Result {
	res, err := j.pipeline.CompareTopic(ctx, j.topicID)
	if err != nil {
		return worker.ErrorResult{Err: err}
	}
	return compareJobResult{res: res}
}

// BatchResult pairs a topic id with its outcome
type BatchResult struct {
	TopicID string
	Result  *CompareResult
	Err     error
}

// CompareAll runs every catalog topic through the comparison with bounded
// parallelism, returning results in catalog order.
func (p *Pipeline) CompareAll(ctx context.Context, workers int) ([]BatchResult, error) {
	topics, err := p.catalog.LoadTopics()
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, nil
	}

	jobs := make([]worker.Job, len(topics))
	for i, t := range topics {
		jobs[i] = &compareJob{pipeline: p, topicID: t.ID}
	}

	results := worker.RunOrdered(ctx, workers, jobs)
	out := make([]BatchResult, len(topics))
	for i, res := range results {
		out[i] = BatchResult{TopicID: topics[i].ID}
		if res == nil {
			out[i].Err = ctx.Err()
			continue
		}
		if jr, ok := res.(compareJobResult); ok {
			out[i].Result = jr.res
		} else {
			out[i].Err = res.GetError()
		}
	}
	return out, nil
}
