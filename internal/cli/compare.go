package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/parse"
	"github.com/ppiankov/crosswiki/internal/pipeline"
)

var (
	compareRef     string
	compareCand    string
	compareCits    string
	compareJSON    string
	compareMD      string
	compareTimeout time.Duration
	compareNoCache bool
	compareHybrid  bool
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [topic-id]",
	Short: "Compare a reference article against a candidate rendition",
	Long: `Compare runs the full comparison over one topic from the catalog, or
over two snapshot files given with --ref and --cand.

Example:
  crosswiki compare moon
  crosswiki compare --ref moon.wiki --cand moon.md --md report.md
  crosswiki compare moon --hybrid --json report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareRef, "ref", "", "reference snapshot file (wiki markup)")
	compareCmd.Flags().StringVar(&compareCand, "cand", "", "candidate snapshot file (Markdown)")
	compareCmd.Flags().StringVar(&compareCits, "citations", "", "candidate external citations JSON file")
	compareCmd.Flags().StringVar(&compareJSON, "json", "", "output JSON path")
	compareCmd.Flags().StringVar(&compareMD, "md", "", "output Markdown path")
	compareCmd.Flags().DurationVar(&compareTimeout, "timeout", 2*time.Minute, "overall comparison timeout")
	compareCmd.Flags().BoolVar(&compareNoCache, "no-cache", false, "disable the report cache")
	compareCmd.Flags().BoolVar(&compareHybrid, "hybrid", false, "enable hybrid bias detection via the classifier")
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if compareNoCache {
		cfg.Cache.Enabled = false
	}
	if compareHybrid {
		cfg.Bias.Hybrid = true
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), compareTimeout)
	defer cancel()

	p := pipeline.New(cfg, logger)

	var result *pipeline.CompareResult
	switch {
	case compareRef != "" && compareCand != "":
		result, err = compareFiles(ctx, p)
	case len(args) == 1:
		result, err = p.CompareTopic(ctx, args[0])
	default:
		return fmt.Errorf("give a topic id or both --ref and --cand")
	}
	if err != nil {
		return err
	}

	if compareJSON != "" {
		if err := p.Renderer().RenderJSON(result.Payload, compareJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", compareJSON)
		}
	}
	if compareMD != "" {
		if err := p.Renderer().RenderMarkdown(result.Payload, compareMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", compareMD)
		}
	}
	p.Renderer().RenderSummary(result.Payload)
	return nil
}

func compareFiles(ctx context.Context, p *pipeline.Pipeline) (*pipeline.CompareResult, error) {
	ref, err := parseFile(compareRef, parse.ModeWiki, model.SourceWikipedia, "")
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	cand, err := parseFile(compareCand, parse.ModeMarkdown, model.SourceGrokipedia, compareCits)
	if err != nil {
		return nil, fmt.Errorf("candidate: %w", err)
	}

	topic := model.Topic{ID: "adhoc", Title: ref.Title}
	if topic.Title == "" {
		topic.Title = compareRef
	}
	return p.Compare(ctx, topic, ref, cand)
}

func parseFile(path string, mode parse.Mode, source model.SourceKind, citsPath string) (*model.StructuredArticle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var cits []model.ExternalCitation
	if citsPath != "" {
		data, err := os.ReadFile(citsPath)
		if err != nil {
			return nil, fmt.Errorf("read citations: %w", err)
		}
		if err := json.Unmarshal(data, &cits); err != nil {
			return nil, fmt.Errorf("parse citations: %w", err)
		}
	}

	article, err := parse.Parse(string(raw), model.ArticleMetadata{Source: source}, mode, cits)
	if err != nil && !errors.Is(err, parse.ErrNoContent) {
		return nil, err
	}
	if errors.Is(err, parse.ErrNoContent) {
		fmt.Fprintf(os.Stderr, "Warning: %s parsed to empty article\n", path)
	}
	return article, nil
}
