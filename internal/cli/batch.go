package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crosswiki/internal/pipeline"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
	batchNoCache     bool
	batchHybrid      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compare every topic in the catalog in parallel",
	Long: `Batch runs the comparison over all catalog topics with a bounded
worker pool and writes one JSON and Markdown report per topic.

Example:
  crosswiki batch
  crosswiki batch --concurrency 8 --output-dir ./reports`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", runtime.NumCPU(), "number of concurrent comparisons")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./crosswiki-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "disable the report cache")
	batchCmd.Flags().BoolVar(&batchHybrid, "hybrid", false, "enable hybrid bias detection via the classifier")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchNoCache {
		cfg.Cache.Enabled = false
	}
	if batchHybrid {
		cfg.Bias.Hybrid = true
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.New(cfg, logger)
	results, err := p.CompareAll(ctx, batchConcurrency)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "Catalog has no topics; add some with 'crosswiki topic add'")
		return nil
	}

	success, failure := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failure++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", r.TopicID, r.Err)
			continue
		}
		success++

		slug := sanitizeFilename(r.TopicID)
		jsonPath := filepath.Join(batchOutputDir, slug+".json")
		mdPath := filepath.Join(batchOutputDir, slug+".md")
		if err := p.Renderer().RenderJSON(r.Result.Payload, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write JSON: %v\n", r.TopicID, err)
			continue
		}
		if err := p.Renderer().RenderMarkdown(r.Result.Payload, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: write Markdown: %v\n", r.TopicID, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "OK   %s: %s (score %.2f)\n",
			r.TopicID, r.Result.Payload.Confidence.Label, r.Result.Payload.Confidence.Score)
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d total, %d ok, %d failed, reports in %s\n",
		len(results), success, failure, batchOutputDir)
	return nil
}

// sanitizeFilename reduces a topic id to a safe file name
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
