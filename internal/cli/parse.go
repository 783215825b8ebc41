package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crosswiki/internal/catalog"
	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/parse"
)

var (
	parseFormat string
	parseSource string
	parseTitle  string
	parseOut    string
	parseSlug   string
	parseCits   string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse one snapshot into a normalized article tree",
	Long: `Parse reads a raw snapshot (wiki markup or Markdown) and emits the
normalized article tree as JSON: lead, sections, sentences, references,
media and extracted claims.

Example:
  crosswiki parse moon.wiki --format wiki --title "Moon"
  crosswiki parse moon.md --format markdown --citations moon-citations.json
  crosswiki parse moon.wiki --format wiki --save moon-wp`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseFormat, "format", "wiki", "input format (wiki, markdown)")
	parseCmd.Flags().StringVar(&parseSource, "source", "", "source kind (wikipedia, grokipedia; default by format)")
	parseCmd.Flags().StringVar(&parseTitle, "title", "", "article title")
	parseCmd.Flags().StringVar(&parseOut, "out", "", "output JSON path (default: stdout)")
	parseCmd.Flags().StringVar(&parseSlug, "save", "", "also save the parsed tree into the catalog under this slug")
	parseCmd.Flags().StringVar(&parseCits, "citations", "", "external citations JSON file (markdown snapshots)")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	mode := parse.Mode(parseFormat)
	if mode != parse.ModeWiki && mode != parse.ModeMarkdown {
		return fmt.Errorf("unknown format %q (want wiki or markdown)", parseFormat)
	}

	source := model.SourceKind(parseSource)
	if source == "" {
		source = model.SourceWikipedia
		if mode == parse.ModeMarkdown {
			source = model.SourceGrokipedia
		}
	}

	var cits []model.ExternalCitation
	if parseCits != "" {
		data, err := os.ReadFile(parseCits)
		if err != nil {
			return fmt.Errorf("read citations: %w", err)
		}
		if err := json.Unmarshal(data, &cits); err != nil {
			return fmt.Errorf("parse citations: %w", err)
		}
	}

	meta := model.ArticleMetadata{Source: source, Title: parseTitle, PageID: parseSlug}
	article, err := parse.Parse(string(raw), meta, mode, cits)
	if err != nil && !errors.Is(err, parse.ErrNoContent) {
		return fmt.Errorf("parse: %w", err)
	}
	if errors.Is(err, parse.ErrNoContent) {
		fmt.Fprintln(os.Stderr, "Warning: no content extracted")
	}

	if parseSlug != "" {
		cat := catalog.New(cfg.Catalog.Dir)
		if err := cat.SaveArticle(parseSlug, article); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Saved parsed tree: %s\n", parseSlug)
		}
	}

	out, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}
	if parseOut == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(parseOut, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
