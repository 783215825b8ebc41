package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crosswiki/internal/catalog"
	"github.com/ppiankov/crosswiki/internal/fetch"
	"github.com/ppiankov/crosswiki/internal/model"
)

var (
	fetchHost    string
	fetchURL     string
	fetchSlug    string
	fetchTimeout time.Duration
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <title>",
	Short: "Fetch a raw wikitext snapshot into the catalog",
	Long: `Fetch downloads the raw wikitext of an article and stores it in the
catalog under the given slug, respecting robots.txt and the configured
request rate.

Example:
  crosswiki fetch "Moon" --save moon-wp
  crosswiki fetch --url https://en.wikipedia.org/w/index.php?title=Moon&action=raw --save moon-wp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchHost, "host", "en.wikipedia.org", "MediaWiki host")
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "fetch this exact URL instead of building one from the title")
	fetchCmd.Flags().StringVar(&fetchSlug, "save", "", "catalog slug for the raw snapshot (required)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 2*time.Minute, "fetch timeout")
	_ = fetchCmd.MarkFlagRequired("save")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rawURL := fetchURL
	if rawURL == "" {
		if len(args) == 0 {
			return fmt.Errorf("give an article title or --url")
		}
		rawURL = fetch.WikitextURL(fetchHost, args[0])
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	f := fetch.New(cfg.HTTP, logger.Named("fetch"))
	res, err := f.Fetch(ctx, rawURL, model.SourceWikipedia)
	if err != nil {
		return err
	}

	cat := catalog.New(cfg.Catalog.Dir)
	if err := cat.SaveRaw(fetchSlug, "wiki", res.Body); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Saved %d bytes as %s (from %s)\n", len(res.Body), fetchSlug, res.FinalURL)
	return nil
}
