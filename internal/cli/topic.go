package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/crosswiki/internal/catalog"
	"github.com/ppiankov/crosswiki/internal/model"
)

var (
	topicTitle string
	topicRef   string
	topicCand  string
)

// topicCmd represents the topic command
var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Manage catalog topics",
}

var topicAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add or update a topic pairing two snapshot slugs",
	Long: `Add records a topic in the catalog: an id, a display title and the
slugs of its reference and candidate snapshots.

Example:
  crosswiki topic add moon --title "Moon" --ref moon-wp --cand moon-gk`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		topic := model.Topic{
			ID:            args[0],
			Title:         topicTitle,
			ReferenceSlug: topicRef,
			CandidateSlug: topicCand,
		}
		if topic.Title == "" {
			topic.Title = topic.ID
		}

		cat := catalog.New(cfg.Catalog.Dir)
		if err := cat.AddTopic(topic); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved topic %s\n", topic.ID)
		return nil
	},
}

var topicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog topics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		topics, err := catalog.New(cfg.Catalog.Dir).LoadTopics()
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Println("Catalog is empty")
			return nil
		}
		for _, t := range topics {
			fmt.Printf("%-20s %-30s %s vs %s\n", t.ID, t.Title, t.ReferenceSlug, t.CandidateSlug)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topicCmd)
	topicCmd.AddCommand(topicAddCmd)
	topicCmd.AddCommand(topicListCmd)

	topicAddCmd.Flags().StringVar(&topicTitle, "title", "", "display title")
	topicAddCmd.Flags().StringVar(&topicRef, "ref", "", "reference snapshot slug (required)")
	topicAddCmd.Flags().StringVar(&topicCand, "cand", "", "candidate snapshot slug (required)")
	_ = topicAddCmd.MarkFlagRequired("ref")
	_ = topicAddCmd.MarkFlagRequired("cand")
}
