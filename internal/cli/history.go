package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/models"
)

func NewHistoryCommand() *cobra.Command {
	var limit int
	var includeBulk bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your recent sentiment records",
		Long: `List recent sentiment records, newest first. By default only directly
tracked feelings are shown; --all includes records classified from
imported transcripts.`,
		Example: `  # Recent tracked feelings
  chatwell history

  # Everything, including records from imports
  chatwell history --all --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(limit, includeBulk)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to show")
	cmd.Flags().BoolVar(&includeBulk, "all", false, "Include records from imported transcripts")

	return cmd
}

func runHistory(limit int, includeBulk bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListRecords(userID(), limit, 0, includeBulk)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if jsonOut {
		return printJSON(records)
	}

	if len(records) == 0 {
		fmt.Println("No sentiment records yet. Track a feeling with 'chatwell track'.")
		return nil
	}

	fmt.Printf("Recent records:\n\n")
	for _, record := range records {
		printRecord(record)
	}
	return nil
}

func printRecord(record models.SentimentRecord) {
	fmt.Printf("[%s] %s (%.2f)\n", record.Timestamp.Local().Format("2006-01-02 15:04"), record.Sentiment, record.Confidence)

	text := record.Text
	if len(text) > 100 {
		text = text[:100] + "..."
	}
	if text != "" {
		fmt.Printf("  %s\n", text)
	}

	fmt.Printf("  Emotions: %s", formatEmotions(record.Emotions))
	if record.Source == models.SourceBulkImport {
		fmt.Printf(" | Source: import")
	}
	fmt.Println()
	fmt.Printf("  ID: %s\n", record.ID)
	fmt.Println()
}
