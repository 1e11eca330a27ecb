package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics about stored data",
		Long:  `Display totals for imported conversations, messages and sentiment records.`,
		RunE:  runStats,
	}

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	if jsonOut {
		return printJSON(stats)
	}

	fmt.Println("Chatwell Statistics")
	fmt.Println("===================")
	fmt.Printf("\nTotal Conversations: %d\n", stats.TotalConversations)
	fmt.Printf("Total Messages: %d\n", stats.TotalMessages)
	fmt.Printf("Sentiment Records: %d\n", stats.TotalRecords)
	fmt.Printf("Records This Week: %d\n", stats.RecordsThisWeek)

	if len(stats.SentimentBreakdown) > 0 {
		fmt.Println("\nRecords by Sentiment:")
		for sentiment, count := range stats.SentimentBreakdown {
			fmt.Printf("  %s: %d\n", sentiment, count)
		}
	}

	if len(stats.PlatformBreakdown) > 0 {
		fmt.Println("\nMessages by Platform:")
		for platform, count := range stats.PlatformBreakdown {
			fmt.Printf("  %s: %d\n", platform, count)
		}
	}

	return nil
}
