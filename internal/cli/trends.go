package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/wellbeing"
)

func NewTrendsCommand() *cobra.Command {
	var timeRange string

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show mood trends over time",
		Long: `Bucket your sentiment history by calendar day and show how your mood
moved across the selected range.`,
		Example: `  chatwell trends
  chatwell trends --range 7d`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrends(timeRange)
		},
	}

	cmd.Flags().StringVar(&timeRange, "range", "30d", "Time range: 7d, 30d or 90d")

	return cmd
}

func runTrends(timeRange string) error {
	cutoff, err := wellbeing.ParseTimeRange(timeRange, time.Now())
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListRecordsSince(userID(), cutoff)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	trends := wellbeing.BuildMoodTrends(records, timeRange)
	if jsonOut {
		return printJSON(trends)
	}
	renderTrends(trends)
	return nil
}
