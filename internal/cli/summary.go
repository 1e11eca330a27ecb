package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/emotions"
)

func NewSummaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize your emotional patterns",
		Long: `Aggregate your whole sentiment history into a pattern summary:
dominant emotions, sentiment trend, volatility, and the overall
pattern the history matches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary()
		},
	}

	return cmd
}

func runSummary() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListRecords(userID(), allRecordsLimit, 0, true)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	summary := emotions.Summarize(records)
	if jsonOut {
		return printJSON(summary)
	}
	renderSummary(summary)
	return nil
}
