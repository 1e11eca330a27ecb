package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/advice"
	"github.com/ravenmoor/chatwell/internal/emotions"
)

func NewSuggestCommand() *cobra.Command {
	var maxSuggestions int

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Get wellbeing suggestions based on your history",
		Long: `Match your emotional pattern summary against the built-in intervention
knowledge base and print the most relevant suggestions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(maxSuggestions)
		},
	}

	cmd.Flags().IntVar(&maxSuggestions, "max", advice.DefaultMaxSuggestions, "Maximum number of suggestions")

	return cmd
}

func runSuggest(maxSuggestions int) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListRecords(userID(), allRecordsLimit, 0, true)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	recs := advice.Recommend(emotions.Summarize(records), maxSuggestions)
	if jsonOut {
		return printJSON(recs)
	}
	renderRecommendations(recs)
	return nil
}
