package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/wellbeing"
)

func NewDashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show your wellbeing dashboard",
		Long: `Condense your sentiment history into a single wellbeing score with a
risk level, recent activity, and the overall sentiment distribution.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard()
		},
	}

	return cmd
}

func runDashboard() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListRecords(userID(), allRecordsLimit, 0, true)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	dash := wellbeing.BuildDashboard(records)
	if jsonOut {
		return printJSON(dash)
	}
	renderDashboard(dash)
	return nil
}
