package cli

import (
	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/tui"
)

func NewBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse conversations in a TUI",
		Long: `Open an interactive terminal UI to browse imported conversations, read
them, and view their analysis side by side.`,
		Example: `  # Browse your conversations
  chatwell browse

  # Browse a specific database
  chatwell browse --db custom.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse()
		},
	}

	return cmd
}

func runBrowse() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	return tui.NewBrowser(store, cfg.UserName).Run()
}
