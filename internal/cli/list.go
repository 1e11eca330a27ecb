package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewListCommand() *cobra.Command {
	var limit int
	var offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List imported conversations",
		Long:  `List imported conversations, newest first.`,
		Example: `  # List recent conversations
  chatwell list

  # Page through older ones
  chatwell list --limit 10 --offset 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(limit, offset)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of conversations to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of conversations to skip")

	return cmd
}

func runList(limit, offset int) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	conversations, err := store.ListConversations(userID(), limit, offset)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if jsonOut {
		return printJSON(conversations)
	}

	if len(conversations) == 0 {
		fmt.Println("No conversations found. Import a transcript with 'chatwell import'.")
		return nil
	}

	fmt.Printf("Recent conversations:\n\n")
	for _, conv := range conversations {
		fmt.Printf("[ID: %d] %s\n", conv.ID, conv.Title)
		fmt.Printf("  Format: %s | Messages: %d\n", conv.FormatDetected, conv.TotalMessages)
		fmt.Printf("  Created: %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}

	return nil
}
