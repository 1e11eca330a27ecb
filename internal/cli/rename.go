package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewRenameCommand() *cobra.Command {
	var conversationID int64

	cmd := &cobra.Command{
		Use:   "rename <title>",
		Short: "Rename an imported conversation",
		Long:  `Replace the generated title of an imported conversation.`,
		Example: `  chatwell rename --id 3 "Road trip planning with Sam"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(conversationID, strings.Join(args, " "))
		},
	}

	cmd.Flags().Int64Var(&conversationID, "id", 0, "Conversation ID to rename")
	cmd.MarkFlagRequired("id")

	return cmd
}

func runRename(id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RenameConversation(id, title); err != nil {
		return fmt.Errorf("failed to rename conversation: %w", err)
	}

	fmt.Printf("✓ Renamed conversation %d to '%s'\n", id, title)
	return nil
}
