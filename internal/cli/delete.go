package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDeleteCommand() *cobra.Command {
	var conversationID int64
	var recordID string
	var confirm bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a conversation or a sentiment record",
		Long: `Delete an imported conversation (with its messages and search index
entries) or a single sentiment record. The archive is never touched.`,
		Example: `  # Delete a conversation with confirmation
  chatwell delete --id 42

  # Delete without confirmation prompt
  chatwell delete --id 42 --yes

  # Delete one sentiment record
  chatwell delete --record 550e8400-e29b-41d4-a716-446655440000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case conversationID != 0 && recordID != "":
				return fmt.Errorf("pass either --id or --record, not both")
			case conversationID != 0:
				return runDeleteConversation(conversationID, confirm)
			case recordID != "":
				return runDeleteRecord(recordID, confirm)
			default:
				return fmt.Errorf("either --id or --record flag is required")
			}
		},
	}

	cmd.Flags().Int64Var(&conversationID, "id", 0, "Conversation ID to delete")
	cmd.Flags().StringVar(&recordID, "record", "", "Sentiment record ID to delete")
	cmd.Flags().BoolVar(&confirm, "yes", false, "Skip confirmation prompt")

	return cmd
}

func runDeleteConversation(id int64, skipConfirm bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	conversation, err := store.GetConversation(id)
	if err != nil {
		return fmt.Errorf("conversation not found: %w", err)
	}

	if !skipConfirm {
		fmt.Printf("Delete conversation '%s' (ID: %d)? [y/N]: ", conversation.Title, id)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.DeleteConversation(id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	fmt.Printf("✓ Deleted conversation (ID: %d)\n", id)
	return nil
}

func runDeleteRecord(id string, skipConfirm bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if !skipConfirm {
		fmt.Printf("Delete sentiment record %s? [y/N]: ", id)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.DeleteRecord(id, userID()); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	fmt.Printf("✓ Deleted record %s\n", id)
	return nil
}
