package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/analyzer"
	"github.com/ravenmoor/chatwell/internal/chatlog"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/scanner"
	"github.com/ravenmoor/chatwell/internal/storage"
)

func NewAnalyzeCommand() *cobra.Command {
	var conversationID int64
	var save bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a conversation's communication patterns",
		Long: `Analyze a transcript for message statistics, response times, sentiment
per participant, and relationship red flags. Works on an export file
directly or on an already-imported conversation by ID.`,
		Example: `  # Analyze an export without importing it
  chatwell analyze chat.txt

  # Analyze an imported conversation
  chatwell analyze --id 3

  # Analyze and keep the result for later viewing
  chatwell analyze --id 3 --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if conversationID > 0 {
				if len(args) > 0 {
					return fmt.Errorf("pass either a file or --id, not both")
				}
				return runAnalyzeStored(conversationID, save)
			}
			if len(args) != 1 {
				return fmt.Errorf("pass a transcript file or --id")
			}
			if save {
				return fmt.Errorf("--save requires --id: import the file first")
			}
			return runAnalyzeFile(args[0])
		},
	}

	cmd.Flags().Int64Var(&conversationID, "id", 0, "Analyze an imported conversation by ID")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the analysis for this conversation")

	return cmd
}

func runAnalyzeFile(path string) error {
	validator := NewValidator()
	if err := validator.ValidateFile(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > scanner.MaxExportSize {
		return fmt.Errorf("%s is %d bytes, over the %d byte limit", path, info.Size(), scanner.MaxExportSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	msgs, format := chatlog.Parse(string(content), "")
	if len(msgs) == 0 {
		return fmt.Errorf("no messages recognized in %s (detected format %s)", path, format)
	}

	return outputBundle(analyzer.Analyze(msgs, cfg.UserName))
}

func runAnalyzeStored(id int64, save bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	conv, err := store.GetConversation(id)
	if err != nil {
		return fmt.Errorf("failed to load conversation %d: %w", id, err)
	}

	bundle := analyzer.Analyze(conv.Messages, cfg.UserName)

	if save {
		stored := &storage.StoredAnalysis{
			ConversationID: id,
			UserName:       cfg.UserName,
			Bundle:         bundle,
		}
		if err := store.SaveAnalysis(stored); err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
		if !jsonOut {
			fmt.Printf("✓ Saved analysis for conversation %d\n\n", id)
		}
	}

	return outputBundle(bundle)
}

func outputBundle(bundle models.AnalysisBundle) error {
	if jsonOut {
		return printJSON(bundle)
	}
	renderBundle(bundle)
	return nil
}
