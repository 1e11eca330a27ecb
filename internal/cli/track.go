package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/archive"
	"github.com/ravenmoor/chatwell/internal/models"
)

func NewTrackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track <message>",
		Short: "Track how you're feeling right now",
		Long: `Classify a single message and record it in your sentiment history.
The raw text is preserved in the archive like any import.`,
		Example: `  chatwell track "had a great day, the demo went really well"
  chatwell track "feeling drained after that call"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd.Context(), strings.Join(args, " "))
		},
	}

	return cmd
}

func runTrack(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("nothing to track: message is empty")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	record := newClassifier().Classify(ctx, text)
	record.UserID = userID()
	record.Text = text
	record.Source = models.SourceSingle
	record.Timestamp = time.Now()

	if err := store.SaveRecord(&record); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	// Preservation is best effort here, same as for imports.
	if arch, err := newArchiveWriter(); err == nil {
		_, appendErr := arch.Append(archive.Entry{
			UserID: record.UserID,
			Source: models.SourceSingle,
			SHA:    archive.Fingerprint(text),
			Raw:    text,
		})
		if appendErr != nil {
			log.Printf("Failed to archive tracked message: %v", appendErr)
		}
		arch.Close()
	}

	if jsonOut {
		return printJSON(record)
	}

	fmt.Printf("✓ Tracked: %s (confidence %.2f)\n", record.Sentiment, record.Confidence)
	fmt.Printf("  Emotions: %s\n", formatEmotions(record.Emotions))
	if record.EmojiSignal != nil {
		fmt.Printf("  Emoji signal: %s (%.2f)\n", record.EmojiSignal.Sentiment, record.EmojiSignal.Confidence)
	}
	return nil
}
