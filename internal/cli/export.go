package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/wellbeing"
)

func NewExportCommand() *cobra.Command {
	var format string
	var timeRange string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your sentiment history",
		Long: `Export sentiment records as JSON or CSV. The JSON form bundles the
records with a dashboard summary; the CSV form is one record per row.`,
		Example: `  # JSON bundle for the last 30 days
  chatwell export

  # CSV of everything, straight to a file
  chatwell export --format csv --range all --output history.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(format, timeRange, outputPath)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Export format: json or csv")
	cmd.Flags().StringVar(&timeRange, "range", "30d", "Time range: 7d, 30d, 90d or all")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write to a file instead of stdout")

	return cmd
}

func runExport(format, timeRange, outputPath string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var records []models.SentimentRecord
	if timeRange == "all" {
		records, err = store.ListRecords(userID(), allRecordsLimit, 0, true)
	} else {
		var cutoff time.Time
		cutoff, err = wellbeing.ParseTimeRange(timeRange, time.Now())
		if err != nil {
			return err
		}
		records, err = store.ListRecordsSince(userID(), cutoff)
	}
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	var data []byte
	switch format {
	case "json":
		bundle := wellbeing.BuildExport(records, timeRange, time.Now())
		data, err = json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
		data = append(data, '\n')
	case "csv":
		data, err = recordsCSV(records)
		if err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (want json or csv)", format)
	}

	if outputPath == "" {
		fmt.Print(string(data))
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	fmt.Printf("✓ Exported %d record(s) to %s\n", len(records), outputPath)
	return nil
}

func recordsCSV(records []models.SentimentRecord) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := []string{"timestamp", "message", "sentiment", "confidence", "emotions", "emoji_analysis"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, record := range records {
		emoji := ""
		if record.EmojiSignal != nil {
			emoji = fmt.Sprintf("%s:%.2f", record.EmojiSignal.Sentiment, record.EmojiSignal.Confidence)
		}
		row := []string{
			record.Timestamp.Format(time.RFC3339),
			record.Text,
			record.Sentiment,
			fmt.Sprintf("%.2f", record.Confidence),
			emotionsCell(record.Emotions),
			emoji,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// emotionsCell packs an emotion map into one cell, strongest first.
func emotionsCell(emotions map[string]float64) string {
	names := make([]string, 0, len(emotions))
	for name := range emotions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if emotions[names[i]] != emotions[names[j]] {
			return emotions[names[i]] > emotions[names[j]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s:%.2f", name, emotions[name])
	}
	return strings.Join(parts, ";")
}
