//go:build integration

package integration

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ravenmoor/chatwell/internal/advice"
	"github.com/ravenmoor/chatwell/internal/archive"
	"github.com/ravenmoor/chatwell/internal/classify"
	"github.com/ravenmoor/chatwell/internal/emotions"
	"github.com/ravenmoor/chatwell/internal/importer"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/search"
	"github.com/ravenmoor/chatwell/internal/storage"
	"github.com/ravenmoor/chatwell/internal/wellbeing"
)

const hikeExport = `6/10/24, 9:00 AM - Sam: Are we still on for the hike tomorrow?
6/10/24, 9:02 AM - Mia: yes! really looking forward to it
6/10/24, 9:03 AM - Sam: Great, I'll bring the map
6/10/24, 9:05 AM - Mia: honestly this week has been exhausting and stressful`

func TestImportPipelineIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tempDir, err := os.MkdirTemp("", "test-import-pipeline-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	store, err := storage.NewStore(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	arch, err := archive.NewWriter(filepath.Join(tempDir, "archive"), 1<<20, false)
	if err != nil {
		t.Fatal(err)
	}
	defer arch.Close()

	imp := importer.New(store, classify.New(classify.RemoteConfig{}), arch, "Mia")

	result, err := imp.Import(context.Background(), "hike.txt", hikeExport)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Format != models.PlatformWhatsApp {
		t.Errorf("format = %q, want %q", result.Format, models.PlatformWhatsApp)
	}

	t.Run("conversation stored", func(t *testing.T) {
		conv, err := store.GetConversation(result.Conversation.ID)
		if err != nil {
			t.Fatalf("GetConversation() error = %v", err)
		}
		if conv.TotalMessages != 4 {
			t.Errorf("total messages = %d, want 4", conv.TotalMessages)
		}
		if conv.Title != "Chat with Sam" {
			t.Errorf("title = %q, want %q", conv.Title, "Chat with Sam")
		}
	})

	t.Run("own messages classified", func(t *testing.T) {
		records, err := store.ListRecords("Mia", 100, 0, true)
		if err != nil {
			t.Fatalf("ListRecords() error = %v", err)
		}
		if len(records) == 0 {
			t.Fatal("expected classified records from the import")
		}
		for _, rec := range records {
			if rec.Source != models.SourceBulkImport {
				t.Errorf("record source = %q, want %q", rec.Source, models.SourceBulkImport)
			}
		}
	})

	t.Run("archive preserves raw transcript", func(t *testing.T) {
		iter, err := archive.NewIterator(filepath.Join(tempDir, "archive"))
		if err != nil {
			t.Fatalf("NewIterator() error = %v", err)
		}
		defer iter.Close()

		entry, err := iter.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if entry.Raw != hikeExport {
			t.Error("archived raw transcript does not match the import")
		}
		if entry.SHA != archive.Fingerprint(hikeExport) {
			t.Error("archived SHA does not match the content fingerprint")
		}
		if _, err := iter.Next(); err != io.EOF {
			t.Errorf("second Next() error = %v, want io.EOF", err)
		}
	})

	t.Run("search finds imported text", func(t *testing.T) {
		results, err := search.NewSearcher(store).SearchWithFilters("hike", 10, search.Filters{UserID: "Mia"})
		if err != nil {
			t.Fatalf("SearchWithFilters() error = %v", err)
		}
		if len(results) == 0 {
			t.Fatal("expected at least one search hit for 'hike'")
		}
		if results[0].Conversation.Title != "Chat with Sam" {
			t.Errorf("hit title = %q, want %q", results[0].Conversation.Title, "Chat with Sam")
		}
	})

	t.Run("duplicate import rejected", func(t *testing.T) {
		_, err := imp.Import(context.Background(), "hike-copy.txt", hikeExport)
		if !errors.Is(err, importer.ErrDuplicate) {
			t.Errorf("Import() error = %v, want ErrDuplicate", err)
		}
	})
}

func TestWellbeingPipelineIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tempDir, err := os.MkdirTemp("", "test-wellbeing-pipeline-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	store, err := storage.NewStore(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	classifier := classify.New(classify.RemoteConfig{})

	feelings := []string{
		"everything feels heavy and hopeless lately",
		"I am so anxious about the review tomorrow",
		"had a wonderful afternoon with friends",
	}
	for i, text := range feelings {
		record := classifier.Classify(context.Background(), text)
		record.UserID = "Mia"
		record.Text = text
		record.Source = models.SourceSingle
		record.Timestamp = time.Now().Add(time.Duration(-i) * time.Hour)
		if err := store.SaveRecord(&record); err != nil {
			t.Fatalf("SaveRecord() error = %v", err)
		}
	}

	records, err := store.ListRecords("Mia", 100, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(feelings) {
		t.Fatalf("stored records = %d, want %d", len(records), len(feelings))
	}

	t.Run("summary reflects history", func(t *testing.T) {
		summary := emotions.Summarize(records)
		if !summary.HasData {
			t.Error("summary has_data = false, want true")
		}
		if summary.TotalAnalyses != len(feelings) {
			t.Errorf("total analyses = %d, want %d", summary.TotalAnalyses, len(feelings))
		}
	})

	t.Run("recommendations derived from summary", func(t *testing.T) {
		recs := advice.Recommend(emotions.Summarize(records), advice.DefaultMaxSuggestions)
		if len(recs) == 0 {
			t.Error("expected at least one recommendation")
		}
	})

	t.Run("dashboard in score range", func(t *testing.T) {
		dash := wellbeing.BuildDashboard(records)
		if dash.TotalAnalyses != len(feelings) {
			t.Errorf("dashboard analyses = %d, want %d", dash.TotalAnalyses, len(feelings))
		}
		if dash.WellbeingScore < 0 || dash.WellbeingScore > 10 {
			t.Errorf("wellbeing score = %.2f, want within [0, 10]", dash.WellbeingScore)
		}
	})

	t.Run("trends cover the recorded days", func(t *testing.T) {
		cutoff, err := wellbeing.ParseTimeRange("7d", time.Now())
		if err != nil {
			t.Fatal(err)
		}
		recent, err := store.ListRecordsSince("Mia", cutoff)
		if err != nil {
			t.Fatal(err)
		}
		trends := wellbeing.BuildMoodTrends(recent, "7d")
		if trends.TotalDataPoints == 0 {
			t.Error("expected at least one trend data point")
		}
	})
}
