package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/storage"
)

func TestNewDeleteCommand(t *testing.T) {
	cmd := NewDeleteCommand()

	flags := []string{"id", "record", "yes"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Flag %q not defined", flag)
		}
	}
}

func TestRunDeleteConversation(t *testing.T) {
	setTestConfig(t)

	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	id := seedConversation(t, "Chat with Sam", []models.Message{
		{Timestamp: base, Sender: "Sam", Text: "hello there", Platform: models.PlatformWhatsApp},
	})

	output, err := captureStdout(t, func() error {
		return runDeleteConversation(id, true)
	})
	if err != nil {
		t.Fatalf("runDeleteConversation() error = %v", err)
	}

	if !strings.Contains(output, "✓ Deleted conversation") {
		t.Errorf("Expected delete confirmation, got: %s", output)
	}

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.GetConversation(id); err == nil {
		t.Error("GetConversation() should fail after delete")
	}
}

func TestRunDeleteRecord(t *testing.T) {
	setTestConfig(t)

	seedRecord(t, "rough day", models.SentimentNegative, time.Now())

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	records, err := store.ListRecords(userID(), 10, 0, false)
	store.Close()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("Seeded records = %d, want 1", len(records))
	}

	output, err := captureStdout(t, func() error {
		return runDeleteRecord(records[0].ID, true)
	})
	if err != nil {
		t.Fatalf("runDeleteRecord() error = %v", err)
	}

	if !strings.Contains(output, "✓ Deleted record") {
		t.Errorf("Expected delete confirmation, got: %s", output)
	}

	store, err = storage.NewStore(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	remaining, err := store.ListRecords(userID(), 10, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 0 {
		t.Errorf("Records after delete = %d, want 0", len(remaining))
	}
}
