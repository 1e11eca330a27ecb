package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ravenmoor/chatwell/internal/storage"
)

const hikeExport = `6/10/24, 9:00 AM - Sam: are we still on for the hike saturday?
6/10/24, 9:02 AM - Mia: yes! really looking forward to it
6/10/24, 9:03 AM - Sam: great, I'll bring the map
6/10/24, 9:05 AM - Mia: honestly this week has been exhausting and stressful`

func TestNewImportCommand(t *testing.T) {
	cmd := NewImportCommand()

	if cmd.Use != "import [files...]" {
		t.Errorf("Command.Use = %v, want %v", cmd.Use, "import [files...]")
	}

	if cmd.Short == "" {
		t.Error("Command.Short should not be empty")
	}

	flags := []string{"scan", "from-archive"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Flag %q not defined", flag)
		}
	}
}

func TestRunImportFiles(t *testing.T) {
	dir := setTestConfig(t)

	path := filepath.Join(dir, "hike.txt")
	if err := os.WriteFile(path, []byte(hikeExport), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := captureStdout(t, func() error {
		return runImportFiles(context.Background(), []string{path})
	})
	if err != nil {
		t.Fatalf("runImportFiles() error = %v", err)
	}

	if !strings.Contains(output, "✓ Imported Chat with Sam") {
		t.Errorf("Expected import confirmation in output, got: %s", output)
	}
	if !strings.Contains(output, "Successfully imported 1 file(s)") {
		t.Errorf("Expected summary line in output, got: %s", output)
	}

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	conversations, err := store.ListConversations(userID(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(conversations) != 1 {
		t.Fatalf("Stored conversations = %d, want 1", len(conversations))
	}
	if conversations[0].TotalMessages != 4 {
		t.Errorf("TotalMessages = %d, want 4", conversations[0].TotalMessages)
	}
}

func TestRunImportFiles_DuplicateInBatch(t *testing.T) {
	dir := setTestConfig(t)

	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte(hikeExport), 0644); err != nil {
			t.Fatal(err)
		}
	}

	output, err := captureStdout(t, func() error {
		return runImportFiles(context.Background(), []string{first, second})
	})
	if err != nil {
		t.Fatalf("runImportFiles() error = %v", err)
	}

	if !strings.Contains(output, "identical content already imported") {
		t.Errorf("Expected duplicate notice in output, got: %s", output)
	}
	if !strings.Contains(output, "1 duplicate(s) skipped") {
		t.Errorf("Expected duplicate count in summary, got: %s", output)
	}
}

func TestRunImportFiles_BadFileContinues(t *testing.T) {
	dir := setTestConfig(t)

	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(good, []byte(hikeExport), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("just prose with no structure at all"), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := captureStdout(t, func() error {
		return runImportFiles(context.Background(), []string{bad, good})
	})
	if err != nil {
		t.Fatalf("runImportFiles() error = %v", err)
	}

	if !strings.Contains(output, "Warning:") {
		t.Errorf("Expected a warning for the bad file, got: %s", output)
	}
	if !strings.Contains(output, "Successfully imported 1 file(s)") {
		t.Errorf("Expected the good file to import, got: %s", output)
	}
	if !strings.Contains(output, "1 failed") {
		t.Errorf("Expected failure count in summary, got: %s", output)
	}
}

func TestRunImportFiles_NothingImportable(t *testing.T) {
	dir := setTestConfig(t)

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("nothing transcript shaped here"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := captureStdout(t, func() error {
		return runImportFiles(context.Background(), []string{bad})
	})
	if err == nil {
		t.Fatal("runImportFiles() expected error when every file fails")
	}
	if !strings.Contains(err.Error(), "no files could be imported") {
		t.Errorf("error = %v, want mention of no files imported", err)
	}
}

func TestRunImportScan(t *testing.T) {
	dir := setTestConfig(t)

	root := filepath.Join(dir, "exports")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "hike.txt"), []byte(hikeExport), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := captureStdout(t, func() error {
		return runImportScan(context.Background(), root)
	})
	if err != nil {
		t.Fatalf("runImportScan() error = %v", err)
	}

	if !strings.Contains(output, "Found 1 candidate file(s)") {
		t.Errorf("Expected candidate count in output, got: %s", output)
	}
	if !strings.Contains(output, "Successfully imported 1 file(s)") {
		t.Errorf("Expected import summary in output, got: %s", output)
	}
}

func TestRunImportFromArchive(t *testing.T) {
	dir := setTestConfig(t)

	// First import populates the archive alongside the database.
	path := filepath.Join(dir, "hike.txt")
	if err := os.WriteFile(path, []byte(hikeExport), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := captureStdout(t, func() error {
		return runImportFiles(context.Background(), []string{path})
	}); err != nil {
		t.Fatal(err)
	}

	// Point at a fresh database and replay the archive into it.
	cfg.DBPath = filepath.Join(dir, "fresh.db")

	output, err := captureStdout(t, func() error {
		return runImportFromArchive(context.Background())
	})
	if err != nil {
		t.Fatalf("runImportFromArchive() error = %v", err)
	}

	if !strings.Contains(output, "Re-imported 1 conversation(s)") {
		t.Errorf("Expected re-import summary, got: %s", output)
	}

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	conversations, err := store.ListConversations(userID(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(conversations) != 1 {
		t.Fatalf("Fresh database conversations = %d, want 1", len(conversations))
	}
	if conversations[0].Title != "Chat with Sam" {
		t.Errorf("Title = %q, want %q", conversations[0].Title, "Chat with Sam")
	}
}
