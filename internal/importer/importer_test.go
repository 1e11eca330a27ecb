package importer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ravenmoor/chatwell/internal/archive"
	"github.com/ravenmoor/chatwell/internal/chatlog"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/storage"
)

const hikeExport = `6/10/24, 9:00 AM - Sam: are we still on for the weekend hike
6/10/24, 9:02 AM - Mia: yes! really looking forward to it
6/10/24, 9:03 AM - Sam: great
6/10/24, 9:04 AM - Mia: ok
6/10/24, 9:05 AM - Mia: honestly this week has been exhausting and stressful
`

// stubClassifier returns canned classifications keyed on content so the
// pipeline filters can be exercised without a live endpoint.
type stubClassifier struct{}

func (stubClassifier) Classify(_ context.Context, text string) models.SentimentRecord {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "meh"):
		return models.SentimentRecord{Sentiment: models.SentimentNeutral, Confidence: 0.4, Emotions: map[string]float64{}}
	case strings.Contains(lower, "fine"):
		return models.SentimentRecord{Sentiment: models.SentimentNeutral, Confidence: 0.8, Emotions: map[string]float64{}}
	case strings.Contains(lower, "exhausting"):
		return models.SentimentRecord{Sentiment: models.SentimentNegative, Confidence: 0.85, Emotions: map[string]float64{"sadness": 0.7}}
	default:
		return models.SentimentRecord{Sentiment: models.SentimentPositive, Confidence: 0.9, Emotions: map[string]float64{"joy": 0.8}}
	}
}

func newTestImporter(t *testing.T, userName string) (*Importer, *storage.Store, *archive.Writer, string) {
	t.Helper()

	dir, err := os.MkdirTemp("", "chatwell-import-*")
	if err != nil {
		t.Fatalf("MkdirTemp() error = %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := storage.NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	arch, err := archive.NewWriter(filepath.Join(dir, "archive"), 0, false)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	t.Cleanup(func() { arch.Close() })

	return New(store, stubClassifier{}, arch, userName), store, arch, dir
}

func TestImportClassifiesOwnMessages(t *testing.T) {
	imp, store, arch, dir := newTestImporter(t, "Mia")

	path := filepath.Join(dir, "hike.txt")
	if err := os.WriteFile(path, []byte(hikeExport), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	res, err := imp.ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}

	if res.Format != models.PlatformWhatsApp {
		t.Errorf("Format = %q, want %q", res.Format, models.PlatformWhatsApp)
	}
	if res.Classified != 2 {
		t.Errorf("Classified = %d, want 2", res.Classified)
	}
	if res.SkippedShort != 1 {
		t.Errorf("SkippedShort = %d, want 1", res.SkippedShort)
	}
	if res.SkippedNeutral != 0 {
		t.Errorf("SkippedNeutral = %d, want 0", res.SkippedNeutral)
	}
	if !strings.HasPrefix(res.Shard, "shard_") {
		t.Errorf("Shard = %q, want shard_* name", res.Shard)
	}

	conv := res.Conversation
	if conv.ID == 0 {
		t.Error("Conversation.ID = 0, want assigned")
	}
	if conv.Title != "Chat with Sam" {
		t.Errorf("Title = %q, want %q", conv.Title, "Chat with Sam")
	}
	if conv.SourcePath != path {
		t.Errorf("SourcePath = %q, want %q", conv.SourcePath, path)
	}
	if conv.ArchiveShard != res.Shard {
		t.Errorf("ArchiveShard = %q, want %q", conv.ArchiveShard, res.Shard)
	}

	stored, err := store.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if len(stored.Messages) != 5 {
		t.Errorf("stored messages = %d, want 5", len(stored.Messages))
	}

	records, err := store.ListRecords("Mia", 10, 0, true)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Source != models.SourceBulkImport {
			t.Errorf("record source = %q, want %q", rec.Source, models.SourceBulkImport)
		}
		if rec.Timestamp.Year() != 2024 {
			t.Errorf("record timestamp year = %d, want 2024 (original message time)", rec.Timestamp.Year())
		}
	}
	if !strings.Contains(records[0].Text, "exhausting") {
		t.Errorf("newest record = %q, want the 9:05 message", records[0].Text)
	}

	if err := arch.Close(); err != nil {
		t.Fatalf("archive Close() error = %v", err)
	}
	it, err := archive.NewIterator(filepath.Join(dir, "archive"))
	if err != nil {
		t.Fatalf("NewIterator() error = %v", err)
	}
	defer it.Close()
	entry, err := it.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if entry.Raw != hikeExport {
		t.Errorf("archived raw does not round-trip")
	}
	if entry.UserID != "Mia" {
		t.Errorf("archived user = %q, want %q", entry.UserID, "Mia")
	}
	if _, err := it.Next(); err != io.EOF {
		t.Errorf("second Next() error = %v, want io.EOF", err)
	}
}

func TestImportFiltersLowConfidenceNeutral(t *testing.T) {
	defer func(prev bool) { chatlog.Quiet = prev }(chatlog.Quiet)
	chatlog.Quiet = true

	imp, store, _, _ := newTestImporter(t, "Mia")

	content := "Mia: feeling kind of meh today\nMia: i am doing fine right now\n"
	res, err := imp.Import(context.Background(), "", content)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if res.Classified != 1 {
		t.Errorf("Classified = %d, want 1", res.Classified)
	}
	if res.SkippedNeutral != 1 {
		t.Errorf("SkippedNeutral = %d, want 1", res.SkippedNeutral)
	}

	records, err := store.ListRecords("Mia", 10, 0, true)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1 (confident neutral kept)", len(records))
	}
	if !strings.Contains(records[0].Text, "fine") {
		t.Errorf("stored record = %q, want the confident neutral message", records[0].Text)
	}
}

func TestImportUnknownSelf(t *testing.T) {
	imp, store, _, _ := newTestImporter(t, "Zoe")

	res, err := imp.Import(context.Background(), "hike.txt", hikeExport)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if res.Classified != 0 || res.SkippedShort != 0 || res.SkippedNeutral != 0 {
		t.Errorf("classification ran for unknown self: %+v", res)
	}
	if res.Conversation.UserID != "Zoe" {
		t.Errorf("UserID = %q, want %q", res.Conversation.UserID, "Zoe")
	}

	records, err := store.ListRecords("Zoe", 10, 0, true)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0", len(records))
	}
}

func TestImportUnnamedUser(t *testing.T) {
	imp, _, _, _ := newTestImporter(t, "")

	res, err := imp.Import(context.Background(), "hike.txt", hikeExport)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Conversation.UserID != models.DefaultUserID {
		t.Errorf("UserID = %q, want %q", res.Conversation.UserID, models.DefaultUserID)
	}
	if res.Classified != 0 {
		t.Errorf("Classified = %d, want 0 when no user is named", res.Classified)
	}
}

func TestImportDuplicate(t *testing.T) {
	imp, store, _, _ := newTestImporter(t, "Mia")

	if _, err := imp.Import(context.Background(), "hike.txt", hikeExport); err != nil {
		t.Fatalf("first Import() error = %v", err)
	}
	_, err := imp.Import(context.Background(), "hike-copy.txt", hikeExport)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second Import() error = %v, want ErrDuplicate", err)
	}

	convs, err := store.ListConversations("Mia", 10, 0)
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(convs) != 1 {
		t.Errorf("conversations = %d, want 1", len(convs))
	}
}

func TestImportRejectsUnusableContent(t *testing.T) {
	imp, _, _, _ := newTestImporter(t, "Mia")

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t\n"},
		{"prose without structure", "went for a walk today\nthe weather was lovely\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := imp.Import(context.Background(), "", tt.content); err == nil {
				t.Error("Import() error = nil, want error")
			}
		})
	}
}

func TestImportWithoutArchive(t *testing.T) {
	imp, store, _, _ := newTestImporter(t, "Mia")
	imp.archive = nil

	res, err := imp.Import(context.Background(), "hike.txt", hikeExport)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if res.Shard != "" {
		t.Errorf("Shard = %q, want empty without an archive", res.Shard)
	}
	if res.Conversation.ArchiveShard != "" {
		t.Errorf("ArchiveShard = %q, want empty", res.Conversation.ArchiveShard)
	}

	records, err := store.ListRecords("Mia", 10, 0, true)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2 (classification unaffected)", len(records))
	}
}

func TestImportCancelled(t *testing.T) {
	imp, _, _, _ := newTestImporter(t, "Mia")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := imp.Import(ctx, "hike.txt", hikeExport)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Import() error = %v, want context.Canceled", err)
	}
}

func TestWorthClassifying(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"ok", false},
		{"sure thing", false},
		{"ok!", true},
		{"why?", true},
		{"🙂", true},
		{"three whole words", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := worthClassifying(tt.text); got != tt.want {
			t.Errorf("worthClassifying(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestTitleFor(t *testing.T) {
	at := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	mkMsgs := func(senders ...string) []models.Message {
		msgs := make([]models.Message, len(senders))
		for i, s := range senders {
			msgs[i] = models.Message{Timestamp: at, Sender: s, Text: "hello there friend"}
		}
		return msgs
	}

	tests := []struct {
		name       string
		msgs       []models.Message
		userName   string
		sourcePath string
		want       string
	}{
		{"one other", mkMsgs("Sam", "Mia", "Sam"), "Mia", "/exports/sam.txt", "Chat with Sam"},
		{"group chat", mkMsgs("Ana", "Ben", "Cleo", "Dev", "Mia"), "Mia", "", "Chat with Ana, Ben, Cleo and others"},
		{"self only", mkMsgs("Mia", "Mia"), "Mia", "/exports/journal.txt", "journal"},
		{"self only no path", mkMsgs("Mia"), "Mia", "", "Imported conversation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleFor(tt.msgs, tt.userName, tt.sourcePath); got != tt.want {
				t.Errorf("titleFor() = %q, want %q", got, tt.want)
			}
		})
	}
}
