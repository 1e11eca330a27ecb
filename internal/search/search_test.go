package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/storage"
)

func newSearchStore(t *testing.T) *storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "chatwell-search-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := storage.NewStore(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func saveConversation(t *testing.T, store *storage.Store, userID, format, text string) *models.Conversation {
	t.Helper()

	conv := &models.Conversation{
		UserID:         userID,
		Title:          "conversation for " + userID,
		FormatDetected: format,
		Messages: []models.Message{
			{Timestamp: time.Now().UTC(), Sender: "Sam", Text: text, Platform: models.PlatformGeneric},
		},
	}
	if err := store.SaveConversation(conv); err != nil {
		t.Fatalf("Failed to save conversation: %v", err)
	}
	return conv
}

func TestSearcherEmptyDatabase(t *testing.T) {
	searcher := NewSearcher(newSearchStore(t))

	results, err := searcher.Search("anything", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() in empty database returned %d results, want 0", len(results))
	}

	results, err = searcher.SearchWithFilters("anything", 10, Filters{UserID: "mia"})
	if err != nil {
		t.Fatalf("SearchWithFilters() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("SearchWithFilters() in empty database returned %d results, want 0", len(results))
	}
}

func TestSearcherFilters(t *testing.T) {
	store := newSearchStore(t)
	saveConversation(t, store, "mia", "whatsapp", "picnic in the park on sunday")
	saveConversation(t, store, "noah", "telegram", "picnic supplies are sorted")

	searcher := NewSearcher(store)

	results, err := searcher.Search("picnic", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}

	tests := []struct {
		name    string
		filters Filters
		want    int
		user    string
	}{
		{"by user", Filters{UserID: "mia"}, 1, "mia"},
		{"by format", Filters{Format: "telegram"}, 1, "noah"},
		{"user and format disjoint", Filters{UserID: "mia", Format: "telegram"}, 0, ""},
		{"no filters", Filters{}, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := searcher.SearchWithFilters("picnic", 10, tt.filters)
			if err != nil {
				t.Fatalf("SearchWithFilters() error = %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("SearchWithFilters() returned %d results, want %d", len(got), tt.want)
			}
			if tt.want == 1 && got[0].Conversation.UserID != tt.user {
				t.Errorf("filtered result user = %s, want %s", got[0].Conversation.UserID, tt.user)
			}
		})
	}
}
