package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ravenmoor/chatwell/internal/config"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/storage"
)

// setTestConfig points the package-level config at a temp directory and
// restores the previous one afterwards. Run functions read cfg directly,
// so tests can call them without going through cobra.
func setTestConfig(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "chatwell-cli-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	prev := cfg
	prevJSON := jsonOut
	cfg = &config.Config{
		DataDir:           dir,
		DBPath:            filepath.Join(dir, "test.db"),
		ArchiveDir:        filepath.Join(dir, "archive"),
		ArchiveCompress:   false,
		ArchiveMaxShardMB: 1,
		UserName:          "Mia",
		Model:             "gpt-4o-mini",
		WatchDir:          filepath.Join(dir, "inbox"),
		SettleSeconds:     1,
		APIAddr:           "127.0.0.1:0",
	}
	jsonOut = false
	t.Cleanup(func() {
		cfg = prev
		jsonOut = prevJSON
	})
	return dir
}

// captureStdout collects everything fn prints.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), fnErr
}

func seedConversation(t *testing.T, title string, msgs []models.Message) int64 {
	t.Helper()

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	conv := &models.Conversation{
		UserID:         userID(),
		Title:          title,
		FormatDetected: models.PlatformWhatsApp,
		Messages:       msgs,
	}
	if err := store.SaveConversation(conv); err != nil {
		t.Fatal(err)
	}
	return conv.ID
}

func seedRecord(t *testing.T, text, sentiment string, ts time.Time) {
	t.Helper()

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	record := &models.SentimentRecord{
		UserID:     userID(),
		Text:       text,
		Sentiment:  sentiment,
		Confidence: 0.9,
		Emotions:   map[string]float64{"joy": 0.8},
		Source:     models.SourceSingle,
		Timestamp:  ts,
	}
	if err := store.SaveRecord(record); err != nil {
		t.Fatal(err)
	}
}
