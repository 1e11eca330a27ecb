package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ravenmoor/chatwell/internal/archive"
	"github.com/ravenmoor/chatwell/internal/classify"
	"github.com/ravenmoor/chatwell/internal/importer"
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/storage"
)

// allRecordsLimit bounds how much history the aggregate views load.
const allRecordsLimit = 5000

func openStore() (*storage.Store, error) {
	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// userID scopes reads and writes. Without a configured name everything
// lands under one shared bucket.
func userID() string {
	if cfg.UserName == "" {
		return models.DefaultUserID
	}
	return cfg.UserName
}

func newClassifier() classify.Classifier {
	return classify.New(classify.RemoteConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})
}

func newArchiveWriter() (*archive.Writer, error) {
	w, err := archive.NewWriter(cfg.ArchiveDir, cfg.ShardSizeBytes(), cfg.ArchiveCompress)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return w, nil
}

func newImporter(store *storage.Store, arch *archive.Writer) *importer.Importer {
	return importer.New(store, newClassifier(), arch, cfg.UserName)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
