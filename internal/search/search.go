package search

import (
	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/storage"
)

// Searcher runs full-text queries over stored message content.
type Searcher struct {
	store *storage.Store
}

func NewSearcher(store *storage.Store) *Searcher {
	return &Searcher{store: store}
}

// Filters narrow full-text hits after ranking. Zero values match
// everything.
type Filters struct {
	UserID string
	Format string
}

func (s *Searcher) Search(query string, limit int) ([]models.SearchResult, error) {
	return s.store.Search(query, limit)
}

func (s *Searcher) SearchWithFilters(query string, limit int, f Filters) ([]models.SearchResult, error) {
	results, err := s.store.Search(query, limit)
	if err != nil {
		return nil, err
	}

	if f.UserID != "" {
		filtered := []models.SearchResult{}
		for _, r := range results {
			if r.Conversation.UserID == f.UserID {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	if f.Format != "" {
		filtered := []models.SearchResult{}
		for _, r := range results {
			if r.Conversation.FormatDetected == f.Format {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	return results, nil
}
