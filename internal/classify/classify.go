// Package classify turns single messages into sentiment records: a
// sentiment label, a confidence, and a map of emotion scores. Two
// implementations exist: a remote OpenAI-compatible classifier and a
// local heuristic fallback. Callers depend only on the Classifier
// interface; everything downstream treats the output as opaque.
package classify

import (
	"context"

	"github.com/ravenmoor/chatwell/internal/models"
)

// Classifier scores the emotional tone of one message. Implementations
// never fail: whatever happens, some classification comes back.
type Classifier interface {
	Classify(ctx context.Context, text string) models.SentimentRecord
}

// New picks the classifier for the given configuration: remote when an
// API key is configured, the local heuristic otherwise.
func New(cfg RemoteConfig) Classifier {
	if cfg.APIKey == "" {
		return Fallback{}
	}
	return NewRemote(cfg)
}
