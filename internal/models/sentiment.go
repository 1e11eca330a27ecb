package models

import (
	"time"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Record sources. Single records come from direct tracking, bulk records
// from transcript imports.
const (
	SourceSingle     = "single"
	SourceBulkImport = "bulk_import"
)

// DefaultUserID scopes stored data when no user name is configured.
const DefaultUserID = "default"

// SentimentRecord is one classified message. The classifier that produced
// it is opaque; only this shape matters downstream.
type SentimentRecord struct {
	ID          string             `json:"id,omitempty"`
	UserID      string             `json:"user_id,omitempty"`
	Text        string             `json:"message,omitempty"`
	Sentiment   string             `json:"sentiment"`
	Confidence  float64            `json:"confidence"`
	Emotions    map[string]float64 `json:"emotions"`
	EmojiSignal *EmojiSignal       `json:"emoji_analysis,omitempty"`
	Source      string             `json:"source,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	CreatedAt   time.Time          `json:"created_at,omitempty"`
}

// EmojiSignal is the emoji-only sentiment reading of a message, kept
// alongside the full classification when the emojis leaned either way.
type EmojiSignal struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// Pattern types, most severe first. The summarizer picks the first that
// matches.
const (
	PatternChronicNegative = "chronic_negative"
	PatternHighNegative    = "high_negative"
	PatternAnxietyFocused  = "anxiety_focused"
	PatternAngerManagement = "anger_management"
	PatternMixedEmotions   = "mixed_emotions"
	PatternPositive        = "positive"
	PatternGeneral         = "general"
	PatternNoData          = "no_data"
)

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
	TrendNeutral   = "neutral"
)

// PatternSummary is the aggregate view of a user's recorded history.
// Recomputed on every request, never persisted.
type PatternSummary struct {
	HasData             bool     `json:"has_data"`
	PatternType         string   `json:"pattern_type"`
	DominantEmotions    []string `json:"dominant_emotions"`
	SentimentTrend      string   `json:"sentiment_trend"`
	SeverityScore       float64  `json:"severity_score"`
	NegativeRatio       float64  `json:"negative_ratio"`
	PositiveRatio       float64  `json:"positive_ratio"`
	NeutralRatio        float64  `json:"neutral_ratio"`
	EmotionalVolatility float64  `json:"emotional_volatility"`
	TotalAnalyses       int      `json:"total_analyses"`
}
