package models

import (
	"time"
)

// Platform tags assigned by the parser. Detection may report additional
// source formats (discord, imessage) but every stored message carries one
// of these.
const (
	PlatformWhatsApp = "whatsapp"
	PlatformTelegram = "telegram"
	PlatformGeneric  = "generic"
)

const (
	RoleYou   = "you"
	RoleOther = "other"
)

type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Text      string    `json:"message"`
	Platform  string    `json:"platform"`
}

// Participant is derived during analysis, never stored on its own. Role is
// resolved by exact string match against the caller-supplied user name.
type Participant struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	MessageCount int    `json:"message_count"`
}

// Conversation is one imported transcript with its parsed messages.
// SourcePath and ArchiveShard record where the raw export came from and
// which archive shard preserves it, both optional.
type Conversation struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	FormatDetected string    `json:"format_detected"`
	TotalMessages  int       `json:"total_messages"`
	SourcePath     string    `json:"source_path,omitempty"`
	ArchiveShard   string    `json:"archive_shard,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Messages       []Message `json:"messages,omitempty"`
}

// SearchResult is one full-text hit: the owning conversation plus the
// matched message snippet and its bm25 score.
type SearchResult struct {
	Conversation Conversation `json:"conversation"`
	Snippet      string       `json:"snippet"`
	Score        float64      `json:"score"`
}
