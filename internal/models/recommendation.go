package models

const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Recommendation is what callers see. The relevance score used for ranking
// stays internal to the engine.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	BlogID      string `json:"blog_id,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
}

// StoreStats summarizes everything persisted for a user.
type StoreStats struct {
	TotalConversations int            `json:"total_conversations"`
	TotalMessages      int            `json:"total_messages"`
	TotalRecords       int            `json:"total_records"`
	RecordsThisWeek    int            `json:"records_this_week"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	PlatformBreakdown  map[string]int `json:"platform_breakdown"`
}
