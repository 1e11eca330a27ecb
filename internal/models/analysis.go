package models

import (
	"time"
)

// AnalysisBundle is the full output of analyzing one conversation. It is
// computed fresh from a message sequence and never mutated afterwards.
type AnalysisBundle struct {
	Participants       []Participant                    `json:"participants"`
	BasicStats         BasicStats                       `json:"basic_stats"`
	MessagingPatterns  MessagingPatterns                `json:"messaging_patterns"`
	EngagementMetrics  EngagementMetrics                `json:"engagement_metrics"`
	SentimentAnalysis  map[string]ParticipantSentiment  `json:"sentiment_analysis"`
	RedFlags           RedFlagReport                    `json:"red_flags"`
	EmojiStats         map[string]ParticipantEmojiStats `json:"emoji_stats"`
	TimeAnalysis       TimeAnalysis                     `json:"time_analysis"`
	ConversationPeriod ConversationPeriod               `json:"conversation_period"`
}

type BasicStats struct {
	TotalMessages          int            `json:"total_messages"`
	MessagesPerParticipant map[string]int `json:"messages_per_participant"`
	AverageMessageLength   float64        `json:"average_message_length"`
	LongestMessage         MessageExtreme `json:"longest_message"`
	ShortestMessage        MessageExtreme `json:"shortest_message"`
}

type MessageExtreme struct {
	Sender string `json:"sender"`
	Length int    `json:"length"`
}

type MessagingPatterns struct {
	MostActiveDays          []DateCount                     `json:"most_active_days"`
	MostActiveHours         []HourCount                     `json:"most_active_hours"`
	FrequencyPerParticipant map[string]ParticipantFrequency `json:"frequency_per_participant"`
	DayOfWeekDistribution   map[string]int                  `json:"day_of_week_distribution"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

type ParticipantFrequency struct {
	AverageHoursBetweenMessages float64 `json:"average_hours_between_messages"`
	MessagesPerDay              float64 `json:"messages_per_day"`
}

type EngagementMetrics struct {
	ResponseTimeAnalysis    map[string]ResponseTimeStats `json:"response_time_analysis"`
	ConversationInitiations map[string]int               `json:"conversation_initiations"`
	BackAndForthMetrics     ExchangeMetrics              `json:"back_and_forth_metrics"`
}

type ResponseTimeStats struct {
	AverageMinutes float64 `json:"average_minutes"`
	MedianMinutes  float64 `json:"median_minutes"`
	FastestMinutes float64 `json:"fastest_minutes"`
	SlowestMinutes float64 `json:"slowest_minutes"`
}

type ExchangeMetrics struct {
	TotalExchanges        int     `json:"total_exchanges"`
	AverageExchangeLength float64 `json:"average_exchange_length"`
	LongestExchange       int     `json:"longest_exchange"`
}

type ParticipantSentiment struct {
	PositiveMessages int     `json:"positive_messages"`
	NegativeMessages int     `json:"negative_messages"`
	NeutralMessages  int     `json:"neutral_messages"`
	PositiveRatio    float64 `json:"positive_ratio"`
	NegativeRatio    float64 `json:"negative_ratio"`
	NeutralRatio     float64 `json:"neutral_ratio"`
}

// Finding severities. Red flags are always high, warnings medium.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// Conversation health labels derived from the red-flag count.
const (
	HealthHealthy    = "healthy"
	HealthConcerning = "concerning"
	HealthUnhealthy  = "unhealthy"
)

type RedFlagReport struct {
	RedFlags      []Finding `json:"red_flags"`
	Warnings      []Finding `json:"warnings"`
	TotalRedFlags int       `json:"total_red_flags"`
	TotalWarnings int       `json:"total_warnings"`
	OverallHealth string    `json:"overall_health,omitempty"`
}

type Finding struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

type ParticipantEmojiStats struct {
	TotalEmojis      int          `json:"total_emojis"`
	UniqueEmojis     int          `json:"unique_emojis"`
	EmojisPerMessage float64      `json:"emojis_per_message"`
	MostUsedEmojis   []EmojiCount `json:"most_used_emojis"`
}

type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

type TimeAnalysis struct {
	WeeklyResponseTrends map[string]WeeklyTrend `json:"weekly_response_trends"`
}

type WeeklyTrend struct {
	AverageResponseMinutes float64 `json:"average_response_minutes"`
	Messages               int     `json:"messages"`
}

type ConversationPeriod struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationDays int       `json:"duration_days"`
}
