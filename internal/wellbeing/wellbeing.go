// Package wellbeing turns stored sentiment history into dashboard-level
// insight: an overall score with a risk level, day-by-day mood trends,
// and export bundles.
package wellbeing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ravenmoor/chatwell/internal/models"
)

const (
	RiskLow     = "Low"
	RiskMedium  = "Medium"
	RiskHigh    = "High"
	RiskUnknown = "Unknown"
)

var rangeDays = map[string]int{"7d": 7, "30d": 30, "90d": 90}

// ParseTimeRange validates a dashboard range and returns its cutoff
// relative to now.
func ParseTimeRange(timeRange string, now time.Time) (time.Time, error) {
	days, ok := rangeDays[timeRange]
	if !ok {
		return time.Time{}, fmt.Errorf("invalid time range %q (want 7d, 30d or 90d)", timeRange)
	}
	return now.AddDate(0, 0, -days), nil
}

// Dashboard summarizes a user's recorded history in one card.
type Dashboard struct {
	WellbeingScore         float64        `json:"wellbeing_score"`
	RiskLevel              string         `json:"risk_level"`
	CommunicationFrequency int            `json:"communication_frequency"`
	Description            string         `json:"description"`
	TotalAnalyses          int            `json:"total_analyses"`
	AverageConfidence      float64        `json:"average_confidence"`
	SentimentDistribution  map[string]int `json:"sentiment_distribution"`
	IsEmpty                bool           `json:"is_empty,omitempty"`
}

// MoodTrendPoint is one calendar day of recorded history.
type MoodTrendPoint struct {
	Date       string  `json:"date"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Count      int     `json:"count"`
}

type MoodTrends struct {
	Trends          []MoodTrendPoint `json:"trends"`
	TimeRange       string           `json:"time_range"`
	TotalDataPoints int              `json:"total_data_points"`
}

// ExportBundle is the export payload: the dashboard summary plus every
// record in range.
type ExportBundle struct {
	ExportDate   time.Time                `json:"export_date"`
	TimeRange    string                   `json:"time_range"`
	Summary      Dashboard                `json:"summary"`
	Analyses     []models.SentimentRecord `json:"analyses"`
	TotalRecords int                      `json:"total_records"`
}

// BuildDashboard scores the given records on a 0-10 scale. The score
// rewards positive share twice as hard as it punishes negative share,
// anchored at 5 for an all-neutral history.
func BuildDashboard(records []models.SentimentRecord) Dashboard {
	if len(records) == 0 {
		return Dashboard{
			RiskLevel:   RiskUnknown,
			Description: "Start analyzing messages to see your insights",
			SentimentDistribution: map[string]int{
				models.SentimentPositive: 0,
				models.SentimentNegative: 0,
				models.SentimentNeutral:  0,
			},
			IsEmpty: true,
		}
	}

	dist := map[string]int{
		models.SentimentPositive: 0,
		models.SentimentNegative: 0,
		models.SentimentNeutral:  0,
	}
	var confidenceSum float64
	for _, r := range records {
		if _, ok := dist[r.Sentiment]; ok {
			dist[r.Sentiment]++
		}
		confidenceSum += r.Confidence
	}

	total := len(records)
	positiveRatio := float64(dist[models.SentimentPositive]) / float64(total)
	negativeRatio := float64(dist[models.SentimentNegative]) / float64(total)

	score := positiveRatio*10 - negativeRatio*5 + 5
	score = math.Max(0, math.Min(10, score))

	// Risk and description come from the unrounded score; only the
	// reported number is rounded.
	return Dashboard{
		WellbeingScore:         round(score, 1),
		RiskLevel:              riskLevel(score),
		CommunicationFrequency: total,
		Description:            describe(score),
		TotalAnalyses:          total,
		AverageConfidence:      round(confidenceSum/float64(total), 2),
		SentimentDistribution:  dist,
	}
}

func riskLevel(score float64) string {
	switch {
	case score >= 7:
		return RiskLow
	case score >= 4:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func describe(score float64) string {
	switch {
	case score >= 7:
		return "Your mental health indicators look positive. Keep up the good work!"
	case score >= 4:
		return "Your mental health shows some areas for improvement. Consider self-care activities."
	default:
		return "Your indicators suggest you might benefit from professional support."
	}
}

// BuildMoodTrends groups records by UTC calendar date, oldest first.
func BuildMoodTrends(records []models.SentimentRecord, timeRange string) MoodTrends {
	type dayAccum struct {
		counts     map[string]int
		confidence float64
		total      int
	}

	days := make(map[string]*dayAccum)
	for _, r := range records {
		date := r.Timestamp.UTC().Format("2006-01-02")
		acc := days[date]
		if acc == nil {
			acc = &dayAccum{counts: make(map[string]int)}
			days[date] = acc
		}
		acc.counts[r.Sentiment]++
		acc.confidence += r.Confidence
		acc.total++
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	trends := make([]MoodTrendPoint, 0, len(dates))
	for _, date := range dates {
		acc := days[date]
		trends = append(trends, MoodTrendPoint{
			Date:       date,
			Sentiment:  dominantSentiment(acc.counts),
			Confidence: round(acc.confidence/float64(acc.total), 2),
			Count:      acc.total,
		})
	}

	return MoodTrends{
		Trends:          trends,
		TimeRange:       timeRange,
		TotalDataPoints: len(trends),
	}
}

// dominantSentiment breaks ties positive over negative over neutral.
func dominantSentiment(counts map[string]int) string {
	best := models.SentimentPositive
	for _, s := range []string{models.SentimentNegative, models.SentimentNeutral} {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}

// BuildExport assembles the export payload for the records in range.
func BuildExport(records []models.SentimentRecord, timeRange string, now time.Time) ExportBundle {
	return ExportBundle{
		ExportDate:   now,
		TimeRange:    timeRange,
		Summary:      BuildDashboard(records),
		Analyses:     records,
		TotalRecords: len(records),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
