package wellbeing

import (
	"math"
	"testing"
	"time"

	"github.com/ravenmoor/chatwell/internal/models"
)

func record(sentiment string, confidence float64, ts time.Time) models.SentimentRecord {
	return models.SentimentRecord{Sentiment: sentiment, Confidence: confidence, Timestamp: ts}
}

func repeat(n int, sentiment string) []models.SentimentRecord {
	out := make([]models.SentimentRecord, n)
	for i := range out {
		out[i] = record(sentiment, 0.8, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil)

	if !d.IsEmpty {
		t.Error("expected IsEmpty")
	}
	if d.RiskLevel != RiskUnknown {
		t.Errorf("expected risk %q, got %q", RiskUnknown, d.RiskLevel)
	}
	if d.WellbeingScore != 0 || d.TotalAnalyses != 0 || d.AverageConfidence != 0 {
		t.Errorf("expected zeroed dashboard, got %+v", d)
	}
	if d.Description != "Start analyzing messages to see your insights" {
		t.Errorf("unexpected description %q", d.Description)
	}
	for _, s := range []string{"positive", "negative", "neutral"} {
		if _, ok := d.SentimentDistribution[s]; !ok {
			t.Errorf("expected %s key in empty distribution", s)
		}
	}
}

func TestBuildDashboardScores(t *testing.T) {
	tests := []struct {
		name            string
		positive        int
		negative        int
		neutral         int
		wantScore       float64
		wantRisk        string
		wantDescription string
	}{
		{
			name: "balanced history", positive: 3, negative: 4, neutral: 3,
			wantScore: 6.0, wantRisk: RiskMedium,
			wantDescription: "Your mental health shows some areas for improvement. Consider self-care activities.",
		},
		{
			name: "all positive clamps at ten", positive: 10,
			wantScore: 10.0, wantRisk: RiskLow,
			wantDescription: "Your mental health indicators look positive. Keep up the good work!",
		},
		{
			name: "all negative clamps at zero", negative: 10,
			wantScore: 0.0, wantRisk: RiskHigh,
			wantDescription: "Your indicators suggest you might benefit from professional support.",
		},
		{
			name: "all neutral sits at the anchor", neutral: 8,
			wantScore: 5.0, wantRisk: RiskMedium,
			wantDescription: "Your mental health shows some areas for improvement. Consider self-care activities.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []models.SentimentRecord
			records = append(records, repeat(tt.positive, "positive")...)
			records = append(records, repeat(tt.negative, "negative")...)
			records = append(records, repeat(tt.neutral, "neutral")...)

			d := BuildDashboard(records)
			if !approx(d.WellbeingScore, tt.wantScore) {
				t.Errorf("expected score %v, got %v", tt.wantScore, d.WellbeingScore)
			}
			if d.RiskLevel != tt.wantRisk {
				t.Errorf("expected risk %q, got %q", tt.wantRisk, d.RiskLevel)
			}
			if d.Description != tt.wantDescription {
				t.Errorf("expected description %q, got %q", tt.wantDescription, d.Description)
			}
			if d.IsEmpty {
				t.Error("expected IsEmpty to be false")
			}
		})
	}
}

func TestRiskUsesUnroundedScore(t *testing.T) {
	// 37 positive and 25 negative out of 125 scores 6.96: displayed as
	// 7.0 but still medium risk, because the risk cut reads the score
	// before rounding.
	var records []models.SentimentRecord
	records = append(records, repeat(37, "positive")...)
	records = append(records, repeat(25, "negative")...)
	records = append(records, repeat(63, "neutral")...)

	d := BuildDashboard(records)
	if !approx(d.WellbeingScore, 7.0) {
		t.Errorf("expected displayed score 7.0, got %v", d.WellbeingScore)
	}
	if d.RiskLevel != RiskMedium {
		t.Errorf("expected risk %q, got %q", RiskMedium, d.RiskLevel)
	}
}

func TestDashboardAverageConfidence(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []models.SentimentRecord{
		record("neutral", 0.5, ts),
		record("neutral", 0.6, ts),
		record("neutral", 0.7, ts),
	}

	d := BuildDashboard(records)
	if !approx(d.AverageConfidence, 0.6) {
		t.Errorf("expected average confidence 0.6, got %v", d.AverageConfidence)
	}
	if d.CommunicationFrequency != 3 || d.TotalAnalyses != 3 {
		t.Errorf("expected 3 analyses, got %+v", d)
	}
}

func TestDashboardIgnoresUnknownLabels(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []models.SentimentRecord{
		record("positive", 0.9, ts),
		record("mystery", 0.9, ts),
	}

	d := BuildDashboard(records)
	// The unknown label dilutes the ratios but lands in no bucket.
	if d.SentimentDistribution["positive"] != 1 {
		t.Errorf("expected 1 positive, got %+v", d.SentimentDistribution)
	}
	if len(d.SentimentDistribution) != 3 {
		t.Errorf("expected only the three standard buckets, got %+v", d.SentimentDistribution)
	}
	if d.TotalAnalyses != 2 {
		t.Errorf("expected 2 total, got %d", d.TotalAnalyses)
	}
	if !approx(d.WellbeingScore, 10.0) {
		t.Errorf("expected score 10.0, got %v", d.WellbeingScore)
	}
}

func TestBuildMoodTrends(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	records := []models.SentimentRecord{
		record("positive", 0.8, day2),
		record("negative", 0.6, day1),
		record("positive", 0.7, day1),
		record("negative", 0.9, day1),
	}

	trends := BuildMoodTrends(records, "30d")
	if trends.TotalDataPoints != 2 || len(trends.Trends) != 2 {
		t.Fatalf("expected 2 data points, got %+v", trends)
	}
	if trends.TimeRange != "30d" {
		t.Errorf("expected time range 30d, got %q", trends.TimeRange)
	}

	first := trends.Trends[0]
	if first.Date != "2024-03-01" {
		t.Errorf("expected dates ascending, got %q first", first.Date)
	}
	if first.Sentiment != "negative" {
		t.Errorf("expected negative dominant on day one, got %q", first.Sentiment)
	}
	if !approx(first.Confidence, 0.73) {
		t.Errorf("expected rounded average confidence 0.73, got %v", first.Confidence)
	}
	if first.Count != 3 {
		t.Errorf("expected 3 records on day one, got %d", first.Count)
	}

	if trends.Trends[1].Date != "2024-03-02" || trends.Trends[1].Sentiment != "positive" {
		t.Errorf("unexpected second day %+v", trends.Trends[1])
	}
}

func TestMoodTrendTieBreak(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.SentimentRecord{
		record("negative", 0.5, ts),
		record("positive", 0.5, ts),
	}

	trends := BuildMoodTrends(records, "7d")
	if got := trends.Trends[0].Sentiment; got != "positive" {
		t.Errorf("expected tie to break positive, got %q", got)
	}
}

func TestMoodTrendsGroupInUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	records := []models.SentimentRecord{
		record("neutral", 0.5, time.Date(2024, 3, 1, 23, 30, 0, 0, est)),
	}

	trends := BuildMoodTrends(records, "7d")
	if got := trends.Trends[0].Date; got != "2024-03-02" {
		t.Errorf("expected UTC date 2024-03-02, got %q", got)
	}
}

func TestParseTimeRange(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	cutoff, err := ParseTimeRange("7d", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.AddDate(0, 0, -7); !cutoff.Equal(want) {
		t.Errorf("expected cutoff %v, got %v", want, cutoff)
	}

	if _, err := ParseTimeRange("14d", now); err == nil {
		t.Error("expected an error for an unsupported range")
	}
}

func TestBuildExport(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	records := repeat(4, "positive")

	bundle := BuildExport(records, "90d", now)
	if bundle.TotalRecords != 4 || len(bundle.Analyses) != 4 {
		t.Errorf("expected 4 records, got %+v", bundle)
	}
	if bundle.TimeRange != "90d" || !bundle.ExportDate.Equal(now) {
		t.Errorf("unexpected bundle metadata %+v", bundle)
	}
	if bundle.Summary.TotalAnalyses != 4 {
		t.Errorf("expected summary over the same records, got %+v", bundle.Summary)
	}
}
