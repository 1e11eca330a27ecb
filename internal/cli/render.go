package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ravenmoor/chatwell/internal/models"
	"github.com/ravenmoor/chatwell/internal/wellbeing"
)

// Shared plain-text rendering for commands that show analysis output.
// Anything fancier than aligned text lives in the TUI, not here.

func renderHeader(title string) {
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))
}

func renderBundle(bundle models.AnalysisBundle) {
	renderHeader("Conversation Analysis")

	period := bundle.ConversationPeriod
	if !period.Start.IsZero() {
		fmt.Printf("\nPeriod: %s to %s (%d days)\n",
			period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"), period.DurationDays)
	}

	if len(bundle.Participants) > 0 {
		names := make([]string, 0, len(bundle.Participants))
		for _, p := range bundle.Participants {
			name := p.Name
			if p.Role == models.RoleYou {
				name += " (you)"
			}
			names = append(names, name)
		}
		fmt.Printf("Participants: %s\n", strings.Join(names, ", "))
	}

	stats := bundle.BasicStats
	fmt.Println("\nMessages:")
	fmt.Printf("  Total: %d\n", stats.TotalMessages)
	for _, p := range bundle.Participants {
		fmt.Printf("  %s: %d\n", p.Name, stats.MessagesPerParticipant[p.Name])
	}
	fmt.Printf("  Average length: %.1f characters\n", stats.AverageMessageLength)

	if len(bundle.SentimentAnalysis) > 0 {
		fmt.Println("\nSentiment:")
		for _, p := range bundle.Participants {
			s, ok := bundle.SentimentAnalysis[p.Name]
			if !ok {
				continue
			}
			fmt.Printf("  %s: %.0f%% positive, %.0f%% negative, %.0f%% neutral\n",
				p.Name, s.PositiveRatio*100, s.NegativeRatio*100, s.NeutralRatio*100)
		}
	}

	if len(bundle.EngagementMetrics.ResponseTimeAnalysis) > 0 {
		fmt.Println("\nResponse times:")
		for _, p := range bundle.Participants {
			rt, ok := bundle.EngagementMetrics.ResponseTimeAnalysis[p.Name]
			if !ok {
				continue
			}
			fmt.Printf("  %s: avg %.1f min, median %.1f min\n", p.Name, rt.AverageMinutes, rt.MedianMinutes)
		}
	}

	renderRedFlags(bundle.RedFlags)
}

func renderRedFlags(report models.RedFlagReport) {
	if report.OverallHealth != "" {
		fmt.Printf("\nConversation health: %s\n", report.OverallHealth)
	}
	if report.TotalRedFlags > 0 {
		fmt.Printf("\nRed flags (%d):\n", report.TotalRedFlags)
		for _, f := range report.RedFlags {
			fmt.Printf("  [%s] %s\n", f.Severity, f.Description)
			if f.Suggestion != "" {
				fmt.Printf("       Suggestion: %s\n", f.Suggestion)
			}
		}
	}
	if report.TotalWarnings > 0 {
		fmt.Printf("\nWarnings (%d):\n", report.TotalWarnings)
		for _, f := range report.Warnings {
			fmt.Printf("  [%s] %s\n", f.Severity, f.Description)
			if f.Suggestion != "" {
				fmt.Printf("       Suggestion: %s\n", f.Suggestion)
			}
		}
	}
}

func renderSummary(summary models.PatternSummary) {
	renderHeader("Emotional Summary")

	if !summary.HasData {
		fmt.Println("\nNo sentiment records yet. Track a feeling or import a transcript first.")
		return
	}

	fmt.Printf("\nPattern: %s\n", summary.PatternType)
	fmt.Printf("Trend: %s\n", summary.SentimentTrend)
	fmt.Printf("Severity: %.2f\n", summary.SeverityScore)
	fmt.Printf("Volatility: %.2f\n", summary.EmotionalVolatility)
	fmt.Printf("Analyses: %d\n", summary.TotalAnalyses)

	fmt.Println("\nSentiment mix:")
	fmt.Printf("  positive: %.0f%%\n", summary.PositiveRatio*100)
	fmt.Printf("  negative: %.0f%%\n", summary.NegativeRatio*100)
	fmt.Printf("  neutral: %.0f%%\n", summary.NeutralRatio*100)

	if len(summary.DominantEmotions) > 0 {
		fmt.Printf("\nDominant emotions: %s\n", strings.Join(summary.DominantEmotions, ", "))
	}
}

func renderDashboard(dash wellbeing.Dashboard) {
	renderHeader("Wellbeing Dashboard")

	if dash.IsEmpty {
		fmt.Printf("\n%s\n", dash.Description)
		return
	}

	fmt.Printf("\nWellbeing score: %.1f / 10\n", dash.WellbeingScore)
	fmt.Printf("Risk level: %s\n", dash.RiskLevel)
	fmt.Printf("Messages this week: %d\n", dash.CommunicationFrequency)
	fmt.Printf("Analyses: %d (avg confidence %.2f)\n", dash.TotalAnalyses, dash.AverageConfidence)
	fmt.Printf("\n%s\n", dash.Description)

	if len(dash.SentimentDistribution) > 0 {
		fmt.Println("\nSentiment distribution:")
		for _, sentiment := range []string{models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral} {
			fmt.Printf("  %s: %d\n", sentiment, dash.SentimentDistribution[sentiment])
		}
	}
}

func renderTrends(trends wellbeing.MoodTrends) {
	renderHeader("Mood Trends")

	if trends.TotalDataPoints == 0 {
		fmt.Printf("\nNo records in the last %s.\n", trends.TimeRange)
		return
	}

	fmt.Printf("\nRange: %s | Data points: %d\n\n", trends.TimeRange, trends.TotalDataPoints)
	for _, point := range trends.Trends {
		fmt.Printf("  %s  %-8s  confidence %.2f  (%d messages)\n",
			point.Date, point.Sentiment, point.Confidence, point.Count)
	}
}

func renderRecommendations(recs []models.Recommendation) {
	renderHeader("Suggestions")

	if len(recs) == 0 {
		fmt.Println("\nNothing to suggest right now.")
		return
	}

	fmt.Println()
	for i, rec := range recs {
		fmt.Printf("%d. [%s] %s\n", i+1, rec.Priority, rec.Title)
		fmt.Printf("   %s\n", rec.Description)
		if rec.ExternalURL != "" {
			fmt.Printf("   %s\n", rec.ExternalURL)
		}
		fmt.Println()
	}
}

// formatEmotions renders an emotion map strongest first.
func formatEmotions(emotions map[string]float64) string {
	if len(emotions) == 0 {
		return "none"
	}
	names := make([]string, 0, len(emotions))
	for name := range emotions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if emotions[names[i]] != emotions[names[j]] {
			return emotions[names[i]] > emotions[names[j]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s (%.2f)", name, emotions[name])
	}
	return strings.Join(parts, ", ")
}
