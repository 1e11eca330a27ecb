package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ravenmoor/chatwell/internal/models"
)

// Rule thresholds for the red-flag battery.
const (
	imbalanceHighRatio    = 3.0
	imbalanceWarnRatio    = 2.0
	slowResponseMinutes   = 180.0
	freqDropMinMessages   = 20
	freqDropRecentShare   = 0.5
	initiationHighRatio   = 4.0
	lowEngagementMinCount = 5
	lowEngagementAvgChars = 15.0
	lowEngagementQuestion = 0.1
)

// detectRedFlags runs the heuristic rule battery. Each rule independently
// contributes at most one finding per subject into either the red-flag or
// the warning list; the overall health label counts red flags only.
// Rules run in a fixed order so reports of the same conversation are
// byte-identical.
func detectRedFlags(
	msgs []models.Message,
	byName map[string]int,
	order []string,
	responseStats map[string]models.ResponseTimeStats,
	responders []string,
	initiations map[string]int,
) models.RedFlagReport {
	report := models.RedFlagReport{
		RedFlags: []models.Finding{},
		Warnings: []models.Finding{},
	}

	// Message-count imbalance, two-party conversations only.
	if len(byName) == 2 {
		hi, lo := byName[order[0]], byName[order[1]]
		if lo > hi {
			hi, lo = lo, hi
		}
		if lo < 1 {
			lo = 1
		}
		ratio := float64(hi) / float64(lo)
		if ratio > imbalanceHighRatio {
			report.RedFlags = append(report.RedFlags, models.Finding{
				Type:        "message_imbalance",
				Severity:    models.SeverityHigh,
				Description: fmt.Sprintf("Significant message imbalance: one person sends %.1fx more messages", ratio),
				Suggestion:  "This may indicate unequal investment in the conversation",
			})
		} else if ratio > imbalanceWarnRatio {
			report.Warnings = append(report.Warnings, models.Finding{
				Type:        "message_imbalance",
				Severity:    models.SeverityMedium,
				Description: fmt.Sprintf("Message imbalance detected: one person sends %.1fx more messages", ratio),
				Suggestion:  "Consider if both people are equally engaged",
			})
		}
	}

	// Slow responders, judged on their rounded mean latency.
	for _, name := range responders {
		stats := responseStats[name]
		if stats.AverageMinutes > slowResponseMinutes {
			report.Warnings = append(report.Warnings, models.Finding{
				Type:        "slow_responses",
				Severity:    models.SeverityMedium,
				Description: fmt.Sprintf("%s takes an average of %.1f hours to respond", name, stats.AverageMinutes/60),
				Suggestion:  "Delayed responses might indicate low prioritization",
			})
		}
	}

	// Frequency drop: compare the last quarter's daily rate against the
	// first three quarters'. Only meaningful with enough messages.
	if len(msgs) > freqDropMinMessages {
		split := len(msgs) * 3 / 4
		historicalRate := segmentRate(msgs[:split])
		recentRate := segmentRate(msgs[split:])
		if recentRate < historicalRate*freqDropRecentShare {
			drop := (1 - recentRate/historicalRate) * 100
			report.RedFlags = append(report.RedFlags, models.Finding{
				Type:        "frequency_drop",
				Severity:    models.SeverityHigh,
				Description: fmt.Sprintf("Messaging frequency dropped by %.0f%%", drop),
				Suggestion:  "Significant decrease in communication may indicate fading interest",
			})
		}
	}

	// One-sided initiation, two-party conversations only. A participant
	// who never initiates counts as one so the ratio stays finite.
	if len(byName) == 2 {
		hi, lo := initiations[order[0]], initiations[order[1]]
		if lo > hi {
			hi, lo = lo, hi
		}
		if lo < 1 {
			lo = 1
		}
		if float64(hi)/float64(lo) > initiationHighRatio {
			report.RedFlags = append(report.RedFlags, models.Finding{
				Type:        "one_sided_initiation",
				Severity:    models.SeverityHigh,
				Description: "One person initiates conversations 4x more often",
				Suggestion:  "Consider if the other person is reciprocating interest",
			})
		}
	}

	// Low engagement: consistently short, non-inquisitive messages.
	for _, name := range order {
		count := byName[name]
		if count <= lowEngagementMinCount {
			continue
		}
		var chars, questions int
		for _, m := range msgs {
			if m.Sender != name {
				continue
			}
			chars += utf8.RuneCountInString(m.Text)
			if strings.Contains(m.Text, "?") {
				questions++
			}
		}
		avgChars := float64(chars) / float64(count)
		if avgChars < lowEngagementAvgChars && float64(questions)/float64(count) < lowEngagementQuestion {
			report.Warnings = append(report.Warnings, models.Finding{
				Type:        "low_engagement",
				Severity:    models.SeverityMedium,
				Description: fmt.Sprintf("%s sends short messages (avg %.0f chars) with few questions", name, avgChars),
				Suggestion:  "Short, non-inquisitive responses may indicate low engagement",
			})
		}
	}

	report.TotalRedFlags = len(report.RedFlags)
	report.TotalWarnings = len(report.Warnings)
	switch {
	case report.TotalRedFlags == 0:
		report.OverallHealth = models.HealthHealthy
	case report.TotalRedFlags <= 2:
		report.OverallHealth = models.HealthConcerning
	default:
		report.OverallHealth = models.HealthUnhealthy
	}
	return report
}

// segmentRate is messages per day over a slice's own time span, with a
// minimum divisor of one day.
func segmentRate(segment []models.Message) float64 {
	days := daySpan(segment[0].Timestamp, segment[len(segment)-1].Timestamp)
	if days < 1 {
		days = 1
	}
	return float64(len(segment)) / float64(days)
}
