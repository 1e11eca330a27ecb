// Package analyzer computes conversation health metrics from a parsed
// message sequence: participant roles, activity patterns, response
// behavior, a lexicon sentiment split, heuristic red flags, emoji usage
// and weekly trends. Analysis is a pure computation; it allocates its own
// working state per call and never mutates its input, so concurrent calls
// need no coordination.
package analyzer

import (
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/ravenmoor/chatwell/internal/models"
)

// Analyze builds the full analysis bundle for one conversation. Messages
// are re-sorted by timestamp defensively; parser output is expected
// sorted but not trusted. currentUserName resolves participant roles by
// exact match — an empty or unmatched name just means no participant is
// tagged "you". Empty input yields a zeroed bundle, never an error.
func Analyze(messages []models.Message, currentUserName string) models.AnalysisBundle {
	if len(messages) == 0 {
		return emptyBundle()
	}

	msgs := make([]models.Message, len(messages))
	copy(msgs, messages)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})

	byName, order := countBySender(msgs)
	responseStats, responders := responseTimes(msgs)
	initiations := conversationInitiations(msgs)

	return models.AnalysisBundle{
		Participants:      participants(byName, order, currentUserName),
		BasicStats:        basicStats(msgs, byName),
		MessagingPatterns: messagingPatterns(msgs, order, byName),
		EngagementMetrics: models.EngagementMetrics{
			ResponseTimeAnalysis:    responseStats,
			ConversationInitiations: initiations,
			BackAndForthMetrics:     exchangeMetrics(msgs),
		},
		SentimentAnalysis:  sentimentAnalysis(msgs, order),
		RedFlags:           detectRedFlags(msgs, byName, order, responseStats, responders, initiations),
		EmojiStats:         emojiStats(msgs, order),
		TimeAnalysis:       models.TimeAnalysis{WeeklyResponseTrends: weeklyResponseTrends(msgs)},
		ConversationPeriod: conversationPeriod(msgs),
	}
}

func emptyBundle() models.AnalysisBundle {
	return models.AnalysisBundle{
		Participants: []models.Participant{},
		BasicStats: models.BasicStats{
			MessagesPerParticipant: map[string]int{},
		},
		MessagingPatterns: models.MessagingPatterns{
			MostActiveDays:          []models.DateCount{},
			MostActiveHours:         []models.HourCount{},
			FrequencyPerParticipant: map[string]models.ParticipantFrequency{},
			DayOfWeekDistribution:   map[string]int{},
		},
		EngagementMetrics: models.EngagementMetrics{
			ResponseTimeAnalysis:    map[string]models.ResponseTimeStats{},
			ConversationInitiations: map[string]int{},
		},
		SentimentAnalysis: map[string]models.ParticipantSentiment{},
		RedFlags: models.RedFlagReport{
			RedFlags: []models.Finding{},
			Warnings: []models.Finding{},
		},
		EmojiStats: map[string]models.ParticipantEmojiStats{},
		TimeAnalysis: models.TimeAnalysis{
			WeeklyResponseTrends: map[string]models.WeeklyTrend{},
		},
	}
}

// countBySender tallies messages per sender and returns the senders in
// first-appearance order, the tie-break order every ranked listing uses.
func countBySender(msgs []models.Message) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, m := range msgs {
		if _, seen := counts[m.Sender]; !seen {
			order = append(order, m.Sender)
		}
		counts[m.Sender]++
	}
	return counts, order
}

func participants(byName map[string]int, order []string, currentUserName string) []models.Participant {
	out := make([]models.Participant, 0, len(order))
	for _, name := range order {
		role := models.RoleOther
		if name == currentUserName {
			role = models.RoleYou
		}
		out = append(out, models.Participant{
			Name:         name,
			Role:         role,
			MessageCount: byName[name],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MessageCount > out[j].MessageCount
	})
	return out
}

func basicStats(msgs []models.Message, byName map[string]int) models.BasicStats {
	perParticipant := make(map[string]int, len(byName))
	for name, count := range byName {
		perParticipant[name] = count
	}

	var totalLen int
	longest := models.MessageExtreme{Sender: msgs[0].Sender, Length: utf8.RuneCountInString(msgs[0].Text)}
	shortest := longest
	for _, m := range msgs {
		n := utf8.RuneCountInString(m.Text)
		totalLen += n
		if n > longest.Length {
			longest = models.MessageExtreme{Sender: m.Sender, Length: n}
		}
		if n < shortest.Length {
			shortest = models.MessageExtreme{Sender: m.Sender, Length: n}
		}
	}

	return models.BasicStats{
		TotalMessages:          len(msgs),
		MessagesPerParticipant: perParticipant,
		AverageMessageLength:   round(float64(totalLen)/float64(len(msgs)), 1),
		LongestMessage:         longest,
		ShortestMessage:        shortest,
	}
}

func conversationPeriod(msgs []models.Message) models.ConversationPeriod {
	start := msgs[0].Timestamp
	end := msgs[len(msgs)-1].Timestamp
	return models.ConversationPeriod{
		Start:        start,
		End:          end,
		DurationDays: daySpan(start, end),
	}
}

// daySpan is the whole-day span between two instants, floored.
func daySpan(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
