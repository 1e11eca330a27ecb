package analyzer

import (
	"fmt"
	"sort"

	"github.com/ravenmoor/chatwell/internal/models"
)

const topActiveBuckets = 5

func messagingPatterns(msgs []models.Message, order []string, byName map[string]int) models.MessagingPatterns {
	return models.MessagingPatterns{
		MostActiveDays:          mostActiveDays(msgs),
		MostActiveHours:         mostActiveHours(msgs),
		FrequencyPerParticipant: participantFrequency(msgs, order, byName),
		DayOfWeekDistribution:   dayOfWeekDistribution(msgs),
	}
}

// mostActiveDays ranks calendar dates by message count. Keys are collected
// in chronological first-appearance order so a stable sort breaks count
// ties by date ascending.
func mostActiveDays(msgs []models.Message) []models.DateCount {
	counts := make(map[string]int)
	var order []string
	for _, m := range msgs {
		date := m.Timestamp.Format("2006-01-02")
		if _, seen := counts[date]; !seen {
			order = append(order, date)
		}
		counts[date]++
	}

	out := make([]models.DateCount, 0, len(order))
	for _, date := range order {
		out = append(out, models.DateCount{Date: date, Count: counts[date]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topActiveBuckets {
		out = out[:topActiveBuckets]
	}
	return out
}

func mostActiveHours(msgs []models.Message) []models.HourCount {
	counts := make(map[int]int)
	var order []int
	for _, m := range msgs {
		hour := m.Timestamp.Hour()
		if _, seen := counts[hour]; !seen {
			order = append(order, hour)
		}
		counts[hour]++
	}

	out := make([]models.HourCount, 0, len(order))
	for _, hour := range order {
		out = append(out, models.HourCount{
			Hour:  fmt.Sprintf("%02d:00", hour),
			Count: counts[hour],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topActiveBuckets {
		out = out[:topActiveBuckets]
	}
	return out
}

// participantFrequency reports per-sender messaging cadence: mean hours
// between that sender's own consecutive messages, and messages per day
// normalized over the whole conversation's span (minimum one day).
// Senders with a single message have no gap to measure and are omitted.
func participantFrequency(msgs []models.Message, order []string, byName map[string]int) map[string]models.ParticipantFrequency {
	span := daySpan(msgs[0].Timestamp, msgs[len(msgs)-1].Timestamp)
	if span < 1 {
		span = 1
	}

	out := make(map[string]models.ParticipantFrequency)
	for _, name := range order {
		if byName[name] <= 1 {
			continue
		}

		var gapHours float64
		var gaps int
		var prev *models.Message
		for i := range msgs {
			if msgs[i].Sender != name {
				continue
			}
			if prev != nil {
				gapHours += msgs[i].Timestamp.Sub(prev.Timestamp).Hours()
				gaps++
			}
			prev = &msgs[i]
		}

		out[name] = models.ParticipantFrequency{
			AverageHoursBetweenMessages: round(gapHours/float64(gaps), 2),
			MessagesPerDay:              round(float64(byName[name])/float64(span), 2),
		}
	}
	return out
}

func dayOfWeekDistribution(msgs []models.Message) map[string]int {
	out := make(map[string]int)
	for _, m := range msgs {
		out[m.Timestamp.Weekday().String()]++
	}
	return out
}
