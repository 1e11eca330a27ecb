package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/ravenmoor/chatwell/internal/models"
)

// responseCutoffMinutes excludes multi-day gaps from latency statistics:
// a reply a day later is a new conversation, not a slow response, and
// would otherwise dominate every average.
const responseCutoffMinutes = 1440

// initiationGap is the silence after which the next message counts as a
// fresh conversation initiation credited to its sender.
const initiationGap = 4 * time.Hour

// responseTimes collects reply latencies per responder. A response is any
// message whose sender differs from the preceding message's sender,
// subject to the cutoff. Responders are also returned in first-response
// order so downstream listings stay deterministic.
func responseTimes(msgs []models.Message) (map[string]models.ResponseTimeStats, []string) {
	latencies := make(map[string][]float64)
	var responders []string
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Sender == msgs[i-1].Sender {
			continue
		}
		minutes := msgs[i].Timestamp.Sub(msgs[i-1].Timestamp).Minutes()
		if minutes >= responseCutoffMinutes {
			continue
		}
		if _, seen := latencies[msgs[i].Sender]; !seen {
			responders = append(responders, msgs[i].Sender)
		}
		latencies[msgs[i].Sender] = append(latencies[msgs[i].Sender], minutes)
	}

	out := make(map[string]models.ResponseTimeStats, len(latencies))
	for name, values := range latencies {
		out[name] = summarizeLatencies(values)
	}
	return out, responders
}

func summarizeLatencies(values []float64) models.ResponseTimeStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}
	return models.ResponseTimeStats{
		AverageMinutes: round(sum/float64(len(values)), 2),
		MedianMinutes:  round(sorted[len(sorted)/2], 2),
		FastestMinutes: round(sorted[0], 2),
		SlowestMinutes: round(sorted[len(sorted)-1], 2),
	}
}

func conversationInitiations(msgs []models.Message) map[string]int {
	out := make(map[string]int)
	out[msgs[0].Sender]++
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Sub(msgs[i-1].Timestamp) > initiationGap {
			out[msgs[i].Sender]++
		}
	}
	return out
}

// exchangeMetrics measures back-and-forth runs: maximal stretches of
// strictly alternating senders. A run resets whenever two consecutive
// messages share a sender, and only runs of length two or more count.
func exchangeMetrics(msgs []models.Message) models.ExchangeMetrics {
	var exchanges []int
	run := 1
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Sender != msgs[i-1].Sender {
			run++
			continue
		}
		if run >= 2 {
			exchanges = append(exchanges, run)
		}
		run = 1
	}
	if run >= 2 {
		exchanges = append(exchanges, run)
	}

	if len(exchanges) == 0 {
		return models.ExchangeMetrics{}
	}

	sum, longest := 0, 0
	for _, n := range exchanges {
		sum += n
		if n > longest {
			longest = n
		}
	}
	return models.ExchangeMetrics{
		TotalExchanges:        len(exchanges),
		AverageExchangeLength: round(float64(sum)/float64(len(exchanges)), 2),
		LongestExchange:       longest,
	}
}

// weeklyResponseTrends buckets reply latencies by ISO year-week of the
// responding message.
func weeklyResponseTrends(msgs []models.Message) map[string]models.WeeklyTrend {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Sender == msgs[i-1].Sender {
			continue
		}
		minutes := msgs[i].Timestamp.Sub(msgs[i-1].Timestamp).Minutes()
		if minutes >= responseCutoffMinutes {
			continue
		}
		year, week := msgs[i].Timestamp.ISOWeek()
		key := fmt.Sprintf("%d-W%02d", year, week)
		sums[key] += minutes
		counts[key]++
	}

	out := make(map[string]models.WeeklyTrend, len(counts))
	for key, n := range counts {
		out[key] = models.WeeklyTrend{
			AverageResponseMinutes: round(sums[key]/float64(n), 2),
			Messages:               n,
		}
	}
	return out
}
