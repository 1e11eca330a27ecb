// Package emotions condenses a user's sentiment record history into a
// pattern summary: dominant emotions, sentiment trend, severity and
// volatility, plus a priority-ordered pattern classification that the
// recommendation engine keys off. Pure computation, no I/O.
package emotions

import (
	"math"
	"sort"
	"strings"

	"github.com/ravenmoor/chatwell/internal/models"
)

const dominantLimit = 5

// Emotion groups the pattern classifier tests dominant emotions against.
var (
	crisisEmotions  = group("sadness", "fear", "anxiety", "panic", "grief")
	anxietyEmotions = group("anxiety", "fear", "nervousness", "worry", "panic")
	angerEmotions   = group("anger", "rage", "frustration", "annoyance")
)

func group(names ...string) map[string]struct{} {
	g := make(map[string]struct{}, len(names))
	for _, n := range names {
		g[n] = struct{}{}
	}
	return g
}

// Summarize reduces a record history to its emotional pattern. Records
// are expected newest-first, the order the store hands them out; the
// leading third is the "recent" window the trend is judged on. Empty
// input yields the no_data summary, never an error.
func Summarize(records []models.SentimentRecord) models.PatternSummary {
	if len(records) == 0 {
		return models.PatternSummary{
			PatternType:      models.PatternNoData,
			DominantEmotions: []string{},
			SentimentTrend:   models.TrendNeutral,
		}
	}

	var pos, neg, neu int
	for _, r := range records {
		switch r.Sentiment {
		case models.SentimentPositive:
			pos++
		case models.SentimentNegative:
			neg++
		case models.SentimentNeutral:
			neu++
		}
	}
	total := len(records)
	posRatio := float64(pos) / float64(total)
	negRatio := float64(neg) / float64(total)
	neuRatio := float64(neu) / float64(total)

	dominant := dominantEmotions(records)

	return models.PatternSummary{
		HasData:             true,
		PatternType:         classifyPattern(negRatio, posRatio, dominant, total),
		DominantEmotions:    dominant,
		SentimentTrend:      sentimentTrend(records, posRatio),
		SeverityScore:       math.Min(1, negRatio*1.5),
		NegativeRatio:       negRatio,
		PositiveRatio:       posRatio,
		NeutralRatio:        neuRatio,
		EmotionalVolatility: volatility(records),
		TotalAnalyses:       total,
	}
}

// dominantEmotions ranks emotion names by how many records mention them;
// an emotion's score within a record does not weight the count. Names
// are lowercased, ranked top five, count ties broken by first encounter
// (within one record, alphabetically, since map order is unspecified).
func dominantEmotions(records []models.SentimentRecord) []string {
	counts := make(map[string]int)
	var firstSeen []string
	for _, r := range records {
		names := make([]string, 0, len(r.Emotions))
		for name := range r.Emotions {
			names = append(names, strings.ToLower(name))
		}
		sort.Strings(names)
		for _, name := range names {
			if _, seen := counts[name]; !seen {
				firstSeen = append(firstSeen, name)
			}
			counts[name]++
		}
	}

	sort.SliceStable(firstSeen, func(i, j int) bool {
		return counts[firstSeen[i]] > counts[firstSeen[j]]
	})
	if len(firstSeen) > dominantLimit {
		firstSeen = firstSeen[:dominantLimit]
	}
	if firstSeen == nil {
		firstSeen = []string{}
	}
	return firstSeen
}

// sentimentTrend looks at the newest third of the history (the whole
// history when shorter than four records) and compares its negative
// share against fixed bounds.
func sentimentTrend(records []models.SentimentRecord, overallPositive float64) string {
	recent := records
	if len(records) > 3 {
		recent = records[:len(records)/3]
	}

	var recentNegative int
	for _, r := range recent {
		if r.Sentiment == models.SentimentNegative {
			recentNegative++
		}
	}
	ratio := float64(recentNegative) / float64(len(recent))

	switch {
	case ratio > 0.6:
		return models.TrendDeclining
	case ratio < 0.2 && overallPositive > 0.4:
		return models.TrendImproving
	default:
		return models.TrendStable
	}
}

// volatility is the population standard deviation of the history mapped
// to {positive:+1, negative:-1, neutral:0}. Undefined below two records.
func volatility(records []models.SentimentRecord) float64 {
	if len(records) < 2 {
		return 0
	}

	values := make([]float64, 0, len(records))
	var sum float64
	for _, r := range records {
		var v float64
		switch r.Sentiment {
		case models.SentimentPositive:
			v = 1
		case models.SentimentNegative:
			v = -1
		}
		values = append(values, v)
		sum += v
	}

	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}

// classifyPattern is a priority cascade: the first matching pattern wins,
// worst outcomes checked first.
func classifyPattern(negRatio, posRatio float64, dominant []string, total int) string {
	switch {
	case negRatio > 0.7 && countIn(dominant, crisisEmotions) >= 2:
		return models.PatternChronicNegative
	case negRatio > 0.6 && total >= 5:
		return models.PatternHighNegative
	case countIn(dominant, anxietyEmotions) >= 2:
		return models.PatternAnxietyFocused
	case countIn(dominant, angerEmotions) >= 2:
		return models.PatternAngerManagement
	case negRatio >= 0.3 && negRatio <= 0.6:
		return models.PatternMixedEmotions
	case posRatio > 0.5:
		return models.PatternPositive
	default:
		return models.PatternGeneral
	}
}

func countIn(dominant []string, set map[string]struct{}) int {
	n := 0
	for _, name := range dominant {
		if _, ok := set[name]; ok {
			n++
		}
	}
	return n
}
