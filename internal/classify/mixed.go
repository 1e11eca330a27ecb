package classify

import (
	"regexp"
	"strings"

	"github.com/ravenmoor/chatwell/internal/models"
)

// Phrases that hedge or pivot mid-message. Each one found adds 0.2 to
// the mixed-signal score.
var mixedSignalREs = []*regexp.Regexp{
	regexp.MustCompile(`\bbut\b`),
	regexp.MustCompile(`\bhowever\b`),
	regexp.MustCompile(`\balthough\b`),
	regexp.MustCompile(`\bthough\b`),
	regexp.MustCompile(`\bon the other hand\b`),
	regexp.MustCompile(`\bmixed feelings?\b`),
	regexp.MustCompile(`\bconfused\b`),
	regexp.MustCompile(`\bdont know\b`),
	regexp.MustCompile(`\bunsure\b`),
	regexp.MustCompile(`\bmaybe\b`),
	regexp.MustCompile(`\bperhaps\b`),
}

var (
	contrastPositive = []string{"happy", "good", "great", "excellent", "wonderful", "amazing", "love", "joy"}
	contrastNegative = []string{"sad", "bad", "terrible", "awful", "hate", "angry", "depressed", "worried"}
)

// mixedSignalPenalty estimates how conflicted a message is, 0 to 0.5.
// The result is subtracted from classification confidence: a message
// that says two things at once deserves a less certain label.
func mixedSignalPenalty(original, processed string) float64 {
	lower := strings.ToLower(processed)

	score := 0.0
	for _, re := range mixedSignalREs {
		if re.MatchString(lower) {
			score += 0.2
		}
	}

	if containsAny(lower, contrastPositive) && containsAny(lower, contrastNegative) {
		score += 0.3
	}

	// Emojis alongside hedging language push the score a little further.
	if sentiment, _ := emojiSentiment(original); sentiment != models.SentimentNeutral && score > 0 {
		score += 0.1
	}

	if score > 0.5 {
		return 0.5
	}
	return score
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
