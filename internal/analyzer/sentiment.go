package analyzer

import (
	"github.com/ravenmoor/chatwell/internal/chatlog"
	"github.com/ravenmoor/chatwell/internal/models"
)

// Conversation-local sentiment lexicon. Deliberately small: this split is
// a structural signal feeding the analysis view, independent of the
// external classifier that scores individual messages for tracking.
var (
	positiveWords = wordSet(
		"love", "happy", "great", "good", "excellent", "wonderful",
		"amazing", "awesome", "fantastic", "perfect", "best", "beautiful",
		"thanks", "thank", "appreciate", "joy", "excited", "glad",
		"pleased", "delighted", "brilliant", "yay", "haha", "lol",
		"lmao", "cool", "nice", "sweet", "fun",
	)
	negativeWords = wordSet(
		"hate", "sad", "bad", "terrible", "awful", "horrible",
		"worst", "angry", "mad", "upset", "annoyed", "frustrated",
		"disappointed", "sorry", "difficult", "hard", "problem", "issue",
		"wrong", "fail", "failed", "suck", "sucks", "damn",
		"hell", "fuck", "shit", "stupid", "dumb", "boring", "bored",
	)
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// classifyMessage labels one message by lexicon hit counts. Whichever
// count is strictly greater wins; equal counts (including zero-zero) are
// neutral.
func classifyMessage(text string) string {
	var pos, neg int
	for _, word := range chatlog.Words(text) {
		if _, ok := positiveWords[word]; ok {
			pos++
		}
		if _, ok := negativeWords[word]; ok {
			neg++
		}
	}
	switch {
	case pos > neg:
		return models.SentimentPositive
	case neg > pos:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func sentimentAnalysis(msgs []models.Message, order []string) map[string]models.ParticipantSentiment {
	type tally struct{ pos, neg, neu int }
	tallies := make(map[string]*tally, len(order))
	for _, name := range order {
		tallies[name] = &tally{}
	}

	for _, m := range msgs {
		t := tallies[m.Sender]
		switch classifyMessage(m.Text) {
		case models.SentimentPositive:
			t.pos++
		case models.SentimentNegative:
			t.neg++
		default:
			t.neu++
		}
	}

	out := make(map[string]models.ParticipantSentiment, len(order))
	for _, name := range order {
		t := tallies[name]
		total := float64(t.pos + t.neg + t.neu)
		out[name] = models.ParticipantSentiment{
			PositiveMessages: t.pos,
			NegativeMessages: t.neg,
			NeutralMessages:  t.neu,
			PositiveRatio:    round(float64(t.pos)/total, 3),
			NegativeRatio:    round(float64(t.neg)/total, 3),
			NeutralRatio:     round(float64(t.neu)/total, 3),
		}
	}
	return out
}
