package classify

import (
	"context"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ravenmoor/chatwell/internal/models"
)

// Lexicons tuned for casual chat. Hits are counted by substring
// containment, so overlapping entries like thank/thanks can both match
// the same word.
var positiveLexicon = []string{
	"happy", "good", "great", "excellent", "wonderful", "amazing", "love", "joy",
	"excited", "thrilled", "delighted", "pleased", "satisfied", "content",
	"optimistic", "hopeful", "grateful", "blessed", "fantastic", "awesome",
	"nice", "fine", "perfect", "best", "better", "beautiful", "lovely",
	"fun", "enjoy", "glad", "proud", "yay", "yep", "yeah", "cool", "sweet",
	"brilliant", "super", "fabulous", "divine", "splendid", "marvelous",
	"thanks", "thank", "appreciate", "congrats", "congratulations", "celebrate",
	"smile", "laugh", "laughing", "funny", "hilarious", "adorable", "cute",
}

var negativeLexicon = []string{
	"sad", "bad", "terrible", "awful", "hate", "angry", "mad", "furious",
	"depressed", "worried", "anxious", "stressed", "upset", "frustrated",
	"disappointed", "hurt", "pain", "suffer", "horrible", "disgusting",
	"sick", "tired", "exhausted", "annoyed", "irritated", "worst", "worse",
	"sucks", "damn", "hell", "cry", "crying", "miss", "lonely", "alone",
	"difficult", "hard", "tough", "struggle", "problem", "issue", "wrong",
	"fail", "failed", "failure", "broke", "broken", "sorry", "apologize",
	"unfortunately", "sadly", "regret", "wish", "cant", "cannot", "wont",
}

var implicitPositive = []string{
	"feel good", "feeling good", "sounds good", "look forward", "cant wait",
	"can't wait", "so happy", "really good", "went well",
}

var implicitNegative = []string{
	"feel bad", "feeling bad", "not good", "dont like", "don't like",
	"hate it", "so sad", "really bad", "went wrong", "fed up", "had enough",
}

var questionWords = []string{"what", "why", "how", "when"}

// Filler acknowledgements that are neutral on their own.
var casualFillers = map[string]bool{
	"ok": true, "okay": true, "k": true, "yeah": true, "yep": true,
	"nope": true, "hmm": true, "um": true, "uh": true,
}

// Fallback is the deterministic heuristic classifier. It is the
// classifier of record when no remote endpoint is configured, and the
// safety net when one is.
type Fallback struct{}

func (Fallback) Classify(_ context.Context, text string) models.SentimentRecord {
	processed := Preprocess(text)
	emojiSent, emojiConf := emojiSentiment(text)
	penalty := mixedSignalPenalty(text, processed)

	sentiment, confidence, emotions := scoreHeuristics(processed, emojiSent, emojiConf, penalty)

	rec := models.SentimentRecord{
		Sentiment:  sentiment,
		Confidence: confidence,
		Emotions:   emotions,
	}
	if emojiSent != models.SentimentNeutral {
		rec.EmojiSignal = &models.EmojiSignal{Sentiment: emojiSent, Confidence: emojiConf}
	}
	return rec
}

func scoreHeuristics(text, emojiSent string, emojiConf, penalty float64) (string, float64, map[string]float64) {
	lower := strings.TrimSpace(strings.ToLower(text))
	words := strings.Fields(text)

	if len(words) <= 2 && casualFillers[lower] {
		return models.SentimentNeutral, 0.5, map[string]float64{"neutral": 0.5}
	}

	positiveCount := substringHits(lower, positiveLexicon)
	negativeCount := substringHits(lower, negativeLexicon)

	bangs := strings.Count(text, "!")
	queries := strings.Count(text, "?")
	capsRatio := upperRatio(text)

	if containsAny(lower, implicitPositive) {
		positiveCount += 2
	}
	if containsAny(lower, implicitNegative) {
		negativeCount += 2
	}
	// Repeated questions read as confusion or concern.
	if queries >= 2 && containsAny(lower, questionWords) {
		negativeCount++
	}
	if bangs >= 3 {
		positiveCount++
	}
	if capsRatio > 0.5 && len(words) > 2 {
		switch {
		case positiveCount > 0:
			positiveCount++
		case negativeCount > 0:
			negativeCount++
		default:
			// Shouting with no other signal reads negative.
			negativeCount++
		}
	}

	denominator := math.Max(float64(len(words))*0.08, 1)
	positiveScore := float64(positiveCount) / denominator
	negativeScore := float64(negativeCount) / denominator

	var sentiment string
	var confidence float64
	switch {
	case positiveCount > negativeCount:
		sentiment = models.SentimentPositive
		confidence = math.Min(positiveScore, 0.88)
		if positiveCount >= 2 {
			confidence = math.Min(confidence+0.1, 0.92)
		}
	case negativeCount > positiveCount:
		sentiment = models.SentimentNegative
		confidence = math.Min(negativeScore, 0.88)
		if negativeCount >= 2 {
			confidence = math.Min(confidence+0.1, 0.92)
		}
	case positiveCount > 0:
		// Equal non-zero counts pick a side from the score comparison
		// instead of going neutral.
		if positiveScore > negativeScore {
			sentiment = models.SentimentPositive
		} else {
			sentiment = models.SentimentNegative
		}
		confidence = 0.65
	default:
		// No lexicon signal at all. Squeeze the remaining context
		// before conceding neutral.
		if emojiSent != models.SentimentNeutral && emojiConf > 0.4 {
			c := emojiConf * 0.75
			return emojiSent, c, map[string]float64{emojiSent: c}
		}
		if bangs >= 1 && len(words) >= 3 {
			return models.SentimentPositive, 0.58, map[string]float64{"joy": 0.58, "excitement": 0.45}
		}
		if queries >= 2 {
			return models.SentimentNegative, 0.55, map[string]float64{"confusion": 0.55, "concern": 0.45}
		}
		sentiment = models.SentimentNeutral
		confidence = 0.5
	}

	if emojiSent != models.SentimentNeutral {
		if emojiSent == sentiment {
			confidence = math.Min(confidence+emojiConf*0.35, 0.96)
		} else if emojiConf > 0.7 {
			sentiment = emojiSent
			confidence = emojiConf * 0.85
		} else if emojiConf > 0.5 {
			confidence *= 0.85
		}
	}

	confidence = math.Max(confidence-penalty, 0.15)

	return sentiment, confidence, synthesizeEmotions(sentiment, confidence)
}

// synthesizeEmotions backfills an emotion map from the final label; the
// heuristic path has no per-emotion model to draw on.
func synthesizeEmotions(sentiment string, confidence float64) map[string]float64 {
	switch sentiment {
	case models.SentimentPositive:
		return map[string]float64{
			"joy":        confidence * 0.9,
			"optimism":   confidence * 0.7,
			"excitement": confidence * 0.6,
		}
	case models.SentimentNegative:
		return map[string]float64{
			"sadness":     confidence * 0.6,
			"anger":       confidence * 0.5,
			"frustration": confidence * 0.7,
		}
	default:
		return map[string]float64{"neutral": confidence}
	}
}

func substringHits(text string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			n++
		}
	}
	return n
}

func upperRatio(text string) float64 {
	upper := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	total := utf8.RuneCountInString(text)
	if total == 0 {
		total = 1
	}
	return float64(upper) / float64(total)
}
