package classify

import (
	"github.com/ravenmoor/chatwell/internal/chatlog"
	"github.com/ravenmoor/chatwell/internal/models"
)

// Emoji sentiment weights. Keys are grapheme clusters as they appear in
// message text, so variation-selector forms must match exactly; a bare
// heart without VS16 scores nothing, same as any unlisted emoji.
var positiveEmojiWeights = map[string]float64{
	"😊": 0.8, "😄": 0.9, "😃": 0.8, "😀": 0.7, "🙂": 0.6, "😉": 0.7,
	"😍": 0.9, "🥰": 0.9, "😘": 0.8, "😗": 0.7, "☺️": 0.8, "🤗": 0.8,
	"🤩": 0.9, "😇": 0.8, "😋": 0.7, "😎": 0.8, "🥳": 0.9, "🎉": 0.8,
	"❤️": 0.9, "💕": 0.8, "💖": 0.9, "💗": 0.8, "🌟": 0.7, "✨": 0.7,
	"👍": 0.7, "👏": 0.8, "🙌": 0.8, "💪": 0.7, "🔥": 0.8, "💯": 0.8,
}

var negativeEmojiWeights = map[string]float64{
	"😢": 0.8, "😭": 0.9, "😔": 0.7, "😞": 0.7, "😟": 0.6, "😕": 0.6,
	"☹️": 0.7, "🙁": 0.6, "😤": 0.7, "😠": 0.8, "😡": 0.9, "🤬": 0.9,
	"😰": 0.8, "😨": 0.8, "😱": 0.9, "😖": 0.7, "😣": 0.7, "😫": 0.8,
	"😩": 0.8, "🥺": 0.7, "😪": 0.6, "😴": 0.5, "🤒": 0.7, "🤕": 0.7,
	"💔": 0.9, "😿": 0.8, "👎": 0.7, "💀": 0.8, "😵": 0.8,
}

// emojiSentiment reads the emoji-only tone of a message. Every occurrence
// counts, weighted by the tables above. No scored emojis means neutral
// with zero confidence; an exact positive/negative tie means neutral at
// 0.5. Otherwise the winning side's weight share is the confidence.
func emojiSentiment(text string) (string, float64) {
	var positive, negative, total float64
	for _, cluster := range chatlog.Emojis(text) {
		if w, ok := positiveEmojiWeights[cluster]; ok {
			positive += w
			total += w
		} else if w, ok := negativeEmojiWeights[cluster]; ok {
			negative += w
			total += w
		}
	}
	if total == 0 {
		return models.SentimentNeutral, 0
	}
	if positive > negative {
		return models.SentimentPositive, positive / total
	}
	if negative > positive {
		return models.SentimentNegative, negative / total
	}
	return models.SentimentNeutral, 0.5
}
