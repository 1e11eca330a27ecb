package analyzer

import (
	"sort"

	"github.com/ravenmoor/chatwell/internal/chatlog"
	"github.com/ravenmoor/chatwell/internal/models"
)

const topEmojis = 10

func emojiStats(msgs []models.Message, order []string) map[string]models.ParticipantEmojiStats {
	out := make(map[string]models.ParticipantEmojiStats, len(order))
	for _, name := range order {
		counts := make(map[string]int)
		var firstSeen []string
		var total, ownMessages int
		for _, m := range msgs {
			if m.Sender != name {
				continue
			}
			ownMessages++
			for _, e := range chatlog.Emojis(m.Text) {
				if _, seen := counts[e]; !seen {
					firstSeen = append(firstSeen, e)
				}
				counts[e]++
				total++
			}
		}

		top := make([]models.EmojiCount, 0, len(firstSeen))
		for _, e := range firstSeen {
			top = append(top, models.EmojiCount{Emoji: e, Count: counts[e]})
		}
		sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
		if len(top) > topEmojis {
			top = top[:topEmojis]
		}

		out[name] = models.ParticipantEmojiStats{
			TotalEmojis:      total,
			UniqueEmojis:     len(firstSeen),
			EmojisPerMessage: round(float64(total)/float64(ownMessages), 2),
			MostUsedEmojis:   top,
		}
	}
	return out
}
