package chatlog

import (
	"strings"
	"time"

	"github.com/ravenmoor/chatwell/internal/models"
)

// parseGeneric accepts any "sender: text" transcript, with an optional
// leading bracketed timestamp. Lines without a colon are dropped rather
// than merged; the format has no continuation convention to lean on.
// Lines without a timestamp are stamped with the current time, which
// keeps ordering stable under a stable sort but carries no real
// chronology.
func parseGeneric(content string) []models.Message {
	var messages []models.Message

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		var ts time.Time
		var sender, text string
		if m := genericBracket.FindStringSubmatch(line); m != nil {
			ts = parseTimestamp(m[1], "")
			sender, text = m[2], m[3]
		} else if m := genericPlain.FindStringSubmatch(line); m != nil {
			ts = time.Now()
			sender, text = m[1], m[2]
		} else {
			continue
		}

		messages = append(messages, models.Message{
			Timestamp: ts,
			Sender:    strings.TrimSpace(sender),
			Text:      strings.TrimSpace(text),
			Platform:  models.PlatformGeneric,
		})
	}

	return messages
}
