package chatlog

import (
	"strings"

	"github.com/ravenmoor/chatwell/internal/models"
)

// parseWhatsApp walks the transcript with an accumulator: a line matching
// any WhatsApp shape flushes the in-flight message and starts a new one,
// any other non-empty line is a continuation appended to the current text
// with a newline. The trailing message is flushed at end of input.
func parseWhatsApp(content string) []models.Message {
	var messages []models.Message
	var current *models.Message

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		matched := false
		for _, re := range whatsappPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if current != nil {
				messages = append(messages, *current)
			}

			var stamp, sender, text string
			if len(m) == 6 {
				stamp = m[1] + " " + m[2]
				if m[3] != "" {
					stamp += " " + m[3]
				}
				sender, text = m[4], m[5]
			} else {
				stamp = m[1] + " " + m[2]
				sender, text = m[3], m[4]
			}

			current = &models.Message{
				Timestamp: parseTimestamp(stamp, FormatWhatsApp),
				Sender:    strings.TrimSpace(sender),
				Text:      strings.TrimSpace(text),
				Platform:  models.PlatformWhatsApp,
			}
			matched = true
			break
		}

		if !matched && current != nil {
			current.Text += "\n" + line
		}
	}

	if current != nil {
		messages = append(messages, *current)
	}
	return messages
}
