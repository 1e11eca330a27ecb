package chatlog

import (
	"strings"
	"time"

	"github.com/ravenmoor/chatwell/internal/models"
)

// parseTelegram handles the three plain-text Telegram export shapes,
// which may be mixed within one file: inline "date time - Sender: text"
// lines, "[HH:MM:SS] Sender: text" lines (stamped with today's date),
// and block headers "date time Sender" whose message body spans the
// following lines up to the next header. Headerless block bodies with
// no content are dropped.
func parseTelegram(content string) []models.Message {
	var messages []models.Message
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		if m := telegramInline.FindStringSubmatch(line); m != nil {
			messages = append(messages, models.Message{
				Timestamp: parseTimestamp(m[1]+" "+m[2], FormatTelegram),
				Sender:    strings.TrimSpace(m[3]),
				Text:      strings.TrimSpace(m[4]),
				Platform:  models.PlatformTelegram,
			})
			i++
			continue
		}

		if m := telegramBracket.FindStringSubmatch(line); m != nil {
			stamp := time.Now().Format("02.01.2006") + " " + m[1]
			messages = append(messages, models.Message{
				Timestamp: parseTimestamp(stamp, FormatTelegram),
				Sender:    strings.TrimSpace(m[2]),
				Text:      strings.TrimSpace(m[3]),
				Platform:  models.PlatformTelegram,
			})
			i++
			continue
		}

		if m := telegramHeader.FindStringSubmatch(line); m != nil {
			ts := parseTimestamp(m[1]+" "+m[2], FormatTelegram)
			sender := strings.TrimSpace(m[3])

			var body []string
			i++
			for i < len(lines) {
				next := strings.TrimSpace(lines[i])
				if telegramHeader.MatchString(next) || telegramInline.MatchString(next) {
					break
				}
				if next != "" {
					body = append(body, next)
				}
				i++
			}

			if len(body) > 0 {
				messages = append(messages, models.Message{
					Timestamp: ts,
					Sender:    sender,
					Text:      strings.Join(body, "\n"),
					Platform:  models.PlatformTelegram,
				})
			}
			continue
		}

		i++
	}

	return messages
}
