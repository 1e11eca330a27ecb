// Package chatlog turns raw chat transcript text into normalized message
// sequences. It recognizes WhatsApp and Telegram export shapes (including
// Telegram Desktop JSON exports) and falls back to a forgiving generic
// "sender: text" parser for everything else. Parsing never fails: lines
// that fit no shape are skipped or merged into the preceding message, and
// unparsable timestamps degrade to the current time with a warning.
package chatlog

import (
	"strings"

	"github.com/ravenmoor/chatwell/internal/models"
)

// detectLines caps how many leading lines DetectFormat inspects.
const detectLines = 20

// DetectFormat inspects the head of a transcript and names its source
// format. Documents with no recognizable per-line shape but a colon
// somewhere in the first five lines are tagged generic; anything else
// is unknown, which Parse still routes through the generic parser.
func DetectFormat(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") && strings.Contains(trimmed, `"messages"`) {
		return FormatTelegram
	}

	lines := strings.Split(trimmed, "\n")
	head := lines
	if len(head) > detectLines {
		head = head[:detectLines]
	}
	for _, line := range head {
		for _, sig := range signatures {
			for _, re := range sig.patterns {
				if re.MatchString(line) {
					return sig.format
				}
			}
		}
	}

	colonHead := lines
	if len(colonHead) > 5 {
		colonHead = colonHead[:5]
	}
	for _, line := range colonHead {
		if strings.Contains(line, ":") {
			return FormatGeneric
		}
	}
	return FormatUnknown
}

// Parse converts transcript text into messages. When format is empty the
// format is detected from the content; the returned string is the format
// actually used. Discord, iMessage and unknown inputs go through the
// generic parser but keep their detected format name so callers can
// report what they saw.
func Parse(content, format string) ([]models.Message, string) {
	if format == "" {
		format = DetectFormat(content)
	}

	switch format {
	case FormatWhatsApp:
		return parseWhatsApp(content), format
	case FormatTelegram:
		if msgs, ok := parseTelegramJSON(content); ok {
			return msgs, format
		}
		return parseTelegram(content), format
	default:
		return parseGeneric(content), format
	}
}
