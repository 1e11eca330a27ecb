package chatlog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ravenmoor/chatwell/internal/models"
)

// Telegram Desktop "Export chat history" JSON shape. Only the fields the
// parser needs are declared; Text is raw because exports encode it either
// as a plain string or as an array of strings and entity objects.
type telegramExport struct {
	Name     string              `json:"name"`
	Messages []telegramExportMsg `json:"messages"`
}

type telegramExportMsg struct {
	Type string          `json:"type"`
	Date string          `json:"date"`
	From string          `json:"from"`
	Text json.RawMessage `json:"text"`
}

// parseTelegramJSON parses a Telegram Desktop JSON export. It reports
// ok=false for anything that is not such an export (wrong shape, no
// usable messages) so the caller can fall through to the plain-text
// Telegram parser. Service messages and entries without a sender or
// text are skipped.
func parseTelegramJSON(content string) ([]models.Message, bool) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}

	var export telegramExport
	if err := json.Unmarshal([]byte(trimmed), &export); err != nil {
		return nil, false
	}
	if len(export.Messages) == 0 {
		return nil, false
	}

	var messages []models.Message
	for _, entry := range export.Messages {
		if entry.Type != "" && entry.Type != "message" {
			continue
		}
		sender := strings.TrimSpace(entry.From)
		text := flattenExportText(entry.Text)
		if sender == "" || text == "" {
			continue
		}

		ts, err := time.ParseInLocation("2006-01-02T15:04:05", entry.Date, time.Local)
		if err != nil {
			ts = parseTimestamp(entry.Date, FormatTelegram)
		}

		messages = append(messages, models.Message{
			Timestamp: ts,
			Sender:    sender,
			Text:      text,
			Platform:  models.PlatformTelegram,
		})
	}
	return messages, len(messages) > 0
}

// flattenExportText folds the export's string-or-entity-array text field
// into plain text, keeping the visible text of entities like links and
// mentions and discarding their markup.
func flattenExportText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return strings.TrimSpace(plain)
	}

	var parts []any
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	var b strings.Builder
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			b.WriteString(v)
		case map[string]any:
			if t, ok := v["text"].(string); ok {
				b.WriteString(t)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
