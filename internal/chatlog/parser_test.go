package chatlog

import (
	"strings"
	"testing"

	"github.com/ravenmoor/chatwell/internal/models"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "WhatsApp inline",
			content:  "1/15/2024, 10:30 AM - Alice: Hey, how are you?",
			expected: FormatWhatsApp,
		},
		{
			name:     "WhatsApp bracketed",
			content:  "[1/15/2024, 10:30:45 AM] Alice: Hey!",
			expected: FormatWhatsApp,
		},
		{
			name:     "Telegram block header",
			content:  "15.01.2024 10:30 Alice\nHello there",
			expected: FormatTelegram,
		},
		{
			name:     "Telegram inline",
			content:  "15.01.2024 10:30 - Alice: Hello",
			expected: FormatTelegram,
		},
		{
			name:     "Telegram bracketed time",
			content:  "[10:30:45] Alice: Hello",
			expected: FormatTelegram,
		},
		{
			name:     "Telegram desktop JSON export",
			content:  `{"name": "Alice", "messages": [{"type": "message", "date": "2024-01-15T10:30:00", "from": "Alice", "text": "hi"}]}`,
			expected: FormatTelegram,
		},
		{
			name:     "Discord",
			content:  "[general] 15-Jan-24 10:30 AM\nJohn: hello",
			expected: FormatDiscord,
		},
		{
			name:     "iMessage",
			content:  "[2024-01-15 10:30:45] Alice: hi",
			expected: FormatIMessage,
		},
		{
			name:     "generic colon transcript",
			content:  "Alice: hello\nBob: hi",
			expected: FormatGeneric,
		},
		{
			name:     "unknown prose",
			content:  "just some text\nwith no structure at all",
			expected: FormatUnknown,
		},
		{
			name:     "signature beyond first lines still detected",
			content:  "chat export\nbetween two people\n\n1/15/2024, 10:30 AM - Alice: Hey",
			expected: FormatWhatsApp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.content); got != tt.expected {
				t.Errorf("DetectFormat = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParseWhatsApp(t *testing.T) {
	content := "1/15/2024, 10:30 AM - Alice: Hey, how are you?\n" +
		"1/15/2024, 10:32 AM - Bob: Good thanks! You?"

	messages, format := Parse(content, "")
	if format != FormatWhatsApp {
		t.Fatalf("expected format %q, got %q", FormatWhatsApp, format)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	if messages[0].Sender != "Alice" || messages[1].Sender != "Bob" {
		t.Errorf("expected senders Alice/Bob, got %q/%q", messages[0].Sender, messages[1].Sender)
	}
	if messages[0].Text != "Hey, how are you?" {
		t.Errorf("unexpected first text %q", messages[0].Text)
	}
	if messages[0].Platform != models.PlatformWhatsApp {
		t.Errorf("expected platform %q, got %q", models.PlatformWhatsApp, messages[0].Platform)
	}

	ts := messages[0].Timestamp
	if ts.Year() != 2024 || ts.Month() != 1 || ts.Day() != 15 || ts.Hour() != 10 || ts.Minute() != 30 {
		t.Errorf("unexpected timestamp %v", ts)
	}
	if !messages[1].Timestamp.After(messages[0].Timestamp) {
		t.Errorf("expected second message after first")
	}
}

func TestParseWhatsAppContinuation(t *testing.T) {
	content := "1/15/2024, 10:30 AM - Alice: First line\n" +
		"second line\n" +
		"third line\n" +
		"1/15/2024, 10:35 AM - Bob: Reply"

	messages, _ := Parse(content, FormatWhatsApp)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	want := "First line\nsecond line\nthird line"
	if messages[0].Text != want {
		t.Errorf("expected merged text %q, got %q", want, messages[0].Text)
	}
}

func TestParseWhatsAppVariants(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		sender string
		text   string
	}{
		{
			name:   "bracketed with seconds",
			line:   "[1/15/2024, 10:30:45 AM] Alice: hello",
			sender: "Alice",
			text:   "hello",
		},
		{
			name:   "ISO dashed",
			line:   "2024-01-15 10:30:45 - Bob: hi there",
			sender: "Bob",
			text:   "hi there",
		},
		{
			name:   "24 hour without meridiem",
			line:   "15/1/2024, 22:30 - Carol: evening",
			sender: "Carol",
			text:   "evening",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages, _ := Parse(tt.line, FormatWhatsApp)
			if len(messages) != 1 {
				t.Fatalf("expected 1 message, got %d", len(messages))
			}
			if messages[0].Sender != tt.sender {
				t.Errorf("expected sender %q, got %q", tt.sender, messages[0].Sender)
			}
			if messages[0].Text != tt.text {
				t.Errorf("expected text %q, got %q", tt.text, messages[0].Text)
			}
		})
	}
}

func TestParseTelegramBlocks(t *testing.T) {
	content := "15.01.2024 10:30 Alice\n" +
		"Hello there\n" +
		"How are you?\n" +
		"\n" +
		"15.01.2024 10:45 Bob\n" +
		"Good thanks"

	messages, format := Parse(content, "")
	if format != FormatTelegram {
		t.Fatalf("expected format %q, got %q", FormatTelegram, format)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	if messages[0].Sender != "Alice" {
		t.Errorf("expected sender Alice, got %q", messages[0].Sender)
	}
	if messages[0].Text != "Hello there\nHow are you?" {
		t.Errorf("unexpected block body %q", messages[0].Text)
	}
	if messages[1].Text != "Good thanks" {
		t.Errorf("unexpected second body %q", messages[1].Text)
	}

	ts := messages[0].Timestamp
	if ts.Day() != 15 || ts.Month() != 1 || ts.Year() != 2024 || ts.Hour() != 10 {
		t.Errorf("unexpected timestamp %v", ts)
	}
}

func TestParseTelegramInlineNotSwallowedByBlock(t *testing.T) {
	content := "15.01.2024 10:30 - Alice: Inline hello\n" +
		"15.01.2024 10:45 Bob\n" +
		"Block reply"

	messages, _ := Parse(content, FormatTelegram)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != "Inline hello" {
		t.Errorf("expected inline text preserved, got %q", messages[0].Text)
	}
	if messages[1].Sender != "Bob" || messages[1].Text != "Block reply" {
		t.Errorf("unexpected second message %q: %q", messages[1].Sender, messages[1].Text)
	}
}

func TestParseTelegramBracketTimes(t *testing.T) {
	content := "[10:30:45] Alice: morning\n[10:31:02] Bob: hey"

	messages, _ := Parse(content, FormatTelegram)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Sender != "Alice" || messages[0].Text != "morning" {
		t.Errorf("unexpected first message %q: %q", messages[0].Sender, messages[0].Text)
	}

	// Bracket-only stamps borrow today's date.
	ts := messages[0].Timestamp
	if ts.Hour() != 10 || ts.Minute() != 30 || ts.Second() != 45 {
		t.Errorf("unexpected time of day %v", ts)
	}
}

func TestParseTelegramDesktopExport(t *testing.T) {
	content := `{
		"name": "Alice",
		"type": "personal_chat",
		"messages": [
			{"id": 1, "type": "message", "date": "2024-01-15T10:30:00", "from": "Alice", "text": "plain hello"},
			{"id": 2, "type": "service", "date": "2024-01-15T10:31:00", "action": "pin_message"},
			{"id": 3, "type": "message", "date": "2024-01-15T10:32:00", "from": "Bob", "text": ["check ", {"type": "link", "text": "https://example.com"}, " out"]}
		]
	}`

	messages, format := Parse(content, "")
	if format != FormatTelegram {
		t.Fatalf("expected format %q, got %q", FormatTelegram, format)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages (service entry skipped), got %d", len(messages))
	}

	if messages[0].Text != "plain hello" {
		t.Errorf("unexpected first text %q", messages[0].Text)
	}
	if messages[1].Text != "check https://example.com out" {
		t.Errorf("expected flattened entity text, got %q", messages[1].Text)
	}
	if messages[0].Timestamp.Year() != 2024 || messages[0].Timestamp.Hour() != 10 {
		t.Errorf("unexpected timestamp %v", messages[0].Timestamp)
	}
}

func TestParseGeneric(t *testing.T) {
	content := "[2024-01-15 10:30] Alice: Hello\n" +
		"Bob: Hi back\n" +
		"a line with no speaker marker at all"

	messages, format := Parse(content, "")
	if format != FormatGeneric {
		t.Fatalf("expected format %q, got %q", FormatGeneric, format)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	if messages[0].Sender != "Alice" || messages[0].Text != "Hello" {
		t.Errorf("unexpected bracketed message %q: %q", messages[0].Sender, messages[0].Text)
	}
	if messages[0].Timestamp.Year() != 2024 || messages[0].Timestamp.Minute() != 30 {
		t.Errorf("unexpected parsed timestamp %v", messages[0].Timestamp)
	}
	if messages[1].Sender != "Bob" {
		t.Errorf("expected sender Bob, got %q", messages[1].Sender)
	}
	if messages[0].Platform != models.PlatformGeneric {
		t.Errorf("expected platform %q, got %q", models.PlatformGeneric, messages[0].Platform)
	}
}

func TestParseUnknownFallsBackToGeneric(t *testing.T) {
	defer func(prev bool) { Quiet = prev }(Quiet)
	Quiet = true

	content := strings.Join([]string{
		"no structure here",
		"none here either",
		"still nothing",
		"or here",
		"or even here",
		"Alice: finally a message",
	}, "\n")

	messages, format := Parse(content, "")
	if format != FormatUnknown {
		t.Fatalf("expected format %q, got %q", FormatUnknown, format)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Sender != "Alice" {
		t.Errorf("expected sender Alice, got %q", messages[0].Sender)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, content := range []string{"", "   \n\n  "} {
		messages, _ := Parse(content, "")
		if len(messages) != 0 {
			t.Errorf("expected no messages for %q, got %d", content, len(messages))
		}
	}
}
