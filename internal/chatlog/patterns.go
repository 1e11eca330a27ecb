package chatlog

import (
	"regexp"
)

// Format identifiers returned by DetectFormat. Discord and iMessage
// transcripts are recognized as such but routed through the generic
// parser, so stored messages only ever carry the whatsapp, telegram or
// generic platform tag.
const (
	FormatWhatsApp = "whatsapp"
	FormatTelegram = "telegram"
	FormatDiscord  = "discord"
	FormatIMessage = "imessage"
	FormatGeneric  = "generic"
	FormatUnknown  = "unknown"
)

// formatSignature ties a source format to the line shapes that identify it.
type formatSignature struct {
	format   string
	patterns []*regexp.Regexp
}

// signatures is the detection cascade. For each inspected line the
// signatures are tried in this order and the first hit tags the whole
// document; new formats are added here, not as new branching logic.
var signatures = []formatSignature{
	{FormatWhatsApp, []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{2,4},?\s+\d{1,2}:\d{2}\s*[AP]?M?\s*-\s*`),
		regexp.MustCompile(`\[\d{1,2}/\d{1,2}/\d{2,4},?\s+\d{1,2}:\d{2}:\d{2}\s*[AP]?M?\]`),
	}},
	{FormatTelegram, []*regexp.Regexp{
		regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}\s+\d{2}:\d{2}\s+[A-Za-z]`),
		regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}\s+\d{2}:\d{2}\s*-`),
		regexp.MustCompile(`\[\d{2}:\d{2}:\d{2}\]`),
	}},
	{FormatDiscord, []*regexp.Regexp{
		regexp.MustCompile(`\[.*?\]\s+\d{1,2}-\w{3}-\d{2}\s+\d{1,2}:\d{2}\s+[AP]M`),
	}},
	{FormatIMessage, []*regexp.Regexp{
		regexp.MustCompile(`\[\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\]`),
	}},
}

// WhatsApp line shapes, tried in order. The first two capture
// date/time/meridiem/sender/text, the ISO form has no meridiem group.
var whatsappPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),?\s+(\d{1,2}:\d{2})\s*([AP]M)?\s*-\s*([^:]+):\s*(.+)`),
	regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{2,4}),?\s+(\d{1,2}:\d{2}:\d{2})\s*([AP]M)?\]\s*([^:]+):\s*(.+)`),
	regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+(\d{2}:\d{2}:\d{2})\s*-\s*([^:]+):\s*(.+)`),
}

// Telegram sub-formats. The inline shape must be tried before the block
// header: a header pattern broad enough to match "date time <anything>"
// would swallow inline lines and emit empty-bodied messages.
var (
	telegramInline  = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})\s+(\d{2}:\d{2})\s*-\s*([^:]+):\s*(.+)`)
	telegramBracket = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2})\]\s*([^:]+):\s*(.+)`)
	telegramHeader  = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})\s+(\d{2}:\d{2})\s+(.+)`)
)

// Generic per-line shapes: an optional bracketed timestamp, then
// "sender: text" where the sender is everything before the first colon.
var (
	genericBracket = regexp.MustCompile(`^\[([^\]]+)\]\s*([^:]+):\s*(.+)`)
	genericPlain   = regexp.MustCompile(`^([^:]+):\s*(.+)`)
)
