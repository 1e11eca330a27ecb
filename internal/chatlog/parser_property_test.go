package chatlog

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/ravenmoor/chatwell/internal/models"
)

// TestParseNeverPanics throws arbitrary junk at Parse under every format
// hint. Whatever comes back must carry a known format name, known
// platform tags and real timestamps; garbage must never take the parser
// down.
func TestParseNeverPanics(t *testing.T) {
	defer func(prev bool) { Quiet = prev }(Quiet)
	Quiet = true

	// Half-formed stamps and markup, the shapes most likely to trip a
	// pattern that assumes the rest of its line.
	fragments := []string{
		"1/15/2024, 10:30 AM - ",
		"[1/15/2024, 10:30:45",
		"15.01.2024 10:30",
		`{"messages": [`,
		`{"messages": [{"type": "message", "date": "not a date", "from": "A", "text": "x"}]}`,
		"::::",
		"] :",
		"15.01.2024 10:30 - :",
	}
	hints := []string{
		"",
		FormatWhatsApp,
		FormatTelegram,
		FormatDiscord,
		FormatIMessage,
		FormatGeneric,
		FormatUnknown,
	}
	knownFormats := map[string]bool{
		FormatWhatsApp: true,
		FormatTelegram: true,
		FormatDiscord:  true,
		FormatIMessage: true,
		FormatGeneric:  true,
		FormatUnknown:  true,
	}
	knownPlatforms := map[string]bool{
		models.PlatformWhatsApp: true,
		models.PlatformTelegram: true,
		models.PlatformGeneric:  true,
	}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(t, "lines")
		lines := make([]string, 0, n)
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(t, "useFragment") {
				lines = append(lines,
					rapid.SampledFrom(fragments).Draw(t, "fragment")+rapid.String().Draw(t, "suffix"))
			} else {
				lines = append(lines, rapid.String().Draw(t, "line"))
			}
		}
		content := strings.Join(lines, "\n")
		hint := rapid.SampledFrom(hints).Draw(t, "hint")

		msgs, format := Parse(content, hint)

		if hint != "" && format != hint {
			t.Fatalf("format = %q, want the given %q", format, hint)
		}
		if !knownFormats[format] {
			t.Fatalf("unknown format %q", format)
		}
		for _, m := range msgs {
			if !knownPlatforms[m.Platform] {
				t.Fatalf("message carries unknown platform %q", m.Platform)
			}
			if m.Timestamp.IsZero() {
				t.Fatalf("message carries zero timestamp: %+v", m)
			}
		}
	})
}
