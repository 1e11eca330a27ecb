package chatlog

import (
	"log"
	"strings"
	"time"
	"unicode"
)

// Quiet suppresses parser warnings. The CLI flips it for machine-readable
// output modes so warnings never interleave with JSON on stderr capture.
var Quiet bool

// timestampLayouts is the cascade tried against every extracted timestamp
// string, most common export shapes first. Bare time-of-day layouts sit
// last; they yield year-zero dates but keep intra-day ordering intact.
var timestampLayouts = []string{
	"1/2/2006, 3:04 PM",
	"1/2/2006 3:04 PM",
	"1/2/06, 3:04 PM",
	"1/2/06 3:04 PM",
	"2/1/2006, 15:04",
	"2/1/2006 15:04",
	"2006-01-02 15:04:05",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/06 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/06 15:04:05",
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"2006-01-02 15:04",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"15:04:05",
	"15:04",
}

// parseTimestamp resolves a raw timestamp string in local time. A format
// hint moves that format's preferred layout to the front so ambiguous
// day/month strings resolve the way the source platform writes them. On
// failure the string is stripped of decoration and retried; the last
// resort is the current time plus a logged warning, never an error.
func parseTimestamp(raw, hint string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now()
	}

	layouts := timestampLayouts
	switch hint {
	case FormatTelegram:
		layouts = append([]string{"2.1.2006 15:04"}, layouts...)
	case FormatWhatsApp:
		layouts = append([]string{"1/2/2006, 3:04 PM"}, layouts...)
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t
		}
	}

	if clean := stripTimestampNoise(raw); clean != raw {
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, clean, time.Local); err == nil {
				return t
			}
		}
	}

	warnf("could not parse timestamp %q, using current time", raw)
	return time.Now()
}

// stripTimestampNoise drops everything except word characters, spacing,
// colons and slashes, salvaging strings wrapped in stray punctuation or
// decoration. Commas are dropped too, which is why the layout cascade
// carries comma-less variants of every comma-bearing layout.
func stripTimestampNoise(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			return r
		case r == '_' || r == ':' || r == '/':
			return r
		}
		return -1
	}, s))
}

func warnf(format string, args ...any) {
	if Quiet {
		return
	}
	log.Printf("chatlog: "+format, args...)
}
