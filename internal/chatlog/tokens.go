package chatlog

import (
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

var wordRE = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Words returns the lowercase word tokens of text: maximal runs of
// letters, digits and underscores. This is the token set sentiment
// lexicon lookups operate on.
func Words(text string) []string {
	return wordRE.FindAllString(strings.ToLower(text), -1)
}

// FieldCount counts whitespace-separated fields, the cheap word count
// used by import filters where lexicon tokenization would be overkill.
func FieldCount(text string) int {
	return len(strings.Fields(text))
}

// Emojis returns the emoji grapheme clusters in text, in order of
// appearance. Splitting on grapheme clusters keeps ZWJ sequences,
// skin-tone modifiers and variation selectors together as one emoji
// instead of scattering them into component runes.
func Emojis(text string) []string {
	var out []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if isEmojiCluster(cluster) {
			out = append(out, cluster)
		}
	}
	return out
}

// HasEmoji reports whether text contains at least one emoji cluster.
func HasEmoji(text string) bool {
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if isEmojiCluster(cluster) {
			return true
		}
	}
	return false
}

func isEmojiCluster(cluster string) bool {
	for _, r := range cluster {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}

// isEmojiRune covers the blocks chat emoji actually come from: the
// supplemental pictographs, regional indicator flags, the legacy
// miscellaneous-symbols and dingbats blocks, and the clock/media
// symbols formatted as emoji.
func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r >= 0x231A && r <= 0x23FA:
		return true
	}
	return false
}
