package classify

import (
	"regexp"
	"strings"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	urlRE        = regexp.MustCompile(`https?://(?:[a-zA-Z0-9$-_@.&+!*(),]|%[0-9a-fA-F]{2})+`)
	bangRunRE    = regexp.MustCompile(`!{3,}`)
	queryRunRE   = regexp.MustCompile(`\?{3,}`)
	dotRunRE     = regexp.MustCompile(`\.{3,}`)
)

// Preprocess normalizes message text before scoring: whitespace collapsed,
// URLs removed, punctuation runs capped at three so "!!!!!!" weighs the
// same as "!!!".
func Preprocess(text string) string {
	text = whitespaceRE.ReplaceAllString(strings.TrimSpace(text), " ")
	text = urlRE.ReplaceAllString(text, "")
	text = bangRunRE.ReplaceAllString(text, "!!!")
	text = queryRunRE.ReplaceAllString(text, "???")
	text = dotRunRE.ReplaceAllString(text, "...")
	return text
}
