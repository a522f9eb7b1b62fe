package speech

import (
	"regexp"
	"strings"
)

// starGlyph is U+2B50 followed by the emoji presentation selector U+FE0F.
const starGlyph = "⭐️"

var (
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	heading2Re  = regexp.MustCompile(`##(.*?)\n`)
	heading1Re  = regexp.MustCompile(`#(.*?)\n`)
	listItemRe  = regexp.MustCompile(`\* (.*?)\n`)
	linkRe      = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	symbolsRepl = strings.NewReplacer("|", ", ", "-", " ", "`", "")
)

// NormalizeForSpeech rewrites markdown review text into something a TTS
// engine reads naturally. It is a fixed sequence of substitutions, not a
// markdown parser: nested or malformed markup comes out mangled.
// Each star glyph becomes "star " on its own; runs are not counted.
func NormalizeForSpeech(text string) string {
	text = boldRe.ReplaceAllString(text, "${1}")
	text = heading2Re.ReplaceAllString(text, "${1}. ")
	text = heading1Re.ReplaceAllString(text, "${1}. ")
	text = listItemRe.ReplaceAllString(text, "${1}. ")
	text = linkRe.ReplaceAllString(text, "${1}")
	text = strings.ReplaceAll(text, starGlyph, "star ")
	return symbolsRepl.Replace(text)
}
