package chunker

import (
	"strings"
	"unicode/utf8"
)

// minContentRunes is the threshold below which cleaned text is treated
// as having no content.
const minContentRunes = 10

// nbsp maps non-breaking space variants to ordinary spaces so they do
// not survive whitespace collapsing as word glue.
var nbsp = strings.NewReplacer(
	" ", " ", // no-break space
	" ", " ", // narrow no-break space
	" ", " ", // figure space
)

// Normalize collapses all whitespace runs in raw to single spaces and
// trims the ends. Text that cleans down to fewer than 10 characters is
// returned as the empty string: callers treat empty as "no content",
// never as an error.
func Normalize(raw string) string {
	cleaned := strings.Join(strings.Fields(nbsp.Replace(raw)), " ")
	if utf8.RuneCountInString(cleaned) < minContentRunes {
		return ""
	}
	return cleaned
}
