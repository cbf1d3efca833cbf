package devotion

import "strings"

var quoteReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// cleanText normalizes curly quotes to straight quotes and collapses every
// run of whitespace to a single space.
func cleanText(text string) string {
	text = quoteReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
