package devotion

import (
	"strconv"
	"strings"

	"github.com/mannadev/scriptura/pkg/canon"
)

// bookLookup maps lowercased canonical names to their display form. Names
// span one to three words ("John", "1 John", "Song of Solomon"), so the
// scanner tries the longest span first at every position.
var (
	bookLookup   = buildBookLookup()
	maxBookWords = 3
)

func buildBookLookup() map[string]string {
	lookup := make(map[string]string, len(canon.Books))
	for _, name := range canon.Names() {
		lookup[strings.ToLower(name)] = name
	}
	return lookup
}

// extractReference scans text for the first "<book> <chapter>:<verse>" or
// "<book> <chapter>:<verse>-<verse>" occurrence against the canonical name
// table. Tokenized lookup instead of one 66-way regex alternation.
func extractReference(text string) (string, bool) {
	words := strings.Fields(text)
	for i := range words {
		for span := maxBookWords; span >= 1; span-- {
			if i+span >= len(words) {
				continue
			}
			key := strings.ToLower(strings.Join(words[i:i+span], " "))
			name, ok := bookLookup[key]
			if !ok {
				continue
			}
			if ref, ok := parseChapterVerse(words[i+span]); ok {
				return name + " " + ref, true
			}
		}
	}
	return "", false
}

// parseChapterVerse accepts "3:16", "3:16-17", and the same with trailing
// punctuation left over from prose.
func parseChapterVerse(token string) (string, bool) {
	token = strings.TrimRight(token, ".,;:!?)\"'")
	colon := strings.IndexByte(token, ':')
	if colon <= 0 || colon == len(token)-1 {
		return "", false
	}
	chapter := token[:colon]
	verses := token[colon+1:]
	if !isDigits(chapter) {
		return "", false
	}
	first, rest, hasRange := strings.Cut(verses, "-")
	if !isDigits(first) {
		return "", false
	}
	if hasRange && !isDigits(rest) {
		return "", false
	}
	return token, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}
