package devotion

import (
	"fmt"
	"strings"
)

const (
	devotionDays = 30

	// Pages at or below the front matter bound and at or above the back
	// matter bound are publishing apparatus, not devotional content.
	frontMatterMaxPage = 2
	backMatterMinPage  = 100

	minParagraphLen  = 10
	quotedVerseLen   = 50
	longVerseLen     = 100
	minContentLen    = 30
	minReflectionLen = 20
	contentEntries   = 3
	reflectionEntries = 2
)

// themes cycle across the 30 days; assignment is positional, not derived
// from the text.
var themes = []string{
	"Faith",
	"Hope",
	"Love",
	"Grace",
	"Prayer",
	"Forgiveness",
	"Peace",
	"Joy",
	"Strength",
	"Wisdom",
	"Courage",
	"Gratitude",
}

// segment groups the raw pages into up to 30 daily devotions. Days whose
// page group holds no usable paragraphs are skipped, so the result can have
// gaps in the 1..30 sequence.
func segment(pages []RawPage) map[int]ProcessedDevotion {
	window := contentWindow(pages)
	if len(window) == 0 {
		return map[int]ProcessedDevotion{}
	}
	pagesPerDay := (len(window) + devotionDays - 1) / devotionDays

	out := make(map[int]ProcessedDevotion, devotionDays)
	for day := 1; day <= devotionDays; day++ {
		first := (day - 1) * pagesPerDay
		if first >= len(window) {
			break
		}
		last := first + pagesPerDay
		if last > len(window) {
			last = len(window)
		}
		if devotion, ok := buildDevotion(day, window[first:last]); ok {
			out[day] = devotion
		}
	}
	return out
}

// contentWindow drops front matter, back matter, and empty pages.
func contentWindow(pages []RawPage) []RawPage {
	out := make([]RawPage, 0, len(pages))
	for _, page := range pages {
		if page.PageID <= frontMatterMaxPage || page.PageID >= backMatterMinPage {
			continue
		}
		if len(page.Content) == 0 {
			continue
		}
		out = append(out, page)
	}
	return out
}

func buildDevotion(day int, pages []RawPage) (ProcessedDevotion, bool) {
	paragraphs := collectParagraphs(pages)
	if len(paragraphs) == 0 {
		return ProcessedDevotion{}, false
	}

	reference, found := extractReference(strings.Join(paragraphs, " "))
	if !found {
		reference = fmt.Sprintf("Day %d Devotion", day)
	}

	verseIdx := selectVerseText(paragraphs)
	verseText := ""
	if verseIdx >= 0 {
		verseText = paragraphs[verseIdx]
	}

	contentIdx := selectEntries(paragraphs, minContentLen, contentEntries, verseIdx)
	content := joinEntries(paragraphs, contentIdx)

	reflectionIdx := selectEntries(paragraphs, minReflectionLen, reflectionEntries, verseIdx, contentIdx...)
	reflection := joinEntries(paragraphs, reflectionIdx)
	if reflection == "" {
		reflection = content
	}

	theme := themes[(day-1)%len(themes)]
	return ProcessedDevotion{
		Day:               day,
		Title:             fmt.Sprintf("Day %d: %s", day, theme),
		VerseText:         cleanText(verseText),
		VerseReference:    reference,
		DevotionalContent: cleanText(content),
		Reflection:        cleanText(reflection),
		Theme:             theme,
	}, true
}

// collectParagraphs gathers paragraph fragments longer than the noise
// threshold, in page and fragment order.
func collectParagraphs(pages []RawPage) []string {
	var out []string
	for _, page := range pages {
		for _, fragment := range page.Content {
			if fragment.Type != "paragraph" {
				continue
			}
			if len(fragment.Text) > minParagraphLen {
				out = append(out, fragment.Text)
			}
		}
	}
	return out
}

// selectVerseText returns the index of the paragraph most likely to be the
// quoted verse: first one over 50 chars containing a quotation mark, else
// first over 100 chars, else the first paragraph, else -1.
func selectVerseText(paragraphs []string) int {
	for i, p := range paragraphs {
		if len(p) > quotedVerseLen && containsQuote(p) {
			return i
		}
	}
	for i, p := range paragraphs {
		if len(p) > longVerseLen {
			return i
		}
	}
	if len(paragraphs) > 0 {
		return 0
	}
	return -1
}

func containsQuote(text string) bool {
	return strings.ContainsAny(text, `"“”`)
}

// selectEntries picks up to limit paragraph indexes longer than minLen,
// skipping the excluded indexes, in order.
func selectEntries(paragraphs []string, minLen, limit int, exclude int, excludeMore ...int) []int {
	excluded := make(map[int]struct{}, 1+len(excludeMore))
	excluded[exclude] = struct{}{}
	for _, idx := range excludeMore {
		excluded[idx] = struct{}{}
	}
	var out []int
	for i, p := range paragraphs {
		if len(out) >= limit {
			break
		}
		if _, skip := excluded[i]; skip {
			continue
		}
		if len(p) > minLen {
			out = append(out, i)
		}
	}
	return out
}

func joinEntries(paragraphs []string, indexes []int) string {
	if len(indexes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		parts = append(parts, paragraphs[idx])
	}
	return strings.Join(parts, " ")
}
