package readingplan

import "github.com/mannadev/scriptura/pkg/canon"

// BookChapterCount aliases the canonical table entry type.
type BookChapterCount = canon.Book

var psalmsProverbsBooks = []BookChapterCount{
	{Name: "Psalms", Chapters: 150},
	{Name: "Proverbs", Chapters: 31},
}

// BooksFor resolves a plan type to its ordered book table.
func BooksFor(planType PlanType) ([]BookChapterCount, bool) {
	switch planType {
	case PlanWholeBible:
		return canon.Books, true
	case PlanOldTestament:
		return canon.Books[:39], true
	case PlanNewTestament:
		return canon.Books[39:], true
	case PlanPsalmsProverbs:
		return psalmsProverbsBooks, true
	case PlanGospels:
		return canon.Books[39:43], true
	default:
		return nil, false
	}
}
