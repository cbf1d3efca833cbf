package readingplan

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mannadev/scriptura/pkg/util"
)

// Distribute spreads the chapters of the given book table evenly across the
// date range. The daily quota is ceil(totalChapters/totalDays), fixed up
// front. Emission stops once the book table is exhausted, so the result may
// cover fewer days than the range when the quota overshoots.
func Distribute(books []BookChapterCount, start, end time.Time) []DailyReading {
	totalDays := util.DaysBetween(start, end)
	if totalDays <= 0 || len(books) == 0 {
		return nil
	}

	totalChapters := 0
	for _, book := range books {
		totalChapters += book.Chapters
	}
	if totalChapters == 0 {
		return nil
	}
	chaptersPerDay := (totalChapters + totalDays - 1) / totalDays

	var (
		out         []DailyReading
		bookIdx     int
		nextChapter = 1
	)
	for day := 1; day <= totalDays && bookIdx < len(books); day++ {
		reading := DailyReading{
			Day:  day,
			Date: start.AddDate(0, 0, day-1),
		}
		quota := chaptersPerDay
		for quota > 0 && bookIdx < len(books) {
			book := books[bookIdx]
			left := book.Chapters - nextChapter + 1
			take := quota
			if left < take {
				take = left
			}
			lastChapter := nextChapter + take - 1
			reading.Readings = append(reading.Readings, ReadingEntry{
				Book:     book.Name,
				Chapters: formatChapters(nextChapter, lastChapter),
			})
			quota -= take
			if lastChapter == book.Chapters {
				bookIdx++
				nextChapter = 1
			} else {
				nextChapter = lastChapter + 1
			}
		}
		out = append(out, reading)
	}
	return out
}

func formatChapters(first, last int) string {
	if first == last {
		return strconv.Itoa(first)
	}
	return fmt.Sprintf("%d-%d", first, last)
}
