package readingplan

import "time"

// PlanType keys into the canonical book tables.
type PlanType string

const (
	PlanWholeBible     PlanType = "whole-bible"
	PlanNewTestament   PlanType = "new-testament"
	PlanOldTestament   PlanType = "old-testament"
	PlanPsalmsProverbs PlanType = "psalms-proverbs"
	PlanGospels        PlanType = "gospels"
)

// ReadingEntry assigns chapters of one book to a day. Chapters is either a
// bare number ("7") or an inclusive span ("3-9").
type ReadingEntry struct {
	Book     string `json:"book"`
	Chapters string `json:"chapters"`
}

// DailyReading is the schedule record for a single day of a plan.
type DailyReading struct {
	Day      int            `json:"day"`
	Date     time.Time      `json:"date"`
	Readings []ReadingEntry `json:"readings"`
}

// Plan is the persisted schedule plus its metadata.
type Plan struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	PlanType     PlanType       `json:"planType"`
	StartDate    time.Time      `json:"startDate"`
	DurationDays int            `json:"durationDays"`
	IsActive     bool           `json:"isActive"`
	Readings     []DailyReading `json:"readings"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// Progress tracks how far a reader is through a plan.
type Progress struct {
	PlanID        string    `json:"planId"`
	CurrentDay    int       `json:"currentDay"`
	CompletedDays []int     `json:"completedDays"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateRequest carries the inputs for plan creation.
type CreateRequest struct {
	Name      string
	PlanType  PlanType
	StartDate time.Time
	EndDate   time.Time
}

// TodayReading is the resolved reading for the current calendar day,
// optionally enriched with passage text.
type TodayReading struct {
	PlanID   string         `json:"planId"`
	Day      int            `json:"day"`
	Date     time.Time      `json:"date"`
	Readings []ReadingEntry `json:"readings"`
	Passages []Passage      `json:"passages,omitempty"`
}

// Passage is fetched scripture text for one reading entry.
type Passage struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}
