package readingplan

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/mannadev/scriptura/pkg/errors"
)

// Service exposes reading plan scheduling and progress tracking.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Plan, error)
	Get(ctx context.Context, id string) (Plan, Progress, error)
	List(ctx context.Context) ([]Plan, error)
	MarkDayComplete(ctx context.Context, id string, day int) (Progress, error)
	TodayReading(ctx context.Context, id string) (TodayReading, error)
}

// PassageClient fetches scripture text for a reference such as "John 3".
type PassageClient interface {
	Passage(ctx context.Context, reference string) (string, error)
}

type service struct {
	repo     Repository
	passages PassageClient
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the reading plan domain.
func NewService(repo Repository, passages PassageClient, logger *slog.Logger) Service {
	return &service{
		repo:     repo,
		passages: passages,
		logger:   logger.With("component", "readingplan.service"),
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Plan, error) {
	if !req.EndDate.After(req.StartDate) {
		return Plan{}, apperrors.Wrap("invalid_input", "end date must be after start date", nil)
	}
	books, ok := BooksFor(req.PlanType)
	if !ok {
		return Plan{}, apperrors.Wrap("plan_not_found", "unknown plan type "+string(req.PlanType), nil)
	}

	readings := Distribute(books, req.StartDate, req.EndDate)
	if len(readings) == 0 {
		return Plan{}, apperrors.Wrap("invalid_input", "date range produced no readings", nil)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = string(req.PlanType)
	}
	plan := Plan{
		ID:           uuid.NewString(),
		Name:         name,
		PlanType:     req.PlanType,
		StartDate:    req.StartDate,
		DurationDays: len(readings),
		IsActive:     true,
		Readings:     readings,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.SavePlan(ctx, plan); err != nil {
		return Plan{}, apperrors.Wrap("plan_error", "failed to persist plan", err)
	}
	progress := Progress{
		PlanID:     plan.ID,
		CurrentDay: 1,
		UpdatedAt:  plan.CreatedAt,
	}
	if err := s.repo.SaveProgress(ctx, progress); err != nil {
		return Plan{}, apperrors.Wrap("plan_error", "failed to initialize progress", err)
	}
	s.logger.Info("plan created", "plan_id", plan.ID, "plan_type", plan.PlanType, "days", plan.DurationDays)
	return plan, nil
}

func (s *service) Get(ctx context.Context, id string) (Plan, Progress, error) {
	plan, found, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, Progress{}, apperrors.Wrap("plan_error", "failed to load plan", err)
	}
	if !found {
		return Plan{}, Progress{}, apperrors.Wrap("plan_not_found", "plan does not exist", nil)
	}
	progress, found, err := s.repo.GetProgress(ctx, id)
	if err != nil {
		return Plan{}, Progress{}, apperrors.Wrap("plan_error", "failed to load progress", err)
	}
	if !found {
		progress = Progress{PlanID: id, CurrentDay: 1}
	}
	return plan, progress, nil
}

func (s *service) List(ctx context.Context) ([]Plan, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, apperrors.Wrap("plan_error", "failed to list plans", err)
	}
	return plans, nil
}

func (s *service) MarkDayComplete(ctx context.Context, id string, day int) (Progress, error) {
	plan, progress, err := s.Get(ctx, id)
	if err != nil {
		return Progress{}, err
	}
	if day < 1 || day > plan.DurationDays {
		return Progress{}, apperrors.Wrap("invalid_input", "day outside plan range", nil)
	}

	progress.CompletedDays = appendDay(progress.CompletedDays, day)
	if next := day + 1; next > progress.CurrentDay {
		if next > plan.DurationDays {
			next = plan.DurationDays
		}
		progress.CurrentDay = next
	}
	progress.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveProgress(ctx, progress); err != nil {
		return Progress{}, apperrors.Wrap("plan_error", "failed to save progress", err)
	}
	return progress, nil
}

func (s *service) TodayReading(ctx context.Context, id string) (TodayReading, error) {
	plan, _, err := s.Get(ctx, id)
	if err != nil {
		return TodayReading{}, err
	}

	day := daysSince(plan.StartDate, s.now()) + 1
	if day < 1 || day > len(plan.Readings) {
		return TodayReading{}, apperrors.Wrap("reading_not_found", "no reading scheduled for today", nil)
	}
	reading := plan.Readings[day-1]

	today := TodayReading{
		PlanID:   plan.ID,
		Day:      reading.Day,
		Date:     reading.Date,
		Readings: reading.Readings,
	}
	if s.passages != nil {
		today.Passages = s.fetchPassages(ctx, reading.Readings)
	}
	return today, nil
}

// fetchPassages is best effort: a failed fetch degrades to the bare schedule.
func (s *service) fetchPassages(ctx context.Context, readings []ReadingEntry) []Passage {
	var out []Passage
	for _, entry := range readings {
		reference := entry.Book + " " + firstChapter(entry.Chapters)
		text, err := s.passages.Passage(ctx, reference)
		if err != nil {
			s.logger.Warn("passage fetch failed", "reference", reference, "error", err)
			continue
		}
		out = append(out, Passage{Reference: reference, Text: text})
	}
	return out
}

func firstChapter(chapters string) string {
	if idx := strings.IndexByte(chapters, '-'); idx > 0 {
		return chapters[:idx]
	}
	return chapters
}

func appendDay(days []int, day int) []int {
	for _, existing := range days {
		if existing == day {
			return days
		}
	}
	days = append(days, day)
	sort.Ints(days)
	return days
}

func daysSince(start, now time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(nowDay.Sub(startDay) / (24 * time.Hour))
}

// ExpandChapters converts a rendered chapter value back into numbers.
// Exposed for consumers that need to re-derive coverage, such as stats.
func ExpandChapters(value string) []int {
	if idx := strings.IndexByte(value, '-'); idx > 0 {
		first, err1 := strconv.Atoi(value[:idx])
		last, err2 := strconv.Atoi(value[idx+1:])
		if err1 != nil || err2 != nil || last < first {
			return nil
		}
		out := make([]int, 0, last-first+1)
		for ch := first; ch <= last; ch++ {
			out = append(out, ch)
		}
		return out
	}
	single, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return []int{single}
}
