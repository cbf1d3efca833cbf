package devotion

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Service serves the 30-day devotional derived from the OCR page dump.
// The cache lives on the instance and is filled once per lifetime, or again
// after an explicit Refresh.
type Service struct {
	source   PageSource
	store    Store
	logger   *slog.Logger
	cacheTTL time.Duration
	now      func() time.Time

	mu        sync.Mutex
	pages     []RawPage
	devotions map[int]ProcessedDevotion
	loaded    bool
}

// NewService wires up the devotion domain. store may be nil when no shared
// cache is configured.
func NewService(source PageSource, store Store, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		source:   source,
		store:    store,
		logger:   logger.With("component", "devotion.service"),
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Load fetches and segments the page collection. Idempotent: a second call
// without an intervening Refresh is a cache hit. A failed fetch logs, keeps
// any previously cached devotions, and reports false.
func (s *Service) Load(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Service) loadLocked(ctx context.Context) bool {
	if s.loaded {
		return true
	}
	pages, err := s.source.FetchPages(ctx)
	if err != nil {
		s.logger.Error("devotional source fetch failed", "error", err)
		return false
	}
	s.pages = pages
	s.devotions = segment(pages)
	s.loaded = true
	s.logger.Info("devotional content segmented", "pages", len(pages), "devotions", len(s.devotions))

	if s.store != nil {
		for _, devotion := range s.devotions {
			if err := s.store.SaveDevotion(ctx, devotion, s.cacheTTL); err != nil {
				s.logger.Warn("devotion store save failed", "day", devotion.Day, "error", err)
				break
			}
		}
	}
	return true
}

// Refresh clears the cached pages and devotions and reloads from the source.
// When the reload fails the previous cache is restored.
func (s *Service) Refresh(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevPages, prevDevotions, prevLoaded := s.pages, s.devotions, s.loaded
	s.pages = nil
	s.devotions = nil
	s.loaded = false

	if s.loadLocked(ctx) {
		return true
	}
	s.pages, s.devotions, s.loaded = prevPages, prevDevotions, prevLoaded
	return false
}

// DevotionForDay returns the devotion for a day in 1..30, nil outside that
// range or when the day produced no devotion. The first call triggers the
// load; when the source is down a shared store lookup is the fallback.
func (s *Service) DevotionForDay(ctx context.Context, day int) *ProcessedDevotion {
	if day < 1 || day > devotionDays {
		return nil
	}

	s.mu.Lock()
	loaded := s.loadLocked(ctx)
	var (
		devotion ProcessedDevotion
		found    bool
	)
	if loaded {
		devotion, found = s.devotions[day]
	}
	s.mu.Unlock()

	if found {
		return &devotion
	}
	if !loaded && s.store != nil {
		cached, ok, err := s.store.GetDevotion(ctx, day)
		if err != nil {
			s.logger.Warn("devotion store lookup failed", "day", day, "error", err)
			return nil
		}
		if ok {
			return &cached
		}
	}
	return nil
}

// TodaysDevotion maps the calendar day of month onto the 1..30 cycle.
func (s *Service) TodaysDevotion(ctx context.Context) *ProcessedDevotion {
	day := ((s.now().Day() - 1) % devotionDays) + 1
	return s.DevotionForDay(ctx, day)
}

// Search returns every devotion whose title, verse text, content, reflection
// or theme contains the keyword, case-insensitively, in ascending day order.
func (s *Service) Search(ctx context.Context, keyword string) []ProcessedDevotion {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}

	s.mu.Lock()
	if !s.loadLocked(ctx) {
		s.mu.Unlock()
		return nil
	}
	matches := make([]ProcessedDevotion, 0, len(s.devotions))
	for _, devotion := range s.devotions {
		if devotionMatches(devotion, keyword) {
			matches = append(matches, devotion)
		}
	}
	s.mu.Unlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].Day < matches[j].Day })
	return matches
}

func devotionMatches(d ProcessedDevotion, keyword string) bool {
	for _, field := range []string{d.Title, d.VerseText, d.DevotionalContent, d.Reflection, d.Theme} {
		if strings.Contains(strings.ToLower(field), keyword) {
			return true
		}
	}
	return false
}
