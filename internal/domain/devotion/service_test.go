package devotion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu      sync.Mutex
	pages   []RawPage
	err     error
	fetches int
}

func (s *stubSource) FetchPages(context.Context) ([]RawPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.pages, nil
}

func (s *stubSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

type stubStore struct {
	mu        sync.Mutex
	devotions map[int]ProcessedDevotion
	saves     int
}

func newStubStore() *stubStore {
	return &stubStore{devotions: make(map[int]ProcessedDevotion)}
}

func (s *stubStore) GetDevotion(_ context.Context, day int) (ProcessedDevotion, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	devotion, ok := s.devotions[day]
	return devotion, ok, nil
}

func (s *stubStore) SaveDevotion(_ context.Context, devotion ProcessedDevotion, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devotions[devotion.Day] = devotion
	s.saves++
	return nil
}

func thirtyPages() []RawPage {
	pages := make([]RawPage, 0, 30)
	for i := 0; i < 30; i++ {
		pages = append(pages, page(i+3, longText("Trust in the Lord with all your heart.", 120)))
	}
	return pages
}

func newTestService(source PageSource, store Store) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(source, store, time.Hour, logger)
}

func TestServiceLoadIsIdempotent(t *testing.T) {
	source := &stubSource{pages: thirtyPages()}
	svc := newTestService(source, nil)

	require.True(t, svc.Load(context.Background()))
	require.True(t, svc.Load(context.Background()))
	require.Equal(t, 1, source.fetchCount())
}

func TestServiceDevotionForDayBounds(t *testing.T) {
	source := &stubSource{pages: thirtyPages()}
	svc := newTestService(source, nil)

	require.Nil(t, svc.DevotionForDay(context.Background(), 0))
	require.Nil(t, svc.DevotionForDay(context.Background(), 31))
	require.Nil(t, svc.DevotionForDay(context.Background(), -4))

	devotion := svc.DevotionForDay(context.Background(), 1)
	require.NotNil(t, devotion)
	require.Equal(t, 1, devotion.Day)

	devotion = svc.DevotionForDay(context.Background(), 30)
	require.NotNil(t, devotion)
	require.Equal(t, 30, devotion.Day)
}

func TestServiceTodaysDevotionWrapsMonth(t *testing.T) {
	source := &stubSource{pages: thirtyPages()}
	svc := newTestService(source, nil)

	cases := []struct {
		calendarDay int
		wantDay     int
	}{
		{1, 1},
		{15, 15},
		{30, 30},
		{31, 1},
	}
	for _, tc := range cases {
		svc.now = func() time.Time {
			return time.Date(2026, time.January, tc.calendarDay, 12, 0, 0, 0, time.UTC)
		}
		devotion := svc.TodaysDevotion(context.Background())
		require.NotNil(t, devotion, "calendar day %d", tc.calendarDay)
		require.Equal(t, tc.wantDay, devotion.Day, "calendar day %d", tc.calendarDay)
	}
}

func TestServiceLoadFailureFallsBackToStore(t *testing.T) {
	store := newStubStore()
	store.devotions[4] = ProcessedDevotion{Day: 4, Title: "Day 4: Grace", Theme: "Grace"}

	source := &stubSource{err: errors.New("bucket unreachable")}
	svc := newTestService(source, store)

	require.False(t, svc.Load(context.Background()))

	devotion := svc.DevotionForDay(context.Background(), 4)
	require.NotNil(t, devotion)
	require.Equal(t, "Day 4: Grace", devotion.Title)

	require.Nil(t, svc.DevotionForDay(context.Background(), 5))
}

func TestServiceLoadWritesThroughToStore(t *testing.T) {
	store := newStubStore()
	source := &stubSource{pages: thirtyPages()}
	svc := newTestService(source, store)

	require.True(t, svc.Load(context.Background()))
	require.Equal(t, 30, store.saves)
}

func TestServiceRefreshReloads(t *testing.T) {
	source := &stubSource{pages: thirtyPages()}
	svc := newTestService(source, nil)

	require.True(t, svc.Load(context.Background()))
	require.True(t, svc.Refresh(context.Background()))
	require.Equal(t, 2, source.fetchCount())
}

func TestServiceRefreshRestoresCacheOnFailure(t *testing.T) {
	source := &stubSource{pages: thirtyPages()}
	svc := newTestService(source, nil)

	require.True(t, svc.Load(context.Background()))
	before := svc.DevotionForDay(context.Background(), 2)
	require.NotNil(t, before)

	source.mu.Lock()
	source.err = errors.New("bucket unreachable")
	source.mu.Unlock()

	require.False(t, svc.Refresh(context.Background()))

	after := svc.DevotionForDay(context.Background(), 2)
	require.NotNil(t, after)
	require.Equal(t, before.Title, after.Title)
}

func TestServiceSearch(t *testing.T) {
	pages := thirtyPages()
	svc := newTestService(&stubSource{pages: pages}, nil)

	// Every devotion mentions the Lord, none mention Nineveh.
	matches := svc.Search(context.Background(), "LORD")
	require.Len(t, matches, 30)
	for i, match := range matches {
		require.Equal(t, i+1, match.Day)
	}

	require.Empty(t, svc.Search(context.Background(), "Nineveh"))
	require.Nil(t, svc.Search(context.Background(), "   "))

	// Themes are searchable too; Faith lands on days 1, 13 and 25.
	matches = svc.Search(context.Background(), "faith")
	require.Len(t, matches, 3)
	require.Equal(t, []int{1, 13, 25}, []int{matches[0].Day, matches[1].Day, matches[2].Day})
}
