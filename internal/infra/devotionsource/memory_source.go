package devotionsource

import (
	"context"
	"errors"
	"sync"

	"github.com/mannadev/scriptura/internal/domain/devotion"
)

// MemorySource serves a fixed page collection. Useful for tests and local dev.
type MemorySource struct {
	mu    sync.RWMutex
	pages []devotion.RawPage
	fail  bool
}

// NewMemorySource constructs the source.
func NewMemorySource(pages []devotion.RawPage) *MemorySource {
	return &MemorySource{pages: pages}
}

// FetchPages returns the configured pages.
func (s *MemorySource) FetchPages(_ context.Context) ([]devotion.RawPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fail {
		return nil, errors.New("page source unavailable")
	}
	out := make([]devotion.RawPage, len(s.pages))
	copy(out, s.pages)
	return out, nil
}

// SetPages replaces the page collection.
func (s *MemorySource) SetPages(pages []devotion.RawPage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = pages
}

// SetFailing toggles fetch failures.
func (s *MemorySource) SetFailing(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

var _ devotion.PageSource = (*MemorySource)(nil)
