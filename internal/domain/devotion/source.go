package devotion

import (
	"context"
	"time"
)

// PageSource fetches the raw page collection from the content store.
type PageSource interface {
	FetchPages(ctx context.Context) ([]RawPage, error)
}

// Store mirrors processed devotions outside the process, so a cold instance
// can still serve lookups when the page source is down.
type Store interface {
	GetDevotion(ctx context.Context, day int) (ProcessedDevotion, bool, error)
	SaveDevotion(ctx context.Context, devotion ProcessedDevotion, ttl time.Duration) error
}
