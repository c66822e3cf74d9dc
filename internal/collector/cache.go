package collector

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"ChartSentinel/internal/model"
)

// CachedFetcher memoizes raw daily bars per symbol and date range so that a
// chart followed by a batch over the same symbol hits the provider once.
type CachedFetcher struct {
	Fetcher Fetcher
	store   *cache.Cache
}

// NewCachedFetcher wraps f with a TTL cache. A non-positive ttl disables caching.
func NewCachedFetcher(f Fetcher, ttl time.Duration) Fetcher {
	if ttl <= 0 {
		return f
	}
	return &CachedFetcher{Fetcher: f, store: cache.New(ttl, 2*ttl)}
}

func (c *CachedFetcher) Name() string { return c.Fetcher.Name() + "+cache" }

func (c *CachedFetcher) FetchDailyRange(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	key := symbol + "|" + start.Format("2006-01-02") + "|" + end.Format("2006-01-02")
	if v, ok := c.store.Get(key); ok {
		return v.([]model.OHLCV), nil
	}
	bars, err := c.Fetcher.FetchDailyRange(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	c.store.Set(key, bars, cache.DefaultExpiration)
	return bars, nil
}
