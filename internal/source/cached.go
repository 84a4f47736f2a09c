package source

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/miqat/internal/cache"
)

// DefaultTTL is how long a cached day of prayer times is kept.
const DefaultTTL = 30 * 24 * time.Hour

// Cached memoizes a Provider in a cache.Store. Only results that validate
// are stored.
type Cached struct {
	Provider Provider
	Store    cache.Store
	TTL      time.Duration
	// Namespace separates entries of differently configured providers.
	Namespace string
}

// NewCached wraps p with the default TTL.
func NewCached(p Provider, store cache.Store, namespace string) *Cached {
	return &Cached{Provider: p, Store: store, TTL: DefaultTTL, Namespace: namespace}
}

// Day implements Provider.
func (c *Cached) Day(ctx context.Context, req Request) (Result, error) {
	key := c.key("timings", req, req.Date)
	if res, ok := cache.Load[Result](ctx, c.Store, key); ok {
		return res, nil
	}

	res, err := c.Provider.Day(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if check(res) == nil {
		c.save(ctx, key, res)
	}
	return res, nil
}

// Month implements MonthProvider.
func (c *Cached) Month(ctx context.Context, req Request, year int, month time.Month) ([]Result, error) {
	key := c.key("calendar", req, time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	if days, ok := cache.Load[[]Result](ctx, c.Store, key); ok {
		return days, nil
	}

	days, err := Month(ctx, c.Provider, req, year, month)
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		if check(d) != nil {
			return days, nil
		}
	}
	c.save(ctx, key, days)
	return days, nil
}

func (c *Cached) key(kind string, req Request, date time.Time) string {
	return cache.Key(kind, c.Namespace, date, req.Coordinate.Lat, req.Coordinate.Lng,
		req.City, req.Country, req.Method, req.Madhab, req.Date.Location().String())
}

// save is best-effort: a failing cache only costs a refetch.
func (c *Cached) save(ctx context.Context, key string, v any) {
	if err := cache.Save(ctx, c.Store, key, v, c.TTL); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}
