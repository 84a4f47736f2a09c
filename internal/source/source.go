// Package source resolves a day's prayer times from the remote Al Adhan
// service, the local calculator, or both.
//
// Fetching and computing are separate Providers. Fallback chains them
// explicitly and Cached memoizes any of them in a cache.Store.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

// Origins reported in Result.Origin.
const (
	OriginRemote = "remote"
	OriginLocal  = "local"
)

// ErrNeedsCoordinates is returned by Local for a request that only names a city.
var ErrNeedsCoordinates = errors.New("local computation needs coordinates")

// Request identifies one day of prayer times.
type Request struct {
	// Date is the calendar day. Its location is the location the times are
	// expressed in.
	Date       time.Time
	Coordinate geo.Coordinate
	City       string
	Country    string
	Method     string // calc method identifier; empty lets the provider choose
	Madhab     string // empty means standard
}

// ByCity reports whether the request should be resolved by city name.
func (r Request) ByCity() bool {
	return r.City != "" && r.Coordinate == (geo.Coordinate{})
}

// OnDate returns a copy of r for another calendar day.
func (r Request) OnDate(d time.Time) Request {
	r.Date = d
	return r
}

// Result is one day of prayer times.
type Result struct {
	Date      string            `json:"date"`    // YYYY-MM-DD
	Timings   map[string]string `json:"timings"` // every available instant as HH:MM
	Set       prayer.Set        `json:"set"`
	Hijri     *hijri.Date       `json:"hijri,omitempty"`
	Method    string            `json:"method"`
	Timezone  string            `json:"timezone,omitempty"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Origin    string            `json:"origin"`
}

// Provider returns the prayer times for one day.
type Provider interface {
	Day(ctx context.Context, req Request) (Result, error)
}

// MonthProvider is implemented by providers that can return a whole
// Gregorian month in one call.
type MonthProvider interface {
	Month(ctx context.Context, req Request, year int, month time.Month) ([]Result, error)
}

// Month returns every day of a Gregorian month from p, batched when p is a
// MonthProvider and day by day otherwise.
func Month(ctx context.Context, p Provider, req Request, year int, month time.Month) ([]Result, error) {
	if mp, ok := p.(MonthProvider); ok {
		return mp.Month(ctx, req, year, month)
	}

	loc := req.Date.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	var out []Result
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		res, err := p.Day(ctx, req.OnDate(d))
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Days returns n consecutive days starting at req.Date, fetching each
// Gregorian month at most once.
func Days(ctx context.Context, p Provider, req Request, n int) ([]Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid number of days %d: must be positive", n)
	}

	type yearMonth struct {
		year  int
		month time.Month
	}
	months := make(map[yearMonth][]Result)

	out := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		d := req.Date.AddDate(0, 0, i)
		ym := yearMonth{d.Year(), d.Month()}

		days, ok := months[ym]
		if !ok {
			var err error
			days, err = Month(ctx, p, req, ym.year, ym.month)
			if err != nil {
				return nil, fmt.Errorf("failed to get %d-%02d: %w", ym.year, ym.month, err)
			}
			months[ym] = days
		}

		idx := d.Day() - 1
		if idx >= len(days) {
			return nil, fmt.Errorf("day %d out of range for %d-%02d (got %d days)", d.Day(), ym.year, ym.month, len(days))
		}
		out = append(out, days[idx])
	}
	return out, nil
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
