// Package ramadan finds the current or next Ramadan and where a day falls
// relative to it.
package ramadan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

// DefaultMaxYears is how many Hijri years are probed when Resolver.MaxYears
// is zero: the current one and the two after it.
const DefaultMaxYears = 3

// ErrUnresolvable is returned when no probed year yields a Ramadan window.
var ErrUnresolvable = errors.New("ramadan window could not be resolved")

// Window is the Gregorian span of one Ramadan. Start and End are both fasting
// days, at midnight in the location of the day the window was resolved for.
type Window struct {
	HijriYear int       `json:"hijriYear"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// Days returns the length of the month, 29 or 30.
func (w Window) Days() int {
	return daysBetween(w.Start, w.End) + 1
}

// Contains reports whether the calendar date of t falls within the window.
func (w Window) Contains(t time.Time) bool {
	return daysBetween(w.Start, t) >= 0 && daysBetween(t, w.End) >= 0
}

// OddNights returns the evenings on which the odd nights of the last ten
// (21st, 23rd, 25th, 27th and 29th) begin. A night starts at sunset on the
// day before its fasting day.
func (w Window) OddNights() []time.Time {
	var nights []time.Time
	for n := 21; n <= w.Days() && n <= 29; n += 2 {
		nights = append(nights, w.Start.AddDate(0, 0, n-2))
	}
	return nights
}

// Status places a day relative to a Window. Exactly one of DaysUntil and
// CurrentDay is set.
type Status struct {
	IsRamadan  bool `json:"isRamadan"`
	DaysUntil  *int `json:"daysUntilRamadan"`
	CurrentDay *int `json:"currentRamadanDay"`
	// DaysRemaining counts the fasting days after today; set with CurrentDay.
	DaysRemaining *int `json:"daysRemaining,omitempty"`
}

// Resolver searches forward from a day for the first Ramadan that has not
// ended.
type Resolver struct {
	Converter hijri.Converter
	// MaxYears bounds the search; zero means DefaultMaxYears.
	MaxYears int
}

// NewResolver returns a Resolver over conv with the default search depth.
func NewResolver(conv hijri.Converter) *Resolver {
	return &Resolver{Converter: conv, MaxYears: DefaultMaxYears}
}

// Resolve returns the Ramadan window that is running on today or comes next,
// and today's status against it.
//
// offsetDays is the moon-sighting adjustment: the Hijri date of a Gregorian
// day d is taken to be the converter's date for d+offsetDays, so the window
// moves by -offsetDays. The search starts in the Hijri year of today (after
// the offset) and accepts the first year whose Ramadan ends on or after
// today; later years are not consulted.
func (r *Resolver) Resolve(ctx context.Context, today time.Time, offsetDays int) (Window, Status, error) {
	loc := today.Location()
	today = midnight(today, loc)

	h, err := hijri.Shift(ctx, r.Converter, today, offsetDays)
	if err != nil {
		return Window{}, Status{}, fmt.Errorf("%w: converting %s: %w", ErrUnresolvable, today.Format("2006-01-02"), err)
	}

	maxYears := r.MaxYears
	if maxYears <= 0 {
		maxYears = DefaultMaxYears
	}

	var errs []error
	for year := h.Year; year < h.Year+maxYears; year++ {
		w, err := r.window(ctx, year, offsetDays, loc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if daysBetween(today, w.End) < 0 {
			continue
		}
		return w, classify(w, today), nil
	}

	if len(errs) == 0 {
		return Window{}, Status{}, fmt.Errorf("%w: no window ends on or after %s within %d years",
			ErrUnresolvable, today.Format("2006-01-02"), maxYears)
	}
	return Window{}, Status{}, fmt.Errorf("%w: %w", ErrUnresolvable, errors.Join(errs...))
}

func (r *Resolver) window(ctx context.Context, year, offsetDays int, loc *time.Location) (Window, error) {
	days, err := r.Converter.MonthToGregorian(ctx, hijri.Ramadan, year)
	if err != nil {
		return Window{}, fmt.Errorf("ramadan %d: %w", year, err)
	}
	if len(days) < 29 || len(days) > 30 {
		return Window{}, fmt.Errorf("ramadan %d: converter returned %d days", year, len(days))
	}

	w := Window{
		HijriYear: year,
		Start:     midnight(days[0], loc).AddDate(0, 0, -offsetDays),
		End:       midnight(days[len(days)-1], loc).AddDate(0, 0, -offsetDays),
	}
	if n := w.Days(); n != len(days) {
		return Window{}, fmt.Errorf("ramadan %d: converter days are not consecutive (%d days span %d)", year, len(days), n)
	}
	return w, nil
}

func classify(w Window, today time.Time) Status {
	if w.Contains(today) {
		day := daysBetween(w.Start, today) + 1
		remaining := daysBetween(today, w.End)
		return Status{IsRamadan: true, CurrentDay: &day, DaysRemaining: &remaining}
	}
	until := daysBetween(today, w.Start)
	return Status{DaysUntil: &until}
}

// midnight returns the calendar date of t as midnight in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from a to b, ignoring clock time and
// daylight saving changes.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
