package prayer

import (
	"errors"
	"fmt"
	"time"
)

// Next describes the upcoming prayer relative to a point in time.
type Next struct {
	Name       string
	Time       time.Time
	Until      time.Duration
	IsTomorrow bool
}

// MillisecondsUntil returns Until in whole milliseconds.
func (n Next) MillisecondsUntil() int64 {
	return n.Until.Milliseconds()
}

// Countdown finds the first of today's six prayers strictly after now.
// If Isha has already passed it returns tomorrow's Fajr, taken from the
// tomorrow set, with IsTomorrow set. date selects the calendar day (and
// location) that today's set belongs to.
func Countdown(today, tomorrow Set, date, now time.Time) (Next, error) {
	loc := date.Location()

	prayers, err := today.Prayers(date, loc)
	if err != nil {
		return Next{}, err
	}
	if p := NextPrayer(prayers, now); p != nil {
		return Next{Name: p.Name, Time: p.Time, Until: p.Time.Sub(now)}, nil
	}

	if tomorrow.Fajr == "" {
		return Next{}, errors.New("all prayers have passed and no set for tomorrow was given")
	}
	next := date.AddDate(0, 0, 1)
	fajr, err := parseTimeStr(tomorrow.Fajr, next, loc)
	if err != nil {
		return Next{}, fmt.Errorf("failed to parse tomorrow's Fajr (%q): %w", tomorrow.Fajr, err)
	}
	return Next{Name: "Fajr", Time: fajr, Until: fajr.Sub(now), IsTomorrow: true}, nil
}
