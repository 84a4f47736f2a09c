package hijri

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrOutOfRange is returned for dates before the start of the Hijri era.
var ErrOutOfRange = errors.New("date out of range for the hijri calendar")

// epochOffset is the Hijri epoch (1 Muharram 1 AH, 16 July 622 Julian) in days
// before 1970-01-01.
const epochOffset = 492148

// Tabular is the arithmetic Islamic civil calendar: a 30-year cycle of 354 and
// 355 day years with months alternating between 30 and 29 days. It is
// deterministic and needs no I/O, but can differ by a day or two from
// calendars based on moon sighting.
type Tabular struct{}

// IsLeapYear reports whether the Hijri year has 355 days. Leap years are
// 2, 5, 7, 10, 13, 16, 18, 21, 24, 26 and 29 of each 30-year cycle.
func IsLeapYear(year int) bool {
	return mod(14+11*year, 30) < 11
}

// MonthLength returns the number of days of a Hijri month in the tabular
// calendar.
func MonthLength(month, year int) int {
	if month%2 == 1 || (month == 12 && IsLeapYear(year)) {
		return 30
	}
	return 29
}

// ToHijri implements Converter. It uses t's calendar date in t's location.
func (Tabular) ToHijri(_ context.Context, t time.Time) (Date, error) {
	n := unixDays(t)
	if n < -epochOffset {
		return Date{}, fmt.Errorf("%w: %s", ErrOutOfRange, t.Format("2006-01-02"))
	}
	y := floorDiv(30*(n+epochOffset)+10646, 10631)
	m := ceilDiv(2*(n-(29+daysFor(y, 1, 1))), 59) + 1
	if m > 12 {
		m = 12
	}
	return Date{Day: n - daysFor(y, m, 1) + 1, Month: m, Year: y}, nil
}

// MonthToGregorian implements Converter.
func (Tabular) MonthToGregorian(_ context.Context, month, year int) ([]time.Time, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%w: month %d of year %d", ErrOutOfRange, month, year)
	}
	first := daysFor(year, month, 1)
	days := make([]time.Time, MonthLength(month, year))
	for i := range days {
		days[i] = fromUnixDays(first + i)
	}
	return days, nil
}

// ToGregorian returns the Gregorian day of d.
func (Tabular) ToGregorian(d Date) (time.Time, error) {
	if !d.Valid() || d.Day > MonthLength(d.Month, d.Year) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrOutOfRange, d.Numeric())
	}
	return fromUnixDays(daysFor(d.Year, d.Month, d.Day)), nil
}

// daysFor returns the day of a Hijri date counted from 1970-01-01.
func daysFor(year, month, day int) int {
	return day + (59*(month-1)+1)/2 + (year-1)*354 + floorDiv(3+11*year, 30) - epochOffset - 1
}

func unixDays(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func fromUnixDays(n int) time.Time {
	return time.Unix(int64(n)*86400, 0).UTC()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

func mod(a, b int) int {
	return a - floorDiv(a, b)*b
}
