package hijri

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Converter converts Gregorian days to Hijri dates and Hijri months to the
// Gregorian days they span. Returned time.Time values are midnight UTC; only
// their calendar date is meaningful.
type Converter interface {
	ToHijri(ctx context.Context, t time.Time) (Date, error)
	MonthToGregorian(ctx context.Context, month, year int) ([]time.Time, error)
}

// Shift returns the Hijri date of t moved by offsetDays, the manual
// adjustment used to follow local moon sighting. The month and year roll over
// according to conv's own month lengths.
func Shift(ctx context.Context, conv Converter, t time.Time, offsetDays int) (Date, error) {
	return conv.ToHijri(ctx, t.AddDate(0, 0, offsetDays))
}

// Fallback uses Primary and, when it fails, Secondary.
type Fallback struct {
	Primary   Converter
	Secondary Converter
	// OnError, if set, is called with the primary's error before falling back.
	OnError func(error)
}

// ToHijri implements Converter.
func (f Fallback) ToHijri(ctx context.Context, t time.Time) (Date, error) {
	d, err := f.Primary.ToHijri(ctx, t)
	if err == nil && d.Valid() {
		return d, nil
	}
	if err == nil {
		err = fmt.Errorf("invalid hijri date %+v", d)
	}
	f.report(err)

	d, err2 := f.Secondary.ToHijri(ctx, t)
	if err2 != nil {
		return Date{}, errors.Join(err, err2)
	}
	return d, nil
}

// MonthToGregorian implements Converter.
func (f Fallback) MonthToGregorian(ctx context.Context, month, year int) ([]time.Time, error) {
	days, err := f.Primary.MonthToGregorian(ctx, month, year)
	if err == nil && len(days) >= 29 {
		return days, nil
	}
	if err == nil {
		err = fmt.Errorf("month %d/%d has %d days", month, year, len(days))
	}
	f.report(err)

	days, err2 := f.Secondary.MonthToGregorian(ctx, month, year)
	if err2 != nil {
		return nil, errors.Join(err, err2)
	}
	return days, nil
}

func (f Fallback) report(err error) {
	if f.OnError != nil {
		f.OnError(err)
	}
}
