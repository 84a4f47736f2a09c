package ramadan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// recorder wraps a converter, counting month lookups and failing the years
// listed in fail.
type recorder struct {
	hijri.Converter
	fail  map[int]error
	years []int
}

func (r *recorder) MonthToGregorian(ctx context.Context, month, year int) ([]time.Time, error) {
	r.years = append(r.years, year)
	if err := r.fail[year]; err != nil {
		return nil, err
	}
	return r.Converter.MonthToGregorian(ctx, month, year)
}

func TestResolve_BeforeRamadan(t *testing.T) {
	w, s, err := NewResolver(hijri.Tabular{}).Resolve(context.Background(), date(2025, 2, 10), 0)
	require.NoError(t, err)

	assert.Equal(t, Window{HijriYear: 1446, Start: date(2025, 3, 1), End: date(2025, 3, 30)}, w)
	assert.False(t, s.IsRamadan)
	require.NotNil(t, s.DaysUntil)
	assert.Equal(t, 19, *s.DaysUntil)
	assert.Nil(t, s.CurrentDay)
	assert.Nil(t, s.DaysRemaining)
}

func TestResolve_DuringRamadan(t *testing.T) {
	w, s, err := NewResolver(hijri.Tabular{}).Resolve(context.Background(), date(2025, 3, 10), 0)
	require.NoError(t, err)

	assert.Equal(t, 1446, w.HijriYear)
	assert.True(t, s.IsRamadan)
	assert.Nil(t, s.DaysUntil)
	require.NotNil(t, s.CurrentDay)
	assert.Equal(t, 10, *s.CurrentDay)
	require.NotNil(t, s.DaysRemaining)
	assert.Equal(t, 20, *s.DaysRemaining)
}

func TestResolve_FirstAndLastDay(t *testing.T) {
	r := NewResolver(hijri.Tabular{})

	_, s, err := r.Resolve(context.Background(), date(2025, 3, 1), 0)
	require.NoError(t, err)
	require.NotNil(t, s.CurrentDay)
	assert.Equal(t, 1, *s.CurrentDay)

	_, s, err = r.Resolve(context.Background(), time.Date(2025, 3, 30, 23, 59, 0, 0, time.UTC), 0)
	require.NoError(t, err)
	require.NotNil(t, s.CurrentDay)
	assert.Equal(t, 30, *s.CurrentDay)
	assert.Equal(t, 0, *s.DaysRemaining)
}

func TestResolve_AfterRamadanMovesToNextYear(t *testing.T) {
	conv := &recorder{Converter: hijri.Tabular{}}
	w, s, err := NewResolver(conv).Resolve(context.Background(), date(2025, 3, 31), 0)
	require.NoError(t, err)

	assert.Equal(t, Window{HijriYear: 1447, Start: date(2026, 2, 18), End: date(2026, 3, 19)}, w)
	require.NotNil(t, s.DaysUntil)
	assert.Equal(t, 324, *s.DaysUntil)
	assert.Equal(t, []int{1446, 1447}, conv.years)
}

func TestResolve_StopsAtFirstAcceptedYear(t *testing.T) {
	conv := &recorder{Converter: hijri.Tabular{}}
	_, s, err := NewResolver(conv).Resolve(context.Background(), date(2026, 10, 15), 0)
	require.NoError(t, err)

	assert.Equal(t, []int{1448}, conv.years)
	require.NotNil(t, s.DaysUntil)
	assert.Equal(t, 116, *s.DaysUntil)
}

func TestResolve_Offset(t *testing.T) {
	r := NewResolver(hijri.Tabular{})

	// A day ahead: the tabular 1 Ramadan is one Gregorian day earlier.
	w, s, err := r.Resolve(context.Background(), date(2025, 2, 28), 1)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 28), w.Start)
	assert.Equal(t, date(2025, 3, 29), w.End)
	require.NotNil(t, s.CurrentDay)
	assert.Equal(t, 1, *s.CurrentDay)

	// A day behind: the month starts a day late.
	w, s, err = r.Resolve(context.Background(), date(2025, 3, 1), -1)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 2), w.Start)
	require.NotNil(t, s.DaysUntil)
	assert.Equal(t, 1, *s.DaysUntil)
}

func TestResolve_WindowInLocationOfToday(t *testing.T) {
	riyadh := time.FixedZone("AST", 3*60*60)
	w, s, err := NewResolver(hijri.Tabular{}).Resolve(context.Background(), time.Date(2025, 3, 10, 21, 0, 0, 0, riyadh), 0)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, riyadh), w.Start)
	assert.Equal(t, riyadh, w.End.Location())
	assert.Equal(t, 10, *s.CurrentDay)
}

func TestResolve_SkipsYearsTheConverterCannotAnswer(t *testing.T) {
	conv := &recorder{
		Converter: hijri.Tabular{},
		fail:      map[int]error{1446: errors.New("timeout")},
	}
	w, _, err := NewResolver(conv).Resolve(context.Background(), date(2025, 3, 10), 0)
	require.NoError(t, err)
	assert.Equal(t, 1447, w.HijriYear)
}

func TestResolve_Unresolvable(t *testing.T) {
	boom := errors.New("calendar service down")
	conv := &recorder{
		Converter: hijri.Tabular{},
		fail:      map[int]error{1446: boom, 1447: boom, 1448: boom},
	}
	_, _, err := NewResolver(conv).Resolve(context.Background(), date(2025, 3, 10), 0)
	require.ErrorIs(t, err, ErrUnresolvable)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1446, 1447, 1448}, conv.years)
}

func TestResolve_MaxYearsOne(t *testing.T) {
	r := &Resolver{Converter: hijri.Tabular{}, MaxYears: 1}
	_, _, err := r.Resolve(context.Background(), date(2025, 4, 5), 0)
	assert.ErrorIs(t, err, ErrUnresolvable)
}

type brokenToday struct{ hijri.Tabular }

func (brokenToday) ToHijri(context.Context, time.Time) (hijri.Date, error) {
	return hijri.Date{}, errors.New("no answer")
}

func TestResolve_TodayUnconvertible(t *testing.T) {
	_, _, err := NewResolver(brokenToday{}).Resolve(context.Background(), date(2025, 3, 10), 0)
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestResolve_Properties(t *testing.T) {
	r := NewResolver(hijri.Tabular{})
	for d := date(2020, 1, 1); d.Before(date(2031, 1, 1)); d = d.AddDate(0, 0, 5) {
		w, s, err := r.Resolve(context.Background(), d, 0)
		require.NoError(t, err, d)

		assert.GreaterOrEqual(t, daysBetween(d, w.End), 0, "window ends before %s", d)
		assert.True(t, w.End.After(w.Start))
		assert.Contains(t, []int{29, 30}, w.Days())
		assert.NotEqual(t, s.CurrentDay == nil, s.DaysUntil == nil, "exactly one of CurrentDay and DaysUntil on %s", d)
		assert.Equal(t, s.IsRamadan, s.CurrentDay != nil)
	}
}

func TestWindow(t *testing.T) {
	w := Window{HijriYear: 1446, Start: date(2025, 3, 1), End: date(2025, 3, 30)}
	assert.Equal(t, 30, w.Days())
	assert.True(t, w.Contains(time.Date(2025, 3, 30, 23, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(date(2025, 2, 28)))
	assert.False(t, w.Contains(date(2025, 3, 31)))

	assert.Equal(t, []time.Time{
		date(2025, 3, 20), date(2025, 3, 22), date(2025, 3, 24), date(2025, 3, 26), date(2025, 3, 28),
	}, w.OddNights())

	w.End = date(2025, 3, 29)
	assert.Len(t, w.OddNights(), 5)
}
