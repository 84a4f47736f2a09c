package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

// ErrInvalidResult is returned when a provider's times fail validation.
var ErrInvalidResult = errors.New("prayer times failed validation")

// Fallback tries Primary and uses Secondary when the primary fails or
// returns times that do not validate.
type Fallback struct {
	Primary   Provider
	Secondary Provider
}

// Day implements Provider.
func (f Fallback) Day(ctx context.Context, req Request) (Result, error) {
	res, err := f.Primary.Day(ctx, req)
	if err == nil {
		err = check(res)
	}
	if err == nil {
		return res, nil
	}

	log.Warn().Err(err).
		Str("primary", name(f.Primary)).
		Str("date", dateKey(req.Date)).
		Msg("primary prayer time source unavailable, falling back")

	res, serr := f.Secondary.Day(ctx, req)
	if serr != nil {
		return Result{}, fmt.Errorf("all prayer time sources failed: %w", errors.Join(err, serr))
	}
	if serr := check(res); serr != nil {
		return Result{}, fmt.Errorf("all prayer time sources failed: %w", errors.Join(err, serr))
	}
	return res, nil
}

// Month implements MonthProvider. A month from the primary is used only if
// every day in it validates.
func (f Fallback) Month(ctx context.Context, req Request, year int, month time.Month) ([]Result, error) {
	days, err := Month(ctx, f.Primary, req, year, month)
	if err == nil {
		err = checkAll(days)
	}
	if err == nil {
		return days, nil
	}

	log.Warn().Err(err).
		Str("primary", name(f.Primary)).
		Str("month", fmt.Sprintf("%d-%02d", year, month)).
		Msg("primary prayer time source unavailable, falling back")

	days, serr := Month(ctx, f.Secondary, req, year, month)
	if serr == nil {
		serr = checkAll(days)
	}
	if serr != nil {
		return nil, fmt.Errorf("all prayer time sources failed: %w", errors.Join(err, serr))
	}
	return days, nil
}

func check(res Result) error {
	if !prayer.Validate(res.Set) {
		return fmt.Errorf("%w: %s from %s", ErrInvalidResult, res.Date, res.Origin)
	}
	return nil
}

func checkAll(days []Result) error {
	for _, d := range days {
		if err := check(d); err != nil {
			return err
		}
	}
	return nil
}

func name(p Provider) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", p)
}
