package source

import (
	"context"

	"github.com/smokyabdulrahman/miqat/internal/calc"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/tz"
)

// Local computes prayer times on the device.
type Local struct {
	// DefaultMethod is used when the request names none.
	DefaultMethod string
	// Converter supplies the Hijri date. Nil means the tabular calendar.
	Converter hijri.Converter
}

// NewLocal returns a Local that defaults to the Muslim World League method.
func NewLocal() *Local {
	return &Local{DefaultMethod: string(calc.MWL), Converter: hijri.Tabular{}}
}

// Day implements Provider. The UTC offset is that of req.Date's location on
// that day, so daylight saving is honored.
func (l *Local) Day(ctx context.Context, req Request) (Result, error) {
	if req.ByCity() {
		return Result{}, ErrNeedsCoordinates
	}

	method := req.Method
	if method == "" {
		method = l.DefaultMethod
	}
	madhab := req.Madhab
	if madhab == "" {
		madhab = "standard"
	}

	m, err := calc.LookupMethod(method)
	if err != nil {
		return Result{}, err
	}
	md, err := calc.LookupMadhab(madhab)
	if err != nil {
		return Result{}, err
	}

	loc := req.Date.Location()
	day, err := calc.Calculate(req.Coordinate, req.Date, m, md, tz.OffsetMinutes(loc, req.Date))
	if err != nil {
		return Result{}, err
	}

	timings := day.Map()
	tomorrow := req.Date.AddDate(0, 0, 1)
	if next, err := calc.Calculate(req.Coordinate, tomorrow, m, md, tz.OffsetMinutes(loc, tomorrow)); err == nil {
		if night, err := calc.NightTimes(day.Sunset, next.Set.Fajr); err == nil {
			timings["Midnight"] = night.Midnight
			timings["Firstthird"] = night.Firstthird
			timings["Lastthird"] = night.Lastthird
		}
	}

	res := Result{
		Date:      dateKey(req.Date),
		Timings:   timings,
		Set:       day.Set,
		Method:    string(m.ID),
		Timezone:  loc.String(),
		Latitude:  req.Coordinate.Lat,
		Longitude: req.Coordinate.Lng,
		Origin:    OriginLocal,
	}

	conv := l.Converter
	if conv == nil {
		conv = hijri.Tabular{}
	}
	if h, err := conv.ToHijri(ctx, req.Date); err == nil {
		res.Hijri = &h
	}
	return res, nil
}
