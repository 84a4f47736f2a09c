package calc

import (
	"fmt"
	"math"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/astro"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

const (
	// riseSetAltitude combines refraction and the solar semi-diameter.
	riseSetAltitude = -0.833
	// imsakMinutes is the gap between Imsak and Fajr.
	imsakMinutes = 10
)

// Approximate local times, in hours, at which the sun is sampled for each
// instant.
const (
	fajrHint    = 5
	sunriseHint = 6
	dhuhrHint   = 12
	asrHint     = 13
	sunsetHint  = 18
)

// Day is a computed prayer day: the six-instant Set plus the extra instants a
// local computation can report.
type Day struct {
	Set    prayer.Set
	Imsak  string
	Sunset string
}

// Map returns the day keyed the way the Al Adhan timings object is.
func (d Day) Map() map[string]string {
	m := d.Set.Map()
	m["Imsak"] = d.Imsak
	m["Sunset"] = d.Sunset
	return m
}

// Compute returns the six prayer instants for coord on the calendar date of
// date, as local "HH:MM" strings for a zone tzOffsetMinutes east of UTC.
// methodID and madhabID are resolved with LookupMethod and LookupMadhab.
func Compute(coord geo.Coordinate, date time.Time, methodID, madhabID string, tzOffsetMinutes int) (prayer.Set, error) {
	d, err := ComputeDay(coord, date, methodID, madhabID, tzOffsetMinutes)
	if err != nil {
		return prayer.Set{}, err
	}
	return d.Set, nil
}

// ComputeDay is like Compute but also reports Imsak and Sunset.
func ComputeDay(coord geo.Coordinate, date time.Time, methodID, madhabID string, tzOffsetMinutes int) (Day, error) {
	method, err := LookupMethod(methodID)
	if err != nil {
		return Day{}, err
	}
	madhab, err := LookupMadhab(madhabID)
	if err != nil {
		return Day{}, err
	}
	return Calculate(coord, date, method, madhab, tzOffsetMinutes)
}

// Calculate computes a Day with an already resolved method and madhab.
//
// A twilight angle the sun never reaches on that day yields
// ErrUnresolvableAngle; no approximation is substituted. Times that fall outside
// the day or are out of order yield ErrInvalidComputation.
func Calculate(coord geo.Coordinate, date time.Time, method Method, madhab Madhab, tzOffsetMinutes int) (Day, error) {
	if madhab != Standard && madhab != Hanafi {
		return Day{}, fmt.Errorf("%w: %d", ErrUnknownMadhab, int(madhab))
	}
	shift, days := clockShift(tzOffsetMinutes, coord.Lng)
	s := newSolver(coord, date, days)

	fajr, err := s.timeAt("Fajr", -method.FajrAngle, fajrHint, true)
	if err != nil {
		return Day{}, err
	}
	sunrise, err := s.timeAt("Sunrise", riseSetAltitude, sunriseHint, true)
	if err != nil {
		return Day{}, err
	}
	dhuhr := s.noon(dhuhrHint)

	decl := s.position(asrHint).Declination
	asr, err := s.timeAt("Asr", astro.AsrAltitude(madhab.ShadowFactor(), s.lat, decl), asrHint, false)
	if err != nil {
		return Day{}, err
	}
	sunset, err := s.timeAt("Sunset", riseSetAltitude, sunsetHint, false)
	if err != nil {
		return Day{}, err
	}

	maghrib := sunset
	switch {
	case method.Maghrib.IsMinutes():
		maghrib = sunset + float64(method.Maghrib.Minutes)/60
	case !method.Maghrib.IsZero():
		if maghrib, err = s.timeAt("Maghrib", -method.Maghrib.Angle, sunsetHint, false); err != nil {
			return Day{}, err
		}
	}

	var isha float64
	if method.Isha.IsMinutes() {
		isha = maghrib + float64(method.Isha.Minutes)/60
	} else if isha, err = s.timeAt("Isha", -method.Isha.Angle, sunsetHint, false); err != nil {
		return Day{}, err
	}

	mins := func(h float64) int { return roundMinutes(h + shift) }

	six := [6]int{mins(fajr), mins(sunrise), mins(dhuhr), mins(asr), mins(maghrib), mins(isha)}
	imsak := six[0] - imsakMinutes
	sunsetMin := mins(sunset)

	if err := checkDay(six, imsak, sunsetMin, s.day); err != nil {
		return Day{}, err
	}

	return Day{
		Set: prayer.Set{
			Fajr:    prayer.FormatClock(six[0]),
			Sunrise: prayer.FormatClock(six[1]),
			Dhuhr:   prayer.FormatClock(six[2]),
			Asr:     prayer.FormatClock(six[3]),
			Maghrib: prayer.FormatClock(six[4]),
			Isha:    prayer.FormatClock(six[5]),
		},
		Imsak:  prayer.FormatClock(imsak),
		Sunset: prayer.FormatClock(sunsetMin),
	}, nil
}

// clockShift splits the offset between zone time and local mean solar time
// into whole days and a remainder in hours. A zone near the date line can sit
// a full day away from the observer's meridian (Samoa at UTC+13, Kiritimati at
// UTC+14); its civil day then matches the neighbouring solar day.
func clockShift(tzOffsetMinutes int, lng float64) (float64, int) {
	days := int(math.Round((float64(tzOffsetMinutes)/60 - lng/15) / 24))
	return float64(tzOffsetMinutes-days*24*60)/60 - lng/15, days
}

func checkDay(six [6]int, imsak, sunset int, day string) error {
	for _, t := range []struct {
		name string
		m    int
	}{{"Imsak", imsak}, {"Sunset", sunset}} {
		if t.m < 0 || t.m >= 24*60 {
			return fmt.Errorf("%w: %s (%d min) falls outside %s", ErrInvalidComputation, t.name, t.m, day)
		}
	}
	for i, m := range six {
		if m < 0 || m >= 24*60 {
			return fmt.Errorf("%w: %s falls outside %s", ErrInvalidComputation, prayer.Names[i], day)
		}
		if i > 0 && m <= six[i-1] {
			return fmt.Errorf("%w: %s (%s) is not after %s (%s) on %s", ErrInvalidComputation,
				prayer.Names[i], prayer.FormatClock(m), prayer.Names[i-1], prayer.FormatClock(six[i-1]), day)
		}
	}
	return nil
}

// roundMinutes converts hours to whole minutes, rounding halves up.
func roundMinutes(h float64) int {
	return int(math.Floor(h*60 + 0.5))
}

// solver samples the sun for one observer and calendar day. Its times are
// local mean solar hours.
type solver struct {
	lat float64
	jd  float64 // Julian day at local mean midnight
	day string
}

// newSolver samples the solar day days before date, as picked by clockShift.
func newSolver(coord geo.Coordinate, date time.Time, days int) solver {
	return solver{
		lat: coord.Lat,
		jd:  astro.JulianDay(date.Year(), int(date.Month()), date.Day()) - float64(days) - coord.Lng/360,
		day: date.Format("2006-01-02"),
	}
}

func (s solver) position(hint float64) astro.Position {
	return astro.SunPosition(s.jd + hint/24)
}

func (s solver) noon(hint float64) float64 {
	return 12 - s.position(hint).EquationOfTime
}

// timeAt returns when the sun reaches altitude alt, before noon if rising.
func (s solver) timeAt(name string, alt, hint float64, rising bool) (float64, error) {
	pos := s.position(hint)
	h, err := astro.HourAngle(alt, s.lat, pos.Declination)
	if err != nil {
		return 0, fmt.Errorf("%s at %.3g° altitude on %s: %w: %w", name, alt, s.day, ErrUnresolvableAngle, err)
	}
	noon := 12 - pos.EquationOfTime
	if rising {
		return noon - h, nil
	}
	return noon + h, nil
}

// Night holds the divisions of the night between today's sunset and
// tomorrow's Fajr.
type Night struct {
	Midnight   string
	Firstthird string
	Lastthird  string
}

// NightTimes splits the night from sunset to the next day's Fajr, both given
// as "HH:MM", into its midpoint and thirds.
func NightTimes(sunset, nextFajr string) (Night, error) {
	start, ok := prayer.ClockMinutes(sunset)
	if !ok {
		return Night{}, fmt.Errorf("invalid sunset time %q", sunset)
	}
	end, ok := prayer.ClockMinutes(nextFajr)
	if !ok {
		return Night{}, fmt.Errorf("invalid Fajr time %q", nextFajr)
	}
	if end <= start {
		end += 24 * 60
	}
	length := float64(end - start)
	at := func(frac float64) string {
		return prayer.FormatClock(start + int(math.Floor(length*frac+0.5)))
	}
	return Night{
		Midnight:   at(1.0 / 2),
		Firstthird: at(1.0 / 3),
		Lastthird:  at(2.0 / 3),
	}, nil
}
