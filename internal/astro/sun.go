// Package astro implements the low-precision solar ephemeris used for civil
// prayer-time computation.
//
// All angles are in degrees and all times in hours unless a name says otherwise.
// The formulas follow the common almanac approximation (mean anomaly, mean
// longitude, apparent ecliptic longitude, obliquity) and are good to about a
// minute of time for years 1901-2099. Dates outside that range are accepted and
// simply lose accuracy.
package astro

import (
	"errors"
	"math"
)

// j2000 is the Julian day of the J2000.0 epoch (2000-01-01 12:00 TT).
const j2000 = 2451545.0

// ErrNoSolution is returned when the sun never reaches the requested altitude
// on the given day (polar day, polar night, or persistent twilight).
var ErrNoSolution = errors.New("sun does not reach the requested altitude")

// Position is the sun's apparent position needed for hour-angle work.
type Position struct {
	Declination    float64 // degrees
	EquationOfTime float64 // hours, apparent minus mean solar time
}

// EquationOfTimeMinutes returns the equation of time in minutes.
func (p Position) EquationOfTimeMinutes() float64 {
	return p.EquationOfTime * 60
}

// JulianDay returns the Julian day number at 0h UT for a Gregorian date.
func JulianDay(year, month, day int) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := year / 100
	b := 2 - a + a/4
	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		float64(day) + float64(b) - 1524.5
}

// SunPosition returns the solar declination and equation of time at Julian day jd.
func SunPosition(jd float64) Position {
	d := jd - j2000

	g := fixAngle(357.529 + 0.98560028*d)
	q := fixAngle(280.459 + 0.98564736*d)
	l := fixAngle(q + 1.915*sin(g) + 0.020*sin(2*g))
	e := 23.439 - 0.00000036*d

	ra := fixHour(atan2(cos(e)*sin(l), cos(l)) / 15)
	eqt := q/15 - ra
	// q and ra straddle 0h around the March equinox.
	switch {
	case eqt > 12:
		eqt -= 24
	case eqt < -12:
		eqt += 24
	}

	return Position{
		Declination:    asin(sin(e) * sin(l)),
		EquationOfTime: eqt,
	}
}

// HourAngle returns the time in hours between solar noon and the moment the sun
// reaches altitude alt (negative below the horizon) at latitude lat, given the
// solar declination decl.
func HourAngle(alt, lat, decl float64) (float64, error) {
	arg := (sin(alt) - sin(lat)*sin(decl)) / (cos(lat) * cos(decl))
	if math.IsNaN(arg) || arg < -1 || arg > 1 {
		return 0, ErrNoSolution
	}
	return acos(arg) / 15, nil
}

// AsrAltitude returns the solar altitude at which an object's shadow equals
// shadowFactor times its height plus its noon shadow.
func AsrAltitude(shadowFactor, lat, decl float64) float64 {
	return acot(shadowFactor + tan(math.Abs(lat-decl)))
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

func sin(d float64) float64 { return math.Sin(rad(d)) }
func cos(d float64) float64 { return math.Cos(rad(d)) }
func tan(d float64) float64 { return math.Tan(rad(d)) }

func asin(x float64) float64     { return deg(math.Asin(x)) }
func acos(x float64) float64     { return deg(math.Acos(x)) }
func atan2(y, x float64) float64 { return deg(math.Atan2(y, x)) }
func acot(x float64) float64     { return deg(math.Atan(1 / x)) }

func fixAngle(a float64) float64 { return fix(a, 360) }
func fixHour(a float64) float64  { return fix(a, 24) }

func fix(a, b float64) float64 {
	a = math.Mod(a, b)
	if a < 0 {
		a += b
	}
	return a
}
