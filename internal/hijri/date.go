// Package hijri converts between the Gregorian and Hijri calendars.
//
// The Converter interface is satisfied by the arithmetic Tabular calendar in
// this package and by the remote Al Adhan client; Fallback combines the two.
package hijri

import (
	"fmt"
	"strconv"
	"strings"
)

// Ramadan is the number of the month of fasting.
const Ramadan = 9

var monthNames = [12]string{
	"Muharram",
	"Safar",
	"Rabi al-Awwal",
	"Rabi al-Thani",
	"Jumada al-Ula",
	"Jumada al-Akhirah",
	"Rajab",
	"Shaban",
	"Ramadan",
	"Shawwal",
	"Dhu al-Qadah",
	"Dhu al-Hijjah",
}

// MonthName returns the transliterated name of a Hijri month, or "" if month
// is out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// Date is a day in the Hijri calendar.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Valid reports whether d has a day in 1..30, a month in 1..12 and a positive
// year. It does not check the length of the particular month.
func (d Date) Valid() bool {
	return d.Day >= 1 && d.Day <= 30 && d.Month >= 1 && d.Month <= 12 && d.Year >= 1
}

// MonthName returns the name of d's month.
func (d Date) MonthName() string { return MonthName(d.Month) }

// String formats d as "10 Ramadan 1446 AH".
func (d Date) String() string {
	return fmt.Sprintf("%d %s %d AH", d.Day, d.MonthName(), d.Year)
}

// Numeric formats d as "DD-MM-YYYY", the form the Al Adhan API uses.
func (d Date) Numeric() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, d.Month, d.Year)
}

// ParseDate parses a "DD-MM-YYYY" Hijri date.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid hijri date %q: expected DD-MM-YYYY", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("invalid hijri date %q: %w", s, err)
		}
		v[i] = n
	}
	d := Date{Day: v[0], Month: v[1], Year: v[2]}
	if !d.Valid() {
		return Date{}, fmt.Errorf("invalid hijri date %q: out of range", s)
	}
	return d, nil
}
