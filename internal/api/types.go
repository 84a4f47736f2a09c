package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
)

// Response represents the top-level Al Adhan API response.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data holds the prayer timings, date info, and metadata.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains all prayer and event times as HH:MM strings.
// The API may include a timezone suffix like " (BST)" which we strip during parsing.
type Timings struct {
	Fajr       string `json:"Fajr"`
	Sunrise    string `json:"Sunrise"`
	Dhuhr      string `json:"Dhuhr"`
	Asr        string `json:"Asr"`
	Sunset     string `json:"Sunset"`
	Maghrib    string `json:"Maghrib"`
	Isha       string `json:"Isha"`
	Imsak      string `json:"Imsak"`
	Midnight   string `json:"Midnight"`
	Firstthird string `json:"Firstthird"`
	Lastthird  string `json:"Lastthird"`
}

// NewTimings builds Timings from a name-keyed map such as calc.Day.Map.
// Missing names are left empty.
func NewTimings(m map[string]string) Timings {
	return Timings{
		Fajr:       m["Fajr"],
		Sunrise:    m["Sunrise"],
		Dhuhr:      m["Dhuhr"],
		Asr:        m["Asr"],
		Sunset:     m["Sunset"],
		Maghrib:    m["Maghrib"],
		Isha:       m["Isha"],
		Imsak:      m["Imsak"],
		Midnight:   m["Midnight"],
		Firstthird: m["Firstthird"],
		Lastthird:  m["Lastthird"],
	}
}

// Map returns every non-empty timing keyed by name, with timezone suffixes
// left in place.
func (t Timings) Map() map[string]string {
	all := map[string]string{
		"Fajr":       t.Fajr,
		"Sunrise":    t.Sunrise,
		"Dhuhr":      t.Dhuhr,
		"Asr":        t.Asr,
		"Sunset":     t.Sunset,
		"Maghrib":    t.Maghrib,
		"Isha":       t.Isha,
		"Imsak":      t.Imsak,
		"Midnight":   t.Midnight,
		"Firstthird": t.Firstthird,
		"Lastthird":  t.Lastthird,
	}
	for k, v := range all {
		if v == "" {
			delete(all, k)
		}
	}
	return all
}

// Set returns the six validated instants with suffixes like " (BST)" removed.
func (t Timings) Set() prayer.Set {
	return prayer.Set{
		Fajr:    prayer.Normalize(t.Fajr),
		Sunrise: prayer.Normalize(t.Sunrise),
		Dhuhr:   prayer.Normalize(t.Dhuhr),
		Asr:     prayer.Normalize(t.Asr),
		Maghrib: prayer.Normalize(t.Maghrib),
		Isha:    prayer.Normalize(t.Isha),
	}
}

// DateInfo contains date representations.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date from the API response.
type HijriDate struct {
	Date        string           `json:"date"` // e.g. "10-08-1447"
	Day         string           `json:"day"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // English name, e.g. "Shaʿbān"
	Ar     string `json:"ar"` // Arabic name
}

// HijriDesignation contains the calendar designation labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"` // "AH"
	Expanded    string `json:"expanded"`    // "Anno Hegirae"
}

// Format returns the Hijri date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

// ToDate converts the API's string fields to a hijri.Date.
func (h HijriDate) ToDate() (hijri.Date, error) {
	day, err := strconv.Atoi(h.Day)
	if err != nil {
		return hijri.Date{}, fmt.Errorf("invalid hijri day %q: %w", h.Day, err)
	}
	year, err := strconv.Atoi(h.Year)
	if err != nil {
		return hijri.Date{}, fmt.Errorf("invalid hijri year %q: %w", h.Year, err)
	}
	d := hijri.Date{Day: day, Month: h.Month.Number, Year: year}
	if !d.Valid() {
		return hijri.Date{}, fmt.Errorf("invalid hijri date %q", h.Date)
	}
	return d, nil
}

// GregorianDate represents the Gregorian date from the API response.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "28-02-2026"
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// Time parses the "DD-MM-YYYY" date as midnight UTC.
func (g GregorianDate) Time() (time.Time, error) {
	t, err := time.Parse("02-01-2006", g.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid gregorian date %q: %w", g.Date, err)
	}
	return t, nil
}

// GregorianDay contains the weekday name.
type GregorianDay struct {
	En string `json:"en"` // e.g. "Saturday"
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "February"
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CalendarResponse represents the Al Adhan calendar API response.
// The calendar endpoint returns an array of daily data objects for a whole month.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}

// ConversionData is one day of a calendar conversion response.
type ConversionData struct {
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// ConversionResponse is the gToH response.
type ConversionResponse struct {
	Code   int            `json:"code"`
	Status string         `json:"status"`
	Data   ConversionData `json:"data"`
}

// ConversionCalendarResponse is the hToGCalendar response: one entry per day
// of the Hijri month.
type ConversionCalendarResponse struct {
	Code   int              `json:"code"`
	Status string           `json:"status"`
	Data   []ConversionData `json:"data"`
}

// NewHijriDate renders d in the API's Hijri date shape.
func NewHijriDate(d hijri.Date) HijriDate {
	return HijriDate{
		Date:        d.Numeric(),
		Day:         fmt.Sprintf("%02d", d.Day),
		Month:       HijriMonth{Number: d.Month, En: d.MonthName()},
		Year:        strconv.Itoa(d.Year),
		Designation: HijriDesignation{Abbreviated: "AH", Expanded: "Anno Hegirae"},
	}
}

// NewGregorianDate renders t's calendar day in the API's Gregorian date shape.
func NewGregorianDate(t time.Time) GregorianDate {
	return GregorianDate{
		Date:    t.Format("02-01-2006"),
		Day:     t.Format("02"),
		Weekday: GregorianDay{En: t.Weekday().String()},
		Month:   GregorianMonth{Number: int(t.Month()), En: t.Month().String()},
		Year:    strconv.Itoa(t.Year()),
	}
}
