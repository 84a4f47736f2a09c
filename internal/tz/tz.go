// Package tz resolves the time zone settings accepted on the command line
// and in the config file.
package tz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidZone is returned for a zone that is neither a known IANA name nor
// a fixed offset.
var ErrInvalidZone = errors.New("invalid time zone")

// Parse resolves an IANA zone name ("Asia/Riyadh"), "UTC", "Local", or a
// fixed offset such as "+03:00", "-0530", "+3" or "UTC+3".
func Parse(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "":
		return nil, fmt.Errorf("%w: empty", ErrInvalidZone)
	case "UTC", "GMT", "Z":
		return time.UTC, nil
	case "LOCAL":
		return time.Local, nil
	}

	if off, ok := parseOffset(s); ok {
		return time.FixedZone(FormatOffset(off), off*60), nil
	}

	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidZone, s, err)
	}
	return loc, nil
}

// parseOffset parses "+03:00", "-0530", "+3" and the same with a "UTC" or
// "GMT" prefix into minutes east of UTC.
func parseOffset(s string) (int, bool) {
	up := strings.ToUpper(s)
	up = strings.TrimPrefix(strings.TrimPrefix(up, "UTC"), "GMT")
	if len(up) < 2 || (up[0] != '+' && up[0] != '-') {
		return 0, false
	}
	sign := 1
	if up[0] == '-' {
		sign = -1
	}
	body := up[1:]

	var h, m int
	var err error
	switch {
	case strings.Contains(body, ":"):
		parts := strings.SplitN(body, ":", 2)
		if h, err = strconv.Atoi(parts[0]); err != nil {
			return 0, false
		}
		if m, err = strconv.Atoi(parts[1]); err != nil {
			return 0, false
		}
	case len(body) == 4:
		if h, err = strconv.Atoi(body[:2]); err != nil {
			return 0, false
		}
		if m, err = strconv.Atoi(body[2:]); err != nil {
			return 0, false
		}
	case len(body) <= 2:
		if h, err = strconv.Atoi(body); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	if h > 14 || m > 59 || h < 0 || m < 0 {
		return 0, false
	}
	return sign * (h*60 + m), true
}

// FormatOffset renders minutes east of UTC as "+03:00".
func FormatOffset(minutes int) string {
	sign := '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("%c%02d:%02d", sign, minutes/60, minutes%60)
}

// OffsetMinutes returns loc's UTC offset in minutes on date's calendar day.
// The offset is taken at local noon so that daylight saving transitions,
// which happen at night, resolve to the offset in force for most of the day.
func OffsetMinutes(loc *time.Location, date time.Time) int {
	y, m, d := date.Date()
	_, off := time.Date(y, m, d, 12, 0, 0, 0, loc).Zone()
	return off / 60
}
