package prayer

import "fmt"

// Validate reports whether every time in s is a well-formed 24-hour "HH:MM"
// string and the six times are strictly increasing within the day.
// It applies equally to locally computed sets and sets parsed from a remote
// response, and never panics.
func Validate(s Set) bool {
	prev := -1
	for _, v := range s.Values() {
		m, ok := ClockMinutes(v)
		if !ok || m <= prev {
			return false
		}
		prev = m
	}
	return true
}

// ValidateMap validates the named times of m in the given order.
// Missing names fail validation.
func ValidateMap(m map[string]string, order []string) bool {
	if len(order) == 0 {
		return false
	}
	prev := -1
	for _, name := range order {
		v, ok := m[name]
		if !ok {
			return false
		}
		mins, ok := ClockMinutes(v)
		if !ok || mins <= prev {
			return false
		}
		prev = mins
	}
	return true
}

// ClockMinutes parses a strict "HH:MM" (00:00 through 23:59) into minutes
// since midnight. The second result is false for anything else.
func ClockMinutes(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatClock renders minutes since midnight as "HH:MM".
// Values outside a single day are wrapped into it.
func FormatClock(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
