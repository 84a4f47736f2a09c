package prayer

import (
	"fmt"
	"time"
)

// Names lists the six instants of a Set in their required order.
var Names = [6]string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Set is one day's prayer times as local "HH:MM" strings.
// Its JSON shape matches the timings object of the Al Adhan API, so a set
// computed locally and one fetched remotely can be validated the same way.
type Set struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// Values returns the six times in the order of Names.
func (s Set) Values() [6]string {
	return [6]string{s.Fajr, s.Sunrise, s.Dhuhr, s.Asr, s.Maghrib, s.Isha}
}

// Map returns the set keyed by prayer name, suitable for ParseTimings.
func (s Set) Map() map[string]string {
	v := s.Values()
	m := make(map[string]string, len(Names))
	for i, name := range Names {
		m[name] = v[i]
	}
	return m
}

// Get returns the time for a prayer name.
func (s Set) Get(name string) (string, bool) {
	v, ok := s.Map()[name]
	return v, ok
}

// Prayers parses the set into Prayer values on date in loc.
func (s Set) Prayers(date time.Time, loc *time.Location) ([]Prayer, error) {
	return ParseTimings(s.Map(), date, loc, Names[:])
}

// SetFromMap builds a Set from a name-keyed map, failing if any of the six
// names is missing. Suffixes such as " (BST)" are stripped.
func SetFromMap(m map[string]string) (Set, error) {
	var v [6]string
	for i, name := range Names {
		raw, ok := m[name]
		if !ok {
			return Set{}, fmt.Errorf("missing %s time", name)
		}
		v[i] = Normalize(raw)
	}
	return Set{Fajr: v[0], Sunrise: v[1], Dhuhr: v[2], Asr: v[3], Maghrib: v[4], Isha: v[5]}, nil
}
