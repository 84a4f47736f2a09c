package calc

import (
	"fmt"
	"strings"
)

// Madhab selects the Asr shadow convention.
type Madhab int

// The value of a Madhab is its shadow multiplier.
const (
	Standard Madhab = 1 // Shafi'i, Maliki and Hanbali
	Hanafi   Madhab = 2
)

var madhabIndex = map[string]Madhab{
	"standard": Standard,
	"shafi":    Standard,
	"shafii":   Standard,
	"maliki":   Standard,
	"hanbali":  Standard,
	"0":        Standard,
	"hanafi":   Hanafi,
	"1":        Hanafi,
}

// LookupMadhab resolves a madhab name (case-insensitive) or an Al Adhan
// school ID ("0" standard, "1" Hanafi).
func LookupMadhab(id string) (Madhab, error) {
	m, ok := madhabIndex[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownMadhab, id)
	}
	return m, nil
}

// ShadowFactor returns the shadow length multiplier used for Asr.
func (m Madhab) ShadowFactor() float64 { return float64(m) }

// School returns the Al Adhan school parameter for m.
func (m Madhab) School() int {
	if m == Hanafi {
		return 1
	}
	return 0
}

func (m Madhab) String() string {
	switch m {
	case Standard:
		return "Standard"
	case Hanafi:
		return "Hanafi"
	default:
		return fmt.Sprintf("Madhab(%d)", int(m))
	}
}
