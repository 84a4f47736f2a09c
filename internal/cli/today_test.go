package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/geo"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/source"
)

func TestBuildLocationStr_CityCountry(t *testing.T) {
	loc := resolvedLocation{City: "Riyadh", Country: "Saudi Arabia"}
	result := source.Result{Latitude: 24.7136, Longitude: 46.6753}

	got := buildLocationStr(loc, result)
	want := "Riyadh, Saudi Arabia"
	if got != want {
		t.Errorf("buildLocationStr() = %q, want %q", got, want)
	}
}

func TestBuildLocationStr_CoordsOnly(t *testing.T) {
	loc := resolvedLocation{Coordinate: geo.Coordinate{Lat: 24.7136, Lng: 46.6753}}
	result := source.Result{Latitude: 24.7136, Longitude: 46.6753}

	got := buildLocationStr(loc, result)
	want := "24.7136, 46.6753"
	if got != want {
		t.Errorf("buildLocationStr() = %q, want %q", got, want)
	}
}

func TestFormatGregorianDate(t *testing.T) {
	now := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	got := formatGregorianDate(now)
	want := "Saturday 28 February 2026"
	if got != want {
		t.Errorf("formatGregorianDate() = %q, want %q", got, want)
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"Fajr", 7, "Fajr   "},
		{"Maghrib", 7, "Maghrib"},
		{"Isha", 4, "Isha"},
		{"A", 10, "A         "},
	}

	for _, tt := range tests {
		got := padRight(tt.s, tt.width)
		if got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestMethodLabel(t *testing.T) {
	if got := methodLabel("ISNA", source.OriginLocal); got != "ISNA (computed locally)" {
		t.Errorf("methodLabel(local) = %q", got)
	}
	if got := methodLabel("ISNA", source.OriginRemote); got != "ISNA" {
		t.Errorf("methodLabel(remote) = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	zone := time.FixedZone("+03:00", 3*3600)
	for _, s := range []string{"2024-03-15", "15-03-2024"} {
		got, err := parseDate(s, zone)
		if err != nil {
			t.Fatalf("parseDate(%q): %v", s, err)
		}
		if got.Year() != 2024 || got.Month() != time.March || got.Day() != 15 || got.Location() != zone {
			t.Errorf("parseDate(%q) = %v", s, got)
		}
	}
	for _, s := range []string{"", "2024/03/15", "2024-13-01", "tomorrow"} {
		if _, err := parseDate(s, zone); err == nil {
			t.Errorf("parseDate(%q) should fail", s)
		}
	}
}

func TestParseDays(t *testing.T) {
	tests := map[string]int{"": 1, "week": 7, "month": 30, "3": 3}
	for in, want := range tests {
		got, err := parseDays(in)
		if err != nil || got != want {
			t.Errorf("parseDays(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"0", "-2", "fortnight"} {
		if _, err := parseDays(in); err == nil {
			t.Errorf("parseDays(%q) should fail", in)
		}
	}
}

func TestSelectedPrayers(t *testing.T) {
	cfg := &config.Config{}
	got, err := selectedPrayers(cfg, "")
	if err != nil || len(got) != len(prayer.DefaultPrayerNames) {
		t.Errorf("defaults = %v, %v", got, err)
	}

	cfg.Prayers = "Fajr,Isha"
	got, _ = selectedPrayers(cfg, "")
	if len(got) != 2 || got[1] != "Isha" {
		t.Errorf("config list = %v", got)
	}

	got, _ = selectedPrayers(cfg, " dhuhr , ASR ")
	if len(got) != 2 || got[0] != "Dhuhr" || got[1] != "Asr" {
		t.Errorf("override = %v, want canonical [Dhuhr Asr]", got)
	}

	if _, err := selectedPrayers(cfg, "Fajr,Brunch"); err == nil {
		t.Error("unknown prayer should fail")
	}
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 23: "23rd", 29: "29th", 101: "101st"}
	for n, want := range tests {
		if got := ordinal(n); got != want {
			t.Errorf("ordinal(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatConfigValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{"city", "", "(not set)"},
		{"city", "Riyadh", "Riyadh"},
		{"method", "ISNA", "ISNA (Islamic Society of North America)"},
		{"method", "custom", "custom"},
		{"madhab", "standard", "standard (Shafi'i, Maliki, Hanbali)"},
		{"madhab", "hanafi", "hanafi (Asr at twice the shadow length)"},
		{"hijri_offset", "0", "0"},
		{"hijri_offset", "1", "+1 day"},
		{"hijri_offset", "-2", "-2 days"},
	}
	for _, tt := range tests {
		if got := formatConfigValue(tt.key, tt.val); got != tt.want {
			t.Errorf("formatConfigValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}

func TestDecodeTimings(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"plain", `{"fajr":"05:13 (+03)","Isha":"20:00","Extra":"x","count":3}`},
		{"timings field", `{"timings":{"Fajr":"05:13","isha":"20:00"}}`},
		{"response", `{"code":200,"data":{"timings":{"Fajr":"05:13","Isha":"20:00 (AST)"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeTimings([]byte(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 2 || got["Fajr"] != "05:13" || got["Isha"] != "20:00" {
				t.Errorf("decodeTimings = %v", got)
			}
		})
	}

	if _, err := decodeTimings([]byte(`[1,2]`)); err == nil {
		t.Error("array should fail")
	}
}

// dayStub serves fixed prayer times for any day.
type dayStub struct {
	set   prayer.Set
	calls int
	err   error
}

func (d *dayStub) Day(_ context.Context, req source.Request) (source.Result, error) {
	d.calls++
	if d.err != nil && d.calls > 1 {
		return source.Result{}, d.err
	}
	return source.Result{
		Date:    req.Date.Format("2006-01-02"),
		Timings: d.set.Map(),
		Set:     d.set,
		Origin:  source.OriginLocal,
	}, nil
}

func stubSession(p source.Provider, now time.Time) *session {
	return &session{
		cfg:       &config.Config{},
		zone:      now.Location(),
		now:       now,
		provider:  p,
		zoneFixed: true,
	}
}

var stubSet = prayer.Set{Fajr: "05:17", Sunrise: "06:48", Dhuhr: "12:13", Asr: "15:02", Maghrib: "17:39", Isha: "19:10"}

func TestNextPrayer_Today(t *testing.T) {
	p := &dayStub{set: stubSet}
	s := stubSession(p, time.Date(2026, 2, 28, 13, 0, 0, 0, time.UTC))

	today, err := s.day(context.Background(), s.today())
	if err != nil {
		t.Fatal(err)
	}
	next, err := nextPrayer(context.Background(), s, today, prayer.DefaultPrayerNames)
	if err != nil {
		t.Fatal(err)
	}
	if next.Name != "Asr" || next.IsTomorrow || next.Until != 2*time.Hour+2*time.Minute {
		t.Errorf("next = %+v, want Asr in 2h2m", next)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
}

func TestNextPrayer_AfterIsha(t *testing.T) {
	p := &dayStub{set: stubSet}
	s := stubSession(p, time.Date(2026, 2, 28, 22, 0, 0, 0, time.UTC))

	today, _ := s.day(context.Background(), s.today())
	next, err := nextPrayer(context.Background(), s, today, prayer.DefaultPrayerNames)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 3, 1, 5, 17, 0, 0, time.UTC)
	if next.Name != "Fajr" || !next.IsTomorrow || !next.Time.Equal(want) {
		t.Errorf("next = %+v, want tomorrow's Fajr at %v", next, want)
	}
}

func TestNextPrayer_CustomSelectionWrapsToTomorrow(t *testing.T) {
	p := &dayStub{set: stubSet}
	s := stubSession(p, time.Date(2026, 2, 28, 16, 0, 0, 0, time.UTC))

	today, _ := s.day(context.Background(), s.today())
	next, err := nextPrayer(context.Background(), s, today, []string{"Dhuhr", "Asr"})
	if err != nil {
		t.Fatal(err)
	}
	if next.Name != "Dhuhr" || !next.IsTomorrow || next.Time.Day() != 1 {
		t.Errorf("next = %+v, want tomorrow's Dhuhr", next)
	}
}

func TestNextPrayer_TomorrowUnavailable(t *testing.T) {
	boom := errors.New("offline")
	p := &dayStub{set: stubSet, err: boom}
	s := stubSession(p, time.Date(2026, 2, 28, 22, 0, 0, 0, time.UTC))

	today, _ := s.day(context.Background(), s.today())
	_, err := nextPrayer(context.Background(), s, today, prayer.DefaultPrayerNames)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestSessionAdoptsRemoteZone(t *testing.T) {
	s := stubSession(nil, time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC))
	s.zoneFixed = false

	s.adopt(source.Result{Timezone: "Asia/Riyadh"})
	if s.zone.String() != "Asia/Riyadh" || s.now.Hour() != 15 {
		t.Errorf("zone = %v, now = %v", s.zone, s.now)
	}

	// Once fixed, later results don't move it.
	s.adopt(source.Result{Timezone: "Europe/London"})
	if s.zone.String() != "Asia/Riyadh" {
		t.Errorf("zone moved to %v", s.zone)
	}
}

// TestCurrentAndNext_Consistency verifies that CurrentPrayer and NextPrayer
// are consistent: at any point in time, current should be the prayer before next.
func TestCurrentAndNext_Consistency(t *testing.T) {
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	prayers, err := prayer.ParseTimings(stubSet.Map(), date, time.UTC, prayer.DefaultPrayerNames)
	if err != nil {
		t.Fatal(err)
	}

	// At 13:00: current=Dhuhr, next=Asr
	now := time.Date(2026, 2, 28, 13, 0, 0, 0, time.UTC)
	current := prayer.CurrentPrayer(prayers, now)
	next := prayer.NextPrayer(prayers, now)

	if current == nil || next == nil {
		t.Fatal("expected both current and next")
	}
	if current.Name != "Dhuhr" {
		t.Errorf("current = %s, want Dhuhr", current.Name)
	}
	if next.Name != "Asr" {
		t.Errorf("next = %s, want Asr", next.Name)
	}
}
