package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/source"
	"github.com/spf13/cobra"
)

func runToday(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Get merged config (CLI flags > environment > config file > defaults).
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	selected, err := selectedPrayers(cfg, "")
	if err != nil {
		return err
	}
	goTimeFmt := timeLayout(cfg)

	s, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}

	// Fetch today's timings.
	result, err := s.day(ctx, s.today())
	if err != nil {
		return err
	}

	prayers, err := s.prayers(result, selected)
	if err != nil {
		return err
	}

	// Find current and next prayers.
	current := prayer.CurrentPrayer(prayers, s.now)
	next := prayer.NextPrayer(prayers, s.now)

	v := todayView{
		Location:  buildLocationStr(s.loc, result),
		Timezone:  s.zone.String(),
		Gregorian: formatGregorianDate(s.now),
		Hijri:     s.hijriLabel(ctx, result),
		Method:    result.Method,
		Origin:    result.Origin,
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printTodayJSON(out, prayers, current, next, s, result, v, goTimeFmt)
	}

	printTodayRich(out, prayers, current, next, s.now, v, goTimeFmt)
	return nil
}

// todayView holds the header lines of the schedule.
type todayView struct {
	Location  string
	Timezone  string
	Gregorian string
	Hijri     string
	Method    string
	Origin    string
}

// buildLocationStr builds a "City, Country" string from available data.
func buildLocationStr(loc resolvedLocation, result source.Result) string {
	if loc.City != "" && loc.Country != "" {
		return loc.City + ", " + loc.Country
	}
	// Fall back to coordinates.
	return fmt.Sprintf("%.4f, %.4f", result.Latitude, result.Longitude)
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func printTodayRich(w io.Writer, prayers []prayer.Prayer, current, next *prayer.Prayer, now time.Time, v todayView, goTimeFmt string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", v.Location)
	fmt.Fprintf(w, "  %s\n", v.Timezone)
	fmt.Fprintf(w, "  %s\n", v.Gregorian)
	if v.Hijri != "" {
		fmt.Fprintf(w, "  %s\n", v.Hijri)
	}
	if v.Method != "" {
		fmt.Fprintf(w, "  %s\n", display.Gray(methodLabel(v.Method, v.Origin)))
	}

	fmt.Fprintln(w)

	// Find the max prayer name length for alignment.
	maxNameLen := 0
	for _, p := range prayers {
		if len(p.Name) > maxNameLen {
			maxNameLen = len(p.Name)
		}
	}

	for _, p := range prayers {
		timeStr := p.Time.Format(goTimeFmt)
		line := fmt.Sprintf("  %s  %s", padRight(p.Name, maxNameLen), timeStr)

		switch {
		case current != nil && p.Name == current.Name:
			fmt.Fprintln(w, display.Dim(line))
		case next != nil && p.Name == next.Name:
			remaining := prayer.FormatRemaining(prayer.TimeRemaining(p, now))
			suffix := fmt.Sprintf("  <- next in %s", remaining)
			fmt.Fprintln(w, display.Accent(line)+display.Accent(suffix))
		default:
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintln(w)
}

// methodLabel describes where the times came from, e.g. "ISNA (computed locally)".
func methodLabel(method, origin string) string {
	if origin == source.OriginLocal {
		return method + " (computed locally)"
	}
	return method
}

// formatGregorianDate returns a formatted Gregorian date string.
func formatGregorianDate(now time.Time) string {
	return now.Format("Monday 02 January 2006")
}

// padRight pads a string to the given width with spaces.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// todayJSON is the JSON output structure for the root command.
type todayJSON struct {
	Location todayJSONLocation `json:"location"`
	Date     todayJSONDate     `json:"date"`
	Method   string            `json:"method,omitempty"`
	Origin   string            `json:"origin,omitempty"`
	Timings  map[string]string `json:"timings"`
	Current  string            `json:"current"`
	Next     *todayJSONNext    `json:"next"`
}

type todayJSONLocation struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type todayJSONDate struct {
	Gregorian string `json:"gregorian"`
	Hijri     string `json:"hijri"`
}

type todayJSONNext struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func jsonLocation(s *session, result source.Result) todayJSONLocation {
	return todayJSONLocation{
		City:      s.loc.City,
		Country:   s.loc.Country,
		Timezone:  s.zone.String(),
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
	}
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, prayers []prayer.Prayer, current, next *prayer.Prayer, s *session, result source.Result, v todayView, goTimeFmt string) error {
	timings := make(map[string]string)
	for _, p := range prayers {
		timings[strings.ToLower(p.Name)] = p.Time.Format(goTimeFmt)
	}

	out := todayJSON{
		Location: jsonLocation(s, result),
		Date: todayJSONDate{
			Gregorian: s.now.Format("02 Jan 2006"),
			Hijri:     v.Hijri,
		},
		Method:  result.Method,
		Origin:  result.Origin,
		Timings: timings,
	}

	if current != nil {
		out.Current = strings.ToLower(current.Name)
	}

	if next != nil {
		out.Next = &todayJSONNext{
			Prayer:    strings.ToLower(next.Name),
			Time:      next.Time.Format(goTimeFmt),
			Remaining: prayer.FormatRemaining(prayer.TimeRemaining(*next, s.now)),
		}
	}

	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
