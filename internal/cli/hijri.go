package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/spf13/cobra"
)

func newHijriCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hijri [date]",
		Short: "Convert a Gregorian date to the Hijri calendar",
		Long: "Print the Hijri date of today, or of the given date (YYYY-MM-DD).\n" +
			"The moon-sighting offset (--hijri-offset or config hijri_offset) is applied.",
		Args: cobra.MaximumNArgs(1),
		RunE: runHijri,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "month <month> <year>",
		Short: "List the Gregorian days of a Hijri month",
		Args:  cobra.ExactArgs(2),
		RunE:  runHijriMonth,
	})

	return cmd
}

type hijriJSON struct {
	Gregorian string     `json:"gregorian"`
	Hijri     hijri.Date `json:"hijri"`
	Formatted string     `json:"formatted"`
	Offset    int        `json:"offset"`
}

func runHijri(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newCalendarSession(cfg)
	if err != nil {
		return err
	}

	date := s.today()
	if len(args) == 1 {
		if date, err = parseDate(args[0], s.zone); err != nil {
			return err
		}
	}

	h, err := hijri.Shift(cmd.Context(), s.hijri, date, s.offset)
	if err != nil {
		return err
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), hijriJSON{
			Gregorian: date.Format(time.DateOnly),
			Hijri:     h,
			Formatted: h.String(),
			Offset:    s.offset,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), h.String())
	return nil
}

type hijriMonthDay struct {
	Hijri     string `json:"hijri"`
	Gregorian string `json:"gregorian"`
}

func runHijriMonth(cmd *cobra.Command, args []string) error {
	month, err := strconv.Atoi(args[0])
	if err != nil || month < 1 || month > 12 {
		return fmt.Errorf("invalid hijri month %q: must be 1-12", args[0])
	}
	year, err := strconv.Atoi(args[1])
	if err != nil || year < 1 {
		return fmt.Errorf("invalid hijri year %q", args[1])
	}

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newCalendarSession(cfg)
	if err != nil {
		return err
	}

	days, err := s.hijri.MonthToGregorian(cmd.Context(), month, year)
	if err != nil {
		return err
	}

	// With an offset of +1 the Hijri date runs a day ahead, so each Hijri
	// day falls one Gregorian day earlier.
	rows := make([]hijriMonthDay, len(days))
	for i, d := range days {
		h := hijri.Date{Day: i + 1, Month: month, Year: year}
		rows[i] = hijriMonthDay{
			Hijri:     h.Numeric(),
			Gregorian: d.AddDate(0, 0, -s.offset).Format(time.DateOnly),
		}
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), rows)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("%s %d AH", hijri.MonthName(month), year)))
	fmt.Fprintln(out)

	tbl := display.NewTable("Day", "Gregorian")
	tbl.AlignRight(0)
	for i, r := range rows {
		g, _ := time.Parse(time.DateOnly, r.Gregorian)
		tbl.AddRow(strconv.Itoa(i+1), g.Format("Mon 02 Jan 2006"))
	}
	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}
