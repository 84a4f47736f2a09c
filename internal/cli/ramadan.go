package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/ramadan"
	"github.com/spf13/cobra"
)

func newRamadanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ramadan",
		Short: "Show the current or next Ramadan",
		Long: "Show when the current or next Ramadan starts and ends, how far into it today is,\n" +
			"and the evenings on which the odd nights of the last ten begin.\n\n" +
			"Use --hijri-offset to follow a local moon sighting.",
		Args: cobra.NoArgs,
		RunE: runRamadan,
	}
}

func runRamadan(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newCalendarSession(cfg)
	if err != nil {
		return err
	}

	w, st, err := ramadan.NewResolver(s.hijri).Resolve(cmd.Context(), s.now, s.offset)
	if err != nil {
		return err
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), newRamadanJSON(w, st, s.offset))
	}
	printRamadanRich(cmd.OutOrStdout(), w, st, s.offset)
	return nil
}

// ordinal renders 21 as "21st".
func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func printRamadanRich(w io.Writer, win ramadan.Window, st ramadan.Status, offset int) {
	const dateFmt = "Mon 02 Jan 2006"

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(fmt.Sprintf("Ramadan %d AH", win.HijriYear)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Starts  %s\n", win.Start.Format(dateFmt))
	fmt.Fprintf(w, "  Ends    %s  %s\n", win.End.Format(dateFmt), display.Gray(fmt.Sprintf("(%d days)", win.Days())))
	if offset != 0 {
		fmt.Fprintf(w, "  Offset  %s\n", formatOffsetValue(fmt.Sprint(offset)))
	}
	fmt.Fprintln(w)

	switch {
	case st.IsRamadan && st.CurrentDay != nil:
		remaining := 0
		if st.DaysRemaining != nil {
			remaining = *st.DaysRemaining
		}
		fmt.Fprintf(w, "  %s  %s  %s\n",
			display.Accent(fmt.Sprintf("Day %d of %d", *st.CurrentDay, win.Days())),
			display.ProgressBar(*st.CurrentDay, win.Days(), 30),
			display.Gray(fmt.Sprintf("%d remaining", remaining)))
	case st.DaysUntil != nil:
		fmt.Fprintf(w, "  %s\n", display.Accent(fmt.Sprintf("%d days until Ramadan", *st.DaysUntil)))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", display.Bold("Odd nights of the last ten"))
	for i, night := range win.OddNights() {
		fmt.Fprintf(w, "  %-5s  %s evening\n", ordinal(21+2*i), night.Format(dateFmt))
	}
	fmt.Fprintln(w)
}

// ramadanJSON is the JSON output of the ramadan command.
type ramadanJSON struct {
	HijriYear int            `json:"hijri_year"`
	Start     string         `json:"start"`
	End       string         `json:"end"`
	Days      int            `json:"days"`
	Offset    int            `json:"offset"`
	Status    ramadan.Status `json:"status"`
	OddNights []string       `json:"odd_nights"`
}

func newRamadanJSON(w ramadan.Window, st ramadan.Status, offset int) ramadanJSON {
	out := ramadanJSON{
		HijriYear: w.HijriYear,
		Start:     w.Start.Format(time.DateOnly),
		End:       w.End.Format(time.DateOnly),
		Days:      w.Days(),
		Offset:    offset,
		Status:    st,
	}
	for _, n := range w.OddNights() {
		out.OddNights = append(out.OddNights, n.Format(time.DateOnly))
	}
	return out
}
