package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/source"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [days]",
		Short: "Show prayer times for multiple days",
		Long:  "Display a grid of prayer times for N days (default: 7).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, 7)
		},
	}
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Show prayer times for the next 7 days",
		Long:  "Alias for 'list 7'. Display a grid of prayer times for 7 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 7)
		},
	}
}

func newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month",
		Short: "Show prayer times for the next 30 days",
		Long:  "Alias for 'list 30'. Display a grid of prayer times for 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, nil, 30)
		},
	}
}

// runList is the handler for the list subcommand.
func runList(cmd *cobra.Command, args []string, defaultDays int) error {
	days := defaultDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid number of days: %q (must be a positive integer)", args[0])
		}
		days = n
	}

	ctx := cmd.Context()
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

	results, err := s.days(ctx, days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		return printListJSON(cmd, s, results, selected, goTimeFmt)
	}

	printHeader(out, fmt.Sprintf("Prayer Times - %d Days", days), buildLocationStr(s.loc, results[0]))

	headers := append([]string{"Date"}, selected...)
	tbl := display.NewTable(headers...)
	todayStr := s.now.Format("2006-01-02")

	for i, res := range results {
		date, err := s.resultDate(res)
		if err != nil {
			return err
		}
		parsed, err := s.prayers(res, selected)
		if err != nil {
			return err
		}

		row := []string{date.Format("Mon 02 Jan")}
		for _, p := range parsed {
			row = append(row, p.Time.Format(goTimeFmt))
		}
		tbl.AddRow(row...)

		// Highlight today's row.
		if res.Date == todayStr {
			tbl.Highlight(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

// printHeader writes the bold title block shared by the multi-day views.
func printHeader(w io.Writer, title, location string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold(title))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", location)
	fmt.Fprintln(w)
}

// listJSONOutput is the JSON structure for the list command.
type listJSONOutput struct {
	Location todayJSONLocation `json:"location"`
	Days     []listJSONDay     `json:"days"`
}

type listJSONDay struct {
	Date    string            `json:"date"`
	Hijri   string            `json:"hijri"`
	Timings map[string]string `json:"timings"`
}

func printListJSON(cmd *cobra.Command, s *session, results []source.Result, selected []string, goTimeFmt string) error {
	out := listJSONOutput{Location: jsonLocation(s, results[0])}

	for _, res := range results {
		date, err := s.resultDate(res)
		if err != nil {
			return err
		}
		parsed, err := s.prayers(res, selected)
		if err != nil {
			return err
		}

		timings := make(map[string]string)
		for _, p := range parsed {
			timings[strings.ToLower(p.Name)] = p.Time.Format(goTimeFmt)
		}

		out.Days = append(out.Days, listJSONDay{
			Date:    date.Format("02 Jan 2006"),
			Hijri:   s.hijriLabel(cmd.Context(), res),
			Timings: timings,
		})
	}

	return writeJSON(cmd.OutOrStdout(), out)
}
