package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/source"
	"github.com/spf13/cobra"
)

var flagQueryDays string

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <prayer>",
		Short: "Query a specific prayer time",
		Long: "Query a specific prayer time for today, or across multiple days with --days.\n\n" +
			"Valid prayer names: " + strings.Join(prayer.AllPrayerNames, ", "),
		Args: cobra.ExactArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&flagQueryDays, "days", "", "Number of days to show (or 'week'/'month')")

	return cmd
}

// parseDays reads the --days value.
func parseDays(v string) (int, error) {
	switch v {
	case "":
		return 1, nil
	case "week":
		return 7, nil
	case "month":
		return 30, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid --days value %q: must be a positive integer, 'week', or 'month'", v)
	}
	return n, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	prayerName, ok := prayer.CanonicalName(args[0])
	if !ok {
		return fmt.Errorf("unknown prayer %q; valid names: %s", args[0], strings.Join(prayer.AllPrayerNames, ", "))
	}

	days, err := parseDays(flagQueryDays)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, err := effectiveConfig(cmd)
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

	if days == 1 {
		return runQuerySingleDay(cmd, s, prayerName, results[0], goTimeFmt)
	}
	return runQueryMultiDay(cmd, s, prayerName, results, goTimeFmt)
}

func runQuerySingleDay(cmd *cobra.Command, s *session, prayerName string, result source.Result, goTimeFmt string) error {
	parsed, err := s.prayers(result, []string{prayerName})
	if err != nil {
		return err
	}
	if len(parsed) == 0 {
		return fmt.Errorf("no timing found for %s", prayerName)
	}
	timeStr := parsed[0].Time.Format(goTimeFmt)

	if FlagJSON {
		date, _ := s.resultDate(result)
		return writeJSON(cmd.OutOrStdout(), queryJSONSingle{
			Prayer: strings.ToLower(prayerName),
			Time:   timeStr,
			Date:   date.Format("02 Jan 2006"),
			Hijri:  s.hijriLabel(cmd.Context(), result),
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", prayerName, timeStr)
	return nil
}

func runQueryMultiDay(cmd *cobra.Command, s *session, prayerName string, results []source.Result, goTimeFmt string) error {
	rows := make([]queryJSONDay, 0, len(results))
	for _, res := range results {
		date, err := s.resultDate(res)
		if err != nil {
			return err
		}
		parsed, err := s.prayers(res, []string{prayerName})
		if err != nil {
			return err
		}

		timeStr := ""
		if len(parsed) > 0 {
			timeStr = parsed[0].Time.Format(goTimeFmt)
		}

		row := queryJSONDay{Date: date.Format("Mon 02 Jan"), Time: timeStr}
		if FlagJSON {
			row.Date = date.Format("02 Jan 2006")
			row.Hijri = s.hijriLabel(cmd.Context(), res)
		}
		rows = append(rows, row)
	}

	if FlagJSON {
		return writeJSON(cmd.OutOrStdout(), queryJSONMulti{
			Location: jsonLocation(s, results[0]),
			Prayer:   strings.ToLower(prayerName),
			Days:     rows,
		})
	}

	out := cmd.OutOrStdout()
	printHeader(out, fmt.Sprintf("%s Times - %d Days", prayerName, len(results)), buildLocationStr(s.loc, results[0]))

	tbl := display.NewTable("Date", prayerName)
	todayStr := s.now.Format("2006-01-02")
	for i, row := range rows {
		tbl.AddRow(row.Date, row.Time)
		if results[i].Date == todayStr {
			tbl.Highlight(i)
		}
	}

	fmt.Fprint(out, tbl.Render())
	fmt.Fprintln(out)
	return nil
}

type queryJSONSingle struct {
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
	Date   string `json:"date"`
	Hijri  string `json:"hijri"`
}

type queryJSONMulti struct {
	Location todayJSONLocation `json:"location"`
	Prayer   string            `json:"prayer"`
	Days     []queryJSONDay    `json:"days"`
}

type queryJSONDay struct {
	Date  string `json:"date"`
	Hijri string `json:"hijri"`
	Time  string `json:"time"`
}
