package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/smokyabdulrahman/miqat/internal/source"
	"github.com/spf13/cobra"
)

var (
	flagFormat  string
	flagPrayers string
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long: "Display the next upcoming prayer time with a countdown.\n" +
			"Prints a single line, suitable for status bars such as tmux.",
		RunE: runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", prayer.FormatFull, "Display format: "+strings.Join(prayer.Modes(), ", ")+", or a Go template such as \"{{.Name}} in {{.Remaining}}\"")
	cmd.Flags().StringVar(&flagPrayers, "prayers", "", "Comma-separated list of prayers to track (overrides config)")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	// Priority: --prayers flag > config > defaults.
	override := ""
	if cmd.Flags().Changed("prayers") {
		override = flagPrayers
	}
	selected, err := selectedPrayers(cfg, override)
	if err != nil {
		return err
	}
	goTimeFmt := timeLayout(cfg)

	s, err := newSession(ctx, cfg)
	if err != nil {
		return err
	}

	today, err := s.day(ctx, s.today())
	if err != nil {
		return err
	}

	next, err := nextPrayer(ctx, s, today, selected)
	if err != nil {
		// Tomorrow's data is unavailable: show the last prayer with a
		// "done" indicator rather than breaking the status bar.
		prayers, perr := s.prayers(today, selected)
		if perr == nil && len(prayers) > 0 {
			log.Warn().Err(err).Msg("could not determine next prayer")
			fmt.Fprintf(cmd.OutOrStdout(), "%s --:--", prayers[len(prayers)-1].Name)
			return nil
		}
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), prayer.FormatNext(next, s.now, flagFormat, goTimeFmt))
	return nil
}

// nextPrayer finds the first selected prayer after the session's now. When
// every prayer of today has passed it looks at tomorrow's first one.
func nextPrayer(ctx context.Context, s *session, today source.Result, selected []string) (prayer.Next, error) {
	prayers, err := s.prayers(today, selected)
	if err != nil {
		return prayer.Next{}, err
	}
	if p := prayer.NextPrayer(prayers, s.now); p != nil {
		return prayer.Next{Name: p.Name, Time: p.Time, Until: p.Time.Sub(s.now)}, nil
	}

	date, err := s.resultDate(today)
	if err != nil {
		return prayer.Next{}, err
	}
	tomorrow, err := s.day(ctx, date.AddDate(0, 0, 1))
	if err != nil {
		return prayer.Next{}, fmt.Errorf("failed to get tomorrow's times: %w", err)
	}

	if slices.Equal(selected, prayer.DefaultPrayerNames) {
		return prayer.Countdown(today.Set, tomorrow.Set, date, s.now)
	}

	first, err := s.prayers(tomorrow, selected[:1])
	if err != nil {
		return prayer.Next{}, err
	}
	if len(first) == 0 {
		return prayer.Next{}, fmt.Errorf("could not determine next prayer")
	}
	return prayer.Next{Name: first[0].Name, Time: first[0].Time, Until: first[0].Time.Sub(s.now), IsTomorrow: true}, nil
}
