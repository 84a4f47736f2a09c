package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/logging"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Global flags shared across all subcommands.
var (
	FlagCity        string
	FlagCountry     string
	FlagLatitude    float64
	FlagLongitude   float64
	FlagTimezone    string
	FlagMethod      string
	FlagMadhab      string
	FlagHijriOffset int
	FlagSource      string
	FlagDate        string
	FlagJSON        bool
	FlagCacheDir    string
	FlagRedisAddr   string
	FlagTimeFormat  string
	FlagLogLevel    string
	FlagLogFormat   string
)

// loadedConfig holds the config file merged with the MIQAT_* environment,
// loaded during PersistentPreRunE.
var loadedConfig *config.Config

// stringFlags maps string flags onto config keys. They are applied through
// config.Set so flag values are validated exactly like stored ones.
var stringFlags = []struct {
	flag  string
	key   string
	value *string
}{
	{"city", "city", &FlagCity},
	{"country", "country", &FlagCountry},
	{"timezone", "timezone", &FlagTimezone},
	{"method", "method", &FlagMethod},
	{"madhab", "madhab", &FlagMadhab},
	{"source", "source", &FlagSource},
	{"cache-dir", "cache_dir", &FlagCacheDir},
	{"redis-addr", "redis_addr", &FlagRedisAddr},
	{"time-format", "time_format", &FlagTimeFormat},
	{"log-level", "log_level", &FlagLogLevel},
}

// NewRootCmd creates the root command for the miqat CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "miqat",
		Short: "Islamic prayer times and Hijri calendar",
		Long: "Prayer times from the Al Adhan API or computed on-device, with Hijri dates,\n" +
			"a Ramadan tracker and an HTTP API.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.ApplyEnv(); err != nil {
				return fmt.Errorf("invalid environment: %w", err)
			}
			loadedConfig = cfg

			level := cfg.LogLevel
			if flagWasSet(cmd.Flags(), cmd.Root().PersistentFlags(), "log-level") {
				level = FlagLogLevel
			}
			return logging.Setup(level, FlagLogFormat, os.Stderr)
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "Override city (takes precedence over config)")
	pf.StringVar(&FlagCountry, "country", "", "Override country")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA zone or UTC offset, e.g. Asia/Riyadh or +03:00")
	pf.StringVar(&FlagMethod, "method", "", "Calculation method, e.g. ISNA, Makkah or an Al Adhan ID (see 'miqat methods')")
	pf.StringVar(&FlagMadhab, "madhab", "", "Asr convention: standard or hanafi")
	pf.IntVar(&FlagHijriOffset, "hijri-offset", 0, "Moon-sighting adjustment in days (-3..3)")
	pf.StringVar(&FlagSource, "source", "", "Prayer time source: auto, remote or local")
	pf.StringVar(&FlagDate, "date", "", "Date to show instead of today (YYYY-MM-DD)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory (default: ~/.cache/miqat/)")
	pf.StringVar(&FlagRedisAddr, "redis-addr", "", "Share cached times through the Redis server at host:port")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&FlagLogFormat, "log-format", logging.FormatConsole, "Log format: console or json")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newRamadanCmd())
	rootCmd.AddCommand(newHijriCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("miqat %s\n", version)
}

// effectiveConfig returns the merged configuration values, applying the
// priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if loadedConfig != nil {
		merged := *loadedConfig
		cfg = &merged
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	for _, f := range stringFlags {
		if !flagWasSet(flags, root, f.flag) {
			continue
		}
		if err := cfg.Set(f.key, *f.value); err != nil {
			return nil, fmt.Errorf("--%s: %w", f.flag, err)
		}
	}
	if flagWasSet(flags, root, "hijri-offset") {
		if err := cfg.Set("hijri_offset", strconv.Itoa(FlagHijriOffset)); err != nil {
			return nil, fmt.Errorf("--hijri-offset: %w", err)
		}
	}
	if flagWasSet(flags, root, "latitude") {
		cfg.Latitude = FlagLatitude
	}
	if flagWasSet(flags, root, "longitude") {
		cfg.Longitude = FlagLongitude
	}

	// A city given on the command line replaces configured coordinates.
	if flagWasSet(flags, root, "city") && !flagWasSet(flags, root, "latitude") && !flagWasSet(flags, root, "longitude") {
		cfg.Latitude, cfg.Longitude = 0, 0
	}

	defaults := config.Defaults()
	if cfg.Madhab == "" {
		cfg.Madhab = defaults.Madhab
	}
	if cfg.HijriOffset == nil {
		cfg.HijriOffset = defaults.HijriOffset
	}
	if cfg.Source == "" {
		cfg.Source = defaults.Source
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// selectedPrayers returns the prayers to track: override if non-empty,
// then the configured list, then the defaults.
func selectedPrayers(cfg *config.Config, override string) ([]string, error) {
	list := cfg.Prayers
	if override != "" {
		list = override
	}
	if list == "" {
		return prayer.DefaultPrayerNames, nil
	}

	var names []string
	for _, raw := range strings.Split(list, ",") {
		name, ok := prayer.CanonicalName(strings.TrimSpace(raw))
		if !ok {
			return nil, fmt.Errorf("unknown prayer %q; valid names: %s", strings.TrimSpace(raw), strings.Join(prayer.AllPrayerNames, ", "))
		}
		names = append(names, name)
	}
	return names, nil
}

// timeLayout returns the Go layout for the configured time format.
func timeLayout(cfg *config.Config) string {
	if cfg.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}
