package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/miqat/internal/calc"
	"github.com/smokyabdulrahman/miqat/internal/config"
	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or modify configuration",
		Long:  "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\n"+
			"Every key can also be set with a %s<KEY> environment variable.\n\n"+
			"Examples:\n"+
			"  miqat config set city Riyadh\n"+
			"  miqat config set country \"Saudi Arabia\"\n"+
			"  miqat config set method Makkah\n"+
			"  miqat config set madhab hanafi\n"+
			"  miqat config set hijri_offset -1\n"+
			"  miqat config set source local\n"+
			"  miqat config set prayers Fajr,Dhuhr,Asr,Maghrib,Isha",
			strings.Join(config.ValidKeys, ", "), config.EnvPrefix),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		fmt.Fprintf(out, "  %-14s %s\n", key, formatConfigValue(key, val))
	}
	return nil
}

// formatConfigValue adds descriptive labels to stored values.
func formatConfigValue(key, val string) string {
	if val == "" {
		return "(not set)"
	}
	switch key {
	case "method":
		return formatMethodValue(val)
	case "madhab":
		return formatMadhabValue(val)
	case "hijri_offset":
		return formatOffsetValue(val)
	}
	return val
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	stored, _ := cfg.Get(key)
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, stored)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// formatMethodValue adds the authority name to the method ID.
func formatMethodValue(val string) string {
	m, err := calc.LookupMethod(val)
	if err != nil {
		return val
	}
	return fmt.Sprintf("%s (%s)", m.ID, m.Name)
}

// formatMadhabValue names the schools that follow the Asr convention.
func formatMadhabValue(val string) string {
	m, err := calc.LookupMadhab(val)
	if err != nil {
		return val
	}
	if m == calc.Hanafi {
		return "hanafi (Asr at twice the shadow length)"
	}
	return "standard (Shafi'i, Maliki, Hanbali)"
}

// formatOffsetValue renders a Hijri offset as "+1 day".
func formatOffsetValue(val string) string {
	n, err := strconv.Atoi(val)
	if err != nil || n == 0 {
		return val
	}
	unit := "days"
	if n == 1 || n == -1 {
		unit = "day"
	}
	return fmt.Sprintf("%+d %s", n, unit)
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List all calculation methods",
		Long:  "Print the table of supported calculation methods with their twilight angles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Supported calculation methods:")
			fmt.Fprintln(out)

			tbl := display.NewTable("ID", "Al Adhan", "Fajr", "Isha", "Maghrib", "Authority")
			tbl.AlignRight(1)
			for _, m := range calc.Methods() {
				maghrib := "sunset"
				if !m.Maghrib.IsZero() {
					maghrib = m.Maghrib.String()
				}
				tbl.AddRow(
					string(m.ID),
					strconv.Itoa(m.AladhanID),
					calc.Angle(m.FajrAngle).String(),
					m.Isha.String(),
					maghrib,
					m.Name,
				)
			}
			fmt.Fprint(out, tbl.Render())

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Use --method <ID> to select a calculation method; the Al Adhan number works too.")
			fmt.Fprintln(out, "If omitted, the API picks a default for your location and local computation uses MWL.")
			return nil
		},
	}
}
