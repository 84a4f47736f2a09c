package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/smokyabdulrahman/miqat/internal/display"
	"github.com/smokyabdulrahman/miqat/internal/prayer"
	"github.com/spf13/cobra"
)

// errInvalidTimings is returned when a set of times fails validation, so the
// command exits non-zero.
var errInvalidTimings = errors.New("prayer times are invalid")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a set of prayer times",
		Long: "Read prayer times as JSON from a file, or stdin when no file or \"-\" is given,\n" +
			"and check that Fajr, Sunrise, Dhuhr, Asr, Maghrib and Isha are well-formed\n" +
			"HH:MM times in increasing order.\n\n" +
			"Accepts a plain object ({\"Fajr\": \"05:13\", ...}), an object with a \"timings\"\n" +
			"field, or a full Al Adhan timings response.",
		Args: cobra.MaximumNArgs(1),
		RunE: runValidate,
	}
}

type validateJSON struct {
	Valid   bool              `json:"valid"`
	Timings map[string]string `json:"timings"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read timings: %w", err)
	}

	timings, err := decodeTimings(data)
	if err != nil {
		return err
	}
	valid := prayer.ValidateMap(timings, prayer.Names[:])

	out := cmd.OutOrStdout()
	if FlagJSON {
		if err := writeJSON(out, validateJSON{Valid: valid, Timings: timings}); err != nil {
			return err
		}
	} else {
		for _, name := range prayer.Names {
			v, ok := timings[name]
			if !ok {
				v = display.Yellow("missing")
			}
			fmt.Fprintf(out, "  %s  %s\n", padRight(name, 7), v)
		}
		if valid {
			fmt.Fprintf(out, "\n  %s\n", display.Green("valid"))
		}
	}

	if !valid {
		return errInvalidTimings
	}
	return nil
}

// decodeTimings extracts a name -> "HH:MM" map from any of the accepted
// shapes. Names are canonicalized and values normalized; unknown names are
// dropped.
func decodeTimings(data []byte) (map[string]string, error) {
	var envelope struct {
		Data *struct {
			Timings map[string]string `json:"timings"`
		} `json:"data"`
		Timings map[string]string `json:"timings"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		switch {
		case envelope.Data != nil && envelope.Data.Timings != nil:
			return normalizeTimings(envelope.Data.Timings), nil
		case envelope.Timings != nil:
			return normalizeTimings(envelope.Timings), nil
		}
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse timings JSON: %w", err)
	}
	flat := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			flat[k] = s
		}
	}
	return normalizeTimings(flat), nil
}

func normalizeTimings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if name, ok := prayer.CanonicalName(k); ok {
			out[name] = prayer.Normalize(v)
		}
	}
	return out
}
