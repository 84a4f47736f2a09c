// Package display renders terminal output for the CLI: ANSI styling, aligned
// tables and progress bars.
//
// Styling is off when NO_COLOR is set (https://no-color.org/) or stdout is not
// a terminal. FORCE_COLOR turns it back on.
package display

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Style is a named text treatment.
type Style uint8

const (
	Plain Style = iota
	StyleBold
	StyleDim
	StyleGreen
	StyleYellow
	StyleGray
	StyleAccent // the "next prayer" and "today" highlight
)

const reset = "\033[0m"

var codes = [...]string{
	Plain:       "",
	StyleBold:   "\033[1m",
	StyleDim:    "\033[2m",
	StyleGreen:  "\033[32m",
	StyleYellow: "\033[33m",
	StyleGray:   "\033[90m",
	StyleAccent: "\033[1m\033[36m",
}

var enabled = detect(os.LookupEnv, os.Stdout.Fd())

// detect decides the initial color state from the environment and whether fd
// is a terminal.
func detect(lookup func(string) (string, bool), fd uintptr) bool {
	if _, ok := lookup("NO_COLOR"); ok {
		return false
	}
	if _, ok := lookup("FORCE_COLOR"); ok {
		return true
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetEnabled overrides the detected color state. --json output and tests
// switch it off.
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether styling is currently applied.
func Enabled() bool {
	return enabled
}

// Paint wraps text in the escape codes for s when styling is enabled.
func Paint(s Style, text string) string {
	if !enabled || s == Plain || int(s) >= len(codes) {
		return text
	}
	return codes[s] + text + reset
}

func Bold(text string) string   { return Paint(StyleBold, text) }
func Dim(text string) string    { return Paint(StyleDim, text) }
func Green(text string) string  { return Paint(StyleGreen, text) }
func Yellow(text string) string { return Paint(StyleYellow, text) }
func Gray(text string) string   { return Paint(StyleGray, text) }
func Accent(text string) string { return Paint(StyleAccent, text) }
