package prayer

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"
)

// Display modes for a countdown line.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is what a countdown template sees.
type FormatData struct {
	Name      string // "Asr"
	ShortName string // "A"
	Time      string // "15:02" or "3:02 PM"
	Remaining string // "2h 15m"
	Hours     int
	Minutes   int // after Hours
	Millis    int64
	Tomorrow  bool
}

var modes = map[string]func(FormatData) string{
	FormatTimeRemaining:      func(d FormatData) string { return d.Remaining },
	FormatNextPrayerTime:     func(d FormatData) string { return d.Time },
	FormatNameAndTime:        func(d FormatData) string { return d.Name + " " + d.Time },
	FormatNameAndRemaining:   func(d FormatData) string { return d.Name + " " + d.Remaining },
	FormatShortNameAndTime:   func(d FormatData) string { return d.ShortName + " " + d.Time },
	FormatShortNameAndRemain: func(d FormatData) string { return d.ShortName + " " + d.Remaining },
	FormatFull: func(d FormatData) string {
		if d.Tomorrow {
			return fmt.Sprintf("%s %s tomorrow (%s)", d.Name, d.Time, d.Remaining)
		}
		return fmt.Sprintf("%s %s (%s)", d.Name, d.Time, d.Remaining)
	},
}

// Modes lists the built-in display modes, sorted.
func Modes() []string {
	out := make([]string, 0, len(modes))
	for m := range modes {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// NewFormatData describes n as seen at now. The countdown is measured from
// now rather than taken from n.Until so a long-running status bar stays
// accurate; it never goes negative.
func NewFormatData(n Next, now time.Time, timeFormat string) FormatData {
	d := max(n.Time.Sub(now), 0)
	return FormatData{
		Name:      n.Name,
		ShortName: ShortNames[n.Name],
		Time:      n.Time.Format(timeFormat),
		Remaining: FormatRemaining(d),
		Hours:     int(d.Hours()),
		Minutes:   int(d.Minutes()) % 60,
		Millis:    d.Milliseconds(),
		Tomorrow:  n.IsTomorrow,
	}
}

// FormatNext renders n with a built-in mode or, when mode contains "{{", a
// text/template over FormatData, e.g. "{{.Name}} in {{.Remaining}}".
// Unknown modes fall back to name-and-time. timeFormat is a Go layout such as
// "15:04" or "3:04 PM".
func FormatNext(n Next, now time.Time, mode string, timeFormat string) string {
	data := NewFormatData(n, now, timeFormat)
	if strings.Contains(mode, "{{") {
		return execTemplate(mode, data)
	}
	if f, ok := modes[mode]; ok {
		return f(data)
	}
	return modes[FormatNameAndTime](data)
}

// execTemplate reports template failures inline, since the output usually
// lands in a status bar rather than a terminal.
func execTemplate(text string, data FormatData) string {
	t, err := template.New("next").Parse(text)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return sb.String()
}
