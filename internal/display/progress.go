package display

import "strings"

// ProgressBar renders done out of total as a bar of width cells, e.g.
// "██████░░░░". Values outside 0..total are clamped.
func ProgressBar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	done = min(max(done, 0), total)
	filled := done * width / total
	return Green(strings.Repeat("█", filled)) + Gray(strings.Repeat("░", width-filled))
}
