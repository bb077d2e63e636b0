package styles

import "github.com/mattn/go-runewidth"

// TruncateString truncates a string to fit within maxWidth display columns,
// ending in an ellipsis when something was cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
