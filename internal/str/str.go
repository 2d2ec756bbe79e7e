package str

import "unicode/utf8"

// ShortLabel truncates a label to limit characters if necessary, the end of a
// truncated label is replaced by "...".
func ShortLabel(label string, limit int) string {
	if limit < 4 || utf8.RuneCountInString(label) <= limit {
		return label
	}
	rs := []rune(label)
	return string(rs[:limit-3]) + "..."
}

// Truncate cuts a string to limit characters without adding an ellipsis.
func Truncate(s string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
