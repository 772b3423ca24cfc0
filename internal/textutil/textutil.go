package textutil

import "strings"

// FirstLines truncates s to its first n lines, without a trailing newline.
func FirstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return strings.TrimRight(s, "\n")
	}
	return strings.Join(lines[:n], "\n")
}

// TruncateBytes hard-truncates s at max bytes and appends marker when
// content was dropped. max <= 0 disables truncation.
func TruncateBytes(s string, max int, marker string) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + marker
}
