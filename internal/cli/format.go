// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats an already-rounded percentage.
func FormatPercent(pct int) string {
	return strconv.Itoa(pct) + "%"
}

// FormatRatio formats "done/total".
func FormatRatio(done, total int) string {
	return fmt.Sprintf("%d/%d", done, total)
}

// FormatDays formats a day count with the right plural.
// e.g., 1 -> "1 day", 3 -> "3 days"
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// FormatID renders a habit id the way commands accept it back.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Truncate shortens s to max runes, ending with an ellipsis.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
