package ui

import (
	"fmt"
	"strconv"
	"time"
)

// formatFloat renders a price or percentage without trailing zero noise.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRemaining renders a countdown as "57m 09s".
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0m 00s"
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", minutes, seconds)
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 1 || len([]rune(s)) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

// orDash substitutes a placeholder for empty display values.
func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
