package render

import "time"

// ClockLayout is the en-US two-digit hour:minute format, e.g. "03:04 PM".
const ClockLayout = "03:04 PM"

// FormatClock formats t in local time for message timestamps.
func FormatClock(t time.Time) string {
	return t.Local().Format(ClockLayout)
}
