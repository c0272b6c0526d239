// Package dates provides the timestamp format used in generated reports.
package dates

import "time"

// TimestampLayout is the report timestamp layout (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// Clock returns the current time. Commands take one so tests can pin it.
type Clock func() time.Time

// FormatTimestamp renders t in local time using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}
