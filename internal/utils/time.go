package utils

import "time"

const layoutDate = "2006-01-02"

// NowUTC returns current time in UTC, truncated to microseconds so values
// survive a DATETIME(6) round-trip unchanged.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// FormatTimestamp is the wire form of a timestamp (RFC3339, UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}
