package types

import "time"

const (
	compactDateLayout = "20060102"
	localISOLayout    = "2006-01-02T15:04:05.999999999"
)

// CompactDate formats t as yyyyMMdd, the date path segment of the
// date-scoped visit and waitlist endpoints.
func CompactDate(t time.Time) string {
	return t.Format(compactDateLayout)
}

// LocalISO formats t as an ISO local date-time without zone offset,
// trailing zero fractions trimmed ("2024-03-05T09:30:00").
func LocalISO(t time.Time) string {
	return t.Format(localISOLayout)
}

// Clock returns the current time. Components take one so tests can pin now.
type Clock func() time.Time

// SystemClock is the wall clock in the local zone
func SystemClock() time.Time {
	return time.Now()
}
