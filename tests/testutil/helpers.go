package testutil

import "time"

// NewDate builds a UTC midnight timestamp, matching how date-only columns
// come back from the database.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
