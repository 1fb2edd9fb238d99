// Package domain holds the persisted shapes shared by every storage backend.
// Field names in the json tags are the external contract; both the file and
// the relational backend must produce identical documents for them.
package domain

import "time"

// Timestamp normalizes t to the precision and zone every backend can round
// trip: UTC, microseconds.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// StringSlice returns s, or an empty non-nil slice so documents render [] not null.
func StringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
