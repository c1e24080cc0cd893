package postgres

import (
	"fmt"
	"time"
)

// timeLayout is the ISO-8601 text form timestamps are stored in. Values are
// timezone-naive with second precision and must round-trip exactly.
const timeLayout = "2006-01-02T15:04:05"

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// truncate drops sub-second precision before storage so a stored entity reads
// back equal to what the caller holds.
func truncate(t time.Time) time.Time {
	return t.Truncate(time.Second)
}
