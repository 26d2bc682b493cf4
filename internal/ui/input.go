package ui

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate reads a YYYY-MM-DD flag in local time. An empty flag gives def.
func ParseDate(s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s', use YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseDateBound is ParseDate for optional range bounds: nil when s is empty.
// An end bound covers the whole day.
func ParseDateBound(s string, end bool) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s, time.Time{})
	if err != nil {
		return nil, err
	}
	if end {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return &t, nil
}
