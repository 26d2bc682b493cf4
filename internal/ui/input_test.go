package ui

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	def := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.Local)

	testCases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", def, false},
		{" 2025-01-10 ", time.Date(2025, time.January, 10, 0, 0, 0, 0, time.Local), false},
		{"10/01/2025", time.Time{}, true},
	}
	for _, tc := range testCases {
		got, err := ParseDate(tc.in, def)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDateBound(t *testing.T) {
	if b, err := ParseDateBound("", true); b != nil || err != nil {
		t.Errorf("ParseDateBound(empty) = %v, %v", b, err)
	}

	end, err := ParseDateBound("2025-01-10", true)
	if err != nil {
		t.Fatal(err)
	}
	late := time.Date(2025, time.January, 10, 23, 59, 0, 0, time.Local)
	if end.Before(late) || !end.Before(time.Date(2025, time.January, 11, 0, 0, 0, 0, time.Local)) {
		t.Errorf("end bound = %v, want the last instant of the day", end)
	}

	start, _ := ParseDateBound("2025-01-10", false)
	if start.Hour() != 0 || start.Day() != 10 {
		t.Errorf("start bound = %v", start)
	}
}
