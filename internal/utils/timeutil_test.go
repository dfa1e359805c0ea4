package utils

import (
	"testing"
	"time"
)

func TestMinutesOfDay(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want int
	}{
		{
			name: "midnight",
			in:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "late_evening",
			in:   time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC),
			want: 1410,
		},
		{
			name: "seconds_ignored",
			in:   time.Date(2025, 3, 1, 8, 15, 59, 0, time.UTC),
			want: 495,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MinutesOfDay(tc.in)
			if got != tc.want {
				t.Fatalf("MinutesOfDay(%v)=%d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsWithinWindow(t *testing.T) {
	cases := []struct {
		name       string
		candidate  int
		start, end int
		want       bool
	}{
		{name: "straight_inside", candidate: 12 * 60, start: 9 * 60, end: 17 * 60, want: true},
		{name: "straight_at_start", candidate: 9 * 60, start: 9 * 60, end: 17 * 60, want: true},
		{name: "straight_at_end", candidate: 17 * 60, start: 9 * 60, end: 17 * 60, want: true},
		{name: "straight_outside", candidate: 20 * 60, start: 9 * 60, end: 17 * 60, want: false},
		{name: "wrap_late_side", candidate: 23*60 + 30, start: 22 * 60, end: 8 * 60, want: true},
		{name: "wrap_early_side", candidate: 5 * 60, start: 22 * 60, end: 8 * 60, want: true},
		{name: "wrap_outside", candidate: 12 * 60, start: 22 * 60, end: 8 * 60, want: false},
		{name: "wrap_at_start", candidate: 22 * 60, start: 22 * 60, end: 8 * 60, want: true},
		{name: "wrap_at_end", candidate: 8 * 60, start: 22 * 60, end: 8 * 60, want: true},
		{name: "wrap_just_after_end", candidate: 8*60 + 1, start: 22 * 60, end: 8 * 60, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IsWithinWindow(tc.candidate, tc.start, tc.end)
			if got != tc.want {
				t.Fatalf("IsWithinWindow(%d, %d, %d)=%v, want %v", tc.candidate, tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "valid", in: "22:00", want: 1320},
		{name: "valid_with_space", in: " 08:30 ", want: 510},
		{name: "hour_out_of_range", in: "24:00", wantErr: true},
		{name: "minute_out_of_range", in: "10:60", wantErr: true},
		{name: "garbage", in: "noon", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseClock(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseClock(%q) expected error, got %d", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ParseClock(%q)=%d, want %d", tc.in, got, tc.want)
			}
		})
	}
}
