package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesOfDay collapses an instant to its minute within the day, in [0, 1440).
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsWithinWindow reports whether candidate falls inside [start, end], all in
// minutes of day. When start > end the window crosses midnight and containment
// becomes candidate >= start OR candidate <= end. Both bounds are inclusive on
// the straight case and the asymmetry on the wrapped case is intentional.
func IsWithinWindow(candidate, start, end int) bool {
	if start <= end {
		return candidate >= start && candidate <= end
	}
	return candidate >= start || candidate <= end
}

// ParseClock parses an "HH:MM" 24h value into minutes of day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}
