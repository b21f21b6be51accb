package utils

import "time"

// ParseDate parses an optional YYYY-MM-DD query parameter. An empty string
// yields the zero time, not an error.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, dateStr)
}
