package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// NormalizeDate cuts an ISO timestamp ("2025-03-01T00:00:00Z") down to its date part.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "T"); i > 0 {
		return s[:i]
	}
	if len(s) > 10 && s[10] == ' ' {
		return s[:10]
	}
	return s
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format(layoutDateTime)
}
