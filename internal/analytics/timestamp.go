package analytics

import (
	"strings"
	"time"
)

// orderTimestampLayouts are the formats the pharmacy backend has been seen
// emitting. Layouts without a zone are interpreted in local time, matching
// the window math.
var orderTimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseOrderTimestamp parses an order timestamp string. The boolean is
// false when the string is empty or matches none of the accepted layouts;
// callers must treat such orders as outside every window.
func ParseOrderTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range orderTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
