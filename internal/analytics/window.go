package analytics

import "time"

const (
	dayBucketKey   = "2006-01-02"
	monthBucketKey = "2006-01"
)

// Window is a bounded date range over which orders are aggregated. Start
// and End are both inclusive; End is normalized to end-of-day for
// membership checks.
type Window struct {
	Granularity Granularity `json:"granularity"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
}

// ResolveWindows maps a time range and the current wall-clock time into the
// current window and the immediately preceding window of identical length
// and granularity. "Now" is truncated to local midnight first so partial
// days never shift the bounds.
func ResolveWindows(r TimeRange, now time.Time) (current, previous Window) {
	today := truncateDay(now)

	switch r {
	case TimeRangeWeek:
		current = Window{GranularityDay, today.AddDate(0, 0, -6), today}
		previous = Window{GranularityDay, today.AddDate(0, 0, -13), today.AddDate(0, 0, -7)}
	case TimeRangeYear:
		monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		start := monthStart.AddDate(0, -11, 0)
		current = Window{GranularityMonth, start, today}
		// Preceding 12 months, ending on the last day of the month before
		// the current window starts.
		previous = Window{GranularityMonth, start.AddDate(0, -12, 0), start.AddDate(0, 0, -1)}
	default: // month
		current = Window{GranularityDay, today.AddDate(0, 0, -29), today}
		previous = Window{GranularityDay, today.AddDate(0, 0, -59), today.AddDate(0, 0, -30)}
	}
	return current, previous
}

// Contains reports whether t falls inside the window, inclusive of both
// endpoints with the end normalized to end-of-day.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(endOfDay(w.End))
}

// BucketKey returns the stable bucket key for a timestamp inside the
// window: YYYY-MM-DD for day granularity, YYYY-MM for month granularity.
func (w Window) BucketKey(t time.Time) string {
	if w.Granularity == GranularityMonth {
		return t.Format(monthBucketKey)
	}
	return t.Format(dayBucketKey)
}

// Buckets enumerates every bucket key between Start and End inclusive, in
// chronological order.
func (w Window) Buckets() []string {
	var keys []string
	if w.Granularity == GranularityMonth {
		cursor := time.Date(w.Start.Year(), w.Start.Month(), 1, 0, 0, 0, 0, w.Start.Location())
		last := time.Date(w.End.Year(), w.End.Month(), 1, 0, 0, 0, 0, w.End.Location())
		for !cursor.After(last) {
			keys = append(keys, cursor.Format(monthBucketKey))
			cursor = cursor.AddDate(0, 1, 0)
		}
		return keys
	}
	for cursor := w.Start; !cursor.After(w.End); cursor = cursor.AddDate(0, 0, 1) {
		keys = append(keys, cursor.Format(dayBucketKey))
	}
	return keys
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
