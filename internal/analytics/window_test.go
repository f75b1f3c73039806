package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindows_Contiguity(t *testing.T) {
	now := time.Date(2025, 3, 15, 17, 45, 12, 0, time.Local)

	for _, r := range []TimeRange{TimeRangeWeek, TimeRangeMonth, TimeRangeYear} {
		t.Run(string(r), func(t *testing.T) {
			current, previous := ResolveWindows(r, now)

			// Previous window ends the day before the current one starts:
			// no gap, no overlap.
			assert.Equal(t, current.Start.AddDate(0, 0, -1), previous.End)
			assert.True(t, previous.End.Before(current.Start))

			// Equal length in the granularity's units.
			assert.Equal(t, len(current.Buckets()), len(previous.Buckets()))
			assert.Equal(t, current.Granularity, previous.Granularity)
		})
	}
}

func TestResolveWindows_BucketCounts(t *testing.T) {
	now := time.Date(2025, 3, 15, 8, 0, 0, 0, time.Local)

	cases := []struct {
		r     TimeRange
		count int
		g     Granularity
	}{
		{TimeRangeWeek, 7, GranularityDay},
		{TimeRangeMonth, 30, GranularityDay},
		{TimeRangeYear, 12, GranularityMonth},
	}
	for _, tc := range cases {
		current, _ := ResolveWindows(tc.r, now)
		assert.Equal(t, tc.g, current.Granularity, "range %s", tc.r)
		assert.Len(t, current.Buckets(), tc.count, "range %s", tc.r)
	}
}

func TestResolveWindows_TruncatesToMidnight(t *testing.T) {
	now := time.Date(2025, 3, 15, 23, 59, 59, 0, time.Local)
	current, _ := ResolveWindows(TimeRangeWeek, now)

	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local), current.End)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local), current.Start)
}

func TestResolveWindows_YearBounds(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	current, previous := ResolveWindows(TimeRangeYear, now)

	// Current: April 2024 through today.
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local), current.Start)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local), current.End)

	// Previous: the 12 months ending March 2024.
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.Local), previous.Start)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.Local), previous.End)
	assert.Len(t, previous.Buckets(), 12)
}

func TestWindowContains_InclusiveEndpoints(t *testing.T) {
	w := Window{
		Granularity: GranularityDay,
		Start:       time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local),
		End:         time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local),
	}

	assert.True(t, w.Contains(time.Date(2025, 3, 9, 0, 0, 0, 0, time.Local)))
	assert.True(t, w.Contains(time.Date(2025, 3, 15, 23, 59, 59, 0, time.Local)))
	assert.False(t, w.Contains(time.Date(2025, 3, 8, 23, 59, 59, 0, time.Local)))
	assert.False(t, w.Contains(time.Date(2025, 3, 16, 0, 0, 0, 0, time.Local)))
}

func TestWindowBuckets_MonthKeys(t *testing.T) {
	w := Window{
		Granularity: GranularityMonth,
		Start:       time.Date(2024, 11, 1, 0, 0, 0, 0, time.Local),
		End:         time.Date(2025, 2, 10, 0, 0, 0, 0, time.Local),
	}

	require.Equal(t, []string{"2024-11", "2024-12", "2025-01", "2025-02"}, w.Buckets())
	assert.Equal(t, "2025-01", w.BucketKey(time.Date(2025, 1, 20, 9, 30, 0, 0, time.Local)))
}

func TestParseOrderTimestamp(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-03-15T10:30:00Z", true},
		{"2025-03-15T10:30:00+08:00", true},
		{"2025-03-15T10:30:00", true},
		{"2025-03-15 10:30:00", true},
		{"2025-03-15", true},
		{"not-a-date", false},
		{"", false},
		{"15/03/2025", false},
	}
	for _, tc := range cases {
		_, ok := ParseOrderTimestamp(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
	}
}
