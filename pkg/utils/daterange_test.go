package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	r, err := NewDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestNewDateRange_RejectsZeroAndNegativeLength(t *testing.T) {
	_, err := NewDateRange(date(2024, 6, 10), date(2024, 6, 10))
	assert.ErrorIs(t, err, ErrInvalidRange, "same-day start/end is a zero-length booking")

	_, err = NewDateRange(date(2024, 6, 13), date(2024, 6, 10))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNewDateRange_NormalizesTimeOfDay(t *testing.T) {
	// late-evening pickup and early-morning dropoff still count whole days
	start := time.Date(2024, 6, 10, 23, 45, 0, 0, time.UTC)
	end := time.Date(2024, 6, 12, 0, 30, 0, 0, time.UTC)

	r, err := NewDateRange(start, end)
	require.NoError(t, err)
	assert.Equal(t, 12, r.Start.Hour())
	assert.Equal(t, 12, r.End.Hour())
	assert.Equal(t, 2, r.Days())
}

func TestNewDateRange_NormalizesAcrossTimezones(t *testing.T) {
	dhaka := time.FixedZone("BDT", 6*3600)
	local := time.Date(2024, 6, 10, 9, 0, 0, 0, dhaka)

	r, err := NewDateRange(local, date(2024, 6, 12))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, r.Start.Location())
	assert.Equal(t, 10, r.Start.Day())
}

func TestDays(t *testing.T) {
	assert.Equal(t, 1, mustRange(t, date(2024, 6, 10), date(2024, 6, 11)).Days())
	assert.Equal(t, 3, mustRange(t, date(2024, 6, 10), date(2024, 6, 13)).Days())
	assert.Equal(t, 31, mustRange(t, date(2024, 1, 1), date(2024, 2, 1)).Days())
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, date(2024, 6, 10), date(2024, 6, 13))

	cases := []struct {
		name    string
		other   DateRange
		overlap bool
	}{
		{"identical", mustRange(t, date(2024, 6, 10), date(2024, 6, 13)), true},
		{"partial tail", mustRange(t, date(2024, 6, 12), date(2024, 6, 15)), true},
		{"partial head", mustRange(t, date(2024, 6, 8), date(2024, 6, 11)), true},
		{"contained", mustRange(t, date(2024, 6, 11), date(2024, 6, 12)), true},
		{"containing", mustRange(t, date(2024, 6, 1), date(2024, 6, 30)), true},
		{"adjacent after", mustRange(t, date(2024, 6, 13), date(2024, 6, 15)), false},
		{"adjacent before", mustRange(t, date(2024, 6, 8), date(2024, 6, 10)), false},
		{"disjoint", mustRange(t, date(2024, 7, 1), date(2024, 7, 5)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlap, base.Overlaps(tc.other))
			assert.Equal(t, tc.overlap, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestEqual(t *testing.T) {
	a := mustRange(t, date(2024, 6, 10), date(2024, 6, 13))
	b := mustRange(t, date(2024, 6, 10), date(2024, 6, 13))
	c := mustRange(t, date(2024, 6, 10), date(2024, 6, 14))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
