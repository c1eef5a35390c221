package utils

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned for zero- or negative-length date ranges.
// A rental must span at least one full day.
var ErrInvalidRange = errors.New("invalid date range: end must be after start")

// rental days are calendar days; times are pinned to noon UTC so that DST and
// timezone offsets can never shift a date across midnight
const normalHour = 12

// NormalizeDate strips the time-of-day from t and pins it to 12:00 UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, normalHour, 0, 0, 0, time.UTC)
}

// DateRange is a half-open interval [Start, End) of calendar days.
// Both bounds are normalized; End itself is not a rented day.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange normalizes the bounds and rejects ranges where end <= start.
// A same-day start and end is a zero-length booking, not a one-day one.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: NormalizeDate(start), End: NormalizeDate(end)}
	if !r.Start.Before(r.End) {
		return DateRange{}, ErrInvalidRange
	}
	return r, nil
}

// Days returns the whole-day length of the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Overlaps reports whether two half-open ranges share at least one day:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1. Ranges that merely
// touch (one ends the day the other starts) do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Equal reports whether both ranges cover exactly the same days.
func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}
