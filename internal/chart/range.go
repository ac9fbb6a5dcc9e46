// Package chart holds the time-range rules for dashboard series: each range
// selects both the query window and the bucket label format.
package chart

import "time"

// Range is a chart time range requested by the dashboard.
type Range string

const (
	RangeHourly  Range = "hourly"
	RangeDaily   Range = "daily"
	RangeWeekly  Range = "weekly"
	RangeMonthly Range = "monthly"
)

// ParseRange maps a request parameter onto a known range. Unknown values
// fall back to hourly; an unrecognized range is a default, not an error.
func ParseRange(s string) Range {
	switch Range(s) {
	case RangeHourly, RangeDaily, RangeWeekly, RangeMonthly:
		return Range(s)
	default:
		return RangeHourly
	}
}

// Window returns the inclusive lower bound of the query window for this
// range, relative to now. Daily starts at midnight of the current day; the
// others are sliding windows.
func (r Range) Window(now time.Time) time.Time {
	switch r {
	case RangeDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case RangeWeekly:
		return now.Add(-7 * 24 * time.Hour)
	case RangeMonthly:
		return now.Add(-30 * 24 * time.Hour)
	default:
		return now.Add(-time.Hour)
	}
}

// Label formats a sample timestamp for this range: HH:MM inside a day,
// DD/MM across days.
func (r Range) Label(ts time.Time) string {
	switch r {
	case RangeWeekly, RangeMonthly:
		return ts.Format("02/01")
	default:
		return ts.Format("15:04")
	}
}

// Sample is one raw (timestamp, value) row from the reading store.
type Sample struct {
	RecordedAt time.Time
	Value      float64
}

// SeriesPoint is one chart point, labeled per the range rules.
type SeriesPoint struct {
	Label string  `json:"time"`
	Value float64 `json:"value"`
}

// BuildSeries re-labels raw samples into chart points. The samples are
// passed through in store order (ascending) without resampling; an empty
// window yields an empty, non-nil slice.
func BuildSeries(r Range, samples []Sample) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(samples))
	for _, s := range samples {
		points = append(points, SeriesPoint{Label: r.Label(s.RecordedAt), Value: s.Value})
	}
	return points
}
