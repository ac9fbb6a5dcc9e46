package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRangeUnknownFallsBackToHourly(t *testing.T) {
	assert.Equal(t, RangeHourly, ParseRange("hourly"))
	assert.Equal(t, RangeDaily, ParseRange("daily"))
	assert.Equal(t, RangeWeekly, ParseRange("weekly"))
	assert.Equal(t, RangeMonthly, ParseRange("monthly"))
	assert.Equal(t, RangeHourly, ParseRange(""))
	assert.Equal(t, RangeHourly, ParseRange("yearly"))
}

func TestWindow(t *testing.T) {
	now := time.Date(2025, 3, 14, 13, 45, 30, 0, time.UTC)

	assert.Equal(t, now.Add(-time.Hour), RangeHourly.Window(now))
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), RangeDaily.Window(now))
	assert.Equal(t, now.Add(-7*24*time.Hour), RangeWeekly.Window(now))
	assert.Equal(t, now.Add(-30*24*time.Hour), RangeMonthly.Window(now))
}

func TestUnknownRangeMatchesHourlyWindowAndLabels(t *testing.T) {
	now := time.Date(2025, 3, 14, 13, 45, 30, 0, time.UTC)
	unknown := ParseRange("whatever")

	assert.Equal(t, RangeHourly.Window(now), unknown.Window(now))
	assert.Equal(t, RangeHourly.Label(now), unknown.Label(now))
}

func TestLabelFormats(t *testing.T) {
	ts := time.Date(2025, 3, 4, 9, 5, 0, 0, time.UTC)

	assert.Equal(t, "09:05", RangeHourly.Label(ts))
	assert.Equal(t, "09:05", RangeDaily.Label(ts))
	assert.Equal(t, "04/03", RangeWeekly.Label(ts))
	assert.Equal(t, "04/03", RangeMonthly.Label(ts))
}

func TestBuildSeriesPreservesOrderWithoutResampling(t *testing.T) {
	base := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	samples := []Sample{
		{RecordedAt: base, Value: 71},
		{RecordedAt: base.Add(time.Minute), Value: 75},
		{RecordedAt: base.Add(2 * time.Minute), Value: 73},
	}

	points := BuildSeries(RangeHourly, samples)
	assert.Equal(t, []SeriesPoint{
		{Label: "12:00", Value: 71},
		{Label: "12:01", Value: 75},
		{Label: "12:02", Value: 73},
	}, points)
}

func TestBuildSeriesEmptyIsEmptyNotNil(t *testing.T) {
	points := BuildSeries(RangeHourly, nil)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}
