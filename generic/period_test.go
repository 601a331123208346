package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hours-engine/generic"
)

// =============================================================================
// PERIOD TESTS
// =============================================================================

func TestNewPeriod_EndBeforeStart_Rejected(t *testing.T) {
	start := generic.NewTimePoint(2025, time.March, 10)
	end := generic.NewTimePoint(2025, time.March, 9)

	_, err := generic.NewPeriod(start, end)

	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

func TestNewPeriod_SingleDay(t *testing.T) {
	day := generic.NewTimePoint(2025, time.March, 10)

	p, err := generic.NewPeriod(day, day)

	require.NoError(t, err)
	assert.Len(t, p.Days(), 1)
	assert.True(t, p.Contains(day))
}

func TestMonthPeriod_LeapFebruary(t *testing.T) {
	p := generic.MonthPeriod(2024, time.February)

	assert.Equal(t, "2024-02-01", p.Start.String())
	assert.Equal(t, "2024-02-29", p.End.String())
	assert.Len(t, p.Days(), 29)
}

func TestPeriod_Days_AreMapKeys(t *testing.T) {
	// GIVEN: A period whose start carries a non-UTC location
	// WHEN: Listing its days
	// THEN: Every day equals the NewTimePoint of the same date as a map key

	loc := time.FixedZone("BRT", -3*60*60)
	start := generic.TimePoint{Time: time.Date(2025, time.March, 1, 0, 0, 0, 0, loc)}
	p := generic.Period{Start: start, End: generic.NewTimePoint(2025, time.March, 31)}

	seen := make(map[generic.TimePoint]bool)
	for _, d := range p.Days() {
		seen[d] = true
	}

	assert.Len(t, seen, 31)
	assert.True(t, seen[generic.NewTimePoint(2025, time.March, 1)])
	assert.True(t, seen[generic.NewTimePoint(2025, time.March, 31)])
}

func TestPeriod_Contains(t *testing.T) {
	p := generic.MonthPeriod(2025, time.March)

	assert.True(t, p.Contains(generic.NewTimePoint(2025, time.March, 1)))
	assert.True(t, p.Contains(generic.NewTimePoint(2025, time.March, 31)))
	assert.False(t, p.Contains(generic.NewTimePoint(2025, time.April, 1)))
	assert.False(t, p.Contains(generic.NewTimePoint(2025, time.February, 28)))
}

// =============================================================================
// PERIOD CONFIG TESTS
// =============================================================================

func TestPeriodFor_Quadrimester(t *testing.T) {
	cfg := generic.PeriodConfig{Type: generic.PeriodQuadrimester}

	tests := []struct {
		date       generic.TimePoint
		start, end string
	}{
		{generic.NewTimePoint(2024, time.February, 10), "2024-01-01", "2024-04-30"},
		{generic.NewTimePoint(2025, time.April, 30), "2025-01-01", "2025-04-30"},
		{generic.NewTimePoint(2025, time.May, 1), "2025-05-01", "2025-08-31"},
		{generic.NewTimePoint(2025, time.June, 15), "2025-05-01", "2025-08-31"},
		{generic.NewTimePoint(2025, time.December, 31), "2025-09-01", "2025-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.date.String(), func(t *testing.T) {
			p := cfg.PeriodFor(tt.date)
			assert.Equal(t, tt.start, p.Start.String())
			assert.Equal(t, tt.end, p.End.String())
		})
	}
}

func TestPeriodFor_MonthlyAndYear(t *testing.T) {
	date := generic.NewTimePoint(2025, time.March, 10)

	monthly := generic.PeriodConfig{Type: generic.PeriodMonthly}.PeriodFor(date)
	assert.Equal(t, "[2025-03-01, 2025-03-31]", monthly.String())

	year := generic.PeriodConfig{Type: generic.PeriodCalendarYear}.PeriodFor(date)
	assert.Equal(t, "[2025-01-01, 2025-12-31]", year.String())

	// zero value behaves as monthly
	assert.Equal(t, monthly, generic.PeriodConfig{}.PeriodFor(date))
}

func TestPeriodConfig_NextAndPrevious(t *testing.T) {
	cfg := generic.PeriodConfig{Type: generic.PeriodQuadrimester}
	p := cfg.PeriodFor(generic.NewTimePoint(2025, time.June, 15))

	next := cfg.NextPeriod(p)
	assert.Equal(t, "[2025-09-01, 2025-12-31]", next.String())

	prev := cfg.PreviousPeriod(p)
	assert.Equal(t, "[2025-01-01, 2025-04-30]", prev.String())

	// across the year boundary
	monthly := generic.PeriodConfig{Type: generic.PeriodMonthly}
	dec := generic.MonthPeriod(2024, time.December)
	assert.Equal(t, "[2025-01-01, 2025-01-31]", monthly.NextPeriod(dec).String())
}

func TestParsePeriodType(t *testing.T) {
	pt, err := generic.ParsePeriodType("")
	require.NoError(t, err)
	assert.Equal(t, generic.PeriodMonthly, pt)

	pt, err = generic.ParsePeriodType("quadrimester")
	require.NoError(t, err)
	assert.Equal(t, generic.PeriodQuadrimester, pt)

	_, err = generic.ParsePeriodType("weekly")
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
	assert.True(t, generic.IsClientError(err))
}
