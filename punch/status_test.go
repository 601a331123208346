package punch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/punch"
)

func TestStatus(t *testing.T) {
	today := generic.NewTimePoint(2025, time.March, 12)
	calendar := generic.StaticCalendar{Holidays: []generic.Holiday{
		{Name: "Company day", CompanyID: "acme", Date: generic.NewTimePoint(2025, time.March, 11)},
	}}
	full := fullDay("08:00", "12:00", "13:00", "17:00")
	partial := full[:2]

	tests := []struct {
		name    string
		date    generic.TimePoint
		events  []punch.Event
		company string
		want    punch.DayStatus
	}{
		{"weekend wins over punches", generic.NewTimePoint(2025, time.March, 8), full, "acme", punch.StatusWeekend},
		{"company holiday", generic.NewTimePoint(2025, time.March, 11), full, "acme", punch.StatusHoliday},
		{"other company works", generic.NewTimePoint(2025, time.March, 11), full, "globex", punch.StatusComplete},
		{"future", generic.NewTimePoint(2025, time.March, 13), nil, "acme", punch.StatusFuture},
		{"missing", generic.NewTimePoint(2025, time.March, 10), nil, "acme", punch.StatusMissing},
		{"incomplete", generic.NewTimePoint(2025, time.March, 10), partial, "acme", punch.StatusIncomplete},
		{"today complete", today, full, "acme", punch.StatusComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := punch.ClassifyDay(tt.events)
			assert.Equal(t, tt.want, punch.Status(tt.date, record, today, calendar, tt.company))
		})
	}
}

func TestStatus_EntryAndExitOnlyIsIncomplete(t *testing.T) {
	// GIVEN: A continuous shift (no lunch punches)
	// THEN: Hours count (IsComplete) but the day is flagged for review

	record := punch.ClassifyDay([]punch.Event{at(punch.Entry, "09:00"), at(punch.Exit, "17:00")})

	status := punch.Status(march10, record, march10, nil, "")

	assert.Equal(t, punch.StatusIncomplete, status)
	assert.True(t, record.IsComplete())
	assert.True(t, status.Countable())
}

func TestClassifyDate(t *testing.T) {
	clock := generic.FixedClock{At: time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)}

	record := punch.Classifier{}.ClassifyDate(march10, fullDay("08:00", "12:00", "13:00", "17:00"), clock, nil, "")

	assert.Equal(t, punch.StatusComplete, record.Status)
	assert.Equal(t, march10, record.Date)
	assert.Equal(t, generic.Minutes(480), record.WorkedMinutes)
}

func TestClassifier_TodayUsesLocation(t *testing.T) {
	// GIVEN: 01:00 UTC on March 11 is still March 10 in São Paulo
	// THEN: A classifier in that zone sees March 11 as future, a zoneless
	//       one sees it as a missing day

	clock := generic.FixedClock{At: time.Date(2025, time.March, 11, 1, 0, 0, 0, time.UTC)}
	local := punch.Classifier{Location: time.FixedZone("BRT", -3*60*60)}
	march11 := generic.NewTimePoint(2025, time.March, 11)

	assert.Equal(t, march10, local.Today(clock))
	assert.Equal(t, march11, punch.Classifier{}.Today(clock))

	assert.Equal(t, punch.StatusFuture, local.ClassifyDate(march11, nil, clock, nil, "").Status)
	assert.Equal(t, punch.StatusMissing, punch.Classifier{}.ClassifyDate(march11, nil, clock, nil, "").Status)
}

func TestDayStatus_Countable(t *testing.T) {
	assert.True(t, punch.StatusComplete.Countable())
	assert.True(t, punch.StatusIncomplete.Countable())
	assert.True(t, punch.StatusMissing.Countable())
	assert.False(t, punch.StatusWeekend.Countable())
	assert.False(t, punch.StatusHoliday.Countable())
	assert.False(t, punch.StatusFuture.Countable())
}

func TestGroupByDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	march11 := generic.TimePoint{Time: time.Date(2025, time.March, 11, 0, 0, 0, 0, loc)}

	events := []punch.Event{
		at(punch.Entry, "08:00"),
		{Kind: punch.Entry, Date: march11},
		{Kind: punch.Exit, Date: march11},
		{Kind: punch.Exit}, // no date: skipped
	}

	groups := punch.GroupByDate(events)

	assert.Len(t, groups, 2)
	assert.Len(t, groups[march10], 1)
	assert.Len(t, groups[generic.NewTimePoint(2025, time.March, 11)], 2)
}
