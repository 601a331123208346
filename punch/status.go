package punch

import "github.com/warp/hours-engine/generic"

// ClassifyDate classifies the punches of date and assigns a reporting status.
// Calendar facts win over punch facts: weekend, then holiday, then future.
// A nil calendar means no holidays.
func (c Classifier) ClassifyDate(date generic.TimePoint, events []Event, clock generic.Clock, calendar generic.HolidayCalendar, companyID string) DayRecord {
	record := c.ClassifyDay(events)
	record.Date = date
	record.Status = Status(date, record, c.Today(clock), calendar, companyID)
	return record
}

// Today is the calendar day of the clock read in the classifier's location,
// the same location punches are dated in.
func (c Classifier) Today(clock generic.Clock) generic.TimePoint {
	if c.Location == nil {
		return generic.Today(clock)
	}
	return generic.DayOf(clock.Now().In(c.Location))
}

// Status derives the reporting status of a classified day relative to today.
func Status(date generic.TimePoint, record DayRecord, today generic.TimePoint, calendar generic.HolidayCalendar, companyID string) DayStatus {
	switch {
	case date.IsWeekend():
		return StatusWeekend
	case calendar != nil && calendar.IsHoliday(companyID, date):
		return StatusHoliday
	case date.After(today):
		return StatusFuture
	case len(record.Events) == 0:
		return StatusMissing
	case record.HasAllKinds():
		return StatusComplete
	default:
		return StatusIncomplete
	}
}
