package generic

import "time"

// Clock is the only source of "now" in the engine. Reports and the punch
// recorder take one explicitly so that tests can pin the date.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns At.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Today returns the calendar day of the clock's current time.
func Today(c Clock) TimePoint {
	return DayOf(c.Now())
}
