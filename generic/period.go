package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - Reporting boundary for a bank of hours
// =============================================================================

// Period is an inclusive range of calendar days. The engine has no notion of
// "the month" on its own; callers pick a Period and filter punches to it.
//
// Examples:
//   - Month: Mar 1 - Mar 31
//   - Quadrimester: May 1 - Aug 31
//   - Calendar year: Jan 1 - Dec 31
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod validates that end is not before start.
func NewPeriod(start, end TimePoint) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, start, end)
	}
	return Period{Start: start, End: end}, nil
}

// MonthPeriod returns the calendar month containing year/month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// Contains returns true if the day is within [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns every day in the period.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	// AddDays(0) strips any location so days work as map keys
	for current := p.Start.AddDays(0); current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// PeriodType defines how bank-of-hours periods are cut.
type PeriodType string

const (
	PeriodMonthly      PeriodType = "monthly"       // 1st - last day of month
	PeriodQuadrimester PeriodType = "quadrimester"  // Jan-Apr, May-Aug, Sep-Dec
	PeriodCalendarYear PeriodType = "calendar_year" // Jan 1 - Dec 31
)

// ParsePeriodType accepts the wire names above; empty means monthly.
func ParsePeriodType(s string) (PeriodType, error) {
	switch PeriodType(s) {
	case "", PeriodMonthly:
		return PeriodMonthly, nil
	case PeriodQuadrimester, PeriodCalendarYear:
		return PeriodType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown period type %q", ErrInvalidPeriod, s)
	}
}

// PeriodConfig defines how to calculate periods for a bank of hours.
type PeriodConfig struct {
	Type PeriodType
}

// =============================================================================
// PERIOD CALCULATOR - Determines which period a date falls into
// =============================================================================

// PeriodFor returns the period that contains the given date.
func (pc PeriodConfig) PeriodFor(date TimePoint) Period {
	switch pc.Type {
	case PeriodQuadrimester:
		// Months 1-4, 5-8, 9-12
		startMonth := time.Month((int(date.Month())-1)/4*4 + 1)
		start := StartOfMonth(date.Year(), startMonth)
		return Period{Start: start, End: start.AddMonths(4).AddDays(-1)}

	case PeriodCalendarYear:
		return Period{Start: StartOfYear(date.Year()), End: EndOfYear(date.Year())}

	default:
		return MonthPeriod(date.Year(), date.Month())
	}
}

// NextPeriod returns the period of the same type following p.
func (pc PeriodConfig) NextPeriod(p Period) Period {
	return pc.PeriodFor(p.End.AddDays(1))
}

// PreviousPeriod returns the period of the same type preceding p.
func (pc PeriodConfig) PreviousPeriod(p Period) Period {
	return pc.PeriodFor(p.Start.AddDays(-1))
}
