/*
report.go - Period report for one employee

PURPOSE:
  Runs the whole pipeline for a period: group punches per day, classify each
  day, evaluate it against the contract, and aggregate the bank of hours.
  This is what the monthly report and the bank-of-hours screen render.

DAY HANDLING:
  weekend / holiday / future  -> shown, excluded from every total
  missing                     -> counts as expected journey, worked 0, issue
  incomplete                  -> counts, issue, evaluated (zero extra/negative
                                 unless entry and exit both exist)
  complete                    -> counts, evaluated

TOTALS:
  ExpectedMinutes = countable days x journey
  Balance         = TotalWorkedMinutes - ExpectedMinutes (raw, contract-blind)
  Bank            = Aggregate(per-day results)          (contract-aware)

The clock, read in the classifier's location, decides "today"; nothing here
reads the wall clock.

SEE ALSO:
  - batch.go: Many reports in parallel
  - punch/status.go: Day statuses
*/
package hours

import (
	"errors"

	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/punch"
)

// ReportInput is everything needed to build a report. Events may be in any
// order but must carry their Date.
type ReportInput struct {
	EmployeeID generic.EmployeeID
	CompanyID  string
	Period     generic.Period
	Events     []punch.Event
	Profile    Profile
	Policy     *Policy // nil = DefaultPolicy
	Clock      generic.Clock
	Calendar   generic.HolidayCalendar // nil = no holidays
	Classifier punch.Classifier
}

// DayEntry is one row of the report.
type DayEntry struct {
	Record punch.DayRecord
	Result Result
}

// Report summarizes a period for one employee.
type Report struct {
	EmployeeID generic.EmployeeID
	Period     generic.Period
	Profile    Profile
	Days       []DayEntry

	TotalWorkedMinutes generic.Minutes
	ExpectedMinutes    generic.Minutes
	Balance            generic.Minutes
	DaysWorked         int
	WorkDays           int
	DaysWithIssues     int
	Anomalies          int

	Bank BankOfHours
}

// Results returns the per-day results in date order.
func (r Report) Results() []Result {
	out := make([]Result, 0, len(r.Days))
	for _, d := range r.Days {
		out = append(out, d.Result)
	}
	return out
}

var errNoClock = errors.New("report requires a clock")

// BuildReport computes the report for in.Period.
func BuildReport(in ReportInput) (Report, error) {
	if in.Clock == nil {
		return Report{}, errNoClock
	}
	if in.Period.End.Before(in.Period.Start) {
		return Report{}, generic.ErrInvalidPeriod
	}
	if err := in.Profile.Validate(); err != nil {
		return Report{}, err
	}
	policy := DefaultPolicy()
	if in.Policy != nil {
		policy = *in.Policy
	}

	byDate := punch.GroupByDate(in.Events)

	report := Report{
		EmployeeID: in.EmployeeID,
		Period:     in.Period,
		Profile:    in.Profile,
	}

	for _, day := range in.Period.Days() {
		record := in.Classifier.ClassifyDate(day, byDate[day], in.Clock, in.Calendar, in.CompanyID)

		entry := DayEntry{Record: record}
		if record.Status.Countable() {
			result, err := policy.Evaluate(record.WorkedMinutes, record.IsComplete(), in.Profile)
			if err != nil {
				return Report{}, err
			}
			entry.Result = result

			report.WorkDays++
			report.ExpectedMinutes += policy.JourneyMinutes
			report.TotalWorkedMinutes += record.WorkedMinutes
			if record.Status != punch.StatusMissing {
				report.DaysWorked++
			}
			if record.Status != punch.StatusComplete {
				report.DaysWithIssues++
			}
			if record.Anomaly {
				report.Anomalies++
			}
			report.Bank = report.Bank.Add(result)
		}
		report.Days = append(report.Days, entry)
	}

	report.Balance = report.TotalWorkedMinutes - report.ExpectedMinutes
	return report, nil
}

// DaysWithStatus returns the days of the report with the given status.
func (r Report) DaysWithStatus(status punch.DayStatus) []DayEntry {
	var out []DayEntry
	for _, d := range r.Days {
		if d.Record.Status == status {
			out = append(out, d)
		}
	}
	return out
}
