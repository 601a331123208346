/*
policy.go - Overtime / deficit rules per contract regime

PURPOSE:
  Turn one day's worked minutes into extra (overtime) and negative (deficit)
  minutes. Pure and total for any resolvable profile.

RULES (journey = 480, tolerance = 11):
  Incomplete day (no entry or no exit): extra = negative = 0
  Contractor:       extra = negative = 0
  Salaried hourly:  d = worked - 480; extra = d if d > 0; never negative
  Salaried fixed:   d = worked - 480
                      d > 11  -> extra = d   (tolerance is a gate, not a deduction)
                      d < 0   -> negative = |d|
                      else    -> 0 / 0

EXAMPLES (salaried fixed):
  worked 491 -> extra 0, negative 0
  worked 492 -> extra 12
  worked 450 -> negative 30

SEE ALSO:
  - contract.go: Profile and Regime
  - bank.go: Aggregation of daily results
*/
package hours

import (
	"fmt"

	"github.com/warp/hours-engine/generic"
)

const (
	// StandardJourneyMinutes is the 8h standard day.
	StandardJourneyMinutes generic.Minutes = 480

	// OvertimeToleranceMinutes is the grace band before overtime counts
	// (salaried fixed only).
	OvertimeToleranceMinutes generic.Minutes = 11
)

// Policy holds the journey parameters. The zero value is not useful; use
// DefaultPolicy.
type Policy struct {
	JourneyMinutes   generic.Minutes
	ToleranceMinutes generic.Minutes
}

func DefaultPolicy() Policy {
	return Policy{
		JourneyMinutes:   StandardJourneyMinutes,
		ToleranceMinutes: OvertimeToleranceMinutes,
	}
}

// Result is the evaluation of one day.
type Result struct {
	WorkedMinutes   generic.Minutes
	ExtraMinutes    generic.Minutes
	NegativeMinutes generic.Minutes
	IsComplete      bool

	// Clamped is set when a negative worked figure was replaced by 0.
	Clamped bool
}

// Balance is extra minus negative for this day.
func (r Result) Balance() generic.Minutes {
	return r.ExtraMinutes - r.NegativeMinutes
}

// Evaluate applies the default policy.
func Evaluate(workedMinutes generic.Minutes, isComplete bool, profile Profile) (Result, error) {
	return DefaultPolicy().Evaluate(workedMinutes, isComplete, profile)
}

// Evaluate classifies a day's worked minutes. The only error is an
// unresolvable profile.
func (p Policy) Evaluate(workedMinutes generic.Minutes, isComplete bool, profile Profile) (Result, error) {
	regime, err := profile.Regime()
	if err != nil {
		return Result{}, err
	}

	result := Result{WorkedMinutes: workedMinutes, IsComplete: isComplete}
	if workedMinutes < 0 {
		result.WorkedMinutes = 0
		result.Clamped = true
	}
	if !isComplete {
		return result, nil
	}

	difference := result.WorkedMinutes - p.JourneyMinutes

	switch regime.(type) {
	case ContractorRegime:
		// presence only

	case SalariedHourly:
		if difference > 0 {
			result.ExtraMinutes = difference
		}

	case SalariedFixed:
		if difference > p.ToleranceMinutes {
			result.ExtraMinutes = difference
		} else if difference < 0 {
			result.NegativeMinutes = difference.Abs()
		}

	default:
		return Result{}, fmt.Errorf("unhandled regime %T", regime)
	}

	return result, nil
}
