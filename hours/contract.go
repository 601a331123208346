// Package hours classifies worked minutes into overtime and deficit according
// to the employee's contract, and folds daily results into a bank of hours.
package hours

import (
	"fmt"

	"github.com/warp/hours-engine/generic"
)

// =============================================================================
// CONTRACT PROFILE
// =============================================================================

// ContractType is how the employee is engaged.
type ContractType string

const (
	Salaried   ContractType = "clt" // fixed journey, overtime and deficit
	Contractor ContractType = "pj"  // presence only
)

// PaymentType only matters for salaried contracts.
type PaymentType string

const (
	Hourly PaymentType = "hourly"
	Fixed  PaymentType = "fixed"
)

// Profile is the contract classification supplied by the employee directory.
type Profile struct {
	ContractType ContractType `json:"contract_type"`
	PaymentType  PaymentType  `json:"payment_type"`
}

// Regime resolves the profile into one of the three closed variants.
// Contractor overrides the payment type. Nothing is defaulted: an empty or
// unknown field is an error.
func (p Profile) Regime() (Regime, error) {
	fail := func(err error) (Regime, error) {
		return nil, &generic.ProfileError{
			ContractType: string(p.ContractType),
			PaymentType:  string(p.PaymentType),
			Err:          err,
		}
	}

	switch p.ContractType {
	case "":
		return fail(generic.ErrMissingProfile)
	case Contractor:
		return ContractorRegime{}, nil
	case Salaried:
	default:
		return fail(generic.ErrUnknownContractType)
	}

	switch p.PaymentType {
	case Fixed:
		return SalariedFixed{}, nil
	case Hourly:
		return SalariedHourly{}, nil
	case "":
		return fail(generic.ErrMissingProfile)
	default:
		return fail(generic.ErrUnknownPaymentType)
	}
}

// Validate reports whether the profile resolves to a regime.
func (p Profile) Validate() error {
	_, err := p.Regime()
	return err
}

func (p Profile) String() string {
	if p.ContractType == Contractor {
		return string(Contractor)
	}
	return fmt.Sprintf("%s/%s", p.ContractType, p.PaymentType)
}

// =============================================================================
// REGIME - Closed set of evaluation rules
// =============================================================================

// Regime is implemented only by the three types below. The unexported method
// keeps other packages from adding a fourth.
type Regime interface {
	regime()
	Name() string
}

// SalariedFixed is the CLT journey: overtime past the tolerance, deficit
// for any shortfall.
type SalariedFixed struct{}

// SalariedHourly accrues overtime from the first minute and never owes time.
type SalariedHourly struct{}

// ContractorRegime tracks presence only.
type ContractorRegime struct{}

func (SalariedFixed) regime()    {}
func (SalariedHourly) regime()   {}
func (ContractorRegime) regime() {}

func (SalariedFixed) Name() string    { return "salaried_fixed" }
func (SalariedHourly) Name() string   { return "salaried_hourly" }
func (ContractorRegime) Name() string { return "contractor" }
