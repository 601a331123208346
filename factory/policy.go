/*
Package factory provides JSON/YAML to Go conversion for contract settings.

PURPOSE:
  Converts the contract definition stored with an employee (or posted to the
  API) into an hours.Profile, an hours.Policy and the bank-of-hours period.
  HR can tune the journey without code changes.

JSON SCHEMA:
  {
    "contract_type": "clt",            // clt | pj            (required)
    "payment_type": "fixed",           // fixed | hourly      (required for clt)
    "journey_minutes": 480,            // optional, default 480
    "tolerance_minutes": 11,           // optional, default 11
    "bank_period": "quadrimester"      // monthly | quadrimester | calendar_year
  }

KEY FEATURES:
  - Rejects missing or unknown contract/payment types (no guessed defaults)
  - Fills journey and tolerance from hours.DefaultPolicy when omitted
  - Rejects non-positive journeys and negative tolerances

USAGE:
  f := factory.NewContractFactory()
  cfg, err := f.ParseContract(`{"contract_type":"clt","payment_type":"hourly"}`)
  result, err := cfg.Policy.Evaluate(worked, complete, cfg.Profile)

SEE ALSO:
  - hours/contract.go: Profile and Regime
  - holidays.go: YAML holiday seed
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/hours-engine/generic"
	"github.com/warp/hours-engine/hours"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ContractJSON is the JSON representation of a contract.
type ContractJSON struct {
	ContractType     string `json:"contract_type"`
	PaymentType      string `json:"payment_type,omitempty"`
	JourneyMinutes   *int   `json:"journey_minutes,omitempty"`
	ToleranceMinutes *int   `json:"tolerance_minutes,omitempty"`
	BankPeriod       string `json:"bank_period,omitempty"`
}

// ContractConfig is the parsed, validated contract.
type ContractConfig struct {
	Profile    hours.Profile
	Policy     hours.Policy
	BankPeriod generic.PeriodConfig
}

// =============================================================================
// CONTRACT FACTORY
// =============================================================================

// ContractFactory converts contract JSON to Go structs.
type ContractFactory struct{}

// NewContractFactory creates a new contract factory.
func NewContractFactory() *ContractFactory {
	return &ContractFactory{}
}

// ParseContract parses a JSON string into a ContractConfig.
func (f *ContractFactory) ParseContract(jsonStr string) (*ContractConfig, error) {
	var cj ContractJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, fmt.Errorf("failed to parse contract JSON: %w", err)
	}
	return f.FromJSON(cj)
}

// FromJSON validates a ContractJSON and converts it.
func (f *ContractFactory) FromJSON(cj ContractJSON) (*ContractConfig, error) {
	profile := hours.Profile{
		ContractType: hours.ContractType(cj.ContractType),
		PaymentType:  hours.PaymentType(cj.PaymentType),
	}
	if profile.ContractType == hours.Contractor {
		// payment type is irrelevant for contractors
		profile.PaymentType = ""
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	policy := hours.DefaultPolicy()
	if cj.JourneyMinutes != nil {
		if *cj.JourneyMinutes <= 0 {
			return nil, fmt.Errorf("journey_minutes must be positive, got %d", *cj.JourneyMinutes)
		}
		policy.JourneyMinutes = generic.Minutes(*cj.JourneyMinutes)
	}
	if cj.ToleranceMinutes != nil {
		if *cj.ToleranceMinutes < 0 {
			return nil, fmt.Errorf("tolerance_minutes must not be negative, got %d", *cj.ToleranceMinutes)
		}
		policy.ToleranceMinutes = generic.Minutes(*cj.ToleranceMinutes)
	}

	periodType, err := generic.ParsePeriodType(cj.BankPeriod)
	if err != nil {
		return nil, err
	}

	return &ContractConfig{
		Profile:    profile,
		Policy:     policy,
		BankPeriod: generic.PeriodConfig{Type: periodType},
	}, nil
}

// ToJSON converts a ContractConfig back to its JSON shape. Defaults are
// written out explicitly.
func (f *ContractFactory) ToJSON(cfg ContractConfig) ContractJSON {
	journey := int(cfg.Policy.JourneyMinutes)
	tolerance := int(cfg.Policy.ToleranceMinutes)
	return ContractJSON{
		ContractType:     string(cfg.Profile.ContractType),
		PaymentType:      string(cfg.Profile.PaymentType),
		JourneyMinutes:   &journey,
		ToleranceMinutes: &tolerance,
		BankPeriod:       string(cfg.BankPeriod.Type),
	}
}
