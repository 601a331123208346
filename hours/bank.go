package hours

import "github.com/warp/hours-engine/generic"

// BankOfHours is the running balance of overtime minus deficit over a period.
//
// Aggregation is a plain sum, so order does not matter. Each Result must
// belong to a different day; passing the same day twice counts it twice.
type BankOfHours struct {
	TotalExtraMinutes    generic.Minutes
	TotalNegativeMinutes generic.Minutes
	BalanceMinutes       generic.Minutes
}

// Aggregate folds daily results into a bank of hours.
func Aggregate(results []Result) BankOfHours {
	var bank BankOfHours
	for _, r := range results {
		bank = bank.Add(r)
	}
	return bank
}

// Add returns the bank with one more day folded in.
func (b BankOfHours) Add(r Result) BankOfHours {
	b.TotalExtraMinutes += r.ExtraMinutes
	b.TotalNegativeMinutes += r.NegativeMinutes
	b.BalanceMinutes = b.TotalExtraMinutes - b.TotalNegativeMinutes
	return b
}

// Merge combines two banks covering disjoint days.
func (b BankOfHours) Merge(other BankOfHours) BankOfHours {
	b.TotalExtraMinutes += other.TotalExtraMinutes
	b.TotalNegativeMinutes += other.TotalNegativeMinutes
	b.BalanceMinutes = b.TotalExtraMinutes - b.TotalNegativeMinutes
	return b
}
