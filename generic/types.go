/*
Package generic provides the domain-agnostic building blocks of the hours engine.

PURPOSE:
  The punch classifier and the hours policy engine both work with calendar days,
  minute quantities, reporting periods and an explicit clock. None of those
  concepts know what a punch or a contract is, so they live here and the
  domain packages (punch, hours) build on top of them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Minutes: An integer quantity of minutes with display helpers
  - EmployeeID: Type-safe identifier for the person a punch belongs to

DESIGN PRINCIPLES:
  1. Value objects: nothing here is mutated after construction
  2. Integer minutes: worked time is always whole minutes, never floats
  3. Decimal hours: conversion to hours goes through decimal.Decimal so reports
     never print 7.999999 hours

USAGE:
  worked := generic.Minutes(495)
  worked.String()  // "08:15"
  worked.Long()    // "8h 15min"
  worked.Hours()   // decimal 8.25

SEE ALSO:
  - time.go: TimePoint (calendar day) and holiday calendar
  - period.go: Reporting periods (month, quadrimester, year)
  - clock.go: Injected time source
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MINUTES - Whole-minute quantity
// =============================================================================

// Minutes is a signed number of whole minutes. Worked, extra and negative
// minutes are never negative; balances may be.
type Minutes int

var sixty = decimal.NewFromInt(60)

// Hours converts to decimal hours rounded to two places.
func (m Minutes) Hours() decimal.Decimal {
	return decimal.NewFromInt(int64(m)).Div(sixty).Round(2)
}

func (m Minutes) Abs() Minutes {
	if m < 0 {
		return -m
	}
	return m
}

func (m Minutes) IsNegative() bool { return m < 0 }
func (m Minutes) IsZero() bool     { return m == 0 }

// String formats as [-]HH:MM.
func (m Minutes) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
	}
	abs := m.Abs()
	return fmt.Sprintf("%s%02d:%02d", sign, int(abs)/60, int(abs)%60)
}

// Long formats as [-]Hh MMmin, the style used in the monthly report.
func (m Minutes) Long() string {
	sign := ""
	if m < 0 {
		sign = "-"
	}
	abs := m.Abs()
	return fmt.Sprintf("%s%dh %02dmin", sign, int(abs)/60, int(abs)%60)
}

// MinutesOfDay returns minutes since midnight for an hour/minute pair.
func MinutesOfDay(hour, minute int) Minutes {
	return Minutes(hour*60 + minute)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
