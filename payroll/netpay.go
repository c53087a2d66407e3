/*
Package payroll computes what lands in the account on payday.

PURPOSE:
  Pure functions over a salary model: net pay from gross, the payday of any
  month, which months carry the quarterly premium, and the projected net
  amount for a given month. Nothing here touches storage or the clock;
  "today" is always a parameter.

KEY CONCEPTS:
  - TaxRules:      Deduction rates and tax credit for one tax year
  - Schedule:      Nominal payday and the weekend shift
  - IncomeProfile: Gross, monthly bonus, premium percentage, premium anchor
  - Projector:     TaxRules + Schedule applied to an IncomeProfile

ROUNDING:
  Every deduction is rounded up to the nearest whole unit before it is
  subtracted. The tax credit is applied after rounding and tax never goes
  below zero.

EXAMPLE (default rules, gross 56750):
  health = ceil(56750 * 0.045) = 2554
  social = ceil(56750 * 0.071) = 4030
  tax    = ceil(56750 * 0.15) - 2570 = 5943
  net    = 56750 - 2554 - 4030 - 5943 = 44223

SEE ALSO:
  - payday.go: PaydayFor, NextPayday, LastPayday
  - premium.go: Premium cycle
  - projector.go: Net pay for a month
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/paycheck/generic"
)

// =============================================================================
// TAX RULES
// =============================================================================

// Default rates for the current tax year.
var (
	DefaultHealthRate = decimal.RequireFromString("0.045")
	DefaultSocialRate = decimal.RequireFromString("0.071")
	DefaultTaxRate    = decimal.RequireFromString("0.15")
	DefaultTaxCredit  = generic.NewAmountFromInt(2570)
)

// TaxRules holds the deduction rates applied to total gross pay.
type TaxRules struct {
	HealthRate decimal.Decimal
	SocialRate decimal.Decimal
	TaxRate    decimal.Decimal
	TaxCredit  generic.Amount
}

func DefaultTaxRules() TaxRules {
	return TaxRules{
		HealthRate: DefaultHealthRate,
		SocialRate: DefaultSocialRate,
		TaxRate:    DefaultTaxRate,
		TaxCredit:  DefaultTaxCredit,
	}
}

// Deductions is the itemized result of a net pay calculation.
type Deductions struct {
	Gross  generic.Amount `json:"gross"`
	Health generic.Amount `json:"health"`
	Social generic.Amount `json:"social"`
	Tax    generic.Amount `json:"tax"`
	Net    generic.Amount `json:"net"`
}

// Breakdown itemizes the deductions on gross. Non-positive gross yields all
// zero deductions and zero net.
func (r TaxRules) Breakdown(gross generic.Amount) Deductions {
	if !gross.IsPositive() {
		zero := generic.Zero()
		return Deductions{Gross: gross, Health: zero, Social: zero, Tax: zero, Net: zero}
	}

	health := gross.Mul(r.HealthRate).Ceil()
	social := gross.Mul(r.SocialRate).Ceil()
	tax := gross.Mul(r.TaxRate).Ceil().Sub(r.TaxCredit).Max(generic.Zero())

	net := gross.Sub(health).Sub(social).Sub(tax).Max(generic.Zero())

	return Deductions{Gross: gross, Health: health, Social: social, Tax: tax, Net: net}
}

// NetPay returns gross minus health, social and tax deductions, never negative.
func (r TaxRules) NetPay(gross generic.Amount) generic.Amount {
	return r.Breakdown(gross).Net
}

// NetPay applies the default tax rules.
func NetPay(gross generic.Amount) generic.Amount {
	return DefaultTaxRules().NetPay(gross)
}
