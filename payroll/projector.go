package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/paycheck/generic"
)

// =============================================================================
// INCOME PROFILE - The salary model
// =============================================================================

// IncomeProfile is the per-user salary model. It is replaced as a whole on
// every save.
type IncomeProfile struct {
	Gross      generic.Amount  `json:"gross"`
	Bonus      generic.Amount  `json:"bonus"`
	PremiumPct decimal.Decimal `json:"premiumPct"`
	StartMonth int             `json:"startMonth"` // 0 = January
}

// DefaultProfile is used until the user saves their own.
func DefaultProfile() IncomeProfile {
	return IncomeProfile{
		Gross:      generic.NewAmountFromInt(45000),
		Bonus:      generic.NewAmountFromInt(5000),
		PremiumPct: decimal.NewFromInt(15),
		StartMonth: 1,
	}
}

// Equal compares by value; decimals with different exponents still match.
func (p IncomeProfile) Equal(other IncomeProfile) bool {
	return p.Gross.Equal(other.Gross) &&
		p.Bonus.Equal(other.Bonus) &&
		p.PremiumPct.Equal(other.PremiumPct) &&
		p.StartMonth == other.StartMonth
}

// =============================================================================
// PROJECTOR
// =============================================================================

// Projection is the projected pay for one month.
type Projection struct {
	Month      generic.YearMonth
	IsPremium  bool
	Premium    generic.Amount
	TotalGross generic.Amount
	Deductions Deductions
}

// Net is the projected net pay.
func (p Projection) Net() generic.Amount { return p.Deductions.Net }

// Projector applies tax rules and a payday schedule to an income profile.
type Projector struct {
	Rules    TaxRules
	Schedule Schedule
}

func NewProjector(rules TaxRules, schedule Schedule) Projector {
	return Projector{Rules: rules, Schedule: schedule}
}

func DefaultProjector() Projector {
	return Projector{Rules: DefaultTaxRules(), Schedule: DefaultSchedule()}
}

// Project computes gross, premium and deductions for the 0-indexed month.
func (p Projector) Project(month int, profile IncomeProfile) Projection {
	premium := generic.Zero()
	isPremium := IsPremiumMonth(month, profile.StartMonth)
	if isPremium {
		premium = profile.Gross.Percent(profile.PremiumPct)
	}
	total := generic.Sum(profile.Gross, profile.Bonus, premium)
	return Projection{
		IsPremium:  isPremium,
		Premium:    premium,
		TotalGross: total,
		Deductions: p.Rules.Breakdown(total),
	}
}

// NetPayForMonth returns the projected net pay for the 0-indexed month.
func (p Projector) NetPayForMonth(month int, profile IncomeProfile) generic.Amount {
	return p.Project(month, profile).Net()
}

// ProjectPayday projects the pay received on the given payday.
func (p Projector) ProjectPayday(payday generic.TimePoint, profile IncomeProfile) Projection {
	proj := p.Project(payday.MonthIndex(), profile)
	proj.Month = generic.YearMonthOf(payday)
	return proj
}

// ProjectYear projects all twelve paydays of a year.
func (p Projector) ProjectYear(year int, profile IncomeProfile) []Projection {
	paydays := p.Schedule.PaydaysIn(year)
	out := make([]Projection, len(paydays))
	for i, payday := range paydays {
		out[i] = p.ProjectPayday(payday, profile)
	}
	return out
}

func NetPayForMonth(month int, profile IncomeProfile) generic.Amount {
	return DefaultProjector().NetPayForMonth(month, profile)
}
