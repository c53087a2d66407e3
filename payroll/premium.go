package payroll

import (
	"github.com/warp/paycheck/generic"
)

// NotSetLabel is returned when no premium month can be found.
const NotSetLabel = "not set"

// premiumCycle is the number of months between premiums.
const premiumCycle = 3

// premiumScanMonths bounds the forward search for the next premium month.
const premiumScanMonths = 12

// IsPremiumMonth reports whether the 0-indexed month pays the premium for a
// cycle anchored at startMonth.
func IsPremiumMonth(month, startMonth int) bool {
	return ((month-startMonth+12)%premiumCycle+premiumCycle)%premiumCycle == 0
}

// NextPremiumMonth scans forward from today's month and returns the first
// premium month whose payday is on or after nextPayday.
func (s Schedule) NextPremiumMonth(today generic.TimePoint, startMonth int, nextPayday generic.TimePoint) (generic.YearMonth, bool) {
	current := generic.YearMonthOf(today)
	for i := 0; i < premiumScanMonths; i++ {
		candidate := current.Add(i)
		if !IsPremiumMonth(candidate.Index(), startMonth) {
			continue
		}
		if s.PaydayFor(candidate).AfterOrEqual(nextPayday) {
			return candidate, true
		}
	}
	return generic.YearMonth{}, false
}

// NextPremiumMonthLabel returns the English month name of the next premium
// month, or NotSetLabel.
func (s Schedule) NextPremiumMonthLabel(today generic.TimePoint, startMonth int, nextPayday generic.TimePoint) string {
	ym, ok := s.NextPremiumMonth(today, startMonth, nextPayday)
	if !ok {
		return NotSetLabel
	}
	return ym.Month.String()
}

func NextPremiumMonthLabel(today generic.TimePoint, startMonth int, nextPayday generic.TimePoint) string {
	return DefaultSchedule().NextPremiumMonthLabel(today, startMonth, nextPayday)
}
