package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amount(v int64) generic.Amount {
	return generic.NewAmountFromInt(v)
}

func day(year int, month time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(year, month, d)
}

func assertAmount(t *testing.T, expected int64, actual generic.Amount) {
	t.Helper()
	assert.True(t, actual.Equal(amount(expected)), "expected %d, got %s", expected, actual)
}

// =============================================================================
// NET PAY
// =============================================================================

func TestNetPay_NonPositiveGrossIsZero(t *testing.T) {
	assertAmount(t, 0, payroll.NetPay(amount(0)))
	for _, g := range []int64{-1, -100, -56750} {
		assertAmount(t, 0, payroll.NetPay(amount(g)))
	}
}

func TestNetPay_NeverExceedsGross(t *testing.T) {
	for _, g := range []int64{1, 2, 9, 10, 100, 2570, 17133, 17134, 45000, 56750, 1_000_000} {
		net := payroll.NetPay(amount(g))
		assert.False(t, net.GreaterThan(amount(g)), "gross %d produced net %s", g, net)
		assert.False(t, net.IsNegative(), "gross %d produced negative net %s", g, net)
	}
}

func TestNetPay_TinyGrossIsClampedAtZero(t *testing.T) {
	// GIVEN: gross of 1, health and social each round up to 1
	// THEN: 1 - 1 - 1 would be negative, net is clamped to 0
	assertAmount(t, 0, payroll.NetPay(amount(1)))
}

func TestNetPay_PremiumMonthScenario(t *testing.T) {
	// 45000 gross + 5000 bonus + 15% premium (6750)
	d := payroll.DefaultTaxRules().Breakdown(amount(56750))

	assertAmount(t, 2554, d.Health)
	assertAmount(t, 4030, d.Social)
	assertAmount(t, 5943, d.Tax)
	assertAmount(t, 44223, d.Net)
}

func TestNetPay_TaxCreditFloorsTaxAtZero(t *testing.T) {
	// 15% of 10000 is 1500, below the 2570 credit
	d := payroll.DefaultTaxRules().Breakdown(amount(10000))
	assertAmount(t, 0, d.Tax)
	assertAmount(t, 450, d.Health)
	assertAmount(t, 710, d.Social)
	assertAmount(t, 8840, d.Net)
}

func TestNetPay_CustomRules(t *testing.T) {
	rules := payroll.TaxRules{
		HealthRate: decimal.Zero,
		SocialRate: decimal.Zero,
		TaxRate:    decimal.RequireFromString("0.5"),
		TaxCredit:  amount(0),
	}
	assertAmount(t, 500, rules.NetPay(amount(1000)))
}

// =============================================================================
// PAYDAY SCHEDULE
// =============================================================================

func TestPaydayFor_WeekdayIsTheEighth(t *testing.T) {
	// 2026-01-08 is a Thursday
	assert.Equal(t, "2026-01-08", payroll.PaydayFor(2026, time.January).String())
}

func TestPaydayFor_SaturdayShiftsToMonday(t *testing.T) {
	// 2026-08-08 is a Saturday
	assert.Equal(t, "2026-08-10", payroll.PaydayFor(2026, time.August).String())
}

func TestPaydayFor_SundayShiftsToMonday(t *testing.T) {
	// 2026-02-08 is a Sunday
	assert.Equal(t, "2026-02-09", payroll.PaydayFor(2026, time.February).String())
}

func TestPaydayFor_NeverOnWeekend(t *testing.T) {
	for year := 2024; year <= 2028; year++ {
		for month := time.January; month <= time.December; month++ {
			payday := payroll.PaydayFor(year, month)
			assert.False(t, payday.IsWeekend(), "payday %s falls on %s", payday, payday.Weekday())
			assert.Contains(t, []int{8, 9, 10}, payday.Day())
		}
	}
}

func TestPaydaysIn_ReturnsTwelve(t *testing.T) {
	paydays := payroll.DefaultSchedule().PaydaysIn(2026)
	require.Len(t, paydays, 12)
	assert.Equal(t, "2026-11-09", paydays[10].String())
	assert.Equal(t, "2026-12-08", paydays[11].String())
}

func TestPaydayFor_LateDayStaysInMonth(t *testing.T) {
	// 2026-02-28 is a Saturday; a shifted 28th would land in March
	s := payroll.Schedule{Day: 28}
	for year := 2024; year <= 2028; year++ {
		for month := time.January; month <= time.December; month++ {
			payday := s.PaydayFor(generic.YearMonth{Year: year, Month: month})
			assert.Equal(t, month, payday.Month(), "payday %s", payday)
		}
	}

	today := day(2026, time.March, 1)
	last := s.LastPayday(today)
	assert.True(t, last.BeforeOrEqual(today), "last payday %s", last)
	assert.Equal(t, "2026-02-26", last.String())
	assert.Equal(t, "2026-03-26", s.NextPayday(today).String())
}

// =============================================================================
// NEXT / LAST PAYDAY
// =============================================================================

func TestPaydays_BeforePaydayThisMonth(t *testing.T) {
	today := day(2026, time.January, 5)
	assert.Equal(t, "2026-01-08", payroll.NextPayday(today).String())
	assert.Equal(t, "2025-12-08", payroll.LastPayday(today).String())
}

func TestPaydays_OnPayday(t *testing.T) {
	// GIVEN: today is exactly this month's payday
	// THEN: last payday is today, next payday is next month's
	today := day(2026, time.January, 8)
	assert.True(t, payroll.LastPayday(today).Equal(today))
	assert.Equal(t, "2026-02-09", payroll.NextPayday(today).String())
}

func TestPaydays_ShiftedPaydayNotYetReached(t *testing.T) {
	// 2026-02-08 is Sunday, the payday is the 9th. On the 8th it is still ahead.
	today := day(2026, time.February, 8)
	assert.Equal(t, "2026-02-09", payroll.NextPayday(today).String())
	assert.Equal(t, "2026-01-08", payroll.LastPayday(today).String())
}

func TestPaydays_YearRollover(t *testing.T) {
	dec := day(2026, time.December, 20)
	assert.Equal(t, "2027-01-08", payroll.NextPayday(dec).String())

	jan := day(2027, time.January, 2)
	assert.Equal(t, "2026-12-08", payroll.LastPayday(jan).String())
}

func TestPayPeriod(t *testing.T) {
	p := payroll.DefaultSchedule().PayPeriod(day(2026, time.January, 20))
	assert.Equal(t, "[2026-01-08, 2026-02-09]", p.String())
}

// =============================================================================
// PREMIUM CYCLE
// =============================================================================

func TestIsPremiumMonth_FourPerYear(t *testing.T) {
	for start := 0; start < 12; start++ {
		count := 0
		for m := 0; m < 12; m++ {
			if payroll.IsPremiumMonth(m, start) {
				count++
			}
		}
		assert.Equal(t, 4, count, "start month %d", start)
	}
}

func TestIsPremiumMonth_AnchoredAtStart(t *testing.T) {
	// start = February: Feb, May, Aug, Nov
	for _, m := range []int{1, 4, 7, 10} {
		assert.True(t, payroll.IsPremiumMonth(m, 1))
	}
	for _, m := range []int{0, 2, 3, 5, 11} {
		assert.False(t, payroll.IsPremiumMonth(m, 1))
	}
	// January is premium when the cycle starts in October
	assert.True(t, payroll.IsPremiumMonth(0, 9))
}

func TestNextPremiumMonthLabel_UpcomingThisCycle(t *testing.T) {
	today := day(2026, time.January, 5)
	label := payroll.NextPremiumMonthLabel(today, 1, payroll.NextPayday(today))
	assert.Equal(t, "February", label)
}

func TestNextPremiumMonthLabel_SkipsAlreadyPaidPremium(t *testing.T) {
	// GIVEN: February's premium was paid on 2026-02-09
	// WHEN: it is 2026-02-10, next payday is in March
	// THEN: the next premium is May
	today := day(2026, time.February, 10)
	label := payroll.NextPremiumMonthLabel(today, 1, payroll.NextPayday(today))
	assert.Equal(t, "May", label)
}

func TestNextPremiumMonthLabel_WrapsIntoNextYear(t *testing.T) {
	today := day(2026, time.December, 10)
	label := payroll.NextPremiumMonthLabel(today, 0, payroll.NextPayday(today))
	assert.Equal(t, "January", label)
}

func TestNextPremiumMonthLabel_NotFound(t *testing.T) {
	today := day(2026, time.January, 5)
	farAway := day(2028, time.January, 1)
	assert.Equal(t, payroll.NotSetLabel, payroll.NextPremiumMonthLabel(today, 1, farAway))
}

// =============================================================================
// INCOME PROJECTOR
// =============================================================================

func TestNetPayForMonth_PremiumMonth(t *testing.T) {
	profile := payroll.DefaultProfile()
	proj := payroll.DefaultProjector().Project(1, profile)

	assert.True(t, proj.IsPremium)
	assertAmount(t, 6750, proj.Premium)
	assertAmount(t, 56750, proj.TotalGross)
	assertAmount(t, 44223, proj.Net())
	assertAmount(t, 44223, payroll.NetPayForMonth(1, profile))
}

func TestNetPayForMonth_RegularMonth(t *testing.T) {
	// 50000 gross: 2250 health, 3550 social, 7500 - 2570 tax
	net := payroll.NetPayForMonth(0, payroll.DefaultProfile())
	assertAmount(t, 39270, net)
}

func TestNetPayForMonth_ZeroProfile(t *testing.T) {
	assertAmount(t, 0, payroll.NetPayForMonth(1, payroll.IncomeProfile{}))
}

func TestProjectYear_PremiumsFollowCycle(t *testing.T) {
	projections := payroll.DefaultProjector().ProjectYear(2026, payroll.DefaultProfile())
	require.Len(t, projections, 12)

	var premiums []time.Month
	for _, p := range projections {
		if p.IsPremium {
			premiums = append(premiums, p.Month.Month)
		}
	}
	assert.Equal(t, []time.Month{time.February, time.May, time.August, time.November}, premiums)
}
