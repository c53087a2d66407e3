package payroll

import (
	"time"

	"github.com/warp/paycheck/generic"
)

// =============================================================================
// PAYDAY SCHEDULE
// =============================================================================

// DefaultPaydayDay is the nominal day of month salary is paid.
const DefaultPaydayDay = 8

// MaxPaydayDay is the latest nominal day whose weekend shift (+2) still
// lands in the same month.
const MaxPaydayDay = 26

// Schedule places the payday within a month. A payday falling on Saturday
// moves to Monday (+2), on Sunday to Monday (+1).
type Schedule struct {
	Day int
}

func DefaultSchedule() Schedule {
	return Schedule{Day: DefaultPaydayDay}
}

// PaydayFor returns the effective payday of the given month. A Day above
// MaxPaydayDay is treated as MaxPaydayDay.
func (s Schedule) PaydayFor(ym generic.YearMonth) generic.TimePoint {
	day := s.Day
	if day < 1 {
		day = DefaultPaydayDay
	}
	if day > MaxPaydayDay {
		day = MaxPaydayDay
	}
	payday := ym.Day(day)
	switch payday.Weekday() {
	case time.Saturday:
		return payday.AddDays(2)
	case time.Sunday:
		return payday.AddDays(1)
	default:
		return payday
	}
}

// NextPayday is this month's payday if it is strictly after today, otherwise
// next month's. On payday itself the next payday is a month away.
func (s Schedule) NextPayday(today generic.TimePoint) generic.TimePoint {
	current := generic.YearMonthOf(today)
	payday := s.PaydayFor(current)
	if payday.After(today) {
		return payday
	}
	return s.PaydayFor(current.Add(1))
}

// LastPayday is this month's payday if today is on or after it, otherwise
// the previous month's. On payday itself the last payday is today.
func (s Schedule) LastPayday(today generic.TimePoint) generic.TimePoint {
	current := generic.YearMonthOf(today)
	payday := s.PaydayFor(current)
	if today.AfterOrEqual(payday) {
		return payday
	}
	return s.PaydayFor(current.Add(-1))
}

// PayPeriod spans from the last payday to the next one.
func (s Schedule) PayPeriod(today generic.TimePoint) generic.Period {
	return generic.Period{Start: s.LastPayday(today), End: s.NextPayday(today)}
}

// PaydaysIn lists the twelve paydays of a year.
func (s Schedule) PaydaysIn(year int) []generic.TimePoint {
	paydays := make([]generic.TimePoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		paydays = append(paydays, s.PaydayFor(generic.YearMonth{Year: year, Month: m}))
	}
	return paydays
}

// Package-level helpers use the default schedule.

func PaydayFor(year int, month time.Month) generic.TimePoint {
	return DefaultSchedule().PaydayFor(generic.YearMonth{Year: year, Month: month})
}

func NextPayday(today generic.TimePoint) generic.TimePoint {
	return DefaultSchedule().NextPayday(today)
}

func LastPayday(today generic.TimePoint) generic.TimePoint {
	return DefaultSchedule().LastPayday(today)
}
