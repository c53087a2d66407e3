package budget

import (
	"sort"

	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/payroll"
)

// =============================================================================
// TIMELINE AGGREGATION
// =============================================================================

// NextOccurrence returns the first date on or after today on which the
// expense falls: its day in today's month, or in next month if that day has
// already passed.
func NextOccurrence(e ExpenseRecord, today generic.TimePoint) generic.TimePoint {
	occurrence := generic.YearMonthOf(today).Day(e.Day)
	if occurrence.Before(today) {
		occurrence = occurrence.AddMonths(1)
	}
	return occurrence
}

// BuildTimeline merges the expenses due before nextPayday with the salary
// paid on nextPayday.
//
// Remaining is lastPaydayNet minus the total of ALL expenses, not just the
// upcoming ones: it is what is left of the last salary after a full month of
// bills.
//
// The inputs are not modified.
func BuildTimeline(
	expenses []ExpenseRecord,
	today generic.TimePoint,
	nextPayday generic.TimePoint,
	lastPaydayNet generic.Amount,
	nextPaydayNet generic.Amount,
	profile IncomeProfile,
) Timeline {
	items := make([]TimelineItem, 0, len(expenses)+1)
	for _, e := range expenses {
		date := NextOccurrence(e, today)
		if !date.Before(nextPayday) {
			continue
		}
		items = append(items, TimelineItem{
			Type:      ItemExpense,
			ExpenseID: e.ID,
			Name:      e.Name,
			Amount:    e.Amount,
			Date:      date,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})

	items = append(items, TimelineItem{
		Type:      ItemIncome,
		Name:      IncomeItemName,
		Amount:    nextPaydayNet,
		Date:      nextPayday,
		IsPremium: payroll.IsPremiumMonth(nextPayday.MonthIndex(), profile.StartMonth),
	})

	return Timeline{
		Items:     items,
		Remaining: lastPaydayNet.Sub(TotalAmount(expenses)),
	}
}

// Compute derives the full dashboard view from a snapshot of the store.
// It is a pure function of its arguments and safe to call repeatedly.
func Compute(expenses []ExpenseRecord, profile IncomeProfile, today generic.TimePoint, projector payroll.Projector) View {
	schedule := projector.Schedule
	nextPayday := schedule.NextPayday(today)
	lastPayday := schedule.LastPayday(today)

	lastNet := projector.NetPayForMonth(lastPayday.MonthIndex(), profile)
	nextNet := projector.NetPayForMonth(nextPayday.MonthIndex(), profile)

	timeline := BuildTimeline(expenses, today, nextPayday, lastNet, nextNet, profile)

	return View{
		Today:            today,
		LastPayday:       lastPayday,
		NextPayday:       nextPayday,
		LastPaydayNet:    lastNet,
		NextPaydayNet:    nextNet,
		MonthlyExpenses:  TotalAmount(expenses),
		Remaining:        timeline.Remaining,
		NextPremiumMonth: schedule.NextPremiumMonthLabel(today, profile.StartMonth, nextPayday),
		Items:            timeline.Items,
	}
}
