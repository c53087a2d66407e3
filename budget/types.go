/*
Package budget turns stored expenses and an income profile into the
cash-flow view shown until the next payday.

PURPOSE:
  The budget package owns the records a user edits (recurring expenses and
  the income profile), the contract with the store that persists them, and
  the aggregation that merges upcoming expenses with the next projected
  salary into one ordered timeline.

KEY CONCEPTS IN THIS FILE (types.go):
  - ExpenseRecord: A bill that recurs on a fixed day of every month
  - TimelineItem:  One dated cash-flow event, expense or income
  - Timeline:      Ordered items plus the remaining balance
  - View:          Everything the dashboard needs, recomputed on every change

DATA FLOW:
  Store snapshot (expenses + profile)
      -> payroll (paydays, net pay, premium month)
      -> BuildTimeline
      -> View

SEE ALSO:
  - timeline.go: BuildTimeline, Compute
  - store.go: Store contracts and subscriptions
  - service.go: Validation, default profile, watchers
*/
package budget

import (
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/payroll"
)

// =============================================================================
// EXPENSE RECORD
// =============================================================================

// MaxExpenseDay caps the recurrence day so it exists in every month.
const MaxExpenseDay = 28

// ExpenseRecord is a recurring monthly expense. Saving with an existing ID
// overwrites it in place.
type ExpenseRecord struct {
	ID     generic.ExpenseID `json:"id"`
	Name   string            `json:"name"`
	Amount generic.Amount    `json:"amount"`
	Day    int               `json:"day"`
}

// IncomeProfile is re-exported so callers of budget rarely need payroll.
type IncomeProfile = payroll.IncomeProfile

// DefaultProfile is substituted when a user has no stored profile.
func DefaultProfile() IncomeProfile { return payroll.DefaultProfile() }

// TotalAmount sums every expense regardless of its day.
func TotalAmount(expenses []ExpenseRecord) generic.Amount {
	total := generic.Zero()
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// =============================================================================
// TIMELINE
// =============================================================================

type ItemType string

const (
	ItemExpense ItemType = "expense"
	ItemIncome  ItemType = "income"
)

// IncomeItemName labels the synthetic salary item.
const IncomeItemName = "Salary"

// TimelineItem is a dated cash-flow event. Expense items carry the source
// expense ID; the single income item carries the premium flag.
type TimelineItem struct {
	Type      ItemType          `json:"type"`
	ExpenseID generic.ExpenseID `json:"expenseId,omitempty"`
	Name      string            `json:"name"`
	Amount    generic.Amount    `json:"amount"`
	Date      generic.TimePoint `json:"-"`
	IsPremium bool              `json:"isPremium,omitempty"`
}

// Timeline is the ordered ledger up to and including the next payday.
type Timeline struct {
	Items     []TimelineItem
	Remaining generic.Amount
}

// Income returns the trailing income item.
func (t Timeline) Income() TimelineItem {
	if len(t.Items) == 0 {
		return TimelineItem{}
	}
	return t.Items[len(t.Items)-1]
}

// Expenses returns the expense items due before the next payday.
func (t Timeline) Expenses() []TimelineItem {
	if len(t.Items) == 0 {
		return nil
	}
	return t.Items[:len(t.Items)-1]
}

// UpcomingTotal sums the expense items due before the next payday.
func (t Timeline) UpcomingTotal() generic.Amount {
	total := generic.Zero()
	for _, item := range t.Expenses() {
		total = total.Add(item.Amount)
	}
	return total
}

// =============================================================================
// VIEW
// =============================================================================

// View is the derived dashboard state for one user on one day.
type View struct {
	Today            generic.TimePoint
	LastPayday       generic.TimePoint
	NextPayday       generic.TimePoint
	LastPaydayNet    generic.Amount
	NextPaydayNet    generic.Amount
	MonthlyExpenses  generic.Amount
	Remaining        generic.Amount
	NextPremiumMonth string
	Items            []TimelineItem
}

// DaysUntilPayday counts the days from Today to NextPayday.
func (v View) DaysUntilPayday() int {
	return generic.Period{Start: v.LastPayday, End: v.NextPayday}.DaysLeft(v.Today)
}
