package budget

import (
	"strings"

	"github.com/warp/paycheck/generic"
)

// ValidateExpense refuses records the timeline cannot handle.
func ValidateExpense(e ExpenseRecord) error {
	if strings.TrimSpace(e.Name) == "" {
		return &generic.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !e.Amount.IsPositive() {
		return &generic.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if e.Day < 1 || e.Day > MaxExpenseDay {
		return &generic.ValidationError{Field: "day", Reason: "must be between 1 and 28"}
	}
	return nil
}

// ValidateProfile refuses negative amounts and out-of-range months.
func ValidateProfile(p IncomeProfile) error {
	if p.Gross.IsNegative() {
		return &generic.ValidationError{Field: "gross", Reason: "must not be negative"}
	}
	if p.Bonus.IsNegative() {
		return &generic.ValidationError{Field: "bonus", Reason: "must not be negative"}
	}
	if p.PremiumPct.IsNegative() {
		return &generic.ValidationError{Field: "premiumPct", Reason: "must not be negative"}
	}
	if p.StartMonth < 0 || p.StartMonth > 11 {
		return &generic.ValidationError{Field: "startMonth", Reason: "must be between 0 and 11"}
	}
	return nil
}
