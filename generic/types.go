/*
Package generic provides the primitives the projection engine is built on.

PURPOSE:
  Money and calendar types shared by payroll (net pay, paydays, premiums)
  and budget (expenses, timeline, remaining balance). Nothing in here knows
  about salaries or expenses.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A money value in currency units, backed by decimal.Decimal
  - UserID: Owner of every stored record

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Single currency: Amount carries no unit, every value is in the same currency
  3. Type Safety: Strong typing for IDs

USAGE:
  gross := generic.NewAmountFromInt(45000)
  premium := gross.Percent(decimal.NewFromInt(15)) // 6750

SEE ALSO:
  - time.go: TimePoint and YearMonth
  - errors.go: Error taxonomy
*/
package generic

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Money in currency units
// =============================================================================

type Amount struct {
	Value decimal.Decimal
}

func NewAmount(value float64) Amount {
	return Amount{Value: decimal.NewFromFloat(value)}
}

func NewAmountFromInt(value int64) Amount {
	return Amount{Value: decimal.NewFromInt(value)}
}

func NewAmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{Value: d}
}

// ParseAmount parses a decimal string such as "15000" or "129.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: d}, nil
}

// MustParseAmount is ParseAmount for literals; it panics on bad input.
func MustParseAmount(s string) Amount {
	return Amount{Value: decimal.RequireFromString(s)}
}

func Zero() Amount { return Amount{Value: decimal.Zero} }

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s)} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg()} }
func (a Amount) Ceil() Amount                 { return Amount{Value: a.Value.Ceil()} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Percent returns pct percent of a.
func (a Amount) Percent(pct decimal.Decimal) Amount {
	return Amount{Value: a.Value.Mul(pct).Div(decimal.NewFromInt(100))}
}

func (a Amount) String() string { return a.Value.String() }

// Float64 is for display only.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

// Sum adds up amounts.
func Sum(amounts ...Amount) Amount {
	total := Zero()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarshalJSON encodes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Value.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	a.Value = d
	return nil
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type ExpenseID string

// AnonymousUser owns records when no identity is signed in.
const AnonymousUser UserID = "anonymous"
