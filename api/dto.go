/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the budget model from the external API contract. Dates are rendered as
  YYYY-MM-DD strings, money as JSON numbers.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Identity:  IdentityDTO
  Expenses:  ExpenseDTO, SaveExpenseRequest
  Income:    IncomeDTO (budget.IncomeProfile), budget.ProfilePatch
  Dashboard: DashboardDTO, TimelineItemDTO
  Payroll:   NetPayDTO, PaydayDTO
  Scenarios: ScenarioDTO, LoadScenarioRequest

VALIDATION:
  Validation is done by budget.Service, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/identity"
	"github.com/warp/paycheck/payroll"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// IdentityDTO is the caller as resolved by the auth middleware.
type IdentityDTO struct {
	ID          generic.UserID `json:"id"`
	Name        string         `json:"name,omitempty"`
	AvatarURL   string         `json:"avatarUrl,omitempty"`
	IsAnonymous bool           `json:"isAnonymous"`
}

func toIdentityDTO(id identity.Identity) IdentityDTO {
	return IdentityDTO{
		ID:          id.ID,
		Name:        id.Name,
		AvatarURL:   id.AvatarURL,
		IsAnonymous: id.IsAnonymous(),
	}
}

// ExpenseDTO represents a recurring expense in API responses.
type ExpenseDTO struct {
	ID       generic.ExpenseID `json:"id"`
	Name     string            `json:"name"`
	Amount   generic.Amount    `json:"amount"`
	Day      int               `json:"day"`
	NextDate string            `json:"nextDate,omitempty"`
}

func toExpenseDTO(e budget.ExpenseRecord, today generic.TimePoint) ExpenseDTO {
	dto := ExpenseDTO{ID: e.ID, Name: e.Name, Amount: e.Amount, Day: e.Day}
	if !today.IsZero() {
		dto.NextDate = budget.NextOccurrence(e, today).String()
	}
	return dto
}

// SaveExpenseRequest is the body of POST /expenses and PUT /expenses/{id}.
// On PUT the path ID wins over the body.
type SaveExpenseRequest struct {
	ID     generic.ExpenseID `json:"id,omitempty"`
	Name   string            `json:"name"`
	Amount generic.Amount    `json:"amount"`
	Day    int               `json:"day"`
}

// IncomeDTO is the income profile as stored.
type IncomeDTO = budget.IncomeProfile

// TimelineItemDTO is one row of the dashboard ledger.
type TimelineItemDTO struct {
	Type      budget.ItemType   `json:"type"`
	ExpenseID generic.ExpenseID `json:"expenseId,omitempty"`
	Name      string            `json:"name"`
	Amount    generic.Amount    `json:"amount"`
	Date      string            `json:"date"`
	IsPremium bool              `json:"isPremium,omitempty"`
}

// DashboardDTO is the computed view until the next payday.
type DashboardDTO struct {
	Today            string            `json:"today"`
	LastPayday       string            `json:"lastPayday"`
	NextPayday       string            `json:"nextPayday"`
	DaysUntilPayday  int               `json:"daysUntilPayday"`
	LastPaydayNet    generic.Amount    `json:"lastPaydayNet"`
	NextPaydayNet    generic.Amount    `json:"nextPaydayNet"`
	MonthlyExpenses  generic.Amount    `json:"monthlyExpenses"`
	Remaining        generic.Amount    `json:"remaining"`
	NextPremiumMonth string            `json:"nextPremiumMonth"`
	Items            []TimelineItemDTO `json:"items"`
}

func toDashboardDTO(v budget.View) DashboardDTO {
	items := make([]TimelineItemDTO, len(v.Items))
	for i, item := range v.Items {
		items[i] = TimelineItemDTO{
			Type:      item.Type,
			ExpenseID: item.ExpenseID,
			Name:      item.Name,
			Amount:    item.Amount,
			Date:      item.Date.String(),
			IsPremium: item.IsPremium,
		}
	}
	return DashboardDTO{
		Today:            v.Today.String(),
		LastPayday:       v.LastPayday.String(),
		NextPayday:       v.NextPayday.String(),
		DaysUntilPayday:  v.DaysUntilPayday(),
		LastPaydayNet:    v.LastPaydayNet,
		NextPaydayNet:    v.NextPaydayNet,
		MonthlyExpenses:  v.MonthlyExpenses,
		Remaining:        v.Remaining,
		NextPremiumMonth: v.NextPremiumMonth,
		Items:            items,
	}
}

// NetPayDTO is the deduction breakdown for a gross amount.
type NetPayDTO = payroll.Deductions

// PaydayDTO is one projected payday of a year.
type PaydayDTO struct {
	Month      string         `json:"month"`
	Date       string         `json:"date"`
	IsPremium  bool           `json:"isPremium"`
	Premium    generic.Amount `json:"premium"`
	TotalGross generic.Amount `json:"totalGross"`
	Net        generic.Amount `json:"net"`
}

// ScenarioDTO describes a demo budget.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the body of POST /scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
