/*
scenarios.go - Demo budgets for testing and demonstrations

PURPOSE:

	Provides pre-built budgets that replace the caller's data with a
	realistic income profile and set of recurring expenses, so the
	dashboard has something to show.

AVAILABLE SCENARIOS:

	fresh-start:    Default income profile, no expenses
	single-renter:  Default income, rent and the usual monthly bills
	family:         Higher salary, mortgage, daycare, January premium cycle
	tight-month:    Expenses exceed the net salary; remaining goes negative

HOW SCENARIOS WORK:
 1. Reset the caller's data (store must support Reset)
 2. Save the income profile
 3. Save each expense through budget.Service (validated like user input)
 4. Drop the caller's cached dashboard so it is rebuilt from the new data

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "family"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Add its budget to 'scenarioBudgets'

NOTE:

	Scenarios delete the caller's data. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: Handler
  - budget/store.go: Store contract
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/identity"
)

// Resetter is implemented by stores that can delete a user's data.
type Resetter interface {
	Reset(ctx context.Context, user generic.UserID) error
}

var errResetUnsupported = errors.New("store does not support reset")

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "Default income profile and no expenses yet",
	},
	{
		ID:          "single-renter",
		Name:        "Single Renter",
		Description: "Default income with rent, utilities and subscriptions",
	},
	{
		ID:          "family",
		Name:        "Family",
		Description: "Higher salary, mortgage and daycare, premium paid in January, April, July and October",
	},
	{
		ID:          "tight-month",
		Name:        "Tight Month",
		Description: "Expenses exceed the monthly net salary",
	},
}

type scenarioBudget struct {
	profile  budget.IncomeProfile
	expenses []budget.ExpenseRecord
}

func bill(id, name string, amount int64, day int) budget.ExpenseRecord {
	return budget.ExpenseRecord{
		ID:     generic.ExpenseID(id),
		Name:   name,
		Amount: generic.NewAmountFromInt(amount),
		Day:    day,
	}
}

var scenarioBudgets = map[string]scenarioBudget{
	"fresh-start": {
		profile: budget.DefaultProfile(),
	},
	"single-renter": {
		profile: budget.DefaultProfile(),
		expenses: []budget.ExpenseRecord{
			bill("rent", "Rent", 15000, 1),
			bill("gym", "Gym", 300, 5),
			bill("phone", "Phone", 400, 7),
			bill("power", "Electricity", 900, 15),
			bill("internet", "Internet", 450, 20),
			bill("streaming", "Streaming", 129, 25),
		},
	},
	"family": {
		profile: budget.IncomeProfile{
			Gross:      generic.NewAmountFromInt(62000),
			Bonus:      generic.Zero(),
			PremiumPct: decimal.NewFromInt(10),
			StartMonth: 0,
		},
		expenses: []budget.ExpenseRecord{
			bill("mortgage", "Mortgage", 21000, 1),
			bill("daycare", "Daycare", 6500, 5),
			bill("groceries", "Groceries", 8000, 10),
			bill("car", "Car loan", 3200, 20),
			bill("insurance", "Insurance", 1400, 28),
		},
	},
	"tight-month": {
		profile: budget.IncomeProfile{
			Gross:      generic.NewAmountFromInt(28000),
			Bonus:      generic.Zero(),
			PremiumPct: decimal.NewFromInt(15),
			StartMonth: 1,
		},
		expenses: []budget.ExpenseRecord{
			bill("rent", "Rent", 14000, 1),
			bill("loan", "Student loan", 6000, 12),
			bill("card", "Credit card", 5500, 18),
			bill("phone", "Phone", 400, 7),
		},
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the scenario the caller loaded last, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario[identity.UserID(r.Context())]
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the caller's data with a demo budget.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	b, ok := scenarioBudgets[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	ctx := r.Context()
	user := identity.UserID(ctx)
	if err := h.loadScenario(ctx, user, b); err != nil {
		writeServiceError(w, "Failed to load scenario", err)
		return
	}

	h.mu.Lock()
	h.currentScenario[user] = req.ScenarioID
	h.mu.Unlock()

	h.Log.WithFields(logrus.Fields{"user": user, "scenario": req.ScenarioID}).Info("Scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "loaded",
		"scenario": req.ScenarioID,
	})
}

func (h *Handler) loadScenario(ctx context.Context, user generic.UserID, b scenarioBudget) error {
	resetter, ok := h.Service.Store.(Resetter)
	if !ok {
		return errResetUnsupported
	}
	if err := resetter.Reset(ctx, user); err != nil {
		return generic.WrapStorage("reset", err)
	}
	// The watcher holds the old profile; rebuild it from the new data.
	defer h.Cache.Forget(user)

	if err := h.Service.SaveProfile(ctx, user, b.profile); err != nil {
		return err
	}
	for _, e := range b.expenses {
		if _, err := h.Service.SaveExpense(ctx, user, e); err != nil {
			return fmt.Errorf("expense %s: %w", e.ID, err)
		}
	}
	return nil
}
