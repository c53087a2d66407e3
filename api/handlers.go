/*
handlers.go - HTTP API handlers for the budget engine

PURPOSE:
  Exposes the budget service via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to budget.Service. Every route acts on
  the caller resolved by identity.Middleware.

ENDPOINTS:
  Identity:
    GET    /api/me                     The resolved caller

  Expenses:
    GET    /api/expenses               List recurring expenses
    POST   /api/expenses               Create (ID assigned if omitted)
    PUT    /api/expenses/{id}          Create or overwrite
    DELETE /api/expenses/{id}          Delete

  Income:
    GET    /api/income                 Income profile (default on first read)
    PUT    /api/income                 Replace the whole profile
    PATCH  /api/income                 Optimistic partial edit

  Projection:
    GET    /api/dashboard[?today=]     Timeline and remaining balance
    GET    /api/netpay?gross=          Deduction breakdown
    GET    /api/paydays[?year=]        Projected paydays of a year

  Scenarios:
    GET    /api/scenarios              List demo budgets
    POST   /api/scenarios/load         Replace the caller's data with one

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Service: Validation and persistence
  - Cache: Live dashboards for "today" requests

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Invalid credentials (from the middleware)
  - 404: Expense not found
  - 500: Storage and internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - cache.go: DashboardCache
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/identity"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *budget.Service
	Cache   *DashboardCache
	Log     logrus.FieldLogger

	// Track the scenario each user loaded last
	mu              sync.Mutex
	currentScenario map[generic.UserID]string
}

// NewHandler creates a new handler around svc.
func NewHandler(svc *budget.Service, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = svc.Log
	}
	return &Handler{
		Service:         svc,
		Cache:           NewDashboardCache(svc, log),
		Log:             log,
		currentScenario: make(map[generic.UserID]string),
	}
}

// =============================================================================
// IDENTITY HANDLERS
// =============================================================================

// GetMe returns the caller.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toIdentityDTO(identity.FromContext(r.Context())))
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// ListExpenses returns the caller's expenses ordered by day.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.Expenses(r.Context(), identity.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, "Failed to list expenses", err)
		return
	}

	today := h.Service.Today()
	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = toExpenseDTO(e, today)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateExpense saves a new expense.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req SaveExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.saveExpense(w, r, req, http.StatusCreated)
}

// UpdateExpense creates or overwrites the expense named in the path.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req SaveExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = generic.ExpenseID(chi.URLParam(r, "id"))
	h.saveExpense(w, r, req, http.StatusOK)
}

func (h *Handler) saveExpense(w http.ResponseWriter, r *http.Request, req SaveExpenseRequest, status int) {
	saved, err := h.Service.SaveExpense(r.Context(), identity.UserID(r.Context()), budget.ExpenseRecord{
		ID:     req.ID,
		Name:   req.Name,
		Amount: req.Amount,
		Day:    req.Day,
	})
	if err != nil {
		writeServiceError(w, "Failed to save expense", err)
		return
	}
	writeJSON(w, status, toExpenseDTO(saved, h.Service.Today()))
}

// DeleteExpense removes an expense.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := generic.ExpenseID(chi.URLParam(r, "id"))

	if err := h.Service.DeleteExpense(r.Context(), identity.UserID(r.Context()), id); err != nil {
		writeServiceError(w, "Failed to delete expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INCOME HANDLERS
// =============================================================================

// GetIncome returns the caller's income profile.
func (h *Handler) GetIncome(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Profile(r.Context(), identity.UserID(r.Context()))
	if err != nil {
		writeServiceError(w, "Failed to load income profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PutIncome replaces the whole income profile.
func (h *Handler) PutIncome(w http.ResponseWriter, r *http.Request) {
	var p IncomeDTO
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.Service.SaveProfile(r.Context(), identity.UserID(r.Context()), p); err != nil {
		writeServiceError(w, "Failed to save income profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PatchIncome merges the given fields into the profile and saves the result.
// If the save fails nothing changes and the stored profile is unchanged.
func (h *Handler) PatchIncome(w http.ResponseWriter, r *http.Request) {
	var patch budget.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	draft, err := h.Service.Draft(ctx, identity.UserID(ctx))
	if err != nil {
		writeServiceError(w, "Failed to load income profile", err)
		return
	}

	draft.Apply(patch)
	if err := draft.Commit(ctx); err != nil {
		writeServiceError(w, "Failed to save income profile", err)
		return
	}
	writeJSON(w, http.StatusOK, draft.Confirmed())
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// GetDashboard returns the timeline until the next payday. Without ?today
// the cached live view for the current date is used.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := identity.UserID(ctx)

	var (
		view budget.View
		err  error
	)
	if raw := r.URL.Query().Get("today"); raw != "" {
		today, perr := generic.ParseDate(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid today format (use YYYY-MM-DD)", perr)
			return
		}
		view, err = h.Service.Dashboard(ctx, user, today)
	} else {
		view, err = h.Cache.View(ctx, user)
	}
	if err != nil {
		writeServiceError(w, "Failed to compute dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, toDashboardDTO(view))
}

// GetNetPay returns the deduction breakdown for ?gross.
func (h *Handler) GetNetPay(w http.ResponseWriter, r *http.Request) {
	gross, err := generic.ParseAmount(r.URL.Query().Get("gross"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid gross amount", err)
		return
	}
	writeJSON(w, http.StatusOK, NetPayDTO(h.Service.Projector.Rules.Breakdown(gross)))
}

// GetPaydays projects every payday of ?year (default: this year) using the
// caller's income profile.
func (h *Handler) GetPaydays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	year := h.Service.Today().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 9999 {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = n
	}

	profile, err := h.Service.Profile(ctx, identity.UserID(ctx))
	if err != nil {
		writeServiceError(w, "Failed to load income profile", err)
		return
	}

	projector := h.Service.Projector
	projections := projector.ProjectYear(year, profile)
	dtos := make([]PaydayDTO, len(projections))
	for i, p := range projections {
		dtos[i] = PaydayDTO{
			Month:      p.Month.String(),
			Date:       projector.Schedule.PaydayFor(p.Month).String(),
			IsPremium:  p.IsPremium,
			Premium:    p.Premium,
			TotalGross: p.TotalGross,
			Net:        p.Net(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps the budget error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsUnauthorized(err):
		writeError(w, http.StatusUnauthorized, message, err)
	case errors.Is(err, errResetUnsupported):
		writeError(w, http.StatusNotImplemented, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
