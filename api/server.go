/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend
  5. Identity:   Bearer token to caller (anonymous without a token)

ROUTE GROUPS:
  /api/me               The resolved caller
  /api/expenses/*       Recurring expenses
  /api/income           Income profile
  /api/dashboard        Timeline until next payday
  /api/netpay           Deduction calculator
  /api/paydays          Payday projections
  /api/scenarios/*      Demo budgets
  /                     Endpoint index

SEE ALSO:
  - handlers.go: Handler implementations
  - identity/middleware.go: Authentication
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/paycheck/identity"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string

	// Verifier checks bearer tokens. Nil disables auth.
	Verifier *identity.Verifier

	// Quiet drops the request logger (tests).
	Quiet bool
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	if !opts.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(identity.Middleware(opts.Verifier))

		r.Get("/me", h.GetMe)

		// Expense routes
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.CreateExpense)
			r.Put("/{id}", h.UpdateExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})

		// Income routes
		r.Route("/income", func(r chi.Router) {
			r.Get("/", h.GetIncome)
			r.Put("/", h.PutIncome)
			r.Patch("/", h.PatchIncome)
		})

		// Projection routes
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/netpay", h.GetNetPay)
		r.Get("/paydays", h.GetPaydays)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Paycheck</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Paycheck API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/dashboard">/api/dashboard</a> - Timeline until next payday</li>
<li><a href="/api/expenses">/api/expenses</a> - Recurring expenses</li>
<li><a href="/api/income">/api/income</a> - Income profile</li>
<li><a href="/api/paydays">/api/paydays</a> - Paydays this year</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo budgets</li>
</ul>
</body>
</html>`))
	})

	return r
}
