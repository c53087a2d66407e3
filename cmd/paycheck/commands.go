package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/identity"
)

// =============================================================================
// NETPAY
// =============================================================================

func newNetPayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "netpay <gross>",
		Short: "Show deductions and net pay for a gross amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gross, err := generic.ParseAmount(args[0])
			if err != nil {
				return fmt.Errorf("invalid gross %q: %w", args[0], err)
			}
			d := a.cfg.TaxRules().Breakdown(gross)

			renderTable(a.out, table{
				Title: "Net pay",
				Rows: [][]string{
					{"Gross", d.Gross.String()},
					{"Health", "-" + d.Health.String()},
					{"Social", "-" + d.Social.String()},
					{"Tax", "-" + d.Tax.String()},
					{"Net", d.Net.String()},
				},
			})
			return nil
		},
	}
}

// =============================================================================
// PAYDAYS
// =============================================================================

func newPaydaysCmd(a *app) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "paydays",
		Short: "List the paydays of a year with projected net pay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			if year == 0 {
				year = a.svc.Today().Year()
			}
			profile, err := a.svc.Profile(a.ctx(cmd), a.user)
			if err != nil {
				return err
			}

			projector := a.svc.Projector
			t := table{
				Title:   fmt.Sprintf("Paydays %d", year),
				Headers: []string{"Month", "Payday", "Premium", "Gross", "Net"},
			}
			for _, p := range projector.ProjectYear(year, profile) {
				premium := ""
				if p.IsPremium {
					premium = "yes"
				}
				t.Rows = append(t.Rows, []string{
					p.Month.Month.String(),
					projector.Schedule.PaydayFor(p.Month).String(),
					premium,
					p.TotalGross.String(),
					p.Net().String(),
				})
			}
			renderTable(a.out, t)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current year)")
	return cmd
}

// =============================================================================
// TIMELINE
// =============================================================================

func newTimelineCmd(a *app) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"dashboard"},
		Short:   "Show what is due until the next payday and what remains",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			day := a.svc.Today()
			if today != "" {
				parsed, err := generic.ParseDate(today)
				if err != nil {
					return fmt.Errorf("invalid --today %q (use YYYY-MM-DD)", today)
				}
				day = parsed
			}

			view, err := a.svc.Dashboard(a.ctx(cmd), a.user, day)
			if err != nil {
				return err
			}
			printView(a, view)
			return nil
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "Evaluate as of this date (YYYY-MM-DD)")
	return cmd
}

func printView(a *app, v budget.View) {
	fmt.Fprintf(a.out, "Today %s, last payday %s (%s), next payday %s in %d days\n\n",
		v.Today, v.LastPayday, v.LastPaydayNet, v.NextPayday, v.DaysUntilPayday())

	t := table{Headers: []string{"Date", "Item", "Amount"}}
	for _, item := range v.Items {
		sign, name := "-", item.Name
		if item.Type == budget.ItemIncome {
			sign = "+"
			if item.IsPremium {
				name += " (premium)"
			}
		}
		t.Rows = append(t.Rows, []string{item.Date.String(), name, sign + item.Amount.String()})
	}
	renderTable(a.out, t)

	fmt.Fprintf(a.out, "\nMonthly expenses  %s\n", v.MonthlyExpenses)
	fmt.Fprintf(a.out, "Remaining         %s\n", v.Remaining)
	fmt.Fprintf(a.out, "Next premium      %s\n", v.NextPremiumMonth)
}

// =============================================================================
// EXPENSES
// =============================================================================

func newExpenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses"},
		Short:   "Manage recurring expenses",
	}

	var (
		id, name, amount string
		day              int
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add or overwrite an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := generic.ParseAmount(amount)
			if err != nil {
				return &generic.ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", amount)}
			}
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			saved, err := a.svc.SaveExpense(a.ctx(cmd), a.user, budget.ExpenseRecord{
				ID:     generic.ExpenseID(id),
				Name:   name,
				Amount: amt,
				Day:    day,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s: %s %s on day %d\n", saved.ID, saved.Name, saved.Amount, saved.Day)
			return nil
		},
	}
	add.Flags().StringVar(&id, "id", "", "Expense ID to overwrite (default: new)")
	add.Flags().StringVar(&name, "name", "", "Display name")
	add.Flags().StringVar(&amount, "amount", "", "Monthly amount")
	add.Flags().IntVar(&day, "day", 0, "Day of month, 1-28")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("amount")
	add.MarkFlagRequired("day")

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			if err := a.svc.DeleteExpense(a.ctx(cmd), a.user, generic.ExpenseID(args[0])); err != nil {
				if generic.IsNotFound(err) {
					return fmt.Errorf("no expense with id %q", args[0])
				}
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}

	ls := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List expenses by day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			expenses, err := a.svc.Expenses(a.ctx(cmd), a.user)
			if err != nil {
				return err
			}
			today := a.svc.Today()

			t := table{Headers: []string{"Name", "Day", "Amount", "Next", "ID"}}
			for _, e := range expenses {
				t.Rows = append(t.Rows, []string{
					e.Name,
					strconv.Itoa(e.Day),
					e.Amount.String(),
					budget.NextOccurrence(e, today).String(),
					string(e.ID),
				})
			}
			renderTable(a.out, t)
			fmt.Fprintf(a.out, "Total %s\n", budget.TotalAmount(expenses))
			return nil
		},
	}

	cmd.AddCommand(add, rm, ls)
	return cmd
}

// =============================================================================
// INCOME
// =============================================================================

func newIncomeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Show or edit the income profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the income profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			p, err := a.svc.Profile(a.ctx(cmd), a.user)
			if err != nil {
				return err
			}
			printProfile(a, p)
			return nil
		},
	}

	var gross, bonus, premiumPct string
	var startMonth int
	set := &cobra.Command{
		Use:   "set",
		Short: "Change fields of the income profile",
		Long:  "Only the flags given are changed. --start-month is 0-based (0 = January).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch budget.ProfilePatch
			flags := cmd.Flags()
			for _, f := range []struct {
				flag string
				dst  **generic.Amount
				raw  string
			}{
				{"gross", &patch.Gross, gross},
				{"bonus", &patch.Bonus, bonus},
			} {
				if !flags.Changed(f.flag) {
					continue
				}
				v, err := generic.ParseAmount(f.raw)
				if err != nil {
					return &generic.ValidationError{Field: f.flag, Reason: fmt.Sprintf("%q is not a number", f.raw)}
				}
				*f.dst = &v
			}
			if flags.Changed("premium-pct") {
				pct, err := decimal.NewFromString(strings.TrimSuffix(premiumPct, "%"))
				if err != nil {
					return &generic.ValidationError{Field: "premiumPct", Reason: fmt.Sprintf("%q is not a number", premiumPct)}
				}
				patch.PremiumPct = &pct
			}
			if flags.Changed("start-month") {
				patch.StartMonth = &startMonth
			}

			if err := a.open(); err != nil {
				return err
			}
			defer a.close()

			draft, err := a.svc.Draft(a.ctx(cmd), a.user)
			if err != nil {
				return err
			}
			draft.Apply(patch)
			if err := draft.Commit(a.ctx(cmd)); err != nil {
				return err
			}
			printProfile(a, draft.Confirmed())
			return nil
		},
	}
	set.Flags().StringVar(&gross, "gross", "", "Monthly gross salary")
	set.Flags().StringVar(&bonus, "bonus", "", "Fixed monthly bonus")
	set.Flags().StringVar(&premiumPct, "premium-pct", "", "Premium as a percentage of gross")
	set.Flags().IntVar(&startMonth, "start-month", 0, "First premium month, 0-11")

	cmd.AddCommand(show, set)
	return cmd
}

func printProfile(a *app, p budget.IncomeProfile) {
	renderTable(a.out, table{
		Title: "Income",
		Rows: [][]string{
			{"Gross", p.Gross.String()},
			{"Bonus", p.Bonus.String()},
			{"Premium", p.PremiumPct.String() + "%"},
			{"Start month", fmt.Sprintf("%s (%d)", time.Month(p.StartMonth+1), p.StartMonth)},
		},
	})
}

// =============================================================================
// TOKEN
// =============================================================================

func newTokenCmd(a *app) *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for a user (requires auth.jwt_secret)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verifier, err := identity.NewVerifier(a.cfg.Auth.JWTSecret)
			if err != nil {
				return err
			}
			token, err := verifier.Issue(identity.Identity{ID: generic.UserID(args[0]), Name: name}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime (0 for no expiry)")
	return cmd
}
