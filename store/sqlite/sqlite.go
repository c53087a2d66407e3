/*
Package sqlite provides a SQLite-backed implementation of budget.Store.

PURPOSE:
  Persists recurring expenses and income profiles per user. Money is stored
  as decimal TEXT so no precision is lost on the way through SQLite.

KEY TABLES:
  expenses:        One row per (user, expense id); upserted in place
  income_profiles: One row per user; replaced as a whole

WRITE SEMANTICS:
  - SaveExpense:   INSERT ... ON CONFLICT DO UPDATE of name, amount, day
  - DeleteExpense: Hard delete, generic.ErrNotFound if no row matched
  - SaveProfile:   INSERT ... ON CONFLICT DO UPDATE of every field
  No history is kept. After each successful write the fresh snapshot is
  pushed to subscribers via the embedded budget.Broadcaster. Expense writes
  and the snapshot read share one transaction: if the snapshot cannot be
  read the write is rolled back and the error returned.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Subscribers are notified after the
  lock is released so they may read the store again.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/paycheck.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := budget.NewService(store, payroll.DefaultProjector(), logger)

SEE ALSO:
  - budget/store.go: Interface definitions
  - budget/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/generic"
)

// Store implements budget.Store using SQLite.
type Store struct {
	budget.Broadcaster

	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS expenses (
		user_id TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 28),
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_user_day
		ON expenses(user_id, day);

	CREATE TABLE IF NOT EXISTS income_profiles (
		user_id TEXT PRIMARY KEY,
		gross TEXT NOT NULL,
		bonus TEXT NOT NULL,
		premium_pct TEXT NOT NULL,
		start_month INTEGER NOT NULL CHECK (start_month BETWEEN 0 AND 11),
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EXPENSE STORE
// =============================================================================

// ListExpenses returns a user's expenses ordered by day.
func (s *Store) ListExpenses(ctx context.Context, user generic.UserID) ([]budget.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listExpenses(ctx, s.db, user)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listExpenses(ctx context.Context, q querier, user generic.UserID) ([]budget.ExpenseRecord, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, name, amount, day FROM expenses WHERE user_id = ? ORDER BY day ASC, id ASC",
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []budget.ExpenseRecord
	for rows.Next() {
		var (
			e      budget.ExpenseRecord
			amount string
		)
		if err := rows.Scan(&e.ID, &e.Name, &amount, &e.Day); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount, err = generic.ParseAmount(amount)
		if err != nil {
			return nil, fmt.Errorf("expense %s has invalid amount %q: %w", e.ID, amount, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// SaveExpense upserts an expense by (user, id).
func (s *Store) SaveExpense(ctx context.Context, user generic.UserID, e budget.ExpenseRecord) error {
	query := `
		INSERT INTO expenses (user_id, id, name, amount, day, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, id) DO UPDATE SET
			name = excluded.name,
			amount = excluded.amount,
			day = excluded.day,
			updated_at = excluded.updated_at
	`

	return s.writeExpenses(ctx, user, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			user, e.ID, e.Name, e.Amount.Value.String(), e.Day,
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		return nil
	})
}

// DeleteExpense removes an expense.
func (s *Store) DeleteExpense(ctx context.Context, user generic.UserID, id generic.ExpenseID) error {
	return s.writeExpenses(ctx, user, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE user_id = ? AND id = ?", user, id)
		if err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return generic.ErrNotFound
		}
		return nil
	})
}

// writeExpenses runs write in a transaction. With subscribers present the
// fresh snapshot is read in the same transaction, so a write is only
// committed together with the snapshot that announces it. Subscribers are
// notified after the lock is released.
func (s *Store) writeExpenses(ctx context.Context, user generic.UserID, write func(tx *sql.Tx) error) error {
	s.mu.Lock()

	snapshot, publish, err := func() ([]budget.ExpenseRecord, bool, error) {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		if err := write(tx); err != nil {
			return nil, false, err
		}

		var snapshot []budget.ExpenseRecord
		publish := s.HasExpenseSubscribers(user)
		if publish {
			if snapshot, err = listExpenses(ctx, tx, user); err != nil {
				return nil, false, fmt.Errorf("failed to reload expenses: %w", err)
			}
		}
		if err := tx.Commit(); err != nil {
			return nil, false, fmt.Errorf("failed to commit: %w", err)
		}
		return snapshot, publish, nil
	}()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if publish {
		s.PublishExpenses(user, snapshot)
	}
	return nil
}

// =============================================================================
// PROFILE STORE
// =============================================================================

// GetProfile returns the user's income profile, found=false if none saved.
func (s *Store) GetProfile(ctx context.Context, user generic.UserID) (budget.IncomeProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p                     budget.IncomeProfile
		gross, bonus, premium string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT gross, bonus, premium_pct, start_month FROM income_profiles WHERE user_id = ?",
		user,
	).Scan(&gross, &bonus, &premium, &p.StartMonth)

	if err == sql.ErrNoRows {
		return budget.IncomeProfile{}, false, nil
	}
	if err != nil {
		return budget.IncomeProfile{}, false, fmt.Errorf("failed to get income profile: %w", err)
	}

	if p.Gross, err = generic.ParseAmount(gross); err != nil {
		return budget.IncomeProfile{}, false, fmt.Errorf("invalid gross %q: %w", gross, err)
	}
	if p.Bonus, err = generic.ParseAmount(bonus); err != nil {
		return budget.IncomeProfile{}, false, fmt.Errorf("invalid bonus %q: %w", bonus, err)
	}
	if p.PremiumPct, err = decimal.NewFromString(premium); err != nil {
		return budget.IncomeProfile{}, false, fmt.Errorf("invalid premium_pct %q: %w", premium, err)
	}
	return p, true, nil
}

// SaveProfile replaces the user's income profile.
func (s *Store) SaveProfile(ctx context.Context, user generic.UserID, p budget.IncomeProfile) error {
	s.mu.Lock()

	query := `
		INSERT INTO income_profiles (user_id, gross, bonus, premium_pct, start_month, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			gross = excluded.gross,
			bonus = excluded.bonus,
			premium_pct = excluded.premium_pct,
			start_month = excluded.start_month,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		user, p.Gross.Value.String(), p.Bonus.Value.String(), p.PremiumPct.String(), p.StartMonth,
		time.Now().UTC().Format(time.RFC3339),
	)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to save income profile: %w", err)
	}

	s.PublishProfile(user, p)
	return nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset deletes all of a user's data.
func (s *Store) Reset(ctx context.Context, user generic.UserID) error {
	s.mu.Lock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"expenses", "income_profiles"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", user); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to commit reset: %w", err)
	}
	s.mu.Unlock()

	s.PublishExpenses(user, nil)
	return nil
}

// Users lists every user that has stored data.
func (s *Store) Users(ctx context.Context) ([]generic.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM income_profiles UNION SELECT user_id FROM expenses ORDER BY user_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []generic.UserID
	for rows.Next() {
		var u generic.UserID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
