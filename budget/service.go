/*
service.go - Budget operations on top of a Store

PURPOSE:
  The boundary between callers (HTTP handlers, CLI) and the store. Every
  write is validated before it reaches storage, every storage failure is
  surfaced as a StorageError, and the projection is recomputed from fresh
  snapshots whenever the store pushes a change.

ERROR HANDLING:
  - ValidationError: record refused, nothing written
  - StorageError:    store failed; no retry, prior state untouched
  - ErrNotFound:     delete of an unknown expense
  A missing income profile is not an error: the default profile is saved
  once and returned.

WATCHERS:
  Watch subscribes to both the expense list and the profile and keeps a
  current View. Refresh recomputes it for a new "today" without touching the
  store, which is how the midnight rollover is handled.

SEE ALSO:
  - timeline.go: Compute
  - draft.go: Optimistic income profile edits
*/
package budget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/payroll"
)

// Service validates writes and computes views for a Store.
type Service struct {
	Store     Store
	Projector payroll.Projector
	Log       logrus.FieldLogger

	// Now is the clock; tests replace it.
	Now func() time.Time

	// NewID generates IDs for expenses saved without one.
	NewID func() generic.ExpenseID

	initMu sync.Mutex
}

// NewService creates a service with the real clock and UUID expense IDs.
func NewService(store Store, projector payroll.Projector, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		Store:     store,
		Projector: projector,
		Log:       log,
		Now:       time.Now,
		NewID:     func() generic.ExpenseID { return generic.ExpenseID(uuid.NewString()) },
	}
}

// Today is the current date according to the service clock.
func (s *Service) Today() generic.TimePoint {
	return generic.FromTime(s.Now())
}

// =============================================================================
// EXPENSES
// =============================================================================

// Expenses returns the user's expenses ordered by day.
func (s *Service) Expenses(ctx context.Context, user generic.UserID) ([]ExpenseRecord, error) {
	expenses, err := s.Store.ListExpenses(ctx, user)
	if err != nil {
		return nil, generic.WrapStorage("list expenses", err)
	}
	return expenses, nil
}

// SaveExpense validates and upserts an expense. An empty ID is replaced with
// a fresh one. The saved record is returned.
func (s *Service) SaveExpense(ctx context.Context, user generic.UserID, e ExpenseRecord) (ExpenseRecord, error) {
	e.Name = strings.TrimSpace(e.Name)
	if err := ValidateExpense(e); err != nil {
		s.Log.WithFields(logrus.Fields{"user": user, "expense_id": e.ID}).
			Debugf("Expense refused: %v", err)
		return ExpenseRecord{}, err
	}
	if e.ID == "" {
		e.ID = s.NewID()
	}

	if err := s.Store.SaveExpense(ctx, user, e); err != nil {
		s.Log.WithFields(logrus.Fields{"user": user, "expense_id": e.ID, "op": "save_expense"}).
			Errorf("Failed to save expense: %v", err)
		return ExpenseRecord{}, generic.WrapStorage("save expense", err)
	}

	s.Log.WithFields(logrus.Fields{"user": user, "expense_id": e.ID}).Info("Expense saved")
	return e, nil
}

// DeleteExpense removes an expense.
func (s *Service) DeleteExpense(ctx context.Context, user generic.UserID, id generic.ExpenseID) error {
	if err := s.Store.DeleteExpense(ctx, user, id); err != nil {
		if errors.Is(err, generic.ErrNotFound) {
			return err
		}
		s.Log.WithFields(logrus.Fields{"user": user, "expense_id": id, "op": "delete_expense"}).
			Errorf("Failed to delete expense: %v", err)
		return generic.WrapStorage("delete expense", err)
	}
	s.Log.WithFields(logrus.Fields{"user": user, "expense_id": id}).Info("Expense deleted")
	return nil
}

// =============================================================================
// INCOME PROFILE
// =============================================================================

// Profile returns the user's income profile. The first read for a user with
// no stored profile saves and returns DefaultProfile.
func (s *Service) Profile(ctx context.Context, user generic.UserID) (IncomeProfile, error) {
	p, found, err := s.Store.GetProfile(ctx, user)
	if err != nil {
		return IncomeProfile{}, generic.WrapStorage("get profile", err)
	}
	if found {
		return p, nil
	}

	s.initMu.Lock()
	defer s.initMu.Unlock()

	// Another caller may have initialized it while we waited.
	p, found, err = s.Store.GetProfile(ctx, user)
	if err != nil {
		return IncomeProfile{}, generic.WrapStorage("get profile", err)
	}
	if found {
		return p, nil
	}

	p = DefaultProfile()
	if err := s.Store.SaveProfile(ctx, user, p); err != nil {
		return IncomeProfile{}, generic.WrapStorage("initialize profile", err)
	}
	s.Log.WithField("user", user).Info("Initialized default income profile")
	return p, nil
}

// SaveProfile validates and replaces the income profile.
func (s *Service) SaveProfile(ctx context.Context, user generic.UserID, p IncomeProfile) error {
	if err := ValidateProfile(p); err != nil {
		return err
	}
	if err := s.Store.SaveProfile(ctx, user, p); err != nil {
		s.Log.WithFields(logrus.Fields{"user": user, "op": "save_profile"}).
			Errorf("Failed to save income profile: %v", err)
		return generic.WrapStorage("save profile", err)
	}
	s.Log.WithField("user", user).Info("Income profile saved")
	return nil
}

// Draft starts an optimistic edit of the user's income profile.
func (s *Service) Draft(ctx context.Context, user generic.UserID) (*ProfileDraft, error) {
	p, err := s.Profile(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ProfileDraft{svc: s, user: user, confirmed: p}, nil
}

// =============================================================================
// VIEWS
// =============================================================================

// Dashboard loads a snapshot and computes the view for today.
func (s *Service) Dashboard(ctx context.Context, user generic.UserID, today generic.TimePoint) (View, error) {
	expenses, err := s.Expenses(ctx, user)
	if err != nil {
		return View{}, err
	}
	profile, err := s.Profile(ctx, user)
	if err != nil {
		return View{}, err
	}
	return Compute(expenses, profile, today, s.Projector), nil
}

// Watcher keeps a View current as the store pushes changes.
type Watcher struct {
	svc    *Service
	user   generic.UserID
	onView func(View)

	mu       sync.Mutex
	expenses []ExpenseRecord
	profile  IncomeProfile
	view     View
	unsubs   []func()

	// Set once a push arrives; a push is never older than the initial load.
	expensesPushed bool
	profilePushed  bool
}

// Watch subscribes to the user's expenses and profile and recomputes the
// view on every change. onView, if set, is called with each new view while
// the watcher's lock is held; it must not call back into the watcher.
func (s *Service) Watch(ctx context.Context, user generic.UserID, onView func(View)) (*Watcher, error) {
	w := &Watcher{svc: s, user: user, onView: onView}

	// Subscribe before loading so no write between the two is missed.
	w.unsubs = append(w.unsubs,
		s.Store.SubscribeExpenses(user, w.setExpenses),
		s.Store.SubscribeProfile(user, w.setProfile),
	)

	expenses, err := s.Expenses(ctx, user)
	if err != nil {
		w.Close()
		return nil, err
	}
	profile, err := s.Profile(ctx, user)
	if err != nil {
		w.Close()
		return nil, err
	}

	w.mu.Lock()
	if !w.expensesPushed {
		w.expenses = expenses
	}
	if !w.profilePushed {
		w.profile = profile
	}
	w.recomputeLocked()
	w.mu.Unlock()

	return w, nil
}

func (w *Watcher) setExpenses(expenses []ExpenseRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.expenses = expenses
	w.expensesPushed = true
	w.recomputeLocked()
}

func (w *Watcher) setProfile(p IncomeProfile) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.profile = p
	w.profilePushed = true
	w.recomputeLocked()
}

func (w *Watcher) recomputeLocked() {
	w.view = Compute(w.expenses, w.profile, w.svc.Today(), w.svc.Projector)
	if w.onView != nil {
		w.onView(w.view)
	}
}

// Refresh recomputes the view for the current date from the held snapshot.
func (w *Watcher) Refresh() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.recomputeLocked()
}

// View returns the latest computed view.
func (w *Watcher) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

// Profile returns the profile the current view was computed from.
func (w *Watcher) Profile() IncomeProfile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.profile
}

// Close unsubscribes from the store. Safe to call more than once.
func (w *Watcher) Close() {
	for _, unsub := range w.unsubs {
		unsub()
	}
}
