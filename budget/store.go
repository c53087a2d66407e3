/*
store.go - Persistence contract for expenses and income profiles

PURPOSE:
  Defines the interface between the budget engine and whatever persists a
  user's records. The engine only needs the current snapshot, whole-record
  writes, and a push notification when a snapshot changes.

KEY INTERFACES:
  ExpenseStore: List, upsert and delete recurring expenses
  ProfileStore: Read and replace the income profile singleton
  Store:        Both

WRITE SEMANTICS:
  Every write replaces the prior value (last write wins). SaveExpense
  creates or overwrites {name, amount, day} for the given ID. SaveProfile
  replaces the whole profile; there are no partial updates at this layer.

SUBSCRIPTIONS:
  Subscribe* registers a callback fired after every successful write for
  that user, with the fresh snapshot. The returned func unsubscribes.
  Callbacks run synchronously on the writer's goroutine.

IMPLEMENTATIONS:
  - budget/store/memory.go: In-memory for tests and dev
  - store/sqlite/sqlite.go: SQLite
  - store/jsonfile/jsonfile.go: One JSON document per user, optional encryption

SEE ALSO:
  - service.go: Validation and default profile on top of Store
*/
package budget

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/paycheck/generic"
)

// =============================================================================
// STORE
// =============================================================================

// ExpenseStore persists recurring expenses.
type ExpenseStore interface {
	// ListExpenses returns the user's expenses ordered by day, then ID.
	ListExpenses(ctx context.Context, user generic.UserID) ([]ExpenseRecord, error)

	// SaveExpense creates or overwrites the expense with e.ID.
	SaveExpense(ctx context.Context, user generic.UserID, e ExpenseRecord) error

	// DeleteExpense removes the expense. Returns generic.ErrNotFound if absent.
	DeleteExpense(ctx context.Context, user generic.UserID, id generic.ExpenseID) error

	SubscribeExpenses(user generic.UserID, fn func([]ExpenseRecord)) (unsubscribe func())
}

// ProfileStore persists the income profile singleton.
type ProfileStore interface {
	// GetProfile returns found=false when the user has never saved one.
	GetProfile(ctx context.Context, user generic.UserID) (IncomeProfile, bool, error)

	// SaveProfile replaces the whole profile.
	SaveProfile(ctx context.Context, user generic.UserID, p IncomeProfile) error

	SubscribeProfile(user generic.UserID, fn func(IncomeProfile)) (unsubscribe func())
}

type Store interface {
	ExpenseStore
	ProfileStore
}

// =============================================================================
// BROADCASTER - Subscription bookkeeping shared by store implementations
// =============================================================================

// Broadcaster tracks per-user subscribers. Stores embed it and call the
// Publish methods after a successful write.
type Broadcaster struct {
	mu          sync.Mutex
	nextID      int
	expenseSubs map[generic.UserID]map[int]func([]ExpenseRecord)
	profileSubs map[generic.UserID]map[int]func(IncomeProfile)
}

func (b *Broadcaster) SubscribeExpenses(user generic.UserID, fn func([]ExpenseRecord)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.expenseSubs == nil {
		b.expenseSubs = make(map[generic.UserID]map[int]func([]ExpenseRecord))
	}
	if b.expenseSubs[user] == nil {
		b.expenseSubs[user] = make(map[int]func([]ExpenseRecord))
	}
	id := b.nextID
	b.nextID++
	b.expenseSubs[user][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.expenseSubs[user], id)
		})
	}
}

func (b *Broadcaster) SubscribeProfile(user generic.UserID, fn func(IncomeProfile)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.profileSubs == nil {
		b.profileSubs = make(map[generic.UserID]map[int]func(IncomeProfile))
	}
	if b.profileSubs[user] == nil {
		b.profileSubs[user] = make(map[int]func(IncomeProfile))
	}
	id := b.nextID
	b.nextID++
	b.profileSubs[user][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.profileSubs[user], id)
		})
	}
}

// HasExpenseSubscribers lets stores skip reloading a snapshot nobody reads.
func (b *Broadcaster) HasExpenseSubscribers(user generic.UserID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.expenseSubs[user]) > 0
}

// PublishExpenses hands each subscriber its own copy of the snapshot.
func (b *Broadcaster) PublishExpenses(user generic.UserID, expenses []ExpenseRecord) {
	b.mu.Lock()
	subs := make([]func([]ExpenseRecord), 0, len(b.expenseSubs[user]))
	for _, fn := range b.expenseSubs[user] {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		snapshot := make([]ExpenseRecord, len(expenses))
		copy(snapshot, expenses)
		fn(snapshot)
	}
}

func (b *Broadcaster) PublishProfile(user generic.UserID, p IncomeProfile) {
	b.mu.Lock()
	subs := make([]func(IncomeProfile), 0, len(b.profileSubs[user]))
	for _, fn := range b.profileSubs[user] {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}

// SortExpenses orders expenses by day, then ID, in place.
func SortExpenses(expenses []ExpenseRecord) {
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].Day != expenses[j].Day {
			return expenses[i].Day < expenses[j].Day
		}
		return expenses[i].ID < expenses[j].ID
	})
}
