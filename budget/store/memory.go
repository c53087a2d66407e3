// Package store provides an in-memory budget.Store.
package store

import (
	"context"
	"sync"

	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	budget.Broadcaster

	mu       sync.RWMutex
	expenses map[generic.UserID]map[generic.ExpenseID]budget.ExpenseRecord
	profiles map[generic.UserID]budget.IncomeProfile
}

func NewMemory() *Memory {
	return &Memory{
		expenses: make(map[generic.UserID]map[generic.ExpenseID]budget.ExpenseRecord),
		profiles: make(map[generic.UserID]budget.IncomeProfile),
	}
}

func (m *Memory) ListExpenses(_ context.Context, user generic.UserID) ([]budget.ExpenseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(user), nil
}

func (m *Memory) listLocked(user generic.UserID) []budget.ExpenseRecord {
	result := make([]budget.ExpenseRecord, 0, len(m.expenses[user]))
	for _, e := range m.expenses[user] {
		result = append(result, e)
	}
	budget.SortExpenses(result)
	return result
}

// SaveExpense upserts by ID.
func (m *Memory) SaveExpense(_ context.Context, user generic.UserID, e budget.ExpenseRecord) error {
	m.mu.Lock()
	if m.expenses[user] == nil {
		m.expenses[user] = make(map[generic.ExpenseID]budget.ExpenseRecord)
	}
	m.expenses[user][e.ID] = e
	snapshot := m.listLocked(user)
	m.mu.Unlock()

	m.PublishExpenses(user, snapshot)
	return nil
}

func (m *Memory) DeleteExpense(_ context.Context, user generic.UserID, id generic.ExpenseID) error {
	m.mu.Lock()
	if _, ok := m.expenses[user][id]; !ok {
		m.mu.Unlock()
		return generic.ErrNotFound
	}
	delete(m.expenses[user], id)
	snapshot := m.listLocked(user)
	m.mu.Unlock()

	m.PublishExpenses(user, snapshot)
	return nil
}

func (m *Memory) GetProfile(_ context.Context, user generic.UserID) (budget.IncomeProfile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[user]
	return p, ok, nil
}

// SaveProfile replaces the profile.
func (m *Memory) SaveProfile(_ context.Context, user generic.UserID, p budget.IncomeProfile) error {
	m.mu.Lock()
	m.profiles[user] = p
	m.mu.Unlock()

	m.PublishProfile(user, p)
	return nil
}

// Reset clears all data for a user.
func (m *Memory) Reset(_ context.Context, user generic.UserID) error {
	m.mu.Lock()
	delete(m.expenses, user)
	delete(m.profiles, user)
	m.mu.Unlock()

	m.PublishExpenses(user, nil)
	return nil
}
