package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/generic"
)

func TestSaveExpense_UnreadableSnapshotRollsBackWrite(t *testing.T) {
	ctx := context.Background()
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	// GIVEN a row whose amount cannot be parsed, and a subscriber
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO expenses (user_id, id, name, amount, day, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		"alice", "broken", "Broken", "oops", 3, "2026-01-01T00:00:00Z",
	)
	require.NoError(t, err)

	var pushed int
	defer s.SubscribeExpenses("alice", func([]budget.ExpenseRecord) { pushed++ })()

	// WHEN a valid expense is saved
	err = s.SaveExpense(ctx, "alice", budget.ExpenseRecord{
		ID: "rent", Name: "Rent", Amount: generic.NewAmountFromInt(15000), Day: 1,
	})

	// THEN the failure is returned, nothing is written and nobody is told
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reload expenses")
	assert.Zero(t, pushed)

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expenses WHERE user_id = ? AND id = ?", "alice", "rent",
	).Scan(&n))
	assert.Zero(t, n)
}

func TestDeleteExpense_WithoutSubscribersSkipsReload(t *testing.T) {
	ctx := context.Background()
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO expenses (user_id, id, name, amount, day, updated_at) VALUES (?, ?, ?, ?, ?, ?), (?, ?, ?, ?, ?, ?)",
		"alice", "broken", "Broken", "oops", 3, "2026-01-01T00:00:00Z",
		"alice", "rent", "Rent", "15000", 1, "2026-01-01T00:00:00Z",
	)
	require.NoError(t, err)

	require.NoError(t, s.DeleteExpense(ctx, "alice", "rent"))
}
