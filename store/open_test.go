package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/paycheck/api"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/config"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/store"
)

func TestOpen_EveryDriver(t *testing.T) {
	dir := t.TempDir()
	tests := []config.StoreConfig{
		{Driver: config.DriverSQLite, Path: filepath.Join(dir, "paycheck.db")},
		{Driver: config.DriverJSONFile, DataDir: filepath.Join(dir, "budgets")},
		{Driver: config.DriverMemory},
	}
	for _, cfg := range tests {
		t.Run(cfg.Driver, func(t *testing.T) {
			s, err := store.Open(cfg)
			require.NoError(t, err)
			defer s.Close()

			ctx := context.Background()
			require.NoError(t, s.SaveExpense(ctx, "alice", budget.ExpenseRecord{
				ID: "rent", Name: "Rent", Amount: generic.NewAmountFromInt(15000), Day: 1,
			}))
			got, err := s.ListExpenses(ctx, "alice")
			require.NoError(t, err)
			assert.Len(t, got, 1)

			// Every driver supports demo scenarios
			_, ok := s.(api.Resetter)
			assert.True(t, ok)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := store.Open(config.StoreConfig{Driver: "postgres"})
	assert.ErrorIs(t, err, generic.ErrValidation)
}
