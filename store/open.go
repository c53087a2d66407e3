// Package store opens the budget.Store selected in the configuration.
package store

import (
	"fmt"

	"github.com/warp/paycheck/budget"
	memstore "github.com/warp/paycheck/budget/store"
	"github.com/warp/paycheck/config"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/store/jsonfile"
	"github.com/warp/paycheck/store/sqlite"
)

// Store is a budget.Store that holds resources until closed.
type Store interface {
	budget.Store
	Close() error
}

type memory struct {
	*memstore.Memory
}

func (memory) Close() error { return nil }

type jsonFile struct {
	*jsonfile.Store
}

func (jsonFile) Close() error { return nil }

// Open creates the store for cfg.Driver.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverJSONFile:
		s, err := jsonfile.New(cfg.DataDir, cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		return jsonFile{s}, nil
	case config.DriverMemory:
		return memory{memstore.NewMemory()}, nil
	default:
		return nil, &generic.ValidationError{Field: "store.driver", Reason: fmt.Sprintf("unknown driver %q", cfg.Driver)}
	}
}
