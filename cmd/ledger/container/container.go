package container

import (
	"fmt"

	"github.com/shelfwise/lending/cmd/ledger/service"
	"github.com/shelfwise/lending/cmd/ledger/store"
	"github.com/shelfwise/lending/common/bootstrap"
)

// Container holds all initialized services (singleton pattern)
type Container struct {
	Components *bootstrap.Components

	Store         store.Store
	LedgerService *service.LedgerService
}

// NewContainer initializes the store and services once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	var s store.Store

	switch components.Config.Store.Type {
	case "memory":
		s = store.NewMemoryStore(components.Logger)
	case "postgres":
		if components.DB == nil {
			return nil, fmt.Errorf("postgres store requires a database connection")
		}
		s = store.NewPostgresStore(components.DB, components.Logger)
	default:
		return nil, fmt.Errorf("unknown store type: %s", components.Config.Store.Type)
	}

	components.Logger.Info("ledger store initialized", "type", components.Config.Store.Type)

	return &Container{
		Components:    components,
		Store:         s,
		LedgerService: service.NewLedgerService(s, components.Logger),
	}, nil
}
