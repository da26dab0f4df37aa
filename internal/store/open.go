package store

import (
	"context"
	"fmt"

	"github.com/datallboy/gotube/internal/app"
	"github.com/datallboy/gotube/internal/infra/config"
)

// Open returns the history backend selected by cfg. The "none" driver yields
// a nil Store and history is not recorded.
func Open(ctx context.Context, cfg config.StoreConfig) (app.Store, error) {
	switch cfg.Driver {
	case "none":
		return nil, nil
	case "postgres":
		s, err := NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite", "":
		s, err := NewPersistentStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
