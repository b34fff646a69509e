package client

import (
	"context"
	"fmt"

	"github.com/ewalker114/lifelog/internal/adapter"
	"github.com/ewalker114/lifelog/internal/config"
	"github.com/ewalker114/lifelog/internal/logger"
	"github.com/ewalker114/lifelog/internal/store"
)

// NewBackend selects and constructs the storage backend named by cfg. The
// choice is made exactly once per process; nothing downstream branches on
// it again.
//
// The embedded store opens its database file and migrates synchronously, so
// a failure here is fatal. The remote store connects lazily and never fails
// construction for network reasons.
func NewBackend(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (store.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite, "":
		return store.NewSQLiteBackend(ctx, cfg.Storage.DB, log)
	case config.BackendRemote:
		return adapter.NewRemoteBackend(cfg.Adapter, log)
	case config.BackendMemory:
		return store.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownBackend, cfg.Storage.Backend)
	}
}
