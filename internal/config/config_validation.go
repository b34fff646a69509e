package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Kept permissive on purpose: the client and server views perform their own
// stricter validation on the fields they actually use.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.Backend != "" && !knownBackend(cfg.Storage.Backend) {
		return ErrInvalidStorageConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if !knownBackend(cfg.Storage.Backend) {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Backend == BackendSQLite && cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.Backend == BackendRemote && cfg.Adapter.BaseURL == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func knownBackend(backend string) bool {
	switch backend {
	case BackendSQLite, BackendRemote, BackendMemory:
		return true
	}
	return false
}
