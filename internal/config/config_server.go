package config

import (
	"fmt"
	"time"
)

// ServerDB contains database connection settings for the sync server.
type ServerDB struct {
	// DSN is the PostgreSQL connection string.
	DSN string
}

// ServerConfig is the top-level sync server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	// HTTPAddress is the TCP address the HTTP listener binds to.
	HTTPAddress string
	// RequestTimeout bounds the handling of a single inbound request.
	RequestTimeout time.Duration
	// AuthToken is the bearer token inbound requests must present.
	// Empty disables authentication.
	AuthToken string
	// DB contains database connection settings.
	DB ServerDB
}

const (
	defaultServerAddress        = "localhost:8080"
	defaultServerRequestTimeout = 30 * time.Second
)

// GetServerConfig builds and validates a server-specific config view from the
// merged structured configuration.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		AuthToken:      cfg.Server.AuthToken,
		DB:             ServerDB{DSN: cfg.Storage.DB.DSN},
	}
	serverCfg.applyDefaults()

	return serverCfg, serverCfg.validate()
}

func (cfg *ServerConfig) applyDefaults() {
	if cfg.HTTPAddress == "" {
		cfg.HTTPAddress = defaultServerAddress
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultServerRequestTimeout
	}
}

func (cfg *ServerConfig) validate() error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	return nil
}
