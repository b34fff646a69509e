package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// BaseURL is the remote server endpoint used by the client.
	BaseURL string
	// Token is the optional bearer credential for the remote server.
	Token string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path used by the embedded store.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// Backend selects the storage variant for this process lifetime.
	Backend string
	// DB holds local database settings.
	DB ClientDB
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the client sync job should run.
	SyncInterval time.Duration
}

// ClientLocation contains geolocation acquisition settings.
type ClientLocation struct {
	// PositionTimeout bounds the wait for device coordinates.
	PositionTimeout time.Duration
	// ReverseTimeout bounds the wait for the reverse place-name lookup.
	ReverseTimeout time.Duration
	// GeocoderURL is the reverse-geocoding endpoint; empty disables it.
	GeocoderURL string
	// Latitude and Longitude are static device coordinates; both unset
	// disables location capture.
	Latitude  *float64
	Longitude *float64
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Storage contains client storage settings.
	Storage ClientStorage
	// Adapter contains remote server address, token and timeouts.
	Adapter ClientAdapter
	// Workers contains background job settings.
	Workers ClientWorkers
	// Location contains geolocation acquisition settings.
	Location ClientLocation
}

// Client-side defaults applied by [GetClientConfig] when a value is absent
// from every configuration source.
const (
	defaultClientDSN       = "lifelog.db"
	defaultRequestTimeout  = 15 * time.Second
	defaultSyncInterval    = 5 * time.Minute
	defaultPositionTimeout = 10 * time.Second
	defaultReverseTimeout  = 5 * time.Second
)

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, fills in client defaults, and validates the
// resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Storage: ClientStorage{
			Backend: cfg.Storage.Backend,
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Adapter: ClientAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			Token:          cfg.Adapter.Token,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
		Location: ClientLocation{
			PositionTimeout: cfg.Location.PositionTimeout,
			ReverseTimeout:  cfg.Location.ReverseTimeout,
			GeocoderURL:     cfg.Location.GeocoderURL,
			Latitude:        cfg.Location.Latitude,
			Longitude:       cfg.Location.Longitude,
		},
	}
	clientCfg.applyDefaults()

	return clientCfg, clientCfg.validate()
}

func (cfg *ClientConfig) applyDefaults() {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendSQLite
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = defaultClientDSN
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Workers.SyncInterval == 0 {
		cfg.Workers.SyncInterval = defaultSyncInterval
	}
	if cfg.Location.PositionTimeout == 0 {
		cfg.Location.PositionTimeout = defaultPositionTimeout
	}
	if cfg.Location.ReverseTimeout == 0 {
		cfg.Location.ReverseTimeout = defaultReverseTimeout
	}
}
