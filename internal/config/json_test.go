package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	// Durations in JSON are strings understood by time.ParseDuration.
	jsonBody := `{
		"storage": {
			"backend": "sqlite",
			"db": { "dsn": "lifelog.db" }
		},
		"server": {
			"http_address": "localhost:8080",
			"request_timeout": "30s",
			"auth_token": "server_secret"
		},
		"adapter": {
			"base_url": "http://127.0.0.1:8080",
			"token": "client_secret",
			"request_timeout": "15s"
		},
		"workers": {
			"sync_interval": "5m"
		},
		"location": {
			"position_timeout": "10s",
			"reverse_timeout": "5s",
			"geocoder_url": "https://nominatim.openstreetmap.org",
			"latitude": 52.52,
			"longitude": 13.405
		}
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "lifelog.db", cfg.Storage.DB.DSN)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "server_secret", cfg.Server.AuthToken)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.Adapter.BaseURL)
	assert.Equal(t, "client_secret", cfg.Adapter.Token)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)

	assert.Equal(t, 5*time.Minute, cfg.Workers.SyncInterval)

	assert.Equal(t, 10*time.Second, cfg.Location.PositionTimeout)
	assert.Equal(t, 5*time.Second, cfg.Location.ReverseTimeout)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Location.GeocoderURL)
	require.NotNil(t, cfg.Location.Latitude)
	require.NotNil(t, cfg.Location.Longitude)
	assert.Equal(t, 52.52, *cfg.Location.Latitude)
	assert.Equal(t, 13.405, *cfg.Location.Longitude)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	// Act
	cfg, err := parseJSON("definitely-does-not-exist.json")

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{ this is not json }`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad_duration.json")

	jsonBody := `{
		"workers": { "sync_interval": "not-a-duration" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_EmptyObject(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(p, []byte(`{}`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, StructuredConfig{}, *cfg)
}

func TestParseJSON_PartialObject(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "partial.json")

	jsonBody := `{
		"server": { "http_address": "127.0.0.1:8000" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1:8000", cfg.Server.HTTPAddress)
	assert.Zero(t, cfg.Server.RequestTimeout)
	assert.Empty(t, cfg.Server.AuthToken)

	// Others remain zero
	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Adapter{}, cfg.Adapter)
	assert.Equal(t, Workers{}, cfg.Workers)
	assert.Equal(t, Location{}, cfg.Location)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected time.Duration
		wantErr  bool
	}{
		{name: "string with unit", raw: `"90s"`, expected: 90 * time.Second},
		{name: "combined units", raw: `"1h30m"`, expected: 90 * time.Minute},
		{name: "number of nanoseconds", raw: `1000000000`, expected: time.Second},
		{name: "garbage string", raw: `"soon"`, wantErr: true},
		{name: "wrong type", raw: `["5m"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.raw), &d)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, time.Duration(d))
		})
	}
}
