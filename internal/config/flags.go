package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN (sqlite file path or postgres DSN)
//	-backend storage backend: sqlite, remote or memory
//	-remote-url remote server base URL
//	-remote-token remote server bearer token
//	-auth-token bearer token required by the server
//	-c/-config json file path with configs
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-sync-interval background sync interval (e.g., "5m")
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var backend string
	var remoteURL string
	var remoteToken string
	var authToken string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var syncInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&backend, "backend", "", "Storage backend: sqlite, remote or memory")
	flag.StringVar(&remoteURL, "remote-url", "", "Remote server base URL")
	flag.StringVar(&remoteToken, "remote-token", "", "Remote server bearer token")
	flag.StringVar(&authToken, "auth-token", "", "Bearer token required by the server")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (e.g., 5m)")

	flag.Parse()

	return &StructuredConfig{
		Storage: Storage{
			Backend: backend,
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			AuthToken:      authToken,
		},
		Adapter: Adapter{
			BaseURL:        remoteURL,
			Token:          remoteToken,
			RequestTimeout: requestTimeout,
		},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses a host:port string and populates the NetAddress. The host must
// be "localhost" or an IP address; the port must be a positive integer.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("address must be in host:port form")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 {
		return errors.New("port must be a positive integer")
	}

	if host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("host must be localhost or an IP address")
	}

	a.Host = host
	a.Port = port
	return nil
}
