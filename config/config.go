// Package config handles application configuration.
//
// Connection settings are read from the node's own configuration file
// (namecoin.conf or bitcoin.conf). Command-line flags override the log
// and network settings only.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/Klingon-tech/nametrade/pkg/types"
)

// ErrConfigNotFound is returned when no configuration file can be located.
var ErrConfigNotFound = errors.New("Could not find config file, try specifying it with -c")

// NetworkType identifies the Namecoin network to use.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
	Regtest NetworkType = "regtest"
)

// Config holds the settings needed to reach a namecoind wallet.
type Config struct {
	// File is the path the configuration was loaded from.
	File string

	// Network selects address and key versions.
	Network NetworkType

	// RPC connection
	RPC RPCConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds the node's JSON-RPC settings.
type RPCConfig struct {
	User     string        `conf:"rpcuser"`
	Password string        `conf:"rpcpassword"`
	Connect  string        `conf:"rpcconnect"`
	Port     int           `conf:"rpcport"`
	Timeout  time.Duration `conf:"rpctimeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// Endpoint returns the URL of the node's RPC server.
func (c *Config) Endpoint() string {
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(c.RPC.Connect, strconv.Itoa(c.RPC.Port)),
		Path:   "/",
	}
	return u.String()
}

// Params returns the network parameters for the configured network.
func (c *Config) Params() (*types.Params, error) {
	p, err := types.ParamsForNetwork(string(c.Network))
	if err != nil {
		return nil, fmt.Errorf("network %q: %w", c.Network, err)
	}
	return p, nil
}

// =============================================================================
// Directory helpers
// =============================================================================

var (
	dataDirNames = []string{".namecoin", "namecoin", "Namecoin", "NameCoin"}
	fileNames    = []string{"namecoin.conf", "bitcoin.conf"}
)

// SearchPaths returns the candidate configuration files in lookup order:
// every data directory name under home, then the platform's application
// data directory.
//
//	Linux:   ~/.namecoin/namecoin.conf, ~/.namecoin/bitcoin.conf, ...
//	macOS:   ~/Library/Application Support/Namecoin
//	Windows: %APPDATA%\Namecoin
func SearchPaths(home string) []string {
	var dirs []string
	for _, name := range dataDirNames {
		dirs = append(dirs, filepath.Join(home, name))
	}
	switch runtime.GOOS {
	case "darwin":
		dirs = append(dirs, filepath.Join(home, "Library", "Application Support", "Namecoin"))
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			dirs = append(dirs, filepath.Join(appData, "Namecoin"))
		} else {
			dirs = append(dirs, filepath.Join(home, "AppData", "Roaming", "Namecoin"))
		}
	}

	paths := make([]string, 0, len(dirs)*len(fileNames))
	for _, dir := range dirs {
		for _, name := range fileNames {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// FindConfigFile returns the first existing file from SearchPaths(home).
func FindConfigFile(home string) (string, error) {
	for _, p := range SearchPaths(home) {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", ErrConfigNotFound
}

// DefaultConfigFile looks for a configuration file in the user's home
// directory.
func DefaultConfigFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ErrConfigNotFound
	}
	return FindConfigFile(home)
}
