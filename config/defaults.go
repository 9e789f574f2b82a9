package config

import "github.com/Klingon-tech/nametrade/internal/rpcclient"

// Defaults used when the configuration file leaves a key out.
const (
	DefaultRPCConnect = "127.0.0.1"
	DefaultRPCPort    = 8332
	DefaultLogLevel   = "info"
)

// Default returns the configuration used before any file is applied.
func Default() *Config {
	return &Config{
		Network: Mainnet,
		RPC: RPCConfig{
			Connect: DefaultRPCConnect,
			Port:    DefaultRPCPort,
			Timeout: rpcclient.DefaultTimeout,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}
