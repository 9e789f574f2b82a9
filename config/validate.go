package config

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrMissingCredentials = errors.New("rpcuser and rpcpassword must be set")
)

// Validate checks the configuration for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch cfg.Network {
	case Mainnet, Testnet, Regtest:
	default:
		return fmt.Errorf("network must be %q, %q or %q", Mainnet, Testnet, Regtest)
	}
	if cfg.RPC.User == "" || cfg.RPC.Password == "" {
		return ErrMissingCredentials
	}
	if cfg.RPC.Connect == "" {
		return fmt.Errorf("rpcconnect is empty")
	}
	if cfg.RPC.Port <= 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpcport must be in range [1, 65535]")
	}
	if cfg.RPC.Timeout <= 0 {
		return fmt.Errorf("rpctimeout must be positive")
	}
	return nil
}
