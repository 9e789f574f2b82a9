package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Klingon-tech/nametrade/internal/log"
)

// Load resolves the configuration file (searching the default locations
// when path is empty), parses it and validates the result. A non-empty
// network overrides the network selected by the file.
func Load(path string, network NetworkType) (*Config, error) {
	if path == "" {
		found, err := DefaultConfigFile()
		if err != nil {
			return nil, err
		}
		path = found
	}

	values, err := LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, err
	}

	cfg := Default()
	cfg.File = path
	if err := ApplyFileConfig(cfg, values, network); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFile loads key=value pairs from a node configuration file.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads key=value lines. Blank lines and # comments are skipped, as
// are lines without '='. Whitespace around keys and values is removed.
// Keys following a [section] header are stored as "section.key". Later
// values override earlier ones.
func Parse(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	section := ""

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Config.Warn().Int("line", lineNum).Msg("ignoring line without '='")
			continue
		}
		key = strings.TrimSpace(key)
		if section != "" {
			key = section + "." + key
		}
		values[key] = strings.TrimSpace(value)
	}

	return values, scanner.Err()
}

// sectionNames maps each network to the config file section that holds
// its settings.
var sectionNames = map[NetworkType]string{
	Mainnet: "main",
	Testnet: "test",
	Regtest: "regtest",
}

// networkSection splits a "section.key" entry whose section names a
// network. ok is false for global keys.
func networkSection(key string) (section, name string, ok bool) {
	section, name, ok = strings.Cut(key, ".")
	if !ok {
		return "", key, false
	}
	for _, s := range sectionNames {
		if s == section {
			return section, name, true
		}
	}
	return "", key, false
}

// ApplyFileConfig applies file configuration to a Config struct. Global
// keys are applied first. The network is taken from network when it is
// non-empty and from the global testnet/regtest keys otherwise. Keys from
// the selected network's section then override the global ones; other
// network sections are ignored.
func ApplyFileConfig(cfg *Config, values map[string]string, network NetworkType) error {
	sectioned := make(map[string]string)
	for key, value := range values {
		if _, _, ok := networkSection(key); ok {
			sectioned[key] = value
			continue
		}
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}

	switch {
	case network != "":
		cfg.Network = network
	// regtest wins when both are set, matching the node.
	case parseBool(values["regtest"]):
		cfg.Network = Regtest
	case parseBool(values["testnet"]):
		cfg.Network = Testnet
	}

	want := sectionNames[cfg.Network]
	for key, value := range sectioned {
		section, name, _ := networkSection(key)
		if section != want {
			continue
		}
		if err := setConfigValue(cfg, name, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Unknown keys are ignored since
// the file is shared with the node.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "rpcuser":
		cfg.RPC.User = value
	case "rpcpassword":
		cfg.RPC.Password = value
	case "rpcconnect":
		cfg.RPC.Connect = value
	case "rpcport":
		port, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RPC.Port = port
	case "rpctimeout":
		secs, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RPC.Timeout = time.Duration(secs) * time.Second

	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
