// Package config handles the CLI's persisted configuration: the
// collection identity, the signing domain, and file locations under the
// config directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultChainID   = 1337
	defaultName      = "Test Token"
	defaultSymbol    = "TST"
	defaultMaxSupply = 100

	configFile   = "config.json"
	accountsFile = "accounts.json"
	ledgerFile   = "ledger.json"
	eventsFile   = "events.db"
)

// Config is the CLI configuration. The collection fields are fixed at
// init; editing them afterwards changes the signing domain and breaks
// outstanding permits.
type Config struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	BaseURI         string `json:"base_uri"`
	MaxSupply       uint64 `json:"max_supply"`
	ChainID         uint64 `json:"chain_id"`
	RegistryAddress string `json:"registry_address"` // EIP-712 verifying contract
	Minter          string `json:"minter"`
	DefaultAccount  string `json:"default_account,omitempty"`

	configDir string
}

func defaults(dir string) *Config {
	return &Config{
		Name:      defaultName,
		Symbol:    defaultSymbol,
		MaxSupply: defaultMaxSupply,
		ChainID:   defaultChainID,
		configDir: dir,
	}
}

// Load reads config from dir (or creates defaults). dir defaults to
// ~/.permit721.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".permit721")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.configDir = dir

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string { return c.configDir }

// AccountsPath returns the accounts JSON file path.
func (c *Config) AccountsPath() string { return filepath.Join(c.configDir, accountsFile) }

// LedgerPath returns the ledger snapshot file path.
func (c *Config) LedgerPath() string { return filepath.Join(c.configDir, ledgerFile) }

// EventLogPath returns the SQLite event log path.
func (c *Config) EventLogPath() string { return filepath.Join(c.configDir, eventsFile) }

// Exists reports whether a config file has been written in dir.
func Exists(dir string) bool {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return false
		}
		dir = filepath.Join(home, ".permit721")
	}
	_, err := os.Stat(filepath.Join(dir, configFile))
	return err == nil
}
