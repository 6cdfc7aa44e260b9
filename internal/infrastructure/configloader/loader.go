package configloader

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"balance_reporter/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Config.Output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

const defaultRPCTimeoutSeconds = 30

// Networks that only exist inside a local development node and are never queried.
var excludedNetworks = map[string]struct{}{ //nolint:gochecknoglobals
	"hardhat":   {},
	"localhost": {},
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// NetworkConfig holds the endpoint and the account keys of one network.
type NetworkConfig struct {
	URL      string   `yaml:"url"`
	Accounts []string `yaml:"accounts"`
}

// Config is the top-level configuration structure.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	// RPCTimeoutSeconds bounds each protocol attempt. Unset means 30s, 0 disables the bound.
	RPCTimeoutSeconds *int                     `yaml:"rpcTimeoutSeconds"`
	Output            string                   `yaml:"output"`
	MetricsFile       string                   `yaml:"metricsFile"`
	Networks          map[string]NetworkConfig `yaml:"networks"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
// ${VAR} references in urls and accounts are expanded from the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals a YAML document and applies defaults and the network filter.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.RPCTimeoutSeconds == nil {
		d := defaultRPCTimeoutSeconds
		cfg.RPCTimeoutSeconds = &d
	}
	if *cfg.RPCTimeoutSeconds < 0 {
		return nil, fmt.Errorf("rpcTimeoutSeconds must not be negative, got %d", *cfg.RPCTimeoutSeconds)
	}
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	if cfg.Output == "" {
		cfg.Output = OutputTable
	}
	if err := ValidateOutput(cfg.Output); err != nil {
		return nil, err
	}

	networks := make(map[string]NetworkConfig, len(cfg.Networks))
	for name, network := range cfg.Networks {
		if _, skip := excludedNetworks[name]; skip {
			continue
		}
		network.URL = strings.TrimSpace(os.ExpandEnv(network.URL))
		accounts := make([]string, 0, len(network.Accounts))
		for _, account := range network.Accounts {
			account = strings.TrimSpace(os.ExpandEnv(account))
			if account == "" {
				continue
			}
			accounts = append(accounts, account)
		}
		network.Accounts = accounts
		networks[name] = network
	}
	cfg.Networks = networks

	return &cfg, nil
}

// ValidateOutput checks an output format name.
func ValidateOutput(output string) error {
	switch output {
	case OutputTable, OutputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want %q or %q)", output, OutputTable, OutputJSON)
	}
}

// RPCTimeout returns the per-attempt timeout; zero means unbounded.
func (c *Config) RPCTimeout() time.Duration {
	if c.RPCTimeoutSeconds == nil {
		return defaultRPCTimeoutSeconds * time.Second
	}
	return time.Duration(*c.RPCTimeoutSeconds) * time.Second
}

// NetworkNames returns the configured network names in sorted order.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NetworkEntries converts the network section into resolver input.
// An empty names slice selects every network; unknown names are an error.
func (c *Config) NetworkEntries(names []string) (map[string]entity.NetworkEntry, error) {
	if len(names) == 0 {
		names = c.NetworkNames()
	}

	entries := make(map[string]entity.NetworkEntry, len(names))
	for _, name := range names {
		network, ok := c.Networks[name]
		if !ok {
			return nil, fmt.Errorf("network %q is not configured", name)
		}
		entries[name] = entity.NetworkEntry{
			Name:     name,
			URL:      network.URL,
			Accounts: append([]string(nil), network.Accounts...),
		}
	}
	return entries, nil
}
