package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/minedash/internal/logging"
)

const (
	defaultAlgorithm = "fastest"
	defaultLanguage  = "en"
	defaultLogLevel  = "info"

	configFile      = "config.json"
	walletsFile     = "wallets.json"
	deploymentsFile = "deployments.yaml"
	logFile         = "minedash.log"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.minedash.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".minedash")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
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
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
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

// Set updates a single key by its JSON name. Used by `config set`.
func (c *Config) Set(key, value string) error {
	switch key {
	case "deployment":
		c.Deployment = value
	case "default_wallet":
		c.DefaultWallet = value
	case "rpc_algorithm":
		if !slices.Contains([]string{"fastest", "round-robin", "failover"}, value) {
			return fmt.Errorf("unknown rpc_algorithm %q", value)
		}
		c.RPCAlgorithm = value
	case "language":
		value = strings.ToLower(value)
		if value != "en" && value != "zh" {
			return fmt.Errorf("language must be en or zh, got %q", value)
		}
		c.Language = value
	case "log_level":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		c.LogLevel = strings.ToLower(strings.TrimSpace(value))
	case "log_file":
		c.LogFile = value
	case "metrics_addr":
		// Empty disables the metrics server.
		if value != "" {
			if _, _, err := net.SplitHostPort(value); err != nil {
				return fmt.Errorf("metrics_addr must be host:port: %w", err)
			}
		}
		c.MetricsAddr = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Pairs returns the config as ordered key/value pairs for display.
func (c *Config) Pairs() [][2]string {
	return [][2]string{
		{"deployment", c.Deployment},
		{"default_wallet", c.DefaultWallet},
		{"rpc_algorithm", c.RPCAlgorithm},
		{"language", c.Language},
		{"log_level", c.LogLevel},
		{"log_file", c.LogPath()},
		{"metrics_addr", c.MetricsAddr},
		{"custom_rpcs", strconv.Itoa(len(c.CustomRPCs)) + " chain(s)"},
	}
}

// AddRPC adds a custom RPC URL for a chain.
func (c *Config) AddRPC(chain, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[chain], url) {
		return fmt.Errorf("RPC %s already exists for chain %s", url, chain)
	}
	c.CustomRPCs[chain] = append(c.CustomRPCs[chain], url)
	return nil
}

// GetRPCs returns custom RPCs for a chain.
func (c *Config) GetRPCs(chain string) []string {
	return c.CustomRPCs[chain]
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the path of wallets.json.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// LogPath returns the log file path, defaulting to <dir>/minedash.log.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.configDir, logFile)
}

func defaults(dir string) *Config {
	return &Config{
		Deployment:   DefaultDeploymentName,
		RPCAlgorithm: defaultAlgorithm,
		Language:     defaultLanguage,
		LogLevel:     defaultLogLevel,
		CustomRPCs:   make(map[string][]string),
		configDir:    dir,
	}
}
