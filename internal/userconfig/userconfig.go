// Package userconfig provides user configuration management for squatcheck.
// Configuration is stored in $SQUATCHECK_HOME/config.toml and can be
// modified via the `squatcheck config` command.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tsukumogami/squatcheck/internal/catalog"
	"github.com/tsukumogami/squatcheck/internal/config"
	"github.com/tsukumogami/squatcheck/internal/similarity"
)

// Config represents user-configurable settings. Command-line flags and
// environment variables take precedence over these values.
type Config struct {
	Threshold       float64  `toml:"threshold"`
	TopPackages     int      `toml:"top_packages"`
	Ecosystem       string   `toml:"ecosystem"`
	Catalog         string   `toml:"catalog,omitempty"`
	UnifySeparators bool     `toml:"unify_separators"`
	ASCIIOnly       bool     `toml:"ascii_only"`
	Ignore          []string `toml:"ignore,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	rules := catalog.DefaultRules()
	return &Config{
		Threshold:       similarity.DefaultThreshold,
		TopPackages:     similarity.DefaultTopPackages,
		Ecosystem:       catalog.DefaultEcosystem,
		UnifySeparators: rules.UnifySeparators,
		ASCIIOnly:       rules.ASCIIOnly,
	}
}

// Rules returns the normalization rules described by the config.
func (c *Config) Rules() catalog.Rules {
	return catalog.Rules{UnifySeparators: c.UnifySeparators, ASCIIOnly: c.ASCIIOnly}
}

// Load reads the config file and returns the configuration.
// Returns default values if the file doesn't exist.
func Load() (*Config, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return DefaultConfig(), nil
	}
	return loadFromPath(cfg.ConfigFile)
}

// loadFromPath reads config from a specific file path (for testing).
func loadFromPath(path string) (*Config, error) {
	userCfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return userCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), userCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return userCfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return c.saveToPath(cfg.ConfigFile)
}

// saveToPath writes config to a specific file path (for testing).
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsIgnored reports whether a dependency name is on the ignore list.
// Names are compared after normalization.
func (c *Config) IsIgnored(name string) bool {
	n, err := catalog.Normalize(name, c.Rules())
	if err != nil {
		return false
	}
	for _, ignored := range c.Ignore {
		if in, err := catalog.Normalize(ignored, c.Rules()); err == nil && in == n {
			return true
		}
	}
	return false
}

// Get returns the value of a config key as a string.
// Returns empty string and false if the key doesn't exist.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "threshold":
		return strconv.FormatFloat(c.Threshold, 'g', -1, 64), true
	case "top_packages":
		return strconv.Itoa(c.TopPackages), true
	case "ecosystem":
		return c.Ecosystem, true
	case "catalog":
		return c.Catalog, true
	case "unify_separators":
		return strconv.FormatBool(c.UnifySeparators), true
	case "ascii_only":
		return strconv.FormatBool(c.ASCIIOnly), true
	case "ignore":
		return strings.Join(c.Ignore, ","), true
	default:
		return "", false
	}
}

// Set updates a config value from a string.
// Returns an error if the key doesn't exist or the value is invalid.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "threshold":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v <= 0 || v > 1 {
			return fmt.Errorf("invalid value for threshold: must be a number greater than 0 and at most 1")
		}
		c.Threshold = v
	case "top_packages":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid value for top_packages: must be a positive integer")
		}
		c.TopPackages = v
	case "ecosystem":
		eco := strings.ToLower(strings.TrimSpace(value))
		if _, err := catalog.Bundled(eco); err != nil {
			return fmt.Errorf("invalid value for ecosystem: %w", err)
		}
		c.Ecosystem = eco
	case "catalog":
		c.Catalog = strings.TrimSpace(value)
	case "unify_separators", "ascii_only":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: must be true or false", key)
		}
		if strings.ToLower(key) == "unify_separators" {
			c.UnifySeparators = b
		} else {
			c.ASCIIOnly = b
		}
	case "ignore":
		c.Ignore = nil
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Ignore = append(c.Ignore, name)
			}
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// AvailableKeys returns a list of all configurable keys with descriptions.
func AvailableKeys() map[string]string {
	return map[string]string{
		"threshold":        "Minimum similarity score reported, in (0, 1] (default 0.8)",
		"top_packages":     "Number of popular packages compared against (default 20)",
		"ecosystem":        "Bundled catalog to use: " + strings.Join(catalog.Ecosystems(), ", "),
		"catalog":          "Path to a custom popular-package list (overrides ecosystem)",
		"unify_separators": "Treat '-', '_' and '.' as equivalent (true/false)",
		"ascii_only":       "Reject dependency names with non-ASCII characters (true/false)",
		"ignore":           "Comma-separated dependency names never reported",
	}
}

// SortedKeys returns the keys of AvailableKeys in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(AvailableKeys()))
	for k := range AvailableKeys() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
