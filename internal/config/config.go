// Package config resolves squatcheck's home directory and the environment
// variables that override scan settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// EnvHome overrides the default home directory (~/.squatcheck).
	EnvHome = "SQUATCHECK_HOME"

	// EnvThreshold sets the similarity threshold, a number in (0, 1].
	EnvThreshold = "SQUATCHECK_THRESHOLD"

	// EnvTopPackages sets how many popular packages are compared against.
	EnvTopPackages = "SQUATCHECK_TOP_PACKAGES"

	// EnvWorkers sets the number of concurrent evaluations.
	EnvWorkers = "SQUATCHECK_WORKERS"

	// EnvEcosystem selects the bundled catalog.
	EnvEcosystem = "SQUATCHECK_ECOSYSTEM"

	// MaxWorkers caps SQUATCHECK_WORKERS.
	MaxWorkers = 256
)

// Config holds resolved filesystem locations.
type Config struct {
	HomeDir    string // $SQUATCHECK_HOME
	ConfigFile string // $SQUATCHECK_HOME/config.toml
}

// DefaultConfig returns the locations derived from SQUATCHECK_HOME or the
// user's home directory.
func DefaultConfig() (*Config, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		home = filepath.Join(userHome, ".squatcheck")
	}

	return &Config{
		HomeDir:    home,
		ConfigFile: filepath.Join(home, "config.toml"),
	}, nil
}

// LookupThreshold returns SQUATCHECK_THRESHOLD when it is set to a number
// in (0, 1]. Invalid values are reported on stderr and ignored.
func LookupThreshold() (float64, bool) {
	envValue := strings.TrimSpace(os.Getenv(EnvThreshold))
	if envValue == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(envValue, 64)
	if err != nil || v <= 0 || v > 1 {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q (must be in (0, 1]), ignoring\n",
			EnvThreshold, envValue)
		return 0, false
	}
	return v, true
}

// LookupTopPackages returns SQUATCHECK_TOP_PACKAGES when it is a positive
// integer. Invalid values are reported on stderr and ignored.
func LookupTopPackages() (int, bool) {
	envValue := strings.TrimSpace(os.Getenv(EnvTopPackages))
	if envValue == "" {
		return 0, false
	}

	v, err := strconv.Atoi(envValue)
	if err != nil || v <= 0 {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q (must be a positive integer), ignoring\n",
			EnvTopPackages, envValue)
		return 0, false
	}
	return v, true
}

// GetWorkers returns the configured worker count from SQUATCHECK_WORKERS.
// 0 (the default) means one worker per CPU. Values above MaxWorkers are
// clamped.
func GetWorkers() int {
	envValue := strings.TrimSpace(os.Getenv(EnvWorkers))
	if envValue == "" {
		return 0
	}

	v, err := strconv.Atoi(envValue)
	if err != nil || v < 0 {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default\n", EnvWorkers, envValue)
		return 0
	}
	if v > MaxWorkers {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%d), using maximum %d\n", EnvWorkers, v, MaxWorkers)
		return MaxWorkers
	}
	return v
}

// LookupEcosystem returns SQUATCHECK_ECOSYSTEM if set.
func LookupEcosystem() (string, bool) {
	v := strings.TrimSpace(os.Getenv(EnvEcosystem))
	return strings.ToLower(v), v != ""
}
