package similarity

import (
	"math"

	"github.com/tsukumogami/squatcheck/internal/catalog"
)

const (
	// DefaultThreshold is the minimum score a catalog entry needs to be
	// reported as a match.
	DefaultThreshold = 0.8

	// DefaultTopPackages bounds the reference catalog size.
	DefaultTopPackages = 20
)

// Config holds the validated settings of a run. Build it with NewConfig;
// the zero value is not valid.
type Config struct {
	threshold   float64
	topPackages int
	rules       catalog.Rules
}

// NewConfig validates the settings and returns an immutable Config.
// threshold must be in (0, 1] and topPackages must be positive.
func NewConfig(threshold float64, topPackages int, rules catalog.Rules) (Config, error) {
	if math.IsNaN(threshold) || threshold <= 0 || threshold > 1 {
		return Config{}, &InvalidConfigError{Field: "threshold", Value: threshold, Reason: "must be greater than 0 and at most 1"}
	}
	if topPackages <= 0 {
		return Config{}, &InvalidConfigError{Field: "top-packages", Value: topPackages, Reason: "must be positive"}
	}
	return Config{threshold: threshold, topPackages: topPackages, rules: rules}, nil
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		threshold:   DefaultThreshold,
		topPackages: DefaultTopPackages,
		rules:       catalog.DefaultRules(),
	}
}

// Threshold returns the minimum reported score.
func (c Config) Threshold() float64 { return c.threshold }

// TopPackages returns the catalog size bound.
func (c Config) TopPackages() int { return c.topPackages }

// Rules returns the normalization rules.
func (c Config) Rules() catalog.Rules { return c.rules }
