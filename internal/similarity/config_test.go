package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsukumogami/squatcheck/internal/catalog"
)

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(0.7, 50, catalog.Rules{})
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.Threshold())
	assert.Equal(t, 50, cfg.TopPackages())
	assert.Equal(t, catalog.Rules{}, cfg.Rules())

	_, err = NewConfig(1, 1, catalog.DefaultRules())
	assert.NoError(t, err, "threshold 1 is inclusive")
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		top       int
		field     string
	}{
		{"zero threshold", 0, 20, "threshold"},
		{"negative threshold", -0.5, 20, "threshold"},
		{"threshold above one", 1.01, 20, "threshold"},
		{"NaN threshold", math.NaN(), 20, "threshold"},
		{"zero top", 0.8, 0, "top-packages"},
		{"negative top", 0.8, -1, "top-packages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.threshold, tt.top, catalog.DefaultRules())
			var cfgErr *InvalidConfigError
			require.True(t, errors.As(err, &cfgErr), "expected InvalidConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultThreshold, cfg.Threshold())
	assert.Equal(t, DefaultTopPackages, cfg.TopPackages())
	assert.True(t, cfg.Rules().UnifySeparators)
}
