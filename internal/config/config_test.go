package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 50.0, cfg.SpeedKph)
	assert.Equal(t, 0.55, cfg.CostFactors.FuelPerKm)
	assert.Equal(t, 10, cfg.Selector.SmallMax)
	assert.Equal(t, 200, cfg.Selector.LargeMax)
	assert.Equal(t, 250, cfg.Genetic.Generations)
	assert.Equal(t, 0.995, cfg.Annealing.CoolingRate)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadMissingPathKeepsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().SpeedKph, cfg.SpeedKph)
}

func TestLoadUnreadableFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadOverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
speedKph: 65
costFactors:
  fuelPerKm: 0.9
selector:
  smallMax: 20
genetic:
  generations: 500
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 65.0, cfg.SpeedKph)
	assert.Equal(t, 0.9, cfg.CostFactors.FuelPerKm)
	assert.Equal(t, 20, cfg.Selector.SmallMax)
	assert.Equal(t, 500, cfg.Genetic.Generations)
	// untouched keys keep their defaults
	assert.Equal(t, 28.0, cfg.CostFactors.HourlyRate)
	assert.Equal(t, 50, cfg.Selector.MediumMax)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("DATABASE_URL", "postgres://opt:opt@db/runs")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	assert.Equal(t, "postgres://opt:opt@db/runs", cfg.DatabaseURL)
}
