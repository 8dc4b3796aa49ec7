// Package config loads optimizer configuration from YAML with environment
// overrides for deployment-specific endpoints.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"routewise/internal/model"
)

// SelectorPolicy holds the size thresholds of the automatic algorithm
// selector. Zero values fall back to the built-in defaults.
type SelectorPolicy struct {
	SmallMax        int     `yaml:"smallMax"`
	MediumMax       int     `yaml:"mediumMax"`
	LargeMax        int     `yaml:"largeMax"`
	ComplexityPivot float64 `yaml:"complexityPivot"`
}

// GeneticDefaults are the GA knobs used when a request leaves them zero.
type GeneticDefaults struct {
	PopulationSize   int     `yaml:"populationSize"`
	Generations      int     `yaml:"generations"`
	StallGenerations int     `yaml:"stallGenerations"`
	TournamentSize   int     `yaml:"tournamentSize"`
	MutationRate     float64 `yaml:"mutationRate"`
	CrossoverRate    float64 `yaml:"crossoverRate"`
}

// AnnealingDefaults are the SA knobs used when a request leaves them zero.
type AnnealingDefaults struct {
	InitialTemp  float64 `yaml:"initialTemp"`
	CoolingRate  float64 `yaml:"coolingRate"`
	MinTemp      float64 `yaml:"minTemp"`
	ItersPerTemp int     `yaml:"itersPerTemp"`
}

type Config struct {
	SpeedKph    float64           `yaml:"speedKph"`
	CostFactors model.CostFactors `yaml:"costFactors"`
	Selector    SelectorPolicy    `yaml:"selector"`
	Genetic     GeneticDefaults   `yaml:"genetic"`
	Annealing   AnnealingDefaults `yaml:"annealing"`
	RedisURL    string            `yaml:"redisUrl"`
	DatabaseURL string            `yaml:"databaseUrl"`
	GeocodeRPS  float64           `yaml:"geocodeRps"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		SpeedKph: 50,
		CostFactors: model.CostFactors{
			FuelPerKm:          0.55,
			HourlyRate:         28,
			OvertimeMultiplier: 1.5,
			OvertimeAfterHours: 8,
			DepreciationPerKm:  0.12,
			PriorityDelayCoeff: 2.5,
			TrafficDelayCoeff:  18,
		},
		Selector: SelectorPolicy{SmallMax: 10, MediumMax: 50, LargeMax: 200, ComplexityPivot: 0.5},
		Genetic: GeneticDefaults{
			PopulationSize:   60,
			Generations:      250,
			StallGenerations: 40,
			TournamentSize:   3,
			MutationRate:     0.08,
			CrossoverRate:    0.85,
		},
		Annealing: AnnealingDefaults{
			InitialTemp:  1000,
			CoolingRate:  0.995,
			MinTemp:      0.01,
			ItersPerTemp: 1,
		},
		GeocodeRPS: 10,
	}
}

// Load reads path (optional) over the defaults, then applies env overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	return cfg, nil
}
