package opt

import (
	"errors"
	"fmt"
	"strings"

	"routewise/internal/model"
	"routewise/internal/score"
)

// Algorithm is the closed set of route-construction strategies. Dispatch is
// by tagged variant so an unknown name fails at the validation boundary, not
// deep inside a run.
type Algorithm int

const (
	AlgorithmAuto Algorithm = iota
	AlgorithmPriority
	AlgorithmNearest
	AlgorithmGenetic
	AlgorithmAnnealing
	AlgorithmPareto
)

var algorithmNames = map[Algorithm]string{
	AlgorithmAuto:      "auto",
	AlgorithmPriority:  "priority",
	AlgorithmNearest:   "nearest_neighbor",
	AlgorithmGenetic:   "genetic",
	AlgorithmAnnealing: "simulated_annealing",
	AlgorithmPareto:    "multi_objective",
}

func (a Algorithm) String() string {
	if n, ok := algorithmNames[a]; ok {
		return n
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// ErrUnknownAlgorithm marks an invalid caller-supplied algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ParseAlgorithm maps a request name to its variant. Empty means auto.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AlgorithmAuto, nil
	case "priority":
		return AlgorithmPriority, nil
	case "nearest_neighbor", "nearest":
		return AlgorithmNearest, nil
	case "genetic":
		return AlgorithmGenetic, nil
	case "simulated_annealing", "annealing":
		return AlgorithmAnnealing, nil
	case "multi_objective", "pareto":
		return AlgorithmPareto, nil
	}
	return AlgorithmAuto, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Mode selects which of the two historical entry points a request follows:
// the constraint/priority-first planner or the cost-first optimizer.
type Mode int

const (
	// ModeUnified drives construction by distance and priority weighting;
	// the cost model is computed for reporting only.
	ModeUnified Mode = iota
	// ModeCost drives fitness and acceptance by total monetary cost.
	ModeCost
)

func (m Mode) String() string {
	if m == ModeCost {
		return "cost"
	}
	return "unified"
}

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unified":
		return ModeUnified, nil
	case "cost":
		return ModeCost, nil
	}
	return ModeUnified, fmt.Errorf("unknown mode: %q", name)
}

// Objective names a Pareto search dimension.
type Objective string

const (
	ObjectiveDistance Objective = "distance"
	ObjectiveTime     Objective = "time"
	ObjectivePriority Objective = "priority"
	ObjectiveFuel     Objective = "fuel"
)

// ParseObjectives validates a caller-selected subset, defaulting to
// {distance, time} when none are named. Duplicates are rejected.
func ParseObjectives(names []string) ([]Objective, error) {
	if len(names) == 0 {
		return []Objective{ObjectiveDistance, ObjectiveTime}, nil
	}
	seen := map[Objective]bool{}
	out := make([]Objective, 0, len(names))
	for _, n := range names {
		o := Objective(strings.ToLower(strings.TrimSpace(n)))
		switch o {
		case ObjectiveDistance, ObjectiveTime, ObjectivePriority, ObjectiveFuel:
		default:
			return nil, fmt.Errorf("unknown objective: %q", n)
		}
		if seen[o] {
			return nil, fmt.Errorf("duplicate objective: %q", n)
		}
		seen[o] = true
		out = append(out, o)
	}
	return out, nil
}

// ValidateRequest rejects malformed requests before any search starts.
func ValidateRequest(req *model.OptimizeRequest) error {
	if _, err := ParseAlgorithm(req.Algorithm); err != nil {
		return err
	}
	if _, err := ParseMode(req.Mode); err != nil {
		return err
	}
	if _, err := ParseObjectives(req.Objectives); err != nil {
		return err
	}
	p := req.Params
	if p.PopulationSize < 0 || p.Generations < 0 || p.StallGenerations < 0 || p.TournamentSize < 0 || p.ItersPerTemp < 0 {
		return fmt.Errorf("algorithm counts must be >= 0")
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("mutationRate must be in [0,1]")
	}
	if p.CrossoverRate < 0 || p.CrossoverRate > 1 {
		return fmt.Errorf("crossoverRate must be in [0,1]")
	}
	if p.CoolingRate != 0 && (p.CoolingRate <= 0 || p.CoolingRate >= 1) {
		return fmt.Errorf("coolingRate must be in (0,1)")
	}
	if p.InitialTemp < 0 || p.MinTemp < 0 {
		return fmt.Errorf("temperatures must be >= 0")
	}
	if req.TimeBudgetMs < 0 {
		return fmt.Errorf("timeBudgetMs must be >= 0")
	}
	if !score.ValidPreset(req.Preset) {
		return fmt.Errorf("%w: %q", score.ErrUnknownPreset, req.Preset)
	}
	for k, v := range req.Constraints.TimeWindows {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("timeWindows[%s]: %w", k, err)
		}
	}
	if req.Constraints.MaxStores < 0 {
		return fmt.Errorf("maxStores must be >= 0")
	}
	return nil
}
