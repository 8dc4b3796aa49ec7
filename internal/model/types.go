package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Core domain types shared by the filter, cost model, optimizer and scorer.

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UnmarshalJSON accepts the longitude aliases seen in upstream feeds
// (lng, lon, long, longitude) and treats them all as the canonical lng.
func (g *GeoPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lat       *float64 `json:"lat"`
		Latitude  *float64 `json:"latitude"`
		Lng       *float64 `json:"lng"`
		Lon       *float64 `json:"lon"`
		Long      *float64 `json:"long"`
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Lat != nil:
		g.Lat = *raw.Lat
	case raw.Latitude != nil:
		g.Lat = *raw.Latitude
	}
	switch {
	case raw.Lng != nil:
		g.Lng = *raw.Lng
	case raw.Lon != nil:
		g.Lng = *raw.Lon
	case raw.Long != nil:
		g.Lng = *raw.Long
	case raw.Longitude != nil:
		g.Lng = *raw.Longitude
	}
	return nil
}

// TimeWindow is a daily visiting window in local clock time ("15:04").
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether the clock time of at falls inside the window.
// A malformed window is treated as always open; rejecting garbage input is
// the validation layer's job, not the hot path's.
func (w TimeWindow) Contains(at time.Time) bool {
	start, err1 := parseClock(w.Start)
	end, err2 := parseClock(w.End)
	if err1 != nil || err2 != nil {
		return true
	}
	m := at.Hour()*60 + at.Minute()
	if start <= end {
		return m >= start && m <= end
	}
	// window crosses midnight
	return m >= start || m <= end
}

// Validate rejects windows that are present but unparseable.
func (w TimeWindow) Validate() error {
	if _, err := parseClock(w.Start); err != nil {
		return fmt.Errorf("invalid window start %q: %w", w.Start, err)
	}
	if _, err := parseClock(w.End); err != nil {
		return fmt.Errorf("invalid window end %q: %w", w.End, err)
	}
	return nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Stop is one delivery or service location.
type Stop struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Address      string      `json:"address,omitempty"`
	Location     *GeoPoint   `json:"location,omitempty"`
	Chain        string      `json:"chain,omitempty"`
	Priority     int         `json:"priority,omitempty"`
	DemandWeight float64     `json:"demandWeight,omitempty"`
	ServiceSec   int         `json:"serviceTimeSec,omitempty"`
	Window       *TimeWindow `json:"timeWindow,omitempty"`
}

type Vehicle struct {
	ID            string  `json:"id"`
	CapWeight     float64 `json:"capWeight,omitempty"`
	MaxDriveHours float64 `json:"maxDriveHours,omitempty"`
}

// RouteConstraints is the immutable per-call constraint set.
type RouteConstraints struct {
	MaxStores       int                   `json:"maxStores,omitempty"`
	TimeWindows     map[string]TimeWindow `json:"timeWindows,omitempty"`
	PriorityWeights map[string]float64    `json:"priorityWeights,omitempty"`
	VisitDate       time.Time             `json:"visitDate,omitempty"`
	RelaxWindows    bool                  `json:"relaxWindows,omitempty"`
}

// PriorityWeight returns the configured chain multiplier, defaulting to 1.
func (c RouteConstraints) PriorityWeight(chain string) float64 {
	if w, ok := c.PriorityWeights[chain]; ok && w > 0 {
		return w
	}
	return 1
}

// WeightedPriority is the ranking key used for truncation, tie-breaking and
// the priority-ordering algorithm.
func (c RouteConstraints) WeightedPriority(s Stop) float64 {
	return c.PriorityWeight(s.Chain) * float64(s.Priority)
}

// CostFactors is the immutable monetary configuration of the cost model.
type CostFactors struct {
	FuelPerKm          float64 `json:"fuelPerKm" yaml:"fuelPerKm"`
	HourlyRate         float64 `json:"hourlyRate" yaml:"hourlyRate"`
	OvertimeMultiplier float64 `json:"overtimeMultiplier" yaml:"overtimeMultiplier"`
	OvertimeAfterHours float64 `json:"overtimeAfterHours" yaml:"overtimeAfterHours"`
	DepreciationPerKm  float64 `json:"depreciationPerKm" yaml:"depreciationPerKm"`
	PriorityDelayCoeff float64 `json:"priorityDelayCoeff" yaml:"priorityDelayCoeff"`
	TrafficDelayCoeff  float64 `json:"trafficDelayCoeff" yaml:"trafficDelayCoeff"`
}

type CostBreakdown struct {
	Fuel            float64 `json:"fuel"`
	Labor           float64 `json:"labor"`
	Depreciation    float64 `json:"depreciation"`
	PriorityPenalty float64 `json:"priorityPenalty"`
	TrafficDelay    float64 `json:"trafficDelay"`
	Total           float64 `json:"total"`
}

// Route is an ordered stop sequence with derived totals.
type Route struct {
	ID              string         `json:"id"`
	Stops           []Stop         `json:"stops"`
	TotalDistanceKm float64        `json:"totalDistanceKm"`
	TotalHours      float64        `json:"totalHours"`
	Cost            *CostBreakdown `json:"cost,omitempty"`
	Score           *RouteScore    `json:"score,omitempty"`
}

// RouteScore is the scorer's auditable output.
type RouteScore struct {
	Preset         string             `json:"preset"`
	Total          float64            `json:"total"`
	Components     map[string]float64 `json:"components"`
	Justifications []Justification    `json:"justifications,omitempty"`
	Formula        string             `json:"formula,omitempty"`
}

// Justification explains one per-stop penalty or bonus.
type Justification struct {
	StopID   string  `json:"stopId"`
	StopName string  `json:"stopName"`
	Delta    float64 `json:"delta"`
	Reason   string  `json:"reason"`
}

// Diagnostic records why a stop was excluded before or during a run.
type Diagnostic struct {
	StopID   string `json:"stopId,omitempty"`
	StopName string `json:"stopName,omitempty"`
	Reason   string `json:"reason"`
}

// ParetoSolution is one member of a returned front, tagged with the raw
// objective values it was evaluated on.
type ParetoSolution struct {
	Route      Route              `json:"route"`
	Objectives map[string]float64 `json:"objectives"`
}

type ParetoFront []ParetoSolution

// Metrics is the per-run telemetry returned alongside each result.
type Metrics struct {
	ProcessingMs      int64        `json:"processingMs"`
	Algorithm         string       `json:"algorithm"`
	OptimizationScore float64      `json:"optimizationScore"`
	Fallback          bool         `json:"fallback,omitempty"`
	FallbackReason    string       `json:"fallbackReason,omitempty"`
	Genetic           *GAStats     `json:"genetic,omitempty"`
	Annealing         *SAStats     `json:"annealing,omitempty"`
	Pareto            *ParetoStats `json:"pareto,omitempty"`
}

type GAStats struct {
	Generations     int     `json:"generations"`
	BestFitness     float64 `json:"bestFitness"`
	ConvergenceRate float64 `json:"convergenceRate"`
}

type SAStats struct {
	Iterations     int     `json:"iterations"`
	FinalTemp      float64 `json:"finalTemp"`
	AcceptanceRate float64 `json:"acceptanceRate"`
}

type ParetoStats struct {
	Generations int `json:"generations"`
	FrontSize   int `json:"frontSize"`
}

// AlgorithmParams carries the algorithm-specific knobs of a request.
// Zero values mean "use configured defaults".
type AlgorithmParams struct {
	PopulationSize   int     `json:"populationSize,omitempty"`
	Generations      int     `json:"generations,omitempty"`
	StallGenerations int     `json:"stallGenerations,omitempty"`
	TournamentSize   int     `json:"tournamentSize,omitempty"`
	MutationRate     float64 `json:"mutationRate,omitempty"`
	CrossoverRate    float64 `json:"crossoverRate,omitempty"`
	InitialTemp      float64 `json:"initialTemp,omitempty"`
	CoolingRate      float64 `json:"coolingRate,omitempty"`
	MinTemp          float64 `json:"minTemp,omitempty"`
	ItersPerTemp     int     `json:"itersPerTemp,omitempty"`
}

// OptimizeRequest is the exposed optimization contract.
type OptimizeRequest struct {
	Stops        []Stop           `json:"stops"`
	Vehicles     []Vehicle        `json:"vehicles,omitempty"`
	Constraints  RouteConstraints `json:"constraints"`
	Algorithm    string           `json:"algorithm,omitempty"`
	Mode         string           `json:"mode,omitempty"`
	Params       AlgorithmParams  `json:"params,omitempty"`
	Objectives   []string         `json:"objectives,omitempty"`
	Preset       string           `json:"preset,omitempty"`
	Debug        bool             `json:"debug,omitempty"`
	TimeBudgetMs int              `json:"timeBudgetMs,omitempty"`
	Seed         int64            `json:"seed,omitempty"`
}

// OptimizeResponse packages the selected route (or front), telemetry and
// every exclusion that happened on the way.
type OptimizeResponse struct {
	RunID   string         `json:"runId"`
	Route   *Route         `json:"route,omitempty"`
	Front   ParetoFront    `json:"paretoFront,omitempty"`
	Metrics Metrics        `json:"metrics"`
	Dropped []Diagnostic   `json:"dropped,omitempty"`
	Cost    *CostBreakdown `json:"cost,omitempty"`
	Score   *RouteScore    `json:"score,omitempty"`
}
