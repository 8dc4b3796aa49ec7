package opt

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"routewise/internal/config"
	"routewise/internal/cost"
	"routewise/internal/filter"
	"routewise/internal/geo"
	"routewise/internal/history"
	"routewise/internal/metrics"
	"routewise/internal/model"
	"routewise/internal/score"
)

// Engine is the exposed optimization entry point: filter, classify, search,
// score, and package diagnostics for one request. All search state is scoped
// to the call, so one Engine serves concurrent callers.
type Engine struct {
	cfg      config.Config
	resolver geo.Resolver
	runs     history.RunStore
	workers  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver injects the geocoding collaborator used for stops that carry
// an address but no coordinates.
func WithResolver(r geo.Resolver) Option { return func(e *Engine) { e.resolver = r } }

// WithHistory injects a run-history sink.
func WithHistory(h history.RunStore) Option { return func(e *Engine) { e.runs = h } }

// WithWorkers bounds parallel fitness evaluation.
func WithWorkers(n int) Option { return func(e *Engine) { e.workers = n } }

func NewEngine(cfg config.Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}
	for _, o := range opts {
		o(e)
	}
	metrics.RegisterDefault()
	return e
}

// Optimize runs one optimization call end to end. Validation failures are
// returned as errors; algorithm-internal failures fall back to
// nearest-neighbor and are flagged in Metrics, never returned as success
// without the flag.
func (e *Engine) Optimize(ctx context.Context, req model.OptimizeRequest) (*model.OptimizeResponse, error) {
	if len(req.Stops) == 0 {
		return nil, fmt.Errorf("no stops provided")
	}
	if err := ValidateRequest(&req); err != nil {
		return nil, err
	}
	algo, _ := ParseAlgorithm(req.Algorithm)
	mode, _ := ParseMode(req.Mode)
	objectives, _ := ParseObjectives(req.Objectives)

	start := time.Now()
	resp := &model.OptimizeResponse{RunID: uuid.New().String()}

	filtered := filter.Apply(ctx, req.Stops, req.Constraints, e.resolver)
	resp.Dropped = filtered.Dropped
	if len(filtered.Stops) == 0 {
		resp.Dropped = append(resp.Dropped, model.Diagnostic{Reason: "zero eligible stops after constraint filtering"})
		resp.Route = &model.Route{ID: uuid.New().String(), Stops: []model.Stop{}}
		// selection never ran, so "auto" would misreport a choice
		name := algo.String()
		if algo == AlgorithmAuto {
			name = "none"
		}
		resp.Metrics = model.Metrics{Algorithm: name, ProcessingMs: time.Since(start).Milliseconds()}
		return resp, nil
	}

	analysis := Analyze(filtered.Stops, req.Vehicles, e.cfg.Selector)
	if algo == AlgorithmAuto {
		algo = Select(analysis, e.cfg.Selector)
	}

	p := newProblem(filtered.Stops, req.Vehicles, req.Constraints, e.cfg.CostFactors, e.cfg.SpeedKph, mode)
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	var deadline time.Time
	if req.TimeBudgetMs > 0 {
		deadline = start.Add(time.Duration(req.TimeBudgetMs) * time.Millisecond)
	}
	pool := newEvalPool(e.workers)

	m := model.Metrics{Algorithm: algo.String()}
	var order []int
	var front [][]int
	var frontVecs [][]float64

	runErr := e.run(func() {
		switch algo {
		case AlgorithmPriority:
			order = priorityOrder(p)
		case AlgorithmNearest:
			order = nearestNeighbor(p)
			if analysis.StopCount <= e.smallMax() {
				order = twoOptRefine(p, order, 3)
			}
		case AlgorithmGenetic:
			var st model.GAStats
			order, st = geneticSearch(p, e.gaParams(req.Params), rng, deadline, pool)
			m.Genetic = &st
		case AlgorithmAnnealing:
			var st model.SAStats
			order, st = annealSearch(p, e.saParams(req.Params), rng, deadline)
			m.Annealing = &st
		case AlgorithmPareto:
			var st model.ParetoStats
			front, frontVecs, st = paretoSearch(p, objectives, e.gaParams(req.Params), rng, deadline, pool)
			m.Pareto = &st
		}
	})
	if runErr == nil && algo != AlgorithmPareto && badOrder(p, order) {
		runErr = fmt.Errorf("algorithm produced a degenerate solution")
	}
	if runErr != nil {
		// algorithm-internal failure: fall back to the deterministic greedy
		order = nearestNeighbor(p)
		front, frontVecs = nil, nil
		m = model.Metrics{Algorithm: algo.String(), Fallback: true, FallbackReason: runErr.Error()}
		metrics.Fallbacks.WithLabelValues(algo.String()).Inc()
	}

	if front != nil {
		resp.Front = make(model.ParetoFront, 0, len(front))
		for i, ord := range front {
			sol := model.ParetoSolution{Route: e.buildRoute(p, ord), Objectives: map[string]float64{}}
			for k, o := range objectives {
				sol.Objectives[string(o)] = frontVecs[i][k]
			}
			resp.Front = append(resp.Front, sol)
		}
		metrics.FrontSize.Observe(float64(len(resp.Front)))
	} else {
		route := e.buildRoute(p, order)
		breakdown := cost.Evaluate(route.Stops, p.vehicle, e.cfg.CostFactors, e.cfg.SpeedKph)
		route.Cost = &breakdown
		resp.Cost = &breakdown
		sc, err := score.Evaluate(route, req.Constraints, req.Preset, req.Debug)
		if err != nil {
			return nil, err
		}
		route.Score = &sc
		resp.Score = &sc
		resp.Route = &route
		if route.TotalDistanceKm > 0 {
			m.OptimizationScore = float64(len(route.Stops)) / route.TotalDistanceKm
		}
	}

	m.ProcessingMs = time.Since(start).Milliseconds()
	resp.Metrics = m
	e.record(ctx, resp, mode, analysis, start)
	return resp, nil
}

// run executes an algorithm, converting panics into errors so a numerical
// failure inside a search degrades to the fallback path instead of taking
// the caller down.
func (e *Engine) run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("algorithm panic: %v", r)
		}
	}()
	fn()
	return nil
}

func badOrder(p *problem, order []int) bool {
	if len(order) != len(p.stops) {
		return true
	}
	seen := make([]bool, len(p.stops))
	for _, idx := range order {
		if idx < 0 || idx >= len(p.stops) || seen[idx] {
			return true
		}
		seen[idx] = true
	}
	obj := p.objective(order)
	return math.IsNaN(obj) || math.IsInf(obj, 0)
}

func (e *Engine) buildRoute(p *problem, order []int) model.Route {
	stops := p.orderedStops(order)
	return model.Route{
		ID:              uuid.New().String(),
		Stops:           stops,
		TotalDistanceKm: p.distanceKm(order),
		TotalHours:      p.hours(order),
	}
}

func (e *Engine) record(ctx context.Context, resp *model.OptimizeResponse, mode Mode, analysis Analysis, start time.Time) {
	m := resp.Metrics
	outcome := "ok"
	if m.Fallback {
		outcome = "fallback"
	}
	metrics.Runs.WithLabelValues(m.Algorithm, outcome).Inc()
	metrics.RunDuration.WithLabelValues(m.Algorithm).Observe(time.Since(start).Seconds())
	RecordMetrics(resp.RunID, m.Algorithm, m)
	if e.runs == nil {
		return
	}
	score := 0.0
	if resp.Score != nil {
		score = resp.Score.Total
	}
	rec := history.Record{
		RunID:       resp.RunID,
		Algorithm:   m.Algorithm,
		Mode:        mode.String(),
		StopCount:   analysis.StopCount,
		Score:       score,
		DurationMs:  m.ProcessingMs,
		Fallback:    m.Fallback,
		CompletedAt: time.Now().UTC(),
	}
	_ = e.runs.RecordRun(ctx, rec)
}

func (e *Engine) smallMax() int {
	if e.cfg.Selector.SmallMax > 0 {
		return e.cfg.Selector.SmallMax
	}
	return 10
}

func (e *Engine) gaParams(p model.AlgorithmParams) gaParams {
	d := e.cfg.Genetic
	out := gaParams{
		PopulationSize:   firstInt(p.PopulationSize, d.PopulationSize),
		Generations:      firstInt(p.Generations, d.Generations),
		StallGenerations: firstInt(p.StallGenerations, d.StallGenerations),
		TournamentSize:   firstInt(p.TournamentSize, d.TournamentSize),
		MutationRate:     firstFloat(p.MutationRate, d.MutationRate),
		CrossoverRate:    firstFloat(p.CrossoverRate, d.CrossoverRate),
	}
	return out
}

func (e *Engine) saParams(p model.AlgorithmParams) saParams {
	d := e.cfg.Annealing
	return saParams{
		InitialTemp:  firstFloat(p.InitialTemp, d.InitialTemp),
		CoolingRate:  firstFloat(p.CoolingRate, d.CoolingRate),
		MinTemp:      firstFloat(p.MinTemp, d.MinTemp),
		ItersPerTemp: firstInt(p.ItersPerTemp, d.ItersPerTemp),
	}
}

func firstInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func firstFloat(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
