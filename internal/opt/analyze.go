package opt

import (
	"math"

	"routewise/internal/config"
	"routewise/internal/geo"
	"routewise/internal/model"
)

// Analysis classifies a filtered problem instance for algorithm selection
// and is returned in diagnostics so selections stay explainable.
type Analysis struct {
	StopCount           int     `json:"stopCount"`
	SpreadKm            float64 `json:"spreadKm"`
	PriorityVariance    float64 `json:"priorityVariance"`
	CapacityUtilization float64 `json:"capacityUtilization"`
	Complexity          float64 `json:"complexity"`
}

// spreadNormKm is the geographic spread treated as fully complex.
const spreadNormKm = 150.0

// Analyze computes the instance complexity score in [0,1].
func Analyze(stops []model.Stop, vehicles []model.Vehicle, policy config.SelectorPolicy) Analysis {
	a := Analysis{StopCount: len(stops)}
	if len(stops) == 0 {
		return a
	}
	a.SpreadKm = geo.BoundingDiameterKm(stops)
	a.PriorityVariance = priorityVariance(stops)
	a.CapacityUtilization = capacityUtilization(stops, vehicles)

	largeMax := policy.LargeMax
	if largeMax <= 0 {
		largeMax = 200
	}
	sizeScore := math.Min(1, float64(len(stops))/float64(largeMax))
	spreadScore := math.Min(1, a.SpreadKm/spreadNormKm)
	// ordinal priorities run 1..10; variance 8+ means wildly mixed urgency
	varScore := math.Min(1, a.PriorityVariance/8)
	a.Complexity = 0.35*sizeScore + 0.30*spreadScore + 0.20*varScore + 0.15*math.Min(1, a.CapacityUtilization)
	return a
}

// Select picks the algorithm for an instance. An explicit caller choice
// always wins; this only decides the auto case.
func Select(a Analysis, policy config.SelectorPolicy) Algorithm {
	smallMax, mediumMax, largeMax, pivot := policy.SmallMax, policy.MediumMax, policy.LargeMax, policy.ComplexityPivot
	if smallMax <= 0 {
		smallMax = 10
	}
	if mediumMax <= 0 {
		mediumMax = 50
	}
	if largeMax <= 0 {
		largeMax = 200
	}
	if pivot <= 0 {
		pivot = 0.5
	}
	switch {
	case a.StopCount <= smallMax:
		return AlgorithmNearest
	case a.StopCount <= mediumMax:
		if a.Complexity >= pivot {
			return AlgorithmGenetic
		}
		return AlgorithmNearest
	case a.StopCount <= largeMax:
		if a.Complexity >= pivot {
			return AlgorithmAnnealing
		}
		return AlgorithmGenetic
	default:
		// search algorithms do not converge in typical budgets past this size
		return AlgorithmNearest
	}
}

func priorityVariance(stops []model.Stop) float64 {
	mean := 0.0
	for _, s := range stops {
		mean += float64(s.Priority)
	}
	mean /= float64(len(stops))
	v := 0.0
	for _, s := range stops {
		d := float64(s.Priority) - mean
		v += d * d
	}
	return v / float64(len(stops))
}

func capacityUtilization(stops []model.Stop, vehicles []model.Vehicle) float64 {
	capSum := 0.0
	for _, v := range vehicles {
		capSum += v.CapWeight
	}
	if capSum == 0 {
		return 0
	}
	demand := 0.0
	for _, s := range stops {
		demand += s.DemandWeight
	}
	return demand / capSum
}
