// Package cost prices a candidate route. Evaluate is a pure function: no
// I/O, no clock, identical inputs always produce identical breakdowns, which
// lets callers use it as a tie-breaker across algorithms.
package cost

import (
	"math"
	"sort"

	"routewise/internal/geo"
	"routewise/internal/model"
)

// highPriorityFloor marks the ordinal priority from which a stop is
// considered high priority for the delay penalty.
const highPriorityFloor = 7

// trafficShare is the planning estimate of drive time lost to traffic.
const trafficShare = 0.10

// Evaluate computes the itemized monetary cost of visiting stops in the
// given order. vehicle may be nil; when set, its MaxDriveHours lowers the
// overtime threshold.
func Evaluate(stops []model.Stop, vehicle *model.Vehicle, f model.CostFactors, speedKph float64) model.CostBreakdown {
	if speedKph <= 0 {
		speedKph = geo.DefaultSpeedKph
	}
	distKm := geo.RouteDistanceKm(stops)
	driveHours := distKm / speedKph
	workHours := geo.RouteHours(stops, speedKph)

	var b model.CostBreakdown
	b.Fuel = distKm * f.FuelPerKm
	b.Depreciation = distKm * f.DepreciationPerKm
	b.Labor = labor(workHours, vehicle, f)
	b.PriorityPenalty = priorityPenalty(stops, f)
	b.TrafficDelay = driveHours * trafficShare * f.TrafficDelayCoeff
	b.Total = b.Fuel + b.Labor + b.Depreciation + b.PriorityPenalty + b.TrafficDelay
	return b
}

func labor(workHours float64, vehicle *model.Vehicle, f model.CostFactors) float64 {
	threshold := f.OvertimeAfterHours
	if vehicle != nil && vehicle.MaxDriveHours > 0 && (threshold == 0 || vehicle.MaxDriveHours < threshold) {
		threshold = vehicle.MaxDriveHours
	}
	if threshold <= 0 || workHours <= threshold {
		return workHours * f.HourlyRate
	}
	mult := f.OvertimeMultiplier
	if mult < 1 {
		mult = 1
	}
	return threshold*f.HourlyRate + (workHours-threshold)*f.HourlyRate*mult
}

// priorityPenalty charges high-priority stops for every position they sit
// past their ideal slot, where the ideal order is priority descending with
// name as the stable tie-break.
func priorityPenalty(stops []model.Stop, f model.CostFactors) float64 {
	if f.PriorityDelayCoeff == 0 || len(stops) == 0 {
		return 0
	}
	ideal := make([]model.Stop, len(stops))
	copy(ideal, stops)
	sort.SliceStable(ideal, func(i, j int) bool {
		if ideal[i].Priority != ideal[j].Priority {
			return ideal[i].Priority > ideal[j].Priority
		}
		return ideal[i].Name < ideal[j].Name
	})
	idealPos := make(map[string]int, len(ideal))
	for i, s := range ideal {
		idealPos[s.ID] = i
	}
	penalty := 0.0
	for actual, s := range stops {
		if s.Priority < highPriorityFloor {
			continue
		}
		delay := float64(actual - idealPos[s.ID])
		if delay <= 0 {
			continue
		}
		penalty += delay * float64(s.Priority) * f.PriorityDelayCoeff
	}
	return penalty
}

// Total is a convenience for callers that only need the summed figure.
func Total(stops []model.Stop, vehicle *model.Vehicle, f model.CostFactors, speedKph float64) float64 {
	return Evaluate(stops, vehicle, f, speedKph).Total
}

// ItemizedSumMatches reports whether the breakdown's components add up to its
// total within tol. Kept here so audits and tests share one definition.
func ItemizedSumMatches(b model.CostBreakdown, tol float64) bool {
	sum := b.Fuel + b.Labor + b.Depreciation + b.PriorityPenalty + b.TrafficDelay
	return math.Abs(sum-b.Total) <= tol
}
