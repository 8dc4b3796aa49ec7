package opt

import (
	"math/rand"

	"routewise/internal/geo"
	"routewise/internal/model"
)

// Test fixtures place stops on the equator so haversine distance is exactly
// proportional to longitude offset. One "unit" is 0.01 degrees (~1.1 km).
const unitLng = 0.01

func lineStop(id, name string, units float64, priority int) model.Stop {
	return model.Stop{
		ID:       id,
		Name:     name,
		Priority: priority,
		Location: &model.GeoPoint{Lat: 0, Lng: units * unitLng},
	}
}

func unitKm() float64 {
	return geo.HaversineKm(model.GeoPoint{Lat: 0, Lng: 0}, model.GeoPoint{Lat: 0, Lng: unitLng})
}

func lineProblem(mode Mode, cons model.RouteConstraints, stops ...model.Stop) *problem {
	return newProblem(stops, nil, cons, model.CostFactors{
		FuelPerKm:          0.5,
		HourlyRate:         25,
		OvertimeMultiplier: 1.5,
		OvertimeAfterHours: 8,
		DepreciationPerKm:  0.1,
		PriorityDelayCoeff: 2,
		TrafficDelayCoeff:  10,
	}, 50, mode)
}

func testRNG(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range order {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
