package opt

import (
	"routewise/internal/cost"
	"routewise/internal/geo"
	"routewise/internal/model"
)

// problem is the call-scoped search instance shared by every algorithm.
// Candidate solutions are permutations of stop indices; the distance matrix
// is computed once so repeated evaluation stays cheap.
type problem struct {
	stops   []model.Stop
	vehicle *model.Vehicle
	cons    model.RouteConstraints
	factors model.CostFactors
	speed   float64
	mode    Mode
	dist    [][]float64
}

func newProblem(stops []model.Stop, vehicles []model.Vehicle, cons model.RouteConstraints, factors model.CostFactors, speed float64, mode Mode) *problem {
	if speed <= 0 {
		speed = geo.DefaultSpeedKph
	}
	p := &problem{stops: stops, cons: cons, factors: factors, speed: speed, mode: mode}
	if len(vehicles) > 0 {
		v := vehicles[0]
		p.vehicle = &v
	}
	n := len(stops)
	p.dist = make([][]float64, n)
	for i := 0; i < n; i++ {
		p.dist[i] = make([]float64, n)
		for j := 0; j < i; j++ {
			d := geo.StopDistanceKm(stops[i], stops[j])
			p.dist[i][j] = d
			p.dist[j][i] = d
		}
	}
	return p
}

func (p *problem) orderedStops(order []int) []model.Stop {
	out := make([]model.Stop, len(order))
	for i, idx := range order {
		out[i] = p.stops[idx]
	}
	return out
}

func (p *problem) distanceKm(order []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(order); i++ {
		total += p.dist[order[i]][order[i+1]]
	}
	return total
}

func (p *problem) hours(order []int) float64 {
	h := p.distanceKm(order) / p.speed
	for _, idx := range order {
		h += float64(p.stops[idx].ServiceSec) / 3600
	}
	return h
}

// objective is the scalar a search minimizes: total monetary cost in cost
// mode, plain distance in unified mode.
func (p *problem) objective(order []int) float64 {
	if p.mode == ModeCost {
		return cost.Total(p.orderedStops(order), p.vehicle, p.factors, p.speed)
	}
	return p.distanceKm(order)
}

// fitness is the maximized inverse of the objective.
func (p *problem) fitness(order []int) float64 {
	return 1 / (1 + p.objective(order))
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func cloneOrder(order []int) []int {
	return append([]int(nil), order...)
}
