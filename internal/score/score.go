// Package score grades a finished route on a 0-100 scale with an auditable
// per-stop breakdown. It never mutates the route and never drives a search;
// it exists to compare results from different algorithms on one scale.
package score

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"routewise/internal/model"
)

// Weights are the component weights of a preset; they sum to 1.
type Weights struct {
	Distance   float64 `yaml:"distance"`
	Time       float64 `yaml:"time"`
	Priority   float64 `yaml:"priority"`
	Traffic    float64 `yaml:"traffic"`
	Playbook   float64 `yaml:"playbook"`
	Efficiency float64 `yaml:"efficiency"`
}

var presets = map[string]Weights{
	"balanced":         {Distance: 0.25, Time: 0.20, Priority: 0.20, Traffic: 0.10, Playbook: 0.15, Efficiency: 0.10},
	"distance_focused": {Distance: 0.50, Time: 0.15, Priority: 0.10, Traffic: 0.10, Playbook: 0.10, Efficiency: 0.05},
	"time_focused":     {Distance: 0.15, Time: 0.50, Priority: 0.10, Traffic: 0.10, Playbook: 0.10, Efficiency: 0.05},
	"priority_focused": {Distance: 0.10, Time: 0.10, Priority: 0.50, Traffic: 0.05, Playbook: 0.20, Efficiency: 0.05},
}

// ErrUnknownPreset marks an invalid preset name; never silently corrected.
var ErrUnknownPreset = errors.New("unknown scoring preset")

// ValidPreset reports whether name is a known preset. Empty means balanced.
func ValidPreset(name string) bool {
	if name == "" {
		return true
	}
	_, ok := presets[name]
	return ok
}

// Presets lists the available preset names in stable order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// normalization anchors: a route at or below these per-stop figures scores
// full marks on the corresponding component.
const (
	idealLegKm       = 5.0
	idealHoursPer    = 0.5
	trafficKmPerLoss = 2.0 // each 2km of driving costs one traffic point
	windowMissCost   = 20.0
	prioritySlipCost = 4.0
)

// Evaluate scores a finished route under the named preset. Identical inputs
// yield identical scores, and the weighted components always sum to Total.
func Evaluate(route model.Route, cons model.RouteConstraints, preset string, debug bool) (model.RouteScore, error) {
	if preset == "" {
		preset = "balanced"
	}
	w, ok := presets[preset]
	if !ok {
		return model.RouteScore{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
	n := len(route.Stops)
	out := model.RouteScore{Preset: preset, Components: map[string]float64{}}
	if n == 0 {
		return out, nil
	}

	var just []model.Justification

	distComp := clamp(100 * idealLegKm / math.Max(idealLegKm, route.TotalDistanceKm/float64(max(n-1, 1))))
	timeComp := clamp(100 * idealHoursPer / math.Max(idealHoursPer, route.TotalHours/float64(n)))
	trafficComp := clamp(100 - route.TotalDistanceKm/trafficKmPerLoss)

	priorityComp, pj := priorityAdherence(route.Stops, cons)
	just = append(just, pj...)

	playbookComp, wj := playbookCompliance(route.Stops, cons)
	just = append(just, wj...)

	// stops served per driving hour, anchored at 2/h for full marks
	effComp := 100.0
	if route.TotalHours > 0 {
		effComp = clamp(100 * (float64(n) / route.TotalHours) / 2.0)
	}

	out.Components["distance"] = round2(w.Distance * distComp)
	out.Components["time"] = round2(w.Time * timeComp)
	out.Components["priority"] = round2(w.Priority * priorityComp)
	out.Components["traffic"] = round2(w.Traffic * trafficComp)
	out.Components["playbook"] = round2(w.Playbook * playbookComp)
	out.Components["efficiency"] = round2(w.Efficiency * effComp)
	// summed in a fixed order; map iteration would reorder float addition
	out.Total = round2(out.Components["distance"] + out.Components["time"] +
		out.Components["priority"] + out.Components["traffic"] +
		out.Components["playbook"] + out.Components["efficiency"])
	out.Justifications = just
	if debug {
		out.Formula = fmt.Sprintf(
			"%.2f*distance(%.1f) + %.2f*time(%.1f) + %.2f*priority(%.1f) + %.2f*traffic(%.1f) + %.2f*playbook(%.1f) + %.2f*efficiency(%.1f)",
			w.Distance, distComp, w.Time, timeComp, w.Priority, priorityComp,
			w.Traffic, trafficComp, w.Playbook, playbookComp, w.Efficiency, effComp)
	}
	return out, nil
}

// priorityAdherence penalizes each stop for positions served past its ideal
// slot in the weighted-priority ordering.
func priorityAdherence(stops []model.Stop, cons model.RouteConstraints) (float64, []model.Justification) {
	ideal := append([]model.Stop(nil), stops...)
	sort.SliceStable(ideal, func(i, j int) bool {
		wi, wj := cons.WeightedPriority(ideal[i]), cons.WeightedPriority(ideal[j])
		if wi != wj {
			return wi > wj
		}
		return ideal[i].Name < ideal[j].Name
	})
	idealPos := make(map[string]int, len(ideal))
	for i, s := range ideal {
		idealPos[s.ID] = i
	}
	comp := 100.0
	var just []model.Justification
	for actual, s := range stops {
		slip := actual - idealPos[s.ID]
		if slip <= 0 {
			continue
		}
		delta := prioritySlipCost * float64(slip)
		comp -= delta
		just = append(just, model.Justification{
			StopID:   s.ID,
			StopName: s.Name,
			Delta:    -delta,
			Reason:   fmt.Sprintf("priority %d served %d positions late", s.Priority, slip),
		})
	}
	return clamp(comp), just
}

// playbookCompliance checks chain and stop time windows at the visit date.
func playbookCompliance(stops []model.Stop, cons model.RouteConstraints) (float64, []model.Justification) {
	comp := 100.0
	var just []model.Justification
	if cons.VisitDate.IsZero() {
		return comp, nil
	}
	for _, s := range stops {
		open := true
		if w, ok := cons.TimeWindows[s.Chain]; ok && !w.Contains(cons.VisitDate) {
			open = false
		}
		if open && s.Window != nil && !s.Window.Contains(cons.VisitDate) {
			open = false
		}
		if open {
			continue
		}
		comp -= windowMissCost
		just = append(just, model.Justification{
			StopID:   s.ID,
			StopName: s.Name,
			Delta:    -windowMissCost,
			Reason:   "visited outside its time window",
		})
	}
	return clamp(comp), just
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
