// Package filter normalizes and screens raw stops against business
// constraints before any search runs.
package filter

import (
	"context"
	"fmt"
	"math"
	"sort"

	"routewise/internal/geo"
	"routewise/internal/model"
)

// Result is the filtered stop set plus one diagnostic per excluded stop.
type Result struct {
	Stops   []model.Stop
	Dropped []model.Diagnostic
}

// Apply resolves missing coordinates through resolver (optional), drops stops
// whose chain window excludes the visit date, and truncates to MaxStores by
// weighted priority. An empty result is not an error; the caller surfaces it
// as a valid empty route.
func Apply(ctx context.Context, stops []model.Stop, c model.RouteConstraints, resolver geo.Resolver) Result {
	var out Result
	for _, s := range stops {
		s := s
		if s.Location == nil {
			pt, err := resolve(ctx, resolver, s.Address)
			if err != nil {
				out.Dropped = append(out.Dropped, model.Diagnostic{
					StopID:   s.ID,
					StopName: s.Name,
					Reason:   fmt.Sprintf("unresolved address: %v", err),
				})
				continue
			}
			s.Location = &pt
		}
		if !finite(*s.Location) {
			out.Dropped = append(out.Dropped, model.Diagnostic{
				StopID:   s.ID,
				StopName: s.Name,
				Reason:   fmt.Sprintf("non-finite coordinates (%v, %v)", s.Location.Lat, s.Location.Lng),
			})
			continue
		}
		if !c.RelaxWindows && !windowOpen(s, c) {
			out.Dropped = append(out.Dropped, model.Diagnostic{
				StopID:   s.ID,
				StopName: s.Name,
				Reason:   fmt.Sprintf("chain %q time window excludes visit date", s.Chain),
			})
			continue
		}
		out.Stops = append(out.Stops, s)
	}
	if c.MaxStores > 0 && len(out.Stops) > c.MaxStores {
		out.Stops, out.Dropped = truncate(out.Stops, out.Dropped, c)
	}
	return out
}

// finite guards the distance matrix: a NaN or Inf coordinate would poison
// every downstream total, so such stops are dropped like unresolved ones.
func finite(pt model.GeoPoint) bool {
	for _, v := range []float64{pt.Lat, pt.Lng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func resolve(ctx context.Context, resolver geo.Resolver, address string) (model.GeoPoint, error) {
	if address == "" {
		return model.GeoPoint{}, fmt.Errorf("no coordinates and no address")
	}
	if resolver == nil {
		return model.GeoPoint{}, fmt.Errorf("no geocoding resolver configured")
	}
	return resolver.Resolve(ctx, address)
}

// windowOpen checks the chain-level constraint window first, then any window
// carried on the stop itself.
func windowOpen(s model.Stop, c model.RouteConstraints) bool {
	at := c.VisitDate
	if at.IsZero() {
		return true
	}
	if w, ok := c.TimeWindows[s.Chain]; ok && !w.Contains(at) {
		return false
	}
	if s.Window != nil && !s.Window.Contains(at) {
		return false
	}
	return true
}

// truncate keeps the MaxStores highest weighted-priority stops, name
// ascending on ties so repeated runs truncate identically.
func truncate(stops []model.Stop, dropped []model.Diagnostic, c model.RouteConstraints) ([]model.Stop, []model.Diagnostic) {
	ranked := make([]model.Stop, len(stops))
	copy(ranked, stops)
	sort.SliceStable(ranked, func(i, j int) bool {
		wi, wj := c.WeightedPriority(ranked[i]), c.WeightedPriority(ranked[j])
		if wi != wj {
			return wi > wj
		}
		return ranked[i].Name < ranked[j].Name
	})
	for _, s := range ranked[c.MaxStores:] {
		dropped = append(dropped, model.Diagnostic{
			StopID:   s.ID,
			StopName: s.Name,
			Reason:   fmt.Sprintf("over maxStores cap (%d), weighted priority %.2f", c.MaxStores, c.WeightedPriority(s)),
		})
	}
	return ranked[:c.MaxStores], dropped
}
