package opt

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"routewise/internal/model"
)

// paretoSearch runs an NSGA-II style loop over the selected objectives and
// returns the rank-0 front. All objectives are minimized.
func paretoSearch(p *problem, objs []Objective, params gaParams, rng *rand.Rand, deadline time.Time, pool evalPool) ([][]int, [][]float64, model.ParetoStats) {
	n := len(p.stops)
	stats := model.ParetoStats{}
	popSize := params.PopulationSize
	if popSize < 4 {
		popSize = 4
	}
	pop := make([][]int, popSize)
	pop[0] = nearestNeighbor(p)
	for i := 1; i < popSize; i++ {
		pop[i] = rng.Perm(n)
	}
	vecs := objectiveVectors(p, objs, pop, pool)

	for gen := 0; gen < params.Generations; gen++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		ranks, crowding := rankAndCrowd(vecs)
		offspring := make([][]int, 0, popSize)
		for len(offspring) < popSize {
			a := crowdedTournament(ranks, crowding, rng)
			b := crowdedTournament(ranks, crowding, rng)
			child := cloneOrder(pop[a])
			if rng.Float64() < params.CrossoverRate {
				child = orderCrossover(pop[a], pop[b], rng)
			}
			swapMutate(child, params.MutationRate, rng)
			offspring = append(offspring, child)
		}
		combined := append(cloneOrders(pop), offspring...)
		combinedVecs := append(cloneVectors(vecs), objectiveVectors(p, objs, offspring, pool)...)
		pop, vecs = truncateByFronts(combined, combinedVecs, popSize)
		stats.Generations++
	}

	fronts := fastNonDominatedSort(vecs)
	frontOrders, frontVecs := dedupFront(pop, vecs, fronts[0])
	stats.FrontSize = len(frontOrders)
	return frontOrders, frontVecs, stats
}

// objectiveValues evaluates one permutation on the selected objectives, all
// oriented so lower is better.
func objectiveValues(p *problem, objs []Objective, order []int) []float64 {
	out := make([]float64, len(objs))
	for i, o := range objs {
		switch o {
		case ObjectiveDistance:
			out[i] = p.distanceKm(order)
		case ObjectiveTime:
			out[i] = p.hours(order)
		case ObjectivePriority:
			// weighted positional displacement: high priority served late
			// scores high, so minimizing favors priority adherence
			v := 0.0
			for pos, idx := range order {
				v += float64(pos) * p.cons.WeightedPriority(p.stops[idx])
			}
			out[i] = v
		case ObjectiveFuel:
			out[i] = p.distanceKm(order) * p.factors.FuelPerKm
		}
	}
	return out
}

func objectiveVectors(p *problem, objs []Objective, pop [][]int, pool evalPool) [][]float64 {
	out := make([][]float64, len(pop))
	pool.forEach(len(pop), func(i int) { out[i] = objectiveValues(p, objs, pop[i]) })
	return out
}

// Dominates reports whether vector a dominates b: no worse everywhere and
// strictly better at least once.
func Dominates(a, b []float64) bool {
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

// fastNonDominatedSort partitions indices into ranked fronts.
func fastNonDominatedSort(vecs [][]float64) [][]int {
	n := len(vecs)
	dominated := make([][]int, n)
	domCount := make([]int, n)
	var first []int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if Dominates(vecs[i], vecs[j]) {
				dominated[i] = append(dominated[i], j)
			} else if Dominates(vecs[j], vecs[i]) {
				domCount[i]++
			}
		}
		if domCount[i] == 0 {
			first = append(first, i)
		}
	}
	fronts := [][]int{first}
	for len(fronts[len(fronts)-1]) > 0 {
		var next []int
		for _, i := range fronts[len(fronts)-1] {
			for _, j := range dominated[i] {
				domCount[j]--
				if domCount[j] == 0 {
					next = append(next, j)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		fronts = append(fronts, next)
	}
	return fronts
}

// crowdingDistance scores how isolated each member of a front is; boundary
// solutions get +Inf so diversity at the extremes survives truncation.
func crowdingDistance(front []int, vecs [][]float64) map[int]float64 {
	dist := make(map[int]float64, len(front))
	for _, i := range front {
		dist[i] = 0
	}
	if len(front) == 0 {
		return dist
	}
	nObj := len(vecs[front[0]])
	for m := 0; m < nObj; m++ {
		sorted := append([]int(nil), front...)
		sort.SliceStable(sorted, func(a, b int) bool { return vecs[sorted[a]][m] < vecs[sorted[b]][m] })
		lo, hi := sorted[0], sorted[len(sorted)-1]
		dist[lo] = math.Inf(1)
		dist[hi] = math.Inf(1)
		span := vecs[hi][m] - vecs[lo][m]
		if span == 0 {
			continue
		}
		for k := 1; k < len(sorted)-1; k++ {
			dist[sorted[k]] += (vecs[sorted[k+1]][m] - vecs[sorted[k-1]][m]) / span
		}
	}
	return dist
}

func rankAndCrowd(vecs [][]float64) (ranks []int, crowding []float64) {
	n := len(vecs)
	ranks = make([]int, n)
	crowding = make([]float64, n)
	fronts := fastNonDominatedSort(vecs)
	for r, front := range fronts {
		cd := crowdingDistance(front, vecs)
		for _, i := range front {
			ranks[i] = r
			crowding[i] = cd[i]
		}
	}
	return ranks, crowding
}

// crowdedTournament prefers lower rank, then larger crowding distance, then
// lower index for a deterministic tie given the rng draw.
func crowdedTournament(ranks []int, crowding []float64, rng *rand.Rand) int {
	a := rng.Intn(len(ranks))
	b := rng.Intn(len(ranks))
	switch {
	case ranks[a] != ranks[b]:
		if ranks[a] < ranks[b] {
			return a
		}
		return b
	case crowding[a] != crowding[b]:
		if crowding[a] > crowding[b] {
			return a
		}
		return b
	case a <= b:
		return a
	default:
		return b
	}
}

// truncateByFronts keeps the best popSize members of a combined population,
// filling whole fronts first and splitting the last one by crowding distance.
func truncateByFronts(pop [][]int, vecs [][]float64, popSize int) ([][]int, [][]float64) {
	fronts := fastNonDominatedSort(vecs)
	keptOrders := make([][]int, 0, popSize)
	keptVecs := make([][]float64, 0, popSize)
	for _, front := range fronts {
		if len(keptOrders)+len(front) <= popSize {
			for _, i := range front {
				keptOrders = append(keptOrders, pop[i])
				keptVecs = append(keptVecs, vecs[i])
			}
			continue
		}
		cd := crowdingDistance(front, vecs)
		sorted := append([]int(nil), front...)
		sort.SliceStable(sorted, func(a, b int) bool { return cd[sorted[a]] > cd[sorted[b]] })
		for _, i := range sorted[:popSize-len(keptOrders)] {
			keptOrders = append(keptOrders, pop[i])
			keptVecs = append(keptVecs, vecs[i])
		}
		break
	}
	return keptOrders, keptVecs
}

// dedupFront drops duplicate permutations, which elitist truncation tends to
// accumulate, and returns front members in stable index order.
func dedupFront(pop [][]int, vecs [][]float64, front []int) ([][]int, [][]float64) {
	sorted := append([]int(nil), front...)
	sort.Ints(sorted)
	seen := map[string]bool{}
	var orders [][]int
	var out [][]float64
	for _, i := range sorted {
		key := orderKey(pop[i])
		if seen[key] {
			continue
		}
		seen[key] = true
		orders = append(orders, pop[i])
		out = append(out, vecs[i])
	}
	return orders, out
}

func orderKey(order []int) string {
	key := ""
	for _, v := range order {
		key += fmt.Sprintf("%d,", v)
	}
	return key
}

func cloneOrders(pop [][]int) [][]int {
	out := make([][]int, len(pop))
	for i := range pop {
		out[i] = cloneOrder(pop[i])
	}
	return out
}

func cloneVectors(vecs [][]float64) [][]float64 {
	out := make([][]float64, len(vecs))
	for i := range vecs {
		out[i] = append([]float64(nil), vecs[i]...)
	}
	return out
}
