package opt

import (
	"math"
	"math/rand"
	"time"

	"routewise/internal/model"
)

type saParams struct {
	InitialTemp  float64
	CoolingRate  float64
	MinTemp      float64
	ItersPerTemp int
}

// annealSearch walks the permutation space from a nearest-neighbor seed.
// Worse neighbors are accepted with probability exp(-delta/temp); the
// temperature cools geometrically until MinTemp or the deadline. The
// best-seen solution is returned, never the final walk state, so the result
// can never be worse than the seed.
func annealSearch(p *problem, params saParams, rng *rand.Rand, deadline time.Time) ([]int, model.SAStats) {
	stats := model.SAStats{}
	n := len(p.stops)
	cur := nearestNeighbor(p)
	if n <= 2 {
		stats.FinalTemp = params.InitialTemp
		return cur, stats
	}
	curObj := p.objective(cur)
	best := cloneOrder(cur)
	bestObj := curObj

	temp := params.InitialTemp
	if temp <= 0 {
		temp = 1000
	}
	cool := params.CoolingRate
	if cool <= 0 || cool >= 1 {
		cool = 0.995
	}
	minTemp := params.MinTemp
	if minTemp <= 0 {
		minTemp = 0.01
	}
	perTemp := params.ItersPerTemp
	if perTemp <= 0 {
		perTemp = 1
	}

	accepted := 0
	for temp > minTemp {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		for it := 0; it < perTemp; it++ {
			stats.Iterations++
			cand := neighbor(cur, rng)
			candObj := p.objective(cand)
			delta := candObj - curObj
			if delta < 0 || rng.Float64() < math.Exp(-delta/(temp+1e-9)) {
				cur = cand
				curObj = candObj
				accepted++
				if curObj < bestObj {
					best = cloneOrder(cur)
					bestObj = curObj
				}
			}
		}
		temp *= cool
	}

	stats.FinalTemp = temp
	if stats.Iterations > 0 {
		stats.AcceptanceRate = float64(accepted) / float64(stats.Iterations)
	}
	return best, stats
}

// neighbor perturbs a permutation by random segment reversal or pair swap.
func neighbor(order []int, rng *rand.Rand) []int {
	n := len(order)
	out := cloneOrder(order)
	i := rng.Intn(n)
	j := rng.Intn(n)
	if i == j {
		j = (j + 1) % n
	}
	if i > j {
		i, j = j, i
	}
	if rng.Float64() < 0.5 {
		// segment reversal
		for a, b := i, j; a < b; a, b = a+1, b-1 {
			out[a], out[b] = out[b], out[a]
		}
	} else {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
