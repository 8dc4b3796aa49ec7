package opt

import (
	"math/rand"
	"time"

	"routewise/internal/model"
)

type gaParams struct {
	PopulationSize   int
	Generations      int
	StallGenerations int
	TournamentSize   int
	MutationRate     float64
	CrossoverRate    float64
}

// geneticSearch evolves permutations of the stop set. The population is
// seeded with one nearest-neighbor solution; elitism carries the best genome
// forward unchanged, so best-fitness-so-far never decreases.
func geneticSearch(p *problem, params gaParams, rng *rand.Rand, deadline time.Time, pool evalPool) ([]int, model.GAStats) {
	n := len(p.stops)
	stats := model.GAStats{}
	if n <= 1 {
		stats.BestFitness = p.fitness(identityOrder(n))
		return identityOrder(n), stats
	}

	popSize := params.PopulationSize
	if popSize < 4 {
		popSize = 4
	}
	pop := make([][]int, popSize)
	pop[0] = nearestNeighbor(p)
	for i := 1; i < popSize; i++ {
		pop[i] = rng.Perm(n)
	}
	fit := pool.fitness(p, pop)

	bestIdx := bestIndex(fit)
	best := cloneOrder(pop[bestIdx])
	bestFit := fit[bestIdx]
	improvedGens := 0
	stall := 0

	for gen := 0; gen < params.Generations; gen++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		next := make([][]int, 0, popSize)
		// elitism
		next = append(next, cloneOrder(best))
		for len(next) < popSize {
			a := tournament(pop, fit, params.TournamentSize, rng)
			b := tournament(pop, fit, params.TournamentSize, rng)
			child := cloneOrder(pop[a])
			if rng.Float64() < params.CrossoverRate {
				child = orderCrossover(pop[a], pop[b], rng)
			}
			swapMutate(child, params.MutationRate, rng)
			next = append(next, child)
		}
		pop = next
		fit = pool.fitness(p, pop)
		stats.Generations++

		genBest := bestIndex(fit)
		if fit[genBest] > bestFit {
			best = cloneOrder(pop[genBest])
			bestFit = fit[genBest]
			improvedGens++
			stall = 0
		} else {
			stall++
		}
		if params.StallGenerations > 0 && stall >= params.StallGenerations {
			break
		}
	}

	stats.BestFitness = bestFit
	if stats.Generations > 0 {
		stats.ConvergenceRate = float64(improvedGens) / float64(stats.Generations)
	}
	return best, stats
}

// tournament returns the index of the fittest among k uniformly drawn
// contestants, lowest index on ties.
func tournament(pop [][]int, fit []float64, k int, rng *rand.Rand) int {
	if k < 2 {
		k = 2
	}
	best := rng.Intn(len(pop))
	for i := 1; i < k; i++ {
		c := rng.Intn(len(pop))
		if fit[c] > fit[best] || (fit[c] == fit[best] && c < best) {
			best = c
		}
	}
	return best
}

// orderCrossover is OX1: copy a random slice of parent a, then fill the
// remaining positions with b's genes in b's order. Offspring are always
// valid permutations.
func orderCrossover(a, b []int, rng *rand.Rand) []int {
	n := len(a)
	lo := rng.Intn(n)
	hi := rng.Intn(n)
	if lo > hi {
		lo, hi = hi, lo
	}
	child := make([]int, n)
	for i := range child {
		child[i] = -1
	}
	taken := make([]bool, n)
	for i := lo; i <= hi; i++ {
		child[i] = a[i]
		taken[a[i]] = true
	}
	pos := (hi + 1) % n
	for i := 0; i < n; i++ {
		gene := b[(hi+1+i)%n]
		if taken[gene] {
			continue
		}
		child[pos] = gene
		pos = (pos + 1) % n
	}
	return child
}

// swapMutate exchanges each position with a random partner at rate.
func swapMutate(order []int, rate float64, rng *rand.Rand) {
	for i := range order {
		if rng.Float64() < rate {
			j := rng.Intn(len(order))
			order[i], order[j] = order[j], order[i]
		}
	}
}
