package opt

import (
	"runtime"
	"sync"
)

// evalPool fans population fitness evaluation out over a bounded worker set.
// Results land in a slice indexed like the input, so callers that scan it in
// order resolve equal-fitness ties identically with or without parallelism.
type evalPool struct {
	workers int
}

func newEvalPool(workers int) evalPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return evalPool{workers: workers}
}

func (e evalPool) fitness(p *problem, orders [][]int) []float64 {
	return e.eval(len(orders), func(i int) float64 { return p.fitness(orders[i]) })
}

func (e evalPool) eval(n int, fn func(i int) float64) []float64 {
	out := make([]float64, n)
	e.forEach(n, func(i int) { out[i] = fn(i) })
	return out
}

// forEach runs fn for every index on the pool's workers. Each worker writes
// only the slots it was handed, so no further merging is needed.
func (e evalPool) forEach(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := e.workers
	if workers > n {
		workers = n
	}
	var wg sync.WaitGroup
	next := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}

// bestIndex returns the index of the highest value, lowest index on ties.
func bestIndex(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
