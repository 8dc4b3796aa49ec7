package opt

// nearestNeighbor builds a route greedily: start at the highest
// weighted-priority stop, then repeatedly hop to the closest unvisited stop.
// Distance ties break toward higher priority, then name, so repeated runs
// are byte-identical.
func nearestNeighbor(p *problem) []int {
	n := len(p.stops)
	if n == 0 {
		return nil
	}
	const eps = 1e-9
	start := 0
	for i := 1; i < n; i++ {
		ws, wi := p.cons.WeightedPriority(p.stops[start]), p.cons.WeightedPriority(p.stops[i])
		if wi > ws || (wi == ws && p.stops[i].Name < p.stops[start].Name) {
			start = i
		}
	}
	visited := make([]bool, n)
	order := make([]int, 0, n)
	order = append(order, start)
	visited[start] = true
	cur := start
	for len(order) < n {
		next := -1
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			if next == -1 {
				next = i
				continue
			}
			d, best := p.dist[cur][i], p.dist[cur][next]
			switch {
			case d < best-eps:
				next = i
			case d <= best+eps:
				a, b := p.stops[i], p.stops[next]
				if a.Priority > b.Priority || (a.Priority == b.Priority && a.Name < b.Name) {
					next = i
				}
			}
		}
		order = append(order, next)
		visited[next] = true
		cur = next
	}
	return order
}

// twoOptRefine reduces route distance with 2-opt segment reversals until no
// move improves. First-better-move scan order keeps the result deterministic.
func twoOptRefine(p *problem, order []int, maxPasses int) []int {
	if maxPasses <= 0 {
		maxPasses = 1
	}
	best := cloneOrder(order)
	bestDist := p.distanceKm(best)
	n := len(best)
	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for i := 1; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				cand := twoOptSwap(best, i, k)
				if d := p.distanceKm(cand); d+1e-9 < bestDist {
					best = cand
					bestDist = d
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return best
}

// twoOptSwap reverses the segment [i,k] of ord into a fresh slice.
func twoOptSwap(ord []int, i, k int) []int {
	out := make([]int, len(ord))
	copy(out, ord[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = ord[j]
		pos++
	}
	copy(out[pos:], ord[k+1:])
	return out
}
