package opt

import "sort"

// priorityOrder sorts stops by weighted priority descending, then name
// ascending. Single deterministic pass; used when business priority must
// strictly dominate distance.
func priorityOrder(p *problem) []int {
	order := identityOrder(len(p.stops))
	sort.SliceStable(order, func(i, j int) bool {
		a, b := p.stops[order[i]], p.stops[order[j]]
		wa, wb := p.cons.WeightedPriority(a), p.cons.WeightedPriority(b)
		if wa != wb {
			return wa > wb
		}
		return a.Name < b.Name
	})
	return order
}
