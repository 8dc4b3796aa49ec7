package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routewise/internal/model"
)

// Four collinear stops at 0,1,2,3 units with the highest priority at
// position 2. The greedy walk starts there; the two 1-unit neighbors tie on
// distance and the name tie-break picks position 1, giving [2,1,0,3].
func TestNearestNeighborCollinear(t *testing.T) {
	p := lineProblem(ModeUnified, model.RouteConstraints{},
		lineStop("s0", "Avel", 0, 5),
		lineStop("s1", "Bard", 1, 5),
		lineStop("s2", "Crest", 2, 9),
		lineStop("s3", "Dune", 3, 5),
	)
	order := nearestNeighbor(p)
	require.True(t, isPermutation(order, 4))
	assert.Equal(t, []int{2, 1, 0, 3}, order)

	// legs 1 + 1 + 3 units
	assert.InDelta(t, 5*unitKm(), p.distanceKm(order), 1e-6)
	// sanity: the unconstrained optimal sweep is 3 units
	assert.InDelta(t, 3*unitKm(), p.distanceKm([]int{0, 1, 2, 3}), 1e-6)
}

func TestNearestNeighborDistanceTieBreaksByPriority(t *testing.T) {
	// two stops at equal distance from the start; higher priority wins
	p := lineProblem(ModeUnified, model.RouteConstraints{},
		lineStop("w", "West", -1, 8),
		lineStop("c", "Center", 0, 9),
		lineStop("e", "East", 1, 3),
	)
	order := nearestNeighbor(p)
	assert.Equal(t, []int{1, 0, 2}, order)
}

func TestNearestNeighborDeterministic(t *testing.T) {
	p := lineProblem(ModeUnified, model.RouteConstraints{},
		lineStop("s0", "Avel", 0, 5),
		lineStop("s1", "Bard", 4, 5),
		lineStop("s2", "Crest", 1, 9),
		lineStop("s3", "Dune", 7, 2),
		lineStop("s4", "Elm", 3, 2),
	)
	first := nearestNeighbor(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, nearestNeighbor(p))
	}
}

func TestTwoOptRefineNeverWorsens(t *testing.T) {
	p := lineProblem(ModeUnified, model.RouteConstraints{},
		lineStop("s0", "Avel", 0, 1),
		lineStop("s1", "Bard", 5, 1),
		lineStop("s2", "Crest", 1, 1),
		lineStop("s3", "Dune", 4, 1),
		lineStop("s4", "Elm", 2, 1),
		lineStop("s5", "Fir", 3, 1),
	)
	start := []int{0, 1, 2, 3, 4, 5} // zig-zag order, 0-5-1-4-2-3 by position
	refined := twoOptRefine(p, start, 10)
	require.True(t, isPermutation(refined, 6))
	assert.LessOrEqual(t, p.distanceKm(refined), p.distanceKm(start))
	// first stop is pinned by the refinement
	assert.Equal(t, 0, refined[0])
}

func TestTwoOptSwapReversesSegment(t *testing.T) {
	got := twoOptSwap([]int{0, 1, 2, 3, 4}, 1, 3)
	assert.Equal(t, []int{0, 3, 2, 1, 4}, got)
}
