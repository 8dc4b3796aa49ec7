package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routewise/internal/model"
)

func TestEvalPoolMatchesSerialEvaluation(t *testing.T) {
	p := lineProblem(ModeUnified, model.RouteConstraints{},
		lineStop("s1", "Avel", 0, 3),
		lineStop("s2", "Bard", 2, 8),
		lineStop("s3", "Crest", 1, 5),
		lineStop("s4", "Dune", 4, 6),
	)
	rng := testRNG(9)
	pop := make([][]int, 30)
	for i := range pop {
		pop[i] = rng.Perm(4)
	}

	serial := make([]float64, len(pop))
	for i, order := range pop {
		serial[i] = p.fitness(order)
	}
	for _, workers := range []int{1, 2, 8} {
		got := newEvalPool(workers).fitness(p, pop)
		require.Equal(t, serial, got, "workers=%d", workers)
	}
}

func TestEvalPoolEmptyInput(t *testing.T) {
	assert.Empty(t, newEvalPool(4).eval(0, func(int) float64 { return 0 }))
}

func TestBestIndexPrefersLowestOnTies(t *testing.T) {
	assert.Equal(t, 0, bestIndex([]float64{5, 5, 5}))
	assert.Equal(t, 2, bestIndex([]float64{1, 3, 7, 7, 2}))
	assert.Equal(t, 0, bestIndex([]float64{4}))
}
