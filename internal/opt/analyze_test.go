package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"routewise/internal/config"
	"routewise/internal/model"
)

func TestSelectByInstanceSize(t *testing.T) {
	policy := config.Default().Selector

	cases := []struct {
		name string
		a    Analysis
		want Algorithm
	}{
		{"small uses nearest neighbor", Analysis{StopCount: 5, Complexity: 0.9}, AlgorithmNearest},
		{"small boundary", Analysis{StopCount: 10, Complexity: 0.9}, AlgorithmNearest},
		{"medium complex uses genetic", Analysis{StopCount: 30, Complexity: 0.9}, AlgorithmGenetic},
		{"medium simple uses nearest neighbor", Analysis{StopCount: 30, Complexity: 0.1}, AlgorithmNearest},
		{"large complex uses annealing", Analysis{StopCount: 150, Complexity: 0.9}, AlgorithmAnnealing},
		{"large simple uses genetic", Analysis{StopCount: 150, Complexity: 0.1}, AlgorithmGenetic},
		{"huge falls back to nearest neighbor", Analysis{StopCount: 500, Complexity: 0.9}, AlgorithmNearest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Select(tc.a, policy))
		})
	}
}

func TestSelectZeroPolicyUsesDefaults(t *testing.T) {
	assert.Equal(t, AlgorithmNearest, Select(Analysis{StopCount: 8, Complexity: 1}, config.SelectorPolicy{}))
	assert.Equal(t, AlgorithmGenetic, Select(Analysis{StopCount: 40, Complexity: 0.8}, config.SelectorPolicy{}))
}

func TestAnalyzeEmptyInstance(t *testing.T) {
	a := Analyze(nil, nil, config.Default().Selector)
	assert.Zero(t, a.StopCount)
	assert.Zero(t, a.Complexity)
}

func TestAnalyzeComplexityBounded(t *testing.T) {
	stops := []model.Stop{
		lineStop("s0", "Avel", 0, 1),
		lineStop("s1", "Bard", 400, 10), // ~445 km away, max spread score
	}
	stops[0].DemandWeight = 900
	stops[1].DemandWeight = 900
	vehicles := []model.Vehicle{{ID: "v1", CapWeight: 1000}}

	a := Analyze(stops, vehicles, config.Default().Selector)
	assert.Greater(t, a.SpreadKm, 150.0)
	assert.InDelta(t, 1.8, a.CapacityUtilization, 1e-9)
	assert.Greater(t, a.Complexity, 0.0)
	assert.LessOrEqual(t, a.Complexity, 1.0)
}

func TestPriorityVariance(t *testing.T) {
	uniform := []model.Stop{
		lineStop("s0", "Avel", 0, 5),
		lineStop("s1", "Bard", 1, 5),
	}
	assert.Zero(t, priorityVariance(uniform))

	mixed := []model.Stop{
		lineStop("s0", "Avel", 0, 1),
		lineStop("s1", "Bard", 1, 9),
	}
	// mean 5, each deviation 4
	assert.InDelta(t, 16.0, priorityVariance(mixed), 1e-9)
}

func TestCapacityUtilizationNoVehicles(t *testing.T) {
	stops := []model.Stop{lineStop("s0", "Avel", 0, 5)}
	assert.Zero(t, capacityUtilization(stops, nil))
}
