package filter

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routewise/internal/geo"
	"routewise/internal/model"
)

func locStop(id, name string, lat, lng float64) model.Stop {
	return model.Stop{ID: id, Name: name, Location: &model.GeoPoint{Lat: lat, Lng: lng}}
}

func TestApplyEmptyInput(t *testing.T) {
	res := Apply(context.Background(), nil, model.RouteConstraints{}, nil)
	assert.Empty(t, res.Stops)
	assert.Empty(t, res.Dropped)
}

func TestApplyDropsStopsWithoutCoordinatesOrAddress(t *testing.T) {
	stops := []model.Stop{
		{ID: "s1", Name: "Avel"},
		locStop("s2", "Bard", 0, 0.01),
	}
	res := Apply(context.Background(), stops, model.RouteConstraints{}, nil)
	require.Len(t, res.Stops, 1)
	assert.Equal(t, "s2", res.Stops[0].ID)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, "s1", res.Dropped[0].StopID)
	assert.Contains(t, res.Dropped[0].Reason, "unresolved address")
}

func TestApplyDropsNonFiniteCoordinates(t *testing.T) {
	stops := []model.Stop{
		locStop("s1", "Avel", math.NaN(), 0),
		locStop("s2", "Bard", 0, math.Inf(1)),
		locStop("s3", "Crest", 0, 0.01),
	}
	res := Apply(context.Background(), stops, model.RouteConstraints{}, nil)
	require.Len(t, res.Stops, 1)
	assert.Equal(t, "s3", res.Stops[0].ID)
	require.Len(t, res.Dropped, 2)
	for _, d := range res.Dropped {
		assert.Contains(t, d.Reason, "non-finite coordinates")
	}
}

func TestApplyResolvesAddressThroughResolver(t *testing.T) {
	resolver := geo.StaticResolver{
		"12 Pier Rd": {Lat: 1.5, Lng: 2.5},
	}
	stops := []model.Stop{
		{ID: "s1", Name: "Avel", Address: "12 Pier Rd"},
		{ID: "s2", Name: "Bard", Address: "99 Nowhere Ln"},
	}
	res := Apply(context.Background(), stops, model.RouteConstraints{}, resolver)
	require.Len(t, res.Stops, 1)
	require.NotNil(t, res.Stops[0].Location)
	assert.Equal(t, 1.5, res.Stops[0].Location.Lat)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, "s2", res.Dropped[0].StopID)
}

func TestApplyChainWindowExcludesVisitDate(t *testing.T) {
	visit := time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC) // 20:00
	cons := model.RouteConstraints{
		VisitDate: visit,
		TimeWindows: map[string]model.TimeWindow{
			"A": {Start: "08:00", End: "17:00"},
		},
	}
	a := locStop("s1", "Avel", 0, 0)
	a.Chain = "A"
	b := locStop("s2", "Bard", 0, 0.01)
	b.Chain = "B"

	res := Apply(context.Background(), []model.Stop{a, b}, cons, nil)
	require.Len(t, res.Stops, 1)
	assert.Equal(t, "s2", res.Stops[0].ID)
	require.Len(t, res.Dropped, 1)
	assert.Contains(t, res.Dropped[0].Reason, "time window")
}

func TestApplyRelaxWindowsKeepsEverything(t *testing.T) {
	visit := time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC)
	cons := model.RouteConstraints{
		VisitDate:    visit,
		RelaxWindows: true,
		TimeWindows: map[string]model.TimeWindow{
			"A": {Start: "08:00", End: "17:00"},
		},
	}
	a := locStop("s1", "Avel", 0, 0)
	a.Chain = "A"
	res := Apply(context.Background(), []model.Stop{a}, cons, nil)
	assert.Len(t, res.Stops, 1)
	assert.Empty(t, res.Dropped)
}

func TestApplyStopWindowCheckedWhenChainHasNone(t *testing.T) {
	visit := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC) // 06:00
	a := locStop("s1", "Avel", 0, 0)
	a.Window = &model.TimeWindow{Start: "09:00", End: "18:00"}
	res := Apply(context.Background(), []model.Stop{a}, model.RouteConstraints{VisitDate: visit}, nil)
	assert.Empty(t, res.Stops)
	require.Len(t, res.Dropped, 1)
}

func TestApplyZeroVisitDateSkipsWindows(t *testing.T) {
	a := locStop("s1", "Avel", 0, 0)
	a.Window = &model.TimeWindow{Start: "09:00", End: "09:01"}
	res := Apply(context.Background(), []model.Stop{a}, model.RouteConstraints{}, nil)
	assert.Len(t, res.Stops, 1)
}

func TestApplyTruncatesByWeightedPriority(t *testing.T) {
	mk := func(id, name, chain string, prio int) model.Stop {
		s := locStop(id, name, 0, 0)
		s.Chain = chain
		s.Priority = prio
		return s
	}
	cons := model.RouteConstraints{
		MaxStores:       2,
		PriorityWeights: map[string]float64{"A": 3},
	}
	stops := []model.Stop{
		mk("a1", "Avel One", "A", 5),  // weighted 15
		mk("b1", "Bard One", "B", 9),  // weighted 9
		mk("a2", "Avel Two", "A", 5),  // weighted 15
		mk("b2", "Bard Two", "B", 10), // weighted 10
	}
	res := Apply(context.Background(), stops, cons, nil)
	require.Len(t, res.Stops, 2)
	assert.ElementsMatch(t, []string{"a1", "a2"}, []string{res.Stops[0].ID, res.Stops[1].ID})
	require.Len(t, res.Dropped, 2)
	for _, d := range res.Dropped {
		assert.Contains(t, d.Reason, "maxStores")
	}
}

func TestApplyTruncationDeterministicOnTies(t *testing.T) {
	mk := func(id, name string) model.Stop {
		s := locStop(id, name, 0, 0)
		s.Priority = 5
		return s
	}
	stops := []model.Stop{mk("s3", "Crest"), mk("s1", "Avel"), mk("s2", "Bard")}
	cons := model.RouteConstraints{MaxStores: 2}
	for i := 0; i < 5; i++ {
		res := Apply(context.Background(), stops, cons, nil)
		require.Len(t, res.Stops, 2)
		assert.Equal(t, "s1", res.Stops[0].ID)
		assert.Equal(t, "s2", res.Stops[1].ID)
	}
}
