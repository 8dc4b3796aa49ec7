package opt

import (
	"sync"

	"routewise/internal/model"
)

type runKey struct {
	RunID string
	Algo  string
}

var (
	mu    sync.Mutex
	store = map[runKey]model.Metrics{}
)

// RecordMetrics keeps the telemetry of a finished run available in-process
// for diagnostics endpoints and comparisons across algorithms.
func RecordMetrics(runID, algo string, m model.Metrics) {
	mu.Lock()
	store[runKey{RunID: runID, Algo: algo}] = m
	mu.Unlock()
}

// GetMetrics returns all recorded metrics for a run keyed by algorithm.
func GetMetrics(runID string) map[string]model.Metrics {
	mu.Lock()
	defer mu.Unlock()
	out := map[string]model.Metrics{}
	for k, v := range store {
		if k.RunID == runID {
			out[k.Algo] = v
		}
	}
	return out
}
