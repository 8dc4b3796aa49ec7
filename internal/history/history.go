// Package history records per-run optimization telemetry. Routes themselves
// are persisted (or not) by an external collaborator; this store only keeps
// what happened to each run.
package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Record is one finished optimization run.
type Record struct {
	RunID       string
	Algorithm   string
	Mode        string
	StopCount   int
	Score       float64
	DurationMs  int64
	Fallback    bool
	CompletedAt time.Time
}

// RunStore is the run-history interface. Implementations: Memory, Postgres.
type RunStore interface {
	RecordRun(ctx context.Context, rec Record) error
	ListRuns(ctx context.Context, limit int) ([]Record, error)
}

// Memory keeps run history in process. Default when no DATABASE_URL is set.
type Memory struct {
	mu   sync.Mutex
	runs []Record
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) RecordRun(_ context.Context, rec Record) error {
	m.mu.Lock()
	m.runs = append(m.runs, rec)
	m.mu.Unlock()
	return nil
}

func (m *Memory) ListRuns(_ context.Context, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]Record(nil), m.runs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
