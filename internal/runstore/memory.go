package runstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process Store, useful for tests and single-process
// deployments that don't want a Postgres dependency.
type Memory struct {
	mu      sync.Mutex
	runs    map[string]RunRecord
	weights map[string][]WeightSnapshot
	order   []string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{runs: map[string]RunRecord{}, weights: map[string][]WeightSnapshot{}}
}

func (m *Memory) SaveRun(ctx context.Context, r RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.runs[r.RunID]; !exists {
		m.order = append(m.order, r.RunID)
	}
	m.runs[r.RunID] = r
	return nil
}

func (m *Memory) GetRun(ctx context.Context, runID string) (RunRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	return r, ok, nil
}

func (m *Memory) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RunRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.runs[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) SaveWeightTrace(ctx context.Context, runID string, snaps []WeightSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[runID]; !ok {
		return fmt.Errorf("runstore: unknown run %q", runID)
	}
	m.weights[runID] = append([]WeightSnapshot(nil), snaps...)
	return nil
}

func (m *Memory) GetWeightTrace(ctx context.Context, runID string) ([]WeightSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.weights[runID], nil
}
