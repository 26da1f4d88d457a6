package runstore

import (
	"context"
	"testing"
	"time"
)

func TestMemorySaveAndGetRun(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	rec := RunRecord{RunID: "run-1", StartedAt: time.Unix(1000, 0), BestObjective: 42}

	if err := m.SaveRun(ctx, rec); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	got, ok, err := m.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !ok {
		t.Fatalf("expected run-1 to exist")
	}
	if got.BestObjective != 42 {
		t.Fatalf("expected BestObjective 42, got %d", got.BestObjective)
	}

	if _, ok, err := m.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing run to come back not-ok, got ok=%v err=%v", ok, err)
	}
}

func TestMemorySaveRunOverwritesWithoutDuplicatingOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_ = m.SaveRun(ctx, RunRecord{RunID: "run-1", StartedAt: time.Unix(1000, 0), BestObjective: 1})
	_ = m.SaveRun(ctx, RunRecord{RunID: "run-1", StartedAt: time.Unix(1000, 0), BestObjective: 2})

	runs, err := m.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run after overwrite, got %d", len(runs))
	}
	if runs[0].BestObjective != 2 {
		t.Fatalf("expected the overwritten value to win, got %d", runs[0].BestObjective)
	}
}

func TestMemoryListRunsOrderedNewestFirstAndLimited(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_ = m.SaveRun(ctx, RunRecord{RunID: "a", StartedAt: time.Unix(1000, 0)})
	_ = m.SaveRun(ctx, RunRecord{RunID: "b", StartedAt: time.Unix(3000, 0)})
	_ = m.SaveRun(ctx, RunRecord{RunID: "c", StartedAt: time.Unix(2000, 0)})

	runs, err := m.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 || runs[0].RunID != "b" || runs[1].RunID != "c" || runs[2].RunID != "a" {
		t.Fatalf("expected newest-first order b,c,a got %v", runIDs(runs))
	}

	limited, err := m.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected limit of 2 runs, got %d", len(limited))
	}
}

func runIDs(runs []RunRecord) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.RunID
	}
	return out
}

func TestMemoryWeightTraceRequiresExistingRun(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	err := m.SaveWeightTrace(ctx, "unknown-run", []WeightSnapshot{{Iteration: 0, Removal: []float64{1}, Insert: []float64{1}}})
	if err == nil {
		t.Fatalf("expected an error saving a weight trace for a run that was never saved")
	}
}

func TestMemoryWeightTraceRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_ = m.SaveRun(ctx, RunRecord{RunID: "run-1", StartedAt: time.Unix(1000, 0)})

	snaps := []WeightSnapshot{
		{Iteration: 0, Removal: []float64{0.5, 0.5}, Insert: []float64{0.5, 0.5}},
		{Iteration: 1, Removal: []float64{0.6, 0.4}, Insert: []float64{0.4, 0.6}},
	}
	if err := m.SaveWeightTrace(ctx, "run-1", snaps); err != nil {
		t.Fatalf("SaveWeightTrace: %v", err)
	}
	got, err := m.GetWeightTrace(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetWeightTrace: %v", err)
	}
	if len(got) != 2 || got[1].Removal[0] != 0.6 {
		t.Fatalf("unexpected weight trace: %+v", got)
	}
}
