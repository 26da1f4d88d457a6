package operators

import (
	"context"
	"testing"

	"vrpengine/internal/config"
	"vrpengine/internal/oracle"
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// twoRouteSegmentSolution gives vehicle 0 jobs [0,1] and vehicle 1 jobs
// [2,3], each pair a length-2 segment cross-exchange can swap wholesale.
func twoRouteSegmentSolution(t *testing.T) *vrpsolution.Solution {
	t.Helper()
	s1 := coord(0, 0)
	b := &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Service: 10},
			{ID: 2, Location: coord(0, 0.02), Service: 10},
			{ID: 3, Location: coord(1, 0.01), Service: 10},
			{ID: 4, Location: coord(1, 0.02), Service: 10},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{ID: 100, Start: &s1, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1},
			{ID: 200, Start: &s1, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1},
		},
	}
	in, err := b.Build(context.Background(), &oracle.Haversine{SpeedKph: 50}, config.Defaults)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s := vrpsolution.NewSolution(in)
	place := func(v int, pos int, job vrpmodel.JobRank) {
		trial := vrpsolution.InsertIntoRoute(in, &s.Routes[v], pos, job)
		if !trial.Feasible {
			t.Fatalf("setup: inserting job %d must be feasible", job)
		}
		s.Routes[v] = trial.Route
		s.Unassigned[job] = false
	}
	place(0, 0, 0)
	place(0, 1, 1)
	place(1, 0, 2)
	place(1, 1, 3)
	return s
}

// TestGenerateCrossExchangeTriesReversedSegments checks that, among the
// swaps of route 0's whole [0,1] segment with route 1's whole [2,3]
// segment, at least one candidate lands a segment reversed relative to
// its order on the route it came from — confirming crossExchangeMove's
// revA/revB plumbing actually changes the spliced order, not just the
// route each segment ends up on.
func TestGenerateCrossExchangeTriesReversedSegments(t *testing.T) {
	s := twoRouteSegmentSolution(t)
	moves := GenerateCrossExchange(s)
	if len(moves) == 0 {
		t.Fatalf("expected at least one cross-exchange candidate")
	}

	var sawAForward, sawAReversed, sawBForward, sawBReversed bool
	for _, m := range moves {
		if m.Kind != CrossExchange {
			continue
		}
		probe := s.Clone()
		m.Apply(probe)
		// segment from route 0 ([0,1]) now lives somewhere in route 1.
		if seqContains(probe.Routes[1].Stops, 0, 1) {
			sawAForward = true
		}
		if seqContains(probe.Routes[1].Stops, 1, 0) {
			sawAReversed = true
		}
		// segment from route 1 ([2,3]) now lives somewhere in route 0.
		if seqContains(probe.Routes[0].Stops, 2, 3) {
			sawBForward = true
		}
		if seqContains(probe.Routes[0].Stops, 3, 2) {
			sawBReversed = true
		}
	}
	if !sawAForward || !sawAReversed {
		t.Fatalf("expected route 0's segment to appear both forward and reversed in route 1 (forward=%v reversed=%v)", sawAForward, sawAReversed)
	}
	if !sawBForward || !sawBReversed {
		t.Fatalf("expected route 1's segment to appear both forward and reversed in route 0 (forward=%v reversed=%v)", sawBForward, sawBReversed)
	}
}

func seqContains(stops []vrpmodel.JobRank, a, b vrpmodel.JobRank) bool {
	for i := 0; i+1 < len(stops); i++ {
		if stops[i] == a && stops[i+1] == b {
			return true
		}
	}
	return false
}
