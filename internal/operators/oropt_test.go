package operators

import (
	"context"
	"testing"

	"vrpengine/internal/config"
	"vrpengine/internal/oracle"
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

func TestReverseChainDoesNotMutateInput(t *testing.T) {
	chain := []vrpmodel.JobRank{0, 1, 2}
	reversed := reverseChain(chain)
	if len(reversed) != 3 || reversed[0] != 2 || reversed[1] != 1 || reversed[2] != 0 {
		t.Fatalf("unexpected reversal: %v", reversed)
	}
	if chain[0] != 0 || chain[2] != 2 {
		t.Fatalf("reverseChain mutated its input: %v", chain)
	}
}

func TestChainOrientationsSingleJobHasNoReversal(t *testing.T) {
	if got := chainOrientations([]vrpmodel.JobRank{0}); len(got) != 1 || got[0] != false {
		t.Fatalf("expected a single-job chain to try only forward, got %v", got)
	}
	if got := chainOrientations([]vrpmodel.JobRank{0, 1}); len(got) != 2 {
		t.Fatalf("expected a 2-job chain to try both orientations, got %v", got)
	}
}

// fourJobLineSolution places jobs 0-3 on vehicle 0, in that order, along
// a line of coordinates, with a second empty-but-compatible vehicle 1
// so GenerateOrOpt's cross-route pass has somewhere to propose into.
func fourJobLineSolution(t *testing.T) *vrpsolution.Solution {
	t.Helper()
	s1 := coord(0, 0)
	b := &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Service: 10},
			{ID: 2, Location: coord(0, 0.02), Service: 10},
			{ID: 3, Location: coord(0, 0.03), Service: 10},
			{ID: 4, Location: coord(0, 0.04), Service: 10},
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
	for pos, job := range []vrpmodel.JobRank{0, 1, 2, 3} {
		trial := vrpsolution.InsertIntoRoute(in, &s.Routes[0], pos, job)
		if !trial.Feasible {
			t.Fatalf("setup: inserting job %d must be feasible", job)
		}
		s.Routes[0] = trial.Route
		s.Unassigned[job] = false
	}
	return s
}

// TestGenerateOrOptTriesBothChainOrientations relocates the 2-job chain
// [job1, job2] elsewhere in the route and checks that among the
// candidate moves, the chain appears in its original relative order in
// at least one and reversed in at least one other — i.e. insertChain's
// reversed argument actually reaches the generated candidates, not just
// the forward call every previous version made.
func TestGenerateOrOptTriesBothChainOrientations(t *testing.T) {
	s := fourJobLineSolution(t)
	moves := GenerateIntraOrOpt(s)
	if len(moves) == 0 {
		t.Fatalf("expected at least one Or-opt candidate")
	}

	var sawForward, sawReversed bool
	for _, m := range moves {
		probe := s.Clone()
		m.Apply(probe)
		stops := probe.Routes[0].Stops
		for i := 0; i+1 < len(stops); i++ {
			if stops[i] == 1 && stops[i+1] == 2 {
				sawForward = true
			}
			if stops[i] == 2 && stops[i+1] == 1 {
				sawReversed = true
			}
		}
	}
	if !sawForward {
		t.Fatalf("expected some candidate to keep the chain's original order")
	}
	if !sawReversed {
		t.Fatalf("expected some candidate to insert the chain reversed")
	}
}
