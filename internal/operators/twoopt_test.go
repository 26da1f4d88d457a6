package operators

import (
	"context"
	"testing"

	"vrpengine/internal/config"
	"vrpengine/internal/oracle"
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// twoOptFixture gives vehicle 0 jobs [0,1] and vehicle 1 jobs [2,3], far
// enough apart that any splice between the two routes stays feasible.
func twoOptFixture(t *testing.T) *vrpsolution.Solution {
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

// TestGenerateTwoOptCrossesRouteBoundary checks that GenerateTwoOpt
// proposes the inter-route tail swap at i=1,j=1, which moves job rank 1
// onto route 1 and job rank 3 onto route 0 (tail order is checked by
// TestGenerateTwoOptNeverReversesEitherTail).
func TestGenerateTwoOptCrossesRouteBoundary(t *testing.T) {
	s := twoOptFixture(t)
	moves := GenerateTwoOpt(s)
	if len(moves) == 0 {
		t.Fatalf("expected at least one two-opt candidate")
	}

	var sawCrossing bool
	for _, m := range moves {
		if m.Kind != TwoOpt {
			continue
		}
		probe := s.Clone()
		m.Apply(probe)
		// A cut at i=1,j=1 swaps route 0's tail [1] with route 1's tail
		// [3], giving routes [0,3] and [2,1] — job 1 now on route 1 and
		// job 3 now on route 0, each still in forward (unreversed) order
		// relative to the rest of its new route.
		if seqContains(probe.Routes[1].Stops, 2, 1) && seqContains(probe.Routes[0].Stops, 0, 3) {
			sawCrossing = true
		}
	}
	if !sawCrossing {
		t.Fatalf("expected GenerateTwoOpt to propose the tail swap at i=1,j=1")
	}
}

// TestGenerateTwoOptNeverReversesEitherTail confirms every candidate
// keeps each swapped tail in its original relative order: no adjacent
// pair from either donor route ever shows up reversed in the result.
func TestGenerateTwoOptNeverReversesEitherTail(t *testing.T) {
	s := twoOptFixture(t)
	for _, m := range GenerateTwoOpt(s) {
		if m.Kind != TwoOpt {
			continue
		}
		probe := s.Clone()
		m.Apply(probe)
		for _, r := range probe.Routes {
			if seqContains(r.Stops, 1, 0) {
				t.Fatalf("route 0's tail came back reversed: %v", r.Stops)
			}
			if seqContains(r.Stops, 3, 2) {
				t.Fatalf("route 1's tail came back reversed: %v", r.Stops)
			}
		}
	}
}

// TestGenerateReverseTwoOptReversesExactlyOneTail confirms each
// candidate reverses route A's incoming tail (formerly route B's) but
// leaves route B's incoming tail (formerly route A's) in its original
// order — "as above but one tail reversed", not both.
func TestGenerateReverseTwoOptReversesExactlyOneTail(t *testing.T) {
	s := twoOptFixture(t)
	moves := GenerateReverseTwoOpt(s)
	if len(moves) == 0 {
		t.Fatalf("expected at least one reverse-two-opt candidate")
	}
	var sawAReversed bool
	for _, m := range moves {
		if m.Kind != ReverseTwoOpt {
			continue
		}
		probe := s.Clone()
		m.Apply(probe)
		// Route B's incoming tail is a suffix of route A's [0,1] and must
		// keep its forward order in every candidate.
		if seqContains(probe.Routes[1].Stops, 1, 0) {
			t.Fatalf("route B's incoming tail came back reversed too: %v", probe.Routes[1].Stops)
		}
		// The length-2 cut i=0,j=0 gives route A reversedCopy of [2,3],
		// i.e. [3,2] (route A's incoming tail reversed).
		if seqContains(probe.Routes[0].Stops, 3, 2) {
			sawAReversed = true
		}
	}
	if !sawAReversed {
		t.Fatalf("expected a candidate whose route A receives route B's tail reversed")
	}
}

// TestGenerateIntraTwoOptStaysWithinOneRoute checks every candidate
// reverses a sub-sequence within a single route and never touches any
// other route.
func TestGenerateIntraTwoOptStaysWithinOneRoute(t *testing.T) {
	s := twoOptFixture(t)
	moves := GenerateIntraTwoOpt(s)
	for _, m := range moves {
		if m.Kind != IntraTwoOpt {
			continue
		}
		probe := s.Clone()
		before := make([][]vrpmodel.JobRank, len(probe.Routes))
		for v := range probe.Routes {
			before[v] = append([]vrpmodel.JobRank(nil), probe.Routes[v].Stops...)
		}
		m.Apply(probe)
		touched := 0
		for v := range probe.Routes {
			after := probe.Routes[v].Stops
			if len(before[v]) != len(after) {
				touched++
				continue
			}
			for i := range before[v] {
				if before[v][i] != after[i] {
					touched++
					break
				}
			}
		}
		if touched != 1 {
			t.Fatalf("IntraTwoOpt must touch exactly one route, touched %d", touched)
		}
	}
}
