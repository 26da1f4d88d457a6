package operators

import (
	"context"
	"testing"

	"vrpengine/internal/config"
	"vrpengine/internal/oracle"
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

func coord(lon, lat float64) vrpmodel.RawLocation {
	return vrpmodel.RawLocation{Lon: &lon, Lat: &lat}
}

// twoJobSolution builds a Solution with jobs 0 and 1 both already placed
// on vehicle 0's route, job 0 marked Pinned (as construct.PlaceForced
// would do for a forced step), ready to feed any generator.
func twoJobSolution(t *testing.T) *vrpsolution.Solution {
	t.Helper()
	s1 := coord(0, 0)
	b := &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Service: 30},
			{ID: 2, Location: coord(0, 0.02), Service: 30},
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
	trial := vrpsolution.InsertIntoRoute(in, &s.Routes[0], 0, 0)
	if !trial.Feasible {
		t.Fatalf("setup: inserting job 0 must be feasible")
	}
	s.Routes[0] = trial.Route
	s.Unassigned[0] = false
	trial = vrpsolution.InsertIntoRoute(in, &s.Routes[0], 1, 1)
	if !trial.Feasible {
		t.Fatalf("setup: inserting job 1 must be feasible")
	}
	s.Routes[0] = trial.Route
	s.Unassigned[1] = false
	s.Pinned[0] = true
	return s
}

func TestGenerateRelocateExcludesPinnedJob(t *testing.T) {
	s := twoJobSolution(t)
	moves := GenerateRelocate(s)
	if len(moves) == 0 {
		t.Fatalf("expected Relocate to propose moving the unpinned job 1 somewhere")
	}
	for _, m := range moves {
		probe := s.Clone()
		m.Apply(probe)
		if rank, _, ok := probe.RouteOf(0); ok && rank != 0 {
			t.Fatalf("a pinned job moved to a different vehicle via Relocate")
		}
	}
}

func TestGenerateExchangeExcludesPinnedJob(t *testing.T) {
	s1 := coord(0, 0)
	b := &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Service: 30}, // rank 0, pinned below
			{ID: 2, Location: coord(0, 0.02), Service: 30}, // rank 1, on vehicle 0
			{ID: 3, Location: coord(0, 0.03), Service: 30}, // rank 2, on vehicle 1
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
	place := func(v, pos int, job vrpmodel.JobRank) {
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
	s.Pinned[0] = true

	moves := GenerateExchange(s)
	if len(moves) == 0 {
		t.Fatalf("expected Exchange to propose swapping job1 and job2")
	}
	for _, m := range moves {
		probe := s.Clone()
		m.Apply(probe)
		if rank, _, ok := probe.RouteOf(0); ok && rank != 0 {
			t.Fatalf("a pinned job moved to a different vehicle via Exchange")
		}
	}
}

func TestGenerateUnassignOnNeedExcludesPinnedJob(t *testing.T) {
	s := twoJobSolution(t)
	for _, m := range GenerateUnassignOnNeed(s) {
		if m.Kind != UnassignOnNeed {
			continue
		}
		probe := s.Clone()
		m.Apply(probe)
		if probe.Unassigned[0] {
			t.Fatalf("a pinned job was unassigned by UnassignOnNeed")
		}
	}
}

func TestGenerateIntraTwoOptRejectsSegmentWithMultiplePinned(t *testing.T) {
	s := twoJobSolution(t)
	s.Pinned[1] = true // both jobs on route 0 are now pinned
	for _, m := range GenerateIntraTwoOpt(s) {
		probe := s.Clone()
		before := append([]vrpmodel.JobRank(nil), probe.Routes[0].Stops...)
		m.Apply(probe)
		after := probe.Routes[0].Stops
		if len(before) == len(after) && len(before) >= 2 {
			if before[0] != after[0] || before[1] != after[1] {
				t.Fatalf("reordered a segment containing two pinned jobs")
			}
		}
	}
}
