package vrpsolution

import (
	"context"
	"testing"

	"vrpengine/internal/config"
	"vrpengine/internal/oracle"
	"vrpengine/internal/vrpmodel"
)

func coord(lon, lat float64) vrpmodel.RawLocation {
	return vrpmodel.RawLocation{Lon: &lon, Lat: &lat}
}

func buildInput(t *testing.T, b *vrpmodel.Builder) *vrpmodel.Input {
	t.Helper()
	in, err := b.Build(context.Background(), &oracle.Haversine{SpeedKph: 50}, config.Defaults)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return in
}

func twoJobOneVehicle(t *testing.T) *vrpmodel.Input {
	start := coord(0, 0)
	return buildInput(t, &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Service: 60},
			{ID: 2, Location: coord(0, 0.02), Service: 60},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{ID: 100, Start: &start, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1},
		},
	})
}

func TestRecomputeFeasibleMonotonic(t *testing.T) {
	in := twoJobOneVehicle(t)
	r := NewRoute(vrpmodel.VehicleRank(0))
	r.Stops = []vrpmodel.JobRank{0, 1}
	Recompute(in, &r)

	if !r.Feasible {
		t.Fatalf("expected feasible route, got infeasible")
	}
	if r.Earliest[1] < r.Earliest[0] {
		t.Fatalf("Earliest should be non-decreasing: %v", r.Earliest)
	}
	if r.TravelDist[1] < r.TravelDist[0] {
		t.Fatalf("TravelDist should be non-decreasing: %v", r.TravelDist)
	}
	if r.Latest[0] < r.Earliest[0] || r.Latest[1] < r.Earliest[1] {
		t.Fatalf("Latest must never be before Earliest: earliest=%v latest=%v", r.Earliest, r.Latest)
	}
}

func TestRecomputeEmptyRouteIsFeasible(t *testing.T) {
	in := twoJobOneVehicle(t)
	r := NewRoute(vrpmodel.VehicleRank(0))
	Recompute(in, &r)
	if !r.Feasible {
		t.Fatalf("an empty route must always be feasible")
	}
	if !r.Empty() {
		t.Fatalf("expected Empty() true for a route with no stops")
	}
}

func TestRecomputeInfeasibleTimeWindowMissed(t *testing.T) {
	start := coord(0, 0)
	in := buildInput(t, &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 10), Service: 60, TimeWindows: [][2]uint64{{0, 10}}},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{ID: 100, Start: &start, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1},
		},
	})
	r := NewRoute(vrpmodel.VehicleRank(0))
	r.Stops = []vrpmodel.JobRank{0}
	Recompute(in, &r)
	if r.Feasible {
		t.Fatalf("job 10 degrees away cannot be reached by second 10; expected infeasible")
	}
}
