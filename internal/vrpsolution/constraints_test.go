package vrpsolution

import (
	"testing"

	"vrpengine/internal/vrpmodel"
)

func TestInsertIntoRouteRejectsCapacityOverflow(t *testing.T) {
	start := coord(0, 0)
	in := buildInput(t, &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Service: 30, Delivery: vrpmodel.Amount{8}},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{ID: 100, Start: &start, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1, Capacity: vrpmodel.Amount{5}},
		},
	})
	r := NewRoute(vrpmodel.VehicleRank(0))
	trial := InsertIntoRoute(in, &r, 0, 0)
	if trial.Feasible {
		t.Fatalf("expected inserting an 8-unit job onto a 5-unit-capacity vehicle to be infeasible")
	}
}

func TestInsertIntoRouteRejectsUnmetSkill(t *testing.T) {
	start := coord(0, 0)
	in := buildInput(t, &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Skills: []uint64{7}},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{ID: 100, Start: &start, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1},
		},
	})
	r := NewRoute(vrpmodel.VehicleRank(0))
	trial := InsertIntoRoute(in, &r, 0, 0)
	if trial.Feasible {
		t.Fatalf("expected inserting a job requiring an unheld skill to be infeasible")
	}
}

func TestInsertShipmentIntoRouteRequiresPickupBeforeDelivery(t *testing.T) {
	start := coord(0, 0)
	in := buildInput(t, &vrpmodel.Builder{
		Shipments: []vrpmodel.RawShipment{
			{
				Pickup:   vrpmodel.RawJob{ID: 1, Location: coord(0, 0.01)},
				Delivery: vrpmodel.RawJob{ID: 2, Location: coord(0, 0.02)},
				Amount:   vrpmodel.Amount{1},
			},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{ID: 100, Start: &start, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1, Capacity: vrpmodel.Amount{5}},
		},
	})
	r := NewRoute(vrpmodel.VehicleRank(0))

	backwards := InsertShipmentIntoRoute(in, &r, 1, 0, 0, 1)
	if backwards.Feasible {
		t.Fatalf("delivery position at or before pickup position must be rejected")
	}

	forward := InsertShipmentIntoRoute(in, &r, 0, 1, 0, 1)
	if !forward.Feasible {
		t.Fatalf("expected a valid pickup-before-delivery placement to be feasible")
	}
	if len(forward.Route.Stops) != 2 || forward.Route.Stops[0] != 0 || forward.Route.Stops[1] != 1 {
		t.Fatalf("expected stops [pickup delivery], got %v", forward.Route.Stops)
	}
}

func TestRemoveFromRouteDropsOnlyTheGivenJob(t *testing.T) {
	start := coord(0, 0)
	in := buildInput(t, &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Service: 30},
			{ID: 2, Location: coord(0, 0.02), Service: 30},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{ID: 100, Start: &start, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1},
		},
	})
	r := NewRoute(vrpmodel.VehicleRank(0))
	r.Stops = []vrpmodel.JobRank{0, 1}
	Recompute(in, &r)

	after := RemoveFromRoute(in, &r, 0)
	if len(after.Stops) != 1 || after.Stops[0] != 1 {
		t.Fatalf("expected only job 0 removed, got %v", after.Stops)
	}
}

func TestInsertIntoRouteRejectsMaxTasksOverflow(t *testing.T) {
	start := coord(0, 0)
	maxTasks := 1
	in := buildInput(t, &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Service: 30},
			{ID: 2, Location: coord(0, 0.02), Service: 30},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{ID: 100, Start: &start, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1, MaxTasks: &maxTasks},
		},
	})
	r := NewRoute(vrpmodel.VehicleRank(0))
	trial := InsertIntoRoute(in, &r, 0, 0)
	if !trial.Feasible {
		t.Fatalf("first job must fit within max_tasks=1")
	}
	second := InsertIntoRoute(in, &trial.Route, 1, 1)
	if second.Feasible {
		t.Fatalf("a second job must be rejected once max_tasks=1 is already met")
	}
}

