package construct

import (
	"testing"

	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

func TestPlaceForcedPinsJobToItsVehicle(t *testing.T) {
	s1 := coord(0, 0)
	in := buildInput(t, &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Service: 30},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{
				ID: 100, Start: &s1, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1,
				ForcedSteps: []vrpmodel.RawForcedStep{{Kind: vrpmodel.StepJob, JobID: 1}},
			},
		},
	})
	s := vrpsolution.NewSolution(in)
	if err := PlaceForced(s); err != nil {
		t.Fatalf("PlaceForced: %v", err)
	}
	if !s.Pinned[0] {
		t.Fatalf("forced job must be marked Pinned")
	}
	if s.Unassigned[0] {
		t.Fatalf("forced job must not be left unassigned")
	}
	if len(s.Routes[0].Stops) != 1 || s.Routes[0].Stops[0] != 0 {
		t.Fatalf("forced job must be placed on its vehicle's route, got %v", s.Routes[0].Stops)
	}
}

func TestPlaceForcedKeepsShipmentHalvesAdjacent(t *testing.T) {
	s1 := coord(0, 0)
	in := buildInput(t, &vrpmodel.Builder{
		Shipments: []vrpmodel.RawShipment{
			{
				Pickup:   vrpmodel.RawJob{ID: 1, Location: coord(0, 0.01)},
				Delivery: vrpmodel.RawJob{ID: 2, Location: coord(0, 0.02)},
				Amount:   vrpmodel.Amount{1},
			},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{
				ID: 100, Start: &s1, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1,
				Capacity: vrpmodel.Amount{5},
				ForcedSteps: []vrpmodel.RawForcedStep{
					{Kind: vrpmodel.StepPickup, JobID: 1},
					{Kind: vrpmodel.StepDelivery, JobID: 2},
				},
			},
		},
	})
	s := vrpsolution.NewSolution(in)
	if err := PlaceForced(s); err != nil {
		t.Fatalf("PlaceForced: %v", err)
	}
	stops := s.Routes[0].Stops
	if len(stops) != 2 {
		t.Fatalf("expected both shipment halves placed, got %v", stops)
	}
	pickupRank := in.JobByRank(stops[0])
	if pickupRank.Kind != vrpmodel.JobPickup {
		t.Fatalf("pickup must precede delivery in the forced sequence, got kind %v first", pickupRank.Kind)
	}
	if !s.Pinned[stops[0]] || !s.Pinned[stops[1]] {
		t.Fatalf("both shipment halves must be pinned")
	}
}

func TestPlaceForcedRejectsImpossiblePlacement(t *testing.T) {
	s1 := coord(0, 0)
	in := buildInput(t, &vrpmodel.Builder{
		Jobs: []vrpmodel.RawJob{
			{ID: 1, Location: coord(0, 0.01), Skills: []uint64{99}},
		},
		Vehicles: []vrpmodel.RawVehicle{
			{
				ID: 100, Start: &s1, TimeWindow: [2]uint64{0, 100000}, SpeedFactor: 1,
				ForcedSteps: []vrpmodel.RawForcedStep{{Kind: vrpmodel.StepJob, JobID: 1}},
			},
		},
	})
	s := vrpsolution.NewSolution(in)
	err := PlaceForced(s)
	if err == nil {
		t.Fatalf("expected an error forcing a job the vehicle lacks skills for")
	}
}
