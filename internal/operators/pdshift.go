package operators

import (
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// GeneratePDShift proposes relocating a shipment's pickup and delivery
// together to a new (vehicle, position, position) pair, preserving
// pickup-before-delivery, including to a different route than the one
// the pair currently occupies. This is Relocate's shipment-aware
// counterpart (spec.md §3: shipment halves never move independently).
func GeneratePDShift(s *vrpsolution.Solution) []Move {
	in := s.Input
	var moves []Move
	seen := map[vrpmodel.JobRank]bool{}
	for vFrom := range s.Routes {
		for _, job := range s.Routes[vFrom].Stops {
			j := in.JobByRank(job)
			if j.Kind != vrpmodel.JobPickup || seen[job] || s.Pinned[job] {
				continue
			}
			seen[job] = true
			moves = append(moves, pdShiftCandidates(s, vrpmodel.VehicleRank(vFrom), job, j.Partner)...)
		}
	}
	return moves
}

func pdShiftCandidates(s *vrpsolution.Solution, vFrom vrpmodel.VehicleRank, pickup, delivery vrpmodel.JobRank) []Move {
	in := s.Input
	withoutPickup := vrpsolution.RemoveFromRoute(in, &s.Routes[vFrom], pickup)
	if !withoutPickup.Feasible {
		return nil
	}
	withoutBoth := vrpsolution.RemoveFromRoute(in, &withoutPickup, delivery)
	if !withoutBoth.Feasible {
		return nil
	}
	beforeFrom, _ := vrpsolution.TravelCost(in, &s.Routes[vFrom])
	afterRemoval, ok := vrpsolution.TravelCost(in, &withoutBoth)
	if !ok {
		return nil
	}
	removalDelta := afterRemoval - beforeFrom

	var moves []Move
	for vTo := range s.Routes {
		vr := vrpmodel.VehicleRank(vTo)
		if !in.VehicleJobCompat[vTo][pickup] || !in.VehicleJobCompat[vTo][delivery] {
			continue
		}
		base := &withoutBoth
		if vr != vFrom {
			base = &s.Routes[vTo]
		}
		n := len(base.Stops)
		for posP := 0; posP <= n; posP++ {
			for posD := posP + 1; posD <= n+1; posD++ {
				trial := vrpsolution.InsertShipmentIntoRoute(in, base, posP, posD, pickup, delivery)
				if !trial.Feasible {
					continue
				}
				delta := trial.DeltaCost + removalDelta
				mFrom, mTo := vFrom, vr
				newFrom, newTo := withoutBoth, trial.Route
				moves = append(moves, Move{
					Kind:      PDShift,
					DeltaCost: delta,
					apply: func(s *vrpsolution.Solution) {
						if mFrom == mTo {
							s.Routes[mFrom] = newTo
							return
						}
						s.Routes[mFrom] = newFrom
						s.Routes[mTo] = newTo
					},
				})
			}
		}
	}
	return moves
}
