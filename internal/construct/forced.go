package construct

import (
	"fmt"

	"vrpengine/internal/vrperrors"
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// PlaceForced seeds s with every vehicle's forced-step jobs (spec.md §6
// VehicleStep) before regular construction runs, appending each
// vehicle's vrpmodel.Input.ForcedByVehicle sequence onto its otherwise
// empty route in the order the input declared it and marking every
// placed job Pinned. Later ruin/insertion/local-search never touches a
// Pinned job (internal/search's ruin.go and internal/operators' move
// generators all check it), so the relative order and vehicle chosen
// here survive for the rest of the run.
//
// PlaceForced must run before any other placement — it assumes every
// forced job is still unassigned, which only holds on a freshly
// constructed Solution.
func PlaceForced(s *vrpsolution.Solution) error {
	in := s.Input
	for vi, seq := range in.ForcedByVehicle {
		if len(seq) == 0 {
			continue
		}
		vrank := vrpmodel.VehicleRank(vi)
		i := 0
		for i < len(seq) {
			job := seq[i]
			j := in.JobByRank(job)
			if j.Kind == vrpmodel.JobPickup && i+1 < len(seq) && seq[i+1] == j.Partner {
				pos := len(s.Routes[vrank].Stops)
				trial := vrpsolution.InsertShipmentIntoRoute(in, &s.Routes[vrank], pos, pos+1, job, j.Partner)
				if !trial.Feasible {
					return vrperrors.NewInputError("vehicle.steps", fmt.Sprintf("forced shipment (job id %d) cannot be scheduled on vehicle id %d", j.ID, in.VehicleByRank(vrank).ID))
				}
				s.Routes[vrank] = trial.Route
				s.Unassigned[job] = false
				s.Unassigned[j.Partner] = false
				s.Pinned[job] = true
				s.Pinned[j.Partner] = true
				i += 2
				continue
			}
			pos := len(s.Routes[vrank].Stops)
			trial := vrpsolution.InsertIntoRoute(in, &s.Routes[vrank], pos, job)
			if !trial.Feasible {
				return vrperrors.NewInputError("vehicle.steps", fmt.Sprintf("forced job id %d cannot be scheduled on vehicle id %d", j.ID, in.VehicleByRank(vrank).ID))
			}
			s.Routes[vrank] = trial.Route
			s.Unassigned[job] = false
			s.Pinned[job] = true
			i++
		}
	}
	return nil
}
