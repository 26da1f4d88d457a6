package operators

import (
	"vrpengine/internal/config"
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// GeneratePriorityReplace proposes evicting an assigned single job in
// favor of a currently unassigned single job of strictly higher
// priority, in the evicted job's old route. This is the operator that
// lets the search directly attack the objective's unassigned-priority
// term (spec.md §4.1) rather than waiting for capacity/time-window
// slack to free up on its own.
func GeneratePriorityReplace(s *vrpsolution.Solution) []Move {
	in := s.Input
	weight := config.Current().PriorityWeight
	var moves []Move

	var unassignedSingles []vrpmodel.JobRank
	for rank, unassigned := range s.Unassigned {
		if unassigned && in.JobByRank(vrpmodel.JobRank(rank)).Kind == vrpmodel.JobSingle {
			unassignedSingles = append(unassignedSingles, vrpmodel.JobRank(rank))
		}
	}
	if len(unassignedSingles) == 0 {
		return nil
	}

	for v := range s.Routes {
		stops := s.Routes[v].Stops
		for pos, assigned := range stops {
			if s.Pinned[assigned] {
				continue
			}
			aj := in.JobByRank(assigned)
			if aj.IsShipmentHalf() {
				continue
			}
			for _, u := range unassignedSingles {
				uj := in.JobByRank(u)
				if uj.Priority <= aj.Priority {
					continue
				}
				if !in.VehicleJobCompat[v][u] {
					continue
				}
				mv := priorityReplaceMove(s, vrpmodel.VehicleRank(v), pos, assigned, u, weight)
				if mv != nil {
					moves = append(moves, *mv)
				}
			}
		}
	}
	return moves
}

func priorityReplaceMove(s *vrpsolution.Solution, v vrpmodel.VehicleRank, pos int, evicted, replacement vrpmodel.JobRank, priorityWeight int64) *Move {
	in := s.Input
	removed := vrpsolution.RemoveFromRoute(in, &s.Routes[v], evicted)
	if !removed.Feasible {
		return nil
	}
	trial := vrpsolution.InsertIntoRoute(in, &removed, pos, replacement)
	if !trial.Feasible {
		return nil
	}

	before, _ := vrpsolution.TravelCost(in, &s.Routes[v])
	after, ok := vrpsolution.TravelCost(in, &trial.Route)
	if !ok {
		return nil
	}
	travelDelta := after - before
	priorityDelta := priorityWeight * int64(in.JobByRank(evicted).Priority-in.JobByRank(replacement).Priority)

	newRoute := trial.Route
	return &Move{
		Kind:      PriorityReplace,
		DeltaCost: travelDelta + priorityDelta,
		apply: func(s *vrpsolution.Solution) {
			s.Routes[v] = newRoute
			s.Unassigned[evicted] = true
			s.Unassigned[replacement] = false
		},
	}
}

// GenerateUnassignOnNeed proposes dropping a single assigned job back
// to Unassigned with no replacement. Its delta is the job's priority
// weight plus the (negative) travel change of the removal, so it is
// cost-increasing unless the travel saved exceeds the priority term,
// and always negative for a priority-0 job. internal/search's
// localSearch does not apply this kind.
func GenerateUnassignOnNeed(s *vrpsolution.Solution) []Move {
	in := s.Input
	weight := config.Current().PriorityWeight
	var moves []Move
	for v := range s.Routes {
		for _, job := range s.Routes[v].Stops {
			if s.Pinned[job] {
				continue
			}
			j := in.JobByRank(job)
			if j.IsShipmentHalf() {
				continue
			}
			mv := unassignMove(s, vrpmodel.VehicleRank(v), job, weight)
			if mv != nil {
				moves = append(moves, *mv)
			}
		}
	}
	return moves
}

func unassignMove(s *vrpsolution.Solution, v vrpmodel.VehicleRank, job vrpmodel.JobRank, priorityWeight int64) *Move {
	in := s.Input
	removed := vrpsolution.RemoveFromRoute(in, &s.Routes[v], job)
	if !removed.Feasible {
		return nil
	}
	before, _ := vrpsolution.TravelCost(in, &s.Routes[v])
	after, ok := vrpsolution.TravelCost(in, &removed)
	if !ok {
		return nil
	}
	delta := (after - before) + priorityWeight*int64(in.JobByRank(job).Priority)
	return &Move{
		Kind:      UnassignOnNeed,
		DeltaCost: delta,
		apply: func(s *vrpsolution.Solution) {
			s.Routes[v] = removed
			s.Unassigned[job] = true
		},
	}
}
