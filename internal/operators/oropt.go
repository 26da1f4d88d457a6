package operators

import (
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

const maxOrOptChain = 3

// GenerateOrOpt proposes relocating a chain of 2-3 consecutive single
// jobs, in forward or reversed order, to a new position in any route,
// including a different route than the one it currently occupies.
func GenerateOrOpt(s *vrpsolution.Solution) []Move {
	return orOptMoves(s, OrOpt, true)
}

// GenerateIntraOrOpt is GenerateOrOpt restricted to the chain's own
// route — a smaller neighborhood; internal/search's localSearch
// evaluates it alongside every other kind on each descent pass.
func GenerateIntraOrOpt(s *vrpsolution.Solution) []Move {
	return orOptMoves(s, IntraOrOpt, false)
}

func orOptMoves(s *vrpsolution.Solution, kind Kind, crossRoute bool) []Move {
	var moves []Move
	for vFrom := range s.Routes {
		stops := s.Routes[vFrom].Stops
		for length := 2; length <= maxOrOptChain; length++ {
			for start := 0; start+length <= len(stops); start++ {
				chain := stops[start : start+length]
				if !allSingles(s, chain) {
					continue
				}
				moves = append(moves, orOptCandidates(s, vrpmodel.VehicleRank(vFrom), start, length, kind, crossRoute)...)
			}
		}
	}
	return moves
}

func allSingles(s *vrpsolution.Solution, chain []vrpmodel.JobRank) bool {
	for _, j := range chain {
		if s.Pinned[j] || s.Input.JobByRank(j).IsShipmentHalf() {
			return false
		}
	}
	return true
}

func orOptCandidates(s *vrpsolution.Solution, vFrom vrpmodel.VehicleRank, start, length int, kind Kind, crossRoute bool) []Move {
	in := s.Input
	stops := s.Routes[vFrom].Stops
	chain := append([]vrpmodel.JobRank(nil), stops[start:start+length]...)

	remaining := make([]vrpmodel.JobRank, 0, len(stops)-length)
	remaining = append(remaining, stops[:start]...)
	remaining = append(remaining, stops[start+length:]...)

	removedTrial := vrpsolution.TryReorder(in, &s.Routes[vFrom], remaining)
	if !removedTrial.Feasible {
		return nil
	}
	beforeFrom, _ := vrpsolution.TravelCost(in, &s.Routes[vFrom])
	afterFromRemoval, ok := vrpsolution.TravelCost(in, &removedTrial.Route)
	if !ok {
		return nil
	}
	removalDelta := afterFromRemoval - beforeFrom

	var moves []Move
	vehicles := []vrpmodel.VehicleRank{vFrom}
	if crossRoute {
		vehicles = allVehicleRanks(s)
	}
	for _, vTo := range vehicles {
		if !chainCompatible(in, vTo, chain) {
			continue
		}
		base := &removedTrial.Route
		if vTo != vFrom {
			base = &s.Routes[vTo]
		}
		for pos := 0; pos <= len(base.Stops); pos++ {
			for _, reversed := range chainOrientations(chain) {
				trial := insertChain(in, base, pos, chain, reversed)
				if !trial.Feasible {
					continue
				}
				delta := trial.DeltaCost + removalDelta
				mFrom, mTo := vFrom, vTo
				newFrom, newTo := removedTrial.Route, trial.Route
				moves = append(moves, Move{
					Kind:      kind,
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

func allVehicleRanks(s *vrpsolution.Solution) []vrpmodel.VehicleRank {
	out := make([]vrpmodel.VehicleRank, len(s.Routes))
	for i := range out {
		out[i] = vrpmodel.VehicleRank(i)
	}
	return out
}

func chainCompatible(in *vrpmodel.Input, v vrpmodel.VehicleRank, chain []vrpmodel.JobRank) bool {
	for _, j := range chain {
		if !in.VehicleJobCompat[v][j] {
			return false
		}
	}
	return true
}

// chainOrientations returns the set of orientations worth trying for a
// chain of the given length: forward only for a single job (reversing
// it is a no-op), forward and reversed otherwise (spec.md §4.5, Or-opt
// relocates a chain "optionally reversed on insertion").
func chainOrientations(chain []vrpmodel.JobRank) []bool {
	if len(chain) < 2 {
		return []bool{false}
	}
	return []bool{false, true}
}

func reverseChain(chain []vrpmodel.JobRank) []vrpmodel.JobRank {
	out := make([]vrpmodel.JobRank, len(chain))
	for i, j := range chain {
		out[len(chain)-1-i] = j
	}
	return out
}

// insertChain inserts chain (or its reverse, if reversed is set) as a
// contiguous block at pos, by repeated single-job trials chained
// against each other's result route.
func insertChain(in *vrpmodel.Input, base *vrpsolution.Route, pos int, chain []vrpmodel.JobRank, reversed bool) vrpsolution.InsertionTrial {
	if reversed {
		chain = reverseChain(chain)
	}
	cur := base
	before, _ := vrpsolution.TravelCost(in, base)
	var last vrpsolution.InsertionTrial
	for i, job := range chain {
		last = vrpsolution.InsertIntoRoute(in, cur, pos+i, job)
		if !last.Feasible {
			return vrpsolution.InsertionTrial{Feasible: false}
		}
		cur = &last.Route
	}
	after, ok := vrpsolution.TravelCost(in, cur)
	if !ok {
		return vrpsolution.InsertionTrial{Feasible: false}
	}
	return vrpsolution.InsertionTrial{Route: *cur, DeltaCost: after - before, Feasible: true}
}
