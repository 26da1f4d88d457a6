package operators

import (
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

const maxCrossExchangeSegment = 3

// GenerateCrossExchange proposes swapping an interior segment (length
// 1-3) of one route with an interior segment of another route, each
// segment optionally reversed on the way into its new route (spec.md
// §4.5) — distinct from ReverseTwoOpt (which reverses tails) and
// RouteExchange (which swaps whole routes).
func GenerateCrossExchange(s *vrpsolution.Solution) []Move {
	in := s.Input
	var moves []Move
	for va := range s.Routes {
		for vb := va + 1; vb < len(s.Routes); vb++ {
			if !in.VehicleVehicleCompat[va][vb] {
				continue
			}
			stopsA := s.Routes[va].Stops
			stopsB := s.Routes[vb].Stops
			for lenA := 1; lenA <= maxCrossExchangeSegment && lenA <= len(stopsA); lenA++ {
				for i1 := 0; i1+lenA <= len(stopsA); i1++ {
					i2 := i1 + lenA
					if !noSplitAtCut(in, stopsA, i1) || !noSplitAtCut(in, stopsA, i2) {
						continue
					}
					segA := stopsA[i1:i2]
					if tailHasPinned(s, segA) {
						continue
					}
					for lenB := 1; lenB <= maxCrossExchangeSegment && lenB <= len(stopsB); lenB++ {
						for j1 := 0; j1+lenB <= len(stopsB); j1++ {
							j2 := j1 + lenB
							if !noSplitAtCut(in, stopsB, j1) || !noSplitAtCut(in, stopsB, j2) {
								continue
							}
							segB := stopsB[j1:j2]
							if tailHasPinned(s, segB) {
								continue
							}
							if !chainCompatible(in, vrpmodel.VehicleRank(vb), segA) || !chainCompatible(in, vrpmodel.VehicleRank(va), segB) {
								continue
							}
							for _, revA := range chainOrientations(segA) {
								for _, revB := range chainOrientations(segB) {
									mv := crossExchangeMove(s, vrpmodel.VehicleRank(va), i1, i2, vrpmodel.VehicleRank(vb), j1, j2, revA, revB)
									if mv != nil {
										moves = append(moves, *mv)
									}
								}
							}
						}
					}
				}
			}
		}
	}
	return moves
}

func crossExchangeMove(s *vrpsolution.Solution, va vrpmodel.VehicleRank, i1, i2 int, vb vrpmodel.VehicleRank, j1, j2 int, revA, revB bool) *Move {
	in := s.Input
	stopsA := s.Routes[va].Stops
	stopsB := s.Routes[vb].Stops

	segA := stopsA[i1:i2]
	segB := stopsB[j1:j2]
	if revA {
		segA = reverseChain(segA)
	}
	if revB {
		segB = reverseChain(segB)
	}

	newA := concatRanks(stopsA[:i1], segB, stopsA[i2:])
	newB := concatRanks(stopsB[:j1], segA, stopsB[j2:])

	beforeA, _ := vrpsolution.TravelCost(in, &s.Routes[va])
	beforeB, _ := vrpsolution.TravelCost(in, &s.Routes[vb])

	trialA := vrpsolution.TryReorder(in, &s.Routes[va], newA)
	if !trialA.Feasible {
		return nil
	}
	trialB := vrpsolution.TryReorder(in, &s.Routes[vb], newB)
	if !trialB.Feasible {
		return nil
	}
	afterA, okA := vrpsolution.TravelCost(in, &trialA.Route)
	afterB, okB := vrpsolution.TravelCost(in, &trialB.Route)
	if !okA || !okB {
		return nil
	}
	delta := (afterA - beforeA) + (afterB - beforeB)
	newRouteA, newRouteB := trialA.Route, trialB.Route
	return &Move{Kind: CrossExchange, DeltaCost: delta, apply: func(s *vrpsolution.Solution) {
		s.Routes[va] = newRouteA
		s.Routes[vb] = newRouteB
	}}
}

func concatRanks(parts ...[]vrpmodel.JobRank) []vrpmodel.JobRank {
	var total int
	for _, p := range parts {
		total += len(p)
	}
	out := make([]vrpmodel.JobRank, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// GenerateRouteExchange proposes swapping two vehicles' entire stop
// sequences wholesale — useful when two compatible vehicles differ
// enough in cost structure (fixed cost, per-km rate) that whichever one
// currently holds the cheaper route is assigned sub-optimally.
func GenerateRouteExchange(s *vrpsolution.Solution) []Move {
	in := s.Input
	var moves []Move
	for va := range s.Routes {
		for vb := va + 1; vb < len(s.Routes); vb++ {
			stopsA := s.Routes[va].Stops
			stopsB := s.Routes[vb].Stops
			if len(stopsA) == 0 && len(stopsB) == 0 {
				continue
			}
			if tailHasPinned(s, stopsA) || tailHasPinned(s, stopsB) {
				continue
			}
			if !chainCompatible(in, vrpmodel.VehicleRank(vb), stopsA) || !chainCompatible(in, vrpmodel.VehicleRank(va), stopsB) {
				continue
			}
			mv := routeExchangeMove(s, vrpmodel.VehicleRank(va), vrpmodel.VehicleRank(vb))
			if mv != nil {
				moves = append(moves, *mv)
			}
		}
	}
	return moves
}

func routeExchangeMove(s *vrpsolution.Solution, va, vb vrpmodel.VehicleRank) *Move {
	in := s.Input
	stopsA := append([]vrpmodel.JobRank(nil), s.Routes[va].Stops...)
	stopsB := append([]vrpmodel.JobRank(nil), s.Routes[vb].Stops...)

	beforeA, _ := vrpsolution.TravelCost(in, &s.Routes[va])
	beforeB, _ := vrpsolution.TravelCost(in, &s.Routes[vb])

	trialA := vrpsolution.TryReorder(in, &s.Routes[va], stopsB)
	if !trialA.Feasible {
		return nil
	}
	trialB := vrpsolution.TryReorder(in, &s.Routes[vb], stopsA)
	if !trialB.Feasible {
		return nil
	}
	afterA, okA := vrpsolution.TravelCost(in, &trialA.Route)
	afterB, okB := vrpsolution.TravelCost(in, &trialB.Route)
	if !okA || !okB {
		return nil
	}
	delta := (afterA - beforeA) + (afterB - beforeB)
	newRouteA, newRouteB := trialA.Route, trialB.Route
	return &Move{Kind: RouteExchange, DeltaCost: delta, apply: func(s *vrpsolution.Solution) {
		s.Routes[va] = newRouteA
		s.Routes[vb] = newRouteB
	}}
}
