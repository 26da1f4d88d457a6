package operators

import (
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// intraTwoOptWindow bounds IntraTwoOpt's cut-point span so it stays a
// cheap, every-iteration pass.
const intraTwoOptWindow = 6

// GenerateTwoOpt proposes the inter-route 2-opt move spec.md §4.5 names
// "Two-opt": cut route A after position i and route B after position j,
// then swap the two tails as-is, with no reversal on either side — the
// plain "swap route tails between two routes" baseline that
// ReverseTwoOpt (one tail reversed) and CrossExchange (interior chains,
// optionally reversed) both generalize.
func GenerateTwoOpt(s *vrpsolution.Solution) []Move {
	in := s.Input
	var moves []Move
	for va := range s.Routes {
		for vb := va + 1; vb < len(s.Routes); vb++ {
			if !in.VehicleVehicleCompat[va][vb] {
				continue
			}
			stopsA := s.Routes[va].Stops
			stopsB := s.Routes[vb].Stops
			for i := 0; i <= len(stopsA); i++ {
				if !noSplitAtCut(in, stopsA, i) {
					continue
				}
				tailA := stopsA[i:]
				if tailHasPinned(s, tailA) || !chainCompatible(in, vrpmodel.VehicleRank(vb), tailA) {
					continue
				}
				for j := 0; j <= len(stopsB); j++ {
					if !noSplitAtCut(in, stopsB, j) {
						continue
					}
					tailB := stopsB[j:]
					if tailHasPinned(s, tailB) || !chainCompatible(in, vrpmodel.VehicleRank(va), tailB) {
						continue
					}
					mv := twoOptMove(s, vrpmodel.VehicleRank(va), i, vrpmodel.VehicleRank(vb), j)
					if mv != nil {
						moves = append(moves, *mv)
					}
				}
			}
		}
	}
	return moves
}

func twoOptMove(s *vrpsolution.Solution, va vrpmodel.VehicleRank, i int, vb vrpmodel.VehicleRank, j int) *Move {
	in := s.Input
	stopsA := s.Routes[va].Stops
	stopsB := s.Routes[vb].Stops

	newA := concatRanks(stopsA[:i], stopsB[j:])
	newB := concatRanks(stopsB[:j], stopsA[i:])

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
	return &Move{Kind: TwoOpt, DeltaCost: delta, apply: func(s *vrpsolution.Solution) {
		s.Routes[va] = newRouteA
		s.Routes[vb] = newRouteB
	}}
}

// GenerateIntraTwoOpt proposes spec.md §4.5's "Intra-two-opt": reverse
// a bounded sub-sequence of a single route (removing edges (i-1,i) and
// (j,j+1) and reversing the segment between them), restricted to a
// small cut-point window so it stays cheap enough to run every
// iteration even on a large route.
func GenerateIntraTwoOpt(s *vrpsolution.Solution) []Move {
	in := s.Input
	var moves []Move
	for v := range s.Routes {
		stops := s.Routes[v].Stops
		n := len(stops)
		for i := 0; i < n-1; i++ {
			limit := n - 1
			if i+intraTwoOptWindow < limit {
				limit = i + intraTwoOptWindow
			}
			for j := i + 1; j <= limit; j++ {
				if segmentHasCompletePair(in, stops, i, j) || segmentHasMultiplePinned(s, stops, i, j) {
					continue
				}
				reversed := append([]vrpmodel.JobRank(nil), stops...)
				reverseSegment(reversed, i, j)
				trial := vrpsolution.TryReorder(in, &s.Routes[v], reversed)
				if !trial.Feasible {
					continue
				}
				vr := vrpmodel.VehicleRank(v)
				newRoute := trial.Route
				moves = append(moves, Move{
					Kind:      IntraTwoOpt,
					DeltaCost: trial.DeltaCost,
					apply: func(s *vrpsolution.Solution) {
						s.Routes[vr] = newRoute
					},
				})
			}
		}
	}
	return moves
}

func reverseSegment(stops []vrpmodel.JobRank, i, j int) {
	for l, r := i, j; l < r; l, r = l+1, r-1 {
		stops[l], stops[r] = stops[r], stops[l]
	}
}

// GenerateReverseTwoOpt proposes spec.md §4.5's "Reverse-two-opt":
// cut route A after position i and route B after position j, then
// reattach the tails as TwoOpt does except route A's incoming tail
// (formerly route B's, stopsB[j:]) is reversed before splicing; route
// B's incoming tail keeps its original order. Unlike CrossExchange
// (which splices interior chains, either optionally reversed) this
// always swaps the route-ending tails, and unlike TwoOpt exactly one
// side is reversed — useful on an asymmetric travel matrix, where
// reversing a tail changes its internal travel cost (spec.md §9:
// "distance matrices need not be symmetric").
func GenerateReverseTwoOpt(s *vrpsolution.Solution) []Move {
	in := s.Input
	var moves []Move
	for va := range s.Routes {
		for vb := va + 1; vb < len(s.Routes); vb++ {
			if !in.VehicleVehicleCompat[va][vb] {
				continue
			}
			stopsA := s.Routes[va].Stops
			stopsB := s.Routes[vb].Stops
			for i := 0; i <= len(stopsA); i++ {
				if !noSplitAtCut(in, stopsA, i) {
					continue
				}
				tailA := stopsA[i:]
				if tailHasPinned(s, tailA) || !chainCompatible(in, vrpmodel.VehicleRank(vb), tailA) {
					continue
				}
				for j := 0; j <= len(stopsB); j++ {
					if !noSplitAtCut(in, stopsB, j) {
						continue
					}
					tailB := stopsB[j:]
					if tailHasPinned(s, tailB) || !chainCompatible(in, vrpmodel.VehicleRank(va), tailB) {
						continue
					}
					mv := reverseTwoOptMove(s, vrpmodel.VehicleRank(va), i, vrpmodel.VehicleRank(vb), j)
					if mv != nil {
						moves = append(moves, *mv)
					}
				}
			}
		}
	}
	return moves
}

func reverseTwoOptMove(s *vrpsolution.Solution, va vrpmodel.VehicleRank, i int, vb vrpmodel.VehicleRank, j int) *Move {
	in := s.Input
	stopsA := s.Routes[va].Stops
	stopsB := s.Routes[vb].Stops

	newA := append(append([]vrpmodel.JobRank(nil), stopsA[:i]...), reversedCopy(stopsB[j:])...)
	newB := concatRanks(stopsB[:j], stopsA[i:])

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
	return &Move{Kind: ReverseTwoOpt, DeltaCost: delta, apply: func(s *vrpsolution.Solution) {
		s.Routes[va] = newRouteA
		s.Routes[vb] = newRouteB
	}}
}

func reversedCopy(stops []vrpmodel.JobRank) []vrpmodel.JobRank {
	out := make([]vrpmodel.JobRank, len(stops))
	for i, r := range stops {
		out[len(stops)-1-i] = r
	}
	return out
}
