package operators

import (
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// GenerateRelocate proposes moving every currently assigned single job
// to every other feasible (vehicle, position) — including a different
// position within its own route — per spec.md §4.4's relocate move.
// Shipment halves are excluded; see GeneratePDShift.
func GenerateRelocate(s *vrpsolution.Solution) []Move {
	var moves []Move
	in := s.Input
	for vFrom := range s.Routes {
		stops := s.Routes[vFrom].Stops
		for pos, job := range stops {
			if s.Pinned[job] {
				continue
			}
			j := in.JobByRank(job)
			if j.IsShipmentHalf() {
				continue
			}
			moves = append(moves, relocateCandidates(s, vrpmodel.VehicleRank(vFrom), pos, job)...)
		}
	}
	return moves
}

func relocateCandidates(s *vrpsolution.Solution, vFrom vrpmodel.VehicleRank, posFrom int, job vrpmodel.JobRank) []Move {
	in := s.Input
	removed := vrpsolution.RemoveFromRoute(in, &s.Routes[vFrom], job)
	if !removed.Feasible {
		return nil
	}
	costFromBefore, _ := vrpsolution.TravelCost(in, &s.Routes[vFrom])
	costFromAfter, ok := vrpsolution.TravelCost(in, &removed)
	if !ok {
		return nil
	}
	removalDelta := costFromAfter - costFromBefore

	var moves []Move
	for vTo := range s.Routes {
		vr := vrpmodel.VehicleRank(vTo)
		if !in.VehicleJobCompat[vTo][job] {
			continue
		}
		base := &removed
		if vr != vFrom {
			base = &s.Routes[vTo]
		}
		for pos := 0; pos <= len(base.Stops); pos++ {
			if vr == vFrom && pos == posFrom {
				continue // no-op: same position it started at
			}
			trial := vrpsolution.InsertIntoRoute(in, base, pos, job)
			if !trial.Feasible {
				continue
			}
			delta := trial.DeltaCost + removalDelta
			mVFrom, mVTo, newFrom, newTo := vFrom, vr, removed, trial.Route
			moves = append(moves, Move{
				Kind:      Relocate,
				DeltaCost: delta,
				apply: func(s *vrpsolution.Solution) {
					if mVFrom == mVTo {
						s.Routes[mVFrom] = newTo
						return
					}
					s.Routes[mVFrom] = newFrom
					s.Routes[mVTo] = newTo
				},
			})
		}
	}
	return moves
}

// GenerateExchange proposes swapping the positions of every pair of
// currently assigned single jobs, within or across routes.
func GenerateExchange(s *vrpsolution.Solution) []Move {
	in := s.Input
	var singles []struct {
		v   vrpmodel.VehicleRank
		pos int
		job vrpmodel.JobRank
	}
	for v := range s.Routes {
		for pos, job := range s.Routes[v].Stops {
			if !s.Pinned[job] && !in.JobByRank(job).IsShipmentHalf() {
				singles = append(singles, struct {
					v   vrpmodel.VehicleRank
					pos int
					job vrpmodel.JobRank
				}{vrpmodel.VehicleRank(v), pos, job})
			}
		}
	}

	var moves []Move
	for a := 0; a < len(singles); a++ {
		for b := a + 1; b < len(singles); b++ {
			sa, sb := singles[a], singles[b]
			if !in.VehicleJobCompat[sa.v][sb.job] || !in.VehicleJobCompat[sb.v][sa.job] {
				continue
			}
			mv := exchangeMove(s, sa.v, sa.pos, sa.job, sb.v, sb.pos, sb.job)
			if mv != nil {
				moves = append(moves, *mv)
			}
		}
	}
	return moves
}

func exchangeMove(s *vrpsolution.Solution, va vrpmodel.VehicleRank, posA int, jobA vrpmodel.JobRank, vb vrpmodel.VehicleRank, posB int, jobB vrpmodel.JobRank) *Move {
	in := s.Input
	if va == vb {
		stops := append([]vrpmodel.JobRank(nil), s.Routes[va].Stops...)
		stops[posA], stops[posB] = stops[posB], stops[posA]
		trial := vrpsolution.TryReorder(in, &s.Routes[va], stops)
		if !trial.Feasible {
			return nil
		}
		newRoute := trial.Route
		return &Move{Kind: Exchange, DeltaCost: trial.DeltaCost, apply: func(s *vrpsolution.Solution) {
			s.Routes[va] = newRoute
		}}
	}

	stopsA := append([]vrpmodel.JobRank(nil), s.Routes[va].Stops...)
	stopsA[posA] = jobB
	stopsB := append([]vrpmodel.JobRank(nil), s.Routes[vb].Stops...)
	stopsB[posB] = jobA

	beforeA, _ := vrpsolution.TravelCost(in, &s.Routes[va])
	beforeB, _ := vrpsolution.TravelCost(in, &s.Routes[vb])

	trialA := vrpsolution.TryReorder(in, &s.Routes[va], stopsA)
	if !trialA.Feasible {
		return nil
	}
	trialB := vrpsolution.TryReorder(in, &s.Routes[vb], stopsB)
	if !trialB.Feasible {
		return nil
	}
	afterA, okA := vrpsolution.TravelCost(in, &trialA.Route)
	afterB, okB := vrpsolution.TravelCost(in, &trialB.Route)
	if !okA || !okB {
		return nil
	}
	delta := (afterA - beforeA) + (afterB - beforeB)
	newA, newB := trialA.Route, trialB.Route
	return &Move{Kind: Exchange, DeltaCost: delta, apply: func(s *vrpsolution.Solution) {
		s.Routes[va] = newA
		s.Routes[vb] = newB
	}}
}
