// Package construct builds an initial Solution from scratch: regret-k
// insertion over a seed order of unassigned jobs, grounded on the
// teacher's internal/opt/alns_engine.go greedySeed+regretInsert
// functions, generalized from a flat job list to spec.md's
// single-job/shipment-pair units.
package construct

import (
	"sort"

	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// Seed picks the order candidate units are first considered in, before
// regret scoring takes over (spec.md §4.4 "construction").
type Seed int

const (
	SeedFarthestFromStart Seed = iota
	SeedEarliestDeadline
	SeedHighestPriority
	SeedHighestAmount
	SeedNearestToStart
)

// unit is one insertable piece of work: either a single job (pickup
// holds its rank, delivery == -1) or a linked shipment pair.
type unit struct {
	pickup   vrpmodel.JobRank
	delivery vrpmodel.JobRank // -1 for a single job
}

func (u unit) isShipment() bool { return u.delivery >= 0 }

// candidateUnits returns one unit per still-unassigned job/shipment in s.
func candidateUnits(s *vrpsolution.Solution) []unit {
	var units []unit
	for rank, unassigned := range s.Unassigned {
		if !unassigned {
			continue
		}
		j := s.Input.JobByRank(vrpmodel.JobRank(rank))
		switch j.Kind {
		case vrpmodel.JobSingle:
			units = append(units, unit{pickup: vrpmodel.JobRank(rank), delivery: -1})
		case vrpmodel.JobPickup:
			if s.Unassigned[j.Partner] {
				units = append(units, unit{pickup: vrpmodel.JobRank(rank), delivery: j.Partner})
			}
		case vrpmodel.JobDelivery:
			// handled from the pickup side
		}
	}
	return units
}

// SeedOrder returns candidateUnits(s) sorted by the given seed strategy,
// ties broken by ascending job id (Open Question 1: regret ties break by
// ascending job id; the same tiebreak is reused here for determinism).
func SeedOrder(s *vrpsolution.Solution, seed Seed) []unit {
	units := candidateUnits(s)
	startLoc := func(v *vrpmodel.Vehicle) (vrpmodel.LocationIndex, bool) {
		if v.Start != nil {
			return *v.Start, true
		}
		return 0, false
	}
	refLoc, haveRef := vrpmodel.LocationIndex(0), false
	for i := range s.Input.Vehicles {
		if l, ok := startLoc(&s.Input.Vehicles[i]); ok {
			refLoc, haveRef = l, true
			break
		}
	}

	key := func(u unit) float64 {
		j := s.Input.JobByRank(u.pickup)
		switch seed {
		case SeedHighestPriority:
			return -float64(j.Priority)
		case SeedHighestAmount:
			return -sumAmount(j.Delivery) - sumAmount(j.Pickup)
		case SeedEarliestDeadline:
			if len(j.TimeWindows) == 0 {
				return 1 << 40
			}
			return float64(j.TimeWindows[len(j.TimeWindows)-1].End)
		case SeedFarthestFromStart, SeedNearestToStart:
			if !haveRef {
				return 0
			}
			d := approxDistance(s.Input, refLoc, j.Location)
			if seed == SeedFarthestFromStart {
				return -d
			}
			return d
		default:
			return 0
		}
	}

	sort.SliceStable(units, func(a, b int) bool {
		ka, kb := key(units[a]), key(units[b])
		if ka != kb {
			return ka < kb
		}
		return s.Input.JobByRank(units[a].pickup).ID < s.Input.JobByRank(units[b].pickup).ID
	})
	return units
}

func sumAmount(a vrpmodel.Amount) float64 {
	var total float64
	for _, v := range a {
		total += float64(v)
	}
	return total
}

// approxDistance uses any profile's matrix that covers both locations,
// falling back to 0 (seed ordering is a heuristic tiebreak, not a
// feasibility decision, so an imprecise fallback is acceptable).
func approxDistance(in *vrpmodel.Input, a, b vrpmodel.LocationIndex) float64 {
	for _, v := range in.Vehicles {
		if m, ok := in.Matrix(v.Profile); ok {
			if d, ok := m.Distance(a, b); ok {
				return float64(d)
			}
		}
	}
	return 0
}
