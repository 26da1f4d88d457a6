package operators

import (
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// noSplitAtCut reports whether cutting stops at index cut (stops[:cut]
// stays, stops[cut:] moves) keeps every shipment's pickup and delivery
// on the same side — spec.md §3's "delivery always follows its pickup
// in the same route" invariant must survive every operator, not just
// the ones that know about shipments.
func noSplitAtCut(in *vrpmodel.Input, stops []vrpmodel.JobRank, cut int) bool {
	pos := make(map[vrpmodel.JobRank]int, len(stops))
	for i, j := range stops {
		pos[j] = i
	}
	for i, j := range stops {
		job := in.JobByRank(j)
		if !job.IsShipmentHalf() {
			continue
		}
		partnerPos, ok := pos[job.Partner]
		if !ok {
			continue // partner not on this route at all; nothing to split here
		}
		if (i < cut) != (partnerPos < cut) {
			return false
		}
	}
	return true
}

// segmentHasCompletePair reports whether stops[i:j+1] contains both
// halves of any shipment — reversing such a segment would put the
// delivery before its pickup.
func segmentHasCompletePair(in *vrpmodel.Input, stops []vrpmodel.JobRank, i, j int) bool {
	pos := make(map[vrpmodel.JobRank]int, j-i+1)
	for k := i; k <= j; k++ {
		pos[stops[k]] = k
	}
	for k := i; k <= j; k++ {
		job := in.JobByRank(stops[k])
		if !job.IsShipmentHalf() {
			continue
		}
		if _, ok := pos[job.Partner]; ok {
			return true
		}
	}
	return false
}

// segmentHasMultiplePinned reports whether stops[i:j+1] contains two or
// more jobs pinned by a forced step — reversing or otherwise reordering
// such a segment could swap their relative order, which a forced step's
// declared order (spec.md §6 VehicleStep) must never allow.
func segmentHasMultiplePinned(s *vrpsolution.Solution, stops []vrpmodel.JobRank, i, j int) bool {
	count := 0
	for k := i; k <= j; k++ {
		if s.Pinned[stops[k]] {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// tailHasPinned reports whether any job in tail is pinned — an
// inter-route operator must never move a pinned job to a different
// vehicle.
func tailHasPinned(s *vrpsolution.Solution, tail []vrpmodel.JobRank) bool {
	for _, j := range tail {
		if s.Pinned[j] {
			return true
		}
	}
	return false
}
