package vrpsolution

import "vrpengine/internal/vrpmodel"

// fastWindowInfeasible tries to prove, via O(k) arithmetic over base's
// cached prefix/suffix load bounds and the Earliest/Latest slack at a
// single boundary position, that replacing base.Stops[start:end] with
// newMiddle is infeasible — without paying Recompute's full O(n)
// rebuild (spec.md §4.3: constraint evaluators answer a candidate
// move's feasibility in O(1)-O(k) amortized time, reserving Recompute
// for the move actually applied). k is the size of the changed
// window (end-start and len(newMiddle)), not the route length.
//
// Both checks it performs are exact, not approximate:
//   - capacity is a pure additive shift of the cached load array (no
//     window clamping involved), so shifting the cached prefix/suffix
//     max and min by the window's net delivery/pickup delta is exactly
//     right, not just a bound;
//   - base.Latest[end] already encodes, via the backward recursion
//     that built it, every downstream time-window constraint past
//     position end. Checking the new arrival there against the cached
//     slack (base.Latest[end]-base.Earliest[end]) is therefore a sound
//     and complete feasibility test for the entire unaffected suffix,
//     regardless of how far a delay would otherwise propagate.
//
// A false return for infeasible does not mean the move is feasible —
// it means the cheap test didn't rule it out, and the caller must fall
// through to the exact clone-and-Recompute path either way. eligible
// is false whenever the cheap test cannot be trusted at all: base's
// caches were never built by Recompute (its Initial does not have the
// vehicle's capacity dimension, as on a fresh NewRoute), the vehicle
// has breaks to re-place, or the change risks moving which
// occurrence of a repeated location pays a job's Setup (see
// Route.SetupAmbiguous); callers must fall back to clone+Recompute
// whenever eligible is false, same as the infeasible-unproven case.
// commonPrefixSuffix finds the longest prefix and (non-overlapping)
// suffix on which a and b agree exactly, stop for stop. TryReorder
// uses this to reduce an arbitrary replacement to the same bounded
// "replace a middle window" shape fastWindowInfeasible handles. ok is
// false when the two sequences are identical (nothing to evaluate) or
// when either is empty.
func commonPrefixSuffix(a, b []vrpmodel.JobRank) (p, q int, ok bool) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, 0, false
	}
	for p < n && p < m && a[p] == b[p] {
		p++
	}
	maxQ := n - p
	if rem := m - p; rem < maxQ {
		maxQ = rem
	}
	for q < maxQ && a[n-1-q] == b[m-1-q] {
		q++
	}
	if p == n && q == 0 && n == m {
		return p, q, false
	}
	return p, q, true
}

func fastWindowInfeasible(in *vrpmodel.Input, base *Route, v *vrpmodel.Vehicle, start, end int, newMiddle []vrpmodel.JobRank) (infeasible, eligible bool) {
	n := len(base.Stops)
	if len(base.Initial) != len(v.Capacity) {
		return false, false
	}
	if base.SetupAmbiguous {
		return false, false
	}
	for _, rank := range newMiddle {
		j := in.JobByRank(rank)
		if j.Setup != 0 && base.LocationVisits[j.Location] > 0 {
			return false, false
		}
	}
	if base.AnyJobHasSetup {
		for i := start; i < end; i++ {
			if base.LocationVisits[in.JobByRank(base.Stops[i]).Location] > 1 {
				return false, false
			}
		}
	}

	k := len(v.Capacity)
	deltaInitial := vrpmodel.NewAmount(k)
	for i := start; i < end; i++ {
		deltaInitial = deltaInitial.Sub(in.JobByRank(base.Stops[i]).Delivery)
	}
	for _, rank := range newMiddle {
		deltaInitial = deltaInitial.Add(in.JobByRank(rank).Delivery)
	}

	var prevLoc vrpmodel.LocationIndex
	var depart vrpmodel.Seconds
	var cur vrpmodel.Amount
	if start > 0 {
		prev := in.JobByRank(base.Stops[start-1])
		prevLoc = prev.Location
		depart = base.Earliest[start-1] + prev.Service
		cur = base.Load[start-1].Add(deltaInitial)

		maxAt := base.PrefixMaxLoad[start-1].Add(deltaInitial)
		minAt := base.PrefixMinLoad[start-1].Add(deltaInitial)
		if !maxAt.LessOrEqual(v.Capacity) || !minAt.GreaterOrEqualZero() {
			return true, true
		}
	} else {
		depart = v.TimeWindow.Start
		cur = base.Initial.Add(deltaInitial)
		switch {
		case v.Start != nil:
			prevLoc = *v.Start
		case len(newMiddle) > 0:
			prevLoc = in.JobByRank(newMiddle[0]).Location
		case end < n:
			prevLoc = in.JobByRank(base.Stops[end]).Location
		}
	}

	t := depart
	loc := prevLoc
	for _, rank := range newMiddle {
		j := in.JobByRank(rank)
		_, scaledSec, _, ok := travelLeg(in, v, loc, j.Location)
		if !ok {
			return true, true
		}
		t += scaledSec
		t += j.Setup
		if len(j.TimeWindows) > 0 {
			est, _, winOK := vrpmodel.EarliestFeasible(j.TimeWindows, t)
			if !winOK {
				return true, true
			}
			t = est
		}
		cur = cur.Sub(j.Delivery).Add(j.Pickup)
		if !cur.GreaterOrEqualZero() || !cur.LessOrEqual(v.Capacity) {
			return true, true
		}
		t += j.Service
		loc = j.Location
	}

	if end >= n {
		bound := v.TimeWindow.End
		if v.End != nil {
			_, scaledSec, _, ok := travelLeg(in, v, loc, *v.End)
			if !ok {
				return true, true
			}
			bound -= scaledSec
		}
		return t > bound, true
	}

	nextLoc := in.JobByRank(base.Stops[end]).Location
	_, newLeg, _, ok := travelLeg(in, v, loc, nextLoc)
	if !ok {
		return true, true
	}
	newArrivalAtNext := t + newLeg

	oldDepart := depart
	oldLoc := prevLoc
	if end > start {
		last := in.JobByRank(base.Stops[end-1])
		oldDepart = base.Earliest[end-1] + last.Service
		oldLoc = last.Location
	}
	_, oldLeg, _, ok := travelLeg(in, v, oldLoc, nextLoc)
	if !ok {
		return true, true
	}
	oldArrivalAtNext := oldDepart + oldLeg

	pushForward := newArrivalAtNext - oldArrivalAtNext
	slack := base.Latest[end] - base.Earliest[end]
	if pushForward > slack {
		return true, true
	}

	var suffixBase vrpmodel.Amount
	if end > 0 {
		suffixBase = base.Load[end-1]
	} else {
		suffixBase = base.Initial
	}
	suffixShift := cur.Sub(suffixBase)
	maxAt := base.SuffixMaxLoad[end].Add(suffixShift)
	minAt := base.SuffixMinLoad[end].Add(suffixShift)
	if !maxAt.LessOrEqual(v.Capacity) || !minAt.GreaterOrEqualZero() {
		return true, true
	}
	return false, true
}
