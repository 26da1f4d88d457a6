package vrpsolution

import "vrpengine/internal/vrpmodel"

// InsertionTrial is the outcome of tentatively placing one or more job
// ranks into a route at given positions. Grounded on the teacher's
// internal/opt/alns_engine.go schedulePlan+cost pattern: a candidate
// move is evaluated by building the trial stop order and re-running the
// full schedule, rather than patching caches incrementally. The O(n)
// cost of Recompute is dominated by the number of candidate moves
// evaluated per iteration (spec.md §4.3 design note).
type InsertionTrial struct {
	Route     Route
	DeltaCost int64
	Feasible  bool
}

// withStopsAt returns a copy of stops with the given ranks inserted, in
// order, starting at position pos (0 <= pos <= len(stops)).
func withStopsAt(stops []vrpmodel.JobRank, pos int, inserts ...vrpmodel.JobRank) []vrpmodel.JobRank {
	out := make([]vrpmodel.JobRank, 0, len(stops)+len(inserts))
	out = append(out, stops[:pos]...)
	out = append(out, inserts...)
	out = append(out, stops[pos:]...)
	return out
}

// TryInsertSingle evaluates inserting job at position pos of the route
// currently at vrank, returning the resulting route state and its
// travel-cost delta versus the route's current travel cost. It does not
// mutate s.
func TryInsertSingle(s *Solution, vrank vrpmodel.VehicleRank, pos int, job vrpmodel.JobRank) InsertionTrial {
	return InsertIntoRoute(s.Input, &s.Routes[vrank], pos, job)
}

// InsertIntoRoute is the route-agnostic core of TryInsertSingle: it
// inserts job into pos of base (which need not be one of a live
// Solution's routes — internal/operators uses it to chain a removal and
// a reinsertion against the same in-flight trial route without
// round-tripping through a Solution).
func InsertIntoRoute(in *vrpmodel.Input, base *Route, pos int, job vrpmodel.JobRank) InsertionTrial {
	v := in.VehicleByRank(base.Vehicle)
	j := in.JobByRank(job)

	if !j.Skills.IsSubsetOf(v.Skills) {
		return InsertionTrial{Feasible: false}
	}
	if v.MaxTasks != nil && len(base.Stops)+1 > *v.MaxTasks {
		return InsertionTrial{Feasible: false}
	}

	if infeasible, eligible := fastWindowInfeasible(in, base, v, pos, pos, []vrpmodel.JobRank{job}); eligible && infeasible {
		return InsertionTrial{Feasible: false}
	}

	before, _ := TravelCost(in, base)

	trial := cloneRoute(base)
	trial.Stops = withStopsAt(base.Stops, pos, job)
	Recompute(in, &trial)
	if !trial.Feasible {
		return InsertionTrial{Route: trial, Feasible: false}
	}
	if !withinVehicleLimits(in, v, &trial) {
		return InsertionTrial{Route: trial, Feasible: false}
	}

	after, ok := TravelCost(in, &trial)
	if !ok {
		return InsertionTrial{Route: trial, Feasible: false}
	}
	return InsertionTrial{Route: trial, DeltaCost: after - before, Feasible: true}
}

// TryInsertShipment evaluates inserting a linked pickup/delivery pair
// into the route at vrank, pickup at posP and delivery at posD (posD is
// an index into the stops slice *after* the pickup has been inserted,
// and must be > posP since delivery must follow pickup — spec.md §3
// "shipment: a linked pickup/delivery pair... delivery always follows
// its pickup in the same route").
func TryInsertShipment(s *Solution, vrank vrpmodel.VehicleRank, posP, posD int, pickup, delivery vrpmodel.JobRank) InsertionTrial {
	return InsertShipmentIntoRoute(s.Input, &s.Routes[vrank], posP, posD, pickup, delivery)
}

// InsertShipmentIntoRoute is the route-agnostic core of
// TryInsertShipment (see InsertIntoRoute).
func InsertShipmentIntoRoute(in *vrpmodel.Input, base *Route, posP, posD int, pickup, delivery vrpmodel.JobRank) InsertionTrial {
	v := in.VehicleByRank(base.Vehicle)
	pj := in.JobByRank(pickup)
	dj := in.JobByRank(delivery)

	if posD <= posP {
		return InsertionTrial{Feasible: false}
	}
	if !pj.Skills.IsSubsetOf(v.Skills) || !dj.Skills.IsSubsetOf(v.Skills) {
		return InsertionTrial{Feasible: false}
	}
	if v.MaxTasks != nil && len(base.Stops)+2 > *v.MaxTasks {
		return InsertionTrial{Feasible: false}
	}

	oldPosD := posD - 1 // index into base.Stops, before pickup shifts it
	middle := make([]vrpmodel.JobRank, 0, oldPosD-posP+2)
	middle = append(middle, pickup)
	middle = append(middle, base.Stops[posP:oldPosD]...)
	middle = append(middle, delivery)
	if infeasible, eligible := fastWindowInfeasible(in, base, v, posP, oldPosD, middle); eligible && infeasible {
		return InsertionTrial{Feasible: false}
	}

	before, _ := TravelCost(in, base)

	withPickup := withStopsAt(base.Stops, posP, pickup)
	trialStops := withStopsAt(withPickup, posD, delivery)

	trial := cloneRoute(base)
	trial.Stops = trialStops
	Recompute(in, &trial)
	if !trial.Feasible {
		return InsertionTrial{Route: trial, Feasible: false}
	}
	if !withinVehicleLimits(in, v, &trial) {
		return InsertionTrial{Route: trial, Feasible: false}
	}

	after, ok := TravelCost(in, &trial)
	if !ok {
		return InsertionTrial{Route: trial, Feasible: false}
	}
	return InsertionTrial{Route: trial, DeltaCost: after - before, Feasible: true}
}

// TryReorder evaluates replacing base's entire stop sequence with
// newStops (same vehicle, any permutation/subset), returning the
// recomputed route and its cost delta. Used by operators that cut and
// reconnect a route's edges (two-opt, cross-exchange, route-exchange)
// rather than inserting or removing a single unit.
func TryReorder(in *vrpmodel.Input, base *Route, newStops []vrpmodel.JobRank) InsertionTrial {
	v := in.VehicleByRank(base.Vehicle)

	if p, q, ok := commonPrefixSuffix(base.Stops, newStops); ok {
		start, end := p, len(base.Stops)-q
		middle := newStops[p : len(newStops)-q]
		if infeasible, eligible := fastWindowInfeasible(in, base, v, start, end, middle); eligible && infeasible {
			return InsertionTrial{Feasible: false}
		}
	}

	before, _ := TravelCost(in, base)

	trial := cloneRoute(base)
	trial.Stops = append([]vrpmodel.JobRank(nil), newStops...)
	Recompute(in, &trial)
	if !trial.Feasible {
		return InsertionTrial{Route: trial, Feasible: false}
	}
	if !withinVehicleLimits(in, v, &trial) {
		return InsertionTrial{Route: trial, Feasible: false}
	}
	after, ok := TravelCost(in, &trial)
	if !ok {
		return InsertionTrial{Route: trial, Feasible: false}
	}
	return InsertionTrial{Route: trial, DeltaCost: after - before, Feasible: true}
}

// withinVehicleLimits checks the vehicle-level caps that Recompute
// itself does not enforce: max_tasks, max_travel_time (against the
// unscaled user-seconds cache, per the Open Question decision recorded
// in DESIGN.md), and max_distance.
func withinVehicleLimits(in *vrpmodel.Input, v *vrpmodel.Vehicle, r *Route) bool {
	n := len(r.Stops)
	if n == 0 {
		return true
	}
	if v.MaxTasks != nil && n > *v.MaxTasks {
		return false
	}
	if v.MaxTravelTime != nil {
		retUserSec, _, _, ok := RouteReturnLeg(in, r)
		if !ok {
			return false
		}
		total := r.TravelTimeUser[n-1] + vrpmodel.Seconds(retUserSec)
		if total > *v.MaxTravelTime {
			return false
		}
	}
	if v.MaxDistance != nil {
		_, _, retDist, ok := RouteReturnLeg(in, r)
		if !ok {
			return false
		}
		if r.TravelDist[n-1]+retDist > *v.MaxDistance {
			return false
		}
	}
	return true
}

// RemoveJob returns a copy of the route at vrank with job removed from
// its Stops, recomputed. It does not mutate s.
func RemoveJob(s *Solution, vrank vrpmodel.VehicleRank, job vrpmodel.JobRank) Route {
	return RemoveFromRoute(s.Input, &s.Routes[vrank], job)
}

// RemoveFromRoute is the route-agnostic core of RemoveJob; see
// InsertIntoRoute for why internal/operators needs this split.
//
// Unlike the three evaluators above, this one has no infeasible
// early-out to offer: it always hands back a fully materialized Route,
// because callers chain it as the base for a further InsertIntoRoute
// or InsertShipmentIntoRoute call (pdshift.go, relocate.go) and need
// every cached array populated at the new length regardless of whether
// the removal itself was uneventful. fastWindowInfeasible's trick of
// skipping work on a proven-infeasible candidate doesn't apply when
// there's no "don't bother" outcome to take.
func RemoveFromRoute(in *vrpmodel.Input, base *Route, job vrpmodel.JobRank) Route {
	trial := cloneRoute(base)
	out := trial.Stops[:0]
	for _, r := range trial.Stops {
		if r != job {
			out = append(out, r)
		}
	}
	trial.Stops = out
	Recompute(in, &trial)
	return trial
}
