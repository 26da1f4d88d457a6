package vrpsolution

import (
	"vrpengine/internal/costmodel"
	"vrpengine/internal/vrpmodel"
)

// Solution is the collection of routes plus the set of unassigned jobs
// (spec.md §3). Routes is indexed by vehicle rank, one entry per
// vehicle, even for vehicles that end up unused (an empty Route).
type Solution struct {
	Input      *vrpmodel.Input
	Routes     []Route
	Unassigned []bool // indexed by job rank

	// Pinned[j] is true once job j has been placed by
	// construct.PlaceForced to satisfy a vehicle's forced step
	// (spec.md §6 VehicleStep). Pinned jobs are never ruin-removed and
	// never relocated to a different vehicle by an operator; see
	// internal/operators' shipment.go-style guards.
	Pinned []bool
}

// NewSolution returns a Solution with one empty route per vehicle and
// every job unassigned.
func NewSolution(in *vrpmodel.Input) *Solution {
	s := &Solution{Input: in}
	s.Routes = make([]Route, len(in.Vehicles))
	for i := range s.Routes {
		s.Routes[i] = NewRoute(vrpmodel.VehicleRank(i))
	}
	s.Unassigned = make([]bool, len(in.Jobs))
	for i := range s.Unassigned {
		s.Unassigned[i] = true
	}
	s.Pinned = make([]bool, len(in.Jobs))
	return s
}

// Clone returns a deep copy suitable for an independent multi-start
// stream (spec.md §5 "streams own only their Solution copy").
func (s *Solution) Clone() *Solution {
	out := &Solution{Input: s.Input}
	out.Routes = make([]Route, len(s.Routes))
	for i := range s.Routes {
		out.Routes[i] = cloneRoute(&s.Routes[i])
	}
	out.Unassigned = append([]bool(nil), s.Unassigned...)
	out.Pinned = append([]bool(nil), s.Pinned...)
	return out
}

func cloneRoute(r *Route) Route {
	out := Route{Vehicle: r.Vehicle, Feasible: r.Feasible}
	out.Stops = append([]vrpmodel.JobRank(nil), r.Stops...)
	out.Load = append([]vrpmodel.Amount(nil), r.Load...)
	for i, a := range out.Load {
		out.Load[i] = a.Clone()
	}
	out.Earliest = append([]vrpmodel.Seconds(nil), r.Earliest...)
	out.Latest = append([]vrpmodel.Seconds(nil), r.Latest...)
	out.TravelTime = append([]vrpmodel.Seconds(nil), r.TravelTime...)
	out.TravelTimeUser = append([]vrpmodel.Seconds(nil), r.TravelTimeUser...)
	out.TravelDist = append([]int64(nil), r.TravelDist...)
	out.FirstVisit = append([]bool(nil), r.FirstVisit...)
	out.PrefixMaxLoad = append([]vrpmodel.Amount(nil), r.PrefixMaxLoad...)
	out.PrefixMinLoad = append([]vrpmodel.Amount(nil), r.PrefixMinLoad...)
	out.SuffixMaxLoad = append([]vrpmodel.Amount(nil), r.SuffixMaxLoad...)
	out.SuffixMinLoad = append([]vrpmodel.Amount(nil), r.SuffixMinLoad...)
	for _, pair := range [][]vrpmodel.Amount{out.PrefixMaxLoad, out.PrefixMinLoad, out.SuffixMaxLoad, out.SuffixMinLoad} {
		for i, a := range pair {
			pair[i] = a.Clone()
		}
	}
	// LocationVisits is immutable once Recompute builds it (every write
	// path to Route either calls Recompute, which replaces it wholesale,
	// or goes through the O(1)/O(k) evaluators in constraints.go, which
	// never mutate a base route's caches), so sharing the map is safe.
	out.LocationVisits = r.LocationVisits
	out.AnyJobHasSetup = r.AnyJobHasSetup
	out.Initial = r.Initial.Clone()
	out.SetupAmbiguous = r.SetupAmbiguous
	out.Breaks = append([]ScheduledBreak(nil), r.Breaks...)
	return out
}

// RouteReturnLeg is the extra (user duration, scaled duration, distance)
// to close a route back to its vehicle's End location, beyond what
// TravelTime/TravelDist's last entry already covers. All three are
// zero for an empty route or a vehicle with no End.
func RouteReturnLeg(in *vrpmodel.Input, r *Route) (userSec int64, scaledSec vrpmodel.Seconds, distM int64, ok bool) {
	v := in.VehicleByRank(r.Vehicle)
	if v.End == nil || len(r.Stops) == 0 {
		return 0, 0, 0, true
	}
	last := in.JobByRank(r.Stops[len(r.Stops)-1])
	u, sc, d, legOK := travelLeg(in, v, last.Location, *v.End)
	return u, sc, d, legOK
}

// TravelCost returns the route's per-vehicle cost component (spec.md
// §4.1), or (0, true) for an unused route.
func TravelCost(in *vrpmodel.Input, r *Route) (int64, bool) {
	if r.Empty() {
		return 0, true
	}
	v := in.VehicleByRank(r.Vehicle)
	_, retSec, retDist, ok := RouteReturnLeg(in, r)
	if !ok {
		return 0, false
	}
	totalSec := r.TravelTime[len(r.TravelTime)-1] + retSec
	totalDist := r.TravelDist[len(r.TravelDist)-1] + retDist
	return costmodel.TravelCost(v.Cost, int64(totalSec), totalDist, true), true
}

// Objective returns the engine's weighted objective for s (spec.md
// §4.1). ok is false if any route's cached state is infeasible — callers
// should never let that happen outside of evaluating a tentative move.
func Objective(s *Solution, priorityWeight int64) (int64, bool) {
	costs := make([]int64, 0, len(s.Routes))
	for i := range s.Routes {
		if !s.Routes[i].Feasible {
			return 0, false
		}
		c, ok := TravelCost(s.Input, &s.Routes[i])
		if !ok {
			return 0, false
		}
		costs = append(costs, c)
	}
	var unassignedPriority int64
	for rank, unassigned := range s.Unassigned {
		if unassigned {
			unassignedPriority += int64(s.Input.JobByRank(vrpmodel.JobRank(rank)).Priority)
		}
	}
	return costmodel.Objective(costs, unassignedPriority, priorityWeight), true
}

// RouteOf returns the rank of the route currently serving job, and
// whether it is assigned at all.
func (s *Solution) RouteOf(job vrpmodel.JobRank) (vrpmodel.VehicleRank, int, bool) {
	for vi := range s.Routes {
		for pos, r := range s.Routes[vi].Stops {
			if r == job {
				return vrpmodel.VehicleRank(vi), pos, true
			}
		}
	}
	return 0, 0, false
}
