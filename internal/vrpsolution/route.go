// Package vrpsolution is the hot path of spec.md §4.3: the mutable
// per-route ledger (load/time caches) and the constraint evaluators
// built on top of it. Caches are recomputed whole on every commit
// (Design Note "Mutable caches tied to routes" — plain arrays, not lazy
// observers) rather than incrementally patched, since recomputation is
// O(n) and is dominated by the O(n²) operator evaluation pass that
// triggers it.
package vrpsolution

import (
	"vrpengine/internal/vrpmodel"
)

// ScheduledBreak is where Recompute placed one of the vehicle's breaks.
// Breaks are never stored in Stops (spec.md §3); they are derived.
type ScheduledBreak struct {
	BreakID  uint64
	AfterPos int // the break is taken immediately after this stop index; -1 means before the first stop
	Start    vrpmodel.Seconds
	End      vrpmodel.Seconds
}

// Route is one vehicle's ordered sequence of job ranks plus the caches
// spec.md §4.3 lists: load prefix sums, earliest/latest feasible start,
// cumulative travel time/distance, and a first-visit bitset.
type Route struct {
	Vehicle vrpmodel.VehicleRank
	Stops   []vrpmodel.JobRank

	// Per-position caches, len(Stops) each. Index i describes the
	// service event at Stops[i].
	Load           []vrpmodel.Amount
	Earliest       []vrpmodel.Seconds
	Latest         []vrpmodel.Seconds
	TravelTime     []vrpmodel.Seconds // cumulative speed-scaled travel time up to and including arrival at i
	TravelTimeUser []vrpmodel.Seconds // cumulative unscaled user travel time, for max_travel_time (spec.md §9)
	TravelDist     []int64            // cumulative distance in meters up to and including arrival at i
	FirstVisit     []bool

	// PrefixMaxLoad[i]/PrefixMinLoad[i] are the component-wise max/min of
	// Load[0..i]; SuffixMaxLoad[i]/SuffixMinLoad[i] the same over
	// Load[i..len(Stops)-1]. Built once per Recompute so a candidate
	// insertion or removal can answer "does shifting everything from one
	// end of a range by a constant vector stay within capacity" with a
	// single lookup instead of a rescan (spec.md §4.3, "Capacity:
	// reducible to a single max and min over the cached load array").
	PrefixMaxLoad []vrpmodel.Amount
	PrefixMinLoad []vrpmodel.Amount
	SuffixMaxLoad []vrpmodel.Amount
	SuffixMinLoad []vrpmodel.Amount

	// LocationVisits counts, per location, how many stops on the route
	// serve it. Only consulted when a job carries Setup > 0, to decide
	// whether inserting/removing a stop at a shared location could move
	// which visit pays the setup cost (see recompute.go's
	// setupAmbiguous).
	LocationVisits map[vrpmodel.LocationIndex]int

	// AnyJobHasSetup is true if some job currently on the route has
	// Setup != 0. Paired with LocationVisits to decide, in O(1), whether
	// a candidate window replacement risks moving which occurrence of a
	// repeated location is first (see incremental.go's
	// fastWindowInfeasible).
	AnyJobHasSetup bool

	// Initial is the cached InitialLoad(Stops) — the amount the vehicle
	// departs with. Reading it is O(1); recomputing it from Stops is
	// O(n), so incremental.go's fastWindowInfeasible reads this field
	// instead of calling InitialLoad directly.
	Initial vrpmodel.Amount

	// SetupAmbiguous is true when a cheap, local patch of Earliest/Latest
	// around one changed position could silently get Setup timing wrong
	// elsewhere in the route: either the vehicle has breaks to replace
	// (break placement depends on the whole arrival profile), or some
	// location is visited more than once AND some job on the route
	// carries Setup != 0 (inserting or removing a stop can then change
	// which visit of a repeated location is FirstVisit). The O(1)/O(k)
	// evaluators fall back to a full Recompute whenever this is set.
	SetupAmbiguous bool

	Breaks []ScheduledBreak

	// Feasible is false if Recompute could not find a feasible
	// schedule for the current Stops order under the vehicle's
	// constraints. Operators must not apply a move that leaves a route
	// infeasible; this flag exists so a caller that does anyway (or a
	// debug-build invariant check) can detect it.
	Feasible bool
}

// NewRoute returns an empty route for the given vehicle. An empty route
// is feasible; its other caches stay unset until Recompute runs.
func NewRoute(v vrpmodel.VehicleRank) Route {
	return Route{Vehicle: v, Feasible: true}
}

// Empty reports whether the route serves no jobs.
func (r *Route) Empty() bool { return len(r.Stops) == 0 }

// InitialLoad is the amount the vehicle departs with: the sum of
// delivery amounts of every job on the route (spec.md §4.3: "vehicles
// depart fully loaded with deliveries").
func InitialLoad(in *vrpmodel.Input, stops []vrpmodel.JobRank, k int) vrpmodel.Amount {
	load := vrpmodel.NewAmount(k)
	for _, rank := range stops {
		load = load.Add(in.JobByRank(rank).Delivery)
	}
	return load
}

// locationAt returns the location a route is at after serving index i
// (or the vehicle start, for i == -1).
func locationAt(in *vrpmodel.Input, v *vrpmodel.Vehicle, stops []vrpmodel.JobRank, i int) (vrpmodel.LocationIndex, bool) {
	if i < 0 {
		if v.Start != nil {
			return *v.Start, true
		}
		if len(stops) > 0 {
			return in.JobByRank(stops[0]).Location, true
		}
		return 0, false
	}
	return in.JobByRank(stops[i]).Location, true
}

func travelLeg(in *vrpmodel.Input, v *vrpmodel.Vehicle, from, to vrpmodel.LocationIndex) (userSec int64, scaledSec vrpmodel.Seconds, distM int64, ok bool) {
	if from == to {
		return 0, 0, 0, true
	}
	m, has := in.Matrix(v.Profile)
	if !has {
		return 0, 0, 0, false
	}
	d, ok1 := m.Duration(from, to)
	dist, ok2 := m.Distance(from, to)
	if !ok1 || !ok2 {
		return 0, 0, 0, false
	}
	return d, vrpmodel.Seconds(costScaleDuration(d, v.SpeedFactor)), dist, true
}

// costScaleDuration is a tiny local mirror of costmodel.ScaleDuration to
// avoid vrpsolution depending on costmodel for one function; both round
// half-away-from-zero identically.
func costScaleDuration(userSeconds int64, speedFactor float64) int64 {
	x := float64(userSeconds) * speedFactor
	if x >= 0 {
		return int64(x + 0.5)
	}
	return -int64(-x + 0.5)
}
