package search

import (
	"math/rand"
	"sort"

	"vrpengine/internal/operators"
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

const (
	minRemoval = 1
	maxRemoval = 6
)

// removableUnits lists every assigned single job rank plus one rank per
// assigned shipment (the pickup rank stands in for the pair), mirroring
// internal/construct's unit notion so ruin and recreate agree on what
// "one thing to remove" means.
func removableUnits(s *vrpsolution.Solution) []vrpmodel.JobRank {
	in := s.Input
	var units []vrpmodel.JobRank
	for v := range s.Routes {
		for _, job := range s.Routes[v].Stops {
			if s.Pinned[job] {
				continue // forced onto this vehicle by a VehicleStep; never ruin-removed
			}
			j := in.JobByRank(job)
			if j.Kind == vrpmodel.JobDelivery {
				continue // represented by its pickup
			}
			units = append(units, job)
		}
	}
	return units
}

func removeUnit(s *vrpsolution.Solution, job vrpmodel.JobRank) {
	in := s.Input
	vr, _, ok := s.RouteOf(job)
	if !ok {
		return
	}
	j := in.JobByRank(job)
	if j.Kind == vrpmodel.JobPickup {
		s.Routes[vr] = vrpsolution.RemoveFromRoute(in, &s.Routes[vr], j.Partner)
		s.Unassigned[j.Partner] = true
	}
	s.Routes[vr] = vrpsolution.RemoveFromRoute(in, &s.Routes[vr], job)
	s.Unassigned[job] = true
}

// randomRemoval removes between minRemoval and maxRemoval units chosen
// uniformly at random (the plainest ALNS removal operator).
func randomRemoval(s *vrpsolution.Solution, rng *rand.Rand) {
	units := removableUnits(s)
	if len(units) == 0 {
		return
	}
	q := minRemoval + rng.Intn(maxRemoval-minRemoval+1)
	if q > len(units) {
		q = len(units)
	}
	rng.Shuffle(len(units), func(i, j int) { units[i], units[j] = units[j], units[i] })
	for _, u := range units[:q] {
		removeUnit(s, u)
	}
}

// shawRemoval removes a cluster of mutually "related" units: a random
// seed, then repeatedly the remaining unit most related to the most
// recently removed one by a location/time-window/demand relatedness measure (Shaw 1997,
// as generalized in the teacher's internal/opt/alns_engine.go removal
// pass). Removing related jobs together gives the recreate phase a
// coherent gap to refill, rather than scattered single slots.
func shawRemoval(s *vrpsolution.Solution, rng *rand.Rand) {
	units := removableUnits(s)
	if len(units) == 0 {
		return
	}
	q := minRemoval + rng.Intn(maxRemoval-minRemoval+1)
	if q > len(units) {
		q = len(units)
	}

	seed := units[rng.Intn(len(units))]
	removed := map[vrpmodel.JobRank]bool{seed: true}
	removeUnit(s, seed)
	order := []vrpmodel.JobRank{seed}

	for len(order) < q {
		remaining := make([]vrpmodel.JobRank, 0, len(units))
		for _, u := range units {
			if !removed[u] {
				remaining = append(remaining, u)
			}
		}
		if len(remaining) == 0 {
			break
		}
		sort.Slice(remaining, func(a, b int) bool {
			return relatedness(s.Input, order[len(order)-1], remaining[a]) < relatedness(s.Input, order[len(order)-1], remaining[b])
		})
		next := remaining[0]
		removed[next] = true
		removeUnit(s, next)
		order = append(order, next)
	}
}

// relatedness is a lower-is-more-related distance combining location
// proximity, time-window overlap, and demand similarity.
func relatedness(in *vrpmodel.Input, a, b vrpmodel.JobRank) float64 {
	ja, jb := in.JobByRank(a), in.JobByRank(b)
	locDist := approxLocationDistance(in, ja.Location, jb.Location)
	twDist := timeWindowDistance(ja.TimeWindows, jb.TimeWindows)
	demandDist := amountDistance(ja.Delivery, jb.Delivery) + amountDistance(ja.Pickup, jb.Pickup)
	return locDist + twDist + demandDist
}

func approxLocationDistance(in *vrpmodel.Input, a, b vrpmodel.LocationIndex) float64 {
	for _, v := range in.Vehicles {
		if m, ok := in.Matrix(v.Profile); ok {
			if d, ok := m.Distance(a, b); ok {
				return float64(d)
			}
		}
	}
	return 0
}

func timeWindowDistance(a, b []vrpmodel.TimeWindow) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return absFloat(float64(a[0].Start - b[0].Start))
}

func amountDistance(a, b vrpmodel.Amount) float64 {
	var total float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		total += absFloat(float64(a[i] - b[i]))
	}
	return total
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// routeUnits groups a route's stops into the pieces a shuffle is
// allowed to move independently: a shipment's pickup and delivery
// travel together (in whichever order the route already has them, so
// the "delivery follows its pickup" invariant survives the shuffle),
// every other stop is its own unit.
func routeUnits(in *vrpmodel.Input, stops []vrpmodel.JobRank) [][]vrpmodel.JobRank {
	seen := make(map[vrpmodel.JobRank]bool, len(stops))
	var units [][]vrpmodel.JobRank
	for _, job := range stops {
		if seen[job] {
			continue
		}
		j := in.JobByRank(job)
		seen[job] = true
		if !j.IsShipmentHalf() {
			units = append(units, []vrpmodel.JobRank{job})
			continue
		}
		seen[j.Partner] = true
		if j.Kind == vrpmodel.JobPickup {
			units = append(units, []vrpmodel.JobRank{job, j.Partner})
		} else {
			units = append(units, []vrpmodel.JobRank{j.Partner, job})
		}
	}
	return units
}

// shuffleRoute perturbs the search by randomly reordering one route's
// stops (spec.md §4.6's "random shuffle of a route"), rather than
// unassigning and reinserting anything — a cheaper, more disruptive way
// to escape an ordering-only local optimum than ruin-and-recreate,
// which only ever changes which vehicle/position a unit lands on, not
// the relative order of what's left behind. Routes holding two or more
// Pinned jobs are never picked, so forced steps keep their order.
func shuffleRoute(s *vrpsolution.Solution, rng *rand.Rand) {
	in := s.Input
	var candidates []int
	for v := range s.Routes {
		if len(s.Routes[v].Stops) < 2 {
			continue
		}
		pinned := 0
		for _, job := range s.Routes[v].Stops {
			if s.Pinned[job] {
				pinned++
			}
		}
		if pinned < 2 {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return
	}
	v := candidates[rng.Intn(len(candidates))]
	stops := s.Routes[v].Stops

	units := routeUnits(in, stops)
	rng.Shuffle(len(units), func(i, j int) { units[i], units[j] = units[j], units[i] })
	newStops := make([]vrpmodel.JobRank, 0, len(stops))
	for _, u := range units {
		newStops = append(newStops, u...)
	}

	trial := vrpsolution.TryReorder(in, &s.Routes[v], newStops)
	if trial.Feasible {
		s.Routes[v] = trial.Route
	}
}

// swapNonImproving perturbs the search by committing one of Exchange's
// candidate moves that hill-climbing would never take on its own
// (spec.md §4.6's "swap of two non-improving moves") — DeltaCost >= 0
// is exactly what internal/search's core loop rejects, so sampling
// from that rejected side of the candidate set explores positions the
// greedy driver structurally can't reach by itself. Falls back to the
// first shuffled candidate if every one happens to improve.
func swapNonImproving(s *vrpsolution.Solution, rng *rand.Rand) {
	candidates := operators.GenerateExchange(s)
	if len(candidates) == 0 {
		return
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	chosen := candidates[0]
	for _, mv := range candidates {
		if mv.DeltaCost >= 0 {
			chosen = mv
			break
		}
	}
	chosen.Apply(s)
}
