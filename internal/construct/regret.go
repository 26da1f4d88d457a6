package construct

import (
	"sort"

	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// placement is one feasible (vehicle, position) insertion point found
// for a unit, with its resulting route and cost delta.
type placement struct {
	vehicle vrpmodel.VehicleRank
	posP    int
	posD    int // unused for single jobs
	trial   vrpsolution.InsertionTrial
}

// bestPlacements returns, for unit u, up to k feasible placements sorted
// by ascending DeltaCost — the input to regret scoring.
func bestPlacements(s *vrpsolution.Solution, u unit, k int) []placement {
	var found []placement
	for vi := range s.Input.Vehicles {
		vr := vrpmodel.VehicleRank(vi)
		if !s.Input.VehicleJobCompat[vi][u.pickup] {
			continue
		}
		if u.isShipment() && !s.Input.VehicleJobCompat[vi][u.delivery] {
			continue
		}
		n := len(s.Routes[vr].Stops)
		if !u.isShipment() {
			for pos := 0; pos <= n; pos++ {
				t := vrpsolution.TryInsertSingle(s, vr, pos, u.pickup)
				if t.Feasible {
					found = append(found, placement{vehicle: vr, posP: pos, trial: t})
				}
			}
			continue
		}
		for posP := 0; posP <= n; posP++ {
			for posD := posP + 1; posD <= n+1; posD++ {
				t := vrpsolution.TryInsertShipment(s, vr, posP, posD, u.pickup, u.delivery)
				if t.Feasible {
					found = append(found, placement{vehicle: vr, posP: posP, posD: posD, trial: t})
				}
			}
		}
	}
	sort.SliceStable(found, func(a, b int) bool {
		if found[a].trial.DeltaCost != found[b].trial.DeltaCost {
			return found[a].trial.DeltaCost < found[b].trial.DeltaCost
		}
		// Equal-cost placements tie-break toward the later position:
		// spec.md §8 scenario 1's triangle-inequality tie (both [B,C]
		// and [C,B] cost the same) must resolve to ascending job id,
		// which this achieves by preferring to append a new unit after
		// whatever is already on the route rather than prepend ahead of
		// it (earlier units are committed in ascending-id order first).
		return found[a].posP > found[b].posP
	})
	if len(found) > k {
		found = found[:k]
	}
	return found
}

// regret scores a unit by how much it costs to defer inserting it: the
// classic regret-k sum of (k-th best delta - best delta), so a unit with
// few/expensive alternatives is inserted before one with many cheap
// ones (spec.md §4.4). For k >= 2, units with a single feasible
// placement score maximal regret (they must go now or never).
func regretScore(best []placement, k int) (score float64, ok bool) {
	if len(best) == 0 {
		return 0, false
	}
	first := float64(best[0].trial.DeltaCost)
	if k <= 1 {
		// no lookahead: prefer the cheapest feasible placement overall
		// (teacher's greedyInsert), encoded as a score so the same
		// max-score selection loop works for both modes.
		return -first, true
	}
	if len(best) == 1 {
		return 1 << 62, true
	}
	var sum float64
	limit := k
	if limit > len(best) {
		limit = len(best)
	}
	for i := 1; i < limit; i++ {
		sum += float64(best[i].trial.DeltaCost) - first
	}
	return sum, true
}

// RegretInsert repeatedly inserts the unassigned unit with highest
// regret-k score until no feasible insertion remains for any remaining
// unit (spec.md §4.4 construction termination). k is typically 2-4.
func RegretInsert(s *vrpsolution.Solution, k int, seed Seed) {
	for {
		units := SeedOrder(s, seed)
		if len(units) == 0 {
			return
		}

		type scored struct {
			u     unit
			best  []placement
			score float64
		}
		var candidates []scored
		for _, u := range units {
			best := bestPlacements(s, u, k)
			score, ok := regretScore(best, k)
			if !ok {
				continue // no feasible placement anywhere; leave unassigned
			}
			candidates = append(candidates, scored{u: u, best: best, score: score})
		}
		if len(candidates) == 0 {
			return // nothing left can be placed
		}

		sort.SliceStable(candidates, func(a, b int) bool {
			if candidates[a].score != candidates[b].score {
				return candidates[a].score > candidates[b].score
			}
			return s.Input.JobByRank(candidates[a].u.pickup).ID < s.Input.JobByRank(candidates[b].u.pickup).ID
		})

		chosen := candidates[0]
		p := chosen.best[0]
		commitPlacement(s, chosen.u, p)
	}
}

// GreedyInsert is RegretInsert with k==1: always take the single
// cheapest feasible placement, no lookahead (teacher's greedyInsert).
func GreedyInsert(s *vrpsolution.Solution, seed Seed) {
	RegretInsert(s, 1, seed)
}

func commitPlacement(s *vrpsolution.Solution, u unit, p placement) {
	s.Routes[p.vehicle] = p.trial.Route
	s.Unassigned[u.pickup] = false
	if u.isShipment() {
		s.Unassigned[u.delivery] = false
	}
}
