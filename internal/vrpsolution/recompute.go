package vrpsolution

import "vrpengine/internal/vrpmodel"

// Recompute rebuilds every cached array for r from scratch given its
// current Stops order. This is the only place the caches are written;
// everything else in this package and in internal/operators only reads
// them (spec.md §4.3, Design Note "Mutable caches tied to routes").
func Recompute(in *vrpmodel.Input, r *Route) {
	v := in.VehicleByRank(r.Vehicle)
	n := len(r.Stops)
	r.Load = make([]vrpmodel.Amount, n)
	r.Earliest = make([]vrpmodel.Seconds, n)
	r.Latest = make([]vrpmodel.Seconds, n)
	r.TravelTime = make([]vrpmodel.Seconds, n)
	r.TravelTimeUser = make([]vrpmodel.Seconds, n)
	r.TravelDist = make([]int64, n)
	r.FirstVisit = make([]bool, n)
	r.Breaks = nil
	r.Feasible = true

	if n == 0 {
		r.PrefixMaxLoad, r.PrefixMinLoad = nil, nil
		r.SuffixMaxLoad, r.SuffixMinLoad = nil, nil
		r.LocationVisits = map[vrpmodel.LocationIndex]int{}
		r.Initial = vrpmodel.NewAmount(len(v.Capacity))
		r.SetupAmbiguous = len(v.Breaks) > 0
		return
	}

	r.Initial = InitialLoad(in, r.Stops, len(v.Capacity))
	loadAtEachPosition(in, r, r.Initial)
	r.PrefixMaxLoad, r.PrefixMinLoad = prefixLoadBounds(r.Load)
	r.SuffixMaxLoad, r.SuffixMinLoad = suffixLoadBounds(r.Load)
	r.LocationVisits = countLocationVisits(in, r.Stops)
	r.AnyJobHasSetup = anyJobHasSetup(in, r.Stops)
	r.SetupAmbiguous = setupAmbiguous(r, v)

	rawEarliest, rawArrival, okFwd := forwardRaw(in, r, v)
	if !okFwd {
		r.Feasible = false
	}

	placements := placeBreaks(in, r, v, rawArrival)
	r.Breaks = placements.scheduled

	applyForwardWithBreaks(r, rawEarliest, placements)
	if !backward(in, r, v, placements) {
		r.Feasible = false
	}

	if r.Feasible {
		r.Feasible = r.Initial.LessOrEqual(v.Capacity) && checkCapacity(v.Capacity, r.Load) && checkBreakMaxLoad(in, r, v)
	}
}

func loadAtEachPosition(in *vrpmodel.Input, r *Route, initial vrpmodel.Amount) {
	cur := initial.Clone()
	for i, rank := range r.Stops {
		j := in.JobByRank(rank)
		cur = cur.Sub(j.Delivery).Add(j.Pickup)
		r.Load[i] = cur.Clone()
	}
}

func anyJobHasSetup(in *vrpmodel.Input, stops []vrpmodel.JobRank) bool {
	for _, rank := range stops {
		if in.JobByRank(rank).Setup != 0 {
			return true
		}
	}
	return false
}

// setupAmbiguous reports whether a local patch around one changed
// position could get FirstVisit/Setup timing wrong elsewhere on the
// route (see Route.SetupAmbiguous).
func setupAmbiguous(r *Route, v *vrpmodel.Vehicle) bool {
	if len(v.Breaks) > 0 {
		return true
	}
	if !r.AnyJobHasSetup {
		return false
	}
	for _, count := range r.LocationVisits {
		if count > 1 {
			return true
		}
	}
	return false
}

// prefixLoadBounds returns, for each i, the component-wise max/min of
// loads[0..i].
func prefixLoadBounds(loads []vrpmodel.Amount) (max, min []vrpmodel.Amount) {
	n := len(loads)
	if n == 0 {
		return nil, nil
	}
	max = make([]vrpmodel.Amount, n)
	min = make([]vrpmodel.Amount, n)
	max[0] = loads[0].Clone()
	min[0] = loads[0].Clone()
	for i := 1; i < n; i++ {
		max[i] = max[i-1].Max(loads[i])
		min[i] = min[i-1].Min(loads[i])
	}
	return max, min
}

// suffixLoadBounds returns, for each i, the component-wise max/min of
// loads[i..len-1].
func suffixLoadBounds(loads []vrpmodel.Amount) (max, min []vrpmodel.Amount) {
	n := len(loads)
	if n == 0 {
		return nil, nil
	}
	max = make([]vrpmodel.Amount, n)
	min = make([]vrpmodel.Amount, n)
	max[n-1] = loads[n-1].Clone()
	min[n-1] = loads[n-1].Clone()
	for i := n - 2; i >= 0; i-- {
		max[i] = max[i+1].Max(loads[i])
		min[i] = min[i+1].Min(loads[i])
	}
	return max, min
}

func countLocationVisits(in *vrpmodel.Input, stops []vrpmodel.JobRank) map[vrpmodel.LocationIndex]int {
	counts := make(map[vrpmodel.LocationIndex]int, len(stops))
	for _, rank := range stops {
		counts[in.JobByRank(rank).Location]++
	}
	return counts
}

func checkCapacity(cap vrpmodel.Amount, loads []vrpmodel.Amount) bool {
	for _, l := range loads {
		if !l.GreaterOrEqualZero() || !l.LessOrEqual(cap) {
			return false
		}
	}
	return true
}

func checkBreakMaxLoad(in *vrpmodel.Input, r *Route, v *vrpmodel.Vehicle) bool {
	for _, b := range r.Breaks {
		br := findBreak(v, b.BreakID)
		if br == nil || br.MaxLoad == nil {
			continue
		}
		var load vrpmodel.Amount
		if b.AfterPos < 0 {
			load = InitialLoad(in, r.Stops, len(br.MaxLoad))
		} else {
			load = r.Load[b.AfterPos]
		}
		if !load.LessOrEqual(br.MaxLoad) {
			return false
		}
	}
	return true
}

func findBreak(v *vrpmodel.Vehicle, id uint64) *vrpmodel.Break {
	for i := range v.Breaks {
		if v.Breaks[i].ID == id {
			return &v.Breaks[i]
		}
	}
	return nil
}

// forwardRaw computes, ignoring break delays, the earliest feasible
// service start at every position plus the unclamped arrival time (used
// to decide where breaks fall). It also fills TravelTime/TravelTimeUser/
// TravelDist/FirstVisit, which break placement never perturbs.
func forwardRaw(in *vrpmodel.Input, r *Route, v *vrpmodel.Vehicle) (earliest []vrpmodel.Seconds, arrival []vrpmodel.Seconds, ok bool) {
	n := len(r.Stops)
	earliest = make([]vrpmodel.Seconds, n)
	arrival = make([]vrpmodel.Seconds, n)

	t := v.TimeWindow.Start
	var cumTravel vrpmodel.Seconds
	var cumTravelUser vrpmodel.Seconds
	var cumDist int64
	seen := map[vrpmodel.LocationIndex]bool{}
	prevLoc, hasPrev := locationAt(in, v, r.Stops, -1)

	for i, rank := range r.Stops {
		j := in.JobByRank(rank)
		if hasPrev {
			userSec, scaledSec, distM, legOK := travelLeg(in, v, prevLoc, j.Location)
			if !legOK {
				r.Feasible = false
				return earliest, arrival, false
			}
			t += scaledSec
			cumTravel += scaledSec
			cumTravelUser += vrpmodel.Seconds(userSec)
			cumDist += distM
		}
		arrival[i] = t
		first := !seen[j.Location]
		seen[j.Location] = true
		r.FirstVisit[i] = first
		if first {
			t += j.Setup
		}
		if len(j.TimeWindows) > 0 {
			est, _, winOK := vrpmodel.EarliestFeasible(j.TimeWindows, t)
			if !winOK {
				r.Feasible = false
				return earliest, arrival, false
			}
			t = est
		}
		earliest[i] = t
		t += j.Service
		r.TravelTime[i] = cumTravel
		r.TravelTimeUser[i] = cumTravelUser
		r.TravelDist[i] = cumDist
		prevLoc, hasPrev = j.Location, true
	}
	return earliest, arrival, true
}

type breakPlacements struct {
	scheduled []ScheduledBreak
	// delayAfter[i] is the total break service time scheduled at or
	// before position i (AfterPos <= i), used to shift downstream
	// earliest/latest times.
	delayAfter []vrpmodel.Seconds
}

// placeBreaks schedules each break greedily in window order into the
// gap bracketed by the raw arrival times it falls between (spec.md
// §4.3: "breaks are placed greedily in window order between the
// positions whose fwd_earliest brackets each break window").
func placeBreaks(in *vrpmodel.Input, r *Route, v *vrpmodel.Vehicle, rawArrival []vrpmodel.Seconds) breakPlacements {
	n := len(r.Stops)
	out := breakPlacements{delayAfter: make([]vrpmodel.Seconds, n)}
	if len(v.Breaks) == 0 {
		return out
	}
	breaks := append([]vrpmodel.Break(nil), v.Breaks...)
	// sort by earliest window start
	for i := 1; i < len(breaks); i++ {
		for j := i; j > 0 && breaks[j].TimeWindows[0].Start < breaks[j-1].TimeWindows[0].Start; j-- {
			breaks[j], breaks[j-1] = breaks[j-1], breaks[j]
		}
	}

	var cumDelay vrpmodel.Seconds
	for _, br := range breaks {
		start := br.TimeWindows[0].Start
		pos := n - 1 // default: after the last stop
		for i := 0; i < n; i++ {
			if rawArrival[i]+cumDelay >= start {
				pos = i - 1
				break
			}
		}
		out.scheduled = append(out.scheduled, ScheduledBreak{BreakID: br.ID, AfterPos: pos, Start: start, End: start + br.Service})
		cumDelay += br.Service
		for i := pos + 1; i < n; i++ {
			out.delayAfter[i] += br.Service
		}
	}
	return out
}

func applyForwardWithBreaks(r *Route, rawEarliest []vrpmodel.Seconds, p breakPlacements) {
	for i := range r.Earliest {
		r.Earliest[i] = rawEarliest[i] + p.delayAfter[i]
	}
}

// backward computes Latest from the vehicle's closing time window,
// mirroring the break placement decided by placeBreaks so the two
// passes agree on where slack is consumed.
func backward(in *vrpmodel.Input, r *Route, v *vrpmodel.Vehicle, p breakPlacements) bool {
	n := len(r.Stops)
	bound := v.TimeWindow.End
	if v.End != nil && n > 0 {
		last := in.JobByRank(r.Stops[n-1])
		_, scaledSec, _, ok := travelLeg(in, v, last.Location, *v.End)
		if !ok {
			return false
		}
		bound -= scaledSec
	}
	totalDelay := vrpmodel.Seconds(0)
	for _, b := range p.scheduled {
		totalDelay += b.End - b.Start
	}
	bound -= totalDelay - p.delayAfter[n-1]

	for i := n - 1; i >= 0; i-- {
		j := in.JobByRank(r.Stops[i])
		latestEnd := bound
		latestStart := latestEnd - j.Service
		if len(j.TimeWindows) > 0 {
			lat, _, ok := vrpmodel.LatestFeasible(j.TimeWindows, latestStart)
			if !ok {
				return false
			}
			latestStart = lat
		}
		r.Latest[i] = latestStart
		if r.Earliest[i] > r.Latest[i] {
			return false
		}
		if i > 0 {
			prev := in.JobByRank(r.Stops[i-1])
			_, scaledSec, _, ok := travelLeg(in, v, prev.Location, j.Location)
			if !ok {
				return false
			}
			delayBetween := p.delayAfter[i] - p.delayAfter[i-1]
			bound = latestStart - scaledSec - delayBetween
			if r.FirstVisit[i] {
				bound -= j.Setup
			}
		}
	}
	if v.Start != nil && n > 0 {
		first := in.JobByRank(r.Stops[0])
		_, scaledSec, _, ok := travelLeg(in, v, *v.Start, first.Location)
		if !ok {
			return false
		}
		startBound := r.Latest[0] - scaledSec - p.delayAfter[0]
		if r.FirstVisit[0] {
			startBound -= first.Setup
		}
		if startBound < v.TimeWindow.Start {
			return false
		}
	}
	return true
}
