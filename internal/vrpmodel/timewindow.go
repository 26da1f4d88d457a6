package vrpmodel

import "sort"

// Seconds is a duration expressed in problem units. Internally every
// Seconds value that participates in schedule propagation has already
// been scaled by the owning vehicle's speed factor, except where a
// field is documented as "user seconds" (spec.md §9, max_travel_time).
type Seconds int64

// TimeWindow is a closed [Start, End] interval, Start <= End.
type TimeWindow struct {
	Start Seconds
	End   Seconds
}

// Contains reports whether t falls within the window, inclusive on both
// ends: spec.md §8 requires a zero-width window to accept an arrival
// exactly at that instant, which rules out a genuinely half-open test.
func (w TimeWindow) Contains(t Seconds) bool {
	return t >= w.Start && t <= w.End
}

// SortTimeWindows sorts windows ascending by start; callers validate
// disjointness separately (Input construction rejects overlaps).
func SortTimeWindows(ws []TimeWindow) {
	sort.Slice(ws, func(i, j int) bool { return ws[i].Start < ws[j].Start })
}

// Disjoint reports whether ws is sorted and pairwise non-overlapping.
func Disjoint(ws []TimeWindow) bool {
	for i := 1; i < len(ws); i++ {
		if ws[i].Start < ws[i-1].End {
			return false
		}
	}
	return true
}

// EarliestFeasible returns the smallest t' >= t that lies in one of ws,
// and the window it fell into. ok is false if no window at or after t
// exists.
func EarliestFeasible(ws []TimeWindow, t Seconds) (Seconds, int, bool) {
	for i, w := range ws {
		if t <= w.End {
			if t < w.Start {
				return w.Start, i, true
			}
			return t, i, true
		}
	}
	return 0, -1, false
}

// LatestFeasible returns the largest t' <= t that lies in one of ws,
// and the window it fell into. ok is false if no window at or before t
// exists.
func LatestFeasible(ws []TimeWindow, t Seconds) (Seconds, int, bool) {
	for i := len(ws) - 1; i >= 0; i-- {
		w := ws[i]
		if t >= w.Start {
			if t > w.End {
				return w.End, i, true
			}
			return t, i, true
		}
	}
	return 0, -1, false
}
