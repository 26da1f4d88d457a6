package search

import "math/rand"

// weights is a small roulette-wheel selector over a fixed number of
// operator slots, adapted online by reward after each application
// (spec.md §4.4's "adaptive" in Adaptive Large Neighborhood Search).
// Grounded on the teacher's internal/opt/alns_engine.go weight-update
// loop, generalized to an arbitrary slot count.
type weights struct {
	w     []float64
	decay float64
}

func newWeights(initial []float64, decay float64) *weights {
	w := make([]float64, len(initial))
	copy(w, initial)
	return &weights{w: w, decay: decay}
}

// pick returns a slot index chosen with probability proportional to its
// current weight.
func (w *weights) pick(rng *rand.Rand) int {
	var total float64
	for _, v := range w.w {
		total += v
	}
	if total <= 0 {
		return rng.Intn(len(w.w))
	}
	r := rng.Float64() * total
	var cum float64
	for i, v := range w.w {
		cum += v
		if r <= cum {
			return i
		}
	}
	return len(w.w) - 1
}

// reward increases slot i's weight on success, and every slot decays
// slightly on every call so stale good luck doesn't dominate forever.
func (w *weights) reward(i int, improved bool) {
	for j := range w.w {
		w.w[j] *= w.decay
		if w.w[j] < 0.05 {
			w.w[j] = 0.05
		}
	}
	if improved {
		w.w[i] += 1
	}
}
