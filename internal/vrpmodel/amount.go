// Package vrpmodel holds the immutable problem representation: locations,
// capacity amounts, skills, time windows, jobs, vehicles and the
// canonicalized Input they are assembled into.
package vrpmodel

// Amount is a vector of signed capacity dimensions (weight, volume, pallet
// count, ...). All arithmetic is component-wise; there is no implicit
// broadcasting between amounts of different length.
type Amount []int64

// NewAmount returns a zero amount of length k.
func NewAmount(k int) Amount {
	return make(Amount, k)
}

// Clone returns an independent copy.
func (a Amount) Clone() Amount {
	out := make(Amount, len(a))
	copy(out, a)
	return out
}

// Add returns a+b. Panics if the lengths differ.
func (a Amount) Add(b Amount) Amount {
	a.mustMatch(b)
	out := make(Amount, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Sub returns a-b. Panics if the lengths differ.
func (a Amount) Sub(b Amount) Amount {
	a.mustMatch(b)
	out := make(Amount, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// LessOrEqual reports whether a[i] <= b[i] for every dimension i
// (component-wise, not lexicographic — spec.md §3 is explicit about this).
func (a Amount) LessOrEqual(b Amount) bool {
	a.mustMatch(b)
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

// Max returns the component-wise maximum of a and b. Panics if the
// lengths differ.
func (a Amount) Max(b Amount) Amount {
	a.mustMatch(b)
	out := make(Amount, len(a))
	for i := range a {
		if a[i] >= b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// Min returns the component-wise minimum of a and b. Panics if the
// lengths differ.
func (a Amount) Min(b Amount) Amount {
	a.mustMatch(b)
	out := make(Amount, len(a))
	for i := range a {
		if a[i] <= b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// GreaterOrEqualZero reports whether every dimension is >= 0.
func (a Amount) GreaterOrEqualZero() bool {
	for _, v := range a {
		if v < 0 {
			return false
		}
	}
	return true
}

// IsZero reports whether every dimension is exactly zero.
func (a Amount) IsZero() bool {
	for _, v := range a {
		if v != 0 {
			return false
		}
	}
	return true
}

func (a Amount) mustMatch(b Amount) {
	if len(a) != len(b) {
		panic("vrpmodel: amount dimension mismatch")
	}
}
