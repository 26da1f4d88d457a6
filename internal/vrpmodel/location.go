package vrpmodel

// LocationIndex is a dense index in [0, L) into Input.Locations. Two
// locations are equal iff their resolved index is equal (spec.md §3).
type LocationIndex int

// Location is a canonicalized point: a coordinate pair, a user-supplied
// matrix index, or both.
type Location struct {
	Index     LocationIndex
	Lon, Lat  float64
	HasCoords bool
	// RawIndex is the user-supplied matrix index this location resolved
	// from, if any; -1 if the location only carried coordinates.
	RawIndex int
}
