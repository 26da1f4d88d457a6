package vrpmodel

// TravelMatrix is a profile's duration/distance matrix restricted to the
// subset of locations actually referenced under that profile (spec.md
// §4.2: "obtained from the routing oracle lazily, only for the location
// subset actually referenced").
type TravelMatrix struct {
	locals  []LocationIndex       // local index -> global index
	localOf map[LocationIndex]int // global index -> local index
	dur     [][]int64
	dist    [][]int64
}

// Duration returns the travel duration in seconds from->to, and false if
// either location was not part of this matrix's referenced subset or the
// oracle reported the pair unreachable.
func (m *TravelMatrix) Duration(from, to LocationIndex) (int64, bool) {
	fi, ok1 := m.localOf[from]
	ti, ok2 := m.localOf[to]
	if !ok1 || !ok2 {
		return 0, false
	}
	d := m.dur[fi][ti]
	if d < 0 {
		return 0, false
	}
	return d, true
}

// Distance returns the travel distance in meters from->to, same
// contract as Duration.
func (m *TravelMatrix) Distance(from, to LocationIndex) (int64, bool) {
	fi, ok1 := m.localOf[from]
	ti, ok2 := m.localOf[to]
	if !ok1 || !ok2 {
		return 0, false
	}
	d := m.dist[fi][ti]
	if d < 0 {
		return 0, false
	}
	return d, true
}

// Input is the immutable, canonicalized problem instance (spec.md §3,
// §4.2). It never changes after Builder.Build returns.
type Input struct {
	Jobs     []Job
	Vehicles []Vehicle
	Locations []Location
	K         int // capacity dimension count

	// SkillUniverse maps a raw skill id to its dense bit index.
	SkillUniverse map[uint64]int

	matrices map[string]*TravelMatrix

	// VehicleJobCompat[v][j] is true iff vehicle v can plausibly serve
	// job j (skills, capacity, time-window overlap, reachability).
	// A conservative over-approximation used only to prune candidate
	// generation — the constraint evaluators are the source of truth.
	VehicleJobCompat [][]bool
	// VehicleVehicleCompat[v1][v2] is true iff the sets of jobs both can
	// serve intersect, used to prune inter-route operators.
	VehicleVehicleCompat [][]bool

	// ForcedByVehicle[v] lists, in the order the input declared them,
	// the job ranks that vehicle v's forced steps (spec.md §6
	// VehicleStep, kinds job/pickup/delivery) pin to v. A shipment half
	// pulls its partner in immediately adjacent to it, pickup first, even if only one
	// half was named explicitly, since a shipment can never split
	// across vehicles (spec.md §3).
	ForcedByVehicle [][]JobRank

	jobIDIndex map[uint64]JobRank
}

// JobRankByID returns the rank of the job with the given input id.
func (in *Input) JobRankByID(id uint64) (JobRank, bool) {
	r, ok := in.jobIDIndex[id]
	return r, ok
}

// Matrix returns the travel matrix for profile, if one was built.
func (in *Input) Matrix(profile string) (*TravelMatrix, bool) {
	m, ok := in.matrices[profile]
	return m, ok
}

// JobByRank returns the job at the given rank.
func (in *Input) JobByRank(r JobRank) *Job {
	return &in.Jobs[r]
}

// VehicleByRank returns the vehicle at the given rank.
func (in *Input) VehicleByRank(r VehicleRank) *Vehicle {
	return &in.Vehicles[r]
}
