package vrpmodel

// RawLocation is a location as it arrives from the (out-of-scope)
// decoder: a coordinate pair, a user-supplied matrix index, or both.
// At least one of the two must be set.
type RawLocation struct {
	Lon, Lat *float64
	Index    *int
}

// RawJob is a job as it arrives from the decoder, before canonicalization.
type RawJob struct {
	ID          uint64
	Kind        JobKind
	Location    RawLocation
	Setup       uint64
	Service     uint64
	Delivery    Amount
	Pickup      Amount
	Skills      []uint64
	Priority    int
	TimeWindows [][2]uint64
	Description string
}

// RawShipment is a linked pickup/delivery pair (spec.md §3 "Job").
type RawShipment struct {
	Pickup   RawJob
	Delivery RawJob
	Amount   Amount
	Skills   []uint64
	Priority int
}

// RawBreak is a vehicle break before canonicalization.
type RawBreak struct {
	ID          uint64
	TimeWindows [][2]uint64
	Service     uint64
	MaxLoad     Amount
}

// RawVehicleCost mirrors spec.md §6's optional {fixed, per_hour, per_km}.
type RawVehicleCost struct {
	Fixed   *int64
	PerHour *int64
	PerKM   *int64
}

// RawForcedStep is a user-forced step before canonicalization.
type RawForcedStep struct {
	Kind          StepKind
	JobID         uint64
	BreakID       uint64
	ServiceAt     *uint64
	ServiceAfter  *uint64
	ServiceBefore *uint64
}

// RawVehicle is a vehicle as it arrives from the decoder.
type RawVehicle struct {
	ID            uint64
	Start, End    *RawLocation
	Profile       string
	Capacity      Amount
	Skills        []uint64
	TimeWindow    [2]uint64
	Breaks        []RawBreak
	Cost          RawVehicleCost
	SpeedFactor   float64
	MaxTasks      *int
	MaxTravelTime *uint64
	MaxDistance   *uint64
	ForcedSteps   []RawForcedStep
}
