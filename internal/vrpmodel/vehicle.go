package vrpmodel

// VehicleRank is the position of a vehicle within Input.Vehicles, and
// also the index of its route within a Solution.
type VehicleRank int

// Break belongs to exactly one vehicle and is scheduled deterministically
// from the route's job sequence rather than stored in it (spec.md §3).
type Break struct {
	ID          uint64
	TimeWindows []TimeWindow
	Service     Seconds
	// MaxLoad bounds the vehicle's load at break time; nil means unset.
	MaxLoad Amount
}

// VehicleCost is the linear cost model of spec.md §4.1.
type VehicleCost struct {
	Fixed   int64 // charged once if the vehicle is used
	PerHour int64 // cost per hour of (speed-scaled) travel time
	PerKM   int64 // cost per kilometer of travel distance
}

// StepKind enumerates the forced-step kinds a vehicle may be pinned to.
type StepKind int

const (
	StepStart StepKind = iota
	StepEnd
	StepJob
	StepPickup
	StepDelivery
	StepBreak
)

// ForcedStep pins part of a vehicle's route, per spec.md §6 VehicleStep.
type ForcedStep struct {
	Kind          StepKind
	JobID         uint64 // meaningful for StepJob/StepPickup/StepDelivery
	BreakID       uint64 // meaningful for StepBreak
	ServiceAt     *Seconds
	ServiceAfter  *Seconds
	ServiceBefore *Seconds
}

// Vehicle is one unit of the fleet.
type Vehicle struct {
	ID      uint64
	Start   *LocationIndex
	End     *LocationIndex
	Profile string
	Capacity Amount
	Skills   SkillSet
	TimeWindow TimeWindow
	Breaks     []Break
	Cost       VehicleCost
	SpeedFactor float64

	MaxTasks      *int
	MaxTravelTime *Seconds // user seconds, before speed-factor scaling (spec.md §9)
	MaxDistance   *int64   // meters

	ForcedSteps []ForcedStep
}
