package vrpmodel

// JobKind distinguishes a standalone task from one half of a shipment.
type JobKind int

const (
	JobSingle JobKind = iota
	JobPickup
	JobDelivery
)

func (k JobKind) String() string {
	switch k {
	case JobPickup:
		return "pickup"
	case JobDelivery:
		return "delivery"
	default:
		return "single"
	}
}

// JobRank is the position of a job within Input.Jobs — the "global job
// array" referenced throughout spec.md §3/§4.
type JobRank int

// Job is an atomic task to be served at a location.
type Job struct {
	ID       uint64
	Kind     JobKind
	Location LocationIndex
	Setup    Seconds
	Service  Seconds

	// Delivery is the amount carried to the location (reduces load when
	// served); Pickup is the amount collected there (increases load).
	// For a shipment the pickup half carries the shipment amount as
	// Pickup and the delivery half carries it as Delivery; the other
	// field of each half is zero.
	Delivery Amount
	Pickup   Amount

	Skills      SkillSet
	Priority    int // 0..100
	TimeWindows []TimeWindow
	Description string

	// Partner is the rank of the other half of a shipment, or -1 for a
	// Single job.
	Partner JobRank
}

// IsShipmentHalf reports whether j is one side of a pickup/delivery pair.
func (j Job) IsShipmentHalf() bool {
	return j.Kind == JobPickup || j.Kind == JobDelivery
}
