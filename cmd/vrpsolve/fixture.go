package main

import (
	"encoding/json"
	"fmt"
	"os"

	"vrpengine/internal/vrpmodel"
)

// fixtureInput mirrors spec.md §6's input JSON schema just closely
// enough for this harness to exercise the engine end-to-end; it is not
// the production decoder (out of scope per the same section). Matrices
// supplied inline in the fixture ("matrices"/"matrix") are not
// supported here — the harness always routes through a RoutingOracle
// (oracle.Haversine by default), so every location needs coordinates.
type fixtureInput struct {
	Jobs      []fixtureJob      `json:"jobs"`
	Shipments []fixtureShipment `json:"shipments"`
	Vehicles  []fixtureVehicle  `json:"vehicles"`
}

type fixtureJob struct {
	ID            uint64      `json:"id"`
	Location      *[2]float64 `json:"location"`
	LocationIndex *int        `json:"location_index"`
	Setup         uint64      `json:"setup"`
	Service       uint64      `json:"service"`
	Delivery      []int64     `json:"delivery"`
	Pickup        []int64     `json:"pickup"`
	Amount        []int64     `json:"amount"` // deprecated alias for delivery
	Skills        []uint64    `json:"skills"`
	Priority      int         `json:"priority"`
	TimeWindows   [][2]uint64 `json:"time_windows"`
	Description   string      `json:"description"`
}

type fixtureShipment struct {
	Pickup   fixtureJob `json:"pickup"`
	Delivery fixtureJob `json:"delivery"`
	Amount   []int64    `json:"amount"`
	Skills   []uint64   `json:"skills"`
	Priority int        `json:"priority"`
}

type fixtureBreak struct {
	ID          uint64      `json:"id"`
	TimeWindows [][2]uint64 `json:"time_windows"`
	Service     uint64      `json:"service"`
	MaxLoad     []int64     `json:"max_load"`
}

type fixtureVehicleCost struct {
	Fixed   *int64 `json:"fixed"`
	PerHour *int64 `json:"per_hour"`
	PerKM   *int64 `json:"per_km"`
}

type fixtureVehicleStep struct {
	Type          string  `json:"type"`
	ID            uint64  `json:"id"`
	ServiceAt     *uint64 `json:"service_at"`
	ServiceAfter  *uint64 `json:"service_after"`
	ServiceBefore *uint64 `json:"service_before"`
}

type fixtureVehicle struct {
	ID            uint64              `json:"id"`
	Start         *[2]float64         `json:"start"`
	StartIndex    *int                `json:"start_index"`
	End           *[2]float64         `json:"end"`
	EndIndex      *int                `json:"end_index"`
	Profile       string              `json:"profile"`
	Capacity      []int64             `json:"capacity"`
	Skills        []uint64            `json:"skills"`
	TW            [2]uint64           `json:"tw"`
	Breaks        []fixtureBreak      `json:"breaks"`
	Cost          fixtureVehicleCost  `json:"cost"`
	SpeedFactor   float64             `json:"speed_factor"`
	MaxTasks      *int                `json:"max_tasks"`
	MaxTravelTime *uint64             `json:"max_travel_time"`
	MaxDistance   *uint64             `json:"max_distance"`
	Steps         []fixtureVehicleStep `json:"steps"`
}

// loadFixture decodes path's JSON into a vrpmodel.Builder, the way the
// out-of-scope production decoder would, except scoped to exactly the
// fields this harness needs.
func loadFixture(path string) (*vrpmodel.Builder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fx fixtureInput
	if err := json.NewDecoder(f).Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	b := &vrpmodel.Builder{}
	for _, j := range fx.Jobs {
		b.Jobs = append(b.Jobs, convertJob(j))
	}
	for _, s := range fx.Shipments {
		b.Shipments = append(b.Shipments, vrpmodel.RawShipment{
			Pickup:   convertJob(s.Pickup),
			Delivery: convertJob(s.Delivery),
			Amount:   s.Amount,
			Skills:   s.Skills,
			Priority: s.Priority,
		})
	}
	for _, v := range fx.Vehicles {
		b.Vehicles = append(b.Vehicles, convertVehicle(v))
	}
	return b, nil
}

func convertLocation(coords *[2]float64, index *int) vrpmodel.RawLocation {
	var loc vrpmodel.RawLocation
	if coords != nil {
		lon, lat := coords[0], coords[1]
		loc.Lon, loc.Lat = &lon, &lat
	}
	if index != nil {
		i := *index
		loc.Index = &i
	}
	return loc
}

func convertJob(j fixtureJob) vrpmodel.RawJob {
	delivery := j.Delivery
	if len(delivery) == 0 {
		delivery = j.Amount
	}
	return vrpmodel.RawJob{
		ID:          j.ID,
		Location:    convertLocation(j.Location, j.LocationIndex),
		Setup:       j.Setup,
		Service:     j.Service,
		Delivery:    vrpmodel.Amount(delivery),
		Pickup:      vrpmodel.Amount(j.Pickup),
		Skills:      j.Skills,
		Priority:    j.Priority,
		TimeWindows: j.TimeWindows,
		Description: j.Description,
	}
}

func convertStepKind(t string) vrpmodel.StepKind {
	switch t {
	case "start":
		return vrpmodel.StepStart
	case "end":
		return vrpmodel.StepEnd
	case "pickup":
		return vrpmodel.StepPickup
	case "delivery":
		return vrpmodel.StepDelivery
	case "break":
		return vrpmodel.StepBreak
	default:
		return vrpmodel.StepJob
	}
}

func convertVehicle(v fixtureVehicle) vrpmodel.RawVehicle {
	rv := vrpmodel.RawVehicle{
		ID:            v.ID,
		Profile:       v.Profile,
		Capacity:      vrpmodel.Amount(v.Capacity),
		Skills:        v.Skills,
		TimeWindow:    v.TW,
		SpeedFactor:   v.SpeedFactor,
		MaxTasks:      v.MaxTasks,
		MaxTravelTime: v.MaxTravelTime,
		MaxDistance:   v.MaxDistance,
		Cost: vrpmodel.RawVehicleCost{
			Fixed:   v.Cost.Fixed,
			PerHour: v.Cost.PerHour,
			PerKM:   v.Cost.PerKM,
		},
	}
	if v.Start != nil || v.StartIndex != nil {
		loc := convertLocation(v.Start, v.StartIndex)
		rv.Start = &loc
	}
	if v.End != nil || v.EndIndex != nil {
		loc := convertLocation(v.End, v.EndIndex)
		rv.End = &loc
	}
	for _, br := range v.Breaks {
		rv.Breaks = append(rv.Breaks, vrpmodel.RawBreak{
			ID:          br.ID,
			TimeWindows: br.TimeWindows,
			Service:     br.Service,
			MaxLoad:     vrpmodel.Amount(br.MaxLoad),
		})
	}
	for _, st := range v.Steps {
		rv.ForcedSteps = append(rv.ForcedSteps, vrpmodel.RawForcedStep{
			Kind:          convertStepKind(st.Type),
			JobID:         st.ID,
			BreakID:       st.ID,
			ServiceAt:     st.ServiceAt,
			ServiceAfter:  st.ServiceAfter,
			ServiceBefore: st.ServiceBefore,
		})
	}
	return rv
}
