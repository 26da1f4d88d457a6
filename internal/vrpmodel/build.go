package vrpmodel

import (
	"context"
	"fmt"

	"vrpengine/internal/config"
	"vrpengine/internal/oracle"
	"vrpengine/internal/vrperrors"
)

// Builder assembles a raw problem definition into a canonicalized Input
// (spec.md §4.2 "Problem input"). It is single-use: construct one,
// populate the three slices, call Build once.
type Builder struct {
	Jobs      []RawJob
	Shipments []RawShipment
	Vehicles  []RawVehicle
}

type locKey struct {
	hasIdx bool
	idx    int
	hasCo  bool
	lon    float64
	lat    float64
}

type locationCanon struct {
	byKey []locKey
	order []Location
}

func (c *locationCanon) resolve(raw RawLocation) (LocationIndex, error) {
	if raw.Index == nil && (raw.Lon == nil || raw.Lat == nil) {
		return 0, vrperrors.NewInputError("location", "must carry a location_index or (lon,lat)")
	}
	key := locKey{}
	if raw.Index != nil {
		key.hasIdx = true
		key.idx = *raw.Index
	}
	if raw.Lon != nil && raw.Lat != nil {
		key.hasCo = true
		key.lon = *raw.Lon
		key.lat = *raw.Lat
	}
	for i, k := range c.byKey {
		if sameLocation(k, key) {
			// merge coordinates into the canonical entry if this
			// occurrence supplies ones the first didn't.
			if key.hasCo && !c.order[i].HasCoords {
				c.order[i].Lon, c.order[i].Lat, c.order[i].HasCoords = key.lon, key.lat, true
			}
			return LocationIndex(i), nil
		}
	}
	idx := LocationIndex(len(c.order))
	loc := Location{Index: idx, RawIndex: -1}
	if key.hasIdx {
		loc.RawIndex = key.idx
	}
	if key.hasCo {
		loc.Lon, loc.Lat, loc.HasCoords = key.lon, key.lat, true
	}
	c.byKey = append(c.byKey, key)
	c.order = append(c.order, loc)
	return idx, nil
}

// sameLocation reports whether two location keys resolve to the same
// canonical location. Per spec.md §3, identity is by resolved index:
// if both carry a raw matrix index, that index is authoritative;
// otherwise fall back to exact coordinate equality.
func sameLocation(a, b locKey) bool {
	if a.hasIdx && b.hasIdx {
		return a.idx == b.idx
	}
	if a.hasCo && b.hasCo {
		return a.lon == b.lon && a.lat == b.lat
	}
	return false
}

// Build validates and canonicalizes the raw definitions into an Input,
// fetching per-profile travel matrices from oracle only for the
// locations actually referenced.
func (b *Builder) Build(ctx context.Context, rt oracle.RoutingOracle, cfg config.Config) (*Input, error) {
	locs := &locationCanon{}
	skillUniverse := map[uint64]int{}
	skillBit := func(id uint64) int {
		if i, ok := skillUniverse[id]; ok {
			return i
		}
		i := len(skillUniverse)
		skillUniverse[id] = i
		return i
	}

	jobIDs := map[uint64]bool{}
	vehicleIDs := map[uint64]bool{}

	var jobs []Job
	K := -1
	checkDim := func(field string, a Amount) error {
		if len(a) == 0 {
			return nil
		}
		if K == -1 {
			K = len(a)
		} else if len(a) != K {
			return vrperrors.NewInputError(field, fmt.Sprintf("amount dimension %d does not match problem dimension %d", len(a), K))
		}
		return nil
	}

	// first pass over vehicles to fix K, since capacity is usually the
	// most reliable source of the problem's dimensionality.
	for _, v := range b.Vehicles {
		if err := checkDim("vehicle.capacity", v.Capacity); err != nil {
			return nil, err
		}
	}
	for _, j := range b.Jobs {
		if err := checkDim("job.delivery", j.Delivery); err != nil {
			return nil, err
		}
		if err := checkDim("job.pickup", j.Pickup); err != nil {
			return nil, err
		}
	}
	for _, s := range b.Shipments {
		if err := checkDim("shipment.amount", s.Amount); err != nil {
			return nil, err
		}
	}
	if K == -1 {
		K = 0
	}

	buildJob := func(raw RawJob) (Job, error) {
		if jobIDs[raw.ID] {
			return Job{}, vrperrors.NewInputError("job.id", fmt.Sprintf("duplicate job id %d", raw.ID))
		}
		jobIDs[raw.ID] = true
		loc, err := locs.resolve(raw.Location)
		if err != nil {
			return Job{}, err
		}
		tws, err := buildTimeWindows("job.time_windows", raw.TimeWindows)
		if err != nil {
			return Job{}, err
		}
		if raw.Priority < 0 || raw.Priority > 100 {
			return Job{}, vrperrors.NewInputError("job.priority", fmt.Sprintf("priority %d out of [0,100]", raw.Priority))
		}
		delivery := padAmount(raw.Delivery, K)
		pickup := padAmount(raw.Pickup, K)
		sk := NewSkillSet(len(skillUniverse) + len(raw.Skills) + 1)
		for _, s := range raw.Skills {
			sk.Set(skillBit(s))
		}
		return Job{
			ID:          raw.ID,
			Kind:        raw.Kind,
			Location:    loc,
			Setup:       Seconds(raw.Setup),
			Service:     Seconds(raw.Service),
			Delivery:    delivery,
			Pickup:      pickup,
			Skills:      sk,
			Priority:    raw.Priority,
			TimeWindows: tws,
			Description: raw.Description,
			Partner:     -1,
		}, nil
	}

	for _, raw := range b.Jobs {
		raw.Kind = JobSingle
		j, err := buildJob(raw)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	for _, s := range b.Shipments {
		amt := padAmount(s.Amount, K)
		pRaw, dRaw := s.Pickup, s.Delivery
		pRaw.Kind, dRaw.Kind = JobPickup, JobDelivery
		if len(pRaw.Delivery) == 0 && len(pRaw.Pickup) == 0 {
			pRaw.Pickup = amt
		}
		if len(dRaw.Delivery) == 0 && len(dRaw.Pickup) == 0 {
			dRaw.Delivery = amt
		}
		if len(s.Skills) > 0 {
			pRaw.Skills = s.Skills
			dRaw.Skills = s.Skills
		}
		if s.Priority != 0 {
			pRaw.Priority, dRaw.Priority = s.Priority, s.Priority
		}
		pj, err := buildJob(pRaw)
		if err != nil {
			return nil, err
		}
		dj, err := buildJob(dRaw)
		if err != nil {
			return nil, err
		}
		if !pj.Pickup.LessOrEqual(dj.Delivery) || !dj.Delivery.LessOrEqual(pj.Pickup) {
			return nil, vrperrors.NewInputError("shipment.amount", "pickup and delivery amounts must match")
		}
		pRank := JobRank(len(jobs))
		jobs = append(jobs, pj)
		dRank := JobRank(len(jobs))
		jobs = append(jobs, dj)
		jobs[pRank].Partner = dRank
		jobs[dRank].Partner = pRank
	}

	var vehicles []Vehicle
	for _, rv := range b.Vehicles {
		if vehicleIDs[rv.ID] {
			return nil, vrperrors.NewInputError("vehicle.id", fmt.Sprintf("duplicate vehicle id %d", rv.ID))
		}
		vehicleIDs[rv.ID] = true
		v := Vehicle{ID: rv.ID, Profile: rv.Profile}
		if v.Profile == "" {
			v.Profile = cfg.DefaultProfile
		}
		if rv.Start != nil {
			idx, err := locs.resolve(*rv.Start)
			if err != nil {
				return nil, err
			}
			v.Start = &idx
		}
		if rv.End != nil {
			idx, err := locs.resolve(*rv.End)
			if err != nil {
				return nil, err
			}
			v.End = &idx
		}
		v.Capacity = padAmount(rv.Capacity, K)
		sk := NewSkillSet(len(skillUniverse) + len(rv.Skills) + 1)
		for _, s := range rv.Skills {
			sk.Set(skillBit(s))
		}
		v.Skills = sk
		start, end := rv.TimeWindow[0], rv.TimeWindow[1]
		if start > end {
			return nil, vrperrors.NewInputError("vehicle.tw", fmt.Sprintf("start %d > end %d", start, end))
		}
		v.TimeWindow = TimeWindow{Start: Seconds(start), End: Seconds(end)}
		v.Cost = VehicleCost{
			Fixed:   orDefault(rv.Cost.Fixed, cfg.DefaultFixed),
			PerHour: orDefault(rv.Cost.PerHour, cfg.DefaultPerHour),
			PerKM:   orDefault(rv.Cost.PerKM, cfg.DefaultPerKM),
		}
		v.SpeedFactor = rv.SpeedFactor
		if v.SpeedFactor <= 0 {
			v.SpeedFactor = 1
		}
		v.MaxTasks = rv.MaxTasks
		if rv.MaxTravelTime != nil {
			s := Seconds(*rv.MaxTravelTime)
			v.MaxTravelTime = &s
		}
		if rv.MaxDistance != nil {
			d := int64(*rv.MaxDistance)
			v.MaxDistance = &d
		}

		breakIDs := map[uint64]bool{}
		for _, rb := range rv.Breaks {
			if breakIDs[rb.ID] {
				return nil, vrperrors.NewInputError("vehicle.break.id", fmt.Sprintf("duplicate break id %d on vehicle %d", rb.ID, rv.ID))
			}
			breakIDs[rb.ID] = true
			tws, err := buildTimeWindows("vehicle.break.time_windows", rb.TimeWindows)
			if err != nil {
				return nil, err
			}
			if len(tws) == 0 {
				return nil, vrperrors.NewInputError("vehicle.break.time_windows", fmt.Sprintf("break %d needs >=1 window", rb.ID))
			}
			br := Break{ID: rb.ID, TimeWindows: tws, Service: Seconds(rb.Service)}
			if len(rb.MaxLoad) > 0 {
				br.MaxLoad = padAmount(rb.MaxLoad, K)
			}
			v.Breaks = append(v.Breaks, br)
		}
		for _, fs := range rv.ForcedSteps {
			v.ForcedSteps = append(v.ForcedSteps, convertForcedStep(fs))
		}
		vehicles = append(vehicles, v)
	}

	jobIDIndex := make(map[uint64]JobRank, len(jobs))
	for i, j := range jobs {
		jobIDIndex[j.ID] = JobRank(i)
	}
	forced, err := buildForcedByVehicle(vehicles, jobs, jobIDIndex)
	if err != nil {
		return nil, err
	}

	in := &Input{
		Jobs:            jobs,
		Vehicles:        vehicles,
		Locations:       locs.order,
		K:               K,
		SkillUniverse:   skillUniverse,
		matrices:        map[string]*TravelMatrix{},
		ForcedByVehicle: forced,
		jobIDIndex:      jobIDIndex,
	}

	if err := fetchMatrices(ctx, rt, in); err != nil {
		return nil, err
	}
	computeCompatibility(in)
	return in, nil
}

// buildForcedByVehicle resolves each vehicle's job/pickup/delivery
// forced steps (spec.md §6 VehicleStep) into an ordered job-rank
// sequence, pulling a shipment half's partner in immediately adjacent
// to it (pickup before delivery) since a shipment can never split
// across vehicles. A job forced onto two different vehicles — directly,
// or via a partner forced elsewhere — is an impossible forced step.
func buildForcedByVehicle(vehicles []Vehicle, jobs []Job, jobIDIndex map[uint64]JobRank) ([][]JobRank, error) {
	out := make([][]JobRank, len(vehicles))
	owner := map[JobRank]VehicleRank{}
	for vi := range vehicles {
		v := &vehicles[vi]
		seen := map[JobRank]bool{}
		var seq []JobRank
		for _, fs := range v.ForcedSteps {
			if fs.Kind != StepJob && fs.Kind != StepPickup && fs.Kind != StepDelivery {
				continue
			}
			rank, ok := jobIDIndex[fs.JobID]
			if !ok {
				return nil, vrperrors.NewInputError("vehicle.steps", fmt.Sprintf("forced step references unknown job id %d", fs.JobID))
			}
			if seen[rank] {
				continue
			}
			j := &jobs[rank]
			if existing, ok := owner[rank]; ok && existing != VehicleRank(vi) {
				return nil, vrperrors.NewInputError("vehicle.steps", fmt.Sprintf("job id %d forced onto multiple vehicles", fs.JobID))
			}
			if j.IsShipmentHalf() {
				if existing, ok := owner[j.Partner]; ok && existing != VehicleRank(vi) {
					return nil, vrperrors.NewInputError("vehicle.steps", fmt.Sprintf("job id %d's shipment partner is forced onto a different vehicle", fs.JobID))
				}
				if j.Kind == JobDelivery && !seen[j.Partner] {
					seq = append(seq, j.Partner)
					seen[j.Partner] = true
					owner[j.Partner] = VehicleRank(vi)
				}
			}
			seq = append(seq, rank)
			seen[rank] = true
			owner[rank] = VehicleRank(vi)
			if j.IsShipmentHalf() && j.Kind == JobPickup && !seen[j.Partner] {
				seq = append(seq, j.Partner)
				seen[j.Partner] = true
				owner[j.Partner] = VehicleRank(vi)
			}
		}
		out[vi] = seq
	}
	return out, nil
}

func convertForcedStep(fs RawForcedStep) ForcedStep {
	out := ForcedStep{Kind: fs.Kind, JobID: fs.JobID, BreakID: fs.BreakID}
	if fs.ServiceAt != nil {
		s := Seconds(*fs.ServiceAt)
		out.ServiceAt = &s
	}
	if fs.ServiceAfter != nil {
		s := Seconds(*fs.ServiceAfter)
		out.ServiceAfter = &s
	}
	if fs.ServiceBefore != nil {
		s := Seconds(*fs.ServiceBefore)
		out.ServiceBefore = &s
	}
	return out
}

func buildTimeWindows(field string, raw [][2]uint64) ([]TimeWindow, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]TimeWindow, 0, len(raw))
	for _, w := range raw {
		if w[0] > w[1] {
			return nil, vrperrors.NewInputError(field, fmt.Sprintf("start %d > end %d", w[0], w[1]))
		}
		out = append(out, TimeWindow{Start: Seconds(w[0]), End: Seconds(w[1])})
	}
	SortTimeWindows(out)
	if !Disjoint(out) {
		return nil, vrperrors.NewInputError(field, "time windows must be disjoint")
	}
	return out, nil
}

func padAmount(a Amount, k int) Amount {
	if len(a) == k {
		return a.Clone()
	}
	out := NewAmount(k)
	copy(out, a)
	return out
}

func orDefault(p *int64, def int64) int64 {
	if p != nil {
		return *p
	}
	return def
}
