package vrpmodel

import (
	"context"

	"vrpengine/internal/oracle"
	"vrpengine/internal/vrperrors"
)

// fetchMatrices builds one TravelMatrix per profile referenced by a
// vehicle, each covering only the locations that profile's vehicles and
// the jobs could plausibly visit — i.e. every job location plus every
// vehicle start/end for vehicles on that profile (spec.md §4.2: "only
// for the location subset actually referenced").
func fetchMatrices(ctx context.Context, rt oracle.RoutingOracle, in *Input) error {
	profiles := map[string][]LocationIndex{}
	seen := map[string]map[LocationIndex]bool{}
	add := func(profile string, idx LocationIndex) {
		if seen[profile] == nil {
			seen[profile] = map[LocationIndex]bool{}
		}
		if seen[profile][idx] {
			return
		}
		seen[profile][idx] = true
		profiles[profile] = append(profiles[profile], idx)
	}

	for _, v := range in.Vehicles {
		if v.Start != nil {
			add(v.Profile, *v.Start)
		}
		if v.End != nil {
			add(v.Profile, *v.End)
		}
		for _, j := range in.Jobs {
			add(v.Profile, j.Location)
		}
	}

	for profile, locals := range profiles {
		if rt == nil {
			continue
		}
		latlons := make([]oracle.LatLon, len(locals))
		for i, idx := range locals {
			loc := in.Locations[idx]
			latlons[i] = oracle.LatLon{Lat: loc.Lat, Lon: loc.Lon}
		}
		m, err := rt.Matrices(ctx, profile, latlons)
		if err != nil {
			return &vrperrors.RoutingError{Profile: profile, Err: err}
		}
		localOf := make(map[LocationIndex]int, len(locals))
		for i, idx := range locals {
			localOf[idx] = i
		}
		in.matrices[profile] = &TravelMatrix{
			locals:  locals,
			localOf: localOf,
			dur:     m.DurationSec,
			dist:    m.DistanceM,
		}
	}
	return nil
}

// computeCompatibility fills VehicleJobCompat and VehicleVehicleCompat.
// Both are conservative over-approximations: false means truly
// infeasible, true only means "not ruled out by this cheap check" (the
// constraint evaluators in vrpsolution remain the source of truth).
func computeCompatibility(in *Input) {
	nv, nj := len(in.Vehicles), len(in.Jobs)
	in.VehicleJobCompat = make([][]bool, nv)
	jobCompatibleVehicles := make([][]VehicleRank, nj)

	for vi := range in.Vehicles {
		v := &in.Vehicles[vi]
		row := make([]bool, nj)
		matrix, hasMatrix := in.matrices[v.Profile]
		for ji := range in.Jobs {
			j := &in.Jobs[ji]
			ok := jobSkillsFit(j, v) && jobCapacityFits(j, v) && jobWindowOverlaps(j, v)
			if ok && hasMatrix {
				ok = locationReachable(matrix, v, j.Location)
			}
			row[ji] = ok
			if ok {
				jobCompatibleVehicles[ji] = append(jobCompatibleVehicles[ji], VehicleRank(vi))
			}
		}
		in.VehicleJobCompat[vi] = row
	}

	in.VehicleVehicleCompat = make([][]bool, nv)
	for i := range in.VehicleVehicleCompat {
		in.VehicleVehicleCompat[i] = make([]bool, nv)
	}
	for _, vs := range jobCompatibleVehicles {
		for _, a := range vs {
			for _, b := range vs {
				in.VehicleVehicleCompat[a][b] = true
			}
		}
	}
}

func jobSkillsFit(j *Job, v *Vehicle) bool {
	return j.Skills.IsSubsetOf(v.Skills)
}

func jobCapacityFits(j *Job, v *Vehicle) bool {
	return j.Delivery.LessOrEqual(v.Capacity) && j.Pickup.LessOrEqual(v.Capacity)
}

func jobWindowOverlaps(j *Job, v *Vehicle) bool {
	if len(j.TimeWindows) == 0 {
		return true
	}
	for _, w := range j.TimeWindows {
		if w.Start <= v.TimeWindow.End && v.TimeWindow.Start <= w.End {
			return true
		}
	}
	return false
}

func locationReachable(m *TravelMatrix, v *Vehicle, loc LocationIndex) bool {
	if v.Start != nil {
		if _, ok := m.Duration(*v.Start, loc); !ok && *v.Start != loc {
			return false
		}
	}
	if v.End != nil {
		if _, ok := m.Duration(loc, *v.End); !ok && *v.End != loc {
			return false
		}
	}
	return true
}
