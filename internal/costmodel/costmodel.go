// Package costmodel implements spec.md §4.1: rounding, per-vehicle
// travel cost derivation, and the engine's weighted objective. It is
// pure arithmetic — grounded on the teacher's internal/opt/alns_engine.go
// cost() function, generalized from a single weighted-sum accumulator
// to the spec's per_hour/per_km/fixed vehicle cost plus an
// unassigned-priority penalty.
package costmodel

import (
	"math"

	"vrpengine/internal/vrpmodel"
)

// RoundHalfAwayFromZero rounds x to the nearest integer, .5 rounding
// away from zero (spec.md §4.1 "Rounding is half-away-from-zero").
func RoundHalfAwayFromZero(x float64) int64 {
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return int64(math.Ceil(x - 0.5))
}

// ScaleDuration pre-multiplies a user-seconds duration by a vehicle's
// speed factor, rounded half-away-from-zero (spec.md §4.1 "every
// duration is pre-multiplied by vehicle.speed_factor").
func ScaleDuration(userSeconds int64, speedFactor float64) int64 {
	return RoundHalfAwayFromZero(float64(userSeconds) * speedFactor)
}

// TravelCost is the per-vehicle cost of spec.md §4.1:
// per_hour*duration/3600 + per_km*distance/1000 + fixed, charged only
// when the vehicle is used (>=1 task served).
func TravelCost(cost vrpmodel.VehicleCost, durationSec, distanceM int64, used bool) int64 {
	if !used {
		return 0
	}
	c := float64(cost.PerHour)*float64(durationSec)/3600.0 + float64(cost.PerKM)*float64(distanceM)/1000.0
	return RoundHalfAwayFromZero(c) + cost.Fixed
}

// Objective is the engine's minimized quantity (spec.md §4.1):
//
//	Σ per-vehicle travel cost + Σ fixed-when-used + PRIORITY_WEIGHT·Σ unassigned.priority
//
// travelCosts must already include each vehicle's fixed charge (i.e. be
// the output of TravelCost); Objective only adds the priority penalty.
func Objective(travelCosts []int64, unassignedPriority int64, priorityWeight int64) int64 {
	var total int64
	for _, c := range travelCosts {
		total += c
	}
	total += priorityWeight * unassignedPriority
	return total
}
