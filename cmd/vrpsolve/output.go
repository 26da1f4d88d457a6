package main

import (
	"context"

	"vrpengine/internal/oracle"
	"vrpengine/internal/search"
	"vrpengine/internal/vrpmodel"
	"vrpengine/internal/vrpsolution"
)

// solveOutput is the harness's result shape, grounded on the teacher's
// internal/model.Route/Leg (a step list with per-step timing) but keyed
// by job rank/id instead of stop id, per spec.md §6 "Output JSON
// contains: routes ... with step list: start, tasks, breaks, end, each
// with timing, summary ..., unassigned list".
type solveOutput struct {
	RunID      string        `json:"run_id"`
	Objective  int64         `json:"objective"`
	Routes     []outputRoute `json:"routes"`
	Unassigned []uint64      `json:"unassigned"`
	Summary    outputSummary `json:"summary"`
}

type outputSummary struct {
	Cost           int64 `json:"cost"`
	DurationSec    int64 `json:"duration_sec"`
	DistanceM      int64 `json:"distance_m"`
	Unassigned     int   `json:"unassigned"`
	Improvements   int   `json:"improvements"`
	AcceptedWorse  int   `json:"accepted_worse"`
	Iterations     int   `json:"iterations"`
}

type outputRoute struct {
	VehicleID uint64       `json:"vehicle_id"`
	Cost      int64        `json:"cost"`
	Steps     []outputStep `json:"steps"`
	Geometry  string       `json:"geometry,omitempty"`
}

// outputStep is one entry of a route's step list: start, a task
// (single/pickup/delivery), a break, or end.
type outputStep struct {
	Kind        string `json:"kind"` // "start"|"task"|"pickup"|"delivery"|"break"|"end"
	JobID       uint64 `json:"job_id,omitempty"`
	BreakID     uint64 `json:"break_id,omitempty"`
	ArrivalSec  int64  `json:"arrival_sec"`
	DepartureSec int64 `json:"departure_sec"`
}

// buildOutput converts a search.Result into solveOutput, walking each
// route's cached arrays (spec.md §4.3) rather than recomputing timing —
// Route.Earliest is already the engine's chosen schedule. rt is
// optional (spec.md §6 "optional geometry strings"): when non-nil, each
// used route's visit sequence is encoded via rt.Geometry.
func buildOutput(ctx context.Context, in *vrpmodel.Input, res search.Result, rt oracle.RoutingOracle) solveOutput {
	out := solveOutput{RunID: res.RunID.String(), Objective: res.Objective}
	out.Summary.Improvements = res.Improvements
	out.Summary.AcceptedWorse = res.AcceptedWorse
	out.Summary.Iterations = res.Iterations

	sol := res.Solution
	if sol == nil {
		return out
	}
	for rank, unassigned := range sol.Unassigned {
		if unassigned {
			out.Unassigned = append(out.Unassigned, in.JobByRank(vrpmodel.JobRank(rank)).ID)
			out.Summary.Unassigned++
		}
	}

	for vi := range sol.Routes {
		r := &sol.Routes[vi]
		if r.Empty() {
			continue
		}
		v := in.VehicleByRank(vrpmodel.VehicleRank(vi))
		cost, _ := vrpsolution.TravelCost(in, r)
		route := outputRoute{VehicleID: v.ID, Cost: cost}

		route.Steps = append(route.Steps, outputStep{Kind: "start", ArrivalSec: 0, DepartureSec: 0})
		breaksAfter := func(pos int) []vrpsolution.ScheduledBreak {
			var out []vrpsolution.ScheduledBreak
			for _, br := range r.Breaks {
				if br.AfterPos == pos {
					out = append(out, br)
				}
			}
			return out
		}
		appendBreaks := func(pos int) {
			for _, br := range breaksAfter(pos) {
				route.Steps = append(route.Steps, outputStep{
					Kind:         "break",
					BreakID:      br.BreakID,
					ArrivalSec:   int64(br.Start),
					DepartureSec: int64(br.End),
				})
			}
		}
		appendBreaks(-1)
		for pos, job := range r.Stops {
			j := in.JobByRank(job)
			step := outputStep{
				Kind:         j.Kind.String(),
				JobID:        j.ID,
				ArrivalSec:   int64(r.Earliest[pos]),
				DepartureSec: int64(r.Earliest[pos]) + int64(j.Service),
			}
			if j.Kind == vrpmodel.JobSingle {
				step.Kind = "task"
			}
			route.Steps = append(route.Steps, step)
			appendBreaks(pos)
		}
		endSec := int64(0)
		if n := len(r.TravelTimeUser); n > 0 {
			endSec = int64(r.TravelTimeUser[n-1])
		}
		route.Steps = append(route.Steps, outputStep{Kind: "end", ArrivalSec: endSec, DepartureSec: endSec})

		out.Routes = append(out.Routes, route)
		out.Summary.Cost += cost
		if n := len(r.TravelTimeUser); n > 0 {
			out.Summary.DurationSec += int64(r.TravelTimeUser[n-1])
		}
		if n := len(r.TravelDist); n > 0 {
			out.Summary.DistanceM += r.TravelDist[n-1]
		}
	}
	if rt != nil {
		attachGeometry(ctx, in, sol, rt, out.Routes)
	}
	return out
}

// attachGeometry fills each route's Geometry field in place by calling
// rt.Geometry over its ordered start/stop/end coordinates. A location
// without resolved coordinates (matrix-index-only) makes geometry
// unavailable for that route; attachGeometry leaves Geometry empty
// rather than failing the whole run, since geometry is optional output.
func attachGeometry(ctx context.Context, in *vrpmodel.Input, sol *vrpsolution.Solution, rt oracle.RoutingOracle, routes []outputRoute) {
	for i := range routes {
		vi := vehicleRankByID(in, routes[i].VehicleID)
		if vi < 0 {
			continue
		}
		v := in.VehicleByRank(vrpmodel.VehicleRank(vi))
		r := &sol.Routes[vi]

		var pts []oracle.LatLon
		ok := true
		add := func(idx vrpmodel.LocationIndex) {
			loc := in.Locations[idx]
			if !loc.HasCoords {
				ok = false
				return
			}
			pts = append(pts, oracle.LatLon{Lat: loc.Lat, Lon: loc.Lon})
		}
		if v.Start != nil {
			add(*v.Start)
		}
		for _, job := range r.Stops {
			add(in.JobByRank(job).Location)
		}
		if v.End != nil {
			add(*v.End)
		}
		if !ok || len(pts) == 0 {
			continue
		}
		geom, err := rt.Geometry(ctx, v.Profile, pts)
		if err == nil {
			routes[i].Geometry = geom
		}
	}
}

func vehicleRankByID(in *vrpmodel.Input, id uint64) int {
	for vi := range in.Vehicles {
		if in.VehicleByRank(vrpmodel.VehicleRank(vi)).ID == id {
			return vi
		}
	}
	return -1
}
