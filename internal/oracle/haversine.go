package oracle

import (
	"context"
	"math"
)

// Haversine is a deterministic RoutingOracle backed by great-circle
// distance and a fixed speed, used by tests and by cmd/vrpsolve's
// fixture runner in place of a real routing backend. It is not a
// production oracle: it never reports Unreachable and ignores profile
// beyond carrying it through to Geometry.
type Haversine struct {
	// SpeedKph is the assumed travel speed in kilometers per hour.
	SpeedKph float64
}

const earthRadiusM = 6371000.0

func haversineMeters(a, b LatLon) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func (h *Haversine) Matrices(_ context.Context, _ string, locations []LatLon) (Matrices, error) {
	speed := h.SpeedKph
	if speed <= 0 {
		speed = 50
	}
	mps := speed / 3.6
	n := len(locations)
	dur := make([][]int64, n)
	dist := make([][]int64, n)
	for i := range locations {
		dur[i] = make([]int64, n)
		dist[i] = make([]int64, n)
		for j := range locations {
			if i == j {
				continue
			}
			d := haversineMeters(locations[i], locations[j])
			dist[i][j] = int64(math.Round(d))
			dur[i][j] = int64(math.Round(d / mps))
		}
	}
	return Matrices{DurationSec: dur, DistanceM: dist}, nil
}

func (h *Haversine) Geometry(_ context.Context, _ string, locations []LatLon) (string, error) {
	// Not a real polyline codec — adequate for a fixture oracle that
	// never feeds a map renderer.
	out := make([]byte, 0, len(locations)*2)
	for range locations {
		out = append(out, '.')
	}
	return string(out), nil
}
