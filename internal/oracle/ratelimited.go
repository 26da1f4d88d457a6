package oracle

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimited wraps a RoutingOracle with a shared token-bucket limiter,
// throttling the calls made while Input construction lazily builds
// per-profile travel matrices (spec.md §4.2: "obtained...lazily, only
// for the location subset actually referenced"). One call to Matrices
// or Geometry consumes one token regardless of the location count,
// since each is a single upstream HTTP request.
type RateLimited struct {
	Inner   RoutingOracle
	Limiter *rate.Limiter
}

// NewRateLimited returns a decorator allowing at most ratePerSec calls
// per second, with a burst of burst.
func NewRateLimited(inner RoutingOracle, ratePerSec float64, burst int) *RateLimited {
	return &RateLimited{Inner: inner, Limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst)}
}

func (r *RateLimited) Matrices(ctx context.Context, profile string, locations []LatLon) (Matrices, error) {
	if err := r.Limiter.Wait(ctx); err != nil {
		return Matrices{}, &Error{Profile: profile, Err: err}
	}
	m, err := r.Inner.Matrices(ctx, profile, locations)
	if err != nil {
		return Matrices{}, &Error{Profile: profile, Err: err}
	}
	return m, nil
}

func (r *RateLimited) Geometry(ctx context.Context, profile string, locations []LatLon) (string, error) {
	if err := r.Limiter.Wait(ctx); err != nil {
		return "", &Error{Profile: profile, Err: err}
	}
	g, err := r.Inner.Geometry(ctx, profile, locations)
	if err != nil {
		return "", &Error{Profile: profile, Err: err}
	}
	return g, nil
}
