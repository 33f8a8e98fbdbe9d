// Package routing estimates travel distance and duration between two places
// through an external directions API. Estimates are advisory: they are shown
// next to a ride and never take part in matching.
package routing

import (
	"context"
	"errors"
)

// ErrUnavailable is returned whenever no estimate can be produced: routing
// disabled, the API failing, no route found, or the circuit breaker open.
var ErrUnavailable = errors.New("route estimate unavailable")

// Route is the human-readable estimate for the first leg of the first route.
type Route struct {
	DistanceText string `json:"distance_text"`
	DurationText string `json:"duration_text"`
}

type Oracle interface {
	Route(ctx context.Context, origin, destination string) (*Route, error)
}

// Disabled answers every request with ErrUnavailable.
type Disabled struct{}

func (Disabled) Route(context.Context, string, string) (*Route, error) {
	return nil, ErrUnavailable
}
