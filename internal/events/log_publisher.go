package events

import (
	"context"

	"rideshare/internal/logging"
)

// LogPublisher writes each event as a structured log line. It is the default
// when no broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event RideEvent) error {
	logging.Ctx(ctx).Info().
		Str("event", string(event.Type)).
		Str("ride_id", event.RideID).
		Str("owner_id", event.OwnerID).
		Str("role", string(event.Role)).
		Str("status", string(event.Status)).
		Str("pickup", event.Pickup).
		Str("destination", event.Destination).
		Str("counterpart_ride_id", event.CounterpartRideID).
		Msg("ride event")
	return nil
}
