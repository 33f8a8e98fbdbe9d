// Package events announces ride lifecycle changes to downstream consumers
// (notification senders, analytics). Publishing is best effort: the booking
// workflow has already committed its write when it publishes, and a failed
// publish is logged and counted, never reported back to the user.
package events

import (
	"context"
	"time"

	"rideshare/internal/domain/entities"
)

type EventType string

const (
	RidePosted    EventType = "ride.posted"
	RideConfirmed EventType = "ride.confirmed"
	RideCancelled EventType = "ride.cancelled"
)

// RideEvent is the message body. It carries no contact details; consumers
// that need them read the ride record.
type RideEvent struct {
	Type        EventType           `json:"type"`
	RideID      string              `json:"ride_id"`
	OwnerID     string              `json:"owner_id"`
	Role        entities.Role       `json:"role"`
	Status      entities.RideStatus `json:"status"`
	Pickup      string              `json:"pickup"`
	Destination string              `json:"destination"`
	ScheduledAt time.Time           `json:"scheduled_at"`

	// CounterpartRideID is set on ride.confirmed: the other record of the pair.
	CounterpartRideID string    `json:"counterpart_ride_id,omitempty"`
	RequestID         string    `json:"request_id,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// NewRideEvent builds an event of type t describing ride as it is now.
func NewRideEvent(t EventType, ride *entities.RideRecord) RideEvent {
	return RideEvent{
		Type:        t,
		RideID:      ride.ID,
		OwnerID:     ride.OwnerID,
		Role:        ride.Role,
		Status:      ride.Status,
		Pickup:      ride.Pickup,
		Destination: ride.Destination,
		ScheduledAt: ride.ScheduledAt,
		OccurredAt:  time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event RideEvent) error
}
