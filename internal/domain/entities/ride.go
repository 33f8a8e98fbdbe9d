// Package entities defines the core domain models for the ride-sharing system:
// the ride record that carries an offer or a request, its lifecycle, and the
// user profile it snapshots. These types have no dependencies on databases,
// HTTP, or external services.
//
// Go Learning Note ("internal/" directory):
// Packages under internal/ cannot be imported by code outside this module. Go
// enforces this at the compiler level.
package entities

import (
	"errors"
	"slices"
	"time"
)

// Role says whether a ride record is an offer (a driver with free seats) or a
// request (a passenger looking for a ride).
type Role string

const (
	RoleDriver    Role = "DRIVER"
	RolePassenger Role = "PASSENGER"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r == RoleDriver || r == RolePassenger
}

// Opposite returns the counterpart role. Matching never calls this implicitly;
// callers that want "drivers for my request" ask for it explicitly.
func (r Role) Opposite() Role {
	if r == RoleDriver {
		return RolePassenger
	}
	return RoleDriver
}

// RideStatus is the lifecycle state of a ride record.
//
//	PENDING (driver) ──┐
//	                   ├──> CONFIRMED ──> CANCELLED
//	NOT_CONFIRMED ─────┘
//	     (PENDING and NOT_CONFIRMED can also go straight to CANCELLED)
type RideStatus string

const (
	RideStatusPending      RideStatus = "PENDING"
	RideStatusNotConfirmed RideStatus = "NOT_CONFIRMED"
	RideStatusConfirmed    RideStatus = "CONFIRMED"
	RideStatusCancelled    RideStatus = "CANCELLED"
)

// validTransitions is the state machine. CANCELLED is the only terminal state;
// records are never deleted, only cancelled.
var validTransitions = map[RideStatus][]RideStatus{
	RideStatusPending:      {RideStatusConfirmed, RideStatusCancelled},
	RideStatusNotConfirmed: {RideStatusConfirmed, RideStatusCancelled},
	RideStatusConfirmed:    {RideStatusCancelled},
	RideStatusCancelled:    {},
}

// InitialStatus returns the status a freshly posted record of role r starts in.
func InitialStatus(r Role) RideStatus {
	if r == RoleDriver {
		return RideStatusPending
	}
	return RideStatusNotConfirmed
}

// IsTerminal reports whether no transition leaves s.
func (s RideStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// RideRecord is the sole persisted entity: one ride offer or request.
//
// ContactProfile is a copy of the owner's profile taken when the record was
// posted. It is never refreshed, so a match shows the contact details the owner
// had at posting time; later profile edits only affect rides posted afterwards.
// Reading it needs no lookup of the owner.
type RideRecord struct {
	ID               string         `json:"id"`
	OwnerID          string         `json:"owner_id"`
	Role             Role           `json:"role"`
	Pickup           string         `json:"pickup"`
	Destination      string         `json:"destination"`
	ScheduledAt      time.Time      `json:"scheduled_at"`
	Seats            int            `json:"seats"`
	Restrictions     string         `json:"restrictions,omitempty"`
	ContactProfile   ContactProfile `json:"contact_profile"`
	Status           RideStatus     `json:"status"`
	PassengersOfRide []string       `json:"passengers_of_ride"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// CanTransitionTo checks if moving to newStatus is a valid state change.
func (r *RideRecord) CanTransitionTo(newStatus RideStatus) bool {
	return slices.Contains(validTransitions[r.Status], newStatus)
}

// TransitionTo moves the record to newStatus or returns an error if the state
// machine forbids it.
func (r *RideRecord) TransitionTo(newStatus RideStatus) error {
	if !r.CanTransitionTo(newStatus) {
		return errors.New("invalid status transition from " + string(r.Status) + " to " + string(newStatus))
	}
	r.Status = newStatus
	r.UpdatedAt = time.Now()
	return nil
}

// Confirm transitions the record to CONFIRMED.
func (r *RideRecord) Confirm() error {
	return r.TransitionTo(RideStatusConfirmed)
}

// Cancel soft-deletes the record.
func (r *RideRecord) Cancel() error {
	return r.TransitionTo(RideStatusCancelled)
}

// AttachPassenger appends a passenger record id. The existing slice is clipped
// first so copies of r that share the backing array never observe the append.
func (r *RideRecord) AttachPassenger(passengerRideID string) {
	r.PassengersOfRide = append(slices.Clip(r.PassengersOfRide), passengerRideID)
	r.UpdatedAt = time.Now()
}

// HasPassenger reports whether passengerRideID is already attached.
func (r *RideRecord) HasPassenger(passengerRideID string) bool {
	return slices.Contains(r.PassengersOfRide, passengerRideID)
}

// SameRoute reports whether two records share the exact matching key.
func (r *RideRecord) SameRoute(other *RideRecord) bool {
	return r.Pickup == other.Pickup && r.Destination == other.Destination
}
