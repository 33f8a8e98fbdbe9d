// Package services holds the ride workflow: posting offers and requests,
// searching for counterparts, and turning a matched pair into a booking.
package services

import (
	"context"
	"errors"
	"fmt"

	"rideshare/internal/domain/entities"
	"rideshare/internal/events"
	"rideshare/internal/identity"
	"rideshare/internal/logging"
	"rideshare/internal/metrics"
	"rideshare/internal/repository"
)

// BookingService is the booking coordinator. Every operation acts for the
// current user reported by the identity provider.
type BookingService struct {
	rides     repository.RideRepository
	identity  identity.Provider
	publisher events.Publisher
}

func NewBookingService(
	rides repository.RideRepository,
	provider identity.Provider,
	publisher events.Publisher,
) *BookingService {
	return &BookingService{
		rides:     rides,
		identity:  provider,
		publisher: publisher,
	}
}

// BookingResult holds both records of a confirmed pair as written.
type BookingResult struct {
	Driver    *entities.RideRecord `json:"driver"`
	Passenger *entities.RideRecord `json:"passenger"`
}

func (s *BookingService) currentUser(ctx context.Context) (*entities.User, error) {
	user, ok := s.identity.CurrentUser(ctx)
	if !ok {
		return nil, entities.NewValidationError(entities.KindNotAuthenticated, nil)
	}
	return user, nil
}

// PostRide validates intent for the current user and inserts the record. The
// store is written exactly once, and only after validation succeeded. On any
// failure no record is returned.
func (s *BookingService) PostRide(ctx context.Context, intent entities.PostingIntent) (*entities.RideRecord, error) {
	user, _ := s.identity.CurrentUser(ctx)

	ride, err := entities.ValidatePostingIntent(intent, user)
	if err != nil {
		var verr *entities.ValidationError
		if errors.As(err, &verr) {
			metrics.PostFailures.WithLabelValues(string(verr.Kind)).Inc()
		}
		return nil, err
	}

	if err := s.rides.Create(ctx, &ride); err != nil {
		metrics.PostFailures.WithLabelValues(string(entities.KindPersistenceFailed)).Inc()
		logging.Ctx(ctx).Error().Err(err).Str("owner_id", ride.OwnerID).Msg("failed to persist ride")
		return nil, entities.NewValidationError(entities.KindPersistenceFailed, err)
	}

	metrics.RidesPosted.WithLabelValues(string(ride.Role)).Inc()
	logging.Ctx(ctx).Info().
		Str("ride_id", ride.ID).
		Str("owner_id", ride.OwnerID).
		Str("role", string(ride.Role)).
		Str("status", string(ride.Status)).
		Msg("ride posted")

	s.publish(ctx, events.NewRideEvent(events.RidePosted, &ride))
	return &ride, nil
}

func (s *BookingService) GetRide(ctx context.Context, rideID string) (*entities.RideRecord, error) {
	return s.getRide(ctx, rideID)
}

// ListMine returns every record the current user posted, cancelled ones
// included.
func (s *BookingService) ListMine(ctx context.Context) ([]*entities.RideRecord, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	rides, err := s.rides.GetByOwnerID(ctx, user.ID)
	if err != nil {
		return nil, entities.NewValidationError(entities.KindStoreUnavailable, err)
	}
	return rides, nil
}

// ConfirmBooking attaches a passenger request to a driver offer. Only the
// driver who posted the offer can confirm. The pair must share the exact
// route, the request must still be unconfirmed, and the seats already promised
// plus the request's seats must fit in the offer.
//
// The driver record is written first, then the passenger record. There is no
// transaction across the two and concurrent confirmations race with
// last-write-wins. When the passenger write fails the request stays attached
// to the offer with its seats held, and confirming the same pair again
// completes the passenger write.
func (s *BookingService) ConfirmBooking(ctx context.Context, driverRideID, passengerRideID string) (*BookingResult, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	driverRide, err := s.getRide(ctx, driverRideID)
	if err != nil {
		return nil, err
	}
	if driverRide.OwnerID != user.ID {
		return nil, ErrNotAuthorized
	}
	if driverRide.Role != entities.RoleDriver {
		return nil, ErrRoleMismatch
	}
	if driverRide.Status == entities.RideStatusCancelled {
		return nil, ErrInvalidTransition
	}

	passengerRide, err := s.getRide(ctx, passengerRideID)
	if err != nil {
		return nil, err
	}
	if passengerRide.Role != entities.RolePassenger {
		return nil, ErrRoleMismatch
	}
	if passengerRide.Status != entities.RideStatusNotConfirmed {
		return nil, ErrInvalidTransition
	}
	if !driverRide.SameRoute(passengerRide) {
		return nil, ErrRouteMismatch
	}

	// An attached but unconfirmed request is left over from a confirmation
	// whose passenger write failed; its seats are already held.
	resuming := driverRide.HasPassenger(passengerRide.ID)
	driverChanged, driverConfirmed := false, false
	if !resuming {
		taken, err := s.seatsTaken(ctx, driverRide)
		if err != nil {
			return nil, err
		}
		if taken+passengerRide.Seats > driverRide.Seats {
			return nil, ErrSeatsExceeded
		}
		driverRide.AttachPassenger(passengerRide.ID)
		driverChanged = true
	}
	if driverRide.Status == entities.RideStatusPending {
		if err := driverRide.Confirm(); err != nil {
			return nil, ErrInvalidTransition
		}
		driverChanged, driverConfirmed = true, true
	}
	if err := passengerRide.Confirm(); err != nil {
		return nil, ErrInvalidTransition
	}

	if driverChanged {
		if err := s.rides.Update(ctx, driverRide); err != nil {
			return nil, s.writeFailed(ctx, driverRide.ID, err)
		}
		if driverConfirmed {
			metrics.BookingTransitions.WithLabelValues(string(entities.RoleDriver), string(entities.RideStatusConfirmed)).Inc()
		}
	}
	if err := s.rides.Update(ctx, passengerRide); err != nil {
		return nil, s.writeFailed(ctx, passengerRide.ID, err)
	}
	metrics.BookingTransitions.WithLabelValues(string(entities.RolePassenger), string(entities.RideStatusConfirmed)).Inc()

	logging.Ctx(ctx).Info().
		Str("driver_ride_id", driverRide.ID).
		Str("passenger_ride_id", passengerRide.ID).
		Int("passengers", len(driverRide.PassengersOfRide)).
		Int("seats", driverRide.Seats).
		Bool("resumed", resuming).
		Msg("booking confirmed")

	driverEvent := events.NewRideEvent(events.RideConfirmed, driverRide)
	driverEvent.CounterpartRideID = passengerRide.ID
	s.publish(ctx, driverEvent)
	passengerEvent := events.NewRideEvent(events.RideConfirmed, passengerRide)
	passengerEvent.CounterpartRideID = driverRide.ID
	s.publish(ctx, passengerEvent)

	return &BookingResult{Driver: driverRide, Passenger: passengerRide}, nil
}

// seatsTaken sums the seats of the passenger requests already attached to an
// offer. Attached requests that have since disappeared or been cancelled free
// their seats.
func (s *BookingService) seatsTaken(ctx context.Context, driverRide *entities.RideRecord) (int, error) {
	taken := 0
	for _, id := range driverRide.PassengersOfRide {
		p, err := s.rides.GetByID(ctx, id)
		if errors.Is(err, repository.ErrRideNotFound) {
			continue
		}
		if err != nil {
			return 0, entities.NewValidationError(entities.KindStoreUnavailable, err)
		}
		if p.Status == entities.RideStatusCancelled {
			continue
		}
		taken += p.Seats
	}
	return taken, nil
}

// CancelRide cancels one of the current user's records. Cancelling never
// deletes; the record stays visible with status CANCELLED.
func (s *BookingService) CancelRide(ctx context.Context, rideID string) (*entities.RideRecord, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.OwnerID != user.ID {
		return nil, ErrNotAuthorized
	}
	if err := ride.Cancel(); err != nil {
		return nil, ErrInvalidTransition
	}
	if err := s.rides.Update(ctx, ride); err != nil {
		return nil, s.writeFailed(ctx, ride.ID, err)
	}

	metrics.BookingTransitions.WithLabelValues(string(ride.Role), string(entities.RideStatusCancelled)).Inc()
	logging.Ctx(ctx).Info().Str("ride_id", ride.ID).Str("role", string(ride.Role)).Msg("ride cancelled")
	s.publish(ctx, events.NewRideEvent(events.RideCancelled, ride))
	return ride, nil
}

func (s *BookingService) getRide(ctx context.Context, rideID string) (*entities.RideRecord, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if errors.Is(err, repository.ErrRideNotFound) {
		return nil, ErrRideNotFound
	}
	if err != nil {
		return nil, entities.NewValidationError(entities.KindStoreUnavailable, err)
	}
	return ride, nil
}

func (s *BookingService) writeFailed(ctx context.Context, rideID string, err error) error {
	logging.Ctx(ctx).Error().Err(err).Str("ride_id", rideID).Msg("failed to update ride")
	if errors.Is(err, repository.ErrRideNotFound) {
		return ErrRideNotFound
	}
	return entities.NewValidationError(entities.KindPersistenceFailed, fmt.Errorf("update ride %s: %w", rideID, err))
}

// publish hands event to the publisher after the write it describes has
// succeeded. A failure is logged and counted and otherwise ignored.
func (s *BookingService) publish(ctx context.Context, event events.RideEvent) {
	if event.RequestID == "" {
		event.RequestID = logging.RequestIDFromContext(ctx)
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.EventsPublished.WithLabelValues(string(event.Type), "error").Inc()
		logging.Ctx(ctx).Warn().Err(err).
			Str("event", string(event.Type)).
			Str("ride_id", event.RideID).
			Msg("failed to publish ride event")
		return
	}
	metrics.EventsPublished.WithLabelValues(string(event.Type), "ok").Inc()
}
