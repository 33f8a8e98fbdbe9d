package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideshare/internal/domain/entities"
	"rideshare/internal/logging"
)

var ErrRideNotFound = errors.New("ride not found")

// rideDocument is the flattened storage shape of a RideRecord. The contact
// profile is spread over top-level keys, the way the web client always wrote
// ride documents.
type rideDocument struct {
	OwnerID          string   `json:"ownerId"`
	Role             string   `json:"role"`
	Pickup           string   `json:"pickup"`
	Destination      string   `json:"destination"`
	ScheduledAt      string   `json:"scheduledAt"`
	Seats            int      `json:"seats"`
	Restrictions     string   `json:"restrictions"`
	Status           string   `json:"status"`
	PassengersOfRide []string `json:"passengersOfRide"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`

	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	PhoneNo            string `json:"phoneNo"`
	Gender             string `json:"gender"`
	Age                string `json:"age"`
	CarModel           string `json:"carModel"`
	CarNumber          string `json:"carNumber"`
	RegistrationNumber string `json:"registrationNumber"`
	AadharNo           string `json:"aadharNo"`
	Description        string `json:"description"`
}

func rideToDocument(r *entities.RideRecord) (Document, error) {
	passengers := r.PassengersOfRide
	if passengers == nil {
		passengers = []string{}
	}
	p := r.ContactProfile
	return EncodeDocument(rideDocument{
		OwnerID:            r.OwnerID,
		Role:               string(r.Role),
		Pickup:             r.Pickup,
		Destination:        r.Destination,
		ScheduledAt:        r.ScheduledAt.UTC().Format(time.RFC3339Nano),
		Seats:              r.Seats,
		Restrictions:       r.Restrictions,
		Status:             string(r.Status),
		PassengersOfRide:   passengers,
		CreatedAt:          r.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:          r.UpdatedAt.UTC().Format(time.RFC3339Nano),
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              p.Email,
		PhoneNo:            p.Phone,
		Gender:             p.Gender,
		Age:                p.Age,
		CarModel:           p.CarModel,
		CarNumber:          p.CarNumber,
		RegistrationNumber: p.RegistrationNumber,
		AadharNo:           p.AadharNumber,
		Description:        p.Description,
	})
}

func rideFromDocument(id string, doc Document) (*entities.RideRecord, error) {
	var d rideDocument
	if err := DecodeDocument(doc, &d); err != nil {
		return nil, err
	}
	scheduledAt, err := parseStoredTime(d.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("ride %s: scheduledAt: %w", id, err)
	}
	createdAt, _ := parseStoredTime(d.CreatedAt)
	updatedAt, _ := parseStoredTime(d.UpdatedAt)
	passengers := d.PassengersOfRide
	if passengers == nil {
		passengers = []string{}
	}
	return &entities.RideRecord{
		ID:           id,
		OwnerID:      d.OwnerID,
		Role:         entities.Role(d.Role),
		Pickup:       d.Pickup,
		Destination:  d.Destination,
		ScheduledAt:  scheduledAt,
		Seats:        d.Seats,
		Restrictions: d.Restrictions,
		ContactProfile: entities.ContactProfile{
			FirstName:          d.FirstName,
			LastName:           d.LastName,
			Email:              d.Email,
			Phone:              d.PhoneNo,
			Gender:             d.Gender,
			Age:                d.Age,
			CarModel:           d.CarModel,
			CarNumber:          d.CarNumber,
			RegistrationNumber: d.RegistrationNumber,
			AadharNumber:       d.AadharNo,
			Description:        d.Description,
		},
		Status:           entities.RideStatus(d.Status),
		PassengersOfRide: passengers,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

func parseStoredTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// DocumentRideRepository stores ride records in the rides collection of a
// DocumentStore.
type DocumentRideRepository struct {
	store DocumentStore
}

func NewRideRepository(store DocumentStore) *DocumentRideRepository {
	return &DocumentRideRepository{store: store}
}

// Create inserts ride and, on success, sets ride.ID to the store-assigned id.
// On failure ride is left untouched.
func (r *DocumentRideRepository) Create(ctx context.Context, ride *entities.RideRecord) error {
	doc, err := rideToDocument(ride)
	if err != nil {
		return err
	}
	id, err := r.store.Insert(ctx, RidesCollection, doc)
	if err != nil {
		return fmt.Errorf("insert ride: %w", err)
	}
	ride.ID = id
	return nil
}

func (r *DocumentRideRepository) GetByID(ctx context.Context, id string) (*entities.RideRecord, error) {
	doc, err := r.store.GetByID(ctx, RidesCollection, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrRideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ride %s: %w", id, err)
	}
	return rideFromDocument(id, doc)
}

// Update replaces an existing ride. It does not compare versions: the last
// writer wins.
func (r *DocumentRideRepository) Update(ctx context.Context, ride *entities.RideRecord) error {
	if _, err := r.store.GetByID(ctx, RidesCollection, ride.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrRideNotFound
		}
		return fmt.Errorf("get ride %s: %w", ride.ID, err)
	}
	doc, err := rideToDocument(ride)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, RidesCollection, ride.ID, doc); err != nil {
		return fmt.Errorf("put ride %s: %w", ride.ID, err)
	}
	return nil
}

// FindByRoute returns every ride of the given role whose pickup and
// destination equal the arguments exactly.
func (r *DocumentRideRepository) FindByRoute(ctx context.Context, role entities.Role, pickup, destination string) ([]*entities.RideRecord, error) {
	return r.query(ctx, map[string]any{
		"role":        string(role),
		"pickup":      pickup,
		"destination": destination,
	})
}

func (r *DocumentRideRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*entities.RideRecord, error) {
	return r.query(ctx, map[string]any{"ownerId": ownerID})
}

func (r *DocumentRideRepository) query(ctx context.Context, predicates map[string]any) ([]*entities.RideRecord, error) {
	docs, err := r.store.QueryByEquality(ctx, RidesCollection, predicates)
	if err != nil {
		return nil, fmt.Errorf("query rides: %w", err)
	}
	rides := make([]*entities.RideRecord, 0, len(docs))
	for _, doc := range docs {
		id, _ := doc[IDField].(string)
		ride, err := rideFromDocument(id, doc)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("ride_id", id).Msg("skipping undecodable ride document")
			continue
		}
		rides = append(rides, ride)
	}
	return rides, nil
}
