package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rideshare/internal/domain/entities"
	"rideshare/internal/repository"
	"rideshare/internal/repository/memory"
)

func newRide(role entities.Role, pickup, destination string) *entities.RideRecord {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return &entities.RideRecord{
		OwnerID:      "user-1",
		Role:         role,
		Pickup:       pickup,
		Destination:  destination,
		ScheduledAt:  time.Date(2026, 11, 2, 8, 30, 0, 0, time.UTC),
		Seats:        3,
		Restrictions: "no pets",
		ContactProfile: entities.ContactProfile{
			FirstName: "Asha",
			Phone:     "555-0100",
			CarModel:  "Swift",
		},
		Status:           entities.InitialStatus(role),
		PassengersOfRide: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestRideRepository_CreateAndGet(t *testing.T) {
	repo := repository.NewRideRepository(memory.NewDocumentStore())
	ctx := context.Background()

	ride := newRide(entities.RoleDriver, "A", "B")
	if err := repo.Create(ctx, ride); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ride.ID == "" {
		t.Fatal("Expected Create to set the store-assigned id")
	}

	got, err := repo.GetByID(ctx, ride.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ID != ride.ID || got.Role != entities.RoleDriver || got.Status != entities.RideStatusPending {
		t.Errorf("Unexpected record: %+v", got)
	}
	if !got.ScheduledAt.Equal(ride.ScheduledAt) {
		t.Errorf("Expected scheduledAt %v, got %v", ride.ScheduledAt, got.ScheduledAt)
	}
	if got.ContactProfile != ride.ContactProfile {
		t.Errorf("Expected contact profile %+v, got %+v", ride.ContactProfile, got.ContactProfile)
	}
	if got.Seats != 3 || got.Restrictions != "no pets" {
		t.Errorf("Unexpected seats/restrictions: %d %q", got.Seats, got.Restrictions)
	}
}

func TestRideRepository_FlattenedDocument(t *testing.T) {
	store := memory.NewDocumentStore()
	repo := repository.NewRideRepository(store)
	ctx := context.Background()

	ride := newRide(entities.RolePassenger, "A", "B")
	repo.Create(ctx, ride)

	doc, err := store.GetByID(ctx, repository.RidesCollection, ride.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	for _, key := range []string{"ownerId", "role", "pickup", "destination", "scheduledAt", "status", "passengersOfRide", "firstName", "phoneNo", "carModel"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("Expected key %q in stored document", key)
		}
	}
	if doc["status"] != "NOT_CONFIRMED" {
		t.Errorf("Expected status NOT_CONFIRMED, got %v", doc["status"])
	}
}

func TestRideRepository_GetByID_NotFound(t *testing.T) {
	repo := repository.NewRideRepository(memory.NewDocumentStore())

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrRideNotFound) {
		t.Errorf("Expected ErrRideNotFound, got %v", err)
	}
}

func TestRideRepository_Update(t *testing.T) {
	repo := repository.NewRideRepository(memory.NewDocumentStore())
	ctx := context.Background()

	ride := newRide(entities.RoleDriver, "A", "B")
	repo.Create(ctx, ride)

	ride.AttachPassenger("p-1")
	ride.Confirm()
	if err := repo.Update(ctx, ride); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, ride.ID)
	if got.Status != entities.RideStatusConfirmed {
		t.Errorf("Expected CONFIRMED, got %s", got.Status)
	}
	if len(got.PassengersOfRide) != 1 || got.PassengersOfRide[0] != "p-1" {
		t.Errorf("Expected [p-1], got %v", got.PassengersOfRide)
	}

	missing := newRide(entities.RoleDriver, "A", "B")
	missing.ID = "missing"
	if err := repo.Update(ctx, missing); !errors.Is(err, repository.ErrRideNotFound) {
		t.Errorf("Expected ErrRideNotFound, got %v", err)
	}
}

func TestRideRepository_FindByRoute(t *testing.T) {
	repo := repository.NewRideRepository(memory.NewDocumentStore())
	ctx := context.Background()

	match := newRide(entities.RoleDriver, "A", "B")
	repo.Create(ctx, match)
	repo.Create(ctx, newRide(entities.RoleDriver, "A", "C"))
	repo.Create(ctx, newRide(entities.RolePassenger, "A", "B"))
	repo.Create(ctx, newRide(entities.RoleDriver, "A ", "B"))

	rides, err := repo.FindByRoute(ctx, entities.RoleDriver, "A", "B")
	if err != nil {
		t.Fatalf("FindByRoute failed: %v", err)
	}
	if len(rides) != 1 || rides[0].ID != match.ID {
		t.Errorf("Expected only %s, got %d rides", match.ID, len(rides))
	}
}

func TestRideRepository_FindByRoute_SkipsUndecodable(t *testing.T) {
	store := memory.NewDocumentStore()
	repo := repository.NewRideRepository(store)
	ctx := context.Background()

	good := newRide(entities.RoleDriver, "A", "B")
	repo.Create(ctx, good)
	bad := newRide(entities.RoleDriver, "A", "B")
	repo.Create(ctx, bad)

	doc, _ := store.GetByID(ctx, repository.RidesCollection, bad.ID)
	doc["scheduledAt"] = "next tuesday"
	if err := store.Put(ctx, repository.RidesCollection, bad.ID, doc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rides, err := repo.FindByRoute(ctx, entities.RoleDriver, "A", "B")
	if err != nil {
		t.Fatalf("Expected the malformed record to be skipped, got %v", err)
	}
	if len(rides) != 1 || rides[0].ID != good.ID {
		t.Errorf("Expected only %s, got %d rides", good.ID, len(rides))
	}
}

func TestRideRepository_GetByOwnerID(t *testing.T) {
	repo := repository.NewRideRepository(memory.NewDocumentStore())
	ctx := context.Background()

	repo.Create(ctx, newRide(entities.RoleDriver, "A", "B"))
	other := newRide(entities.RoleDriver, "A", "B")
	other.OwnerID = "user-2"
	repo.Create(ctx, other)

	rides, err := repo.GetByOwnerID(ctx, "user-2")
	if err != nil {
		t.Fatalf("GetByOwnerID failed: %v", err)
	}
	if len(rides) != 1 || rides[0].OwnerID != "user-2" {
		t.Errorf("Expected one ride for user-2, got %d", len(rides))
	}
}
