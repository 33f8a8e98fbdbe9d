package repository_test

import (
	"context"
	"testing"

	"rideshare/internal/domain/entities"
	"rideshare/internal/repository"
	"rideshare/internal/repository/memory"
)

func TestProfileRepository_GetOrCreate_Missing(t *testing.T) {
	repo := repository.NewProfileRepository(memory.NewDocumentStore())

	user, err := repo.GetOrCreate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if user.ID != "user-1" || len(user.Profile) != 0 {
		t.Errorf("Expected empty profile for user-1, got %+v", user)
	}
}

func TestProfileRepository_UpdateAndGet(t *testing.T) {
	store := memory.NewDocumentStore()
	repo := repository.NewProfileRepository(store)
	ctx := context.Background()

	user := entities.NewUser("user-1", entities.ProfileFields{
		entities.ProfileFirstName: "Asha",
		entities.ProfileCarModel:  "Swift",
	})
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetOrCreate(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if got.Profile[entities.ProfileFirstName] != "Asha" || got.Profile[entities.ProfileCarModel] != "Swift" {
		t.Errorf("Unexpected profile: %v", got.Profile)
	}
	if _, ok := got.Profile[repository.IDField]; ok {
		t.Error("Expected id field not to leak into the profile")
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be restored")
	}
}

func TestProfileRepository_NonStringFieldsBecomeText(t *testing.T) {
	store := memory.NewDocumentStore()
	repo := repository.NewProfileRepository(store)
	ctx := context.Background()

	store.Put(ctx, repository.UsersCollection, "user-1", repository.Document{"age": 31.0})

	got, _ := repo.GetOrCreate(ctx, "user-1")
	if got.Profile[entities.ProfileAge] != "31" {
		t.Errorf("Expected age \"31\", got %q", got.Profile[entities.ProfileAge])
	}
}
