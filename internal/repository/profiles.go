package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rideshare/internal/domain/entities"
)

// DocumentProfileRepository keeps user profiles in the users collection, one
// document per user id with the profile fields at top level.
type DocumentProfileRepository struct {
	store DocumentStore
}

func NewProfileRepository(store DocumentStore) *DocumentProfileRepository {
	return &DocumentProfileRepository{store: store}
}

// GetOrCreate returns the user's profile. A user who never saved a profile gets
// an empty one; it is not written back until Update.
func (r *DocumentProfileRepository) GetOrCreate(ctx context.Context, userID string) (*entities.User, error) {
	doc, err := r.store.GetByID(ctx, UsersCollection, userID)
	if errors.Is(err, ErrNotFound) {
		return entities.NewUser(userID, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}

	profile := make(entities.ProfileFields, len(doc))
	var updatedAt time.Time
	for k, v := range doc {
		switch k {
		case IDField:
			continue
		case "updatedAt":
			if s, ok := v.(string); ok {
				updatedAt, _ = parseStoredTime(s)
			}
			continue
		}
		// Numbers and other scalars saved by older clients are kept as text.
		switch val := v.(type) {
		case string:
			profile[k] = val
		case nil:
		default:
			profile[k] = fmt.Sprint(val)
		}
	}
	user := entities.NewUser(userID, profile)
	user.UpdatedAt = updatedAt
	return user, nil
}

func (r *DocumentProfileRepository) Update(ctx context.Context, user *entities.User) error {
	doc := make(Document, len(user.Profile)+1)
	for k, v := range user.Profile {
		doc[k] = v
	}
	user.UpdatedAt = time.Now()
	doc["updatedAt"] = user.UpdatedAt.UTC().Format(time.RFC3339Nano)
	if err := r.store.Put(ctx, UsersCollection, user.ID, doc); err != nil {
		return fmt.Errorf("put profile %s: %w", user.ID, err)
	}
	return nil
}
