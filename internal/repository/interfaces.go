// Package repository defines the persistence boundary of the ride workflow.
//
// Everything durable goes through a DocumentStore: a collection of schemaless
// documents offering insert, put, lookup by id, and query by field equality.
// RideRepository and ProfileRepository translate between domain entities and
// documents on top of it, so backends (memory, badger, postgres, couchdb) only
// implement the four document operations.
package repository

import (
	"context"
	"errors"

	"rideshare/internal/domain/entities"
)

// Collection names.
const (
	RidesCollection = "rides"
	UsersCollection = "users"
)

// IDField is the key under which stores expose a document's identifier in the
// documents they return. Stores ignore it on input.
const IDField = "id"

var ErrNotFound = errors.New("document not found")

// Document is one stored record. Values are JSON-compatible: string, bool,
// float64, nil, []any and map[string]any.
type Document map[string]any

// DocumentStore is the external document database.
type DocumentStore interface {
	// Insert stores doc under a new store-assigned id and returns it.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	// Put creates or replaces the document with the given id.
	Put(ctx context.Context, collection, id string, doc Document) error
	// GetByID returns ErrNotFound when no document has that id.
	GetByID(ctx context.Context, collection, id string) (Document, error)
	// QueryByEquality returns every document whose fields equal all predicate
	// values. Result order is store-defined.
	QueryByEquality(ctx context.Context, collection string, predicates map[string]any) ([]Document, error)
}

type RideRepository interface {
	Create(ctx context.Context, ride *entities.RideRecord) error
	GetByID(ctx context.Context, id string) (*entities.RideRecord, error)
	Update(ctx context.Context, ride *entities.RideRecord) error
	FindByRoute(ctx context.Context, role entities.Role, pickup, destination string) ([]*entities.RideRecord, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*entities.RideRecord, error)
}

type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}
