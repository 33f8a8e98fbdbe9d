package memory

import (
	"context"
	"errors"
	"testing"

	"rideshare/internal/repository"
)

func TestDocumentStore_InsertAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, "rides", repository.Document{"pickup": "A", "seats": 2.0})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected store-assigned id")
	}

	doc, err := store.GetByID(ctx, "rides", id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if doc["pickup"] != "A" {
		t.Errorf("Expected pickup A, got %v", doc["pickup"])
	}
	if doc[repository.IDField] != id {
		t.Errorf("Expected id field %s, got %v", id, doc[repository.IDField])
	}
}

func TestDocumentStore_GetByID_NotFound(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.GetByID(context.Background(), "rides", "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDocumentStore_DocumentsAreCopied(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	input := repository.Document{"pickup": "A", "passengersOfRide": []any{"p-1"}}
	id, _ := store.Insert(ctx, "rides", input)
	input["pickup"] = "changed"

	doc, _ := store.GetByID(ctx, "rides", id)
	doc["passengersOfRide"] = append(doc["passengersOfRide"].([]any), "p-2")

	again, _ := store.GetByID(ctx, "rides", id)
	if again["pickup"] != "A" {
		t.Errorf("Expected stored pickup A, got %v", again["pickup"])
	}
	if len(again["passengersOfRide"].([]any)) != 1 {
		t.Errorf("Expected 1 stored passenger, got %v", again["passengersOfRide"])
	}
}

func TestDocumentStore_QueryByEquality(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	store.Insert(ctx, "rides", repository.Document{"role": "DRIVER", "pickup": "A", "destination": "B"})
	store.Insert(ctx, "rides", repository.Document{"role": "DRIVER", "pickup": "A", "destination": "C"})
	store.Insert(ctx, "rides", repository.Document{"role": "PASSENGER", "pickup": "A", "destination": "B"})
	store.Insert(ctx, "rides", repository.Document{"role": "DRIVER", "pickup": "a", "destination": "B"})

	docs, err := store.QueryByEquality(ctx, "rides", map[string]any{
		"role": "DRIVER", "pickup": "A", "destination": "B",
	})
	if err != nil {
		t.Fatalf("QueryByEquality failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(docs))
	}
	if docs[0]["destination"] != "B" {
		t.Errorf("Expected destination B, got %v", docs[0]["destination"])
	}
}

func TestDocumentStore_QueryPreservesInsertionOrder(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		id, _ := store.Insert(ctx, "rides", repository.Document{"pickup": "A"})
		ids = append(ids, id)
	}

	docs, _ := store.QueryByEquality(ctx, "rides", map[string]any{"pickup": "A"})
	for i, doc := range docs {
		if doc[repository.IDField] != ids[i] {
			t.Errorf("Position %d: expected %s, got %v", i, ids[i], doc[repository.IDField])
		}
	}
}

func TestDocumentStore_Put(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	if err := store.Put(ctx, "users", "user-1", repository.Document{"firstName": "Asha"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, "users", "user-1", repository.Document{"firstName": "Ravi"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	doc, _ := store.GetByID(ctx, "users", "user-1")
	if doc["firstName"] != "Ravi" {
		t.Errorf("Expected replaced document, got %v", doc["firstName"])
	}
	if store.Len("users") != 1 {
		t.Errorf("Expected 1 document, got %d", store.Len("users"))
	}
}
