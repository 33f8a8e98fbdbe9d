package repository

import (
	"context"
	"time"
)

// TimeoutStore bounds every operation of the wrapped store by a fixed
// deadline, on top of whatever deadline the caller's context carries.
type TimeoutStore struct {
	next    DocumentStore
	timeout time.Duration
}

func WithTimeout(next DocumentStore, timeout time.Duration) *TimeoutStore {
	return &TimeoutStore{next: next, timeout: timeout}
}

func (s *TimeoutStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Insert(ctx, collection, doc)
}

func (s *TimeoutStore) Put(ctx context.Context, collection, id string, doc Document) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Put(ctx, collection, id, doc)
}

func (s *TimeoutStore) GetByID(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.GetByID(ctx, collection, id)
}

func (s *TimeoutStore) QueryByEquality(ctx context.Context, collection string, predicates map[string]any) ([]Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.QueryByEquality(ctx, collection, predicates)
}
