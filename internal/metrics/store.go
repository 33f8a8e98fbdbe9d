package metrics

import (
	"context"
	"errors"
	"time"

	"rideshare/internal/repository"
)

// InstrumentedStore records latency and errors of every call to the wrapped
// DocumentStore.
type InstrumentedStore struct {
	next repository.DocumentStore
}

func InstrumentStore(next repository.DocumentStore) *InstrumentedStore {
	return &InstrumentedStore{next: next}
}

func observe(operation, collection string, start time.Time, err error) {
	StoreOperationDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		StoreOperationErrors.WithLabelValues(operation, collection).Inc()
	}
}

func (s *InstrumentedStore) Insert(ctx context.Context, collection string, doc repository.Document) (id string, err error) {
	defer func(start time.Time) { observe("insert", collection, start, err) }(time.Now())
	return s.next.Insert(ctx, collection, doc)
}

func (s *InstrumentedStore) Put(ctx context.Context, collection, id string, doc repository.Document) (err error) {
	defer func(start time.Time) { observe("put", collection, start, err) }(time.Now())
	return s.next.Put(ctx, collection, id, doc)
}

func (s *InstrumentedStore) GetByID(ctx context.Context, collection, id string) (doc repository.Document, err error) {
	defer func(start time.Time) { observe("get", collection, start, err) }(time.Now())
	return s.next.GetByID(ctx, collection, id)
}

func (s *InstrumentedStore) QueryByEquality(ctx context.Context, collection string, predicates map[string]any) (docs []repository.Document, err error) {
	defer func(start time.Time) { observe("query", collection, start, err) }(time.Now())
	return s.next.QueryByEquality(ctx, collection, predicates)
}
