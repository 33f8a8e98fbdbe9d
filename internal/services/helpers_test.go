package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"rideshare/internal/domain/entities"
	"rideshare/internal/events"
	"rideshare/internal/identity"
	"rideshare/internal/repository"
	"rideshare/internal/repository/memory"
)

// countingStore wraps the memory store, counts calls per operation and can be
// told to fail inserts, queries or one particular put.
type countingStore struct {
	repository.DocumentStore

	mu        sync.Mutex
	calls     map[string]int
	insertErr error
	queryErr  error

	// putErr is returned by the failPut-th call to Put (1-based); 0 never fails.
	putErr  error
	failPut int
}

func newCountingStore() *countingStore {
	return &countingStore{
		DocumentStore: memory.NewDocumentStore(),
		calls:         make(map[string]int),
	}
}

func (s *countingStore) count(op string) {
	s.mu.Lock()
	s.calls[op]++
	s.mu.Unlock()
}

func (s *countingStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *countingStore) Writes() int {
	return s.Calls("insert") + s.Calls("put")
}

func (s *countingStore) Insert(ctx context.Context, collection string, doc repository.Document) (string, error) {
	s.count("insert")
	if s.insertErr != nil {
		return "", s.insertErr
	}
	return s.DocumentStore.Insert(ctx, collection, doc)
}

func (s *countingStore) Put(ctx context.Context, collection, id string, doc repository.Document) error {
	s.count("put")
	if s.failPut > 0 && s.Calls("put") == s.failPut {
		return s.putErr
	}
	return s.DocumentStore.Put(ctx, collection, id, doc)
}

func (s *countingStore) GetByID(ctx context.Context, collection, id string) (repository.Document, error) {
	s.count("get")
	return s.DocumentStore.GetByID(ctx, collection, id)
}

func (s *countingStore) QueryByEquality(ctx context.Context, collection string, predicates map[string]any) ([]repository.Document, error) {
	s.count("query")
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.DocumentStore.QueryByEquality(ctx, collection, predicates)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.RideEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.RideEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

type testEnv struct {
	store     *countingStore
	rides     *repository.DocumentRideRepository
	booking   *BookingService
	matching  *MatchingService
	publisher *recordingPublisher
}

func setupServices() *testEnv {
	store := newCountingStore()
	rides := repository.NewRideRepository(store)
	publisher := &recordingPublisher{}
	return &testEnv{
		store:     store,
		rides:     rides,
		booking:   NewBookingService(rides, identity.NewContextProvider(), publisher),
		matching:  NewMatchingService(rides),
		publisher: publisher,
	}
}

func asUser(id string, profile entities.ProfileFields) context.Context {
	return identity.WithUser(context.Background(), entities.NewUser(id, profile))
}

func intent(role entities.Role, pickup, destination string, seats int) entities.PostingIntent {
	return entities.PostingIntent{
		Role:        role,
		Pickup:      pickup,
		Destination: destination,
		ScheduledAt: "2026-11-02T08:30",
		Seats:       seats,
	}
}

func mustPost(t *testing.T, env *testEnv, ctx context.Context, in entities.PostingIntent) *entities.RideRecord {
	t.Helper()
	ride, err := env.booking.PostRide(ctx, in)
	if err != nil {
		t.Fatalf("PostRide failed: %v", err)
	}
	return ride
}

var errBoom = errors.New("boom")

func identityCtx(user *entities.User) context.Context {
	return identity.WithUser(context.Background(), user)
}
