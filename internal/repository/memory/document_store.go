// Package memory provides an in-process DocumentStore. It is the default
// backend for development and the one the service tests run against.
package memory

import (
	"context"
	"sync"

	"rideshare/internal/repository"
	"rideshare/pkg/utils"
)

type collection struct {
	docs  map[string]repository.Document
	order []string // insertion order, which is the store-defined query order
}

// DocumentStore keeps documents in maps guarded by a single RWMutex. Documents
// are deep-copied on the way in and out so callers never share state with the
// store.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]*collection),
	}
}

// collectionLocked returns the named collection, creating it. mu must be held
// for writing.
func (s *DocumentStore) collectionLocked(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]repository.Document)}
		s.collections[name] = c
	}
	return c
}

func (s *DocumentStore) Insert(ctx context.Context, name string, doc repository.Document) (string, error) {
	clone, err := repository.CloneDocument(doc)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collectionLocked(name)
	id := utils.GenerateID()
	c.docs[id] = clone
	c.order = append(c.order, id)
	return id, nil
}

func (s *DocumentStore) Put(ctx context.Context, name, id string, doc repository.Document) error {
	clone, err := repository.CloneDocument(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collectionLocked(name)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = clone
	return nil
}

func (s *DocumentStore) GetByID(ctx context.Context, name, id string) (repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	doc, exists := c.docs[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	return withID(doc, id)
}

// QueryByEquality is an O(n) scan of the collection.
func (s *DocumentStore) QueryByEquality(ctx context.Context, name string, predicates map[string]any) ([]repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return []repository.Document{}, nil
	}

	results := make([]repository.Document, 0)
	for _, id := range c.order {
		doc := c.docs[id]
		if !repository.Matches(doc, predicates) {
			continue
		}
		out, err := withID(doc, id)
		if err != nil {
			return nil, err
		}
		results = append(results, out)
	}
	return results, nil
}

// Len returns the number of documents in a collection.
func (s *DocumentStore) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.collections[name]; ok {
		return len(c.docs)
	}
	return 0
}

func withID(doc repository.Document, id string) (repository.Document, error) {
	out, err := repository.CloneDocument(doc)
	if err != nil {
		return nil, err
	}
	out[repository.IDField] = id
	return out, nil
}
