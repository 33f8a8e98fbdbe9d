// Package badgerstore implements repository.DocumentStore on an embedded
// BadgerDB. Documents are stored as JSON under "<collection>:<id>" keys, so a
// collection is a key prefix and equality queries are a prefix scan.
package badgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"rideshare/internal/repository"
	"rideshare/pkg/utils"
)

type Store struct {
	db *badger.DB
}

// Open opens (or creates) a BadgerDB at path. An empty path opens an
// in-memory database.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// New wraps an already opened database.
func New(db *badger.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func key(collection, id string) []byte {
	return []byte(collection + ":" + id)
}

func (s *Store) Insert(ctx context.Context, collection string, doc repository.Document) (string, error) {
	id := utils.GenerateID()
	if err := s.Put(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Put(ctx context.Context, collection, id string, doc repository.Document) error {
	body := make(repository.Document, len(doc))
	for k, v := range doc {
		if k != repository.IDField {
			body[k] = v
		}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key(collection, id), data); err != nil {
			return fmt.Errorf("set %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (repository.Document, error) {
	var doc repository.Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(collection, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s/%s: %w", collection, id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err != nil {
		return nil, err
	}
	doc[repository.IDField] = id
	return doc, nil
}

// QueryByEquality scans the collection prefix in key order.
func (s *Store) QueryByEquality(ctx context.Context, collection string, predicates map[string]any) ([]repository.Document, error) {
	prefix := []byte(collection + ":")
	results := make([]repository.Document, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var doc repository.Document
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			if !repository.Matches(doc, predicates) {
				continue
			}
			doc[repository.IDField] = string(item.Key()[len(prefix):])
			results = append(results, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
