// Package couch implements repository.DocumentStore on CouchDB through kivik.
// Each collection is a CouchDB database; equality queries are Mango selectors.
package couch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb" // The CouchDB driver

	"rideshare/internal/repository"
)

type Store struct {
	client *kivik.Client
	prefix string

	mu  sync.Mutex
	dbs map[string]*kivik.DB
}

// Connect creates a client for the CouchDB server at url. Database names are
// prefix + collection.
func Connect(url, prefix string) (*Store, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("create couchdb client: %w", err)
	}
	return New(client, prefix), nil
}

func New(client *kivik.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
		dbs:    make(map[string]*kivik.DB),
	}
}

func (s *Store) Close() error {
	return s.client.Close()
}

// db returns the database handle for collection, creating the database on
// first use.
func (s *Store) db(ctx context.Context, collection string) (*kivik.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[collection]; ok {
		return db, nil
	}
	name := s.prefix + collection
	exists, err := s.client.DBExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check database %s: %w", name, err)
	}
	if !exists {
		if err := s.client.CreateDB(ctx, name); err != nil && kivik.HTTPStatus(err) != http.StatusPreconditionFailed {
			return nil, fmt.Errorf("create database %s: %w", name, err)
		}
	}
	db := s.client.DB(name)
	if err := db.Err(); err != nil {
		return nil, fmt.Errorf("open database %s: %w", name, err)
	}
	s.dbs[collection] = db
	return db, nil
}

// stripMeta removes CouchDB bookkeeping fields and exposes _id as IDField.
func stripMeta(doc map[string]any) repository.Document {
	out := make(repository.Document, len(doc))
	for k, v := range doc {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	if id, ok := doc["_id"].(string); ok {
		out[repository.IDField] = id
	}
	return out
}

func body(doc repository.Document) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == repository.IDField || strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	return out
}

func (s *Store) Insert(ctx context.Context, collection string, doc repository.Document) (string, error) {
	db, err := s.db(ctx, collection)
	if err != nil {
		return "", err
	}
	id, _, err := db.CreateDoc(ctx, body(doc))
	if err != nil {
		return "", fmt.Errorf("create document in %s: %w", collection, err)
	}
	return id, nil
}

// Put replaces the document, carrying over the current revision so CouchDB
// accepts the write.
func (s *Store) Put(ctx context.Context, collection, id string, doc repository.Document) error {
	db, err := s.db(ctx, collection)
	if err != nil {
		return err
	}

	payload := body(doc)
	var current map[string]any
	err = db.Get(ctx, id).ScanDoc(&current)
	switch {
	case err == nil:
		payload["_rev"] = current["_rev"]
	case kivik.HTTPStatus(err) == http.StatusNotFound:
	default:
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	if _, err := db.Put(ctx, id, payload); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (repository.Document, error) {
	db, err := s.db(ctx, collection)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := db.Get(ctx, id).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return stripMeta(doc), nil
}

// findPageSize is the limit sent with each _find request. CouchDB applies a
// default limit of 25 when none is given.
var findPageSize = 200

// QueryByEquality runs a Mango selector with one equality clause per
// predicate and follows bookmarks until every match has been read. Without an
// index CouchDB falls back to a full scan.
func (s *Store) QueryByEquality(ctx context.Context, collection string, predicates map[string]any) ([]repository.Document, error) {
	db, err := s.db(ctx, collection)
	if err != nil {
		return nil, err
	}

	selector := make(map[string]any, len(predicates))
	for field, value := range predicates {
		selector[field] = map[string]any{"$eq": value}
	}

	results := make([]repository.Document, 0)
	bookmark := ""
	for {
		query := map[string]any{
			"selector": selector,
			"limit":    findPageSize,
		}
		if bookmark != "" {
			query["bookmark"] = bookmark
		}

		page, next, err := s.findPage(ctx, db, collection, query)
		if err != nil {
			return nil, err
		}
		results = append(results, page...)
		if len(page) < findPageSize || next == "" || next == bookmark {
			return results, nil
		}
		bookmark = next
	}
}

// findPage runs one _find request and returns its documents and the bookmark
// for the next page.
func (s *Store) findPage(ctx context.Context, db *kivik.DB, collection string, query map[string]any) ([]repository.Document, string, error) {
	rows := db.Find(ctx, query)
	defer rows.Close()

	docs := make([]repository.Document, 0, findPageSize)
	for rows.Next() {
		var doc map[string]any
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, "", fmt.Errorf("scan %s: %w", collection, err)
		}
		docs = append(docs, stripMeta(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("find in %s: %w", collection, err)
	}

	meta, err := rows.Metadata()
	if err != nil {
		return nil, "", fmt.Errorf("find in %s: %w", collection, err)
	}
	return docs, meta.Bookmark, nil
}
