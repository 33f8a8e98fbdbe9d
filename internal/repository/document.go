package repository

import (
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
)

// EncodeDocument converts a tagged struct into a Document.
func EncodeDocument(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// DecodeDocument fills the tagged struct pointed to by v from doc.
func DecodeDocument(doc Document, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

// CloneDocument returns a deep copy of doc with IDField removed.
func CloneDocument(doc Document) (Document, error) {
	clone, err := EncodeDocument(doc)
	if err != nil {
		return nil, err
	}
	delete(clone, IDField)
	return clone, nil
}

// Matches reports whether doc satisfies every equality predicate.
func Matches(doc Document, predicates map[string]any) bool {
	for field, want := range predicates {
		got, ok := doc[field]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
