// Package utils provides small helpers shared by the server and its stores.
//
// Go Learning Note ("pkg/" Directory Convention):
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private). This is a community convention,
// not a Go language feature.
package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID creates a UUID v4 string. The memory, badger and postgres stores
// use it for document ids; CouchDB assigns its own.
//
// Go Learning Note ("github.com/google/uuid"):
// uuid.New() creates a random (v4) UUID like
// "550e8400-e29b-41d4-a716-446655440000". UUIDs can be generated without
// coordination, and the collision probability is negligible (1 in 2^122).
func GenerateID() string {
	return uuid.New().String()
}

// GenerateRequestID returns a 16-character hex id for correlating the log
// lines of one HTTP request.
func GenerateRequestID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
