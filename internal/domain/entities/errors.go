package entities

import "fmt"

// ErrorKind classifies a ValidationError. The set is closed: every failure the
// ride workflow reports to its caller carries one of these kinds.
type ErrorKind string

const (
	KindInvalidDate       ErrorKind = "invalid_date"
	KindMissingLocation   ErrorKind = "missing_location"
	KindNotAuthenticated  ErrorKind = "not_authenticated"
	KindStoreUnavailable  ErrorKind = "store_unavailable"
	KindPersistenceFailed ErrorKind = "persistence_failed"
	KindInvalidRole       ErrorKind = "invalid_role"
	KindInvalidSeats      ErrorKind = "invalid_seats"
)

// ValidationError is the explicit failure result of posting and searching.
// Store failures keep their underlying cause reachable through Unwrap.
type ValidationError struct {
	Kind  ErrorKind
	Cause error
}

// Sentinels for errors.Is. Two ValidationErrors are equal under errors.Is when
// their kinds match, so a wrapped store failure still satisfies
// errors.Is(err, ErrStoreUnavailable).
var (
	ErrInvalidDate       = &ValidationError{Kind: KindInvalidDate}
	ErrMissingLocation   = &ValidationError{Kind: KindMissingLocation}
	ErrNotAuthenticated  = &ValidationError{Kind: KindNotAuthenticated}
	ErrStoreUnavailable  = &ValidationError{Kind: KindStoreUnavailable}
	ErrPersistenceFailed = &ValidationError{Kind: KindPersistenceFailed}
	ErrInvalidRole       = &ValidationError{Kind: KindInvalidRole}
	ErrInvalidSeats      = &ValidationError{Kind: KindInvalidSeats}
)

// NewValidationError builds a ValidationError of the given kind wrapping cause
// (which may be nil).
func NewValidationError(kind ErrorKind, cause error) *ValidationError {
	return &ValidationError{Kind: kind, Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return string(e.Kind)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports kind equality with another *ValidationError.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
