// Package identity answers "who is the current user" for the ride workflow.
// The workflow never authenticates anyone itself: HTTP middleware verifies a
// bearer token, loads the caller's profile and stores the resulting user in
// the request context, where ContextProvider finds it.
package identity

import (
	"context"

	"rideshare/internal/domain/entities"
)

// Provider returns the signed-in user, or false when nobody is signed in.
type Provider interface {
	CurrentUser(ctx context.Context) (*entities.User, bool)
}

type userKey struct{}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user *entities.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// ContextProvider reads the user placed in the context by WithUser.
type ContextProvider struct{}

func NewContextProvider() ContextProvider {
	return ContextProvider{}
}

func (ContextProvider) CurrentUser(ctx context.Context) (*entities.User, bool) {
	user, ok := ctx.Value(userKey{}).(*entities.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
