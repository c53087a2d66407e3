/*
Package identity resolves who is using the budget.

PURPOSE:
  Every expense and profile belongs to exactly one user. This package turns
  a bearer token into a user and keeps track of the signed-in user for
  long-lived clients. When nobody is signed in the fixed anonymous
  identity is used, so single-user setups need no auth at all.

KEY CONCEPTS:
  Identity:  Opaque ID plus display name and optional avatar
  Verifier:  Checks HS256 JWTs and mints them for the CLI and demos
  Provider:  Signed-in state with asynchronous SignIn/SignOut
  Middleware: HTTP adapter that puts the caller's Identity on the context

SEE ALSO:
  - api/server.go: Router wiring
  - cmd/paycheck: CLI sign-in via --token
*/
package identity

import (
	"context"

	"github.com/warp/paycheck/generic"
)

// Identity is an authenticated (or the anonymous) user.
type Identity struct {
	ID        generic.UserID `json:"id"`
	Name      string         `json:"name,omitempty"`
	AvatarURL string         `json:"avatarUrl,omitempty"`
}

// Anonymous is used whenever no one is signed in.
var Anonymous = Identity{ID: generic.AnonymousUser, Name: "Anonymous"}

// IsAnonymous reports whether id is the fixed default identity.
func (id Identity) IsAnonymous() bool {
	return id.ID == generic.AnonymousUser
}

type contextKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity on ctx, or Anonymous if there is none.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok {
		return id
	}
	return Anonymous
}

// UserID is shorthand for FromContext(ctx).ID.
func UserID(ctx context.Context) generic.UserID {
	return FromContext(ctx).ID
}
