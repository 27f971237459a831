package ports

import (
	"context"

	"github.com/schoolhub/school-console/internal/core/domain"
)

// TokenCodec turns a raw bearer token into claims. Implementations return an
// error wrapping domain.ErrMalformedToken when the token cannot be used.
type TokenCodec interface {
	Decode(raw string) (domain.Claims, error)
}

// TokenSigner issues tokens the matching TokenCodec can decode.
type TokenSigner interface {
	Encode(claims domain.Claims) (string, error)
}

// PersistenceStore is the durable key-value store backing the session.
// Get reports ok=false for a missing key without an error.
type PersistenceStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// AuthGateway exchanges credentials for a signed token.
// Errors wrap domain.ErrInvalidCredentials or domain.ErrConnection.
type AuthGateway interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// SessionListener receives every session transition. user is nil after logout.
type SessionListener func(user *domain.CurrentUser)

// SessionReader is the read-only view of the session handed to collaborators.
type SessionReader interface {
	CurrentUser() (domain.CurrentUser, bool)
	IsAuthenticated() bool
	HasRole(role domain.Role) bool
	Token() (string, bool)
}

// SessionService owns the authenticated identity of the process.
type SessionService interface {
	SessionReader
	Restore(ctx context.Context) bool
	Login(ctx context.Context, email, password string) (domain.CurrentUser, error)
	Logout(ctx context.Context)
	Subscribe(listener SessionListener) (unsubscribe func())
}
