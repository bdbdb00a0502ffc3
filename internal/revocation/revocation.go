// Package revocation holds the registry of tokens invalidated by logout.
//
// The registry is keyed by the raw token string so the authenticator can
// consult it before any parsing or signature work happens. The store is an
// explicit dependency of the authenticator: swapping the in-memory default
// for a shared durable implementation must not touch the auth logic.
package revocation

import (
	"context"
	"time"
)

// Store is a set of revoked tokens.
type Store interface {
	// Revoke puts the token into the store unconditionally.
	// Must be idempotent: revoking twice is not an error.
	// expiresAt is the token's own expiry, kept so a durable
	// implementation can eventually prune entries.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error

	// IsRevoked reports whether the token was revoked before
	IsRevoked(ctx context.Context, token string) (bool, error)
}
