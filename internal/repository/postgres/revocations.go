package postgres

import (
	"context"
	"fmt"
	"time"
)

// RevocationStore is the durable revocation.Store implementation.
// Meant for multi-instance deployments where the in-memory set is not
// enough; the expires_at column is kept so entries for long-expired tokens
// can be pruned once there is product guidance on retention.
type RevocationStore struct {
	DB DBTX
}

const revokeToken = `-- name: RevokeToken
INSERT INTO revoked_tokens (token, expires_at)
VALUES ($1, $2)
ON CONFLICT (token) DO NOTHING
`

func (s *RevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := s.DB.Exec(ctx, revokeToken, token, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const isTokenRevoked = `-- name: IsTokenRevoked
SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token = $1)
`

func (s *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	var revoked bool
	err := s.DB.QueryRow(ctx, isTokenRevoked, token).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return revoked, nil
}
