package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/revocation"
)

const bearerScheme = "Bearer"

// Authenticator gates protected requests.
//
// Checks run in strict order: credential presence, revocation, then
// signature and expiry. Revocation is checked before any cryptographic
// work so a logged-out token never reaches verification success, even if
// logout and the request race.
type Authenticator struct {
	tokens  *TokenManager
	revoked revocation.Store
}

func NewAuthenticator(tokens *TokenManager, revoked revocation.Store) (*Authenticator, error) {
	if tokens == nil || revoked == nil {
		return nil, errors.New("token manager and revocation store must not be nil")
	}

	return &Authenticator{tokens: tokens, revoked: revoked}, nil
}

// Authenticate validates the Authorization header value and returns
// the principal decoded from the token.
// Errors: apperrors.ErrNoCredential if no token could be extracted,
// apperrors.ErrTokenRevoked or apperrors.ErrTokenInvalid otherwise.
// Read-only: no state changes on any path.
func (a *Authenticator) Authenticate(ctx context.Context, headerValue string) (models.Principal, error) {
	var p models.Principal

	raw, err := extractBearer(headerValue)
	if err != nil {
		return p, err
	}

	revoked, err := a.revoked.IsRevoked(ctx, raw)
	if err != nil {
		return p, fmt.Errorf("revocation lookup failed. Err: %w", err)
	}
	if revoked {
		return p, apperrors.ErrTokenRevoked
	}

	return a.tokens.Parse(raw)
}

// Logout revokes the presented token.
// The token must still authenticate: a missing credential keeps failing
// with ErrNoCredential, an already revoked one with ErrTokenRevoked.
func (a *Authenticator) Logout(ctx context.Context, headerValue string) error {
	raw, err := extractBearer(headerValue)
	if err != nil {
		return err
	}

	revoked, err := a.revoked.IsRevoked(ctx, raw)
	if err != nil {
		return fmt.Errorf("revocation lookup failed. Err: %w", err)
	}
	if revoked {
		return apperrors.ErrTokenRevoked
	}

	claims, err := a.tokens.parseClaims(raw)
	if err != nil {
		return err
	}

	return a.revoked.Revoke(ctx, raw, claims.ExpiresAt.Time)
}

// extractBearer pulls the token out of an 'Bearer <token>' header value
func extractBearer(headerValue string) (string, error) {
	scheme, token, found := strings.Cut(strings.TrimSpace(headerValue), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", apperrors.ErrNoCredential
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.ErrNoCredential
	}

	return token, nil
}
