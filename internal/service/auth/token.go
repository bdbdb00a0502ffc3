package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/models"
)

const (
	defaultTokenTTL      = 24 * time.Hour
	defaultSigningMethod = "HS256"
)

// Claims carried by every issued token
type Claims struct {
	jwt.RegisteredClaims
	PrincipalID uuid.UUID `json:"uid"`
	Role        string    `json:"role"`
}

type TokenManagerConfig struct {
	// Secret key to sign tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Token lifetime
	// If not set then default is used
	TokenTTL time.Duration
}

// TokenManager issues and verifies signed bearer tokens.
// Two managers with different secrets reject each other's tokens.
type TokenManager struct {
	key string
	alg jwt.SigningMethod
	ttl time.Duration
}

func NewTokenManager(cfg TokenManagerConfig) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	return &TokenManager{
		key: cfg.SecretKey,
		alg: jwt.GetSigningMethod(cfg.Alg),
		ttl: cfg.TokenTTL,
	}, nil
}

// Issue creates a signed token embedding the principal's identity and role
func (m *TokenManager) Issue(p models.Principal) (models.IssuedToken, error) {
	var issued models.IssuedToken

	if p.ID == uuid.Nil {
		return issued, fmt.Errorf("empty identity: %w", apperrors.ErrInvalidPrincipal)
	}
	if p.Role != models.RolePatient && p.Role != models.RoleDoctor {
		return issued, fmt.Errorf("unknown role %q: %w", p.Role, apperrors.ErrInvalidPrincipal)
	}

	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(m.ttl)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			PrincipalID: p.ID,
			Role:        p.Role,
		},
	)
	value, err := token.SignedString([]byte(m.key))
	if err != nil {
		return issued, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// Parse verifies signature and expiry and returns the embedded principal
func (m *TokenManager) Parse(raw string) (models.Principal, error) {
	claims, err := m.parseClaims(raw)
	if err != nil {
		return models.Principal{}, err
	}

	return models.Principal{ID: claims.PrincipalID, Role: claims.Role}, nil
}

func (m *TokenManager) parseClaims(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}

	// Claims structurally valid but semantically empty means a forged
	// or foreign token signed with the same alg
	if claims.PrincipalID == uuid.Nil {
		return nil, fmt.Errorf("%w: no identity in payload", apperrors.ErrTokenInvalid)
	}
	if claims.Role != models.RolePatient && claims.Role != models.RoleDoctor {
		return nil, fmt.Errorf("%w: unknown role in payload", apperrors.ErrTokenInvalid)
	}

	return claims, nil
}
