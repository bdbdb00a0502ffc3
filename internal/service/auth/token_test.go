package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/models"
)

func Test_NewTokenManager(t *testing.T) {
	t.Parallel()

	t.Run("empty secret rejected", func(t *testing.T) {
		_, err := NewTokenManager(TokenManagerConfig{})

		require.Error(t, err)
	})

	t.Run("defaults applied", func(t *testing.T) {
		m, err := NewTokenManager(TokenManagerConfig{SecretKey: "test-secret-key"})

		require.NoError(t, err)
		assert.Equal(t, "HS256", m.alg.Alg())
		assert.Equal(t, 24*time.Hour, m.ttl)
	})
}

func Test_TokenManager_Issue(t *testing.T) {
	t.Parallel()

	manager := TokenManager{
		key: "test-secret-key",
		alg: jwt.GetSigningMethod("HS256"),
		ttl: 15 * time.Minute,
	}
	patient := models.Principal{ID: uuid.New(), Role: models.RolePatient}

	t.Run("issue ok", func(t *testing.T) {
		issued, err := manager.Issue(patient)

		require.NoError(t, err)
		assert.NotEmpty(t, issued.Value, "token should not be empty")
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, time.Second)
	})

	t.Run("token has correct claims", func(t *testing.T) {
		issued, err := manager.Issue(patient)
		require.NoError(t, err)

		token, err := jwt.ParseWithClaims(issued.Value, &Claims{}, func(token *jwt.Token) (any, error) {
			return []byte("test-secret-key"), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid, "token should be valid")

		claims, ok := token.Claims.(*Claims)
		require.True(t, ok, "claims should be of type Claims")
		assert.Equal(t, patient.ID, claims.PrincipalID, "identity in token should match")
		assert.Equal(t, models.RolePatient, claims.Role, "role in token should match")
		assert.NotEmpty(t, claims.ID, "token has to have jti")
		assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second, "issued at should be close to now")
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Second, "expires at should be 15 minutes from now")
	})

	t.Run("several tokens different", func(t *testing.T) {
		first, err := manager.Issue(patient)
		require.NoError(t, err)

		second, err := manager.Issue(patient)
		require.NoError(t, err)

		assert.NotEqual(t, first.Value, second.Value, "every token should carry its own jti")
	})

	t.Run("malformed principal rejected", func(t *testing.T) {
		tests := []struct {
			name      string
			principal models.Principal
		}{
			{"empty identity", models.Principal{ID: uuid.Nil, Role: models.RolePatient}},
			{"empty role", models.Principal{ID: uuid.New(), Role: ""}},
			{"unknown role", models.Principal{ID: uuid.New(), Role: "admin"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := manager.Issue(tt.principal)

				require.ErrorIs(t, err, apperrors.ErrInvalidPrincipal)
			})
		}
	})
}

func Test_TokenManager_Parse(t *testing.T) {
	t.Parallel()

	manager := TokenManager{
		key: "test-secret-key",
		alg: jwt.GetSigningMethod("HS256"),
		ttl: 15 * time.Minute,
	}

	t.Run("round trip returns exact principal", func(t *testing.T) {
		for _, role := range []string{models.RolePatient, models.RoleDoctor} {
			principal := models.Principal{ID: uuid.New(), Role: role}

			issued, err := manager.Issue(principal)
			require.NoError(t, err)

			got, err := manager.Parse(issued.Value)
			require.NoError(t, err)
			assert.Equal(t, principal, got)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expiredManager := TokenManager{
			key: "test-secret-key",
			alg: jwt.GetSigningMethod("HS256"),
			ttl: -time.Minute,
		}

		issued, err := expiredManager.Issue(models.Principal{ID: uuid.New(), Role: models.RolePatient})
		require.NoError(t, err)

		_, err = manager.Parse(issued.Value)

		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("different secret rejected", func(t *testing.T) {
		otherManager := TokenManager{
			key: "other-secret-key",
			alg: jwt.GetSigningMethod("HS256"),
			ttl: 15 * time.Minute,
		}

		issued, err := otherManager.Issue(models.Principal{ID: uuid.New(), Role: models.RolePatient})
		require.NoError(t, err)

		_, err = manager.Parse(issued.Value)

		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := manager.Parse("not.a.token")

		require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}
