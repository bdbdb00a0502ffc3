package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/handlers/principalctx"
	"github.com/prakritipath/backend/internal/handlers/render"
	"github.com/prakritipath/backend/internal/logger"
	"github.com/prakritipath/backend/internal/models"
)

type authService interface {
	Authenticate(ctx context.Context, headerValue string) (models.Principal, error)
}

// AuthMiddleware gates protected routes.
// Missing credential responds 401, anything else (revoked, expired, forged)
// a flat 403. The concrete reason is logged but never sent to the client.
func AuthMiddleware(as authService, l logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := as.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, apperrors.ErrNoCredential) {
					render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
					return
				}

				l.Warn("Rejected credential", "reason", err, "uri", r.RequestURI)
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
				return
			}

			ctx := principalctx.New(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
