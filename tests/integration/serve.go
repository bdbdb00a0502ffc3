package integration

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/prakritipath/backend/internal/handlers"
	"github.com/prakritipath/backend/internal/logger"
	"github.com/prakritipath/backend/internal/repository/postgres"
	"github.com/prakritipath/backend/internal/service/auth"
	"github.com/prakritipath/backend/internal/service/consultation"
	"github.com/prakritipath/backend/internal/testutil"
)

type Services struct {
	AuthService         *auth.Service
	ConsultationService *consultation.Service
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The revocation registry is the postgres one, so logout hits the same transaction.
// You can safely use testutil.WithTx with the passed transaction.
func RunTx(dbpool *pgxpool.Pool, t *testing.T, fn func(srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		as, err := auth.NewService(
			auth.Config{SecretKey: "test-secret"},
			storage.Patient(),
			storage.Doctor(),
			storage.Revocation(),
		)
		require.NoError(t, err, "auth service starting error")

		cs := consultation.NewService(storage.Consultation(), storage.Doctor())

		router := handlers.NewRouter(
			handlers.RouterConfig{LoginRatePerSecond: 1000, LoginBurst: 1000},
			as,
			cs,
			logger.NewNoOpLogger(),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(srv.URL, Services{
			AuthService:         as,
			ConsultationService: cs,
		})
	})
}
