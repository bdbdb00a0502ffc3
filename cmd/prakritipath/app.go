package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prakritipath/backend/internal/db"
	"github.com/prakritipath/backend/internal/handlers"
	"github.com/prakritipath/backend/internal/logger"
	"github.com/prakritipath/backend/internal/repository/postgres"
	"github.com/prakritipath/backend/internal/revocation"
	"github.com/prakritipath/backend/internal/service/auth"
	"github.com/prakritipath/backend/internal/service/consultation"
)

// Budget for the login and signup routes, per client ip
const (
	loginRatePerSecond = 1
	loginBurst         = 10
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Pick the revoked token registry.
	// Memory is the default: simplest thing that works for one process.
	// Postgres survives restarts and is shared between replicas.
	var revoked revocation.Store
	switch c.RevocationStore {
	case revocationMemory:
		revoked = revocation.NewMemoryStore()
	case revocationPostgres:
		revoked = storage.Revocation()
	default:
		return nil, fmt.Errorf("unknown revocation store: %q", c.RevocationStore)
	}

	// Initialize services
	authService, err := auth.NewService(
		auth.Config{SecretKey: c.SecretKey, TokenTTL: c.TokenTTL},
		storage.Patient(),
		storage.Doctor(),
		revoked,
	)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	consultationService := consultation.NewService(storage.Consultation(), storage.Doctor())

	mux := handlers.NewRouter(
		handlers.RouterConfig{
			AllowedOrigins:     c.Origins(),
			LoginRatePerSecond: loginRatePerSecond,
			LoginBurst:         loginBurst,
		},
		authService,
		consultationService,
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
