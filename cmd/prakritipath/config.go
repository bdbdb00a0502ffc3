package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/prakritipath/backend/internal/logger"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultTokenTTL     = 24 * time.Hour

	// Revocation registry backends
	revocationMemory   = "memory"
	revocationPostgres = "postgres"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the backend will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key used to sign auth tokens
	SecretKey string

	// Lifetime of issued auth tokens
	TokenTTL time.Duration

	// Where revoked tokens are kept: 'memory' (per process) or 'postgres'
	RevocationStore string

	// Origins allowed to call the API from a browser, comma separated
	AllowedOrigins string

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:        defaultLoggingLevel,
		ListenAddr:      defaultListenAddr,
		TokenTTL:        defaultTokenTTL,
		RevocationStore: revocationMemory,
		Environment:     defaultEnvironment,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}
	setDuration := func(o *time.Duration) func(value string) {
		return func(value string) {
			if value == "" {
				return
			}
			if d, err := time.ParseDuration(value); err == nil {
				*o = d
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":      setString(&c.ListenAddr),
		"DATABASE_URI":     setString(&c.DatabaseDSN),
		"SECRET_KEY":       setString(&c.SecretKey),
		"TOKEN_TTL":        setDuration(&c.TokenTTL),
		"REVOCATION_STORE": setString(&c.RevocationStore),
		"ALLOWED_ORIGINS":  setString(&c.AllowedOrigins),
		"LOG_LEVEL":        setString(&c.LogLevel),
		"ENVIRONMENT":      setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("prakritipath", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.DurationVarP(&c.TokenTTL, "token-ttl", "t", c.TokenTTL, "Auth token lifetime")
	fs.StringVar(&c.RevocationStore, "revocation-store", c.RevocationStore, "Revoked token registry backend (memory, postgres)")
	fs.StringVar(&c.AllowedOrigins, "allowed-origins", c.AllowedOrigins, "CORS origins, comma separated")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	return fs.Parse(args)
}

// Origins splits the comma separated AllowedOrigins option
func (c *Config) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}

	parts := strings.Split(c.AllowedOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
