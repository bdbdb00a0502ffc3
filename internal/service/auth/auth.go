package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/repository"
	"github.com/prakritipath/backend/internal/revocation"
)

type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// Token lifetime, default is used if not set
	TokenTTL time.Duration

	// Hasher used during registration and login
	// Default bcrypt hasher is used if not set
	Hasher PasswordHasher
}

// Service ties credential verification, token issuance and logout together
type Service struct {
	tokens *TokenManager
	authn  *Authenticator
	hasher PasswordHasher

	patientRepo repository.PatientRepo
	doctorRepo  repository.DoctorRepo
}

func NewService(cfg Config, patientRepo repository.PatientRepo, doctorRepo repository.DoctorRepo, revoked revocation.Store) (*Service, error) {
	if patientRepo == nil || doctorRepo == nil {
		return nil, errors.New("repos must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	tokens, err := NewTokenManager(TokenManagerConfig{SecretKey: cfg.SecretKey, TokenTTL: cfg.TokenTTL})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authn, err := NewAuthenticator(tokens, revoked)
	if err != nil {
		return nil, err
	}

	return &Service{
		tokens:      tokens,
		authn:       authn,
		hasher:      hasher,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
	}, nil
}

type RegisterPatientArgs struct {
	FullName string
	Email    string
	Phone    string
	Password string
}

func (s *Service) RegisterPatient(ctx context.Context, arg RegisterPatientArgs) (models.Patient, models.IssuedToken, error) {
	var token models.IssuedToken

	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return models.Patient{}, token, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	patient, err := s.patientRepo.Create(ctx, repository.CreatePatientParams{
		FullName:     arg.FullName,
		Email:        arg.Email,
		Phone:        arg.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		return patient, token, err
	}

	token, err = s.tokens.Issue(patient.Principal())
	if err != nil {
		return patient, token, fmt.Errorf("token could not be issued. Err: %w", err)
	}

	return patient, token, nil
}

type RegisterDoctorArgs struct {
	FullName  string
	Email     string
	Specialty string
	Fee       decimal.Decimal
	Password  string
}

func (s *Service) RegisterDoctor(ctx context.Context, arg RegisterDoctorArgs) (models.Doctor, models.IssuedToken, error) {
	var token models.IssuedToken

	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return models.Doctor{}, token, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	doctor, err := s.doctorRepo.Create(ctx, repository.CreateDoctorParams{
		FullName:     arg.FullName,
		Email:        arg.Email,
		Specialty:    arg.Specialty,
		Fee:          arg.Fee,
		PasswordHash: hash,
	})
	if err != nil {
		return doctor, token, err
	}

	token, err = s.tokens.Issue(doctor.Principal())
	if err != nil {
		return doctor, token, fmt.Errorf("token could not be issued. Err: %w", err)
	}

	return doctor, token, nil
}

// LoginPatient verifies credentials and issues a token.
// Unknown email and wrong password both fail with apperrors.ErrLoginFailed,
// the caller must not be able to tell them apart.
func (s *Service) LoginPatient(ctx context.Context, email string, password string) (models.Patient, models.IssuedToken, error) {
	var token models.IssuedToken

	patient, err := s.patientRepo.GetByEmail(ctx, email)
	if err != nil {
		return patient, token, apperrors.ErrLoginFailed
	}

	if err := s.hasher.Compare(patient.PasswordHash, password); err != nil {
		return models.Patient{}, token, apperrors.ErrLoginFailed
	}

	token, err = s.tokens.Issue(patient.Principal())
	if err != nil {
		return patient, token, fmt.Errorf("token could not be issued. Err: %w", err)
	}

	return patient, token, nil
}

// LoginDoctor behaves exactly like LoginPatient, for the doctor role
func (s *Service) LoginDoctor(ctx context.Context, email string, password string) (models.Doctor, models.IssuedToken, error) {
	var token models.IssuedToken

	doctor, err := s.doctorRepo.GetByEmail(ctx, email)
	if err != nil {
		return doctor, token, apperrors.ErrLoginFailed
	}

	if err := s.hasher.Compare(doctor.PasswordHash, password); err != nil {
		return models.Doctor{}, token, apperrors.ErrLoginFailed
	}

	token, err = s.tokens.Issue(doctor.Principal())
	if err != nil {
		return doctor, token, fmt.Errorf("token could not be issued. Err: %w", err)
	}

	return doctor, token, nil
}

// Authenticate validates the Authorization header value of a request
func (s *Service) Authenticate(ctx context.Context, headerValue string) (models.Principal, error) {
	return s.authn.Authenticate(ctx, headerValue)
}

// Logout revokes the presented token; requires it to still be valid
func (s *Service) Logout(ctx context.Context, headerValue string) error {
	return s.authn.Logout(ctx, headerValue)
}
