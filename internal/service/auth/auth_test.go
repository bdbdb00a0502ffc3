package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/repository"
	"github.com/prakritipath/backend/internal/revocation"
)

// In-memory repo fakes, enough for the service logic
type fakePatientRepo struct {
	byEmail map[string]models.Patient
}

func (r *fakePatientRepo) Create(_ context.Context, arg repository.CreatePatientParams) (models.Patient, error) {
	if _, ok := r.byEmail[arg.Email]; ok {
		return models.Patient{}, fmt.Errorf("repo error: %w", apperrors.ErrPatientExists)
	}
	p := models.Patient{
		ID:           uuid.New(),
		FullName:     arg.FullName,
		Email:        arg.Email,
		Phone:        arg.Phone,
		PasswordHash: arg.PasswordHash,
	}
	r.byEmail[arg.Email] = p
	return p, nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (models.Patient, error) {
	for _, p := range r.byEmail {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Patient{}, fmt.Errorf("repo error: %w", apperrors.ErrPatientNotFound)
}

func (r *fakePatientRepo) GetByEmail(_ context.Context, email string) (models.Patient, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return models.Patient{}, fmt.Errorf("repo error: %w", apperrors.ErrPatientNotFound)
	}
	return p, nil
}

type fakeDoctorRepo struct {
	byEmail map[string]models.Doctor
}

func (r *fakeDoctorRepo) Create(_ context.Context, arg repository.CreateDoctorParams) (models.Doctor, error) {
	if _, ok := r.byEmail[arg.Email]; ok {
		return models.Doctor{}, fmt.Errorf("repo error: %w", apperrors.ErrDoctorExists)
	}
	d := models.Doctor{
		ID:           uuid.New(),
		FullName:     arg.FullName,
		Email:        arg.Email,
		Specialty:    arg.Specialty,
		Fee:          arg.Fee,
		PasswordHash: arg.PasswordHash,
	}
	r.byEmail[arg.Email] = d
	return d, nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (models.Doctor, error) {
	for _, d := range r.byEmail {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Doctor{}, fmt.Errorf("repo error: %w", apperrors.ErrDoctorNotFound)
}

func (r *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (models.Doctor, error) {
	d, ok := r.byEmail[email]
	if !ok {
		return models.Doctor{}, fmt.Errorf("repo error: %w", apperrors.ErrDoctorNotFound)
	}
	return d, nil
}

func (r *fakeDoctorRepo) List(_ context.Context) ([]models.Doctor, error) {
	doctors := make([]models.Doctor, 0, len(r.byEmail))
	for _, d := range r.byEmail {
		doctors = append(doctors, d)
	}
	return doctors, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	s, err := NewService(
		Config{SecretKey: "test-secret-key"},
		&fakePatientRepo{byEmail: map[string]models.Patient{}},
		&fakeDoctorRepo{byEmail: map[string]models.Doctor{}},
		revocation.NewMemoryStore(),
	)
	require.NoError(t, err)
	return s
}

func Test_Service_RegisterPatient(t *testing.T) {
	t.Parallel()

	args := RegisterPatientArgs{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "+91-900000001",
		Password: "StrongEnoughPassword",
	}

	t.Run("register ok", func(t *testing.T) {
		s := newTestService(t)

		patient, token, err := s.RegisterPatient(t.Context(), args)

		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", patient.Email)
		assert.NotEqual(t, "StrongEnoughPassword", patient.PasswordHash, "password must never be stored raw")
		assert.NotEmpty(t, token.Value)

		// The issued token authenticates as the new patient
		principal, err := s.Authenticate(t.Context(), "Bearer "+token.Value)
		require.NoError(t, err)
		assert.Equal(t, patient.ID, principal.ID)
		assert.Equal(t, models.RolePatient, principal.Role)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		s := newTestService(t)

		_, _, err := s.RegisterPatient(t.Context(), args)
		require.NoError(t, err)

		_, _, err = s.RegisterPatient(t.Context(), args)
		require.ErrorIs(t, err, apperrors.ErrPatientExists)
	})
}

func Test_Service_LoginPatient(t *testing.T) {
	t.Parallel()

	args := RegisterPatientArgs{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Password: "StrongEnoughPassword",
	}

	t.Run("login ok", func(t *testing.T) {
		s := newTestService(t)
		registered, _, err := s.RegisterPatient(t.Context(), args)
		require.NoError(t, err)

		patient, token, err := s.LoginPatient(t.Context(), "asha@example.com", "StrongEnoughPassword")

		require.NoError(t, err)
		assert.Equal(t, registered.ID, patient.ID)
		assert.NotEmpty(t, token.Value)
	})

	t.Run("unknown account and wrong password fail alike", func(t *testing.T) {
		s := newTestService(t)
		_, _, err := s.RegisterPatient(t.Context(), args)
		require.NoError(t, err)

		_, _, errUnknown := s.LoginPatient(t.Context(), "nobody@example.com", "StrongEnoughPassword")
		_, _, errWrongPwd := s.LoginPatient(t.Context(), "asha@example.com", "WrongPassword")

		require.ErrorIs(t, errUnknown, apperrors.ErrLoginFailed)
		require.ErrorIs(t, errWrongPwd, apperrors.ErrLoginFailed)
		assert.Equal(t, errUnknown.Error(), errWrongPwd.Error(), "failure reasons must be indistinguishable")
	})
}

func Test_Service_LoginDoctor(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	_, _, err := s.RegisterDoctor(t.Context(), RegisterDoctorArgs{
		FullName:  "Dr. Kumar",
		Email:     "kumar@example.com",
		Specialty: "panchakarma",
		Password:  "StrongEnoughPassword",
	})
	require.NoError(t, err)

	doctor, token, err := s.LoginDoctor(t.Context(), "kumar@example.com", "StrongEnoughPassword")

	require.NoError(t, err)
	assert.Equal(t, "panchakarma", doctor.Specialty)

	principal, err := s.Authenticate(t.Context(), "Bearer "+token.Value)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, principal.Role)
}

func Test_Service_Logout(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	_, token, err := s.RegisterPatient(t.Context(), RegisterPatientArgs{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Password: "StrongEnoughPassword",
	})
	require.NoError(t, err)

	header := "Bearer " + token.Value

	err = s.Logout(t.Context(), header)
	require.NoError(t, err)

	_, err = s.Authenticate(t.Context(), header)
	require.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}
