package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/repository"
	"github.com/prakritipath/backend/internal/revocation"
)

// In-memory repositories so handler tests exercise the real services
// without a database.

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]models.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]models.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, arg repository.CreatePatientParams) (models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.Email == arg.Email {
			return models.Patient{}, apperrors.ErrPatientExists
		}
	}

	p := models.Patient{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		FullName:     arg.FullName,
		Email:        arg.Email,
		Phone:        arg.Phone,
		PasswordHash: arg.PasswordHash,
	}
	r.patients[p.ID] = p
	return p, nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[id]
	if !ok {
		return models.Patient{}, apperrors.ErrPatientNotFound
	}
	return p, nil
}

func (r *fakePatientRepo) GetByEmail(_ context.Context, email string) (models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.Email == email {
			return p, nil
		}
	}
	return models.Patient{}, apperrors.ErrPatientNotFound
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]models.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]models.Doctor)}
}

func (r *fakeDoctorRepo) Create(_ context.Context, arg repository.CreateDoctorParams) (models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.doctors {
		if d.Email == arg.Email {
			return models.Doctor{}, apperrors.ErrDoctorExists
		}
	}

	d := models.Doctor{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		FullName:     arg.FullName,
		Email:        arg.Email,
		Specialty:    arg.Specialty,
		Fee:          arg.Fee,
		PasswordHash: arg.PasswordHash,
	}
	r.doctors[d.ID] = d
	return d, nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doctors[id]
	if !ok {
		return models.Doctor{}, apperrors.ErrDoctorNotFound
	}
	return d, nil
}

func (r *fakeDoctorRepo) GetByEmail(_ context.Context, email string) (models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.doctors {
		if d.Email == email {
			return d, nil
		}
	}
	return models.Doctor{}, apperrors.ErrDoctorNotFound
}

func (r *fakeDoctorRepo) List(_ context.Context) ([]models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return out, nil
}

type fakeConsultationRepo struct {
	mu            sync.Mutex
	consultations map[uuid.UUID]models.Consultation
}

func newFakeConsultationRepo() *fakeConsultationRepo {
	return &fakeConsultationRepo{consultations: make(map[uuid.UUID]models.Consultation)}
}

func (r *fakeConsultationRepo) slotTaken(doctorID uuid.UUID, at time.Time, except uuid.UUID) bool {
	for _, c := range r.consultations {
		if c.ID != except && c.DoctorID == doctorID && c.ScheduledAt.Equal(at) && c.Open() {
			return true
		}
	}
	return false
}

func (r *fakeConsultationRepo) Create(_ context.Context, arg repository.CreateConsultationParams) (models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slotTaken(arg.DoctorID, arg.ScheduledAt, uuid.Nil) {
		return models.Consultation{}, apperrors.ErrSlotTaken
	}

	c := models.Consultation{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		ModifiedAt:  time.Now(),
		PatientID:   arg.PatientID,
		DoctorID:    arg.DoctorID,
		ScheduledAt: arg.ScheduledAt,
		Status:      models.ConsultationStatusBooked,
		Reason:      arg.Reason,
		Fee:         arg.Fee,
	}
	r.consultations[c.ID] = c
	return c, nil
}

func (r *fakeConsultationRepo) GetByID(_ context.Context, id uuid.UUID) (models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.consultations[id]
	if !ok {
		return models.Consultation{}, apperrors.ErrConsultationNotFound
	}
	return c, nil
}

func (r *fakeConsultationRepo) ListForPatient(_ context.Context, patientID uuid.UUID) ([]models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Consultation
	for _, c := range r.consultations {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConsultationRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Consultation
	for _, c := range r.consultations {
		if c.DoctorID == doctorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConsultationRepo) Reschedule(_ context.Context, id uuid.UUID, at time.Time) (models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.consultations[id]
	if !ok {
		return models.Consultation{}, apperrors.ErrConsultationNotFound
	}
	if r.slotTaken(c.DoctorID, at, id) {
		return models.Consultation{}, apperrors.ErrSlotTaken
	}

	c.ScheduledAt = at
	c.Status = models.ConsultationStatusRescheduled
	c.ModifiedAt = time.Now()
	r.consultations[id] = c
	return c, nil
}

func (r *fakeConsultationRepo) SetStatus(_ context.Context, id uuid.UUID, status string) (models.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.consultations[id]
	if !ok {
		return models.Consultation{}, apperrors.ErrConsultationNotFound
	}

	c.Status = status
	c.ModifiedAt = time.Now()
	r.consultations[id] = c
	return c, nil
}

// countingStore wraps a revocation store and counts lookups
type countingStore struct {
	inner   revocation.Store
	mu      sync.Mutex
	lookups int
}

func (s *countingStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	return s.inner.Revoke(ctx, token, expiresAt)
}

func (s *countingStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	s.lookups++
	s.mu.Unlock()
	return s.inner.IsRevoked(ctx, token)
}

func (s *countingStore) Lookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}
