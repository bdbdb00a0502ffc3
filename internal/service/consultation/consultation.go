package consultation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/repository"
)

// Service owns consultation booking and enforces per-resource ownership.
// Ownership is re-derived from the stored row on every call, after the
// authenticator has already proven the principal's identity. Authentication
// says who the caller is, these checks say what the caller may touch.
type Service struct {
	consultationRepo repository.ConsultationRepo
	doctorRepo       repository.DoctorRepo
}

func NewService(consultationRepo repository.ConsultationRepo, doctorRepo repository.DoctorRepo) *Service {
	return &Service{
		consultationRepo: consultationRepo,
		doctorRepo:       doctorRepo,
	}
}

type BookArgs struct {
	DoctorID    uuid.UUID
	ScheduledAt time.Time
	Reason      string
}

// Book creates a consultation for the calling patient.
// The fee is copied from the doctor record at booking time.
func (s *Service) Book(ctx context.Context, p models.Principal, arg BookArgs) (models.Consultation, error) {
	var c models.Consultation

	if p.Role != models.RolePatient {
		return c, apperrors.ErrPatientRoleRequired
	}
	if !arg.ScheduledAt.After(time.Now()) {
		return c, apperrors.ErrSlotInPast
	}

	doctor, err := s.doctorRepo.GetByID(ctx, arg.DoctorID)
	if err != nil {
		return c, err
	}

	return s.consultationRepo.Create(ctx, repository.CreateConsultationParams{
		PatientID:   p.ID,
		DoctorID:    doctor.ID,
		ScheduledAt: arg.ScheduledAt,
		Reason:      arg.Reason,
		Fee:         doctor.Fee,
	})
}

// Reschedule moves an open consultation owned by the calling patient
func (s *Service) Reschedule(ctx context.Context, p models.Principal, id uuid.UUID, at time.Time) (models.Consultation, error) {
	c, err := s.ownedByPatient(ctx, p, id)
	if err != nil {
		return c, err
	}

	if !c.Open() {
		return c, apperrors.ErrConsultationClosed
	}
	if !at.After(time.Now()) {
		return c, apperrors.ErrSlotInPast
	}

	return s.consultationRepo.Reschedule(ctx, id, at)
}

// Cancel cancels a consultation owned by the calling patient.
// Cancelling an already cancelled consultation is a no-op.
func (s *Service) Cancel(ctx context.Context, p models.Principal, id uuid.UUID) (models.Consultation, error) {
	c, err := s.ownedByPatient(ctx, p, id)
	if err != nil {
		return c, err
	}

	switch c.Status {
	case models.ConsultationStatusCancelled:
		return c, nil
	case models.ConsultationStatusCompleted:
		return c, apperrors.ErrConsultationClosed
	}

	return s.consultationRepo.SetStatus(ctx, id, models.ConsultationStatusCancelled)
}

// PatientHistory lists consultations of one patient, newest first.
// Only that very patient may read it.
func (s *Service) PatientHistory(ctx context.Context, p models.Principal, patientID uuid.UUID) ([]models.Consultation, error) {
	if p.Role != models.RolePatient || p.ID != patientID {
		return nil, apperrors.ErrNotResourceOwner
	}

	return s.consultationRepo.ListForPatient(ctx, patientID)
}

// DoctorSchedule lists consultations assigned to one doctor.
// Only that very doctor may read it.
func (s *Service) DoctorSchedule(ctx context.Context, p models.Principal, doctorID uuid.UUID) ([]models.Consultation, error) {
	if p.Role != models.RoleDoctor || p.ID != doctorID {
		return nil, apperrors.ErrNotResourceOwner
	}

	return s.consultationRepo.ListForDoctor(ctx, doctorID)
}

// ListDoctors returns all doctors for the booking screen
func (s *Service) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	return s.doctorRepo.List(ctx)
}

func (s *Service) ownedByPatient(ctx context.Context, p models.Principal, id uuid.UUID) (models.Consultation, error) {
	c, err := s.consultationRepo.GetByID(ctx, id)
	if err != nil {
		return c, err
	}

	if p.Role != models.RolePatient || c.PatientID != p.ID {
		return models.Consultation{}, fmt.Errorf("consultation %s: %w", id, apperrors.ErrNotResourceOwner)
	}

	return c, nil
}
