package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/revocation"
)

type CreatePatientParams struct {
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
}

// Patient repository interface
type PatientRepo interface {
	// Create patient
	// If patient with email exists already has to return apperrors.ErrPatientExists
	Create(ctx context.Context, arg CreatePatientParams) (models.Patient, error)

	// Get patient by id or email
	// If patient not found must return apperrors.ErrPatientNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Patient, error)
	GetByEmail(ctx context.Context, email string) (models.Patient, error)
}

type CreateDoctorParams struct {
	FullName     string
	Email        string
	Specialty    string
	Fee          decimal.Decimal
	PasswordHash string
}

// Doctor repository interface
type DoctorRepo interface {
	// Create doctor
	// If doctor with email exists already has to return apperrors.ErrDoctorExists
	Create(ctx context.Context, arg CreateDoctorParams) (models.Doctor, error)

	// Get doctor by id or email
	// If doctor not found must return apperrors.ErrDoctorNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Doctor, error)
	GetByEmail(ctx context.Context, email string) (models.Doctor, error)

	// List all doctors ordered by name
	List(ctx context.Context) ([]models.Doctor, error)
}

type CreateConsultationParams struct {
	PatientID   uuid.UUID
	DoctorID    uuid.UUID
	ScheduledAt time.Time
	Reason      string
	Fee         decimal.Decimal
}

// Consultation repository interface
type ConsultationRepo interface {
	// Create consultation with status 'booked'
	// If the doctor slot is held by an open consultation already
	// must return apperrors.ErrSlotTaken
	Create(ctx context.Context, arg CreateConsultationParams) (models.Consultation, error)

	// Get consultation by id
	// If not found must return apperrors.ErrConsultationNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Consultation, error)

	// List consultations newest first
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]models.Consultation, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]models.Consultation, error)

	// Move consultation to a new slot and mark it 'rescheduled'
	// Slot collision must return apperrors.ErrSlotTaken
	Reschedule(ctx context.Context, id uuid.UUID, at time.Time) (models.Consultation, error)

	// Set consultation status
	SetStatus(ctx context.Context, id uuid.UUID, status string) (models.Consultation, error)
}

// Storage aggregates all repositories sharing one connection or transaction
type Storage interface {
	Patient() PatientRepo
	Doctor() DoctorRepo
	Consultation() ConsultationRepo
	Revocation() revocation.Store

	// InTx runs fn against a storage bound to a single transaction
	InTx(ctx context.Context, fn func(Storage) error) error
}
