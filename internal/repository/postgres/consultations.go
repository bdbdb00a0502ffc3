package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/repository"
)

type ConsultationRepo struct {
	DB DBTX
}

const createConsultation = `-- name: CreateConsultation
INSERT INTO consultations (patient_id, doctor_id, scheduled_at, reason, fee)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, modified_at, patient_id, doctor_id, scheduled_at, status, reason, fee
`

func (r *ConsultationRepo) Create(ctx context.Context, arg repository.CreateConsultationParams) (models.Consultation, error) {
	rows, _ := r.DB.Query(ctx, createConsultation, arg.PatientID, arg.DoctorID, arg.ScheduledAt, arg.Reason, arg.Fee)
	consultation, err := pgx.CollectOneRow(rows, rowToConsultation)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return consultation, fmt.Errorf("repo error: %w", apperrors.ErrSlotTaken)
		}
		return consultation, fmt.Errorf("db error: %w", err)
	}

	return consultation, nil
}

const getConsultationByID = `-- name: GetConsultationByID
SELECT id, created_at, modified_at, patient_id, doctor_id, scheduled_at, status, reason, fee
FROM consultations
WHERE id = $1
`

func (r *ConsultationRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Consultation, error) {
	rows, _ := r.DB.Query(ctx, getConsultationByID, id)
	consultation, err := pgx.CollectOneRow(rows, rowToConsultation)

	switch {
	case err == nil:
		return consultation, nil
	case errors.Is(err, pgx.ErrNoRows):
		return consultation, fmt.Errorf("repo error: %w", apperrors.ErrConsultationNotFound)
	default:
		return consultation, fmt.Errorf("db error: %w", err)
	}
}

const listConsultationsForPatient = `-- name: ListConsultationsForPatient
SELECT id, created_at, modified_at, patient_id, doctor_id, scheduled_at, status, reason, fee
FROM consultations
WHERE patient_id = $1
ORDER BY scheduled_at DESC
`

func (r *ConsultationRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]models.Consultation, error) {
	rows, _ := r.DB.Query(ctx, listConsultationsForPatient, patientID)
	consultations, err := pgx.CollectRows(rows, rowToConsultation)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return consultations, nil
}

const listConsultationsForDoctor = `-- name: ListConsultationsForDoctor
SELECT id, created_at, modified_at, patient_id, doctor_id, scheduled_at, status, reason, fee
FROM consultations
WHERE doctor_id = $1
ORDER BY scheduled_at DESC
`

func (r *ConsultationRepo) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]models.Consultation, error) {
	rows, _ := r.DB.Query(ctx, listConsultationsForDoctor, doctorID)
	consultations, err := pgx.CollectRows(rows, rowToConsultation)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return consultations, nil
}

const rescheduleConsultation = `-- name: RescheduleConsultation
UPDATE consultations
SET scheduled_at = $2, status = 'rescheduled', modified_at = now()
WHERE id = $1
RETURNING id, created_at, modified_at, patient_id, doctor_id, scheduled_at, status, reason, fee
`

func (r *ConsultationRepo) Reschedule(ctx context.Context, id uuid.UUID, at time.Time) (models.Consultation, error) {
	rows, _ := r.DB.Query(ctx, rescheduleConsultation, id, at)
	consultation, err := pgx.CollectOneRow(rows, rowToConsultation)

	switch {
	case err == nil:
		return consultation, nil
	case errors.Is(err, pgx.ErrNoRows):
		return consultation, fmt.Errorf("repo error: %w", apperrors.ErrConsultationNotFound)
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return consultation, fmt.Errorf("repo error: %w", apperrors.ErrSlotTaken)
		}
		return consultation, fmt.Errorf("db error: %w", err)
	}
}

const setConsultationStatus = `-- name: SetConsultationStatus
UPDATE consultations
SET status = $2, modified_at = now()
WHERE id = $1
RETURNING id, created_at, modified_at, patient_id, doctor_id, scheduled_at, status, reason, fee
`

func (r *ConsultationRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) (models.Consultation, error) {
	rows, _ := r.DB.Query(ctx, setConsultationStatus, id, status)
	consultation, err := pgx.CollectOneRow(rows, rowToConsultation)

	switch {
	case err == nil:
		return consultation, nil
	case errors.Is(err, pgx.ErrNoRows):
		return consultation, fmt.Errorf("repo error: %w", apperrors.ErrConsultationNotFound)
	default:
		return consultation, fmt.Errorf("db error: %w", err)
	}
}

func rowToConsultation(row pgx.CollectableRow) (models.Consultation, error) {
	var c models.Consultation
	err := row.Scan(&c.ID, &c.CreatedAt, &c.ModifiedAt, &c.PatientID, &c.DoctorID, &c.ScheduledAt, &c.Status, &c.Reason, &c.Fee)
	return c, err
}
