package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/repository"
)

type PatientRepo struct {
	DB DBTX
}

const createPatient = `-- name: CreatePatient
INSERT INTO patients (full_name, email, phone, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, full_name, email, phone, password_hash
`

func (r *PatientRepo) Create(ctx context.Context, arg repository.CreatePatientParams) (models.Patient, error) {
	rows, _ := r.DB.Query(ctx, createPatient, arg.FullName, arg.Email, arg.Phone, arg.PasswordHash)
	patient, err := pgx.CollectOneRow(rows, rowToPatient)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return patient, fmt.Errorf("repo error: %w", apperrors.ErrPatientExists)
		}
		return patient, fmt.Errorf("db error: %w", err)
	}

	return patient, nil
}

const getPatientByID = `-- name: GetPatientByID
SELECT id, created_at, full_name, email, phone, password_hash
FROM patients
WHERE id = $1
`

func (r *PatientRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Patient, error) {
	rows, _ := r.DB.Query(ctx, getPatientByID, id)
	patient, err := pgx.CollectOneRow(rows, rowToPatient)

	switch {
	case err == nil:
		return patient, nil
	case errors.Is(err, pgx.ErrNoRows):
		return patient, fmt.Errorf("repo error: %w", apperrors.ErrPatientNotFound)
	default:
		return patient, fmt.Errorf("db error: %w", err)
	}
}

const getPatientByEmail = `-- name: GetPatientByEmail
SELECT id, created_at, full_name, email, phone, password_hash
FROM patients
WHERE email = $1
`

func (r *PatientRepo) GetByEmail(ctx context.Context, email string) (models.Patient, error) {
	rows, _ := r.DB.Query(ctx, getPatientByEmail, email)
	patient, err := pgx.CollectOneRow(rows, rowToPatient)

	switch {
	case err == nil:
		return patient, nil
	case errors.Is(err, pgx.ErrNoRows):
		return patient, fmt.Errorf("repo error: %w", apperrors.ErrPatientNotFound)
	default:
		return patient, fmt.Errorf("db error: %w", err)
	}
}

func rowToPatient(row pgx.CollectableRow) (models.Patient, error) {
	var p models.Patient
	err := row.Scan(&p.ID, &p.CreatedAt, &p.FullName, &p.Email, &p.Phone, &p.PasswordHash)
	return p, err
}
