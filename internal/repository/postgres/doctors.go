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

type DoctorRepo struct {
	DB DBTX
}

const createDoctor = `-- name: CreateDoctor
INSERT INTO doctors (full_name, email, specialty, fee, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, full_name, email, specialty, fee, password_hash
`

func (r *DoctorRepo) Create(ctx context.Context, arg repository.CreateDoctorParams) (models.Doctor, error) {
	rows, _ := r.DB.Query(ctx, createDoctor, arg.FullName, arg.Email, arg.Specialty, arg.Fee, arg.PasswordHash)
	doctor, err := pgx.CollectOneRow(rows, rowToDoctor)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return doctor, fmt.Errorf("repo error: %w", apperrors.ErrDoctorExists)
		}
		return doctor, fmt.Errorf("db error: %w", err)
	}

	return doctor, nil
}

const getDoctorByID = `-- name: GetDoctorByID
SELECT id, created_at, full_name, email, specialty, fee, password_hash
FROM doctors
WHERE id = $1
`

func (r *DoctorRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Doctor, error) {
	rows, _ := r.DB.Query(ctx, getDoctorByID, id)
	doctor, err := pgx.CollectOneRow(rows, rowToDoctor)

	switch {
	case err == nil:
		return doctor, nil
	case errors.Is(err, pgx.ErrNoRows):
		return doctor, fmt.Errorf("repo error: %w", apperrors.ErrDoctorNotFound)
	default:
		return doctor, fmt.Errorf("db error: %w", err)
	}
}

const getDoctorByEmail = `-- name: GetDoctorByEmail
SELECT id, created_at, full_name, email, specialty, fee, password_hash
FROM doctors
WHERE email = $1
`

func (r *DoctorRepo) GetByEmail(ctx context.Context, email string) (models.Doctor, error) {
	rows, _ := r.DB.Query(ctx, getDoctorByEmail, email)
	doctor, err := pgx.CollectOneRow(rows, rowToDoctor)

	switch {
	case err == nil:
		return doctor, nil
	case errors.Is(err, pgx.ErrNoRows):
		return doctor, fmt.Errorf("repo error: %w", apperrors.ErrDoctorNotFound)
	default:
		return doctor, fmt.Errorf("db error: %w", err)
	}
}

const listDoctors = `-- name: ListDoctors
SELECT id, created_at, full_name, email, specialty, fee, password_hash
FROM doctors
ORDER BY full_name
`

func (r *DoctorRepo) List(ctx context.Context) ([]models.Doctor, error) {
	rows, _ := r.DB.Query(ctx, listDoctors)
	doctors, err := pgx.CollectRows(rows, rowToDoctor)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doctors, nil
}

func rowToDoctor(row pgx.CollectableRow) (models.Doctor, error) {
	var d models.Doctor
	err := row.Scan(&d.ID, &d.CreatedAt, &d.FullName, &d.Email, &d.Specialty, &d.Fee, &d.PasswordHash)
	return d, err
}
