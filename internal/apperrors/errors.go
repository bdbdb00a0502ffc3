package apperrors

import (
	"errors"
)

var (
	// Authentication errors
	// ErrNoCredential means no bearer token could be extracted at all,
	// the rest mean a credential was present but rejected.
	// Wire responses stay flat; the exact reason goes to logs only.
	ErrNoCredential     = errors.New("no credential supplied")
	ErrTokenRevoked     = errors.New("token is revoked")
	ErrTokenInvalid     = errors.New("token is invalid")
	ErrInvalidPrincipal = errors.New("principal identity or role is malformed")
	ErrLoginFailed      = errors.New("login failed")

	// Authorization error: valid token but wrong resource owner
	ErrNotResourceOwner = errors.New("principal is not the resource owner")

	ErrPatientExists   = errors.New("patient already exists")
	ErrPatientNotFound = errors.New("patient not found")
	ErrDoctorExists    = errors.New("doctor already exists")
	ErrDoctorNotFound  = errors.New("doctor not found")

	ErrConsultationNotFound = errors.New("consultation not found")
	ErrSlotTaken            = errors.New("doctor slot already taken")
	ErrSlotInPast           = errors.New("consultation slot is in the past")
	ErrConsultationClosed   = errors.New("consultation is cancelled or completed")
	ErrPatientRoleRequired  = errors.New("patient role required")
)
