package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// Principal is the identity decoded from a valid token.
// It lives only for the request it was decoded for.
type Principal struct {
	ID   uuid.UUID
	Role string
}

type Patient struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	FullName     string
	Email        string
	Phone        string
	PasswordHash string
}

func (p Patient) Principal() Principal {
	return Principal{ID: p.ID, Role: RolePatient}
}

type Doctor struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	FullName     string
	Email        string
	Specialty    string
	Fee          decimal.Decimal
	PasswordHash string
}

func (d Doctor) Principal() Principal {
	return Principal{ID: d.ID, Role: RoleDoctor}
}
