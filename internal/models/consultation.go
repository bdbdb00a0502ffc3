package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ConsultationStatusBooked      = "booked"
	ConsultationStatusRescheduled = "rescheduled"
	ConsultationStatusCompleted   = "completed"
	ConsultationStatusCancelled   = "cancelled"
)

type Consultation struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	ModifiedAt  time.Time
	PatientID   uuid.UUID
	DoctorID    uuid.UUID
	ScheduledAt time.Time
	Status      string
	Reason      string
	Fee         decimal.Decimal
}

// Open reports whether the consultation can still be moved or cancelled
func (c Consultation) Open() bool {
	return c.Status == ConsultationStatusBooked || c.Status == ConsultationStatusRescheduled
}
