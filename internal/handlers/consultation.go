package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prakritipath/backend/internal/apperrors"
	"github.com/prakritipath/backend/internal/handlers/principalctx"
	"github.com/prakritipath/backend/internal/handlers/render"
	"github.com/prakritipath/backend/internal/logger"
	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/service/consultation"
)

type consultationPayload struct {
	ID          uuid.UUID       `json:"id"`
	PatientID   uuid.UUID       `json:"patient_id"`
	DoctorID    uuid.UUID       `json:"doctor_id"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Status      string          `json:"status"`
	Reason      string          `json:"reason,omitempty"`
	Fee         decimal.Decimal `json:"fee"`
}

func toConsultationPayload(c models.Consultation) consultationPayload {
	return consultationPayload{
		ID:          c.ID,
		PatientID:   c.PatientID,
		DoctorID:    c.DoctorID,
		ScheduledAt: c.ScheduledAt,
		Status:      c.Status,
		Reason:      c.Reason,
		Fee:         c.Fee,
	}
}

func toConsultationPayloads(consultations []models.Consultation) []consultationPayload {
	out := make([]consultationPayload, 0, len(consultations))
	for _, c := range consultations {
		out = append(out, toConsultationPayload(c))
	}
	return out
}

// consultationError maps service errors to wire responses.
// Ownership mismatches answer a generic 403: the reason stays in logs so
// responses don't help probing for other principals' resources.
func consultationError(w http.ResponseWriter, l logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotResourceOwner), errors.Is(err, apperrors.ErrPatientRoleRequired):
		l.Warn("Denied cross-principal access", "reason", err)
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, apperrors.ErrConsultationNotFound), errors.Is(err, apperrors.ErrDoctorNotFound):
		render.ServiceError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrSlotTaken):
		render.ServiceError(w, "Slot already taken", http.StatusConflict)
	case errors.Is(err, apperrors.ErrSlotInPast):
		render.ServiceError(w, "Slot must be in the future", http.StatusUnprocessableEntity)
	case errors.Is(err, apperrors.ErrConsultationClosed):
		render.ServiceError(w, "Consultation is closed", http.StatusConflict)
	default:
		l.Error("Consultation request failed", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func handleBookConsultation(cs consultationService, l logger.Logger) http.Handler {
	type request struct {
		DoctorID    uuid.UUID `json:"doctor_id" validate:"required"`
		ScheduledAt time.Time `json:"scheduled_at" validate:"required,future"`
		Reason      string    `json:"reason" validate:"omitempty,max=500"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		booked, err := cs.Book(r.Context(), principal, consultation.BookArgs{
			DoctorID:    data.DoctorID,
			ScheduledAt: data.ScheduledAt,
			Reason:      data.Reason,
		})
		if err != nil {
			consultationError(w, l, err)
			return
		}

		render.JSONWithStatus(w, toConsultationPayload(booked), http.StatusCreated)
	})
}

func handlePatientHistory(cs consultationService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		patientID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid patient id", http.StatusBadRequest)
			return
		}

		history, err := cs.PatientHistory(r.Context(), principal, patientID)
		if err != nil {
			consultationError(w, l, err)
			return
		}

		render.JSON(w, toConsultationPayloads(history))
	})
}

func handleDoctorSchedule(cs consultationService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		doctorID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid doctor id", http.StatusBadRequest)
			return
		}

		schedule, err := cs.DoctorSchedule(r.Context(), principal, doctorID)
		if err != nil {
			consultationError(w, l, err)
			return
		}

		render.JSON(w, toConsultationPayloads(schedule))
	})
}

func handleRescheduleConsultation(cs consultationService, l logger.Logger) http.Handler {
	type request struct {
		ScheduledAt time.Time `json:"scheduled_at" validate:"required,future"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid consultation id", http.StatusBadRequest)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		moved, err := cs.Reschedule(r.Context(), principal, id, data.ScheduledAt)
		if err != nil {
			consultationError(w, l, err)
			return
		}

		render.JSON(w, toConsultationPayload(moved))
	})
}

func handleCancelConsultation(cs consultationService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Invalid consultation id", http.StatusBadRequest)
			return
		}

		cancelled, err := cs.Cancel(r.Context(), principal, id)
		if err != nil {
			consultationError(w, l, err)
			return
		}

		render.JSON(w, toConsultationPayload(cancelled))
	})
}

func handleListDoctors(cs consultationService, l logger.Logger) http.Handler {
	type doctorListItem struct {
		ID        uuid.UUID       `json:"id"`
		FullName  string          `json:"full_name"`
		Specialty string          `json:"specialty"`
		Fee       decimal.Decimal `json:"fee"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doctors, err := cs.ListDoctors(r.Context())
		if err != nil {
			l.Error("Failed to list doctors", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		items := make([]doctorListItem, 0, len(doctors))
		for _, d := range doctors {
			items = append(items, doctorListItem{ID: d.ID, FullName: d.FullName, Specialty: d.Specialty, Fee: d.Fee})
		}
		render.JSON(w, items)
	})
}
