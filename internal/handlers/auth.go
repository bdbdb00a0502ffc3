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
	"github.com/prakritipath/backend/internal/service/auth"
)

type patientPayload struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type doctorPayload struct {
	ID        uuid.UUID       `json:"id"`
	FullName  string          `json:"full_name"`
	Email     string          `json:"email"`
	Specialty string          `json:"specialty"`
	Fee       decimal.Decimal `json:"fee"`
	CreatedAt time.Time       `json:"created_at"`
}

// failResponse is the uniform auth failure body.
// It deliberately carries no hint whether the account exists.
type failResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toPatientPayload(p models.Patient) patientPayload {
	return patientPayload{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
	}
}

func toDoctorPayload(d models.Doctor) doctorPayload {
	return doctorPayload{
		ID:        d.ID,
		FullName:  d.FullName,
		Email:     d.Email,
		Specialty: d.Specialty,
		Fee:       d.Fee,
		CreatedAt: d.CreatedAt,
	}
}

func handlePatientSignup(authService authService, l logger.Logger) http.Handler {
	type request struct {
		FullName string `json:"full_name" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Phone    string `json:"phone" validate:"omitempty,max=20"`
		Password string `json:"password" validate:"required,min=8"`
	}
	type response struct {
		Success bool           `json:"success"`
		Token   string         `json:"token"`
		Patient patientPayload `json:"patient"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		patient, token, err := authService.RegisterPatient(r.Context(), auth.RegisterPatientArgs{
			FullName: data.FullName,
			Email:    data.Email,
			Phone:    data.Phone,
			Password: data.Password,
		})

		switch {
		case err == nil:
			render.JSON(w, response{Success: true, Token: token.Value, Patient: toPatientPayload(patient)})
		case errors.Is(err, apperrors.ErrPatientExists):
			render.JSONWithStatus(w, failResponse{Message: "Account already exists"}, http.StatusConflict)
		default:
			l.Error("Failed to register patient", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handlePatientLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Success bool           `json:"success"`
		Token   string         `json:"token"`
		Patient patientPayload `json:"patient"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		patient, token, err := authService.LoginPatient(r.Context(), data.Email, data.Password)

		switch {
		case err == nil:
			render.JSON(w, response{Success: true, Token: token.Value, Patient: toPatientPayload(patient)})
		case errors.Is(err, apperrors.ErrLoginFailed):
			render.JSONWithStatus(w, failResponse{Message: "Invalid email or password"}, http.StatusUnauthorized)
		default:
			l.Error("Failed to login patient", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDoctorSignup(authService authService, l logger.Logger) http.Handler {
	type request struct {
		FullName  string          `json:"full_name" validate:"required,min=2,max=100"`
		Email     string          `json:"email" validate:"required,email"`
		Specialty string          `json:"specialty" validate:"required,min=2,max=100"`
		Fee       decimal.Decimal `json:"fee"`
		Password  string          `json:"password" validate:"required,min=8"`
	}
	type response struct {
		Success bool          `json:"success"`
		Token   string        `json:"token"`
		Doctor  doctorPayload `json:"doctor"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		doctor, token, err := authService.RegisterDoctor(r.Context(), auth.RegisterDoctorArgs{
			FullName:  data.FullName,
			Email:     data.Email,
			Specialty: data.Specialty,
			Fee:       data.Fee,
			Password:  data.Password,
		})

		switch {
		case err == nil:
			render.JSON(w, response{Success: true, Token: token.Value, Doctor: toDoctorPayload(doctor)})
		case errors.Is(err, apperrors.ErrDoctorExists):
			render.JSONWithStatus(w, failResponse{Message: "Account already exists"}, http.StatusConflict)
		default:
			l.Error("Failed to register doctor", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDoctorLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Success bool          `json:"success"`
		Token   string        `json:"token"`
		Doctor  doctorPayload `json:"doctor"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		doctor, token, err := authService.LoginDoctor(r.Context(), data.Email, data.Password)

		switch {
		case err == nil:
			render.JSON(w, response{Success: true, Token: token.Value, Doctor: toDoctorPayload(doctor)})
		case errors.Is(err, apperrors.ErrLoginFailed):
			render.JSONWithStatus(w, failResponse{Message: "Invalid email or password"}, http.StatusUnauthorized)
		default:
			l.Error("Failed to login doctor", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// handleLogout revokes the presented token.
// It runs behind the auth middleware, so the token is known to be valid;
// the service still re-checks before revoking to stay safe against races.
func handleLogout(authService authService, l logger.Logger) http.Handler {
	type response struct {
		Success bool `json:"success"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := authService.Logout(r.Context(), r.Header.Get("Authorization"))

		switch {
		case err == nil:
			render.JSON(w, response{Success: true})
		case errors.Is(err, apperrors.ErrNoCredential):
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, apperrors.ErrTokenRevoked), errors.Is(err, apperrors.ErrTokenInvalid):
			l.Warn("Rejected logout", "reason", err)
			render.ServiceError(w, "Forbidden", http.StatusForbidden)
		default:
			l.Error("Failed to logout", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleMe() http.Handler {
	type response struct {
		ID   uuid.UUID `json:"id"`
		Role string    `json:"role"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := principalctx.FromContext(r.Context())
		render.JSON(w, response{ID: principal.ID, Role: principal.Role})
	})
}
