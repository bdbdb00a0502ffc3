package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/prakritipath/backend/internal/handlers/middleware"
	"github.com/prakritipath/backend/internal/logger"
	"github.com/prakritipath/backend/internal/models"
	"github.com/prakritipath/backend/internal/service/auth"
	"github.com/prakritipath/backend/internal/service/consultation"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type RouterConfig struct {
	// Origins allowed to call the API from a browser
	AllowedOrigins []string

	// Per-IP budget for login and signup routes
	LoginRatePerSecond float64
	LoginBurst         int
}

func NewRouter(
	cfg RouterConfig,
	authService authService,
	consultationService consultationService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService, logger)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	limited := middleware.RateLimitMiddleware(cfg.LoginRatePerSecond, cfg.LoginBurst)

	api := http.NewServeMux()

	api.Handle("POST /patient/signup", limited(handlePatientSignup(authService, logger)))
	api.Handle("POST /patient/login", limited(handlePatientLogin(authService, logger)))
	api.Handle("POST /doctor/signup", limited(handleDoctorSignup(authService, logger)))
	api.Handle("POST /doctor/login", limited(handleDoctorLogin(authService, logger)))

	api.Handle("GET /doctors", handleListDoctors(consultationService, logger))

	api.Handle("POST /logout", withAuth(handleLogout(authService, logger)))
	api.Handle("GET /me", withAuth(handleMe()))

	api.Handle("POST /consultations", withAuth(handleBookConsultation(consultationService, logger)))
	api.Handle("POST /consultations/{id}/reschedule", withAuth(handleRescheduleConsultation(consultationService, logger)))
	api.Handle("DELETE /consultations/{id}", withAuth(handleCancelConsultation(consultationService, logger)))

	api.Handle("GET /patients/{id}/consultations", withAuth(handlePatientHistory(consultationService, logger)))
	api.Handle("GET /patients/{id}/reports", withAuth(handleLabReports(logger)))
	api.Handle("GET /doctors/{id}/consultations", withAuth(handleDoctorSchedule(consultationService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	handler := chain(root,
		corsHandler.Handler,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register patient account and issue a token for it
	// Has to return apperrors.ErrPatientExists if the email is taken
	RegisterPatient(ctx context.Context, arg auth.RegisterPatientArgs) (models.Patient, models.IssuedToken, error)

	// Register doctor account and issue a token for it
	// Has to return apperrors.ErrDoctorExists if the email is taken
	RegisterDoctor(ctx context.Context, arg auth.RegisterDoctorArgs) (models.Doctor, models.IssuedToken, error)

	// Login with email and password
	// Has to return apperrors.ErrLoginFailed on any credential mismatch,
	// without telling unknown accounts and wrong passwords apart
	LoginPatient(ctx context.Context, email string, password string) (models.Patient, models.IssuedToken, error)
	LoginDoctor(ctx context.Context, email string, password string) (models.Doctor, models.IssuedToken, error)

	// Validate the Authorization header value and return the principal
	Authenticate(ctx context.Context, headerValue string) (models.Principal, error)

	// Revoke the presented token; requires it to still be valid
	Logout(ctx context.Context, headerValue string) error
}

type consultationService interface {
	Book(ctx context.Context, p models.Principal, arg consultation.BookArgs) (models.Consultation, error)
	Reschedule(ctx context.Context, p models.Principal, id uuid.UUID, at time.Time) (models.Consultation, error)
	Cancel(ctx context.Context, p models.Principal, id uuid.UUID) (models.Consultation, error)
	PatientHistory(ctx context.Context, p models.Principal, patientID uuid.UUID) ([]models.Consultation, error)
	DoctorSchedule(ctx context.Context, p models.Principal, doctorID uuid.UUID) ([]models.Consultation, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
}
