package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/prakritipath/backend/internal/handlers/principalctx"
	"github.com/prakritipath/backend/internal/handlers/render"
	"github.com/prakritipath/backend/internal/logger"
	"github.com/prakritipath/backend/internal/models"
)

// Lab integration is not wired yet, so reports are generated in-process.
// Values are derived from the patient id to stay stable between requests.
func handleLabReports(l logger.Logger) http.Handler {
	type report struct {
		ID         string    `json:"id"`
		PatientID  uuid.UUID `json:"patient_id"`
		Name       string    `json:"name"`
		Result     string    `json:"result"`
		Unit       string    `json:"unit"`
		ReportedAt time.Time `json:"reported_at"`
	}

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

		// Same ownership rule as consultation history
		if principal.Role != models.RolePatient || principal.ID != patientID {
			l.Warn("Denied cross-principal access", "resource", "lab reports", "principal", principal.ID)
			render.ServiceError(w, "Forbidden", http.StatusForbidden)
			return
		}

		seed := patientID[0]
		reportedAt := time.Now().AddDate(0, 0, -int(seed%28)).Truncate(24 * time.Hour)

		render.JSON(w, []report{
			{
				ID:         fmt.Sprintf("hb-%x", patientID[:4]),
				PatientID:  patientID,
				Name:       "Hemoglobin",
				Result:     fmt.Sprintf("%.1f", 11.0+float64(seed%40)/10),
				Unit:       "g/dL",
				ReportedAt: reportedAt,
			},
			{
				ID:         fmt.Sprintf("gl-%x", patientID[:4]),
				PatientID:  patientID,
				Name:       "Fasting glucose",
				Result:     fmt.Sprintf("%d", 80+int(seed%30)),
				Unit:       "mg/dL",
				ReportedAt: reportedAt,
			},
			{
				ID:         fmt.Sprintf("tsh-%x", patientID[:4]),
				PatientID:  patientID,
				Name:       "TSH",
				Result:     fmt.Sprintf("%.2f", 1.0+float64(seed%35)/10),
				Unit:       "mIU/L",
				ReportedAt: reportedAt,
			},
		})
	})
}
