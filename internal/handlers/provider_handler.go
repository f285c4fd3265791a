package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/httpresp"
	"github.com/carelinkhq/care-portal/internal/middleware"
	"github.com/carelinkhq/care-portal/internal/models"
)

type ProviderHandler struct {
	db *gorm.DB
}

func NewProviderHandler(db *gorm.DB) *ProviderHandler {
	return &ProviderHandler{db: db}
}

// DoctorPatients lists the distinct patients the calling doctor has seen,
// with visit counts derived from their shared appointments.
func (h *ProviderHandler) DoctorPatients(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	var aps []models.Appointment
	if err := h.db.
		Preload("Patient").
		Where("provider_id = ?", doctorID).
		Order("date_time DESC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_patients", "Could not load patients.")
		return
	}

	type patientSummary struct {
		PatientID   string    `json:"patient_id"`
		FullName    string    `json:"full_name"`
		TotalVisits int       `json:"totalVisits"`
		LastVisit   time.Time `json:"lastVisit"`
	}

	byPatient := map[string]*patientSummary{}
	order := []string{}

	for i := range aps {
		ap := &aps[i]
		s, ok := byPatient[ap.PatientID]
		if !ok {
			s = &patientSummary{
				PatientID: ap.PatientID,
				FullName:  ap.Patient.FirstName + " " + ap.Patient.LastName,
				LastVisit: ap.DateTime,
			}
			byPatient[ap.PatientID] = s
			order = append(order, ap.PatientID)
		}
		s.TotalVisits++
		if ap.DateTime.After(s.LastVisit) {
			s.LastVisit = ap.DateTime
		}
	}

	out := make([]patientSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byPatient[id])
	}

	httpresp.OK(c, gin.H{"patients": out})
}
