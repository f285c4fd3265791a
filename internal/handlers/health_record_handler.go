package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carelinkhq/care-portal/internal/audit"
	domainconsent "github.com/carelinkhq/care-portal/internal/domain/consent"
	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/httpresp"
	"github.com/carelinkhq/care-portal/internal/middleware"
	"github.com/carelinkhq/care-portal/internal/models"
)

type HealthRecordHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewHealthRecordHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *HealthRecordHandler {
	return &HealthRecordHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type CreateHealthRecordRequest struct {
	AppointmentID string          `json:"appointment_id" binding:"required"`
	RecordType    string          `json:"record_type" binding:"required"`
	Data          json.RawMessage `json:"data" binding:"required"`
}

type UpdateHealthRecordRequest struct {
	RecordType string          `json:"record_type" binding:"required"`
	Data       json.RawMessage `json:"data" binding:"required"`
}

// --------- Handlers ---------

func (h *HealthRecordHandler) Create(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !models.ValidRecordType(req.RecordType) {
		httperr.BadRequest(c, "invalid_record_type", "record_type must be lab_results, medication or vitals.")
		return
	}

	var ap models.Appointment
	if err := h.db.First(&ap, "id = ?", req.AppointmentID).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	if ap.ProviderID == nil || *ap.ProviderID != doctorID {
		httperr.Forbidden(c, "not_allowed", "Only the treating doctor can attach records.")
		return
	}

	// One record per appointment; its type is fixed from here on.
	var count int64
	h.db.Model(&models.HealthRecord{}).Where("appointment_id = ?", ap.ID).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "record_already_exists", "This appointment already has a health record.")
		return
	}

	record := models.HealthRecord{
		AppointmentID: ap.ID,
		PatientID:     ap.PatientID,
		ProviderID:    doctorID,
		RecordType:    req.RecordType,
		Data:          req.Data,
	}

	if err := h.db.Create(&record).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "record_already_exists", "This appointment already has a health record.")
			return
		}
		httperr.Internal(c, "failed_to_create_record", "Could not save the health record.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "health_record_created",
		Entity:   "health_record",
		EntityID: &record.ID,
	})

	httpresp.Created(c, gin.H{"health_record": &record})
}

func (h *HealthRecordHandler) Update(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)
	recordID := c.Param("id")

	var req UpdateHealthRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var record models.HealthRecord
	if err := h.db.First(&record, "id = ?", recordID).Error; err != nil {
		httperr.NotFound(c, "record_not_found", "Health record not found.")
		return
	}

	if record.ProviderID != doctorID {
		httperr.Forbidden(c, "not_allowed", "Only the authoring doctor can edit this record.")
		return
	}

	if req.RecordType != record.RecordType {
		httperr.Conflict(c, "record_type_fixed", "A record's type cannot change once created.")
		return
	}

	record.Data = req.Data
	if err := h.db.Save(&record).Error; err != nil {
		httperr.Internal(c, "failed_to_update_record", "Could not update the health record.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "health_record_updated",
		Entity:   "health_record",
		EntityID: &record.ID,
	})

	httpresp.OK(c, gin.H{"health_record": &record})
}

// GetByAppointment returns 404 when the appointment has no record yet; the
// client maps that to "no record" rather than an error.
func (h *HealthRecordHandler) GetByAppointment(c *gin.Context) {
	callerID := c.MustGet(middleware.ContextUserID).(string)
	callerRole := c.MustGet(middleware.ContextUserRole).(string)

	appointmentID := c.Param("appointmentID")
	patientID := c.Param("patientID")

	var record models.HealthRecord
	if err := h.db.
		Where("appointment_id = ? AND patient_id = ?", appointmentID, patientID).
		First(&record).Error; err != nil {
		httperr.NotFound(c, "record_not_found", "No health record for this appointment.")
		return
	}

	if !h.mayRead(c, &record, callerID, callerRole) {
		httperr.Forbidden(c, "not_allowed", "You do not have access to this record.")
		return
	}

	httpresp.OK(c, gin.H{"health_record": &record})
}

// mayRead: the patient reads their own records; the authoring doctor reads
// theirs; any other doctor needs an active consent; admins pass.
func (h *HealthRecordHandler) mayRead(c *gin.Context, record *models.HealthRecord, callerID, callerRole string) bool {
	switch callerRole {
	case models.RoleAdmin:
		return true
	case models.RolePatient:
		return record.PatientID == callerID
	case models.RoleDoctor:
		if record.ProviderID == callerID {
			return true
		}
		var consents []models.Consent
		if err := h.db.
			Where("patient_id = ? AND doctor_id = ? AND status = ?",
				record.PatientID, callerID, string(domainconsent.StatusApproved)).
			Find(&consents).Error; err != nil {
			return false
		}
		now := time.Now().UTC()
		for i := range consents {
			if domainconsent.Active(&consents[i], now) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
