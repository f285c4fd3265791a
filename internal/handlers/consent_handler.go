package handlers

import (
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

type ConsentHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewConsentHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ConsentHandler {
	return &ConsentHandler{db: db, audit: dispatcher}
}

// --------- Requests ---------

type CreateConsentRequest struct {
	PatientID  string  `json:"patient_id" binding:"required"`
	RecordID   *string `json:"record_id"`
	RecordType string  `json:"type" binding:"required"`
	Purpose    string  `json:"purpose" binding:"required"`
}

// --------- Handlers ---------

// Create: a doctor asks a patient for access to records of a given type.
func (h *ConsentHandler) Create(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !models.ValidRecordType(req.RecordType) {
		httperr.BadRequest(c, "invalid_record_type", "type must be lab_results, medication or vitals.")
		return
	}

	var patient models.User
	if err := h.db.
		Where("id = ? AND role = ?", req.PatientID, models.RolePatient).
		First(&patient).Error; err != nil {
		httperr.NotFound(c, "patient_not_found", "Patient not found.")
		return
	}

	consent := models.Consent{
		PatientID:   patient.ID,
		DoctorID:    doctorID,
		RecordID:    req.RecordID,
		RecordType:  req.RecordType,
		Purpose:     req.Purpose,
		Status:      string(domainconsent.StatusPending),
		RequestDate: time.Now().UTC(),
	}

	if err := h.db.Create(&consent).Error; err != nil {
		httperr.Internal(c, "failed_to_create_consent", "Could not create the consent request.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "consent_requested",
		Entity:   "consent",
		EntityID: &consent.ID,
	})

	httpresp.Created(c, gin.H{"consent": &consent})
}

// DoctorRequests lists the requesting doctor's consent requests with the
// patient name denormalized, pending first.
func (h *ConsentHandler) DoctorRequests(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	var consents []models.Consent
	if err := h.db.
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("status = 'pending' DESC, request_date DESC").
		Find(&consents).Error; err != nil {
		httperr.Internal(c, "failed_to_list_consents", "Could not load consent requests.")
		return
	}

	out := make([]gin.H, 0, len(consents))
	for i := range consents {
		cs := &consents[i]
		out = append(out, gin.H{
			"id":           cs.ID,
			"patient_id":   cs.PatientID,
			"patient_name": cs.Patient.FirstName + " " + cs.Patient.LastName,
			"request_date": cs.RequestDate,
			"status":       cs.Status,
			"type":         cs.RecordType,
			"purpose":      cs.Purpose,
		})
	}

	httpresp.OK(c, gin.H{"consents": out})
}

// PatientRequests lists pending requests addressed to the calling patient.
func (h *ConsentHandler) PatientRequests(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)

	var consents []models.Consent
	if err := h.db.
		Preload("Doctor").
		Where("patient_id = ? AND status = ?", patientID, string(domainconsent.StatusPending)).
		Order("request_date DESC").
		Find(&consents).Error; err != nil {
		httperr.Internal(c, "failed_to_list_consents", "Could not load consent requests.")
		return
	}

	httpresp.OK(c, gin.H{"consents": consents})
}

// ActiveConsents lists the calling patient's currently active grants.
func (h *ConsentHandler) ActiveConsents(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)

	var consents []models.Consent
	if err := h.db.
		Preload("Doctor").
		Where("patient_id = ? AND status = ?", patientID, string(domainconsent.StatusApproved)).
		Order("granted_date DESC").
		Find(&consents).Error; err != nil {
		httperr.Internal(c, "failed_to_list_consents", "Could not load active consents.")
		return
	}

	now := time.Now().UTC()
	out := make([]gin.H, 0, len(consents))
	for i := range consents {
		cs := &consents[i]
		if !domainconsent.Active(cs, now) {
			continue
		}
		out = append(out, gin.H{
			"id":             cs.ID,
			"doctorId":       cs.DoctorID,
			"doctorName":     cs.Doctor.FirstName + " " + cs.Doctor.LastName,
			"specialization": cs.Doctor.Specialization,
			"grantedDate":    cs.GrantedDate,
			"expiryDate":     cs.ExpiryDate,
		})
	}

	httpresp.OK(c, gin.H{"consents": out})
}

func (h *ConsentHandler) Approve(c *gin.Context) {
	h.patientTransition(c, "consent_approved", func(cs *models.Consent) error {
		return domainconsent.Approve(cs, time.Now().UTC())
	})
}

func (h *ConsentHandler) Deny(c *gin.Context) {
	h.patientTransition(c, "consent_denied", domainconsent.Deny)
}

func (h *ConsentHandler) Revoke(c *gin.Context) {
	h.patientTransition(c, "consent_revoked", domainconsent.Revoke)
}

func (h *ConsentHandler) patientTransition(
	c *gin.Context,
	action string,
	apply func(*models.Consent) error,
) {
	patientID := c.MustGet(middleware.ContextUserID).(string)
	id := c.Param("id")

	var consent models.Consent
	if err := h.db.
		Where("id = ? AND patient_id = ?", id, patientID).
		First(&consent).Error; err != nil {
		httperr.NotFound(c, "consent_not_found", "Consent request not found.")
		return
	}

	if err := apply(&consent); err != nil {
		httperr.BadRequest(c, "invalid_state", "The consent request is not in a state that allows this.")
		return
	}

	if err := h.db.Save(&consent).Error; err != nil {
		httperr.Internal(c, "failed_to_update_consent", "Could not update the consent.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &patientID,
		Action:   action,
		Entity:   "consent",
		EntityID: &consent.ID,
	})

	httpresp.OK(c, gin.H{"consent": &consent})
}
