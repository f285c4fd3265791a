package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/carelinkhq/care-portal/internal/cache"
	domain "github.com/carelinkhq/care-portal/internal/domain/appointment"
	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/httpresp"
	"github.com/carelinkhq/care-portal/internal/middleware"
	ucAppointment "github.com/carelinkhq/care-portal/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book         *ucAppointment.BookAppointment
	complete     *ucAppointment.CompleteAppointment
	cancel       *ucAppointment.CancelAppointment
	list         *ucAppointment.ListAppointments
	availability *ucAppointment.GetAvailability
	cache        *cache.Cache
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	complete *ucAppointment.CompleteAppointment,
	cancel *ucAppointment.CancelAppointment,
	list *ucAppointment.ListAppointments,
	availability *ucAppointment.GetAvailability,
	cc *cache.Cache,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:         book,
		complete:     complete,
		cancel:       cancel,
		list:         list,
		availability: availability,
		cache:        cc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	DateTime   string  `json:"date_time" binding:"required"`
	ProviderID *string `json:"provider_id"`
}

type AvailabilityRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	providerID := ""
	if req.ProviderID != nil {
		providerID = *req.ProviderID
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookAppointmentInput{
		PatientID:  patientID,
		ProviderID: providerID,
		DateTime:   req.DateTime,
	})
	if err != nil {
		mapBookErrors(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"message":     "Appointment booked.",
		"appointment": ap,
	})
}

func mapBookErrors(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "invalid_date_time"):
		httperr.BadRequest(c, "invalid_date_time", "date_time must be RFC3339.")
	case httperr.IsBusiness(err, "date_time_in_past"):
		httperr.BadRequest(c, "date_time_in_past", "Appointments cannot be booked in the past.")
	case httperr.IsBusiness(err, "provider_not_found"):
		httperr.BadRequest(c, "provider_not_found", "Unknown provider.")
	case httperr.IsBusiness(err, "time_conflict"):
		httperr.Conflict(c, "time_conflict", "The provider is no longer free at that time.")
	default:
		httperr.Internal(c, "failed_to_book_appointment", "Could not book the appointment.")
	}
}

// ======================================================
// LISTS
// ======================================================

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	h.listWith(c, domain.ListAll)
}

func (h *AppointmentHandler) ListUpcoming(c *gin.Context) {
	h.listWith(c, domain.ListUpcoming)
}

func (h *AppointmentHandler) ListPast(c *gin.Context) {
	h.listWith(c, domain.ListPast)
}

func (h *AppointmentHandler) listWith(c *gin.Context, filter domain.ListFilter) {
	callerID := c.MustGet(middleware.ContextUserID).(string)
	callerRole := c.MustGet(middleware.ContextUserRole).(string)

	aps, err := h.list.Execute(c.Request.Context(), callerID, callerRole, filter)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not load appointments.")
		return
	}

	httpresp.OK(c, gin.H{"appointments": aps})
}

// ======================================================
// AVAILABILITY (public)
// ======================================================

func (h *AppointmentHandler) Available(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	from, err := time.Parse(time.RFC3339, req.From)
	if err != nil {
		httperr.BadRequest(c, "invalid_from", "from must be RFC3339.")
		return
	}
	to, err := time.Parse(time.RFC3339, req.To)
	if err != nil {
		httperr.BadRequest(c, "invalid_to", "to must be RFC3339.")
		return
	}

	ctx := c.Request.Context()
	cacheKey := "portal:availability:" + req.From + ":" + req.To

	var available []domain.ProviderAvailability
	if !h.cache.GetJSON(ctx, cacheKey, &available) {
		available, err = h.availability.Execute(ctx, domain.AvailabilityInput{
			From: from,
			To:   to,
		})
		if err != nil {
			switch {
			case httperr.IsBusiness(err, "invalid_window"):
				httperr.BadRequest(c, "invalid_window", "to must be after from.")
			case httperr.IsBusiness(err, "window_too_large"):
				httperr.BadRequest(c, "window_too_large", "The requested window is too large.")
			default:
				httperr.Internal(c, "availability_failed", "Could not compute availability.")
			}
			return
		}
		h.cache.SetJSON(ctx, cacheKey, available, 30*time.Second)
	}

	httpresp.OK(c, gin.H{"available": available})
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, func(callerID, callerRole, id string) (any, error) {
		return h.cancel.Execute(c.Request.Context(), callerID, callerRole, id)
	})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, func(callerID, callerRole, id string) (any, error) {
		return h.complete.Execute(c.Request.Context(), callerID, callerRole, id)
	})
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	run func(callerID, callerRole, id string) (any, error),
) {
	callerID := c.MustGet(middleware.ContextUserID).(string)
	callerRole := c.MustGet(middleware.ContextUserRole).(string)
	id := c.Param("id")

	ap, err := run(callerID, callerRole, id)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case httperr.IsBusiness(err, "not_allowed"):
			httperr.Forbidden(c, "not_allowed", "You cannot change this appointment.")
		case httperr.IsBusiness(err, "invalid_state"):
			httperr.BadRequest(c, "invalid_state", "The appointment is already closed.")
		default:
			httperr.Internal(c, "failed_to_update_appointment", "Could not update the appointment.")
		}
		return
	}

	httpresp.OK(c, gin.H{"appointment": ap})
}
