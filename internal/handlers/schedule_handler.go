package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/httpresp"
	"github.com/carelinkhq/care-portal/internal/middleware"
	"github.com/carelinkhq/care-portal/internal/models"
	"github.com/carelinkhq/care-portal/internal/timezone"
)

// ScheduleHandler lets a doctor manage the weekly availability windows that
// feed the public availability query.
type ScheduleHandler struct {
	db *gorm.DB
}

func NewScheduleHandler(db *gorm.DB) *ScheduleHandler {
	return &ScheduleHandler{db: db}
}

type ScheduleEntry struct {
	Weekday     int    `json:"weekday" binding:"min=0,max=6"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	SlotMinutes int    `json:"slot_minutes"`
	Timezone    string `json:"timezone"`
	Active      bool   `json:"active"`
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	var entries []models.ProviderSchedule
	if err := h.db.
		Where("provider_id = ?", doctorID).
		Order("weekday ASC").
		Find(&entries).Error; err != nil {
		httperr.Internal(c, "failed_to_load_schedule", "Could not load the schedule.")
		return
	}

	httpresp.OK(c, gin.H{"schedule": entries})
}

// Update replaces the doctor's whole weekly schedule in one call.
func (h *ScheduleHandler) Update(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(string)

	var entries []ScheduleEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	for _, e := range entries {
		if e.Timezone != "" && !timezone.IsValid(e.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone: "+e.Timezone)
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("provider_id = ?", doctorID).
			Delete(&models.ProviderSchedule{}).Error; err != nil {
			return err
		}

		for _, e := range entries {
			sched := models.ProviderSchedule{
				ProviderID:  doctorID,
				Weekday:     e.Weekday,
				StartTime:   e.StartTime,
				EndTime:     e.EndTime,
				SlotMinutes: e.SlotMinutes,
				Timezone:    e.Timezone,
				Active:      e.Active,
			}
			if sched.SlotMinutes <= 0 {
				sched.SlotMinutes = 30
			}
			if err := tx.Create(&sched).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		httperr.Internal(c, "failed_to_update_schedule", "Could not save the schedule.")
		return
	}

	h.Get(c)
}
