package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/carelinkhq/care-portal/internal/httperr"
	"github.com/carelinkhq/care-portal/internal/httpresp"
	"github.com/carelinkhq/care-portal/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List is admin-only; newest first, optional entity filter.
func (h *AuditLogsHandler) List(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			httperr.BadRequest(c, "invalid_limit", "limit must be between 1 and 1000.")
			return
		}
		limit = n
	}

	q := h.db.Order("created_at DESC").Limit(limit)
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_audit_logs", "Could not load audit logs.")
		return
	}

	httpresp.OK(c, gin.H{"audit_logs": logs})
}
