package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyhall-backend/internal/middleware"
	"github.com/yungbote/studyhall-backend/internal/services"
)

type UsageHandler struct {
	quota services.QuotaMonitor
}

func NewUsageHandler(quota services.QuotaMonitor) *UsageHandler {
	return &UsageHandler{quota: quota}
}

type recordUsageRequest struct {
	UnitsUsed      int64  `json:"units_used" binding:"required"`
	UnitsRemaining *int64 `json:"units_remaining" binding:"required"`
	Kind           string `json:"kind" binding:"required"`
}

// Record is best-effort beyond the usage log itself: the metered action that
// triggered it already succeeded, so a warning-path failure is logged inside
// the monitor and does not fail the request.
func (h *UsageHandler) Record(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	var req recordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.quota.RecordUsageAndWarn(c.Request.Context(), userID, req.UnitsUsed, *req.UnitsRemaining, req.Kind); err != nil {
		RespondError(c, http.StatusInternalServerError, "usage_record_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "recorded"})
}
