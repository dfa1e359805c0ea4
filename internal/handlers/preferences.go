package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyhall-backend/internal/middleware"
	"github.com/yungbote/studyhall-backend/internal/services"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type PreferencesHandler struct {
	prefService services.PreferenceService
}

func NewPreferencesHandler(prefService services.PreferenceService) *PreferencesHandler {
	return &PreferencesHandler{prefService: prefService}
}

func (h *PreferencesHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	prefs, err := h.prefService.Get(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "preferences_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"preferences": prefs})
}

type updatePreferencesRequest struct {
	PushEnabled              bool   `json:"push_enabled"`
	EmailEnabled             bool   `json:"email_enabled"`
	InAppEnabled             bool   `json:"in_app_enabled"`
	CalendarRemindersEnabled bool   `json:"calendar_reminders_enabled"`
	CalendarLeadMinutes      int    `json:"calendar_lead_minutes" binding:"required"`
	BehavioralHintsEnabled   bool   `json:"behavioral_hints_enabled"`
	TutorDisuseDays          int    `json:"tutor_disuse_days" binding:"required"`
	ToolDisuseDays           int    `json:"tool_disuse_days" binding:"required"`
	UploadNudgeDays          int    `json:"upload_nudge_days" binding:"required"`
	QuotaWarningsEnabled     bool   `json:"quota_warnings_enabled"`
	QuotaThresholdPct        int    `json:"quota_threshold_pct" binding:"required"`
	QuietHoursEnabled        bool   `json:"quiet_hours_enabled"`
	QuietHoursStart          string `json:"quiet_hours_start" binding:"required"`
	QuietHoursEnd            string `json:"quiet_hours_end" binding:"required"`
}

func (h *PreferencesHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	prefs, err := h.prefService.Upsert(c.Request.Context(), &types.NotificationPreferences{
		UserID:                   userID,
		PushEnabled:              req.PushEnabled,
		EmailEnabled:             req.EmailEnabled,
		InAppEnabled:             req.InAppEnabled,
		CalendarRemindersEnabled: req.CalendarRemindersEnabled,
		CalendarLeadMinutes:      req.CalendarLeadMinutes,
		BehavioralHintsEnabled:   req.BehavioralHintsEnabled,
		TutorDisuseDays:          req.TutorDisuseDays,
		ToolDisuseDays:           req.ToolDisuseDays,
		UploadNudgeDays:          req.UploadNudgeDays,
		QuotaWarningsEnabled:     req.QuotaWarningsEnabled,
		QuotaThresholdPct:        req.QuotaThresholdPct,
		QuietHoursEnabled:        req.QuietHoursEnabled,
		QuietHoursStart:          req.QuietHoursStart,
		QuietHoursEnd:            req.QuietHoursEnd,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_preferences", err)
		return
	}
	RespondOK(c, gin.H{"preferences": prefs})
}
