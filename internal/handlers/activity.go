package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/studyhall-backend/internal/middleware"
	"github.com/yungbote/studyhall-backend/internal/services"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type ActivityHandler struct {
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

type trackActivityRequest struct {
	Category string         `json:"category" binding:"required"`
	TutorID  *uuid.UUID     `json:"tutor_id"`
	ToolType string         `json:"tool_type"`
	Subject  string         `json:"subject"`
	Metadata datatypes.JSON `json:"metadata"`
}

func (h *ActivityHandler) Track(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	var req trackActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	record, err := h.activityService.Track(c.Request.Context(), &types.ActivityRecord{
		UserID:   userID,
		Category: types.ActivityCategory(req.Category),
		TutorID:  req.TutorID,
		ToolType: req.ToolType,
		Subject:  req.Subject,
		Metadata: req.Metadata,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "track_failed", err)
		return
	}
	RespondOK(c, gin.H{"activity": record})
}
