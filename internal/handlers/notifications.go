package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyhall-backend/internal/middleware"
	"github.com/yungbote/studyhall-backend/internal/services"
)

type NotificationsHandler struct {
	inbox services.InboxService
}

func NewNotificationsHandler(inbox services.InboxService) *NotificationsHandler {
	return &NotificationsHandler{inbox: inbox}
}

func (h *NotificationsHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.inbox.List(c.Request.Context(), userID, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "inbox_load_failed", err)
		return
	}
	RespondOK(c, gin.H{"notifications": items})
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.inbox.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		RespondError(c, http.StatusBadRequest, "mark_read_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "read"})
}
