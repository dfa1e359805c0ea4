package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyhall-backend/internal/middleware"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type SubscriptionsHandler struct {
	subRepo repos.SubscriptionRepo
}

func NewSubscriptionsHandler(subRepo repos.SubscriptionRepo) *SubscriptionsHandler {
	return &SubscriptionsHandler{subRepo: subRepo}
}

type registerSubscriptionRequest struct {
	Endpoint   string `json:"endpoint" binding:"required"`
	P256dhKey  string `json:"p256dh_key"`
	AuthKey    string `json:"auth_key"`
	DeviceName string `json:"device_name"`
}

func (h *SubscriptionsHandler) Register(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	var req registerSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sub, err := h.subRepo.Create(c.Request.Context(), nil, &types.NotificationSubscription{
		UserID:     userID,
		Endpoint:   req.Endpoint,
		P256dhKey:  req.P256dhKey,
		AuthKey:    req.AuthKey,
		DeviceName: req.DeviceName,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "subscription_create_failed", err)
		return
	}
	RespondOK(c, gin.H{"subscription": sub})
}

func (h *SubscriptionsHandler) Unregister(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	subID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	ok, err = h.subRepo.DeactivateOwned(c.Request.Context(), nil, subID, userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "subscription_deactivate_failed", err)
		return
	}
	// Someone else's subscription looks like a missing one.
	if !ok {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	RespondOK(c, gin.H{"status": "deactivated"})
}
