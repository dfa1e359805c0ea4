package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/middleware"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/services"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type CalendarHandler struct {
	log       *logger.Logger
	eventRepo repos.CalendarEventRepo
	reminders services.CalendarReminderService
}

func NewCalendarHandler(baseLog *logger.Logger, eventRepo repos.CalendarEventRepo, reminders services.CalendarReminderService) *CalendarHandler {
	return &CalendarHandler{
		log:       baseLog.With("handler", "CalendarHandler"),
		eventRepo: eventRepo,
		reminders: reminders,
	}
}

type createEventRequest struct {
	Title     string    `json:"title" binding:"required"`
	Category  string    `json:"category" binding:"required"`
	Subject   string    `json:"subject"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	event, err := h.eventRepo.Create(c.Request.Context(), nil, &types.CalendarEvent{
		UserID:    userID,
		Title:     req.Title,
		Category:  types.CalendarEventCategory(req.Category),
		Subject:   req.Subject,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "event_create_failed", err)
		return
	}

	// The event is the primary result; a reminder-path failure must not make
	// the caller retry (and duplicate) the event.
	if err := h.reminders.ScheduleReminder(c.Request.Context(), event); err != nil {
		h.log.Warn("Reminder scheduling failed for new event", "event_id", event.ID, "error", err)
	}
	RespondOK(c, gin.H{"event": event})
}

type moveEventRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
}

func (h *CalendarHandler) MoveEvent(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no_user", nil)
		return
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req moveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	event, err := h.eventRepo.GetByID(c.Request.Context(), nil, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "event_load_failed", err)
		return
	}
	// Absence and someone else's event look the same to the caller.
	if event.UserID != userID {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}

	if err := h.reminders.RescheduleReminder(c.Request.Context(), eventID, req.StartTime); err != nil {
		RespondError(c, http.StatusInternalServerError, "reschedule_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "rescheduled"})
}
