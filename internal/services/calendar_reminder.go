package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type CalendarReminderService interface {
	// ScheduleReminder queues one calendar-reminder item lead-minutes before
	// the event start, quiet hours applied. No-op when the owner has calendar
	// reminders disabled.
	ScheduleReminder(ctx context.Context, event *types.CalendarEvent) error

	// RescheduleReminder cancels any live reminder for the event, moves the
	// event to newStart and schedules a fresh reminder. Safe to call
	// repeatedly: at most one non-cancelled reminder ever references an event.
	RescheduleReminder(ctx context.Context, eventID uuid.UUID, newStart time.Time) error
}

type calendarReminderService struct {
	db         *gorm.DB
	log        *logger.Logger
	prefs      PreferenceService
	quietHours QuietHoursService
	eventRepo  repos.CalendarEventRepo
	queueRepo  repos.NotificationQueueRepo
}

func NewCalendarReminderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	prefs PreferenceService,
	quietHours QuietHoursService,
	eventRepo repos.CalendarEventRepo,
	queueRepo repos.NotificationQueueRepo,
) CalendarReminderService {
	return &calendarReminderService{
		db:         db,
		log:        baseLog.With("service", "CalendarReminderService"),
		prefs:      prefs,
		quietHours: quietHours,
		eventRepo:  eventRepo,
		queueRepo:  queueRepo,
	}
}

func (s *calendarReminderService) ScheduleReminder(ctx context.Context, event *types.CalendarEvent) error {
	if event == nil || event.ID == uuid.Nil {
		return fmt.Errorf("event required")
	}

	prefs, err := s.prefs.Get(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if !prefs.CalendarRemindersEnabled {
		s.log.Debug("Calendar reminders disabled, skipping", "user_id", event.UserID, "event_id", event.ID)
		return nil
	}

	lead := time.Duration(prefs.CalendarLeadMinutes) * time.Minute
	candidate := event.StartTime.Add(-lead)
	scheduledFor := s.quietHours.ResolveDeliveryTime(ctx, event.UserID, candidate)

	eventID := event.ID
	item := &types.NotificationQueueItem{
		UserID:          event.UserID,
		Class:           types.NotificationClassCalendarReminder,
		SendPush:        prefs.PushEnabled,
		SendEmail:       prefs.EmailEnabled,
		SendInApp:       prefs.InAppEnabled,
		Title:           fmt.Sprintf("Upcoming: %s", event.Title),
		Body:            reminderBody(event, prefs.CalendarLeadMinutes),
		DeepLink:        fmt.Sprintf("/calendar/events/%s", event.ID),
		Icon:            "calendar",
		ScheduledFor:    scheduledFor,
		CalendarEventID: &eventID,
		Subject:         event.Subject,
	}
	if _, err := s.queueRepo.Enqueue(ctx, nil, item); err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}

	if err := s.eventRepo.UpdateFields(ctx, nil, event.ID, map[string]interface{}{
		"reminder_scheduled": true,
	}); err != nil {
		// The reminder is queued; a failed flag write only risks a duplicate
		// schedule attempt, which reschedule cleans up.
		s.log.Warn("Failed to mark event reminder_scheduled", "event_id", event.ID, "error", err)
	}

	s.log.Info("Calendar reminder scheduled",
		"event_id", event.ID,
		"user_id", event.UserID,
		"scheduled_for", scheduledFor,
	)
	return nil
}

func (s *calendarReminderService) RescheduleReminder(ctx context.Context, eventID uuid.UUID, newStart time.Time) error {
	live, err := s.queueRepo.ActiveByEventAndClass(ctx, nil, eventID, types.NotificationClassCalendarReminder)
	if err != nil {
		return fmt.Errorf("find live reminders: %w", err)
	}
	for _, item := range live {
		cancelled, err := s.queueRepo.Cancel(ctx, nil, item.ID)
		if err != nil {
			return fmt.Errorf("cancel reminder %s: %w", item.ID, err)
		}
		if !cancelled {
			// Claimed by the dispatcher between fetch and cancel; it will be
			// delivered against the old start time.
			s.log.Debug("Reminder already claimed, cannot cancel", "notification_id", item.ID)
		}
	}

	if err := s.eventRepo.UpdateFields(ctx, nil, eventID, map[string]interface{}{
		"start_time":         newStart,
		"reminder_scheduled": false,
		"reminder_sent":      false,
	}); err != nil {
		return fmt.Errorf("move event: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, nil, eventID)
	if err != nil {
		return fmt.Errorf("reload event: %w", err)
	}
	return s.ScheduleReminder(ctx, event)
}

func reminderBody(event *types.CalendarEvent, leadMinutes int) string {
	if event.Subject != "" {
		return fmt.Sprintf("Your %s session \"%s\" (%s) starts in %d minutes.",
			event.Category, event.Title, event.Subject, leadMinutes)
	}
	return fmt.Sprintf("Your %s session \"%s\" starts in %d minutes.",
		event.Category, event.Title, leadMinutes)
}
