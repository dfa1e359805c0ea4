package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type stubReminderService struct {
	scheduleErr error
	scheduled   []uuid.UUID
	rescheduled []uuid.UUID
}

func (s *stubReminderService) ScheduleReminder(_ context.Context, event *types.CalendarEvent) error {
	s.scheduled = append(s.scheduled, event.ID)
	return s.scheduleErr
}

func (s *stubReminderService) RescheduleReminder(_ context.Context, eventID uuid.UUID, _ time.Time) error {
	s.rescheduled = append(s.rescheduled, eventID)
	return nil
}

func createEventBody(start time.Time) string {
	return fmt.Sprintf(`{"title":"Mock exam","category":"exam","start_time":%q,"end_time":%q}`,
		start.Format(time.RFC3339), start.Add(time.Hour).Format(time.RFC3339))
}

// A reminder-path failure must not fail event creation: the event is already
// persisted, and a 500 would invite a duplicate-creating retry.
func TestCreateEventSucceedsWhenReminderFails(t *testing.T) {
	gdb, log := newHandlerDB(t)
	eventRepo := repos.NewCalendarEventRepo(gdb, log)
	reminders := &stubReminderService{scheduleErr: errors.New("queue unavailable")}
	h := NewCalendarHandler(log, eventRepo, reminders)
	userID := uuid.New()

	start := time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC)
	w := performAs(t, log, h.CreateEvent, http.MethodPost, "/api/calendar/events", createEventBody(start), userID, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"event"`) {
		t.Fatalf("response should carry the created event: %s", w.Body.String())
	}
	if len(reminders.scheduled) != 1 {
		t.Fatalf("schedule attempts = %d, want 1", len(reminders.scheduled))
	}

	var count int64
	if err := gdb.Model(&types.CalendarEvent{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the event persisted, got %d rows", count)
	}
}

func TestMoveEventOwnership(t *testing.T) {
	gdb, log := newHandlerDB(t)
	eventRepo := repos.NewCalendarEventRepo(gdb, log)
	reminders := &stubReminderService{}
	h := NewCalendarHandler(log, eventRepo, reminders)

	owner := uuid.New()
	intruder := uuid.New()
	start := time.Date(2026, time.April, 2, 14, 0, 0, 0, time.UTC)
	event, err := eventRepo.Create(context.Background(), nil, &types.CalendarEvent{
		UserID:    owner,
		Title:     "Mock exam",
		Category:  types.CalendarCategoryExam,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	body := fmt.Sprintf(`{"start_time":%q}`, start.Add(24*time.Hour).Format(time.RFC3339))
	params := gin.Params{{Key: "id", Value: event.ID.String()}}

	w := performAs(t, log, h.MoveEvent, http.MethodPut, "/api/calendar/events/"+event.ID.String(), body, intruder, params)
	if w.Code != http.StatusNotFound {
		t.Fatalf("intruder move status = %d, want 404", w.Code)
	}
	if len(reminders.rescheduled) != 0 {
		t.Fatal("intruder move reached the reminder service")
	}

	w = performAs(t, log, h.MoveEvent, http.MethodPut, "/api/calendar/events/"+event.ID.String(), body, owner, params)
	if w.Code != http.StatusOK {
		t.Fatalf("owner move status = %d, want 200", w.Code)
	}
	if len(reminders.rescheduled) != 1 || reminders.rescheduled[0] != event.ID {
		t.Fatalf("owner move did not reschedule: %v", reminders.rescheduled)
	}
}

func TestMoveEventUnknownID(t *testing.T) {
	gdb, log := newHandlerDB(t)
	eventRepo := repos.NewCalendarEventRepo(gdb, log)
	h := NewCalendarHandler(log, eventRepo, &stubReminderService{})

	body := fmt.Sprintf(`{"start_time":%q}`, time.Now().Add(time.Hour).Format(time.RFC3339))
	unknown := uuid.New()
	params := gin.Params{{Key: "id", Value: unknown.String()}}
	w := performAs(t, log, h.MoveEvent, http.MethodPut, "/api/calendar/events/"+unknown.String(), body, uuid.New(), params)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown event status = %d, want 404", w.Code)
	}
}
