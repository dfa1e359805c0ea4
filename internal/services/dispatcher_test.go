package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/studyhall-backend/internal/channels"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type stubSender struct {
	channel types.DeliveryChannel
	err     error

	mu    sync.Mutex
	calls int
}

func (s *stubSender) Channel() types.DeliveryChannel { return s.channel }

func (s *stubSender) Send(_ context.Context, _ *types.NotificationQueueItem) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.err
}

func (s *stubSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newDispatcher(env *testEnv, senders []channels.Sender) *DeliveryDispatcher {
	return NewDeliveryDispatcher(env.db, env.log, env.queueRepo, env.logRepo, env.eventRepo, senders, time.Minute)
}

func (e *testEnv) enqueueDue(t *testing.T, item *types.NotificationQueueItem) *types.NotificationQueueItem {
	t.Helper()
	if item.Title == "" {
		item.Title = "Test notification"
	}
	if item.Body == "" {
		item.Body = "Body"
	}
	if item.ScheduledFor.IsZero() {
		item.ScheduledFor = time.Now().Add(-time.Minute)
	}
	queued, err := e.queueRepo.Enqueue(context.Background(), nil, item)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return queued
}

func TestDispatcherChannelIsolation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)

	push := &stubSender{channel: types.ChannelPush, err: errors.New("endpoint gone")}
	email := &stubSender{channel: types.ChannelEmail}
	inApp := &stubSender{channel: types.ChannelInApp, err: channels.ErrNothingToDo}
	dispatcher := newDispatcher(env, []channels.Sender{push, email, inApp})

	item := env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:    user.ID,
		Class:     types.NotificationClassSystem,
		SendPush:  true,
		SendEmail: true,
		SendInApp: true,
	})

	if err := dispatcher.RunCycle(ctx); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	// One channel failing never fails the item.
	got, err := env.queueRepo.GetByID(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if got.Status != types.NotificationStatusDelivered {
		t.Fatalf("status = %s, want delivered", got.Status)
	}
	if got.DeliveredAt == nil {
		t.Fatal("delivered_at not set")
	}

	entries, err := env.logRepo.ListByNotificationID(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("list log: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 delivery log rows, got %d", len(entries))
	}
	byChannel := map[types.DeliveryChannel]*types.DeliveryLogEntry{}
	for _, entry := range entries {
		byChannel[entry.Channel] = entry
	}
	if e := byChannel[types.ChannelPush]; e == nil || e.Outcome != types.DeliveryOutcomeFailed || e.ErrorDetail == "" {
		t.Fatalf("push log entry = %+v, want failed with detail", byChannel[types.ChannelPush])
	}
	if e := byChannel[types.ChannelEmail]; e == nil || e.Outcome != types.DeliveryOutcomeSent {
		t.Fatalf("email log entry = %+v, want sent", byChannel[types.ChannelEmail])
	}
	if e := byChannel[types.ChannelInApp]; e == nil || e.Outcome != types.DeliveryOutcomeSkipped {
		t.Fatalf("in_app log entry = %+v, want skipped", byChannel[types.ChannelInApp])
	}
}

func TestDispatcherHonorsChannelFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)

	push := &stubSender{channel: types.ChannelPush}
	email := &stubSender{channel: types.ChannelEmail}
	inApp := &stubSender{channel: types.ChannelInApp}
	dispatcher := newDispatcher(env, []channels.Sender{push, email, inApp})

	item := env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:    user.ID,
		Class:     types.NotificationClassSystem,
		SendInApp: true,
	})

	if err := dispatcher.RunCycle(ctx); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if push.callCount() != 0 || email.callCount() != 0 {
		t.Fatalf("disabled channels invoked: push=%d email=%d", push.callCount(), email.callCount())
	}
	if inApp.callCount() != 1 {
		t.Fatalf("in_app calls = %d, want 1", inApp.callCount())
	}

	entries, err := env.logRepo.ListByNotificationID(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("list log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 delivery log row, got %d", len(entries))
	}
}

func TestDispatcherLeavesFutureItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)

	inApp := &stubSender{channel: types.ChannelInApp}
	dispatcher := newDispatcher(env, []channels.Sender{inApp})

	item := env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:       user.ID,
		Class:        types.NotificationClassSystem,
		SendInApp:    true,
		ScheduledFor: time.Now().Add(time.Hour),
	})

	if err := dispatcher.RunCycle(ctx); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if inApp.callCount() != 0 {
		t.Fatal("future item dispatched early")
	}
	got, err := env.queueRepo.GetByID(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if got.Status != types.NotificationStatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}
}

func TestDispatcherMarksCalendarReminderSent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)

	start := time.Now().Add(time.Hour)
	event, err := env.eventRepo.Create(ctx, nil, &types.CalendarEvent{
		UserID:    user.ID,
		Title:     "Biology review",
		Category:  types.CalendarCategoryStudy,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	inApp := &stubSender{channel: types.ChannelInApp}
	dispatcher := newDispatcher(env, []channels.Sender{inApp})

	eventID := event.ID
	env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:          user.ID,
		Class:           types.NotificationClassCalendarReminder,
		SendInApp:       true,
		CalendarEventID: &eventID,
	})

	if err := dispatcher.RunCycle(ctx); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	reloaded, err := env.eventRepo.GetByID(ctx, nil, event.ID)
	if err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if !reloaded.ReminderSent {
		t.Fatal("event not marked reminder_sent after delivery")
	}
}

func TestDispatcherReclaimsStaleItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)

	inApp := &stubSender{channel: types.ChannelInApp}
	dispatcher := newDispatcher(env, []channels.Sender{inApp})

	item := env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:    user.ID,
		Class:     types.NotificationClassSystem,
		SendInApp: true,
	})
	// Simulate a dispatcher that claimed the item and died mid-cycle.
	if claimed, err := env.queueRepo.Claim(ctx, nil, item.ID); err != nil || !claimed {
		t.Fatalf("claim: claimed=%v err=%v", claimed, err)
	}
	if err := env.db.Model(&types.NotificationQueueItem{}).
		Where("id = ?", item.ID).
		Update("updated_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate updated_at: %v", err)
	}

	if err := dispatcher.RunCycle(ctx); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	got, err := env.queueRepo.GetByID(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if got.Status != types.NotificationStatusDelivered {
		t.Fatalf("stale item not recovered: status = %s", got.Status)
	}
	if inApp.callCount() != 1 {
		t.Fatalf("in_app calls = %d, want 1", inApp.callCount())
	}
}
