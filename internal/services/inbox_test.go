package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/studyhall-backend/internal/realtime"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type captureEmitter struct {
	mu       sync.Mutex
	messages []realtime.SSEMessage
}

func (c *captureEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
}

func TestInboxListOnlyDeliveredInApp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	other := env.createUser(t)
	inbox := NewInboxService(env.db, env.log, env.queueRepo, env.logRepo, nil)

	delivered := env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:    user.ID,
		Class:     types.NotificationClassSystem,
		SendInApp: true,
	})
	if _, err := env.queueRepo.MarkDelivered(ctx, nil, delivered.ID); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	// Still pending: not listed.
	env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:    user.ID,
		Class:     types.NotificationClassSystem,
		SendInApp: true,
	})
	// Delivered but not in-app eligible: not listed.
	pushOnly := env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:   user.ID,
		Class:    types.NotificationClassSystem,
		SendPush: true,
	})
	if _, err := env.queueRepo.MarkDelivered(ctx, nil, pushOnly.ID); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	// Someone else's item: not listed.
	theirs := env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:    other.ID,
		Class:     types.NotificationClassSystem,
		SendInApp: true,
	})
	if _, err := env.queueRepo.MarkDelivered(ctx, nil, theirs.ID); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}

	items, err := inbox.List(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != delivered.ID {
		t.Fatalf("expected only the delivered in-app item, got %d items", len(items))
	}
}

func TestInboxMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	emitter := &captureEmitter{}
	inbox := NewInboxService(env.db, env.log, env.queueRepo, env.logRepo, emitter)

	item := env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:       user.ID,
		Class:        types.NotificationClassSystem,
		SendInApp:    true,
		ScheduledFor: time.Now().Add(-time.Minute),
	})
	if _, err := env.queueRepo.MarkDelivered(ctx, nil, item.ID); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}

	if err := inbox.MarkRead(ctx, user.ID, item.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	entries, err := env.logRepo.ListByNotificationID(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("list log: %v", err)
	}
	var opened int
	for _, entry := range entries {
		if entry.Outcome == types.DeliveryOutcomeOpened {
			opened++
		}
	}
	if opened != 1 {
		t.Fatalf("expected 1 opened entry, got %d", opened)
	}
	if len(emitter.messages) != 1 || emitter.messages[0].Event != realtime.SSEEventNotificationRead {
		t.Fatalf("expected a read event emit, got %+v", emitter.messages)
	}
	if emitter.messages[0].Channel != user.ID.String() {
		t.Fatalf("read event on wrong channel: %s", emitter.messages[0].Channel)
	}
}

func TestInboxMarkReadOwnershipCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t)
	intruder := env.createUser(t)
	inbox := NewInboxService(env.db, env.log, env.queueRepo, env.logRepo, nil)

	item := env.enqueueDue(t, &types.NotificationQueueItem{
		UserID:    owner.ID,
		Class:     types.NotificationClassSystem,
		SendInApp: true,
	})
	if err := inbox.MarkRead(ctx, intruder.ID, item.ID); err == nil {
		t.Fatal("expected ownership error, got nil")
	}
	entries, err := env.logRepo.ListByNotificationID(ctx, nil, item.ID)
	if err != nil {
		t.Fatalf("list log: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("ownership failure should not write log entries, got %d", len(entries))
	}
}
