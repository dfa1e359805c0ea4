package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/channels"
	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

const (
	dispatchBatchSize      = 50
	dispatchSendTimeout    = 15 * time.Second
	dispatchMaxConcurrent  = 8
	dispatchStaleInProcess = 30 * time.Minute
)

type channelOutcome struct {
	channel types.DeliveryChannel
	outcome types.DeliveryOutcome
	detail  string
}

// DeliveryDispatcher drains due queue items and fans each one out across its
// enabled channels. A channel failing is recorded in the delivery log and
// isolated from the other channels and from the item's status; only an
// engine-level error (a queue or log write failing) marks the item failed.
type DeliveryDispatcher struct {
	db        *gorm.DB
	log       *logger.Logger
	queueRepo repos.NotificationQueueRepo
	logRepo   repos.DeliveryLogRepo
	eventRepo repos.CalendarEventRepo
	senders   []channels.Sender
	interval  time.Duration
	sem       *semaphore.Weighted
}

func NewDeliveryDispatcher(
	db *gorm.DB,
	baseLog *logger.Logger,
	queueRepo repos.NotificationQueueRepo,
	logRepo repos.DeliveryLogRepo,
	eventRepo repos.CalendarEventRepo,
	senders []channels.Sender,
	interval time.Duration,
) *DeliveryDispatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DeliveryDispatcher{
		db:        db,
		log:       baseLog.With("service", "DeliveryDispatcher"),
		queueRepo: queueRepo,
		logRepo:   logRepo,
		eventRepo: eventRepo,
		senders:   senders,
		interval:  interval,
		sem:       semaphore.NewWeighted(dispatchMaxConcurrent),
	}
}

// Start runs one cycle immediately, then one per interval until ctx ends.
func (d *DeliveryDispatcher) Start(ctx context.Context) {
	go func() {
		if err := d.RunCycle(ctx); err != nil {
			d.log.Warn("Dispatch cycle failed", "error", err)
		}
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				d.log.Info("Delivery dispatcher stopped")
				return
			case <-ticker.C:
				if err := d.RunCycle(ctx); err != nil {
					d.log.Warn("Dispatch cycle failed", "error", err)
				}
			}
		}
	}()
}

func (d *DeliveryDispatcher) RunCycle(ctx context.Context) error {
	now := time.Now()

	if reclaimed, err := d.queueRepo.ReclaimStale(ctx, nil, now.Add(-dispatchStaleInProcess)); err != nil {
		d.log.Warn("Stale reclaim failed", "error", err)
	} else if reclaimed > 0 {
		d.log.Info("Reclaimed stale in-progress items", "count", reclaimed)
	}

	items, err := d.queueRepo.DueItems(ctx, nil, dispatchBatchSize, now)
	if err != nil {
		return fmt.Errorf("fetch due items: %w", err)
	}
	for _, item := range items {
		claimed, err := d.queueRepo.Claim(ctx, nil, item.ID)
		if err != nil {
			d.log.Warn("Claim failed", "notification_id", item.ID, "error", err)
			continue
		}
		if !claimed {
			// Another dispatcher got there first.
			continue
		}
		d.dispatchOne(ctx, item)
	}
	return nil
}

func (d *DeliveryDispatcher) dispatchOne(ctx context.Context, item *types.NotificationQueueItem) {
	outcomes := d.sendAll(ctx, item)

	engineErr := false
	for _, oc := range outcomes {
		if _, err := d.logRepo.Create(ctx, nil, &types.DeliveryLogEntry{
			NotificationID: item.ID,
			UserID:         item.UserID,
			Channel:        oc.channel,
			Outcome:        oc.outcome,
			ErrorDetail:    oc.detail,
		}); err != nil {
			d.log.Error("Delivery log write failed", "notification_id", item.ID, "channel", oc.channel, "error", err)
			engineErr = true
		}
	}

	if engineErr {
		if _, err := d.queueRepo.MarkFailed(ctx, nil, item.ID); err != nil {
			d.log.Error("MarkFailed failed", "notification_id", item.ID, "error", err)
		}
		return
	}

	if _, err := d.queueRepo.MarkDelivered(ctx, nil, item.ID); err != nil {
		d.log.Error("MarkDelivered failed", "notification_id", item.ID, "error", err)
		if _, err := d.queueRepo.MarkFailed(ctx, nil, item.ID); err != nil {
			d.log.Error("MarkFailed failed", "notification_id", item.ID, "error", err)
		}
		return
	}

	if item.Class == types.NotificationClassCalendarReminder && item.CalendarEventID != nil {
		if err := d.eventRepo.UpdateFields(ctx, nil, *item.CalendarEventID, map[string]interface{}{
			"reminder_sent": true,
		}); err != nil {
			d.log.Warn("Failed to mark event reminder_sent", "event_id", *item.CalendarEventID, "error", err)
		}
	}
}

// sendAll invokes every enabled channel concurrently, each under the shared
// semaphore and a per-send timeout so a hanging channel cannot stall the
// batch. One outcome per enabled channel comes back regardless of result.
func (d *DeliveryDispatcher) sendAll(ctx context.Context, item *types.NotificationQueueItem) []channelOutcome {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes []channelOutcome
	)

	for _, sender := range d.senders {
		if !channelEnabled(item, sender.Channel()) {
			continue
		}
		sender := sender
		wg.Add(1)
		go func() {
			defer wg.Done()
			oc := channelOutcome{channel: sender.Channel()}

			if err := d.sem.Acquire(ctx, 1); err != nil {
				oc.outcome = types.DeliveryOutcomeFailed
				oc.detail = err.Error()
			} else {
				sendCtx, cancel := context.WithTimeout(ctx, dispatchSendTimeout)
				err := sender.Send(sendCtx, item)
				cancel()
				d.sem.Release(1)

				switch {
				case err == nil:
					oc.outcome = types.DeliveryOutcomeSent
				case errors.Is(err, channels.ErrNothingToDo):
					oc.outcome = types.DeliveryOutcomeSkipped
				default:
					oc.outcome = types.DeliveryOutcomeFailed
					oc.detail = err.Error()
					d.log.Warn("Channel send failed",
						"notification_id", item.ID,
						"channel", sender.Channel(),
						"error", err,
					)
				}
			}

			mu.Lock()
			outcomes = append(outcomes, oc)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return outcomes
}

func channelEnabled(item *types.NotificationQueueItem, channel types.DeliveryChannel) bool {
	switch channel {
	case types.ChannelPush:
		return item.SendPush
	case types.ChannelEmail:
		return item.SendEmail
	case types.ChannelInApp:
		return item.SendInApp
	default:
		return false
	}
}
