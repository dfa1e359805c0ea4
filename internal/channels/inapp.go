package channels

import (
	"context"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/realtime"
	"github.com/yungbote/studyhall-backend/internal/types"
)

// InAppSender makes a delivered item visible in the user's inbox immediately
// by emitting a realtime event on the user's channel. The inbox read model is
// the queue row itself, so emission is best-effort: a user with no open
// session sees the item on next inbox fetch.
type InAppSender struct {
	log  *logger.Logger
	emit realtime.Emitter
}

func NewInAppSender(baseLog *logger.Logger, emit realtime.Emitter) *InAppSender {
	return &InAppSender{
		log:  baseLog.With("channel", "in_app"),
		emit: emit,
	}
}

func (s *InAppSender) Channel() types.DeliveryChannel { return types.ChannelInApp }

func (s *InAppSender) Send(ctx context.Context, item *types.NotificationQueueItem) error {
	if s.emit == nil {
		return ErrNothingToDo
	}
	s.emit.Emit(ctx, realtime.SSEMessage{
		Channel: item.UserID.String(),
		Event:   realtime.SSEEventNotificationDelivered,
		Data: map[string]any{
			"id":        item.ID,
			"class":     item.Class,
			"title":     item.Title,
			"body":      item.Body,
			"deep_link": item.DeepLink,
			"icon":      item.Icon,
		},
	})
	return nil
}
