package realtime

import "context"

type SSEEvent string

const (
	SSEEventNotificationDelivered SSEEvent = "NotificationDelivered"
	SSEEventNotificationRead      SSEEvent = "NotificationRead"
)

// SSEMessage is addressed to a channel; for user-facing notification events
// the channel is the user id string.
type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// Emitter is anything that can push an SSEMessage toward connected clients:
// the in-process hub directly, or the redis bus when more than one process
// serves SSE streams.
type Emitter interface {
	Emit(ctx context.Context, msg SSEMessage)
}
