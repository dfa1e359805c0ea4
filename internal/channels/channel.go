package channels

import (
	"context"
	"errors"

	"github.com/yungbote/studyhall-backend/internal/types"
)

// ErrNothingToDo marks the "no work for this channel" outcome, e.g. a push
// send for a user with no active subscription. It is logged as skipped, never
// as a failure.
var ErrNothingToDo = errors.New("channel: nothing to do")

// Sender is one delivery mechanism. Implementations must be safe for
// concurrent use; the dispatcher invokes every enabled sender for an item in
// parallel and treats each outcome independently.
type Sender interface {
	Channel() types.DeliveryChannel
	Send(ctx context.Context, item *types.NotificationQueueItem) error
}
