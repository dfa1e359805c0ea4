package bus

import (
	"context"

	"github.com/yungbote/studyhall-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

// BusEmitter adapts a Bus to the realtime.Emitter interface. Publish errors
// are swallowed: in-app fanout is best-effort and the inbox row is the durable
// record.
type BusEmitter struct{ Bus Bus }

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	_ = e.Bus.Publish(ctx, msg)
}
