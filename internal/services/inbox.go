package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/realtime"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

// InboxService is the read side of the queue: the delivered, in-app-eligible
// items a client renders, plus the mark-as-read action.
type InboxService interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*types.NotificationQueueItem, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type inboxService struct {
	db        *gorm.DB
	log       *logger.Logger
	queueRepo repos.NotificationQueueRepo
	logRepo   repos.DeliveryLogRepo
	emit      realtime.Emitter
}

func NewInboxService(
	db *gorm.DB,
	baseLog *logger.Logger,
	queueRepo repos.NotificationQueueRepo,
	logRepo repos.DeliveryLogRepo,
	emit realtime.Emitter,
) InboxService {
	return &inboxService{
		db:        db,
		log:       baseLog.With("service", "InboxService"),
		queueRepo: queueRepo,
		logRepo:   logRepo,
		emit:      emit,
	}
}

func (s *inboxService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*types.NotificationQueueItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.queueRepo.ListDeliveredInApp(ctx, nil, userID, limit)
}

func (s *inboxService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	item, err := s.queueRepo.GetByID(ctx, nil, notificationID)
	if err != nil {
		return fmt.Errorf("load notification: %w", err)
	}
	if item.UserID != userID {
		return fmt.Errorf("notification %s does not belong to user", notificationID)
	}

	if _, err := s.logRepo.Create(ctx, nil, &types.DeliveryLogEntry{
		NotificationID: item.ID,
		UserID:         userID,
		Channel:        types.ChannelInApp,
		Outcome:        types.DeliveryOutcomeOpened,
	}); err != nil {
		return fmt.Errorf("log opened: %w", err)
	}

	if s.emit != nil {
		s.emit.Emit(ctx, realtime.SSEMessage{
			Channel: userID.String(),
			Event:   realtime.SSEEventNotificationRead,
			Data:    map[string]any{"id": item.ID},
		})
	}
	return nil
}
