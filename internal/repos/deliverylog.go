package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type DeliveryLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.DeliveryLogEntry) (*types.DeliveryLogEntry, error)
	ListByNotificationID(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) ([]*types.DeliveryLogEntry, error)
}

type deliveryLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeliveryLogRepo(db *gorm.DB, baseLog *logger.Logger) DeliveryLogRepo {
	return &deliveryLogRepo{db: db, log: baseLog.With("repo", "DeliveryLogRepo")}
}

func (r *deliveryLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.DeliveryLogEntry) (*types.DeliveryLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *deliveryLogRepo) ListByNotificationID(ctx context.Context, tx *gorm.DB, notificationID uuid.UUID) ([]*types.DeliveryLogEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.DeliveryLogEntry
	if err := transaction.WithContext(ctx).
		Where("notification_id = ?", notificationID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
