package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type SubscriptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sub *types.NotificationSubscription) (*types.NotificationSubscription, error)
	ActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.NotificationSubscription, error)
	Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	// DeactivateOwned only applies when the subscription belongs to userID;
	// the boolean reports whether a row was updated.
	DeactivateOwned(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (bool, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) Create(ctx context.Context, tx *gorm.DB, sub *types.NotificationSubscription) (*types.NotificationSubscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.Active = true
	if err := transaction.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *subscriptionRepo) ActiveByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.NotificationSubscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.NotificationSubscription
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *subscriptionRepo) Deactivate(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.NotificationSubscription{}).
		Where("id = ?", id).
		Update("active", false).Error
}

func (r *subscriptionRepo) DeactivateOwned(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.NotificationSubscription{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
