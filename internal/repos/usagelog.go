package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type UsageLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.TokenUsageLog) (*types.TokenUsageLog, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.TokenUsageLog, error)
}

type usageLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsageLogRepo(db *gorm.DB, baseLog *logger.Logger) UsageLogRepo {
	return &usageLogRepo{db: db, log: baseLog.With("repo", "UsageLogRepo")}
}

func (r *usageLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.TokenUsageLog) (*types.TokenUsageLog, error) {
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

func (r *usageLogRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.TokenUsageLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.TokenUsageLog
	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
