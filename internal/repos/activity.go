package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, record *types.ActivityRecord) (*types.ActivityRecord, error)
	// LatestByCategory returns (nil, nil) when the user has no activity in the
	// category.
	LatestByCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.ActivityCategory) (*types.ActivityRecord, error)
	LatestTutorUsage(ctx context.Context, tx *gorm.DB, userID, tutorID uuid.UUID) (*types.ActivityRecord, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(ctx context.Context, tx *gorm.DB, record *types.ActivityRecord) (*types.ActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *activityRepo) LatestByCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, category types.ActivityCategory) (*types.ActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var record types.ActivityRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND category = ?", userID, category).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *activityRepo) LatestTutorUsage(ctx context.Context, tx *gorm.DB, userID, tutorID uuid.UUID) (*types.ActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var record types.ActivityRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND category = ? AND tutor_id = ?", userID, types.ActivityTutorUsage, tutorID).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
