package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type TutorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tutor *types.Tutor) (*types.Tutor, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Tutor, error)
}

type tutorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTutorRepo(db *gorm.DB, baseLog *logger.Logger) TutorRepo {
	return &tutorRepo{db: db, log: baseLog.With("repo", "TutorRepo")}
}

func (r *tutorRepo) Create(ctx context.Context, tx *gorm.DB, tutor *types.Tutor) (*types.Tutor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if tutor.ID == uuid.Nil {
		tutor.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(tutor).Error; err != nil {
		return nil, err
	}
	return tutor, nil
}

func (r *tutorRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Tutor, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Tutor
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
