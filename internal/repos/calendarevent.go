package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type CalendarEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.CalendarEvent) (*types.CalendarEvent, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CalendarEvent, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type calendarEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCalendarEventRepo(db *gorm.DB, baseLog *logger.Logger) CalendarEventRepo {
	return &calendarEventRepo{db: db, log: baseLog.With("repo", "CalendarEventRepo")}
}

func (r *calendarEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.CalendarEvent) (*types.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (r *calendarEventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var event types.CalendarEvent
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *calendarEventRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.CalendarEvent{}).
		Where("id = ?", id).
		Updates(updates).Error
}
