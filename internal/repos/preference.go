package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/types"
)

type PreferenceRepo interface {
	// GetByUserID returns (nil, nil) when no row exists; absence is not an
	// error at this layer.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.NotificationPreferences, error)
	Upsert(ctx context.Context, tx *gorm.DB, prefs *types.NotificationPreferences) (*types.NotificationPreferences, error)
}

type preferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	return &preferenceRepo{db: db, log: baseLog.With("repo", "PreferenceRepo")}
}

func (r *preferenceRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.NotificationPreferences, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var prefs types.NotificationPreferences
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (r *preferenceRepo) Upsert(ctx context.Context, tx *gorm.DB, prefs *types.NotificationPreferences) (*types.NotificationPreferences, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if prefs.ID == uuid.Nil {
		prefs.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"push_enabled", "email_enabled", "in_app_enabled",
				"calendar_reminders_enabled", "calendar_lead_minutes",
				"behavioral_hints_enabled", "tutor_disuse_days", "tool_disuse_days", "upload_nudge_days",
				"quota_warnings_enabled", "quota_threshold_pct",
				"quiet_hours_enabled", "quiet_hours_start", "quiet_hours_end",
				"updated_at",
			}),
		}).
		Create(prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}
