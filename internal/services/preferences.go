package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
	"github.com/yungbote/studyhall-backend/internal/utils"
)

type PreferenceService interface {
	// Get never fails on absence: a user without a stored row gets the
	// documented defaults.
	Get(ctx context.Context, userID uuid.UUID) (*types.NotificationPreferences, error)
	Upsert(ctx context.Context, prefs *types.NotificationPreferences) (*types.NotificationPreferences, error)
}

type preferenceService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.PreferenceRepo
}

func NewPreferenceService(db *gorm.DB, baseLog *logger.Logger, repo repos.PreferenceRepo) PreferenceService {
	return &preferenceService{
		db:   db,
		log:  baseLog.With("service", "PreferenceService"),
		repo: repo,
	}
}

func (s *preferenceService) Get(ctx context.Context, userID uuid.UUID) (*types.NotificationPreferences, error) {
	prefs, err := s.repo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return types.DefaultNotificationPreferences(userID), nil
	}
	return prefs, nil
}

func (s *preferenceService) Upsert(ctx context.Context, prefs *types.NotificationPreferences) (*types.NotificationPreferences, error) {
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, nil, prefs)
}

func validatePreferences(prefs *types.NotificationPreferences) error {
	if prefs == nil || prefs.UserID == uuid.Nil {
		return fmt.Errorf("preferences require a user id")
	}
	switch prefs.CalendarLeadMinutes {
	case 5, 10, 15:
	default:
		return fmt.Errorf("calendar lead must be 5, 10 or 15 minutes, got %d", prefs.CalendarLeadMinutes)
	}
	if prefs.TutorDisuseDays <= 0 || prefs.ToolDisuseDays <= 0 || prefs.UploadNudgeDays <= 0 {
		return fmt.Errorf("behavioral thresholds must be positive")
	}
	if prefs.QuotaThresholdPct <= 0 || prefs.QuotaThresholdPct > 100 {
		return fmt.Errorf("quota threshold must be in (0, 100], got %d", prefs.QuotaThresholdPct)
	}
	if _, err := utils.ParseClock(prefs.QuietHoursStart); err != nil {
		return fmt.Errorf("quiet hours start: %w", err)
	}
	if _, err := utils.ParseClock(prefs.QuietHoursEnd); err != nil {
		return fmt.Errorf("quiet hours end: %w", err)
	}
	return nil
}
