package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

// ActivityService is the trackActivity surface feature modules call after a
// tutor exchange, a study-tool use, an upload, a login or a session.
type ActivityService interface {
	Track(ctx context.Context, record *types.ActivityRecord) (*types.ActivityRecord, error)
}

type activityService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ActivityRepo
}

func NewActivityService(db *gorm.DB, baseLog *logger.Logger, repo repos.ActivityRepo) ActivityService {
	return &activityService{
		db:   db,
		log:  baseLog.With("service", "ActivityService"),
		repo: repo,
	}
}

func (s *activityService) Track(ctx context.Context, record *types.ActivityRecord) (*types.ActivityRecord, error) {
	if record == nil || record.UserID == uuid.Nil {
		return nil, fmt.Errorf("activity record requires a user id")
	}
	switch record.Category {
	case types.ActivityTutorUsage, types.ActivityToolUsage, types.ActivityUpload,
		types.ActivityLogin, types.ActivitySession:
	default:
		return nil, fmt.Errorf("unknown activity category %q", record.Category)
	}
	return s.repo.Create(ctx, nil, record)
}
