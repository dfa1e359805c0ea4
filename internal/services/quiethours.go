package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/utils"
)

type QuietHoursService interface {
	// ResolveDeliveryTime defers a candidate instant that falls inside the
	// user's quiet-hours window to the window's end. Outside the window (or
	// with quiet hours disabled) the candidate passes through unchanged.
	ResolveDeliveryTime(ctx context.Context, userID uuid.UUID, candidate time.Time) time.Time
}

type quietHoursService struct {
	log   *logger.Logger
	prefs PreferenceService
}

func NewQuietHoursService(baseLog *logger.Logger, prefs PreferenceService) QuietHoursService {
	return &quietHoursService{
		log:   baseLog.With("service", "QuietHoursService"),
		prefs: prefs,
	}
}

func (s *quietHoursService) ResolveDeliveryTime(ctx context.Context, userID uuid.UUID, candidate time.Time) time.Time {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		// Best-effort: a preference read failure must not block delivery.
		s.log.Warn("Preference load failed, delivering at candidate time", "user_id", userID, "error", err)
		return candidate
	}
	if !prefs.QuietHoursEnabled {
		return candidate
	}

	start, err := utils.ParseClock(prefs.QuietHoursStart)
	if err != nil {
		s.log.Warn("Invalid quiet hours start, ignoring window", "user_id", userID, "error", err)
		return candidate
	}
	end, err := utils.ParseClock(prefs.QuietHoursEnd)
	if err != nil {
		s.log.Warn("Invalid quiet hours end, ignoring window", "user_id", userID, "error", err)
		return candidate
	}

	minute := utils.MinutesOfDay(candidate)
	if !utils.IsWithinWindow(minute, start, end) {
		return candidate
	}

	// Defer to the window's exact end time-of-day, dropping sub-minute
	// precision. On a midnight-wrapping window a candidate on the late side
	// rolls to the end time of the next calendar day.
	deferred := time.Date(candidate.Year(), candidate.Month(), candidate.Day(),
		end/60, end%60, 0, 0, candidate.Location())
	if start > end && minute >= start {
		deferred = deferred.AddDate(0, 0, 1)
	}
	return deferred
}
