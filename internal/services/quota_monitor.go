package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

const quotaWarningDedupWindow = 24 * time.Hour

type QuotaMonitor interface {
	// RecordUsageAndWarn logs the usage event unconditionally, then enqueues a
	// quota warning when remaining percentage is at or under the user's
	// threshold. At most one warning per user per 24 hours. Only a usage-log
	// write failure is returned; the warning path past it is best-effort.
	RecordUsageAndWarn(ctx context.Context, userID uuid.UUID, unitsUsed, unitsRemaining int64, kind string) error
}

type quotaMonitor struct {
	db         *gorm.DB
	log        *logger.Logger
	prefs      PreferenceService
	quietHours QuietHoursService
	usageRepo  repos.UsageLogRepo
	queueRepo  repos.NotificationQueueRepo
}

func NewQuotaMonitor(
	db *gorm.DB,
	baseLog *logger.Logger,
	prefs PreferenceService,
	quietHours QuietHoursService,
	usageRepo repos.UsageLogRepo,
	queueRepo repos.NotificationQueueRepo,
) QuotaMonitor {
	return &quotaMonitor{
		db:         db,
		log:        baseLog.With("service", "QuotaMonitor"),
		prefs:      prefs,
		quietHours: quietHours,
		usageRepo:  usageRepo,
		queueRepo:  queueRepo,
	}
}

func (m *quotaMonitor) RecordUsageAndWarn(ctx context.Context, userID uuid.UUID, unitsUsed, unitsRemaining int64, kind string) error {
	if _, err := m.usageRepo.Create(ctx, nil, &types.TokenUsageLog{
		UserID:         userID,
		Kind:           kind,
		UnitsUsed:      unitsUsed,
		UnitsRemaining: unitsRemaining,
	}); err != nil {
		return fmt.Errorf("log usage: %w", err)
	}

	// The metered action behind this call already succeeded, so from here on a
	// failure is logged and swallowed, never returned to the caller.
	prefs, err := m.prefs.Get(ctx, userID)
	if err != nil {
		m.log.Warn("Quota warning skipped, preference load failed", "user_id", userID, "error", err)
		return nil
	}
	if !prefs.QuotaWarningsEnabled {
		return nil
	}

	total := unitsUsed + unitsRemaining
	if total <= 0 {
		return nil
	}
	remainingPct := float64(unitsRemaining) / float64(total) * 100
	if remainingPct > float64(prefs.QuotaThresholdPct) {
		return nil
	}

	now := time.Now()
	exists, err := m.queueRepo.ExistsRecent(ctx, nil, userID, types.NotificationClassQuotaWarning, nil, now.Add(-quotaWarningDedupWindow))
	if err != nil {
		m.log.Warn("Quota warning skipped, dedup check failed", "user_id", userID, "error", err)
		return nil
	}
	if exists {
		m.log.Debug("Quota warning suppressed by dedup window", "user_id", userID)
		return nil
	}

	urgency := "low"
	switch {
	case remainingPct <= 5:
		urgency = "critical"
	case remainingPct <= 10:
		urgency = "high"
	}

	item := &types.NotificationQueueItem{
		UserID:    userID,
		Class:     types.NotificationClassQuotaWarning,
		SendPush:  prefs.PushEnabled,
		SendEmail: prefs.EmailEnabled,
		// Quota warnings always surface in-app, whatever the general toggle.
		SendInApp:    true,
		Title:        "Your study credits are running low",
		Body:         fmt.Sprintf("You have %d units left (%.0f%% of your quota). Top up to keep your sessions going.", unitsRemaining, remainingPct),
		DeepLink:     "/account/usage",
		Icon:         "quota",
		ScheduledFor: m.quietHours.ResolveDeliveryTime(ctx, userID, now),
		Metadata:     []byte(fmt.Sprintf(`{"urgency":%q,"kind":%q,"remaining_pct":%.2f}`, urgency, kind, remainingPct)),
	}
	if _, err := m.queueRepo.Enqueue(ctx, nil, item); err != nil {
		m.log.Warn("Failed to enqueue quota warning", "user_id", userID, "error", err)
		return nil
	}
	m.log.Info("Quota warning enqueued", "user_id", userID, "urgency", urgency)
	return nil
}
