package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/repos"
	"github.com/yungbote/studyhall-backend/internal/types"
)

const behavioralDedupWindow = 24 * time.Hour

// BehaviorScanner walks every user with behavioral hints enabled and enqueues
// a nudge for each inactivity threshold that is crossed: per-tutor disuse,
// study-tool disuse and upload disuse, each judged independently. The scanner
// carries its own 24h dedup guard per (user, class, tutor) so an extra run
// within a day cannot duplicate tips.
type BehaviorScanner struct {
	db           *gorm.DB
	log          *logger.Logger
	prefs        PreferenceService
	quietHours   QuietHoursService
	userRepo     repos.UserRepo
	tutorRepo    repos.TutorRepo
	activityRepo repos.ActivityRepo
	queueRepo    repos.NotificationQueueRepo
	interval     time.Duration
}

func NewBehaviorScanner(
	db *gorm.DB,
	baseLog *logger.Logger,
	prefs PreferenceService,
	quietHours QuietHoursService,
	userRepo repos.UserRepo,
	tutorRepo repos.TutorRepo,
	activityRepo repos.ActivityRepo,
	queueRepo repos.NotificationQueueRepo,
	interval time.Duration,
) *BehaviorScanner {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &BehaviorScanner{
		db:           db,
		log:          baseLog.With("service", "BehaviorScanner"),
		prefs:        prefs,
		quietHours:   quietHours,
		userRepo:     userRepo,
		tutorRepo:    tutorRepo,
		activityRepo: activityRepo,
		queueRepo:    queueRepo,
		interval:     interval,
	}
}

// Start runs one scan immediately, then one per interval until ctx ends.
func (s *BehaviorScanner) Start(ctx context.Context) {
	go func() {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("Behavior scan failed", "error", err)
		}
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("Behavior scanner stopped")
				return
			case <-ticker.C:
				if err := s.RunOnce(ctx); err != nil {
					s.log.Warn("Behavior scan failed", "error", err)
				}
			}
		}
	}()
}

func (s *BehaviorScanner) RunOnce(ctx context.Context) error {
	users, err := s.userRepo.ListAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	tutors, err := s.tutorRepo.ListActive(ctx, nil)
	if err != nil {
		return fmt.Errorf("list tutors: %w", err)
	}

	now := time.Now()
	for _, user := range users {
		prefs, err := s.prefs.Get(ctx, user.ID)
		if err != nil {
			s.log.Warn("Skipping user, preference load failed", "user_id", user.ID, "error", err)
			continue
		}
		if !prefs.BehavioralHintsEnabled {
			continue
		}
		s.scanTutorDisuse(ctx, user, tutors, prefs, now)
		s.scanToolDisuse(ctx, user, prefs, now)
		s.scanUploadDisuse(ctx, user, prefs, now)
	}
	return nil
}

func (s *BehaviorScanner) scanTutorDisuse(ctx context.Context, user *types.User, tutors []*types.Tutor, prefs *types.NotificationPreferences, now time.Time) {
	for _, tutor := range tutors {
		last, err := s.activityRepo.LatestTutorUsage(ctx, nil, user.ID, tutor.ID)
		if err != nil {
			s.log.Warn("Tutor usage lookup failed", "user_id", user.ID, "tutor_id", tutor.ID, "error", err)
			continue
		}
		days := daysSince(last, now)
		if days < prefs.TutorDisuseDays {
			continue
		}

		tutorID := tutor.ID
		exists, err := s.queueRepo.ExistsRecent(ctx, nil, user.ID, types.NotificationClassBehavioralTip, &tutorID, now.Add(-behavioralDedupWindow))
		if err != nil || exists {
			continue
		}

		item := &types.NotificationQueueItem{
			UserID:       user.ID,
			Class:        types.NotificationClassBehavioralTip,
			SendPush:     prefs.PushEnabled,
			SendEmail:    prefs.EmailEnabled,
			SendInApp:    prefs.InAppEnabled,
			Title:        fmt.Sprintf("%s misses you", tutor.Name),
			Body:         tutorTipBody(tutor),
			DeepLink:     fmt.Sprintf("/tutors/%s", tutor.ID),
			Icon:         "tutor",
			ScheduledFor: s.quietHours.ResolveDeliveryTime(ctx, user.ID, now),
			TutorID:      &tutorID,
			Subject:      tutor.Subject,
		}
		if _, err := s.queueRepo.Enqueue(ctx, nil, item); err != nil {
			s.log.Warn("Failed to enqueue tutor tip", "user_id", user.ID, "tutor_id", tutor.ID, "error", err)
			continue
		}
		s.log.Info("Tutor disuse tip enqueued", "user_id", user.ID, "tutor_id", tutor.ID, "days", days)
	}
}

func (s *BehaviorScanner) scanToolDisuse(ctx context.Context, user *types.User, prefs *types.NotificationPreferences, now time.Time) {
	last, err := s.activityRepo.LatestByCategory(ctx, nil, user.ID, types.ActivityToolUsage)
	if err != nil {
		s.log.Warn("Tool usage lookup failed", "user_id", user.ID, "error", err)
		return
	}
	if daysSince(last, now) < prefs.ToolDisuseDays {
		return
	}
	exists, err := s.queueRepo.ExistsRecent(ctx, nil, user.ID, types.NotificationClassToolReminder, nil, now.Add(-behavioralDedupWindow))
	if err != nil || exists {
		return
	}
	item := &types.NotificationQueueItem{
		UserID:       user.ID,
		Class:        types.NotificationClassToolReminder,
		SendPush:     prefs.PushEnabled,
		SendEmail:    prefs.EmailEnabled,
		SendInApp:    prefs.InAppEnabled,
		Title:        "Your study tools are gathering dust",
		Body:         pickVariant(toolReminderBodies),
		DeepLink:     "/tools",
		Icon:         "tools",
		ScheduledFor: s.quietHours.ResolveDeliveryTime(ctx, user.ID, now),
	}
	if _, err := s.queueRepo.Enqueue(ctx, nil, item); err != nil {
		s.log.Warn("Failed to enqueue tool reminder", "user_id", user.ID, "error", err)
		return
	}
	s.log.Info("Tool disuse reminder enqueued", "user_id", user.ID)
}

func (s *BehaviorScanner) scanUploadDisuse(ctx context.Context, user *types.User, prefs *types.NotificationPreferences, now time.Time) {
	last, err := s.activityRepo.LatestByCategory(ctx, nil, user.ID, types.ActivityUpload)
	if err != nil {
		s.log.Warn("Upload lookup failed", "user_id", user.ID, "error", err)
		return
	}
	if daysSince(last, now) < prefs.UploadNudgeDays {
		return
	}
	exists, err := s.queueRepo.ExistsRecent(ctx, nil, user.ID, types.NotificationClassUploadNudge, nil, now.Add(-behavioralDedupWindow))
	if err != nil || exists {
		return
	}
	item := &types.NotificationQueueItem{
		UserID:       user.ID,
		Class:        types.NotificationClassUploadNudge,
		SendPush:     prefs.PushEnabled,
		SendEmail:    prefs.EmailEnabled,
		SendInApp:    prefs.InAppEnabled,
		Title:        "Got new material to study?",
		Body:         pickVariant(uploadNudgeBodies),
		DeepLink:     "/library/upload",
		Icon:         "upload",
		ScheduledFor: s.quietHours.ResolveDeliveryTime(ctx, user.ID, now),
	}
	if _, err := s.queueRepo.Enqueue(ctx, nil, item); err != nil {
		s.log.Warn("Failed to enqueue upload nudge", "user_id", user.ID, "error", err)
		return
	}
	s.log.Info("Upload nudge enqueued", "user_id", user.ID)
}

// daysSince treats "never" as effectively infinite so a threshold is always
// exceeded for a user who has not touched the category at all.
func daysSince(last *types.ActivityRecord, now time.Time) int {
	if last == nil {
		return math.MaxInt32
	}
	return int(now.Sub(last.CreatedAt).Hours() / 24)
}

var tutorTipTemplates = []string{
	"It's been a while since your last session with %s. A quick refresher keeps %s concepts fresh.",
	"%s has new practice questions waiting for you in %s.",
	"Pick up where you left off with %s — short, regular sessions beat cramming in %s.",
}

func tutorTipBody(tutor *types.Tutor) string {
	subject := tutor.Subject
	if subject == "" {
		subject = "your subject"
	}
	return fmt.Sprintf(pickVariant(tutorTipTemplates), tutor.Name, subject)
}

var toolReminderBodies = []string{
	"Your flashcards, mind maps and notes are waiting. Ten minutes with a study tool goes a long way.",
	"It's been a while since you used a study tool. Revisit your flashcards to keep things fresh.",
	"Mind maps and notes work best when they grow with you. Open a study tool and add what you learned recently.",
}

var uploadNudgeBodies = []string{
	"Upload your latest lecture notes or slides and we'll fold them into your study plan.",
	"New handouts from class? Add them to your library so your sessions stay up to date.",
	"Your library hasn't seen new material in a while. Upload something recent to study from.",
}

func pickVariant(variants []string) string {
	return variants[rand.Intn(len(variants))]
}
